package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura electrónica.
const (
	InvoiceStatusGenerated = "generated"  // XML y PDF generados, sin firmar
	InvoiceStatusSigned    = "signed"     // XML firmado digitalmente
	InvoiceStatusErrorSign = "ERROR_SIGN" // Falló la firma del XML
)

// Party emisor o receptor de la factura (Decreto 70/2025/ND-CP).
type Party struct {
	TaxCode string
	Name    string
	Address string
	Phone   string
	Email   string
}

// InvoiceItem línea de detalle de la factura.
type InvoiceItem struct {
	Description string          `json:"description"`
	Unit        string          `json:"unit,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"` // Quantity * UnitPrice
}

// Invoice cabecera y detalle de una factura electrónica.
type Invoice struct {
	ID            string
	Number        string // INV-YYYYMMDD-NNNNN
	Date          time.Time
	Seller        Party
	Buyer         Party
	Items         []InvoiceItem
	Subtotal      decimal.Decimal
	VATRate       decimal.Decimal // Fracción (0.10 = 10%, tasa general de Vietnam)
	VATAmount     decimal.Decimal
	Total         decimal.Decimal
	Currency      string
	PaymentMethod string
	Notes         string
	XMLPath       string
	PDFPath       string
	SignatureID   string // ID del registro de firma del XML (vacío si no se firmó)
	Status        string
	CreatedAt     time.Time
}
