package dto

import "github.com/shopspring/decimal"

// PartyRequest emisor o receptor en la creación de factura.
type PartyRequest struct {
	TaxCode string `json:"tax_code"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// InvoiceItemRequest línea de factura.
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	Unit        string          `json:"unit,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// VATRate es una fracción (0.10 = 10%); si va en cero se aplica la tasa
// general de Vietnam.
type CreateInvoiceRequest struct {
	Seller        PartyRequest         `json:"seller_info"`
	Buyer         PartyRequest         `json:"buyer_info"`
	Items         []InvoiceItemRequest `json:"items"`
	VATRate       decimal.Decimal      `json:"vat_rate,omitempty"`
	Currency      string               `json:"currency,omitempty"`
	PaymentMethod string               `json:"payment_method"`
	Notes         string               `json:"notes,omitempty"`
}

// InvoiceResponse factura en respuestas de la API.
type InvoiceResponse struct {
	ID            string               `json:"invoice_id"`
	Number        string               `json:"invoice_number"`
	Date          string               `json:"invoice_date"`
	Seller        PartyRequest         `json:"seller_info"`
	Buyer         PartyRequest         `json:"buyer_info"`
	Items         []InvoiceItemRequest `json:"items"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	VATRate       decimal.Decimal      `json:"vat_rate"`
	VATAmount     decimal.Decimal      `json:"vat_amount"`
	Total         decimal.Decimal      `json:"total"`
	Currency      string               `json:"currency"`
	PaymentMethod string               `json:"payment_method"`
	Notes         string               `json:"notes,omitempty"`
	SignatureID   string               `json:"signature_id,omitempty"`
	Status        string               `json:"status"`
}

// InvoiceListResponse envoltorio de listados.
type InvoiceListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
}
