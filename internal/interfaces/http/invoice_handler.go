package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Firmador-api/internal/application/billing"
	"github.com/jhoicas/Firmador-api/internal/application/dto"
	"github.com/jhoicas/Firmador-api/internal/domain/entity"
)

// InvoiceHandler facturación electrónica.
type InvoiceHandler struct {
	uc *billing.CreateInvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.CreateInvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create crea una factura: totales, XML, PDF y firma digital del XML.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.uc.CreateInvoice(c.Context(), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoiceResponseFrom(invoice))
}

// List lista las facturas emitidas.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	invoices, err := h.uc.ListInvoices(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	out := dto.InvoiceListResponse{Invoices: make([]dto.InvoiceResponse, 0, len(invoices))}
	for _, inv := range invoices {
		out.Invoices = append(out.Invoices, invoiceResponseFrom(inv))
	}
	return c.JSON(out)
}

// GetByID obtiene una factura por ID.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.uc.GetInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(invoiceResponseFrom(invoice))
}

// DownloadXML descarga el XML tributario de la factura.
// GET /api/invoices/:id/xml
func (h *InvoiceHandler) DownloadXML(c *fiber.Ctx) error {
	invoice, err := h.uc.GetInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Download(invoice.XMLPath, invoice.Number+".xml")
}

// DownloadPDF descarga la representación PDF de la factura.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	invoice, err := h.uc.GetInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Download(invoice.PDFPath, invoice.Number+".pdf")
}

func invoiceResponseFrom(inv *entity.Invoice) dto.InvoiceResponse {
	items := make([]dto.InvoiceItemRequest, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, dto.InvoiceItemRequest{
			Description: it.Description,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return dto.InvoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		Date:          inv.Date.Format(time.RFC3339),
		Seller:        partyResponseFrom(inv.Seller),
		Buyer:         partyResponseFrom(inv.Buyer),
		Items:         items,
		Subtotal:      inv.Subtotal,
		VATRate:       inv.VATRate,
		VATAmount:     inv.VATAmount,
		Total:         inv.Total,
		Currency:      inv.Currency,
		PaymentMethod: inv.PaymentMethod,
		Notes:         inv.Notes,
		SignatureID:   inv.SignatureID,
		Status:        inv.Status,
	}
}

func partyResponseFrom(p entity.Party) dto.PartyRequest {
	return dto.PartyRequest{
		TaxCode: p.TaxCode,
		Name:    p.Name,
		Address: p.Address,
		Phone:   p.Phone,
		Email:   p.Email,
	}
}
