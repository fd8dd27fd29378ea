package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Firmador-api/internal/application/billing"
	"github.com/jhoicas/Firmador-api/internal/application/documents"
	"github.com/jhoicas/Firmador-api/internal/application/dto"
	"github.com/jhoicas/Firmador-api/internal/application/signature"
)

// StatsHandler contadores del tablero principal.
type StatsHandler struct {
	docs     *documents.DocumentUseCase
	invoices *billing.CreateInvoiceUseCase
	sign     *signature.SignUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(docs *documents.DocumentUseCase, invoices *billing.CreateInvoiceUseCase, sign *signature.SignUseCase) *StatsHandler {
	return &StatsHandler{docs: docs, invoices: invoices, sign: sign}
}

// Stats totales de documentos, facturas y firmas.
// GET /api/stats
func (h *StatsHandler) Stats(c *fiber.Ctx) error {
	totalDocs, err := h.docs.Count(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	totalInvoices, err := h.invoices.Count(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	records, err := h.sign.ListSignatures(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.StatsResponse{
		TotalDocuments:  totalDocs,
		TotalInvoices:   totalInvoices,
		TotalSignatures: len(records),
	})
}
