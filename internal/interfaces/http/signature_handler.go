package http

import (
	"encoding/base64"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Firmador-api/internal/application/documents"
	"github.com/jhoicas/Firmador-api/internal/application/dto"
	"github.com/jhoicas/Firmador-api/internal/application/signature"
	"github.com/jhoicas/Firmador-api/internal/domain"
	"github.com/jhoicas/Firmador-api/internal/domain/entity"
)

// SignatureHandler firma y verificación de documentos.
type SignatureHandler struct {
	sign   *signature.SignUseCase
	verify *signature.VerifyUseCase
	docs   *documents.DocumentUseCase
}

// NewSignatureHandler construye el handler.
func NewSignatureHandler(sign *signature.SignUseCase, verify *signature.VerifyUseCase, docs *documents.DocumentUseCase) *SignatureHandler {
	return &SignatureHandler{sign: sign, verify: verify, docs: docs}
}

// Sign firma el documento en la ruta indicada.
// POST /api/signatures/sign
func (h *SignatureHandler) Sign(c *fiber.Ctx) error {
	var in dto.SignRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.DocumentPath == "" || in.SignerName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION_ERROR", Message: "document_path y signer_name son requeridos"})
	}
	record, err := h.sign.SignDocument(c.Context(), in.DocumentPath, signature.SignerInfo{
		Name:    in.SignerName,
		Email:   in.SignerEmail,
		TaxCode: in.SignerTaxCode,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(signResponseFrom(record))
}

// SignDocument firma un documento ya cargado en gestión documental,
// identificado por su ID.
// POST /api/signatures/documents/:id
func (h *SignatureHandler) SignDocument(c *fiber.Ctx) error {
	var in dto.SignDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.SignerName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION_ERROR", Message: "signer_name es requerido"})
	}
	path, _, err := h.docs.DownloadPath(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	record, err := h.sign.SignDocument(c.Context(), path, signature.SignerInfo{
		Name:    in.SignerName,
		Email:   in.SignerEmail,
		TaxCode: in.SignerTaxCode,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(signResponseFrom(record))
}

// Verify verifica la firma del documento en la ruta indicada.
// POST /api/signatures/verify
func (h *SignatureHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerifyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.DocumentPath == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION_ERROR", Message: "document_path es requerido"})
	}
	result, err := h.verify.VerifyDocument(c.Context(), in.DocumentPath)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := dto.VerifyResponse{
		Valid:       result.Valid,
		Integrity:   result.Integrity,
		Reason:      result.Reason,
		SignatureID: result.SignatureID,
		Signer:      result.Signer,
		Algorithm:   result.Algorithm,
	}
	if !result.Timestamp.IsZero() {
		out.Timestamp = result.Timestamp.Format(time.RFC3339)
	}
	return c.JSON(out)
}

// List lista todas las firmas emitidas, en orden de registro.
// GET /api/signatures
func (h *SignatureHandler) List(c *fiber.Ctx) error {
	records, err := h.sign.ListSignatures(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.SignatureRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.SignatureRecordResponse{
			SignatureID:   r.ID,
			DocumentPath:  r.DocumentRef,
			SignerName:    r.SignerName,
			SignerEmail:   r.SignerEmail,
			SignerTaxCode: r.SignerTaxCode,
			Timestamp:     r.Timestamp.Format(time.RFC3339),
			Algorithm:     r.Algorithm,
			Status:        r.Status,
		})
	}
	return c.JSON(fiber.Map{"signatures": out})
}

func signResponseFrom(record *entity.SignatureRecord) dto.SignResponse {
	return dto.SignResponse{
		Success:     true,
		SignatureID: record.ID,
		Signature:   base64.StdEncoding.EncodeToString(record.Signature),
		Timestamp:   record.Timestamp.Format(time.RFC3339),
		Signer:      record.SignerName,
	}
}

// respondDomainError traduce errores de dominio a respuestas HTTP.
func respondDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound), errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrSignatureNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION_ERROR", Message: err.Error()})
	case errors.Is(err, domain.ErrFileNotAllowed):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "FILE_NOT_ALLOWED", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
