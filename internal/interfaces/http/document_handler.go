package http

import (
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Firmador-api/internal/application/documents"
	"github.com/jhoicas/Firmador-api/internal/application/dto"
	"github.com/jhoicas/Firmador-api/internal/domain/entity"
)

// DocumentHandler gestión documental.
type DocumentHandler struct {
	uc *documents.DocumentUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *documents.DocumentUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// Upload carga un documento (multipart: campo "file" más metadatos).
// POST /api/documents
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION_ERROR", Message: "campo multipart 'file' requerido"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION_ERROR", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION_ERROR", Message: "no se pudo leer el archivo"})
	}

	meta := documents.UploadMetadata{
		Title:       c.FormValue("title"),
		Category:    c.FormValue("category"),
		Description: c.FormValue("description"),
		Tags:        splitTags(c.FormValue("tags")),
		CreatedBy:   GetUserID(c),
	}
	doc, err := h.uc.Upload(c.Context(), fileHeader.Filename, data, meta)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(documentResponseFrom(doc))
}

// List lista los documentos activos.
// GET /api/documents
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	docs, err := h.uc.List(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(documentListFrom(docs))
}

// Search busca documentos por texto libre (?q=) y/o categoría (?category=).
// GET /api/documents/search
func (h *DocumentHandler) Search(c *fiber.Ctx) error {
	docs, err := h.uc.Search(c.Context(), c.Query("q"), c.Query("category"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(documentListFrom(docs))
}

// GetByID obtiene los metadatos de un documento.
// GET /api/documents/:id
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(documentResponseFrom(doc))
}

// Download descarga el contenido original de un documento.
// GET /api/documents/:id/download
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	path, doc, err := h.uc.DownloadPath(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Download(path, doc.OriginalFilename)
}

// Delete elimina un documento (baja lógica de metadatos, borrado del archivo).
// DELETE /api/documents/:id
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func documentResponseFrom(doc *entity.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:               doc.ID,
		OriginalFilename: doc.OriginalFilename,
		Title:            doc.Title,
		Category:         doc.Category,
		Description:      doc.Description,
		Tags:             doc.Tags,
		FileSize:         doc.FileSize,
		FileHash:         doc.FileHash,
		FileExtension:    doc.FileExtension,
		Version:          doc.Version,
		CreatedBy:        doc.CreatedBy,
		UploadDate:       doc.UploadDate.Format(time.RFC3339),
	}
}

func documentListFrom(docs []*entity.Document) dto.DocumentListResponse {
	out := dto.DocumentListResponse{Documents: make([]dto.DocumentResponse, 0, len(docs))}
	for _, d := range docs {
		out.Documents = append(out.Documents, documentResponseFrom(d))
	}
	return out
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
