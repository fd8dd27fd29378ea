package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Firmador-api/internal/application/auth"
	"github.com/jhoicas/Firmador-api/internal/application/billing"
	"github.com/jhoicas/Firmador-api/internal/application/documents"
	"github.com/jhoicas/Firmador-api/internal/application/signature"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SignUC        *signature.SignUseCase
	VerifyUC      *signature.VerifyUseCase
	DocumentUC    *documents.DocumentUseCase
	CreateInvoice *billing.CreateInvoiceUseCase
	AuthUC        *auth.AuthUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/token", authHandler.Token)

	// Verificación (pública: cualquiera puede validar una firma)
	signatureHandler := NewSignatureHandler(deps.SignUC, deps.VerifyUC, deps.DocumentUC)
	api.Post("/signatures/verify", signatureHandler.Verify)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Firmas (protegido)
	signatures := protected.Group("/signatures")
	signatures.Post("/sign", signatureHandler.Sign)
	signatures.Post("/documents/:id", signatureHandler.SignDocument)
	signatures.Get("/", signatureHandler.List)

	// Documentos (protegido)
	docs := protected.Group("/documents")
	documentHandler := NewDocumentHandler(deps.DocumentUC)
	docs.Post("/", documentHandler.Upload)
	docs.Get("/", documentHandler.List)
	docs.Get("/search", documentHandler.Search)
	docs.Get("/:id", documentHandler.GetByID)
	docs.Get("/:id/download", documentHandler.Download)
	docs.Delete("/:id", RequireRole("admin"), documentHandler.Delete)

	// Facturas (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/xml", invoiceHandler.DownloadXML)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Estadísticas (protegido)
	statsHandler := NewStatsHandler(deps.DocumentUC, deps.CreateInvoice, deps.SignUC)
	protected.Get("/stats", statsHandler.Stats)
}
