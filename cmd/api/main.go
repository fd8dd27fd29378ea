package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Firmador-api/internal/application/auth"
	"github.com/jhoicas/Firmador-api/internal/application/billing"
	"github.com/jhoicas/Firmador-api/internal/application/documents"
	"github.com/jhoicas/Firmador-api/internal/application/signature"
	"github.com/jhoicas/Firmador-api/internal/infrastructure/gdt"
	"github.com/jhoicas/Firmador-api/internal/infrastructure/keystore"
	"github.com/jhoicas/Firmador-api/internal/infrastructure/ledger"
	infrapdf "github.com/jhoicas/Firmador-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Firmador-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Firmador-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Firmador-api/internal/interfaces/http"
	"github.com/jhoicas/Firmador-api/pkg/config"
	"github.com/jhoicas/Firmador-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	documentRepo := postgres.NewDocumentRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)

	// Identidad de firma: externa si está configurada, autofirmada si no.
	keys := keystore.New(cfg.Firma.KeysDir)
	if cfg.Firma.CertPath != "" {
		if err := keys.LoadExternal(cfg.Firma.CertPath, cfg.Firma.CertKeyPath, cfg.Firma.CertPassword); err != nil {
			log.Fatal().Err(err).Msg("cargar certificado externo")
		}
		log.Info().Str("cert", cfg.Firma.CertPath).Msg("identidad de firma externa cargada")
	} else {
		if err := keys.EnsureIdentity(); err != nil {
			log.Fatal().Err(err).Msg("inicializar identidad de firma")
		}
		log.Info().Str("keys_dir", cfg.Firma.KeysDir).Msg("identidad de firma autofirmada lista")
	}

	sigLedger, err := ledger.NewFileLedger(filepath.Join(cfg.Firma.KeysDir, "signatures.json"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir ledger de firmas")
	}

	uploadStore, err := storage.NewFileStore(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de documentos")
	}
	invoiceStore, err := storage.NewFileStore(cfg.Storage.InvoiceDir)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de facturas")
	}

	signUC := signature.NewSignUseCase(keys, sigLedger, uploadStore)
	verifyUC := signature.NewVerifyUseCase(keys, sigLedger, uploadStore)
	documentUC := documents.NewDocumentUseCase(documentRepo, uploadStore)

	xmlBuilder := gdt.NewXMLBuilderService()
	pdfGenerator := infrapdf.NewMarotoInvoicePDF()
	createInvoiceUC := billing.NewCreateInvoiceUseCase(
		invoiceRepo, xmlBuilder, pdfGenerator, signUC, invoiceStore,
	)

	authUC := auth.NewAuthUseCase(auth.Config{
		AdminEmail:        cfg.Auth.AdminEmail,
		AdminPasswordHash: cfg.Auth.AdminPasswordHash,
		Secret:            cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
		ExpMinutes:        cfg.JWT.Expiration,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Firmador API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SignUC:        signUC,
		VerifyUC:      verifyUC,
		DocumentUC:    documentUC,
		CreateInvoice: createInvoiceUC,
		AuthUC:        authUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
