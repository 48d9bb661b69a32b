package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tuo-utente/fattura-pro/internal/application/auth"
	"github.com/tuo-utente/fattura-pro/internal/application/billing"
	infrapdf "github.com/tuo-utente/fattura-pro/internal/infrastructure/pdf"
	"github.com/tuo-utente/fattura-pro/internal/infrastructure/postgres"
	"github.com/tuo-utente/fattura-pro/internal/infrastructure/sdi"
	httpRouter "github.com/tuo-utente/fattura-pro/internal/interfaces/http"
	"github.com/tuo-utente/fattura-pro/pkg/config"
	"github.com/tuo-utente/fattura-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("caricamento configurazione: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("avvio applicazione")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connessione a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	issuerRepo := postgres.NewIssuerRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, clientRepo, log.Zerolog())
	notaUC := billing.NewNotaUseCase(invoiceRepo, clientRepo, log.Zerolog())
	sdiUC := billing.NewSDIUseCase(invoiceRepo, clientRepo, issuerRepo, sdi.NewXMLBuilder(), log.Zerolog())
	pdfUC := billing.NewPDFUseCase(invoiceRepo, clientRepo, issuerRepo, infrapdf.NewMarotoPDFGenerator())
	clientUC := billing.NewClientUseCase(clientRepo)
	issuerUC := billing.NewIssuerUseCase(issuerRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI in locale: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Fattura Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		InvoiceUC: invoiceUC,
		NotaUC:    notaUC,
		SDIUC:     sdiUC,
		PDFUC:     pdfUC,
		ClientUC:  clientUC,
		IssuerUC:  issuerUC,
		AuthUC:    authUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("server HTTP terminato")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("segnale di arresto ricevuto, chiusura server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("arresto del server")
	}

	log.Info().Msg("applicazione fermata")
}
