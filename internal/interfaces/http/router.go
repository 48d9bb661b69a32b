package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tuo-utente/fattura-pro/internal/application/auth"
	"github.com/tuo-utente/fattura-pro/internal/application/billing"
	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
)

// RouterDeps dipendenze per il router.
type RouterDeps struct {
	InvoiceUC *billing.InvoiceUseCase
	NotaUC    *billing.NotaUseCase
	SDIUC     *billing.SDIUseCase
	PDFUC     *billing.PDFUseCase
	ClientUC  *billing.ClientUseCase
	IssuerUC  *billing.IssuerUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra le rotte dell'API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (pubblico)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rotte protette (Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Profilo cedente/prestatore (solo admin)
	issuerHandler := NewIssuerHandler(deps.IssuerUC)
	issuer := protected.Group("/issuer")
	issuer.Get("/", issuerHandler.Get)
	issuer.Put("/", RequireRole(entity.RoleAdmin), issuerHandler.Save)

	// Clienti
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", RequireRole(entity.RoleAdmin), clientHandler.Delete)

	// Fatture e note di variazione
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.NotaUC, deps.SDIUC, deps.PDFUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/overdue", invoiceHandler.MarkOverdue)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/issue", invoiceHandler.Issue)
	invoices.Post("/:id/status", invoiceHandler.ChangeStatus)
	invoices.Post("/:id/credit-note", invoiceHandler.CreateCreditNote)
	invoices.Post("/:id/debit-note", invoiceHandler.CreateDebitNote)
	invoices.Get("/:id/xml", invoiceHandler.DownloadXML)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
}
