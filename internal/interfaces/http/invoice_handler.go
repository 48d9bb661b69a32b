package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tuo-utente/fattura-pro/internal/application/billing"
	"github.com/tuo-utente/fattura-pro/internal/application/dto"
	"github.com/tuo-utente/fattura-pro/internal/domain"
	"github.com/tuo-utente/fattura-pro/internal/domain/fiscale"
)

// InvoiceHandler gestisce le richieste HTTP di fatturazione (protetto).
type InvoiceHandler struct {
	invoiceUC *billing.InvoiceUseCase
	notaUC    *billing.NotaUseCase
	sdiUC     *billing.SDIUseCase
	pdfUC     *billing.PDFUseCase
}

// NewInvoiceHandler costruisce l'handler.
func NewInvoiceHandler(
	invoiceUC *billing.InvoiceUseCase,
	notaUC *billing.NotaUseCase,
	sdiUC *billing.SDIUseCase,
	pdfUC *billing.PDFUseCase,
) *InvoiceHandler {
	return &InvoiceHandler{invoiceUC: invoiceUC, notaUC: notaUC, sdiUC: sdiUC, pdfUC: pdfUC}
}

// Create crea una bozza di fattura con i totali già calcolati.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body non valido"})
	}
	invoice, err := h.invoiceUC.CreateDraft(c.Context(), in)
	if err != nil {
		return billingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// List restituisce le fatture più recenti.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	invoices, err := h.invoiceUC.List(c.Context(), limit, offset)
	if err != nil {
		return billingError(c, err)
	}
	return c.JSON(invoices)
}

// GetByID restituisce il dettaglio completo di una fattura.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id richiesto"})
	}
	invoice, err := h.invoiceUC.Get(c.Context(), id)
	if err != nil {
		return billingError(c, err)
	}
	return c.JSON(invoice)
}

// Issue emette una bozza: ricalcolo, numero progressivo, stato ISSUED.
// POST /api/invoices/:id/issue
func (h *InvoiceHandler) Issue(c *fiber.Ctx) error {
	id := c.Params("id")
	invoice, err := h.invoiceUC.Issue(c.Context(), id, time.Now())
	if err != nil {
		return billingError(c, err)
	}
	return c.JSON(invoice)
}

// ChangeStatus applica una transizione di stato.
// POST /api/invoices/:id/status
func (h *InvoiceHandler) ChangeStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ChangeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body non valido"})
	}
	if in.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status richiesto"})
	}
	invoice, err := h.invoiceUC.ChangeStatus(c.Context(), id, in.Status)
	if err != nil {
		return billingError(c, err)
	}
	return c.JSON(invoice)
}

// MarkOverdue marca come scadute le fatture inviate con scadenza superata.
// POST /api/invoices/overdue
func (h *InvoiceHandler) MarkOverdue(c *fiber.Ctx) error {
	marked, err := h.invoiceUC.MarkOverdue(c.Context(), time.Now())
	if err != nil {
		return billingError(c, err)
	}
	return c.JSON(fiber.Map{"marked": marked})
}

// CreateCreditNote crea la nota di credito che storna il documento.
// POST /api/invoices/:id/credit-note
func (h *InvoiceHandler) CreateCreditNote(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.CreditNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body non valido"})
	}
	note, err := h.notaUC.CreateCreditNote(c.Context(), id, in)
	if err != nil {
		return billingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

// CreateDebitNote crea una nota di debito con righe integrative.
// POST /api/invoices/:id/debit-note
func (h *InvoiceHandler) CreateDebitNote(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.DebitNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body non valido"})
	}
	note, err := h.notaUC.CreateDebitNote(c.Context(), id, in)
	if err != nil {
		return billingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

// DownloadXML genera e scarica il tracciato FatturaPA.
// GET /api/invoices/:id/xml
func (h *InvoiceHandler) DownloadXML(c *fiber.Ctx) error {
	id := c.Params("id")
	xmlBytes, err := h.sdiUC.GenerateXML(c.Context(), id)
	if err != nil {
		return billingError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="fattura.xml"`)
	return c.Send(xmlBytes)
}

// DownloadPDF genera e scarica la copia di cortesia.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	pdfBytes, filename, err := h.pdfUC.DownloadInvoicePDF(c.Context(), id)
	if err != nil {
		return billingError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// billingError traduce gli errori dei casi d'uso in risposte HTTP.
// Le violazioni delle regole fiscali viaggiano come 422 con l'elenco completo,
// così il chiamante può correggerle tutte in un solo giro.
func billingError(c *fiber.Ctx, err error) error {
	var ruleErrs fiscale.RuleErrors
	if errors.As(err, &ruleErrs) {
		details := make([]string, 0, len(ruleErrs))
		for _, re := range ruleErrs {
			details = append(details, re.Error())
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "REGOLE_FISCALI", Message: "il documento viola le regole fiscali", Details: details,
		})
	}
	var ruleErr fiscale.RuleError
	if errors.As(err, &ruleErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: ruleErr.Code, Message: ruleErr.Message,
		})
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "documento o cliente non trovato"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "dati non validi"})
	case errors.Is(err, domain.ErrMissingIssuer):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CEDENTE_MANCANTE", Message: "profilo cedente/prestatore non configurato"})
	case errors.Is(err, domain.ErrMissingClient):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CLIENTE_MANCANTE", Message: "cliente non associato al documento"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "risorsa già esistente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
