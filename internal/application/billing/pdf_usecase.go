package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/tuo-utente/fattura-pro/internal/domain"
	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/internal/domain/repository"
)

// PDFUseCase genera la copia di cortesia (PDF) di una fattura.
// Il PDF è disponibile solo per documenti già emessi (con numero assegnato).
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	issuerRepo  repository.IssuerProfileRepository
	generator   PDFGenerator
}

// NewPDFUseCase costruisce il caso d'uso.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	issuerRepo repository.IssuerProfileRepository,
	generator PDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		issuerRepo:  issuerRepo,
		generator:   generator,
	}
}

// DownloadInvoicePDF carica la fattura, verifica che sia emessa e genera il PDF.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: caricamento fattura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.Status == entity.StatusDraft || inv.Number == "" {
		return nil, "", domain.ErrInvalidInput
	}
	if inv.Client == nil && inv.ClientID != "" {
		inv.Client, err = uc.clientRepo.GetByID(inv.ClientID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: caricamento cliente: %w", err)
		}
	}

	issuer, err := uc.issuerRepo.Get()
	if err != nil {
		return nil, "", fmt.Errorf("pdf: caricamento cedente: %w", err)
	}
	if issuer == nil {
		return nil, "", domain.ErrMissingIssuer
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(inv, issuer)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generazione: %w", err)
	}

	filename = "fattura_" + strings.ReplaceAll(inv.Number, "/", "-") + ".pdf"
	return pdfBytes, filename, nil
}
