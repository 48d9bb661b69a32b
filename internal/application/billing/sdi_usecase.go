package billing

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/tuo-utente/fattura-pro/internal/domain"
	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/internal/domain/repository"
	"github.com/tuo-utente/fattura-pro/internal/infrastructure/sdi"
)

// SDIUseCase genera il tracciato FatturaPA di un documento emesso e ne
// calcola l'impronta. Tracciato e impronta vengono salvati sulla fattura.
type SDIUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	issuerRepo  repository.IssuerProfileRepository
	builder     XMLBuilder
	logger      zerolog.Logger
}

func NewSDIUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	issuerRepo repository.IssuerProfileRepository,
	builder XMLBuilder,
	logger zerolog.Logger,
) *SDIUseCase {
	return &SDIUseCase{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		issuerRepo:  issuerRepo,
		builder:     builder,
		logger:      logger,
	}
}

// GenerateXML costruisce il tracciato per una fattura emessa (o successiva).
// In bozza il documento non ha numero e non è serializzabile.
func (uc *SDIUseCase) GenerateXML(ctx context.Context, invoiceID string) ([]byte, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.Status == entity.StatusDraft {
		return nil, domain.ErrInvalidInput
	}
	if inv.Client == nil && inv.ClientID != "" {
		inv.Client, err = uc.clientRepo.GetByID(inv.ClientID)
		if err != nil {
			return nil, err
		}
	}

	issuer, err := uc.issuerRepo.Get()
	if err != nil {
		return nil, err
	}
	if issuer == nil {
		return nil, domain.ErrMissingIssuer
	}

	xmlBytes, err := uc.builder.Build(inv, issuer)
	if err != nil {
		return nil, err
	}
	hash, err := sdi.Fingerprint(xmlBytes)
	if err != nil {
		return nil, err
	}

	inv.XMLContent = string(xmlBytes)
	inv.XMLHash = hash
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(inv); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("invoice_id", inv.ID).
		Str("number", inv.Number).
		Str("hash", hash).
		Msg("tracciato FatturaPA generato")
	return xmlBytes, nil
}
