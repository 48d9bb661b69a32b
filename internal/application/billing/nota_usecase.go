package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tuo-utente/fattura-pro/internal/application/dto"
	"github.com/tuo-utente/fattura-pro/internal/domain"
	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/internal/domain/fiscale"
	"github.com/tuo-utente/fattura-pro/internal/domain/repository"
)

// NotaUseCase crea note di credito e di debito a partire da un documento
// già emesso. Le note nascono in bozza e seguono poi lo stesso ciclo di
// emissione delle fatture.
type NotaUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	logger      zerolog.Logger
}

func NewNotaUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	logger zerolog.Logger,
) *NotaUseCase {
	return &NotaUseCase{invoiceRepo: invoiceRepo, clientRepo: clientRepo, logger: logger}
}

// CreateCreditNote genera la nota di credito che storna integralmente il
// documento originario.
func (uc *NotaUseCase) CreateCreditNote(ctx context.Context, originalID string, in dto.CreditNoteRequest) (*dto.InvoiceResponse, error) {
	original, err := uc.loadOriginal(originalID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	note := fiscale.CreateCreditNote(original, in.Reason, now)
	if errs := fiscale.ValidateNota(note, original); len(errs) > 0 {
		return nil, errs
	}
	if err := uc.persist(note, now); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("nota_id", note.ID).
		Str("original_number", original.Number).
		Msg("nota di credito creata")
	return toInvoiceResponse(note, ""), nil
}

// CreateDebitNote genera una nota di debito con le righe integrative
// indicate, ricalcolate da zero.
func (uc *NotaUseCase) CreateDebitNote(ctx context.Context, originalID string, in dto.DebitNoteRequest) (*dto.InvoiceResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	original, err := uc.loadOriginal(originalID)
	if err != nil {
		return nil, err
	}

	additional := make([]entity.InvoiceItem, 0, len(in.Items))
	for _, it := range in.Items {
		additional = append(additional, entity.InvoiceItem{
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			Aliquota:        entity.Aliquota(it.Aliquota),
			Natura:          it.Natura,
			DiscountPercent: it.DiscountPercent,
			DiscountAmount:  it.DiscountAmount,
		})
	}

	now := time.Now()
	note := fiscale.CreateDebitNote(original, additional, in.Reason, now)
	if errs := fiscale.ValidateNota(note, original); len(errs) > 0 {
		return nil, errs
	}
	if err := uc.persist(note, now); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("nota_id", note.ID).
		Str("original_number", original.Number).
		Msg("nota di debito creata")
	return toInvoiceResponse(note, ""), nil
}

func (uc *NotaUseCase) loadOriginal(id string) (*entity.Invoice, error) {
	original, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, domain.ErrNotFound
	}
	if original.Client == nil && original.ClientID != "" {
		original.Client, err = uc.clientRepo.GetByID(original.ClientID)
		if err != nil {
			return nil, err
		}
	}
	return original, nil
}

func (uc *NotaUseCase) persist(note *entity.Invoice, now time.Time) error {
	note.ID = uuid.NewString()
	note.CreatedAt = now
	note.UpdatedAt = now
	for i := range note.Items {
		note.Items[i].ID = uuid.NewString()
	}
	return uc.invoiceRepo.Create(note)
}
