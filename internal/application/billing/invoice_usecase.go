package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tuo-utente/fattura-pro/internal/application/dto"
	"github.com/tuo-utente/fattura-pro/internal/domain"
	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/internal/domain/fiscale"
	"github.com/tuo-utente/fattura-pro/internal/domain/repository"
	"github.com/tuo-utente/fattura-pro/pkg/fatturapa"
)

const dateLayout = "2006-01-02"

// AvvisoNotaCredito è il messaggio restituito quando l'annullamento di un
// documento già emesso richiederebbe una nota di credito (art. 26 DPR 633/72).
const AvvisoNotaCredito = "l'annullamento di un documento emesso richiede una nota di credito (art. 26 DPR 633/72)"

// InvoiceUseCase gestisce bozze, emissione e ciclo di vita delle fatture.
type InvoiceUseCase struct {
	txRunner    TxRunner
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	logger      zerolog.Logger
}

// NewInvoiceUseCase costruisce il caso d'uso.
func NewInvoiceUseCase(
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	logger zerolog.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		logger:      logger,
	}
}

// CreateDraft crea una bozza: il motore di calcolo gira subito, così il
// chiamante vede totali e violazioni prima dell'emissione.
func (uc *InvoiceUseCase) CreateDraft(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.ClientID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	inv, err := buildInvoice(in, client)
	if err != nil {
		return nil, err
	}

	calc, err := fiscale.CalculateInvoice(inv)
	if err != nil {
		return nil, err
	}
	calc.ID = uuid.NewString()
	calc.Status = entity.StatusDraft
	calc.CreatedAt = time.Now()
	calc.UpdatedAt = calc.CreatedAt
	for i := range calc.Items {
		calc.Items[i].ID = uuid.NewString()
	}

	if err := uc.invoiceRepo.Create(calc); err != nil {
		return nil, err
	}
	return toInvoiceResponse(calc, ""), nil
}

// Get restituisce una fattura con righe e aggregati.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return toInvoiceResponse(inv, ""), nil
}

// List restituisce le fatture più recenti.
func (uc *InvoiceUseCase) List(ctx context.Context, limit, offset int) ([]*dto.InvoiceResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	invs, err := uc.invoiceRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, toInvoiceResponse(inv, ""))
	}
	return out, nil
}

// Issue emette una bozza: ricalcola i totali, assegna il numero progressivo e
// passa a ISSUED. Ricalcolo e numerazione avvengono nella stessa transazione.
func (uc *InvoiceUseCase) Issue(ctx context.Context, id string, now time.Time) (*dto.InvoiceResponse, error) {
	var issued *entity.Invoice
	err := uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		clientRepo repository.ClientRepository,
	) error {
		inv, err := invoiceRepo.GetByID(id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if !fiscale.CanTransition(inv.Status, entity.StatusIssued) {
			return fiscale.RuleError{
				Code:    fiscale.CodeTransizione,
				Field:   "status",
				Message: "transizione non ammessa: " + inv.Status + " -> " + entity.StatusIssued,
			}
		}

		if inv.Client == nil && inv.ClientID != "" {
			inv.Client, err = clientRepo.GetByID(inv.ClientID)
			if err != nil {
				return err
			}
		}

		calc, err := fiscale.CalculateInvoice(inv)
		if err != nil {
			return err
		}

		last, err := invoiceRepo.GetLastNumber()
		if err != nil {
			return err
		}
		number, err := fiscale.NextNumber(last, now)
		if err != nil {
			return err
		}

		calc.Number = number
		calc.Status = entity.StatusIssued
		calc.UpdatedAt = now
		if err := invoiceRepo.Update(calc); err != nil {
			return err
		}
		issued = calc
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("invoice_id", issued.ID).
		Str("number", issued.Number).
		Str("amount_due", issued.AmountDue.StringFixed(2)).
		Msg("fattura emessa")
	return toInvoiceResponse(issued, ""), nil
}

// ChangeStatus applica una transizione di stato. L'annullamento di un
// documento emesso è registrato con un avviso: la rettifica fiscale resta a
// carico di una nota di credito.
func (uc *InvoiceUseCase) ChangeStatus(ctx context.Context, id, to string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if !fiscale.CanTransition(inv.Status, to) {
		return nil, fiscale.RuleError{
			Code:    fiscale.CodeTransizione,
			Field:   "status",
			Message: "transizione non ammessa: " + inv.Status + " -> " + to,
		}
	}

	warning := ""
	if fiscale.RequiresNotaCredito(inv.Status, to) {
		warning = AvvisoNotaCredito
		uc.logger.Warn().
			Str("invoice_id", inv.ID).
			Str("number", inv.Number).
			Str("from", inv.Status).
			Msg("annullamento di documento emesso senza nota di credito")
	}

	inv.Status = to
	inv.UpdatedAt = time.Now()
	if err := uc.invoiceRepo.Update(inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, warning), nil
}

// MarkOverdue marca come scadute le fatture SENT con scadenza superata.
// Pensato per uno scheduler esterno o per invocazione manuale.
func (uc *InvoiceUseCase) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	pending, err := uc.invoiceRepo.ListByStatus(entity.StatusSent)
	if err != nil {
		return 0, err
	}
	marked := 0
	for _, inv := range pending {
		if inv.DueDate == nil || !inv.DueDate.Before(now) {
			continue
		}
		if !fiscale.CanTransition(inv.Status, entity.StatusOverdue) {
			continue
		}
		inv.Status = entity.StatusOverdue
		inv.UpdatedAt = now
		if err := uc.invoiceRepo.Update(inv); err != nil {
			return marked, err
		}
		uc.logger.Info().
			Str("invoice_id", inv.ID).
			Str("number", inv.Number).
			Msg("fattura scaduta")
		marked++
	}
	return marked, nil
}

// buildInvoice traduce la richiesta in entità, senza campi calcolati.
func buildInvoice(in dto.CreateInvoiceRequest, client *entity.Client) (*entity.Invoice, error) {
	date, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	docType := in.Type
	if docType == "" {
		docType = fatturapa.TipoDocFatturaImmediata
	}

	inv := &entity.Invoice{
		ClientID:          client.ID,
		Client:            client,
		Type:              docType,
		Date:              date,
		RegimeForfettario: in.RegimeForfettario,
		Semplificata:      in.Semplificata,
		Causale:           in.Causale,
		Notes:             in.Notes,
	}

	if in.OperationDate != "" {
		od, err := time.Parse(dateLayout, in.OperationDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		inv.OperationDate = &od
	}
	if in.DueDate != "" {
		dd, err := time.Parse(dateLayout, in.DueDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		inv.DueDate = &dd
	}
	if in.Payment != nil {
		inv.Payment = &entity.PaymentInfo{
			Condition: in.Payment.Condition,
			Method:    in.Payment.Method,
			IBAN:      in.Payment.IBAN,
			BankName:  in.Payment.BankName,
		}
	}

	inv.Items = make([]entity.InvoiceItem, 0, len(in.Items))
	for _, it := range in.Items {
		inv.Items = append(inv.Items, entity.InvoiceItem{
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			Aliquota:        entity.Aliquota(it.Aliquota),
			Natura:          it.Natura,
			DiscountPercent: it.DiscountPercent,
			DiscountAmount:  it.DiscountAmount,
		})
	}
	return inv, nil
}

func toInvoiceResponse(inv *entity.Invoice, warning string) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:                  inv.ID,
		ClientID:            inv.ClientID,
		Type:                inv.Type,
		Status:              inv.Status,
		Number:              inv.Number,
		Date:                inv.Date.Format(dateLayout),
		RegimeForfettario:   inv.RegimeForfettario,
		Semplificata:        inv.Semplificata,
		Causale:             inv.Causale,
		Notes:               inv.Notes,
		LinkedInvoiceID:     inv.LinkedInvoiceID,
		LinkedInvoiceNumber: inv.LinkedInvoiceNumber,
		TaxableTotal:        inv.TaxableTotal,
		TaxTotal:            inv.TaxTotal,
		SubTotal:            inv.SubTotal,
		Ritenuta:            inv.Ritenuta,
		Bollo:               inv.Bollo,
		AmountDue:           inv.AmountDue,
		Esigibilita:         string(inv.Esigibilita),
		BolloApplied:        inv.BolloApplied,
		XMLHash:             inv.XMLHash,
		Warning:             warning,
	}
	if inv.Client != nil {
		resp.ClientName = inv.Client.Name
	}
	if inv.OperationDate != nil {
		resp.OperationDate = inv.OperationDate.Format(dateLayout)
	}
	if inv.DueDate != nil {
		resp.DueDate = inv.DueDate.Format(dateLayout)
	}
	if len(inv.TaxByRate) > 0 {
		resp.TaxByRate = make(map[string]decimal.Decimal, len(inv.TaxByRate))
		for rate, amount := range inv.TaxByRate {
			resp.TaxByRate[string(rate)] = amount
		}
	}
	resp.Items = make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:              it.ID,
			Description:     it.Description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			Aliquota:        string(it.Aliquota),
			Natura:          it.Natura,
			DiscountPercent: it.DiscountPercent,
			DiscountAmount:  it.DiscountAmount,
			Taxable:         it.Taxable,
			Tax:             it.Tax,
			LineTotal:       it.LineTotal,
		})
	}
	return resp
}
