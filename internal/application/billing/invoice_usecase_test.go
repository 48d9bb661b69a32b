package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuo-utente/fattura-pro/internal/application/billing"
	"github.com/tuo-utente/fattura-pro/internal/application/dto"
	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/internal/domain/fiscale"
	"github.com/tuo-utente/fattura-pro/internal/domain/repository"
	"github.com/tuo-utente/fattura-pro/pkg/fatturapa"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake in-memory dei repository
// ──────────────────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	byID map[string]*entity.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{byID: make(map[string]*entity.Invoice)}
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	cp := *inv
	r.byID[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	cp := *inv
	r.byID[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.byID {
		cp := *inv
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeInvoiceRepo) ListByStatus(status string) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.byID {
		if inv.Status == status {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInvoiceRepo) GetLastNumber() (string, error) {
	last := ""
	for _, inv := range r.byID {
		if inv.Number > last {
			last = inv.Number
		}
	}
	return last, nil
}

type fakeClientRepo struct {
	byID map[string]*entity.Client
}

func newFakeClientRepo(clients ...*entity.Client) *fakeClientRepo {
	r := &fakeClientRepo{byID: make(map[string]*entity.Client)}
	for _, c := range clients {
		r.byID[c.ID] = c
	}
	return r
}

func (r *fakeClientRepo) Create(c *entity.Client) error { r.byID[c.ID] = c; return nil }
func (r *fakeClientRepo) GetByID(id string) (*entity.Client, error) {
	return r.byID[id], nil
}
func (r *fakeClientRepo) GetByPartitaIVA(piva string) (*entity.Client, error) {
	for _, c := range r.byID {
		if c.PartitaIVA == piva {
			return c, nil
		}
	}
	return nil, nil
}
func (r *fakeClientRepo) List(limit, offset int) ([]*entity.Client, error) { return nil, nil }
func (r *fakeClientRepo) Update(c *entity.Client) error                    { r.byID[c.ID] = c; return nil }
func (r *fakeClientRepo) Delete(id string) error                           { delete(r.byID, id); return nil }

// fakeTxRunner esegue la callback sugli stessi repository, senza transazione.
type fakeTxRunner struct {
	invoiceRepo *fakeInvoiceRepo
	clientRepo  *fakeClientRepo
}

func (r *fakeTxRunner) RunBilling(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
) error) error {
	return fn(r.invoiceRepo, r.clientRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Helper
// ──────────────────────────────────────────────────────────────────────────────

func clienteAzienda() *entity.Client {
	return &entity.Client{
		ID:         "cli-1",
		Name:       "Rossi S.r.l.",
		Type:       entity.ClientAzienda,
		PartitaIVA: "01234567890",
	}
}

func setupUC(t *testing.T, clients ...*entity.Client) (*billing.InvoiceUseCase, *fakeInvoiceRepo) {
	t.Helper()
	invoiceRepo := newFakeInvoiceRepo()
	clientRepo := newFakeClientRepo(clients...)
	tx := &fakeTxRunner{invoiceRepo: invoiceRepo, clientRepo: clientRepo}
	uc := billing.NewInvoiceUseCase(tx, invoiceRepo, clientRepo, zerolog.Nop())
	return uc, invoiceRepo
}

func richiestaBase() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		ClientID: "cli-1",
		Date:     "2026-03-10",
		Items: []dto.InvoiceItemRequest{
			{
				Description: "Consulenza",
				Quantity:    decimal.NewFromInt(1),
				UnitPrice:   decimal.NewFromInt(1000),
				Aliquota:    "ORDINARIA",
			},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Test
// ──────────────────────────────────────────────────────────────────────────────

// La bozza nasce con i totali già calcolati e senza numero.
func TestCreateDraft_CalcolaTotali(t *testing.T) {
	uc, _ := setupUC(t, clienteAzienda())

	resp, err := uc.CreateDraft(context.Background(), richiestaBase())
	require.NoError(t, err)

	assert.Equal(t, entity.StatusDraft, resp.Status)
	assert.Empty(t, resp.Number, "la bozza non deve avere numero")
	assert.True(t, resp.TaxableTotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, resp.TaxTotal.Equal(decimal.NewFromInt(220)))
	assert.True(t, resp.AmountDue.Equal(decimal.NewFromInt(1220)))
}

// Senza tipo documento esplicito la bozza nasce come fattura immediata TD01.
func TestCreateDraft_TipoDocumentoDefault(t *testing.T) {
	uc, _ := setupUC(t, clienteAzienda())

	in := richiestaBase()
	in.Type = ""
	resp, err := uc.CreateDraft(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, fatturapa.TipoDocFatturaImmediata, resp.Type)
}

// Una bozza che viola le regole fiscali viene respinta con l'elenco completo.
func TestCreateDraft_RegoleViolate(t *testing.T) {
	uc, _ := setupUC(t, clienteAzienda())

	in := richiestaBase()
	in.Items[0].Aliquota = "ZERO" // aliquota zero senza natura

	_, err := uc.CreateDraft(context.Background(), in)
	require.Error(t, err)

	var ruleErrs fiscale.RuleErrors
	require.ErrorAs(t, err, &ruleErrs)
	assert.True(t, ruleErrs.HasCode(fiscale.CodeNaturaMancante))
}

// L'emissione ricalcola, assegna il primo numero dell'anno e passa a ISSUED.
func TestIssue_AssegnaNumero(t *testing.T) {
	uc, repo := setupUC(t, clienteAzienda())

	draft, err := uc.CreateDraft(context.Background(), richiestaBase())
	require.NoError(t, err)

	now := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	issued, err := uc.Issue(context.Background(), draft.ID, now)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusIssued, issued.Status)
	assert.Equal(t, "2026/001", issued.Number)

	stored, _ := repo.GetByID(draft.ID)
	assert.Equal(t, "2026/001", stored.Number)
}

// Emissioni successive incrementano il progressivo.
func TestIssue_ProgressivoIncrementa(t *testing.T) {
	uc, _ := setupUC(t, clienteAzienda())
	now := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)

	first, err := uc.CreateDraft(context.Background(), richiestaBase())
	require.NoError(t, err)
	second, err := uc.CreateDraft(context.Background(), richiestaBase())
	require.NoError(t, err)

	issued1, err := uc.Issue(context.Background(), first.ID, now)
	require.NoError(t, err)
	issued2, err := uc.Issue(context.Background(), second.ID, now)
	require.NoError(t, err)

	assert.Equal(t, "2026/001", issued1.Number)
	assert.Equal(t, "2026/002", issued2.Number)
}

// Emettere un documento non in bozza è una transizione vietata.
func TestIssue_SoloDaBozza(t *testing.T) {
	uc, _ := setupUC(t, clienteAzienda())
	now := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)

	draft, err := uc.CreateDraft(context.Background(), richiestaBase())
	require.NoError(t, err)
	_, err = uc.Issue(context.Background(), draft.ID, now)
	require.NoError(t, err)

	_, err = uc.Issue(context.Background(), draft.ID, now)
	require.Error(t, err)

	var ruleErr fiscale.RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, fiscale.CodeTransizione, ruleErr.Code)
}

// L'annullamento di un documento emesso passa ma segnala l'avviso art. 26.
func TestChangeStatus_AnnullamentoConAvviso(t *testing.T) {
	uc, _ := setupUC(t, clienteAzienda())
	now := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)

	draft, err := uc.CreateDraft(context.Background(), richiestaBase())
	require.NoError(t, err)
	_, err = uc.Issue(context.Background(), draft.ID, now)
	require.NoError(t, err)

	resp, err := uc.ChangeStatus(context.Background(), draft.ID, entity.StatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCancelled, resp.Status)
	assert.Equal(t, billing.AvvisoNotaCredito, resp.Warning)
}

// L'annullamento di una bozza non produce avvisi.
func TestChangeStatus_AnnullamentoBozzaSenzaAvviso(t *testing.T) {
	uc, _ := setupUC(t, clienteAzienda())

	draft, err := uc.CreateDraft(context.Background(), richiestaBase())
	require.NoError(t, err)

	resp, err := uc.ChangeStatus(context.Background(), draft.ID, entity.StatusCancelled)
	require.NoError(t, err)
	assert.Empty(t, resp.Warning)
}

// Le transizioni fuori dal grafo vengono respinte.
func TestChangeStatus_TransizioneVietata(t *testing.T) {
	uc, _ := setupUC(t, clienteAzienda())

	draft, err := uc.CreateDraft(context.Background(), richiestaBase())
	require.NoError(t, err)

	_, err = uc.ChangeStatus(context.Background(), draft.ID, entity.StatusPaid)
	require.Error(t, err)

	var ruleErr fiscale.RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, fiscale.CodeTransizione, ruleErr.Code)
}

// Lo sweep marca scadute solo le fatture SENT con scadenza superata.
func TestMarkOverdue_SoloScadute(t *testing.T) {
	uc, repo := setupUC(t, clienteAzienda())
	now := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)

	scaduta := now.AddDate(0, 0, -5)
	futura := now.AddDate(0, 0, 5)

	repo.byID["inv-scaduta"] = &entity.Invoice{
		ID: "inv-scaduta", ClientID: "cli-1", Status: entity.StatusSent, DueDate: &scaduta,
	}
	repo.byID["inv-futura"] = &entity.Invoice{
		ID: "inv-futura", ClientID: "cli-1", Status: entity.StatusSent, DueDate: &futura,
	}
	repo.byID["inv-senza-scadenza"] = &entity.Invoice{
		ID: "inv-senza-scadenza", ClientID: "cli-1", Status: entity.StatusSent,
	}

	marked, err := uc.MarkOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	inv, _ := repo.GetByID("inv-scaduta")
	assert.Equal(t, entity.StatusOverdue, inv.Status)
	inv, _ = repo.GetByID("inv-futura")
	assert.Equal(t, entity.StatusSent, inv.Status)
}
