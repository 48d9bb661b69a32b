package fiscale_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/internal/domain/fiscale"
	"github.com/tuo-utente/fattura-pro/pkg/fatturapa"
)

func riga(qty, price string, aliquota entity.Aliquota) entity.InvoiceItem {
	return entity.InvoiceItem{
		Description: "Consulenza",
		Quantity:    dec(qty),
		UnitPrice:   dec(price),
		Aliquota:    aliquota,
	}
}

func fatturaOrdinaria(items ...entity.InvoiceItem) *entity.Invoice {
	return &entity.Invoice{
		Type:   fatturapa.TipoDocFatturaImmediata,
		Status: entity.StatusDraft,
		Items:  items,
		Client: &entity.Client{Type: entity.ClientAzienda, Name: "ACME Srl"},
	}
}

// Imponibile 1000, aliquota ordinaria 22% -> imposta 220.00, subtotale 1220.00.
func TestCalculateInvoice_ScenarioBase(t *testing.T) {
	inv := fatturaOrdinaria(riga("1", "1000", entity.AliquotaOrdinaria))
	out, err := fiscale.CalculateInvoice(inv)
	require.NoError(t, err)

	assert.Equal(t, "1000.00", out.TaxableTotal.StringFixed(2))
	assert.Equal(t, "220.00", out.TaxTotal.StringFixed(2))
	assert.Equal(t, "1220.00", out.SubTotal.StringFixed(2))
	assert.Equal(t, "1220.00", out.AmountDue.StringFixed(2))
	assert.Equal(t, entity.EsigibilitaImmediata, out.Esigibilita)
	assert.Equal(t, "220.00", out.TaxByRate[entity.AliquotaOrdinaria].StringFixed(2))
}

// Per ogni riga: imponibile + imposta == totale riga, con imposta arrotondata
// a 2 decimali.
func TestCalculateInvoice_ProprietaRighe(t *testing.T) {
	inv := fatturaOrdinaria(
		riga("3", "19.99", entity.AliquotaOrdinaria),
		riga("1.5", "7.33", entity.AliquotaIntermedia),
		riga("2", "0.05", entity.AliquotaMinima),
	)
	out, err := fiscale.CalculateInvoice(inv)
	require.NoError(t, err)

	var taxable decimal.Decimal
	for _, it := range out.Items {
		assert.True(t, it.Taxable.Add(it.Tax).Equal(it.LineTotal),
			"imponibile + imposta deve dare il totale riga")
		expected := it.Taxable.Mul(it.Aliquota.Percent()).Div(decimal.NewFromInt(100)).Round(2)
		assert.True(t, it.Tax.Equal(expected), "imposta riga = round2(imponibile * aliquota)")
		taxable = taxable.Add(it.Taxable)
	}
	assert.True(t, out.TaxableTotal.Equal(taxable), "imponibile totale = somma imponibili riga")
	assert.True(t, out.SubTotal.Equal(out.TaxableTotal.Add(out.TaxTotal)))
}

// Sconto percentuale e sconto fisso sulla stessa riga non si cumulano mai:
// se la percentuale è positiva il fisso viene ignorato.
func TestCalculateInvoice_ScontiRigaNonCumulabili(t *testing.T) {
	it := riga("1", "100", entity.AliquotaOrdinaria)
	it.DiscountPercent = dec("10")
	it.DiscountAmount = dec("50")
	out, err := fiscale.CalculateInvoice(fatturaOrdinaria(it))
	require.NoError(t, err)
	assert.Equal(t, "90.00", out.Items[0].Taxable.StringFixed(2),
		"con percentuale > 0 lo sconto fisso non si applica")

	it.DiscountPercent = decimal.Zero
	out, err = fiscale.CalculateInvoice(fatturaOrdinaria(it))
	require.NoError(t, err)
	assert.Equal(t, "50.00", out.Items[0].Taxable.StringFixed(2))
}

// Professionista con ritenuta 100/20 su imponibile 1000:
// ritenuta 200.00, dovuto = 1220.00 - 200.00 = 1020.00.
func TestCalculateInvoice_RitenutaProfessionista(t *testing.T) {
	inv := fatturaOrdinaria(riga("1", "1000", entity.AliquotaOrdinaria))
	inv.Client = clientRitenuta(100, 20)
	out, err := fiscale.CalculateInvoice(inv)
	require.NoError(t, err)

	assert.Equal(t, "200.00", out.Ritenuta.StringFixed(2))
	assert.Equal(t, "1020.00", out.AmountDue.StringFixed(2))
}

// Regime forfettario, imponibile 1000: niente IVA, bollo 2.00 (soglia
// superata), dovuto 1002.00, breakdown vuoto e ritenuta forzata a zero anche
// se il cliente la avrebbe.
func TestCalculateInvoice_Forfettario(t *testing.T) {
	inv := fatturaOrdinaria(riga("1", "1000", entity.AliquotaOrdinaria))
	inv.Client = clientRitenuta(100, 20)
	inv.RegimeForfettario = true
	inv.Causale = fiscale.AnnotazioneForfettario
	out, err := fiscale.CalculateInvoice(inv)
	require.NoError(t, err)

	assert.True(t, out.TaxTotal.IsZero(), "in forfettario l'IVA è sempre zero")
	assert.Empty(t, out.TaxByRate, "in forfettario il breakdown per aliquota è vuoto")
	assert.True(t, out.Ritenuta.IsZero())
	assert.Equal(t, "2.00", out.Bollo.StringFixed(2))
	assert.True(t, out.BolloApplied)
	assert.Equal(t, "1002.00", out.AmountDue.StringFixed(2))
	for _, it := range out.Items {
		assert.True(t, it.Tax.IsZero())
		assert.True(t, it.LineTotal.Equal(it.Taxable))
	}
}

// PA in split payment, imponibile 1000 al 22%: imposta 220.00 ma dovuto
// 1000.00 (l'IVA la versa la PA), ritenuta zero a prescindere dalla
// configurazione del cliente, esigibilità "S".
func TestCalculateInvoice_SplitPayment(t *testing.T) {
	inv := fatturaOrdinaria(riga("1", "1000", entity.AliquotaOrdinaria))
	inv.Client = &entity.Client{
		Type:              entity.ClientPA,
		SplitPayment:      true,
		SubjectToRitenuta: true,
		RitenutaBase:      dec("100"),
		RitenutaRate:      dec("20"),
	}
	out, err := fiscale.CalculateInvoice(inv)
	require.NoError(t, err)

	assert.Equal(t, "220.00", out.TaxTotal.StringFixed(2))
	assert.Equal(t, "1000.00", out.AmountDue.StringFixed(2))
	assert.True(t, out.Ritenuta.IsZero(), "split payment e ritenuta sono mutuamente esclusivi")
	assert.Equal(t, entity.EsigibilitaSplitPayment, out.Esigibilita)
	assert.Contains(t, out.Notes, fiscale.AnnotazioneSplitPayment)
}

// La dicitura dello split payment viene aggiunta una volta sola anche
// ricalcolando più volte.
func TestCalculateInvoice_AnnotazioneSplitIdempotente(t *testing.T) {
	inv := fatturaOrdinaria(riga("1", "1000", entity.AliquotaOrdinaria))
	inv.Client = &entity.Client{Type: entity.ClientPA, SplitPayment: true}

	out1, err := fiscale.CalculateInvoice(inv)
	require.NoError(t, err)
	out2, err := fiscale.CalculateInvoice(out1)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out2.Notes, fiscale.AnnotazioneSplitPayment),
		"il ricalcolo non duplica la dicitura")
}

// Il ricalcolo è idempotente e non muta mai l'input.
func TestCalculateInvoice_PuroEIdempotente(t *testing.T) {
	inv := fatturaOrdinaria(riga("2", "150.50", entity.AliquotaOrdinaria))
	inv.Client = clientRitenuta(100, 20)

	out1, err := fiscale.CalculateInvoice(inv)
	require.NoError(t, err)
	assert.True(t, inv.TaxableTotal.IsZero(), "l'input non deve essere mutato")
	assert.True(t, inv.Items[0].Taxable.IsZero(), "le righe dell'input non devono essere mutate")

	out2, err := fiscale.CalculateInvoice(out1)
	require.NoError(t, err)
	assert.True(t, out1.AmountDue.Equal(out2.AmountDue))
	assert.True(t, out1.TaxTotal.Equal(out2.TaxTotal))
	assert.True(t, out1.Ritenuta.Equal(out2.Ritenuta))
}

func TestCalculateInvoice_SenzaRighe(t *testing.T) {
	inv := fatturaOrdinaria()
	out, err := fiscale.CalculateInvoice(inv)
	require.NoError(t, err)
	assert.True(t, out.TaxableTotal.IsZero())
	assert.True(t, out.AmountDue.IsZero())
	assert.Empty(t, out.TaxByRate)
	assert.False(t, out.BolloApplied)
}

// Riga ad aliquota zero con natura: nel ramo ordinario il bollo passa dal
// calcolatore, che fuori dal forfettario restituisce zero.
func TestCalculateInvoice_NaturaSenzaForfettario(t *testing.T) {
	it := riga("1", "500", entity.AliquotaZero)
	it.Natura = "N4"
	out, err := fiscale.CalculateInvoice(fatturaOrdinaria(it))
	require.NoError(t, err)
	assert.True(t, out.Bollo.IsZero())
	assert.True(t, out.Items[0].Tax.IsZero())
	assert.Equal(t, "500.00", out.AmountDue.StringFixed(2))
}

func TestCalculateInvoice_InputNil(t *testing.T) {
	_, err := fiscale.CalculateInvoice(nil)
	assert.Error(t, err, "fattura nil è una violazione di contratto del chiamante")
}
