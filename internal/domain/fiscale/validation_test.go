package fiscale_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/internal/domain/fiscale"
	"github.com/tuo-utente/fattura-pro/pkg/fatturapa"
)

func TestValidate_NaturaObbligatoriaConAliquotaZero(t *testing.T) {
	inv := fatturaOrdinaria(riga("1", "100", entity.AliquotaZero))
	errs := fiscale.ValidateForCalculation(inv)
	assert.True(t, errs.HasCode(fiscale.CodeNaturaMancante))

	_, err := fiscale.CalculateInvoice(inv)
	require.Error(t, err, "la violazione blocca il calcolo, non viene ignorata")
}

func TestValidate_NaturaVietataConAliquotaNonZero(t *testing.T) {
	it := riga("1", "100", entity.AliquotaOrdinaria)
	it.Natura = "N4"
	errs := fiscale.ValidateForCalculation(fatturaOrdinaria(it))
	assert.True(t, errs.HasCode(fiscale.CodeNaturaNonAmmessa))
}

func TestValidate_ReverseChargeSoloConAliquotaZero(t *testing.T) {
	it := riga("1", "100", entity.AliquotaOrdinaria)
	it.Natura = "N6.7"
	errs := fiscale.ValidateForCalculation(fatturaOrdinaria(it))
	assert.True(t, errs.HasCode(fiscale.CodeReverseCharge))

	it.Aliquota = entity.AliquotaZero
	errs = fiscale.ValidateForCalculation(fatturaOrdinaria(it))
	assert.Empty(t, errs, "N6.x con aliquota zero è legittimo")
}

func TestValidate_NaturaFuoriCatalogo(t *testing.T) {
	it := riga("1", "100", entity.AliquotaZero)
	it.Natura = "N9"
	errs := fiscale.ValidateForCalculation(fatturaOrdinaria(it))
	assert.True(t, errs.HasCode(fiscale.CodeNaturaNonValida))
}

func TestValidate_ForfettarioRichiedeDicitura(t *testing.T) {
	inv := fatturaOrdinaria(riga("1", "100", entity.AliquotaOrdinaria))
	inv.RegimeForfettario = true
	errs := fiscale.ValidateForCalculation(inv)
	assert.True(t, errs.HasCode(fiscale.CodeCausaleForfettario))

	inv.Causale = fiscale.AnnotazioneForfettario
	assert.Empty(t, fiscale.ValidateForCalculation(inv))
}

func TestValidate_LimiteSemplificata(t *testing.T) {
	inv := fatturaOrdinaria(riga("1", "400", entity.AliquotaOrdinaria)) // 400 + 88 IVA = 488
	inv.Semplificata = true
	errs := fiscale.ValidateForCalculation(inv)
	assert.True(t, errs.HasCode(fiscale.CodeLimiteSemplificata))

	// Il forfettario è esentato dal tetto.
	inv.RegimeForfettario = true
	inv.Causale = fiscale.AnnotazioneForfettario
	assert.Empty(t, fiscale.ValidateForCalculation(inv))
}

func TestValidate_TerminiEmissione(t *testing.T) {
	op := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	immediata := fatturaOrdinaria(riga("1", "100", entity.AliquotaOrdinaria))
	immediata.Type = fatturapa.TipoDocFatturaImmediata
	immediata.OperationDate = &op
	immediata.Date = op.AddDate(0, 0, 12)
	assert.Empty(t, fiscale.ValidateForCalculation(immediata), "12 giorni esatti sono ammessi")
	immediata.Date = op.AddDate(0, 0, 13)
	assert.True(t, fiscale.ValidateForCalculation(immediata).HasCode(fiscale.CodeDataImmediata))

	differita := fatturaOrdinaria(riga("1", "100", entity.AliquotaOrdinaria))
	differita.Type = fatturapa.TipoDocFatturaDifferita
	differita.OperationDate = &op
	differita.Date = time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, fiscale.ValidateForCalculation(differita), "il 15 del mese successivo è ammesso")
	differita.Date = time.Date(2026, 4, 16, 0, 0, 0, 0, time.UTC)
	assert.True(t, fiscale.ValidateForCalculation(differita).HasCode(fiscale.CodeDataDifferita))
}

func TestValidate_SplitPaymentSoloPA(t *testing.T) {
	inv := fatturaOrdinaria(riga("1", "100", entity.AliquotaOrdinaria))
	inv.Client = &entity.Client{Type: entity.ClientAzienda, SplitPayment: true}
	errs := fiscale.ValidateForCalculation(inv)
	assert.True(t, errs.HasCode(fiscale.CodeSplitNonPA))
}
