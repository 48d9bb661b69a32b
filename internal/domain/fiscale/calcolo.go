package fiscale

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tuo-utente/fattura-pro/internal/domain"
	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
)

// CalculationMode modalità di calcolo del documento, risolta una sola volta
// prima del dispatch: tiene la mutua esclusione forfettario / split payment /
// ordinario in un punto solo invece che in condizionali sparsi.
type CalculationMode int

const (
	ModeOrdinaria CalculationMode = iota
	ModeForfettario
	ModeSplitPayment
)

// ResolveMode determina la modalità di calcolo: il regime forfettario prevale,
// poi la scissione dei pagamenti del cliente, altrimenti il regime ordinario.
func ResolveMode(inv *entity.Invoice) CalculationMode {
	switch {
	case inv.RegimeForfettario:
		return ModeForfettario
	case inv.Client != nil && inv.Client.SplitPayment:
		return ModeSplitPayment
	default:
		return ModeOrdinaria
	}
}

// CalculateInvoice ricalcola righe e aggregati della fattura e restituisce una
// copia: l'input non viene mai mutato, un calcolo fallito non lascia mai una
// fattura parzialmente aggiornata e il ricalcolo è idempotente.
func CalculateInvoice(inv *entity.Invoice) (*entity.Invoice, error) {
	if inv == nil {
		return nil, domain.ErrInvalidInput
	}
	if errs := ValidateForCalculation(inv); len(errs) > 0 {
		return nil, errs
	}

	out := cloneInvoice(inv)

	if len(out.Items) == 0 {
		out.TaxableTotal = decimal.Zero
		out.TaxTotal = decimal.Zero
		out.SubTotal = decimal.Zero
		out.Ritenuta = decimal.Zero
		out.Bollo = decimal.Zero
		out.AmountDue = decimal.Zero
		out.TaxByRate = map[entity.Aliquota]decimal.Decimal{}
		out.BolloApplied = false
		return out, nil
	}

	var taxableTotal decimal.Decimal
	for i := range out.Items {
		out.Items[i] = computeItem(out.Items[i])
		taxableTotal = taxableTotal.Add(out.Items[i].Taxable)
	}
	out.TaxableTotal = taxableTotal

	switch ResolveMode(out) {
	case ModeForfettario:
		// Nessuna IVA: righe azzerate, niente ritenuta, bollo se oltre soglia.
		for i := range out.Items {
			out.Items[i].Tax = decimal.Zero
			out.Items[i].LineTotal = out.Items[i].Taxable
		}
		out.TaxTotal = decimal.Zero
		out.SubTotal = taxableTotal
		out.TaxByRate = map[entity.Aliquota]decimal.Decimal{}
		out.Ritenuta = decimal.Zero
		out.Bollo = ComputeBollo(out)
		out.AmountDue = taxableTotal.Add(out.Bollo)

	case ModeSplitPayment:
		out.TaxTotal, out.TaxByRate = sumTaxes(out.Items)
		out.SubTotal = taxableTotal.Add(out.TaxTotal)
		// L'IVA la versa direttamente la PA: niente ritenuta, dovuto = imponibile.
		out.Ritenuta = decimal.Zero
		out.Bollo = bolloSeNatura(out)
		out.AmountDue = taxableTotal.Add(out.Bollo)
		appendSplitAnnotation(out)

	default:
		out.TaxTotal, out.TaxByRate = sumTaxes(out.Items)
		out.SubTotal = taxableTotal.Add(out.TaxTotal)
		out.Ritenuta = ComputeRitenuta(taxableTotal, out.Client)
		out.Bollo = bolloSeNatura(out)
		out.AmountDue = out.SubTotal.Sub(out.Ritenuta).Add(out.Bollo)
	}

	out.BolloApplied = out.Bollo.IsPositive()
	out.Esigibilita = resolveEsigibilita(out)
	return out, nil
}

// computeItem deriva imponibile, IVA e totale di una riga. Lo sconto è
// percentuale sul lordo se DiscountPercent > 0, altrimenti quello fisso:
// i due non si cumulano mai. L'IVA è arrotondata half-up a 2 decimali.
func computeItem(it entity.InvoiceItem) entity.InvoiceItem {
	gross := it.Quantity.Mul(it.UnitPrice)
	var sconto decimal.Decimal
	if it.DiscountPercent.IsPositive() {
		sconto = gross.Mul(it.DiscountPercent).Div(cento)
	} else {
		sconto = it.DiscountAmount
	}
	it.Taxable = gross.Sub(sconto)
	it.Tax = it.Taxable.Mul(it.Aliquota.Percent()).Div(cento).Round(2)
	it.LineTotal = it.Taxable.Add(it.Tax)
	return it
}

func sumTaxes(items []entity.InvoiceItem) (decimal.Decimal, map[entity.Aliquota]decimal.Decimal) {
	var total decimal.Decimal
	byRate := make(map[entity.Aliquota]decimal.Decimal)
	for _, it := range items {
		total = total.Add(it.Tax)
		byRate[it.Aliquota] = byRate[it.Aliquota].Add(it.Tax)
	}
	return total, byRate
}

// bolloSeNatura calcola il bollo nel ramo non forfettario: solo se almeno una
// riga riporta un codice natura, altrimenti zero.
func bolloSeNatura(inv *entity.Invoice) decimal.Decimal {
	for _, it := range inv.Items {
		if it.Natura != "" {
			return ComputeBollo(inv)
		}
	}
	return decimal.Zero
}

// appendSplitAnnotation aggiunge alle note la dicitura di legge dello split
// payment una sola volta: il ricalcolo non la duplica.
func appendSplitAnnotation(inv *entity.Invoice) {
	if strings.Contains(inv.Notes, AnnotazioneSplitPayment) {
		return
	}
	if inv.Notes != "" {
		inv.Notes += "\n"
	}
	inv.Notes += AnnotazioneSplitPayment
}

// resolveEsigibilita: split payment se il cliente ha il flag, altrimenti
// immediata. L'esigibilità differita è rappresentabile ma mai derivata qui.
func resolveEsigibilita(inv *entity.Invoice) entity.Esigibilita {
	if inv.Client != nil && inv.Client.SplitPayment {
		return entity.EsigibilitaSplitPayment
	}
	return entity.EsigibilitaImmediata
}

// cloneInvoice copia la fattura e le strutture che il calcolo riscrive.
// Client, Payment e le date puntate sono condivisi in sola lettura.
func cloneInvoice(inv *entity.Invoice) *entity.Invoice {
	out := *inv
	out.Items = make([]entity.InvoiceItem, len(inv.Items))
	copy(out.Items, inv.Items)
	if inv.TaxByRate != nil {
		out.TaxByRate = make(map[entity.Aliquota]decimal.Decimal, len(inv.TaxByRate))
		for k, v := range inv.TaxByRate {
			out.TaxByRate[k] = v
		}
	}
	return &out
}
