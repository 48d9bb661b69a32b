package fiscale

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/pkg/fatturapa"
)

// CreateCreditNote deriva una nota di credito (TD04) in bozza dal documento
// originale: righe copiate con quantità invariata e importi negati, aggregati
// negati, bollo mai duplicato sulla variazione. La motivazione finisce sia
// nelle note sia nella causale.
func CreateCreditNote(original *entity.Invoice, reason string, now time.Time) *entity.Invoice {
	note := &entity.Invoice{
		ClientID:            original.ClientID,
		Client:              original.Client,
		Type:                fatturapa.TipoDocNotaCredito,
		Status:              entity.StatusDraft,
		Date:                now,
		RegimeForfettario:   original.RegimeForfettario,
		Causale:             reason,
		Notes:               reason,
		LinkedInvoiceID:     original.ID,
		LinkedInvoiceNumber: original.Number,
		Esigibilita:         original.Esigibilita,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	note.Items = make([]entity.InvoiceItem, len(original.Items))
	for i, it := range original.Items {
		it.UnitPrice = it.UnitPrice.Neg()
		it.Taxable = it.Taxable.Neg()
		it.Tax = it.Tax.Neg()
		it.LineTotal = it.LineTotal.Neg()
		note.Items[i] = it
	}

	note.TaxableTotal = original.TaxableTotal.Neg()
	note.TaxTotal = original.TaxTotal.Neg()
	note.SubTotal = original.SubTotal.Neg()
	note.Ritenuta = original.Ritenuta.Neg()
	note.Bollo = decimal.Zero
	note.BolloApplied = false
	note.AmountDue = original.AmountDue.Neg()
	note.TaxByRate = make(map[entity.Aliquota]decimal.Decimal, len(original.TaxByRate))
	for rate, tax := range original.TaxByRate {
		note.TaxByRate[rate] = tax.Neg()
	}
	return note
}

// CreateDebitNote deriva una nota di debito (TD05) in bozza: le righe sono
// quelle addizionali fornite dal chiamante (non copiate né negate) e gli
// aggregati sono sommati ex novo da quelle righe.
func CreateDebitNote(original *entity.Invoice, additional []entity.InvoiceItem, reason string, now time.Time) *entity.Invoice {
	note := &entity.Invoice{
		ClientID:            original.ClientID,
		Client:              original.Client,
		Type:                fatturapa.TipoDocNotaDebito,
		Status:              entity.StatusDraft,
		Date:                now,
		RegimeForfettario:   original.RegimeForfettario,
		Causale:             reason,
		Notes:               reason,
		LinkedInvoiceID:     original.ID,
		LinkedInvoiceNumber: original.Number,
		Esigibilita:         original.Esigibilita,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	note.Items = make([]entity.InvoiceItem, len(additional))
	var taxable, tax decimal.Decimal
	byRate := make(map[entity.Aliquota]decimal.Decimal)
	for i, it := range additional {
		c := computeItem(it)
		note.Items[i] = c
		taxable = taxable.Add(c.Taxable)
		tax = tax.Add(c.Tax)
		byRate[c.Aliquota] = byRate[c.Aliquota].Add(c.Tax)
	}
	note.TaxableTotal = taxable
	note.TaxTotal = tax
	note.SubTotal = taxable.Add(tax)
	note.TaxByRate = byRate
	note.Ritenuta = decimal.Zero
	note.Bollo = decimal.Zero
	note.AmountDue = note.SubTotal
	return note
}

// Stati dell'originale che ammettono una nota di variazione.
var statiOriginaleEleggibili = map[string]bool{
	entity.StatusIssued:  true,
	entity.StatusSent:    true,
	entity.StatusPaid:    true,
	entity.StatusOverdue: true,
}

// ValidateNota verifica una nota di variazione contro il documento originale.
// Per le note di credito il credito parziale è ammesso; l'eccedenza rispetto a
// imponibile o imposta dell'originale (in valore assoluto) no. Le note di
// debito non hanno tetto.
func ValidateNota(note, original *entity.Invoice) RuleErrors {
	var errs RuleErrors
	if note == nil {
		return append(errs, RuleError{Code: CodeTipoNota, Message: "nota mancante"})
	}
	if !fatturapa.IsNotaDiVariazione(note.Type) {
		errs = append(errs, RuleError{
			Code: CodeTipoNota, Field: "type",
			Message: "il documento deve essere una nota di credito (TD04) o di debito (TD05)",
		})
	}
	if note.LinkedInvoiceID == "" || note.LinkedInvoiceNumber == "" {
		errs = append(errs, RuleError{
			Code: CodeRiferimentoNota, Field: "linked_invoice",
			Message: "la nota deve riferire id e numero del documento originale",
		})
	}
	if original == nil {
		errs = append(errs, RuleError{
			Code: CodeOriginaleAssente, Field: "linked_invoice",
			Message: "il documento originale non esiste",
		})
		return errs
	}
	if !statiOriginaleEleggibili[original.Status] {
		errs = append(errs, RuleError{
			Code: CodeOriginaleStato, Field: "linked_invoice",
			Message: "il documento originale deve essere emesso, inviato, pagato o scaduto",
		})
	}
	if note.Type == fatturapa.TipoDocNotaCredito {
		if note.TaxableTotal.Abs().GreaterThan(original.TaxableTotal.Abs()) ||
			note.TaxTotal.Abs().GreaterThan(original.TaxTotal.Abs()) {
			errs = append(errs, RuleError{
				Code: CodeNotaEccedente, Field: "totals",
				Message: "la nota di credito non può superare imponibile o imposta dell'originale",
			})
		}
	}
	return errs
}
