package fiscale

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/pkg/fatturapa"
)

// AnnotazioneForfettario dicitura di legge obbligatoria sulle fatture in
// regime forfettario.
const AnnotazioneForfettario = "Operazione effettuata ai sensi dell'art. 1, commi da 54 a 89, della Legge n. 190/2014 - Regime forfettario"

// AnnotazioneSplitPayment riga aggiunta alle note della fattura in regime di
// scissione dei pagamenti (una sola volta, anche su ricalcoli ripetuti).
const AnnotazioneSplitPayment = "Scissione dei pagamenti — Art. 17-ter"

// LimiteSemplificata tetto del totale documento per la fattura semplificata
// emessa da soggetti non forfettari (art. 21-bis DPR 633/72).
var LimiteSemplificata = decimal.NewFromInt(400)

// giorni massimi tra data operazione e data fattura per i documenti immediati
const giorniFatturaImmediata = 12

// ValidateForCalculation applica le regole che condizionano gli input del
// motore di calcolo. Le violazioni sono errori di input enumerabili, mai
// fault fatali: l'elenco vuoto autorizza il calcolo.
func ValidateForCalculation(inv *entity.Invoice) RuleErrors {
	var errs RuleErrors
	if inv == nil {
		return errs
	}

	for i, it := range inv.Items {
		field := fmt.Sprintf("items[%d].natura", i)
		zero := it.Aliquota == entity.AliquotaZero
		switch {
		case zero && it.Natura == "":
			errs = append(errs, RuleError{
				Code: CodeNaturaMancante, Field: field,
				Message: "una riga ad aliquota zero richiede il codice natura",
			})
		case !zero && it.Natura != "" && fatturapa.IsReverseCharge(it.Natura):
			errs = append(errs, RuleError{
				Code: CodeReverseCharge, Field: field,
				Message: "l'inversione contabile (N6.x) è ammessa solo con aliquota zero",
			})
		case !zero && it.Natura != "":
			errs = append(errs, RuleError{
				Code: CodeNaturaNonAmmessa, Field: field,
				Message: "il codice natura è vietato su righe con aliquota non zero",
			})
		}
		if it.Natura != "" && !fatturapa.ValidNatura[it.Natura] {
			errs = append(errs, RuleError{
				Code: CodeNaturaNonValida, Field: field,
				Message: fmt.Sprintf("codice natura %q fuori catalogo", it.Natura),
			})
		}
	}

	if inv.RegimeForfettario && !strings.Contains(inv.Causale, AnnotazioneForfettario) {
		errs = append(errs, RuleError{
			Code: CodeCausaleForfettario, Field: "causale",
			Message: "la fattura in regime forfettario deve riportare la dicitura L. 190/2014",
		})
	}

	// Tetto della fattura semplificata: i forfettari ne sono esentati.
	if (inv.Semplificata || inv.Type == fatturapa.TipoDocFatturaSemplificata) && !inv.RegimeForfettario {
		var total decimal.Decimal
		for _, it := range inv.Items {
			c := computeItem(it)
			total = total.Add(c.LineTotal)
		}
		if total.GreaterThan(LimiteSemplificata) {
			errs = append(errs, RuleError{
				Code: CodeLimiteSemplificata, Field: "items",
				Message: fmt.Sprintf("la fattura semplificata non può superare %s euro", LimiteSemplificata.String()),
			})
		}
	}

	if inv.OperationDate != nil {
		op := *inv.OperationDate
		switch inv.Type {
		case fatturapa.TipoDocFatturaImmediata:
			if inv.Date.After(op.AddDate(0, 0, giorniFatturaImmediata)) {
				errs = append(errs, RuleError{
					Code: CodeDataImmediata, Field: "date",
					Message: "la fattura immediata va emessa entro 12 giorni dalla data operazione",
				})
			}
		case fatturapa.TipoDocFatturaDifferita:
			if inv.Date.After(fineMeseSuccessivo(op)) {
				errs = append(errs, RuleError{
					Code: CodeDataDifferita, Field: "date",
					Message: "la fattura differita va emessa entro il 15 del mese successivo all'operazione",
				})
			}
		}
	}

	if inv.Client != nil && inv.Client.SplitPayment && !inv.Client.IsPA() {
		errs = append(errs, RuleError{
			Code: CodeSplitNonPA, Field: "client",
			Message: "la scissione dei pagamenti è ammessa solo per clienti PA",
		})
	}

	return errs
}

// fineMeseSuccessivo restituisce il 15 del mese successivo alla data operazione
// (termine di emissione della fattura differita).
func fineMeseSuccessivo(op time.Time) time.Time {
	firstOfNext := time.Date(op.Year(), op.Month(), 1, 0, 0, 0, 0, op.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, 14)
}
