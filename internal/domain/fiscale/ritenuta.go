// Package fiscale implementa il motore di regole della fatturazione italiana:
// calcolo di imponibile/IVA/ritenuta/bollo, macchina a stati del documento,
// numerazione progressiva e derivazione delle note di variazione.
// Tutte le operazioni sono funzioni pure sui loro input: nessuno stato
// condiviso, nessun I/O.
package fiscale

import (
	"github.com/shopspring/decimal"

	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
)

var cento = decimal.NewFromInt(100)

// ComputeRitenuta calcola la ritenuta d'acconto su un imponibile secondo la
// configurazione del cliente: imponibile * (base/100) * (aliquota/100),
// arrotondata half-up a 2 decimali solo sul risultato finale.
//
// La stessa formula copre tutte le casistiche di legge variando base e
// aliquota: professionisti 100/20, agenti senza dipendenti 50/23, agenti con
// dipendenti 20/23, non residenti 100/30.
func ComputeRitenuta(taxable decimal.Decimal, client *entity.Client) decimal.Decimal {
	if client == nil || !client.SubjectToRitenuta {
		return decimal.Zero
	}
	return taxable.
		Mul(client.RitenutaBase).
		Mul(client.RitenutaRate).
		Div(cento.Mul(cento)).
		Round(2)
}
