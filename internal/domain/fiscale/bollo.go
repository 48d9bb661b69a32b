package fiscale

import (
	"github.com/shopspring/decimal"

	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
)

// Imposta di bollo (art. 6 DM 17/06/2014): dovuta sulle fatture senza IVA
// del regime forfettario quando l'imponibile supera la soglia.
var (
	// BolloThreshold soglia di imponibile oltre la quale il bollo è dovuto.
	// Il confronto è strettamente maggiore, non maggiore o uguale.
	BolloThreshold = decimal.NewFromFloat(77.47)
	// BolloAmount importo fisso del bollo.
	BolloAmount = decimal.NewFromFloat(2.00)
)

// StampDutyApplies indica se la fattura è soggetta a imposta di bollo:
// solo in regime forfettario e solo se l'imponibile totale supera la soglia.
func StampDutyApplies(inv *entity.Invoice) bool {
	return inv != nil && inv.RegimeForfettario && inv.TaxableTotal.GreaterThan(BolloThreshold)
}

// ComputeBollo restituisce l'importo del bollo (2.00 se dovuto, altrimenti 0).
func ComputeBollo(inv *entity.Invoice) decimal.Decimal {
	if StampDutyApplies(inv) {
		return BolloAmount
	}
	return decimal.Zero
}
