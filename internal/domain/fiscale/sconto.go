package fiscale

import "github.com/shopspring/decimal"

// ApplyDiscount applica a un importo aggregato prima lo sconto percentuale e
// poi quello fisso, con pavimento a zero e arrotondamento finale a 2 decimali.
// L'ordine non è invertibile: la percentuale si applica sempre alla base
// precedente allo sconto fisso.
func ApplyDiscount(amount, percent, fixed decimal.Decimal) decimal.Decimal {
	out := amount.Mul(cento.Sub(percent)).Div(cento)
	out = out.Sub(fixed)
	if out.IsNegative() {
		out = decimal.Zero
	}
	return out.Round(2)
}
