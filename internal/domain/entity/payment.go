package entity

// PaymentInfo termini di pagamento della fattura (opzionali).
// Condition e Method usano i valori composti di pkg/fatturapa
// ("TP02_PagamentoCompleto", "MP05_BonificoBancario"): nel tracciato XML
// viene emesso il solo prefisso.
type PaymentInfo struct {
	Condition string
	Method    string
	IBAN      string
	BankName  string
}
