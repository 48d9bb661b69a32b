package fiscale

import "github.com/tuo-utente/fattura-pro/internal/domain/entity"

// Transizioni di stato ammesse. PAID e CANCELLED sono terminali.
var allowedTransitions = map[string][]string{
	entity.StatusDraft:   {entity.StatusIssued, entity.StatusCancelled},
	entity.StatusIssued:  {entity.StatusSent, entity.StatusCancelled},
	entity.StatusSent:    {entity.StatusPaid, entity.StatusOverdue, entity.StatusCancelled},
	entity.StatusOverdue: {entity.StatusPaid, entity.StatusCancelled},
}

// CanTransition è una lookup pura: qualunque transizione non elencata è rifiutata.
func CanTransition(from, to string) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// RequiresNotaCredito indica se la transizione richiede per legge una nota di
// credito (annullamento di un documento già emesso, art. 26 DPR 633/72).
// Il controller segnala l'obbligo ma non genera la nota.
func RequiresNotaCredito(from, to string) bool {
	return to == entity.StatusCancelled && from != entity.StatusDraft
}
