package fiscale_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/internal/domain/fiscale"
)

func TestCanTransition_MatriceCompleta(t *testing.T) {
	allowed := [][2]string{
		{entity.StatusDraft, entity.StatusIssued},
		{entity.StatusDraft, entity.StatusCancelled},
		{entity.StatusIssued, entity.StatusSent},
		{entity.StatusIssued, entity.StatusCancelled},
		{entity.StatusSent, entity.StatusPaid},
		{entity.StatusSent, entity.StatusOverdue},
		{entity.StatusSent, entity.StatusCancelled},
		{entity.StatusOverdue, entity.StatusPaid},
		{entity.StatusOverdue, entity.StatusCancelled},
	}
	isAllowed := map[[2]string]bool{}
	for _, tr := range allowed {
		isAllowed[tr] = true
		assert.True(t, fiscale.CanTransition(tr[0], tr[1]), "%s -> %s deve essere ammessa", tr[0], tr[1])
	}

	all := []string{
		entity.StatusDraft, entity.StatusIssued, entity.StatusSent,
		entity.StatusPaid, entity.StatusOverdue, entity.StatusCancelled,
	}
	for _, from := range all {
		for _, to := range all {
			if !isAllowed[[2]string{from, to}] {
				assert.False(t, fiscale.CanTransition(from, to), "%s -> %s deve essere rifiutata", from, to)
			}
		}
	}
}

func TestCanTransition_StatiTerminali(t *testing.T) {
	for _, terminal := range []string{entity.StatusPaid, entity.StatusCancelled} {
		for _, to := range []string{entity.StatusDraft, entity.StatusIssued, entity.StatusSent, entity.StatusOverdue, entity.StatusCancelled} {
			assert.False(t, fiscale.CanTransition(terminal, to), "da %s non si esce", terminal)
		}
	}
}

// L'annullamento di un documento già emesso richiede per legge una nota di
// credito (art. 26); dalla bozza no.
func TestRequiresNotaCredito(t *testing.T) {
	assert.False(t, fiscale.RequiresNotaCredito(entity.StatusDraft, entity.StatusCancelled))
	assert.True(t, fiscale.RequiresNotaCredito(entity.StatusIssued, entity.StatusCancelled))
	assert.True(t, fiscale.RequiresNotaCredito(entity.StatusSent, entity.StatusCancelled))
	assert.True(t, fiscale.RequiresNotaCredito(entity.StatusOverdue, entity.StatusCancelled))
	assert.False(t, fiscale.RequiresNotaCredito(entity.StatusSent, entity.StatusPaid))
}
