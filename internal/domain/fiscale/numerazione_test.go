package fiscale_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuo-utente/fattura-pro/internal/domain/fiscale"
)

var (
	in2025 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	in2026 = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
)

func TestNextNumber_PrimoNumero(t *testing.T) {
	n, err := fiscale.NextNumber("", in2026)
	require.NoError(t, err)
	assert.Equal(t, "2026/001", n, "senza precedente si parte da 001 dell'anno corrente")
}

func TestNextNumber_IncrementoStessoAnno(t *testing.T) {
	n, err := fiscale.NextNumber("2026/042", in2026)
	require.NoError(t, err)
	assert.Equal(t, "2026/043", n)
}

func TestNextNumber_ResetACambioAnno(t *testing.T) {
	n, err := fiscale.NextNumber("2025/042", in2026)
	require.NoError(t, err)
	assert.Equal(t, "2026/001", n, "il progressivo riparte da 1 quando l'anno cambia")
}

func TestNextNumber_FormatoNonValido(t *testing.T) {
	for _, bad := range []string{"42", "2026-042", "26/042", "2026/42", "2026/0042", "FAT 2026/042"} {
		_, err := fiscale.NextNumber(bad, in2025)
		require.Error(t, err, "numero %q deve essere rifiutato", bad)
		var re fiscale.RuleError
		require.True(t, errors.As(err, &re), "l'errore deve essere una RuleError tipizzata")
		assert.Equal(t, fiscale.CodeNumeroNonValido, re.Code)
	}
}
