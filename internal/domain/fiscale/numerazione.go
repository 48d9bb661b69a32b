package fiscale

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Formato fisso del numero documento: 4 cifre anno, "/", 3 cifre progressivo.
var numberFormat = regexp.MustCompile(`^(\d{4})/(\d{3})$`)

// NextNumber genera il prossimo numero documento nel formato "AAAA/NNN".
// Senza numero precedente parte da "{anno corrente}/001"; a cambio d'anno la
// sequenza riparte da 1, altrimenti incrementa di 1. Un numero precedente
// malformato è un errore di formato riportato, mai coercizzato.
func NextNumber(lastNumber string, now time.Time) (string, error) {
	year := now.Year()
	if lastNumber == "" {
		return fmt.Sprintf("%04d/001", year), nil
	}
	m := numberFormat.FindStringSubmatch(lastNumber)
	if m == nil {
		return "", RuleError{
			Code:    CodeNumeroNonValido,
			Field:   "number",
			Message: fmt.Sprintf("numero documento %q non rispetta il formato AAAA/NNN", lastNumber),
		}
	}
	lastYear, _ := strconv.Atoi(m[1])
	seq, _ := strconv.Atoi(m[2])
	if lastYear != year {
		seq = 1
	} else {
		seq++
	}
	return fmt.Sprintf("%04d/%03d", year, seq), nil
}
