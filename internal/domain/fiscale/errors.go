package fiscale

import "strings"

// Codici degli errori di regola fiscale. Enumerabili: il chiamante può
// ricostruire un messaggio utente a partire da Code + Field.
const (
	CodeNaturaMancante     = "NATURA_MANCANTE"      // aliquota zero senza codice natura
	CodeNaturaNonAmmessa   = "NATURA_NON_AMMESSA"   // codice natura con aliquota non zero
	CodeNaturaNonValida    = "NATURA_NON_VALIDA"    // codice fuori catalogo
	CodeReverseCharge      = "REVERSE_CHARGE"       // natura N6.x con aliquota non zero
	CodeCausaleForfettario = "CAUSALE_FORFETTARIO"  // manca la dicitura di legge L.190/2014
	CodeLimiteSemplificata = "LIMITE_SEMPLIFICATA"  // semplificata oltre 400 euro
	CodeDataImmediata      = "DATA_IMMEDIATA"       // TD01 oltre 12 giorni dall'operazione
	CodeDataDifferita      = "DATA_DIFFERITA"       // TD24 oltre il 15 del mese successivo
	CodeNumeroNonValido    = "NUMERO_NON_VALIDO"    // numero documento malformato
	CodeTransizione        = "TRANSIZIONE_VIETATA"  // transizione di stato non ammessa
	CodeTipoNota           = "TIPO_NOTA"            // la nota non è TD04/TD05
	CodeRiferimentoNota    = "RIFERIMENTO_NOTA"     // collegamento all'originale assente
	CodeOriginaleStato     = "ORIGINALE_STATO"      // originale in stato non eleggibile
	CodeOriginaleAssente   = "ORIGINALE_ASSENTE"    // originale inesistente
	CodeNotaEccedente      = "NOTA_ECCEDENTE"       // nota di credito oltre gli importi originali
	CodeSplitNonPA         = "SPLIT_NON_PA"         // split payment su cliente non PA
)

// RuleError violazione di una regola di business, riportata come dato
// strutturato e mai come fault opaco.
type RuleError struct {
	Code    string
	Field   string
	Message string
}

func (e RuleError) Error() string {
	if e.Field == "" {
		return e.Code + ": " + e.Message
	}
	return e.Code + " (" + e.Field + "): " + e.Message
}

// RuleErrors elenco di violazioni; implementa error.
type RuleErrors []RuleError

func (e RuleErrors) Error() string {
	msgs := make([]string, len(e))
	for i, re := range e {
		msgs[i] = re.Error()
	}
	return strings.Join(msgs, "; ")
}

// HasCode indica se l'elenco contiene una violazione con il codice dato.
func (e RuleErrors) HasCode(code string) bool {
	for _, re := range e {
		if re.Code == code {
			return true
		}
	}
	return false
}

// AsError restituisce nil se non ci sono violazioni, altrimenti l'elenco.
func (e RuleErrors) AsError() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
