package entity

import "time"

// IssuerProfile è il profilo del cedente/prestatore (la parte che fattura).
// Configurato una sola volta da un'azione amministrativa; letto dal serializer.
// La sua assenza è un errore di precondizione (domain.ErrMissingIssuer), non un crash.
type IssuerProfile struct {
	ID            string
	Name          string
	PartitaIVA    string
	CodiceFiscale string
	RegimeFiscale string // codice RF (fatturapa.RegimeFiscale*)
	Address       Address
	UpdatedAt     time.Time
}
