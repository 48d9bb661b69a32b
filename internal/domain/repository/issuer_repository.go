package repository

import "github.com/tuo-utente/fattura-pro/internal/domain/entity"

// IssuerProfileRepository definisce la porta di persistenza per il profilo
// cedente/prestatore (record unico di processo).
type IssuerProfileRepository interface {
	// Get restituisce il profilo configurato, nil se mai configurato.
	Get() (*entity.IssuerProfile, error)
	// Save crea o sostituisce il profilo (azione amministrativa).
	Save(profile *entity.IssuerProfile) error
}
