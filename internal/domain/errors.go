package domain

import "errors"

// Errori di dominio (senza dipendenze esterne).
var (
	ErrNotFound           = errors.New("risorsa non trovata")
	ErrUserNotFound       = errors.New("utente non trovato")
	ErrEmailAlreadyExists = errors.New("email già registrata")
	ErrInvalidInput       = errors.New("input non valido")
	ErrDuplicate          = errors.New("risorsa duplicata")
	ErrUnauthorized       = errors.New("non autorizzato")
	ErrForbidden          = errors.New("accesso negato")
	ErrConflict           = errors.New("conflitto con lo stato attuale")
)

// Errori di precondizione: violazioni del contratto da parte del chiamante,
// distinte dagli errori di regola di business (fiscale.RuleError).
var (
	ErrMissingClient = errors.New("fattura senza cliente associato")
	ErrMissingIssuer = errors.New("profilo cedente/prestatore non configurato")
)
