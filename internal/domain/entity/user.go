package entity

import "time"

// Ruoli operatore.
const (
	RoleAdmin     = "admin"
	RoleOperatore = "operatore"
)

// User operatore dello studio abilitato all'uso dell'API.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	Role         string
	Status       string // active, disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
