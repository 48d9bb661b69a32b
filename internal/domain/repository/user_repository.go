package repository

import "github.com/tuo-utente/fattura-pro/internal/domain/entity"

// UserRepository definisce la porta di persistenza per gli operatori.
type UserRepository interface {
	Create(user *entity.User) error
	FindByEmail(email string) (*entity.User, error)
	GetByID(id string) (*entity.User, error)
}
