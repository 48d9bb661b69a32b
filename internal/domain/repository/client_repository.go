package repository

import "github.com/tuo-utente/fattura-pro/internal/domain/entity"

// ClientRepository definisce la porta di persistenza per i clienti.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	GetByPartitaIVA(piva string) (*entity.Client, error)
	List(limit, offset int) ([]*entity.Client, error)
	Update(client *entity.Client) error
	Delete(id string) error
}
