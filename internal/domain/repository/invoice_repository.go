package repository

import "github.com/tuo-utente/fattura-pro/internal/domain/entity"

// InvoiceRepository definisce la porta di persistenza per fatture e righe.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	// Update riscrive stato, numero, aggregati, note e proiezione XML.
	Update(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	// List restituisce le fatture (righe incluse) ordinate per data decrescente.
	List(limit, offset int) ([]*entity.Invoice, error)
	// ListByStatus restituisce le fatture in uno stato dato (per lo sweep scadute).
	ListByStatus(status string) ([]*entity.Invoice, error)
	// GetLastNumber restituisce il numero documento più recente assegnato
	// ("" se nessun documento è mai stato emesso).
	GetLastNumber() (string, error)
}
