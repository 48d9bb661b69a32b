package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tuo-utente/fattura-pro/internal/domain"
	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementazione di ClientRepository (usabile con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository costruisce l'adapter. Passare pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `
	id, name, type, partita_iva, codice_fiscale,
	street, city, postal_code, province, country,
	subject_to_ritenuta, ritenuta_type, ritenuta_rate, ritenuta_base, causale_pagamento,
	split_payment, codice_ufficio, cig, cup, codice_destinatario, pec,
	created_at, updated_at`

// Create persiste un cliente.
func (r *ClientRepo) Create(client *entity.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.Name, client.Type,
		nullIfEmpty(client.PartitaIVA), nullIfEmpty(client.CodiceFiscale),
		nullIfEmpty(client.Address.Street), nullIfEmpty(client.Address.City),
		nullIfEmpty(client.Address.PostalCode), nullIfEmpty(client.Address.Province),
		nullIfEmpty(client.Address.Country),
		client.SubjectToRitenuta, nullIfEmpty(client.RitenutaType),
		client.RitenutaRate, client.RitenutaBase, nullIfEmpty(client.CausalePagamento),
		client.SplitPayment, nullIfEmpty(client.CodiceUfficio),
		nullIfEmpty(client.CIG), nullIfEmpty(client.CUP),
		nullIfEmpty(client.CodiceDestinatario), nullIfEmpty(client.PEC),
		client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cliente: %w", err)
	}
	return nil
}

// GetByID restituisce un cliente, nil se assente.
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByPartitaIVA restituisce il cliente con quella partita IVA, nil se assente.
func (r *ClientRepo) GetByPartitaIVA(piva string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE partita_iva = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, piva))
}

// List lista i clienti per nome.
func (r *ClientRepo) List(limit, offset int) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clienti: %w", err)
	}
	defer rows.Close()

	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cliente: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update aggiorna un cliente.
func (r *ClientRepo) Update(client *entity.Client) error {
	query := `
		UPDATE clients
		SET name = $2, type = $3, partita_iva = $4, codice_fiscale = $5,
		    street = $6, city = $7, postal_code = $8, province = $9, country = $10,
		    subject_to_ritenuta = $11, ritenuta_type = $12, ritenuta_rate = $13,
		    ritenuta_base = $14, causale_pagamento = $15,
		    split_payment = $16, codice_ufficio = $17, cig = $18, cup = $19,
		    codice_destinatario = $20, pec = $21, updated_at = $22
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		client.ID, client.Name, client.Type,
		nullIfEmpty(client.PartitaIVA), nullIfEmpty(client.CodiceFiscale),
		nullIfEmpty(client.Address.Street), nullIfEmpty(client.Address.City),
		nullIfEmpty(client.Address.PostalCode), nullIfEmpty(client.Address.Province),
		nullIfEmpty(client.Address.Country),
		client.SubjectToRitenuta, nullIfEmpty(client.RitenutaType),
		client.RitenutaRate, client.RitenutaBase, nullIfEmpty(client.CausalePagamento),
		client.SplitPayment, nullIfEmpty(client.CodiceUfficio),
		nullIfEmpty(client.CIG), nullIfEmpty(client.CUP),
		nullIfEmpty(client.CodiceDestinatario), nullIfEmpty(client.PEC),
		client.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update cliente: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente.
func (r *ClientRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cliente: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ClientRepo) scanOne(row pgx.Row) (*entity.Client, error) {
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cliente: %w", err)
	}
	return c, nil
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	var piva, cf, street, city, cap, province, country *string
	var ritType, causale, ufficio, cig, cup, codDest, pec *string
	err := row.Scan(
		&c.ID, &c.Name, &c.Type, &piva, &cf,
		&street, &city, &cap, &province, &country,
		&c.SubjectToRitenuta, &ritType, &c.RitenutaRate, &c.RitenutaBase, &causale,
		&c.SplitPayment, &ufficio, &cig, &cup, &codDest, &pec,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.PartitaIVA = derefStr(piva)
	c.CodiceFiscale = derefStr(cf)
	c.Address = entity.Address{
		Street:     derefStr(street),
		City:       derefStr(city),
		PostalCode: derefStr(cap),
		Province:   derefStr(province),
		Country:    derefStr(country),
	}
	c.RitenutaType = derefStr(ritType)
	c.CausalePagamento = derefStr(causale)
	c.CodiceUfficio = derefStr(ufficio)
	c.CIG = derefStr(cig)
	c.CUP = derefStr(cup)
	c.CodiceDestinatario = derefStr(codDest)
	c.PEC = derefStr(pec)
	return &c, nil
}
