package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/internal/domain/repository"
)

var _ repository.IssuerProfileRepository = (*IssuerRepo)(nil)

// IssuerRepo persistenza del profilo cedente/prestatore (record unico).
type IssuerRepo struct {
	q Querier
}

// NewIssuerRepository costruisce l'adapter. Passare pool o tx (Querier).
func NewIssuerRepository(q Querier) *IssuerRepo {
	return &IssuerRepo{q: q}
}

// Get restituisce il profilo configurato, nil se mai configurato.
func (r *IssuerRepo) Get() (*entity.IssuerProfile, error) {
	query := `
		SELECT id, name, partita_iva, codice_fiscale, regime_fiscale,
		       street, city, postal_code, province, country, updated_at
		FROM issuer_profile LIMIT 1`
	var p entity.IssuerProfile
	var cf, street, city, cap, province, country *string
	err := r.q.QueryRow(context.Background(), query).Scan(
		&p.ID, &p.Name, &p.PartitaIVA, &cf, &p.RegimeFiscale,
		&street, &city, &cap, &province, &country, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cedente: %w", err)
	}
	p.CodiceFiscale = derefStr(cf)
	p.Address = entity.Address{
		Street:     derefStr(street),
		City:       derefStr(city),
		PostalCode: derefStr(cap),
		Province:   derefStr(province),
		Country:    derefStr(country),
	}
	return &p, nil
}

// Save crea o sostituisce il profilo.
func (r *IssuerRepo) Save(profile *entity.IssuerProfile) error {
	query := `
		INSERT INTO issuer_profile (id, name, partita_iva, codice_fiscale, regime_fiscale,
		                            street, city, postal_code, province, country, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, partita_iva = EXCLUDED.partita_iva,
		    codice_fiscale = EXCLUDED.codice_fiscale, regime_fiscale = EXCLUDED.regime_fiscale,
		    street = EXCLUDED.street, city = EXCLUDED.city,
		    postal_code = EXCLUDED.postal_code, province = EXCLUDED.province,
		    country = EXCLUDED.country, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		profile.ID, profile.Name, profile.PartitaIVA,
		nullIfEmpty(profile.CodiceFiscale), profile.RegimeFiscale,
		nullIfEmpty(profile.Address.Street), nullIfEmpty(profile.Address.City),
		nullIfEmpty(profile.Address.PostalCode), nullIfEmpty(profile.Address.Province),
		nullIfEmpty(profile.Address.Country), profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save cedente: %w", err)
	}
	return nil
}
