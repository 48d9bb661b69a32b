package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/tuo-utente/fattura-pro/internal/application/dto"
	"github.com/tuo-utente/fattura-pro/internal/domain"
	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/internal/domain/repository"
	"github.com/tuo-utente/fattura-pro/pkg/fatturapa"
)

// IssuerUseCase gestisce il profilo del cedente/prestatore.
type IssuerUseCase struct {
	repo repository.IssuerProfileRepository
}

func NewIssuerUseCase(repo repository.IssuerProfileRepository) *IssuerUseCase {
	return &IssuerUseCase{repo: repo}
}

// Get restituisce il profilo configurato.
func (uc *IssuerUseCase) Get() (*entity.IssuerProfile, error) {
	profile, err := uc.repo.Get()
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrMissingIssuer
	}
	return profile, nil
}

// Save crea o sostituisce il profilo (azione amministrativa).
func (uc *IssuerUseCase) Save(in dto.SaveIssuerRequest) (*entity.IssuerProfile, error) {
	if in.Name == "" || in.PartitaIVA == "" {
		return nil, domain.ErrInvalidInput
	}
	regime := in.RegimeFiscale
	if regime == "" {
		regime = fatturapa.RegimeFiscaleOrdinario
	}

	existing, err := uc.repo.Get()
	if err != nil {
		return nil, err
	}
	profile := &entity.IssuerProfile{
		Name:          in.Name,
		PartitaIVA:    in.PartitaIVA,
		CodiceFiscale: in.CodiceFiscale,
		RegimeFiscale: regime,
		Address: entity.Address{
			Street:     in.Street,
			City:       in.City,
			PostalCode: in.PostalCode,
			Province:   in.Province,
		},
		UpdatedAt: time.Now(),
	}
	if existing != nil {
		profile.ID = existing.ID
	} else {
		profile.ID = uuid.New().String()
	}
	if err := uc.repo.Save(profile); err != nil {
		return nil, err
	}
	return profile, nil
}
