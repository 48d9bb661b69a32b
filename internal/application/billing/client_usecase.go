package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tuo-utente/fattura-pro/internal/application/dto"
	"github.com/tuo-utente/fattura-pro/internal/domain"
	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/internal/domain/repository"
)

// ClientUseCase casi d'uso per i cessionari/committenti.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase costruisce il caso d'uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create crea un nuovo cliente. Lo split payment è riservato ai clienti PA.
func (uc *ClientUseCase) Create(in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if in.Name == "" || in.Type == "" {
		return nil, domain.ErrInvalidInput
	}
	switch in.Type {
	case entity.ClientProfessionista, entity.ClientAzienda, entity.ClientPA:
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.PartitaIVA == "" && in.CodiceFiscale == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.SplitPayment && in.Type != entity.ClientPA {
		return nil, domain.ErrInvalidInput
	}
	if in.SubjectToRitenuta {
		if in.RitenutaRate.LessThanOrEqual(decimal.Zero) || in.RitenutaBase.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.PartitaIVA != "" {
		existing, _ := uc.repo.GetByPartitaIVA(in.PartitaIVA)
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}

	now := time.Now()
	client := &entity.Client{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Type:          in.Type,
		PartitaIVA:    in.PartitaIVA,
		CodiceFiscale: in.CodiceFiscale,
		Address: entity.Address{
			Street:     in.Street,
			City:       in.City,
			PostalCode: in.PostalCode,
			Province:   in.Province,
		},
		SubjectToRitenuta:  in.SubjectToRitenuta,
		RitenutaType:       in.RitenutaType,
		RitenutaRate:       in.RitenutaRate,
		RitenutaBase:       in.RitenutaBase,
		CausalePagamento:   in.CausalePagamento,
		SplitPayment:       in.SplitPayment,
		CodiceUfficio:      in.CodiceUfficio,
		CIG:                in.CIG,
		CUP:                in.CUP,
		CodiceDestinatario: in.CodiceDestinatario,
		PEC:                in.PEC,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.repo.Create(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Get restituisce un cliente.
func (uc *ClientUseCase) Get(id string) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return toClientResponse(client), nil
}

// List lista i clienti.
func (uc *ClientUseCase) List(limit, offset int) ([]*dto.ClientResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

// Update aggiorna un cliente esistente.
func (uc *ClientUseCase) Update(id string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if in.SplitPayment && in.Type != entity.ClientPA {
		return nil, domain.ErrInvalidInput
	}

	client.Name = in.Name
	client.Type = in.Type
	client.PartitaIVA = in.PartitaIVA
	client.CodiceFiscale = in.CodiceFiscale
	client.Address = entity.Address{
		Street:     in.Street,
		City:       in.City,
		PostalCode: in.PostalCode,
		Province:   in.Province,
	}
	client.SubjectToRitenuta = in.SubjectToRitenuta
	client.RitenutaType = in.RitenutaType
	client.RitenutaRate = in.RitenutaRate
	client.RitenutaBase = in.RitenutaBase
	client.CausalePagamento = in.CausalePagamento
	client.SplitPayment = in.SplitPayment
	client.CodiceUfficio = in.CodiceUfficio
	client.CIG = in.CIG
	client.CUP = in.CUP
	client.CodiceDestinatario = in.CodiceDestinatario
	client.PEC = in.PEC
	client.UpdatedAt = time.Now()

	if err := uc.repo.Update(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Delete elimina un cliente.
func (uc *ClientUseCase) Delete(id string) error {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if client == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Type:               c.Type,
		PartitaIVA:         c.PartitaIVA,
		CodiceFiscale:      c.CodiceFiscale,
		SplitPayment:       c.SplitPayment,
		SubjectToRitenuta:  c.SubjectToRitenuta,
		CodiceDestinatario: c.CodiceDestinatario,
		PEC:                c.PEC,
	}
}
