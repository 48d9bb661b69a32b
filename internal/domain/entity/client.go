package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipologie di cliente (cessionario/committente).
const (
	ClientProfessionista = "PROFESSIONISTA"
	ClientAzienda        = "AZIENDA"
	ClientPA             = "PUBBLICA_AMMINISTRAZIONE"
)

// Client rappresenta un cessionario/committente.
// SplitPayment è ammesso solo per clienti PA; split payment e ritenuta sono
// comunque mutuamente esclusivi in fase di calcolo.
type Client struct {
	ID   string
	Name string
	Type string // Client*

	PartitaIVA    string
	CodiceFiscale string
	Address       Address

	// Configurazione ritenuta d'acconto
	SubjectToRitenuta bool
	RitenutaType      string          // RT01 / RT02
	RitenutaRate      decimal.Decimal // aliquota percentuale (es. 20)
	RitenutaBase      decimal.Decimal // percentuale imponibile (es. 100, 50, 20)
	CausalePagamento  string          // codice causale pagamento (vuoto = default "A")

	SplitPayment bool

	// Identificativi PA
	CodiceUfficio string // codice ufficio (6 caratteri)
	CIG           string // codice identificativo gara
	CUP           string // codice unico progetto

	// Recapito SDI
	CodiceDestinatario string // 7 caratteri
	PEC                string // posta elettronica certificata

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Address sede (usata da cliente e cedente/prestatore).
type Address struct {
	Street     string
	City       string
	PostalCode string // CAP
	Province   string // sigla provincia
	Country    string // vuoto = "IT"
}

// IsPA indica se il cliente è una Pubblica Amministrazione.
func (c *Client) IsPA() bool {
	return c != nil && c.Type == ClientPA
}
