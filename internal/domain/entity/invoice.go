package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stati del ciclo di vita della fattura.
// PAID e CANCELLED sono terminali; le transizioni ammesse sono in fiscale.CanTransition.
const (
	StatusDraft     = "DRAFT"     // Bozza, senza numero
	StatusIssued    = "ISSUED"    // Emessa: totali ricalcolati e numero assegnato
	StatusSent      = "SENT"      // Inviata al cliente
	StatusPaid      = "PAID"      // Pagata (terminale)
	StatusOverdue   = "OVERDUE"   // Scaduta e non pagata
	StatusCancelled = "CANCELLED" // Annullata (terminale)
)

// Aliquota categoria di aliquota IVA applicabile a una riga.
type Aliquota string

const (
	AliquotaOrdinaria  Aliquota = "ORDINARIA"  // 22%
	AliquotaIntermedia Aliquota = "INTERMEDIA" // 10%
	AliquotaRidotta    Aliquota = "RIDOTTA"    // 5%
	AliquotaMinima     Aliquota = "MINIMA"     // 4%
	AliquotaZero       Aliquota = "ZERO"       // 0% (richiede codice natura)
)

// Percent restituisce la percentuale dell'aliquota.
func (a Aliquota) Percent() decimal.Decimal {
	switch a {
	case AliquotaOrdinaria:
		return decimal.NewFromInt(22)
	case AliquotaIntermedia:
		return decimal.NewFromInt(10)
	case AliquotaRidotta:
		return decimal.NewFromInt(5)
	case AliquotaMinima:
		return decimal.NewFromInt(4)
	default:
		return decimal.Zero
	}
}

// Esigibilita categoria di esigibilità IVA (lettera usata in <EsigibilitaIVA>).
type Esigibilita string

const (
	EsigibilitaImmediata    Esigibilita = "I"
	EsigibilitaDifferita    Esigibilita = "D"
	EsigibilitaSplitPayment Esigibilita = "S"
)

// InvoiceItem rappresenta una riga della fattura.
// Taxable, Tax e LineTotal sono sempre derivati dal motore di calcolo,
// mai impostati dal chiamante.
type InvoiceItem struct {
	ID              string
	Description     string
	Quantity        decimal.Decimal // > 0
	UnitPrice       decimal.Decimal // >= 0
	Aliquota        Aliquota
	Natura          string          // obbligatorio se aliquota zero, vietato altrimenti
	DiscountPercent decimal.Decimal // sconto percentuale sulla riga
	DiscountAmount  decimal.Decimal // sconto fisso (ignorato se DiscountPercent > 0)

	// Campi calcolati
	Taxable   decimal.Decimal // imponibile della riga
	Tax       decimal.Decimal // IVA della riga
	LineTotal decimal.Decimal // imponibile + IVA
}

// Invoice rappresenta una fattura (o nota di variazione) con righe e aggregati.
// Gli aggregati sono funzione pura di righe + cliente + flag di regime:
// il ricalcolo è idempotente.
type Invoice struct {
	ID       string
	ClientID string
	Client   *Client // caricato dal repository prima di calcolo e serializzazione

	Type   string // codice TipoDocumento (fatturapa.TipoDoc*)
	Status string
	Number string // "AAAA/NNN", vuoto in bozza

	Date          time.Time
	OperationDate *time.Time // data operazione (per vincoli TD01/TD24)
	DueDate       *time.Time

	Items []InvoiceItem

	RegimeForfettario bool
	Semplificata      bool
	Causale           string // annotazione legale libera
	Notes             string

	// Riferimento al documento originario (solo note di credito/debito)
	LinkedInvoiceID     string
	LinkedInvoiceNumber string

	// Aggregati calcolati
	TaxableTotal decimal.Decimal
	TaxTotal     decimal.Decimal
	SubTotal     decimal.Decimal
	Ritenuta     decimal.Decimal
	Bollo        decimal.Decimal
	AmountDue    decimal.Decimal
	TaxByRate    map[Aliquota]decimal.Decimal
	Esigibilita  Esigibilita
	BolloApplied bool

	Payment *PaymentInfo

	// Proiezione XML FatturaPA dell'ultimo Build (vuota se mai generata)
	XMLContent string
	XMLHash    string // SHA-256 esadecimale del documento canonicalizzato

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal indica se lo stato non ammette transizioni in uscita.
func IsTerminal(status string) bool {
	return status == StatusPaid || status == StatusCancelled
}
