package dto

import "github.com/shopspring/decimal"

// CreateClientRequest body per POST /api/clients.
type CreateClientRequest struct {
	Name               string          `json:"name"`
	Type               string          `json:"type"` // PROFESSIONISTA, AZIENDA, PUBBLICA_AMMINISTRAZIONE
	PartitaIVA         string          `json:"partita_iva,omitempty"`
	CodiceFiscale      string          `json:"codice_fiscale,omitempty"`
	Street             string          `json:"street,omitempty"`
	City               string          `json:"city,omitempty"`
	PostalCode         string          `json:"postal_code,omitempty"`
	Province           string          `json:"province,omitempty"`
	SubjectToRitenuta  bool            `json:"subject_to_ritenuta,omitempty"`
	RitenutaType       string          `json:"ritenuta_type,omitempty"`
	RitenutaRate       decimal.Decimal `json:"ritenuta_rate,omitempty"`
	RitenutaBase       decimal.Decimal `json:"ritenuta_base,omitempty"`
	CausalePagamento   string          `json:"causale_pagamento,omitempty"`
	SplitPayment       bool            `json:"split_payment,omitempty"`
	CodiceUfficio      string          `json:"codice_ufficio,omitempty"`
	CIG                string          `json:"cig,omitempty"`
	CUP                string          `json:"cup,omitempty"`
	CodiceDestinatario string          `json:"codice_destinatario,omitempty"`
	PEC                string          `json:"pec,omitempty"`
}

// ClientResponse cliente nelle risposte.
type ClientResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Type               string `json:"type"`
	PartitaIVA         string `json:"partita_iva,omitempty"`
	CodiceFiscale      string `json:"codice_fiscale,omitempty"`
	SplitPayment       bool   `json:"split_payment,omitempty"`
	SubjectToRitenuta  bool   `json:"subject_to_ritenuta,omitempty"`
	CodiceDestinatario string `json:"codice_destinatario,omitempty"`
	PEC                string `json:"pec,omitempty"`
}

// SaveIssuerRequest body per PUT /api/issuer (azione amministrativa, una tantum).
type SaveIssuerRequest struct {
	Name          string `json:"name"`
	PartitaIVA    string `json:"partita_iva"`
	CodiceFiscale string `json:"codice_fiscale,omitempty"`
	RegimeFiscale string `json:"regime_fiscale"` // codice RF (es. RF01, RF19)
	Street        string `json:"street,omitempty"`
	City          string `json:"city,omitempty"`
	PostalCode    string `json:"postal_code,omitempty"`
	Province      string `json:"province,omitempty"`
}

// InvoiceItemRequest riga fattura in ingresso.
type InvoiceItemRequest struct {
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Aliquota        string          `json:"aliquota"` // ORDINARIA, INTERMEDIA, RIDOTTA, MINIMA, ZERO
	Natura          string          `json:"natura,omitempty"`
	DiscountPercent decimal.Decimal `json:"discount_percent,omitempty"`
	DiscountAmount  decimal.Decimal `json:"discount_amount,omitempty"`
}

// PaymentRequest termini di pagamento opzionali.
type PaymentRequest struct {
	Condition string `json:"condition"` // es. TP02_PagamentoCompleto
	Method    string `json:"method"`    // es. MP05_BonificoBancario
	IBAN      string `json:"iban,omitempty"`
	BankName  string `json:"bank_name,omitempty"`
}

// CreateInvoiceRequest body per POST /api/invoices. Date in formato ISO (2006-01-02).
type CreateInvoiceRequest struct {
	ClientID          string               `json:"client_id"`
	Type              string               `json:"type"` // codice TipoDocumento, default TD01
	Date              string               `json:"date"`
	OperationDate     string               `json:"operation_date,omitempty"`
	DueDate           string               `json:"due_date,omitempty"`
	RegimeForfettario bool                 `json:"regime_forfettario,omitempty"`
	Semplificata      bool                 `json:"semplificata,omitempty"`
	Causale           string               `json:"causale,omitempty"`
	Notes             string               `json:"notes,omitempty"`
	Items             []InvoiceItemRequest `json:"items"`
	Payment           *PaymentRequest      `json:"payment,omitempty"`
}

// ChangeStatusRequest body per POST /api/invoices/:id/status.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// CreditNoteRequest body per POST /api/invoices/:id/credit-note.
type CreditNoteRequest struct {
	Reason string `json:"reason"`
}

// DebitNoteRequest body per POST /api/invoices/:id/debit-note.
type DebitNoteRequest struct {
	Reason string               `json:"reason"`
	Items  []InvoiceItemRequest `json:"items"`
}

// InvoiceItemResponse riga fattura con i campi calcolati.
type InvoiceItemResponse struct {
	ID              string          `json:"id"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Aliquota        string          `json:"aliquota"`
	Natura          string          `json:"natura,omitempty"`
	DiscountPercent decimal.Decimal `json:"discount_percent,omitempty"`
	DiscountAmount  decimal.Decimal `json:"discount_amount,omitempty"`
	Taxable         decimal.Decimal `json:"taxable"`
	Tax             decimal.Decimal `json:"tax"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// InvoiceResponse fattura con righe e aggregati.
type InvoiceResponse struct {
	ID                  string                     `json:"id"`
	ClientID            string                     `json:"client_id"`
	ClientName          string                     `json:"client_name,omitempty"`
	Type                string                     `json:"type"`
	Status              string                     `json:"status"`
	Number              string                     `json:"number,omitempty"`
	Date                string                     `json:"date"`
	OperationDate       string                     `json:"operation_date,omitempty"`
	DueDate             string                     `json:"due_date,omitempty"`
	RegimeForfettario   bool                       `json:"regime_forfettario,omitempty"`
	Semplificata        bool                       `json:"semplificata,omitempty"`
	Causale             string                     `json:"causale,omitempty"`
	Notes               string                     `json:"notes,omitempty"`
	LinkedInvoiceID     string                     `json:"linked_invoice_id,omitempty"`
	LinkedInvoiceNumber string                     `json:"linked_invoice_number,omitempty"`
	TaxableTotal        decimal.Decimal            `json:"taxable_total"`
	TaxTotal            decimal.Decimal            `json:"tax_total"`
	SubTotal            decimal.Decimal            `json:"sub_total"`
	Ritenuta            decimal.Decimal            `json:"ritenuta"`
	Bollo               decimal.Decimal            `json:"bollo"`
	AmountDue           decimal.Decimal            `json:"amount_due"`
	TaxByRate           map[string]decimal.Decimal `json:"tax_by_rate,omitempty"`
	Esigibilita         string                     `json:"esigibilita,omitempty"`
	BolloApplied        bool                       `json:"bollo_applied"`
	XMLHash             string                     `json:"xml_hash,omitempty"`
	Items               []InvoiceItemResponse      `json:"items"`
	// Warning valorizzato, ad esempio, quando l'annullamento richiede per
	// legge una nota di credito (art. 26).
	Warning string `json:"warning,omitempty"`
}
