package sdi_test

import (
	"errors"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuo-utente/fattura-pro/internal/domain"
	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/internal/domain/fiscale"
	"github.com/tuo-utente/fattura-pro/internal/infrastructure/sdi"
	"github.com/tuo-utente/fattura-pro/pkg/fatturapa"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func issuerProfile() *entity.IssuerProfile {
	return &entity.IssuerProfile{
		Name:          "Studio Rossi",
		PartitaIVA:    "01234567890",
		RegimeFiscale: fatturapa.RegimeFiscaleOrdinario,
		Address: entity.Address{
			Street: "Via Roma 1", City: "Milano", PostalCode: "20100", Province: "MI",
		},
	}
}

func fatturaEmessa(t *testing.T, client *entity.Client) *entity.Invoice {
	t.Helper()
	inv := &entity.Invoice{
		Type:   fatturapa.TipoDocFatturaImmediata,
		Status: entity.StatusDraft,
		Date:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Client: client,
		Items: []entity.InvoiceItem{{
			Description: "Consulenza fiscale",
			Quantity:    dec("1"),
			UnitPrice:   dec("1000"),
			Aliquota:    entity.AliquotaOrdinaria,
		}},
	}
	out, err := fiscale.CalculateInvoice(inv)
	require.NoError(t, err)
	out.Number = "2026/001"
	out.Status = entity.StatusIssued
	return out
}

func buildDoc(t *testing.T, inv *entity.Invoice, issuer *entity.IssuerProfile) *etree.Document {
	t.Helper()
	raw, err := sdi.NewXMLBuilder().Build(inv, issuer)
	require.NoError(t, err)
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(raw))
	return doc
}

func text(t *testing.T, doc *etree.Document, path string) string {
	t.Helper()
	el := doc.FindElement(path)
	require.NotNil(t, el, "elemento %s assente", path)
	return el.Text()
}

func TestBuild_FatturaVersoPrivato(t *testing.T) {
	client := &entity.Client{
		Type: entity.ClientAzienda, Name: "ACME Srl",
		PartitaIVA: "09876543210", CodiceDestinatario: "ABC1234",
		Address: entity.Address{Street: "Via Verdi 2", City: "Torino", PostalCode: "10100", Province: "TO"},
	}
	doc := buildDoc(t, fatturaEmessa(t, client), issuerProfile())

	root := doc.Root()
	assert.Equal(t, "FPR12", root.SelectAttrValue("versione", ""))
	assert.Equal(t, "FPR12", text(t, doc, "//DatiTrasmissione/FormatoTrasmissione"))
	assert.Equal(t, "2026001", text(t, doc, "//DatiTrasmissione/ProgressivoInvio"),
		"il progressivo invio è il numero senza separatori")
	assert.Equal(t, "ABC1234", text(t, doc, "//DatiTrasmissione/CodiceDestinatario"))
	assert.Nil(t, doc.FindElement("//PECDestinatario"))

	assert.Equal(t, "01234567890", text(t, doc, "//CedentePrestatore/DatiAnagrafici/IdFiscaleIVA/IdCodice"))
	assert.Equal(t, "RF01", text(t, doc, "//CedentePrestatore/DatiAnagrafici/RegimeFiscale"))
	assert.Equal(t, "ACME Srl", text(t, doc, "//CessionarioCommittente/DatiAnagrafici/Anagrafica/Denominazione"))

	assert.Equal(t, "TD01", text(t, doc, "//DatiGeneraliDocumento/TipoDocumento"))
	assert.Equal(t, "EUR", text(t, doc, "//DatiGeneraliDocumento/Divisa"))
	assert.Equal(t, "2026-03-15", text(t, doc, "//DatiGeneraliDocumento/Data"))
	assert.Equal(t, "2026/001", text(t, doc, "//DatiGeneraliDocumento/Numero"))

	assert.Equal(t, "1", text(t, doc, "//DettaglioLinee/NumeroLinea"))
	assert.Equal(t, "1000.00", text(t, doc, "//DettaglioLinee/PrezzoTotale"),
		"importi sempre con due decimali e punto")
	assert.Equal(t, "22", text(t, doc, "//DettaglioLinee/AliquotaIVA"), "aliquota come percentuale intera")

	assert.Equal(t, "1000.00", text(t, doc, "//DatiRiepilogo/ImponibileImporto"))
	assert.Equal(t, "220.00", text(t, doc, "//DatiRiepilogo/Imposta"))
	assert.Equal(t, "I", text(t, doc, "//DatiRiepilogo/EsigibilitaIVA"))
}

func TestBuild_SediCedenteECessionario(t *testing.T) {
	client := &entity.Client{
		Type: entity.ClientAzienda, Name: "ACME Srl", PartitaIVA: "09876543210",
		Address: entity.Address{Street: "Via Verdi 2", City: "Torino", PostalCode: "10100", Province: "TO"},
	}
	doc := buildDoc(t, fatturaEmessa(t, client), issuerProfile())

	assert.Equal(t, "Via Roma 1", text(t, doc, "//CedentePrestatore/Sede/Indirizzo"))
	assert.Equal(t, "20100", text(t, doc, "//CedentePrestatore/Sede/CAP"))
	assert.Equal(t, "Milano", text(t, doc, "//CedentePrestatore/Sede/Comune"))
	assert.Equal(t, "MI", text(t, doc, "//CedentePrestatore/Sede/Provincia"))
	assert.Equal(t, "IT", text(t, doc, "//CedentePrestatore/Sede/Nazione"),
		"nazione vuota serializzata come IT")

	assert.Equal(t, "Via Verdi 2", text(t, doc, "//CessionarioCommittente/Sede/Indirizzo"))
	assert.Equal(t, "10100", text(t, doc, "//CessionarioCommittente/Sede/CAP"))
	assert.Equal(t, "Torino", text(t, doc, "//CessionarioCommittente/Sede/Comune"))
	assert.Equal(t, "TO", text(t, doc, "//CessionarioCommittente/Sede/Provincia"))
}

func TestBuild_SedeSenzaProvincia(t *testing.T) {
	client := &entity.Client{
		Type: entity.ClientAzienda, Name: "ACME GmbH", PartitaIVA: "09876543210",
		Address: entity.Address{Street: "Hauptstr. 5", City: "Berlino", PostalCode: "10115", Country: "DE"},
	}
	doc := buildDoc(t, fatturaEmessa(t, client), issuerProfile())

	sede := doc.FindElement("//CessionarioCommittente/Sede")
	require.NotNil(t, sede)
	assert.Nil(t, sede.FindElement("Provincia"), "provincia assente per sedi estere")
	assert.Equal(t, "DE", sede.FindElement("Nazione").Text())
}

func TestBuild_PAUsaCodiceUfficioEFormatoFPA12(t *testing.T) {
	client := &entity.Client{
		Type: entity.ClientPA, Name: "Comune di Bologna",
		CodiceFiscale: "80012345678", CodiceUfficio: "UFAB12",
		SplitPayment: true,
	}
	doc := buildDoc(t, fatturaEmessa(t, client), issuerProfile())

	assert.Equal(t, "FPA12", doc.Root().SelectAttrValue("versione", ""))
	assert.Equal(t, "UFAB12", text(t, doc, "//DatiTrasmissione/CodiceDestinatario"))
	assert.Equal(t, "S", text(t, doc, "//DatiRiepilogo/EsigibilitaIVA"),
		"split payment serializza esigibilità S")
}

func TestBuild_FallbackSetteZeriConPEC(t *testing.T) {
	client := &entity.Client{
		Type: entity.ClientProfessionista, Name: "Mario Bianchi",
		CodiceFiscale: "BNCMRA80A01H501X", PEC: "mario.bianchi@pec.it",
	}
	doc := buildDoc(t, fatturaEmessa(t, client), issuerProfile())

	assert.Equal(t, "0000000", text(t, doc, "//DatiTrasmissione/CodiceDestinatario"))
	assert.Equal(t, "mario.bianchi@pec.it", text(t, doc, "//DatiTrasmissione/PECDestinatario"),
		"con il fallback e PEC configurata va emesso PECDestinatario")
}

func TestBuild_DatiRitenuta(t *testing.T) {
	client := &entity.Client{
		Type: entity.ClientProfessionista, Name: "Mario Bianchi",
		PartitaIVA:        "11122233344",
		SubjectToRitenuta: true,
		RitenutaType:      fatturapa.RitenutaPersoneFisiche,
		RitenutaRate:      dec("20"),
		RitenutaBase:      dec("100"),
	}
	doc := buildDoc(t, fatturaEmessa(t, client), issuerProfile())

	assert.Equal(t, "RT01", text(t, doc, "//DatiRitenuta/TipoRitenuta"))
	assert.Equal(t, "200.00", text(t, doc, "//DatiRitenuta/ImportoRitenuta"))
	assert.Equal(t, "20.00", text(t, doc, "//DatiRitenuta/AliquotaRitenuta"))
	assert.Equal(t, "A", text(t, doc, "//DatiRitenuta/CausalePagamento"),
		"causale pagamento mancante: default lettera A")
}

func TestBuild_DatiRitenutaAssenteSeNonDovuta(t *testing.T) {
	client := &entity.Client{Type: entity.ClientAzienda, Name: "ACME Srl", PartitaIVA: "09876543210"}
	doc := buildDoc(t, fatturaEmessa(t, client), issuerProfile())
	assert.Nil(t, doc.FindElement("//DatiRitenuta"), "senza ritenuta il blocco non va emesso")
}

func TestBuild_DatiBolloForfettario(t *testing.T) {
	inv := &entity.Invoice{
		Type:              fatturapa.TipoDocFatturaImmediata,
		Date:              time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Client:            &entity.Client{Type: entity.ClientAzienda, Name: "ACME Srl"},
		RegimeForfettario: true,
		Causale:           fiscale.AnnotazioneForfettario,
		Items: []entity.InvoiceItem{{
			Description: "Prestazione", Quantity: dec("1"), UnitPrice: dec("1000"),
			Aliquota: entity.AliquotaOrdinaria,
		}},
	}
	out, err := fiscale.CalculateInvoice(inv)
	require.NoError(t, err)
	out.Number = "2026/002"
	doc := buildDoc(t, out, issuerProfile())

	assert.Equal(t, "SI", text(t, doc, "//DatiBollo/BolloVirtuale"))
	assert.Equal(t, "2.00", text(t, doc, "//DatiBollo/ImportoBollo"))
	assert.Contains(t, text(t, doc, "//DatiGeneraliDocumento/Causale"), "190/2014")
}

func TestBuild_NotaCreditoRiferisceOriginale(t *testing.T) {
	orig := fatturaEmessa(t, &entity.Client{Type: entity.ClientAzienda, Name: "ACME Srl", PartitaIVA: "09876543210"})
	orig.ID = "orig-1"
	nota := fiscale.CreateCreditNote(orig, "Storno", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	nota.Number = "2026/003"

	doc := buildDoc(t, nota, issuerProfile())
	assert.Equal(t, "TD04", text(t, doc, "//DatiGeneraliDocumento/TipoDocumento"))
	assert.Equal(t, "2026/001", text(t, doc, "//DatiFattureCollegate/IdDocumento"),
		"la nota riporta il numero del documento originale")
}

func TestBuild_DatiPagamento(t *testing.T) {
	inv := fatturaEmessa(t, &entity.Client{Type: entity.ClientAzienda, Name: "ACME Srl", PartitaIVA: "09876543210"})
	due := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	inv.DueDate = &due
	inv.Payment = &entity.PaymentInfo{
		Condition: fatturapa.CondizioniPagamentoCompleto,
		Method:    fatturapa.ModalitaPagamentoBonifico,
		IBAN:      "IT60X0542811101000000123456",
	}
	doc := buildDoc(t, inv, issuerProfile())

	assert.Equal(t, "TP02", text(t, doc, "//DatiPagamento/CondizioniPagamento"),
		"dei valori composti si serializza il solo prefisso")
	assert.Equal(t, "MP05", text(t, doc, "//DettaglioPagamento/ModalitaPagamento"))
	assert.Equal(t, "2026-04-30", text(t, doc, "//DettaglioPagamento/DataScadenzaPagamento"))
	assert.Equal(t, "1220.00", text(t, doc, "//DettaglioPagamento/ImportoPagamento"))
	assert.Equal(t, "IT60X0542811101000000123456", text(t, doc, "//DettaglioPagamento/IBAN"))
}

func TestBuild_DatiPagamentoAssenteSenzaTermini(t *testing.T) {
	inv := fatturaEmessa(t, &entity.Client{Type: entity.ClientAzienda, Name: "ACME Srl", PartitaIVA: "09876543210"})
	doc := buildDoc(t, inv, issuerProfile())
	assert.Nil(t, doc.FindElement("//DatiPagamento"))
}

func TestBuild_RiepiloghiPerAliquotaENatura(t *testing.T) {
	inv := &entity.Invoice{
		Type:   fatturapa.TipoDocFatturaImmediata,
		Date:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Client: &entity.Client{Type: entity.ClientAzienda, Name: "ACME Srl"},
		Items: []entity.InvoiceItem{
			{Description: "A", Quantity: dec("1"), UnitPrice: dec("100"), Aliquota: entity.AliquotaOrdinaria},
			{Description: "B", Quantity: dec("1"), UnitPrice: dec("200"), Aliquota: entity.AliquotaOrdinaria},
			{Description: "C", Quantity: dec("1"), UnitPrice: dec("50"), Aliquota: entity.AliquotaZero, Natura: "N4"},
		},
	}
	out, err := fiscale.CalculateInvoice(inv)
	require.NoError(t, err)
	out.Number = "2026/004"
	doc := buildDoc(t, out, issuerProfile())

	groups := doc.FindElements("//DatiRiepilogo")
	require.Len(t, groups, 2, "un riepilogo per coppia (aliquota, natura)")

	first, second := groups[0], groups[1]
	assert.Equal(t, "22", first.FindElement("AliquotaIVA").Text())
	assert.Equal(t, "300.00", first.FindElement("ImponibileImporto").Text())
	assert.Nil(t, first.FindElement("Natura"))

	assert.Equal(t, "0", second.FindElement("AliquotaIVA").Text())
	assert.Equal(t, "N4", second.FindElement("Natura").Text(),
		"il gruppo ad aliquota zero riporta il codice natura")
}

func TestBuild_Precondizioni(t *testing.T) {
	b := sdi.NewXMLBuilder()

	inv := fatturaEmessa(t, &entity.Client{Type: entity.ClientAzienda, Name: "ACME Srl"})
	_, err := b.Build(inv, nil)
	assert.True(t, errors.Is(err, domain.ErrMissingIssuer), "profilo cedente assente: errore di precondizione")

	inv.Client = nil
	_, err = b.Build(inv, issuerProfile())
	assert.True(t, errors.Is(err, domain.ErrMissingClient), "cliente non associato: errore di precondizione")
}

func TestFingerprint_StabileEDeterministica(t *testing.T) {
	inv := fatturaEmessa(t, &entity.Client{Type: entity.ClientAzienda, Name: "ACME Srl", PartitaIVA: "09876543210"})
	raw, err := sdi.NewXMLBuilder().Build(inv, issuerProfile())
	require.NoError(t, err)

	h1, err := sdi.Fingerprint(raw)
	require.NoError(t, err)
	h2, err := sdi.Fingerprint(raw)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64, "SHA-256 esadecimale")

	raw2, err := sdi.NewXMLBuilder().Build(inv, issuerProfile())
	require.NoError(t, err)
	h3, err := sdi.Fingerprint(raw2)
	require.NoError(t, err)
	assert.Equal(t, h1, h3, "stesso contenuto, stessa impronta")
}
