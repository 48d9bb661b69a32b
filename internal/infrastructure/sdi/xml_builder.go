// Package sdi costruisce il tracciato XML FatturaPA v1.2 della fattura per il
// Sistema di Interscambio. Proietta una fattura già calcolata più i dati di
// cedente e cessionario: nessun calcolo avviene qui.
package sdi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/tuo-utente/fattura-pro/internal/domain"
	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/pkg/fatturapa"
)

// Namespace ufficiali del tracciato FatturaPA v1.2.
const (
	NsFatturaPA = "http://ivaservizi.agenziaentrate.gov.it/docs/xsd/fatture/v1.2"
	nsDs        = "http://www.w3.org/2000/09/xmldsig#"
	nsXsi       = "http://www.w3.org/2001/XMLSchema-instance"
)

// XMLBuilder costruisce il documento FatturaElettronica (senza firma).
type XMLBuilder struct{}

// NewXMLBuilder crea il builder.
func NewXMLBuilder() *XMLBuilder {
	return &XMLBuilder{}
}

// Build genera i byte del documento XML. Precondizioni: fattura con cliente
// già associato e profilo cedente configurato; la loro assenza è una
// violazione di contratto del chiamante, non un errore di business.
func (b *XMLBuilder) Build(inv *entity.Invoice, issuer *entity.IssuerProfile) ([]byte, error) {
	if inv == nil {
		return nil, fmt.Errorf("sdi: %w", domain.ErrInvalidInput)
	}
	if issuer == nil {
		return nil, fmt.Errorf("sdi: %w", domain.ErrMissingIssuer)
	}
	if inv.Client == nil {
		return nil, fmt.Errorf("sdi: %w", domain.ErrMissingClient)
	}

	formato := fatturapa.FormatoTrasmissionePrivati
	if inv.Client.IsPA() {
		formato = fatturapa.FormatoTrasmissionePA
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("p:FatturaElettronica")
	root.CreateAttr("versione", formato)
	root.CreateAttr("xmlns:p", NsFatturaPA)
	root.CreateAttr("xmlns:ds", nsDs)
	root.CreateAttr("xmlns:xsi", nsXsi)

	header := root.CreateElement("FatturaElettronicaHeader")
	b.writeDatiTrasmissione(header, inv, issuer, formato)
	b.writeCedentePrestatore(header, issuer)
	b.writeCessionarioCommittente(header, inv.Client)

	body := root.CreateElement("FatturaElettronicaBody")
	b.writeDatiGenerali(body, inv)
	b.writeDatiBeniServizi(body, inv)
	b.writeDatiPagamento(body, inv)

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (b *XMLBuilder) writeDatiTrasmissione(parent *etree.Element, inv *entity.Invoice, issuer *entity.IssuerProfile, formato string) {
	dt := parent.CreateElement("DatiTrasmissione")

	idTr := dt.CreateElement("IdTrasmittente")
	idTr.CreateElement("IdPaese").SetText(fatturapa.IdPaeseDefault)
	idTr.CreateElement("IdCodice").SetText(issuer.PartitaIVA)

	dt.CreateElement("ProgressivoInvio").SetText(stripSeparators(inv.Number))
	dt.CreateElement("FormatoTrasmissione").SetText(formato)

	// Risoluzione del recapito: codice ufficio per la PA, poi codice
	// destinatario del cliente, infine i sette zeri con eventuale PEC.
	client := inv.Client
	switch {
	case client.IsPA() && client.CodiceUfficio != "":
		dt.CreateElement("CodiceDestinatario").SetText(client.CodiceUfficio)
	case client.CodiceDestinatario != "":
		dt.CreateElement("CodiceDestinatario").SetText(client.CodiceDestinatario)
	default:
		dt.CreateElement("CodiceDestinatario").SetText(fatturapa.CodiceDestinatarioDefault)
		if client.PEC != "" {
			dt.CreateElement("PECDestinatario").SetText(client.PEC)
		}
	}
}

func (b *XMLBuilder) writeCedentePrestatore(parent *etree.Element, issuer *entity.IssuerProfile) {
	ced := parent.CreateElement("CedentePrestatore")

	da := ced.CreateElement("DatiAnagrafici")
	idFiscale := da.CreateElement("IdFiscaleIVA")
	idFiscale.CreateElement("IdPaese").SetText(fatturapa.IdPaeseDefault)
	idFiscale.CreateElement("IdCodice").SetText(issuer.PartitaIVA)
	da.CreateElement("Anagrafica").CreateElement("Denominazione").SetText(issuer.Name)
	da.CreateElement("RegimeFiscale").SetText(issuer.RegimeFiscale)

	writeSede(ced, issuer.Address)
}

func (b *XMLBuilder) writeCessionarioCommittente(parent *etree.Element, client *entity.Client) {
	ces := parent.CreateElement("CessionarioCommittente")

	da := ces.CreateElement("DatiAnagrafici")
	if client.PartitaIVA != "" {
		idFiscale := da.CreateElement("IdFiscaleIVA")
		idFiscale.CreateElement("IdPaese").SetText(fatturapa.IdPaeseDefault)
		idFiscale.CreateElement("IdCodice").SetText(client.PartitaIVA)
	}
	if client.CodiceFiscale != "" {
		da.CreateElement("CodiceFiscale").SetText(client.CodiceFiscale)
	}
	da.CreateElement("Anagrafica").CreateElement("Denominazione").SetText(client.Name)

	writeSede(ces, client.Address)
}

// writeSede emette il blocco <Sede> di cedente o cessionario. La nazione
// vuota vale Italia.
func writeSede(parent *etree.Element, addr entity.Address) {
	sede := parent.CreateElement("Sede")
	sede.CreateElement("Indirizzo").SetText(addr.Street)
	sede.CreateElement("CAP").SetText(addr.PostalCode)
	sede.CreateElement("Comune").SetText(addr.City)
	if addr.Province != "" {
		sede.CreateElement("Provincia").SetText(addr.Province)
	}
	nazione := addr.Country
	if nazione == "" {
		nazione = fatturapa.IdPaeseDefault
	}
	sede.CreateElement("Nazione").SetText(nazione)
}

func (b *XMLBuilder) writeDatiGenerali(parent *etree.Element, inv *entity.Invoice) {
	dg := parent.CreateElement("DatiGenerali")
	dgd := dg.CreateElement("DatiGeneraliDocumento")

	dgd.CreateElement("TipoDocumento").SetText(inv.Type)
	dgd.CreateElement("Divisa").SetText(fatturapa.DivisaDefault)
	dgd.CreateElement("Data").SetText(inv.Date.Format("2006-01-02"))
	dgd.CreateElement("Numero").SetText(inv.Number)

	client := inv.Client
	if client.SubjectToRitenuta && !inv.Ritenuta.IsZero() {
		dr := dgd.CreateElement("DatiRitenuta")
		tipo := client.RitenutaType
		if tipo == "" {
			tipo = fatturapa.RitenutaPersoneFisiche
		}
		dr.CreateElement("TipoRitenuta").SetText(tipo)
		dr.CreateElement("ImportoRitenuta").SetText(formatAmount(inv.Ritenuta.Abs()))
		dr.CreateElement("AliquotaRitenuta").SetText(formatAmount(client.RitenutaRate))
		causale := client.CausalePagamento
		if causale == "" {
			causale = fatturapa.CausalePagamentoDefault
		}
		dr.CreateElement("CausalePagamento").SetText(causale)
	}

	if inv.BolloApplied {
		db := dgd.CreateElement("DatiBollo")
		db.CreateElement("BolloVirtuale").SetText("SI")
		db.CreateElement("ImportoBollo").SetText(formatAmount(inv.Bollo))
	}

	if inv.Causale != "" {
		dgd.CreateElement("Causale").SetText(inv.Causale)
	}

	// Riferimento al documento originario, solo per note di variazione.
	if fatturapa.IsNotaDiVariazione(inv.Type) {
		dfc := dg.CreateElement("DatiFattureCollegate")
		dfc.CreateElement("IdDocumento").SetText(inv.LinkedInvoiceNumber)
	}
}

func (b *XMLBuilder) writeDatiBeniServizi(parent *etree.Element, inv *entity.Invoice) {
	dbs := parent.CreateElement("DatiBeniServizi")

	for i, it := range inv.Items {
		dl := dbs.CreateElement("DettaglioLinee")
		dl.CreateElement("NumeroLinea").SetText(fmt.Sprintf("%d", i+1))
		dl.CreateElement("Descrizione").SetText(it.Description)
		dl.CreateElement("Quantita").SetText(formatAmount(it.Quantity))
		dl.CreateElement("PrezzoUnitario").SetText(formatAmount(it.UnitPrice))
		dl.CreateElement("PrezzoTotale").SetText(formatAmount(it.Taxable))
		dl.CreateElement("AliquotaIVA").SetText(formatRate(it.Aliquota))
		if it.Aliquota == entity.AliquotaZero && it.Natura != "" {
			dl.CreateElement("Natura").SetText(it.Natura)
		}
	}

	for _, g := range riepiloghi(inv) {
		dr := dbs.CreateElement("DatiRiepilogo")
		dr.CreateElement("AliquotaIVA").SetText(formatRate(g.aliquota))
		if g.aliquota == entity.AliquotaZero && g.natura != "" {
			dr.CreateElement("Natura").SetText(g.natura)
		}
		dr.CreateElement("ImponibileImporto").SetText(formatAmount(g.imponibile))
		dr.CreateElement("Imposta").SetText(formatAmount(g.imposta))
		dr.CreateElement("EsigibilitaIVA").SetText(esigibilita(inv))
	}
}

func (b *XMLBuilder) writeDatiPagamento(parent *etree.Element, inv *entity.Invoice) {
	if inv.Payment == nil {
		return
	}
	dp := parent.CreateElement("DatiPagamento")
	dp.CreateElement("CondizioniPagamento").SetText(fatturapa.CodePrefix(inv.Payment.Condition))

	det := dp.CreateElement("DettaglioPagamento")
	det.CreateElement("ModalitaPagamento").SetText(fatturapa.CodePrefix(inv.Payment.Method))
	if inv.DueDate != nil {
		det.CreateElement("DataScadenzaPagamento").SetText(inv.DueDate.Format("2006-01-02"))
	}
	det.CreateElement("ImportoPagamento").SetText(formatAmount(inv.AmountDue))
	if inv.Payment.IBAN != "" {
		det.CreateElement("IBAN").SetText(inv.Payment.IBAN)
	}
}

// riepilogo gruppo (aliquota, natura) con imponibile e imposta sommati.
type riepilogo struct {
	aliquota   entity.Aliquota
	natura     string
	imponibile decimal.Decimal
	imposta    decimal.Decimal
}

// riepiloghi raggruppa le righe per coppia (aliquota, natura) in ordine
// deterministico: aliquota decrescente, poi natura.
func riepiloghi(inv *entity.Invoice) []riepilogo {
	type key struct {
		aliquota entity.Aliquota
		natura   string
	}
	groups := make(map[key]*riepilogo)
	var order []key
	for _, it := range inv.Items {
		k := key{it.Aliquota, it.Natura}
		g, ok := groups[k]
		if !ok {
			g = &riepilogo{aliquota: it.Aliquota, natura: it.Natura}
			groups[k] = g
			order = append(order, k)
		}
		g.imponibile = g.imponibile.Add(it.Taxable)
		g.imposta = g.imposta.Add(it.Tax)
	}
	sort.Slice(order, func(i, j int) bool {
		pi, pj := order[i].aliquota.Percent(), order[j].aliquota.Percent()
		if !pi.Equal(pj) {
			return pi.GreaterThan(pj)
		}
		return order[i].natura < order[j].natura
	})
	out := make([]riepilogo, len(order))
	for i, k := range order {
		out[i] = *groups[k]
	}
	return out
}

func esigibilita(inv *entity.Invoice) string {
	if inv.Esigibilita == "" {
		return string(entity.EsigibilitaImmediata)
	}
	return string(inv.Esigibilita)
}

// formatAmount serializza importi e quantità con esattamente 2 decimali e
// separatore punto, indipendente dal locale.
func formatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

// formatRate serializza l'aliquota come percentuale intera.
func formatRate(a entity.Aliquota) string {
	return a.Percent().String()
}

// stripSeparators rimuove i separatori dal numero documento per il
// ProgressivoInvio ("2026/001" -> "2026001").
func stripSeparators(number string) string {
	return strings.NewReplacer("/", "", "-", "", " ", "").Replace(number)
}
