// Package pdf implementa la copia di cortesia della fattura elettronica.
// Il documento fiscale è il tracciato XML; il PDF è la rappresentazione
// leggibile da allegare alla mail per il cliente.
//
// Layout della pagina A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Cedente + P.IVA  │  N° Fattura + Data              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: denominazione + P.IVA/CF + recapito SDI            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELLA: Qtà | Descrizione | Prezzo unit. | IVA | Imponibile│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALI: Imponibile / IVA / Ritenuta / Bollo / TOTALE        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: impronta SHA-256 + annotazioni di legge             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/pkg/fatturapa"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoPDFGenerator implementa billing.PDFGenerator con Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator costruisce il generatore.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera il PDF e ne restituisce i byte.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(inv *entity.Invoice, issuer *entity.IssuerProfile) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(docTitle(inv.Type)+" "+inv.Number, true).
		WithAuthor(issuer.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv, issuer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clienteRow(inv.Client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(inv.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(inv) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generazione documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func docTitle(docType string) string {
	switch docType {
	case fatturapa.TipoDocNotaCredito:
		return "NOTA DI CREDITO"
	case fatturapa.TipoDocNotaDebito:
		return "NOTA DI DEBITO"
	default:
		return "FATTURA"
	}
}

// headerRow: cedente + P.IVA (sx) e tipo documento + numero + data (dx).
func headerRow(inv *entity.Invoice, issuer *entity.IssuerProfile) core.Row {
	data := inv.Date.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(issuer.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("P.IVA: "+issuer.PartitaIVA, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(docTitle(inv.Type), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(inv.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Data: "+data, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// clienteRow: dati del cessionario/committente.
func clienteRow(client *entity.Client) core.Row {
	identificativo := client.PartitaIVA
	if identificativo == "" {
		identificativo = client.CodiceFiscale
	}
	recapito := client.CodiceDestinatario
	if recapito == "" {
		recapito = nonEmpty(client.PEC, "—")
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CESSIONARIO / COMMITTENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(client.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("P.IVA/CF: %s   |   Recapito SDI: %s",
				nonEmpty(identificativo, "—"), recapito,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: intestazione della tabella righe.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qtà", 1, align.Center),
		h("Descrizione", 5, align.Left),
		h("Prezzo unit.", 2, align.Right),
		h("IVA%", 1, align.Center),
		h("Imponibile", 3, align.Right),
	)
}

// tableItemRows: una riga per ogni riga fattura.
func tableItemRows(items []entity.InvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		aliquota := it.Aliquota.Percent().String() + "%"
		if it.Natura != "" {
			aliquota = it.Natura
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				formatEuro(it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				aliquota,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				formatEuro(it.Taxable),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: blocco totali allineato a destra. Ritenuta e bollo compaiono
// solo quando valorizzati.
func totalsRow(inv *entity.Invoice) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}

	labels := []core.Component{label("Imponibile:", 0), label("IVA:", 5)}
	values := []core.Component{
		value(formatEuro(inv.TaxableTotal), 0),
		value(formatEuro(inv.TaxTotal), 5),
	}
	top := 10.0
	if inv.Ritenuta.IsPositive() {
		labels = append(labels, label("Ritenuta d'acconto:", top))
		values = append(values, value("-"+formatEuro(inv.Ritenuta), top))
		top += 5
	}
	if inv.BolloApplied {
		labels = append(labels, label("Imposta di bollo:", top))
		values = append(values, value(formatEuro(inv.Bollo), top))
		top += 5
	}
	labels = append(labels, text.New("TOTALE DOVUTO:", props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right,
		Color: colorPrimary, Right: 2, Top: top,
	}))
	values = append(values, text.New(formatEuro(inv.AmountDue), props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right,
		Color: colorPrimary, Right: 1, Top: top,
	}))

	return row.New(top + 8).Add(
		col.New(3),
		col.New(4).Add(labels...),
		col.New(3).Add(values...),
		col.New(2),
	)
}

// footerRows: impronta del tracciato + annotazioni.
func footerRows(inv *entity.Invoice) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("FATTURA ELETTRONICA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	if inv.XMLHash != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Impronta SHA-256 del tracciato XML:", props.Text{
				Style: fontstyle.Bold, Size: 7, Top: 1,
			}),
		)))
		for _, chunk := range splitEvery(inv.XMLHash, 80) {
			rows = append(rows, row.New(4).Add(col.New(12).Add(
				text.New(chunk, props.Text{Size: 6.5, Color: colorGray, Top: 0.5, Left: 2}),
			)))
		}
	}

	if inv.Causale != "" {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New(inv.Causale, props.Text{Size: 7, Color: colorGray, Top: 1}),
		)))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Copia di cortesia priva di valore fiscale. Il documento originale è "+
				"il tracciato XML trasmesso al Sistema di Interscambio.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatEuro rende un importo nel formato italiano: "1234.56" -> "€ 1.234,56".
func formatEuro(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, decPart, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, intPart[i])
	}
	out := "€ " + string(buf) + "," + decPart
	if neg {
		out = "-" + out
	}
	return out
}

// splitEvery divide s in blocchi di al più n caratteri.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
