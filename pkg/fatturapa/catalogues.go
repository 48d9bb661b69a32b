// Package fatturapa contiene cataloghi e codici allineati alle Specifiche
// Tecniche della Fatturazione Elettronica (Agenzia delle Entrate) v1.9.
package fatturapa

import "strings"

// =============================================================================
// Tipo Documento (blocco 2.1.1.1 <TipoDocumento>)
// =============================================================================

const (
	TipoDocFatturaImmediata    = "TD01" // Fattura ordinaria immediata
	TipoDocNotaCredito         = "TD04" // Nota di credito
	TipoDocNotaDebito          = "TD05" // Nota di debito
	TipoDocParcella            = "TD06" // Parcella (prestazioni professionali)
	TipoDocFatturaSemplificata = "TD07" // Fattura semplificata (art. 21-bis DPR 633/72)
	TipoDocFatturaDifferita    = "TD24" // Fattura differita (art. 21, comma 4, lett. a)
)

// ValidTipiDocumento codici tipo documento gestiti dal sistema.
var ValidTipiDocumento = map[string]bool{
	TipoDocFatturaImmediata:    true,
	TipoDocNotaCredito:         true,
	TipoDocNotaDebito:          true,
	TipoDocParcella:            true,
	TipoDocFatturaSemplificata: true,
	TipoDocFatturaDifferita:    true,
}

// IsNotaDiVariazione indica se il tipo documento è una nota di credito o debito.
func IsNotaDiVariazione(tipo string) bool {
	return tipo == TipoDocNotaCredito || tipo == TipoDocNotaDebito
}

// =============================================================================
// Codici Natura (blocco 2.2.1.14 <Natura>): operazioni senza applicazione IVA
// =============================================================================

const (
	NaturaEscluse        = "N1"   // Escluse ex art. 15
	NaturaNonSoggette    = "N2.2" // Non soggette - altri casi
	NaturaNonImponibili  = "N3.5" // Non imponibili - a seguito di dichiarazioni d'intento
	NaturaEsenti         = "N4"   // Esenti
	NaturaRegimeMargine  = "N5"   // Regime del margine
	NaturaInversione     = "N6.1" // Inversione contabile - cessione di rottami
	NaturaInversioneEdil = "N6.7" // Inversione contabile - prestazioni comparto edile
	NaturaIVAAssolta     = "N7"   // IVA assolta in altro stato UE
)

// ValidNatura codici natura accettati (sottocodici N2/N3/N6 inclusi).
var ValidNatura = map[string]bool{
	"N1": true,
	"N2.1": true, "N2.2": true,
	"N3.1": true, "N3.2": true, "N3.3": true, "N3.4": true, "N3.5": true, "N3.6": true,
	"N4": true, "N5": true,
	"N6.1": true, "N6.2": true, "N6.3": true, "N6.4": true, "N6.5": true,
	"N6.6": true, "N6.7": true, "N6.8": true, "N6.9": true,
	"N7": true,
}

// IsReverseCharge indica se il codice natura appartiene alla famiglia
// dell'inversione contabile (N6.x), ammessa solo con aliquota zero.
func IsReverseCharge(natura string) bool {
	return strings.HasPrefix(natura, "N6")
}

// =============================================================================
// Regime Fiscale (blocco 1.2.1.8 <RegimeFiscale>)
// =============================================================================

const (
	RegimeFiscaleOrdinario   = "RF01" // Regime ordinario
	RegimeFiscaleForfettario = "RF19" // Regime forfettario (L. 190/2014)
)

// =============================================================================
// Tipo Ritenuta (blocco 2.1.1.5.1 <TipoRitenuta>)
// =============================================================================

const (
	RitenutaPersoneFisiche    = "RT01" // Ritenuta persone fisiche
	RitenutaPersoneGiuridiche = "RT02" // Ritenuta persone giuridiche
)

// CausalePagamentoDefault lettera usata in <CausalePagamento> quando il
// cliente non ne ha una configurata (lavoro autonomo abituale).
const CausalePagamentoDefault = "A"

// =============================================================================
// Condizioni e Modalità di Pagamento (blocchi 2.4.1 e 2.4.2.2)
// I valori composti "codice_Descrizione" serializzano il solo prefisso.
// =============================================================================

const (
	CondizioniPagamentoRate     = "TP01_PagamentoARate"
	CondizioniPagamentoCompleto = "TP02_PagamentoCompleto"
	CondizioniPagamentoAnticipo = "TP03_Anticipo"

	ModalitaPagamentoContanti  = "MP01_Contanti"
	ModalitaPagamentoAssegno   = "MP02_Assegno"
	ModalitaPagamentoBonifico  = "MP05_BonificoBancario"
	ModalitaPagamentoRID       = "MP10_RID"
	ModalitaPagamentoRiBa      = "MP12_RiBa"
	ModalitaPagamentoCarta     = "MP08_CartaDiPagamento"
)

// CodePrefix estrae il codice dal valore composto ("MP05_BonificoBancario" -> "MP05").
func CodePrefix(compound string) string {
	if i := strings.IndexByte(compound, '_'); i >= 0 {
		return compound[:i]
	}
	return compound
}

// =============================================================================
// Trasmissione (blocco 1.1)
// =============================================================================

const (
	// FormatoTrasmissionePA formato per fatture verso Pubblica Amministrazione.
	FormatoTrasmissionePA = "FPA12"
	// FormatoTrasmissionePrivati formato per fatture verso privati.
	FormatoTrasmissionePrivati = "FPR12"
	// CodiceDestinatarioDefault valore di ripiego quando il cliente non ha
	// né codice destinatario né codice ufficio (recapito via PEC o cassetto fiscale).
	CodiceDestinatarioDefault = "0000000"
	// IdPaeseDefault paese dell'identificativo fiscale.
	IdPaeseDefault = "IT"
	// DivisaDefault valuta del documento.
	DivisaDefault = "EUR"
)
