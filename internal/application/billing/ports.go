package billing

import (
	"context"

	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/internal/domain/repository"
)

// TxRunner esegue una funzione dentro una transazione che include i repository
// di fatturazione. L'emissione (ricalcolo + assegnazione numero) deve essere
// atomica: due emissioni concorrenti non possono ottenere lo stesso numero.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		clientRepo repository.ClientRepository,
	) error) error
}

// PDFGenerator genera il PDF di cortesia di una fattura calcolata.
type PDFGenerator interface {
	GenerateInvoicePDF(inv *entity.Invoice, issuer *entity.IssuerProfile) ([]byte, error)
}

// XMLBuilder costruisce il tracciato FatturaPA di una fattura emessa.
type XMLBuilder interface {
	Build(inv *entity.Invoice, issuer *entity.IssuerProfile) ([]byte, error)
}
