package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tuo-utente/fattura-pro/internal/domain/entity"
	"github.com/tuo-utente/fattura-pro/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementazione di InvoiceRepository (usabile con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository costruisce l'adapter. Passare pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, client_id, type, status, number, date, operation_date, due_date,
	regime_forfettario, semplificata, causale, notes,
	linked_invoice_id, linked_invoice_number,
	taxable_total, tax_total, sub_total, ritenuta, bollo, amount_due,
	esigibilita, bollo_applied,
	payment_condition, payment_method, payment_iban, payment_bank,
	xml_content, xml_hash, created_at, updated_at`

// Create persiste testata e righe della fattura.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30)`
	var paymentCondition, paymentMethod, paymentIBAN, paymentBank string
	if invoice.Payment != nil {
		paymentCondition = invoice.Payment.Condition
		paymentMethod = invoice.Payment.Method
		paymentIBAN = invoice.Payment.IBAN
		paymentBank = invoice.Payment.BankName
	}
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.ClientID, invoice.Type, invoice.Status,
		nullIfEmpty(invoice.Number), invoice.Date, invoice.OperationDate, invoice.DueDate,
		invoice.RegimeForfettario, invoice.Semplificata,
		nullIfEmpty(invoice.Causale), nullIfEmpty(invoice.Notes),
		nullIfEmpty(invoice.LinkedInvoiceID), nullIfEmpty(invoice.LinkedInvoiceNumber),
		invoice.TaxableTotal, invoice.TaxTotal, invoice.SubTotal,
		invoice.Ritenuta, invoice.Bollo, invoice.AmountDue,
		nullIfEmpty(string(invoice.Esigibilita)), invoice.BolloApplied,
		nullIfEmpty(paymentCondition), nullIfEmpty(paymentMethod),
		nullIfEmpty(paymentIBAN), nullIfEmpty(paymentBank),
		nullIfEmpty(invoice.XMLContent), nullIfEmpty(invoice.XMLHash),
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("numero documento già assegnato: %w", err)
		}
		return fmt.Errorf("insert fattura: %w", err)
	}
	return r.insertItems(invoice)
}

// Update riscrive la fattura con le sue righe (il ricalcolo in emissione
// rigenera gli importi riga per riga).
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET status = $2, number = $3, due_date = $4,
		    causale = $5, notes = $6,
		    taxable_total = $7, tax_total = $8, sub_total = $9,
		    ritenuta = $10, bollo = $11, amount_due = $12,
		    esigibilita = $13, bollo_applied = $14,
		    xml_content = $15, xml_hash = $16, updated_at = $17
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Status, nullIfEmpty(invoice.Number), invoice.DueDate,
		nullIfEmpty(invoice.Causale), nullIfEmpty(invoice.Notes),
		invoice.TaxableTotal, invoice.TaxTotal, invoice.SubTotal,
		invoice.Ritenuta, invoice.Bollo, invoice.AmountDue,
		nullIfEmpty(string(invoice.Esigibilita)), invoice.BolloApplied,
		nullIfEmpty(invoice.XMLContent), nullIfEmpty(invoice.XMLHash),
		invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("numero documento già assegnato: %w", err)
		}
		return fmt.Errorf("update fattura: %w", err)
	}
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM invoice_items WHERE invoice_id = $1`, invoice.ID); err != nil {
		return fmt.Errorf("delete righe: %w", err)
	}
	return r.insertItems(invoice)
}

func (r *InvoiceRepo) insertItems(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, position, description, quantity, unit_price,
		                           aliquota, natura, discount_percent, discount_amount,
		                           taxable, tax, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	for i := range invoice.Items {
		it := &invoice.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		_, err := r.q.Exec(context.Background(), query,
			it.ID, invoice.ID, i+1, it.Description, it.Quantity, it.UnitPrice,
			string(it.Aliquota), nullIfEmpty(it.Natura),
			it.DiscountPercent, it.DiscountAmount,
			it.Taxable, it.Tax, it.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("insert riga: %w", err)
		}
	}
	return nil
}

// GetByID carica una fattura completa di righe. Restituisce nil se assente.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := r.scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fattura: %w", err)
	}
	if err := r.loadItems(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// List restituisce le fatture più recenti, righe incluse.
func (r *InvoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices ORDER BY date DESC, created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list fatture: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

// ListByStatus restituisce le fatture in uno stato dato.
func (r *InvoiceRepo) ListByStatus(status string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE status = $1 ORDER BY date`
	rows, err := r.q.Query(context.Background(), query, status)
	if err != nil {
		return nil, fmt.Errorf("list fatture per stato: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

// GetLastNumber restituisce il numero documento più recente assegnato.
// Il formato AAAA/NNN a zeri fissi rende corretto l'ordinamento lessicografico.
func (r *InvoiceRepo) GetLastNumber() (string, error) {
	var number string
	err := r.q.QueryRow(context.Background(),
		`SELECT number FROM invoices WHERE number IS NOT NULL ORDER BY number DESC LIMIT 1`,
	).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get ultimo numero: %w", err)
	}
	return number, nil
}

func (r *InvoiceRepo) collect(rows pgx.Rows) ([]*entity.Invoice, error) {
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := r.scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fattura: %w", err)
		}
		list = append(list, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, inv := range list {
		if err := r.loadItems(inv); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *InvoiceRepo) scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var number, causale, notes, linkedID, linkedNumber *string
	var esigibilita, payCondition, payMethod, payIBAN, payBank *string
	var xmlContent, xmlHash *string
	err := row.Scan(
		&inv.ID, &inv.ClientID, &inv.Type, &inv.Status,
		&number, &inv.Date, &inv.OperationDate, &inv.DueDate,
		&inv.RegimeForfettario, &inv.Semplificata, &causale, &notes,
		&linkedID, &linkedNumber,
		&inv.TaxableTotal, &inv.TaxTotal, &inv.SubTotal,
		&inv.Ritenuta, &inv.Bollo, &inv.AmountDue,
		&esigibilita, &inv.BolloApplied,
		&payCondition, &payMethod, &payIBAN, &payBank,
		&xmlContent, &xmlHash, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Number = derefStr(number)
	inv.Causale = derefStr(causale)
	inv.Notes = derefStr(notes)
	inv.LinkedInvoiceID = derefStr(linkedID)
	inv.LinkedInvoiceNumber = derefStr(linkedNumber)
	inv.Esigibilita = entity.Esigibilita(derefStr(esigibilita))
	inv.XMLContent = derefStr(xmlContent)
	inv.XMLHash = derefStr(xmlHash)
	if payCondition != nil || payMethod != nil {
		inv.Payment = &entity.PaymentInfo{
			Condition: derefStr(payCondition),
			Method:    derefStr(payMethod),
			IBAN:      derefStr(payIBAN),
			BankName:  derefStr(payBank),
		}
	}
	return &inv, nil
}

func (r *InvoiceRepo) loadItems(inv *entity.Invoice) error {
	query := `
		SELECT id, description, quantity, unit_price, aliquota, natura,
		       discount_percent, discount_amount, taxable, tax, line_total
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, inv.ID)
	if err != nil {
		return fmt.Errorf("load righe: %w", err)
	}
	defer rows.Close()

	inv.Items = nil
	taxByRate := make(map[entity.Aliquota]decimal.Decimal)
	for rows.Next() {
		var it entity.InvoiceItem
		var aliquota string
		var natura *string
		if err := rows.Scan(
			&it.ID, &it.Description, &it.Quantity, &it.UnitPrice,
			&aliquota, &natura, &it.DiscountPercent, &it.DiscountAmount,
			&it.Taxable, &it.Tax, &it.LineTotal,
		); err != nil {
			return fmt.Errorf("scan riga: %w", err)
		}
		it.Aliquota = entity.Aliquota(aliquota)
		it.Natura = derefStr(natura)
		inv.Items = append(inv.Items, it)
		if !inv.RegimeForfettario {
			taxByRate[it.Aliquota] = taxByRate[it.Aliquota].Add(it.Tax)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	// La ripartizione per aliquota è la somma delle IVA di riga già
	// arrotondate: ricostruirla dalle righe riproduce il calcolo.
	inv.TaxByRate = taxByRate
	return nil
}
