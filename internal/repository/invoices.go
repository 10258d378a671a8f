package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avlebedev/finops-service/internal/models"
)

// ledgerTables maps the invoice kind onto its table. Table names never come
// from request input.
var ledgerTables = map[models.InvoiceKind]string{
	models.KindPayable:    "accounts_payable",
	models.KindReceivable: "accounts_receivable",
}

// LedgerTable returns the table name backing an invoice kind
func LedgerTable(kind models.InvoiceKind) (string, error) {
	table, ok := ledgerTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown invoice kind: %s", kind)
	}
	return table, nil
}

const invoiceColumns = `id, user_id, counterparty_name, invoice_number, issue_date, due_date,
		total_amount, balance_due, currency_code, status,
		payment_1, payment_2, payment_3, payment_4, payment_5, created_at, updated_at`

// CreateInvoice inserts an invoice into its ledger table
func (r *Repository) CreateInvoice(inv *models.Invoice) error {
	table, err := LedgerTable(inv.Kind)
	if err != nil {
		return err
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	p := paymentColumns(inv.Payments)
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, counterparty_name, invoice_number, issue_date, due_date,
			total_amount, balance_due, currency_code, status,
			payment_1, payment_2, payment_3, payment_4, payment_5, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`, table)
	err = r.db.QueryRow(query,
		inv.ID, inv.UserID, inv.CounterpartyName, inv.InvoiceNumber, inv.IssueDate, inv.DueDate,
		inv.TotalAmount, inv.BalanceDue, inv.CurrencyCode, inv.Status,
		p[0], p[1], p[2], p[3], p[4]).
		Scan(&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

// GetInvoice retrieves one invoice scoped to the owning user
func (r *Repository) GetInvoice(kind models.InvoiceKind, userID int64, id uuid.UUID) (*models.Invoice, error) {
	table, err := LedgerTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND user_id = $2`, invoiceColumns, table)
	inv, err := scanInvoice(r.db.QueryRow(query, id, userID), kind)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return inv, nil
}

// ListInvoices retrieves all invoices of one ledger for a user
func (r *Repository) ListInvoices(kind models.InvoiceKind, userID int64) ([]models.Invoice, error) {
	table, err := LedgerTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = $1 ORDER BY due_date, created_at`, invoiceColumns, table)
	return r.queryInvoices(kind, query, userID)
}

// ListOverdueInvoices retrieves outstanding invoices past due as of the given
// date, sorted by due date ascending then balance due descending.
func (r *Repository) ListOverdueInvoices(kind models.InvoiceKind, userID int64, asOf time.Time) ([]models.Invoice, error) {
	table, err := LedgerTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1 AND balance_due > 0 AND due_date < $2::date
		ORDER BY due_date ASC, balance_due DESC`, invoiceColumns, table)
	return r.queryInvoices(kind, query, userID, asOf)
}

// UpdateInvoice rewrites a user's invoice in place
func (r *Repository) UpdateInvoice(inv *models.Invoice) error {
	table, err := LedgerTable(inv.Kind)
	if err != nil {
		return err
	}
	p := paymentColumns(inv.Payments)
	query := fmt.Sprintf(`
		UPDATE %s
		SET counterparty_name = $1, invoice_number = $2, issue_date = $3, due_date = $4,
			total_amount = $5, balance_due = $6, currency_code = $7, status = $8,
			payment_1 = $9, payment_2 = $10, payment_3 = $11, payment_4 = $12, payment_5 = $13,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $14 AND user_id = $15
		RETURNING updated_at`, table)
	err = r.db.QueryRow(query,
		inv.CounterpartyName, inv.InvoiceNumber, inv.IssueDate, inv.DueDate,
		inv.TotalAmount, inv.BalanceDue, inv.CurrencyCode, inv.Status,
		p[0], p[1], p[2], p[3], p[4], inv.ID, inv.UserID).
		Scan(&inv.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	return nil
}

// DeleteInvoice removes a user's invoice
func (r *Repository) DeleteInvoice(kind models.InvoiceKind, userID int64, id uuid.UUID) error {
	table, err := LedgerTable(kind)
	if err != nil {
		return err
	}
	res, err := r.db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, table), id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkOverdue flips outstanding pending invoices past due to overdue status
// and returns the IDs of affected users.
func (r *Repository) MarkOverdue(kind models.InvoiceKind, asOf time.Time) ([]int64, error) {
	table, err := LedgerTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = 'overdue', updated_at = CURRENT_TIMESTAMP
		WHERE status = 'pending' AND balance_due > 0 AND due_date < $1::date
		RETURNING user_id`, table)
	rows, err := r.db.Query(query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to mark overdue invoices: %w", err)
	}
	defer rows.Close()

	seen := make(map[int64]bool)
	var userIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		if !seen[id] {
			seen[id] = true
			userIDs = append(userIDs, id)
		}
	}
	return userIDs, rows.Err()
}

func (r *Repository) queryInvoices(kind models.InvoiceKind, query string, args ...interface{}) ([]models.Invoice, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]models.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInvoice(row rowScanner, kind models.InvoiceKind) (*models.Invoice, error) {
	inv := &models.Invoice{Kind: kind}
	var payments [models.MaxPayments]decimal.NullDecimal
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.CounterpartyName, &inv.InvoiceNumber, &inv.IssueDate, &inv.DueDate,
		&inv.TotalAmount, &inv.BalanceDue, &inv.CurrencyCode, &inv.Status,
		&payments[0], &payments[1], &payments[2], &payments[3], &payments[4],
		&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.Payments = make([]decimal.Decimal, 0, models.MaxPayments)
	for _, p := range payments {
		if p.Valid {
			inv.Payments = append(inv.Payments, p.Decimal)
		}
	}
	return inv, nil
}

func paymentColumns(payments []decimal.Decimal) [models.MaxPayments]decimal.NullDecimal {
	var cols [models.MaxPayments]decimal.NullDecimal
	for i, p := range payments {
		if i >= models.MaxPayments {
			break
		}
		cols[i] = decimal.NullDecimal{Decimal: p, Valid: true}
	}
	return cols
}
