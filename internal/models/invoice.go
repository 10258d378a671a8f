package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceKind distinguishes the payable and receivable ledgers
type InvoiceKind string

const (
	KindPayable    InvoiceKind = "payable"
	KindReceivable InvoiceKind = "receivable"
)

// InvoiceStatus is the lifecycle state of an invoice
type InvoiceStatus string

const (
	StatusPending InvoiceStatus = "pending"
	StatusPaid    InvoiceStatus = "paid"
	StatusOverdue InvoiceStatus = "overdue"
)

// MaxPayments is the number of discrete payments tracked per invoice
const MaxPayments = 5

// Invoice represents a payable or receivable record owned by one user
type Invoice struct {
	ID               uuid.UUID         `json:"id"`
	UserID           int64             `json:"user_id"`
	Kind             InvoiceKind       `json:"-"`
	CounterpartyName string            `json:"counterparty_name"`
	InvoiceNumber    string            `json:"invoice_number"`
	IssueDate        time.Time         `json:"issue_date"`
	DueDate          time.Time         `json:"due_date"`
	TotalAmount      decimal.Decimal   `json:"total_amount"`
	BalanceDue       decimal.Decimal   `json:"balance_due"`
	CurrencyCode     string            `json:"currency_code"`
	Status           InvoiceStatus     `json:"status"`
	Payments         []decimal.Decimal `json:"payments"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// OverdueInvoice is an invoice enriched with its days-overdue count
type OverdueInvoice struct {
	Invoice
	DaysOverdue int `json:"days_overdue"`
}

// Validate checks the invoice invariants before it is written
func (inv *Invoice) Validate() error {
	if inv.CounterpartyName == "" {
		return &ValidationError{Field: "counterparty_name", Reason: "must not be empty"}
	}
	if inv.InvoiceNumber == "" {
		return &ValidationError{Field: "invoice_number", Reason: "must not be empty"}
	}
	if inv.IssueDate.IsZero() {
		return &ValidationError{Field: "issue_date", Reason: "must be a valid date"}
	}
	if inv.DueDate.IsZero() {
		return &ValidationError{Field: "due_date", Reason: "must be a valid date"}
	}
	if inv.DueDate.Before(inv.IssueDate) {
		return &ValidationError{Field: "due_date", Reason: "must not precede issue_date"}
	}
	if inv.TotalAmount.IsNegative() {
		return &ValidationError{Field: "total_amount", Reason: "must not be negative"}
	}
	if inv.BalanceDue.IsNegative() {
		return &ValidationError{Field: "balance_due", Reason: "must not be negative"}
	}
	if len(inv.Payments) > MaxPayments {
		return &ValidationError{Field: "payments", Reason: "at most five payments are tracked"}
	}
	paid := decimal.Zero
	for _, p := range inv.Payments {
		if p.IsNegative() {
			return &ValidationError{Field: "payments", Reason: "payment amounts must not be negative"}
		}
		paid = paid.Add(p)
	}
	if paid.GreaterThan(inv.TotalAmount) {
		return &ValidationError{Field: "payments", Reason: "recorded payments exceed total_amount"}
	}
	switch inv.Status {
	case StatusPending, StatusPaid, StatusOverdue:
	case "":
		inv.Status = StatusPending
	default:
		return &ValidationError{Field: "status", Reason: "must be pending, paid or overdue"}
	}
	return nil
}
