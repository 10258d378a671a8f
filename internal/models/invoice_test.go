package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func validInvoice() Invoice {
	issue := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return Invoice{
		CounterpartyName: "Acme Corp",
		InvoiceNumber:    "INV-001",
		IssueDate:        issue,
		DueDate:          issue.AddDate(0, 1, 0),
		TotalAmount:      decimal.RequireFromString("100"),
		BalanceDue:       decimal.RequireFromString("40"),
		Payments:         []decimal.Decimal{decimal.RequireFromString("30"), decimal.RequireFromString("30")},
		Status:           StatusPending,
	}
}

func TestInvoiceValidateOK(t *testing.T) {
	inv := validInvoice()
	require.NoError(t, inv.Validate())
}

func TestInvoiceValidateDefaultsStatus(t *testing.T) {
	inv := validInvoice()
	inv.Status = ""
	require.NoError(t, inv.Validate())
	require.Equal(t, StatusPending, inv.Status)
}

func TestInvoiceValidateRejections(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Invoice)
		wantField string
	}{
		{"empty counterparty", func(i *Invoice) { i.CounterpartyName = "" }, "counterparty_name"},
		{"empty invoice number", func(i *Invoice) { i.InvoiceNumber = "" }, "invoice_number"},
		{"zero issue date", func(i *Invoice) { i.IssueDate = time.Time{} }, "issue_date"},
		{"zero due date", func(i *Invoice) { i.DueDate = time.Time{} }, "due_date"},
		{"due before issue", func(i *Invoice) { i.DueDate = i.IssueDate.AddDate(0, 0, -1) }, "due_date"},
		{"negative total", func(i *Invoice) { i.TotalAmount = decimal.RequireFromString("-1") }, "total_amount"},
		{"negative balance", func(i *Invoice) { i.BalanceDue = decimal.RequireFromString("-1") }, "balance_due"},
		{"too many payments", func(i *Invoice) {
			i.Payments = make([]decimal.Decimal, MaxPayments+1)
		}, "payments"},
		{"negative payment", func(i *Invoice) {
			i.Payments = []decimal.Decimal{decimal.RequireFromString("-5")}
		}, "payments"},
		{"payments exceed total", func(i *Invoice) {
			i.Payments = []decimal.Decimal{decimal.RequireFromString("60"), decimal.RequireFromString("50")}
		}, "payments"},
		{"bad status", func(i *Invoice) { i.Status = "cancelled" }, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := validInvoice()
			tt.mutate(&inv)
			err := inv.Validate()
			require.Error(t, err)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			require.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestForecastPeriodValidate(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := ForecastPeriod{
		Category:    "operating",
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 1, -1),
	}
	require.NoError(t, p.Validate())

	p.PeriodEnd = start.AddDate(0, 0, -1)
	err := p.Validate()
	require.Error(t, err)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, "period_end", vErr.Field)
}
