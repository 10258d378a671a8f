package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMonthsParam(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"months=6", 6, false},
		{"months=24", 24, false},
		{"months=0", 0, true},
		{"months=-3", 0, true},
		{"months=abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/cash-flow-forecast/projections?"+tt.query, nil)
			got, err := monthsParam(r)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestAuditFilterFromQuery(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/audit-logs?table_name=accounts_payable&action=update&start_date=2026-01-01&end_date=2026-01-31&limit=10&offset=20", nil)
	filter, err := auditFilterFromQuery(r)
	require.NoError(t, err)
	require.Equal(t, "accounts_payable", filter.TableName)
	require.Equal(t, "update", filter.Action)
	require.Equal(t, 10, filter.Limit)
	require.Equal(t, 20, filter.Offset)
	require.NotNil(t, filter.StartDate)
	require.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *filter.StartDate)
	require.NotNil(t, filter.EndDate)
	// end date is inclusive through end of day
	require.True(t, filter.EndDate.After(time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC)))
}

func TestAuditFilterRejectsBadDate(t *testing.T) {
	r := httptest.NewRequest("GET", "/audit-logs?start_date=31-01-2026", nil)
	_, err := auditFilterFromQuery(r)
	require.Error(t, err)
}

func TestDecodeInvoiceRejectsBadDate(t *testing.T) {
	body := `{"counterparty_name":"Acme","invoice_number":"INV-1","issue_date":"2026-01-01","due_date":"not-a-date","total_amount":"100","balance_due":"100"}`
	r := httptest.NewRequest("POST", "/accounts-payable", strings.NewReader(body))
	_, err := decodeInvoice(r)
	require.Error(t, err)
	require.Contains(t, err.Error(), "due_date")
}

func TestDecodeInvoiceParsesPayments(t *testing.T) {
	body := `{"counterparty_name":"Acme","invoice_number":"INV-1","issue_date":"2026-01-01","due_date":"2026-02-01","total_amount":"100","balance_due":"40","payments":["30","30"]}`
	r := httptest.NewRequest("POST", "/accounts-payable", strings.NewReader(body))
	inv, err := decodeInvoice(r)
	require.NoError(t, err)
	require.Len(t, inv.Payments, 2)
	require.Equal(t, "30", inv.Payments[0].String())
	require.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), inv.DueDate)
}
