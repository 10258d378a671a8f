package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/avlebedev/finops-service/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func period(start string, ending string) models.ForecastPeriod {
	startDate, _ := time.Parse("2006-01-02", start)
	end := startDate.AddDate(0, 1, -1)
	e := d(ending)
	return models.ForecastPeriod{
		ID:               uuid.New(),
		UserID:           1,
		Category:         "operating",
		PeriodStart:      startDate,
		PeriodEnd:        end,
		BeginningBalance: decimal.Zero,
		NetChange:        e,
		EndingPosition:   e,
	}
}

func TestDaysOverdue(t *testing.T) {
	asOf := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  time.Time
		want int
	}{
		{"ten days past", time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), 10},
		{"one day past", time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC), 1},
		{"due today", time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC), 0},
		{"due tomorrow", time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), 0},
		{"due far in future", asOf.AddDate(1, 0, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysOverdue(tt.due, asOf)
			require.Equal(t, tt.want, got)
			require.GreaterOrEqual(t, got, 0)
		})
	}
}

func TestIsOverdue(t *testing.T) {
	asOf := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	past := asOf.AddDate(0, 0, -10)
	future := asOf.AddDate(0, 0, 10)

	require.True(t, IsOverdue(models.Invoice{DueDate: past, BalanceDue: d("500")}, asOf))
	require.False(t, IsOverdue(models.Invoice{DueDate: past, BalanceDue: decimal.Zero}, asOf))
	require.False(t, IsOverdue(models.Invoice{DueDate: future, BalanceDue: d("500")}, asOf))
}

func TestHasShortfall(t *testing.T) {
	require.True(t, HasShortfall(d("-0.01"), decimal.Zero))
	require.False(t, HasShortfall(decimal.Zero, decimal.Zero))
	require.False(t, HasShortfall(d("100"), decimal.Zero))
	// configurable floor
	require.True(t, HasShortfall(d("499.99"), d("500")))
	require.False(t, HasShortfall(d("500"), d("500")))
}

func TestFormatCurrency(t *testing.T) {
	require.Equal(t, "$1234.50", FormatCurrency(d("1234.5"), "$"))
	require.Equal(t, "$0.00", FormatCurrency(decimal.Zero, "$"))
	require.Equal(t, "-$200.00", FormatCurrency(d("-200"), "$"))
}

func TestTrendOf(t *testing.T) {
	prev := d("100")
	require.Equal(t, TrendUp, TrendOf(d("101"), &prev))
	require.Equal(t, TrendDown, TrendOf(d("99"), &prev))
	require.Equal(t, TrendNeutral, TrendOf(d("100"), &prev))
	require.Equal(t, TrendNeutral, TrendOf(d("100"), nil))
}

func TestSummarizeForecastEmpty(t *testing.T) {
	s := SummarizeForecast(nil, decimal.Zero)
	require.Equal(t, 0, s.TotalPeriods)
	require.Equal(t, 0, s.PeriodsWithShortfall)
	require.True(t, s.AverageEndingBalance.IsZero())
	require.True(t, s.LowestBalance.IsZero())
	require.True(t, s.HighestBalance.IsZero())
}

func TestSummarizeForecastScenario(t *testing.T) {
	periods := []models.ForecastPeriod{
		period("2026-01-01", "1000"),
		period("2026-02-01", "-200"),
		period("2026-03-01", "300"),
	}
	s := SummarizeForecast(periods, decimal.Zero)
	require.Equal(t, 3, s.TotalPeriods)
	require.Equal(t, 1, s.PeriodsWithShortfall)
	require.Equal(t, "-200", s.LowestBalance.String())
	require.Equal(t, "1000", s.HighestBalance.String())
	require.Equal(t, "366.67", s.AverageEndingBalance.StringFixed(2))
}

func TestSummarizeLedger(t *testing.T) {
	asOf := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	past := asOf.AddDate(0, 0, -10)
	future := asOf.AddDate(0, 0, 10)

	invoices := []models.Invoice{
		{DueDate: past, BalanceDue: d("500"), TotalAmount: d("500")},
		{DueDate: future, BalanceDue: d("300"), TotalAmount: d("300")},
		{DueDate: past, BalanceDue: decimal.Zero, TotalAmount: d("100")}, // paid off
		{DueDate: past, BalanceDue: d("200"), TotalAmount: d("200")},
	}
	s := SummarizeLedger(invoices, asOf)
	require.Equal(t, 4, s.TotalCount)
	require.Equal(t, "1000", s.TotalBalance.String())
	require.Equal(t, 2, s.OverdueCount)
	require.Equal(t, "700", s.OverdueBalance.String())
	require.InDelta(t, 50.0, s.OverduePercentage, 0.0001)
}

func TestSummarizeLedgerEmpty(t *testing.T) {
	s := SummarizeLedger(nil, time.Now())
	require.Equal(t, 0, s.TotalCount)
	require.Zero(t, s.OverduePercentage)
}

func TestOverduePercentageBounds(t *testing.T) {
	asOf := time.Now().UTC()
	past := asOf.AddDate(0, 0, -5)
	all := []models.Invoice{
		{DueDate: past, BalanceDue: d("1")},
		{DueDate: past, BalanceDue: d("1")},
	}
	s := SummarizeLedger(all, asOf)
	require.GreaterOrEqual(t, s.OverduePercentage, 0.0)
	require.LessOrEqual(t, s.OverduePercentage, 100.0)
	require.InDelta(t, 100.0, s.OverduePercentage, 0.0001)
}

func TestComputeHealth(t *testing.T) {
	one := decimal.NewFromInt(1)

	// empty ledgers: 0/1 = 0
	h := ComputeHealth(models.LedgerSummary{TotalBalance: decimal.Zero}, models.LedgerSummary{TotalBalance: decimal.Zero}, one)
	require.Zero(t, h.LiquidityRatio)
	require.True(t, h.NetPosition.IsZero())

	// normal case: receivables / payables
	h = ComputeHealth(models.LedgerSummary{TotalBalance: d("2000")}, models.LedgerSummary{TotalBalance: d("3000")}, one)
	require.InDelta(t, 1.5, h.LiquidityRatio, 0.0001)
	require.Equal(t, "1000", h.NetPosition.String())

	// sub-floor payables: denominator floored, never a division by zero
	h = ComputeHealth(models.LedgerSummary{TotalBalance: d("0.5")}, models.LedgerSummary{TotalBalance: d("100")}, one)
	require.InDelta(t, 100.0, h.LiquidityRatio, 0.0001)
}

func TestComputeHealthIdempotent(t *testing.T) {
	pay := models.LedgerSummary{TotalBalance: d("123.45")}
	rec := models.LedgerSummary{TotalBalance: d("678.90")}
	first := ComputeHealth(pay, rec, decimal.NewFromInt(1))
	second := ComputeHealth(pay, rec, decimal.NewFromInt(1))
	require.Equal(t, first, second)
}

func TestCheckPeriodIntegrity(t *testing.T) {
	p := period("2026-01-01", "1000")
	p.BeginningBalance = d("400")
	p.NetChange = d("600")
	require.Nil(t, CheckPeriodIntegrity(p))

	p.NetChange = d("500")
	w := CheckPeriodIntegrity(p)
	require.NotNil(t, w)
	require.Equal(t, "cash_flow_forecast", w.Table)
	require.Contains(t, w.Detail, "1000.00")
}

func TestBuildProjectionsChronological(t *testing.T) {
	// inserted out of order on purpose
	periods := []models.ForecastPeriod{
		period("2026-03-01", "300"),
		period("2026-01-01", "1000"),
		period("2026-02-01", "-200"),
	}
	points := BuildProjections(periods, decimal.Zero)
	require.Len(t, points, 3)

	require.Equal(t, "1000", points[0].EndingPosition.String())
	require.Equal(t, TrendNeutral, points[0].Trend)
	require.False(t, points[0].Shortfall)

	require.Equal(t, "-200", points[1].EndingPosition.String())
	require.Equal(t, TrendDown, points[1].Trend)
	require.True(t, points[1].Shortfall)

	require.Equal(t, "300", points[2].EndingPosition.String())
	require.Equal(t, TrendUp, points[2].Trend)
	require.False(t, points[2].Shortfall)
}
