// Package finance holds the derived-metrics calculator and risk classifier.
// Everything here is a pure transformation over already-fetched rows: no I/O,
// no clock reads, deterministic given the asOf instant.
package finance

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avlebedev/finops-service/internal/models"
)

// Trend is the period-over-period direction of a forecast value
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// integrityTolerance absorbs sub-cent rounding in stored forecast rows
var integrityTolerance = decimal.New(1, -2)

// DaysOverdue returns the whole-day count an obligation is past due, never
// negative. Dates are compared by UTC calendar day, so time-of-day does not
// shift the count.
func DaysOverdue(due, asOf time.Time) int {
	d := truncateDay(asOf).Sub(truncateDay(due))
	days := int(d.Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsOverdue reports whether an invoice should count as overdue as of the
// given instant: outstanding balance and a due date in the past.
func IsOverdue(inv models.Invoice, asOf time.Time) bool {
	return inv.BalanceDue.IsPositive() && DaysOverdue(inv.DueDate, asOf) > 0
}

// HasShortfall reports whether an ending cash position falls below the
// configured floor.
func HasShortfall(ending, floor decimal.Decimal) bool {
	return ending.LessThan(floor)
}

// FormatCurrency renders an amount with two fraction digits and a currency
// symbol. Presentation boundary only.
func FormatCurrency(amount decimal.Decimal, symbol string) string {
	if amount.IsNegative() {
		return fmt.Sprintf("-%s%s", symbol, amount.Abs().StringFixed(2))
	}
	return fmt.Sprintf("%s%s", symbol, amount.StringFixed(2))
}

// TrendOf compares a value against its chronological predecessor. A nil
// predecessor (first period) is neutral.
func TrendOf(current decimal.Decimal, previous *decimal.Decimal) Trend {
	if previous == nil {
		return TrendNeutral
	}
	switch current.Cmp(*previous) {
	case 1:
		return TrendUp
	case -1:
		return TrendDown
	default:
		return TrendNeutral
	}
}

// SortPeriods orders forecast periods ascending by period start. Trend and
// summary computation rely on this canonical order, never on input order.
func SortPeriods(periods []models.ForecastPeriod) {
	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].PeriodStart.Before(periods[j].PeriodStart)
	})
}

// SummarizeForecast computes aggregate statistics over forecast periods.
// All balances are 0 for an empty sequence.
func SummarizeForecast(periods []models.ForecastPeriod, shortfallFloor decimal.Decimal) models.ForecastSummary {
	s := models.ForecastSummary{
		TotalPeriods:         len(periods),
		AverageEndingBalance: decimal.Zero,
		LowestBalance:        decimal.Zero,
		HighestBalance:       decimal.Zero,
	}
	if len(periods) == 0 {
		return s
	}
	sum := decimal.Zero
	lowest := periods[0].EndingPosition
	highest := periods[0].EndingPosition
	for _, p := range periods {
		if HasShortfall(p.EndingPosition, shortfallFloor) {
			s.PeriodsWithShortfall++
		}
		sum = sum.Add(p.EndingPosition)
		if p.EndingPosition.LessThan(lowest) {
			lowest = p.EndingPosition
		}
		if p.EndingPosition.GreaterThan(highest) {
			highest = p.EndingPosition
		}
	}
	s.AverageEndingBalance = sum.DivRound(decimal.NewFromInt(int64(len(periods))), 2)
	s.LowestBalance = lowest
	s.HighestBalance = highest
	return s
}

// SummarizeLedger computes per-ledger dashboard totals over invoice rows.
// Overdue percentage is 0 for an empty ledger, never a division by zero.
func SummarizeLedger(invoices []models.Invoice, asOf time.Time) models.LedgerSummary {
	s := models.LedgerSummary{
		TotalBalance:   decimal.Zero,
		OverdueBalance: decimal.Zero,
	}
	for _, inv := range invoices {
		s.TotalCount++
		s.TotalBalance = s.TotalBalance.Add(inv.BalanceDue)
		if IsOverdue(inv, asOf) {
			s.OverdueCount++
			s.OverdueBalance = s.OverdueBalance.Add(inv.BalanceDue)
		}
	}
	if s.TotalCount > 0 {
		s.OverduePercentage = float64(s.OverdueCount) / float64(s.TotalCount) * 100
	}
	return s
}

// ComputeHealth derives the cross-ledger indicators. The liquidity denominator
// is floored to keep the ratio defined; with both ledgers empty the ratio is 0.
func ComputeHealth(payables, receivables models.LedgerSummary, liquidityFloor decimal.Decimal) models.OverallHealth {
	denom := payables.TotalBalance
	if denom.LessThan(liquidityFloor) {
		denom = liquidityFloor
	}
	ratio, _ := receivables.TotalBalance.DivRound(denom, 6).Float64()
	return models.OverallHealth{
		LiquidityRatio: ratio,
		NetPosition:    receivables.TotalBalance.Sub(payables.TotalBalance),
	}
}

// CheckPeriodIntegrity validates ending = beginning + net change against the
// stored row. A mismatch beyond a cent is reported as a warning; the stored
// ending value still wins in aggregation.
func CheckPeriodIntegrity(p models.ForecastPeriod) *models.DataIntegrityWarning {
	expected := p.BeginningBalance.Add(p.NetChange)
	if p.EndingPosition.Sub(expected).Abs().GreaterThan(integrityTolerance) {
		return &models.DataIntegrityWarning{
			Table:    "cash_flow_forecast",
			RecordID: p.ID.String(),
			Detail: fmt.Sprintf("ending_position %s does not equal beginning_balance + net_change (%s)",
				p.EndingPosition.StringFixed(2), expected.StringFixed(2)),
		}
	}
	return nil
}

// ProjectionPoint is one forecast period annotated for the projections view
type ProjectionPoint struct {
	models.ForecastPeriod
	Trend     Trend `json:"trend"`
	Shortfall bool  `json:"shortfall"`
}

// BuildProjections orders periods chronologically and annotates each with its
// trend against the previous ending position and its shortfall flag.
func BuildProjections(periods []models.ForecastPeriod, shortfallFloor decimal.Decimal) []ProjectionPoint {
	sorted := make([]models.ForecastPeriod, len(periods))
	copy(sorted, periods)
	SortPeriods(sorted)

	points := make([]ProjectionPoint, 0, len(sorted))
	var prev *decimal.Decimal
	for _, p := range sorted {
		points = append(points, ProjectionPoint{
			ForecastPeriod: p,
			Trend:          TrendOf(p.EndingPosition, prev),
			Shortfall:      HasShortfall(p.EndingPosition, shortfallFloor),
		})
		ending := p.EndingPosition
		prev = &ending
	}
	return points
}
