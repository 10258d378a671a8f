package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ForecastPeriod represents one cash-flow forecast window for a user
type ForecastPeriod struct {
	ID               uuid.UUID       `json:"id"`
	UserID           int64           `json:"user_id"`
	Category         string          `json:"category"`
	PeriodStart      time.Time       `json:"period_start"`
	PeriodEnd        time.Time       `json:"period_end"`
	BeginningBalance decimal.Decimal `json:"beginning_balance"`
	NetChange        decimal.Decimal `json:"net_change"`
	EndingPosition   decimal.Decimal `json:"ending_position"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Validate checks the forecast period invariants before it is written
func (p *ForecastPeriod) Validate() error {
	if p.Category == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if p.PeriodStart.IsZero() {
		return &ValidationError{Field: "period_start", Reason: "must be a valid date"}
	}
	if p.PeriodEnd.IsZero() {
		return &ValidationError{Field: "period_end", Reason: "must be a valid date"}
	}
	if p.PeriodEnd.Before(p.PeriodStart) {
		return &ValidationError{Field: "period_end", Reason: "must not precede period_start"}
	}
	return nil
}

// LedgerSummary holds per-ledger dashboard totals
type LedgerSummary struct {
	TotalCount        int             `json:"total_count"`
	TotalBalance      decimal.Decimal `json:"total_balance"`
	OverdueCount      int             `json:"overdue_count"`
	OverdueBalance    decimal.Decimal `json:"overdue_balance"`
	OverduePercentage float64         `json:"overdue_percentage"`
}

// ForecastSummary holds aggregate statistics over a forecast sequence
type ForecastSummary struct {
	TotalPeriods         int             `json:"total_periods"`
	PeriodsWithShortfall int             `json:"periods_with_shortfall"`
	AverageEndingBalance decimal.Decimal `json:"average_ending_balance"`
	LowestBalance        decimal.Decimal `json:"lowest_balance"`
	HighestBalance       decimal.Decimal `json:"highest_balance"`
}

// OverallHealth holds the cross-ledger health indicators
type OverallHealth struct {
	LiquidityRatio float64         `json:"liquidity_ratio"`
	NetPosition    decimal.Decimal `json:"net_position"`
}

// DashboardMetrics is the full dashboard metrics response
type DashboardMetrics struct {
	AccountsPayable    LedgerSummary   `json:"accounts_payable"`
	AccountsReceivable LedgerSummary   `json:"accounts_receivable"`
	CashFlow           ForecastSummary `json:"cash_flow"`
	OverallHealth      OverallHealth   `json:"overall_health"`
	Warnings           []string        `json:"warnings,omitempty"`
}
