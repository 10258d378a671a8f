package models

import "github.com/shopspring/decimal"

// Severity classifies how urgent a risk item is
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Priority is the suggested handling order for a risk item
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// RiskItem is a derived, per-request financial concern; never persisted
type RiskItem struct {
	Severity        Severity         `json:"severity"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	DaysOverdue     *int             `json:"days_overdue,omitempty"`
	SuggestedAction string           `json:"suggested_action,omitempty"`
	Priority        Priority         `json:"priority"`
}

// RiskTotals is the roll-up of classified items
type RiskTotals struct {
	CriticalCount int `json:"critical_count"`
	WarningCount  int `json:"warning_count"`
	TotalRisks    int `json:"total_risks"`
}

// RiskGroups holds classified items grouped by severity
type RiskGroups struct {
	Critical []RiskItem `json:"critical"`
	Warning  []RiskItem `json:"warning"`
}

// RiskReport is the full risk endpoint response
type RiskReport struct {
	Totals  RiskTotals `json:"totals"`
	Risks   RiskGroups `json:"risks"`
	Message string     `json:"message,omitempty"`
}
