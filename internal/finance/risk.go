package finance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avlebedev/finops-service/internal/models"
)

// NoRiskMessage is returned when no item qualifies for either bucket, so the
// caller never has to render an unexplained empty section.
const NoRiskMessage = "No financial risks detected. All accounts are in good standing."

// Policy holds the configurable severity thresholds. An overdue invoice is
// critical when its balance reaches CriticalAmount or its age reaches
// CriticalDays; otherwise it is a warning.
type Policy struct {
	CriticalAmount decimal.Decimal
	CriticalDays   int
	ShortfallFloor decimal.Decimal
}

func (p Policy) invoiceSeverity(balance decimal.Decimal, daysOverdue int) models.Severity {
	if balance.GreaterThanOrEqual(p.CriticalAmount) || daysOverdue >= p.CriticalDays {
		return models.SeverityCritical
	}
	return models.SeverityWarning
}

// Classify turns overdue invoices and forecast shortfalls into a grouped risk
// report. Inputs are the already user-scoped rows for both ledgers plus the
// forecast sequence.
func Classify(payables, receivables []models.Invoice, periods []models.ForecastPeriod, asOf time.Time, policy Policy) models.RiskReport {
	report := models.RiskReport{
		Risks: models.RiskGroups{
			Critical: []models.RiskItem{},
			Warning:  []models.RiskItem{},
		},
	}

	for _, inv := range payables {
		if !IsOverdue(inv, asOf) {
			continue
		}
		addItem(&report, overdueItem(inv, asOf, policy,
			"Overdue payable",
			fmt.Sprintf("Payment of %s to %s (invoice %s) is %d days overdue",
				inv.BalanceDue.StringFixed(2), inv.CounterpartyName, inv.InvoiceNumber, DaysOverdue(inv.DueDate, asOf)),
			"Schedule payment to avoid late fees and supplier disputes"))
	}
	for _, inv := range receivables {
		if !IsOverdue(inv, asOf) {
			continue
		}
		addItem(&report, overdueItem(inv, asOf, policy,
			"Overdue receivable",
			fmt.Sprintf("Payment of %s from %s (invoice %s) is %d days overdue",
				inv.BalanceDue.StringFixed(2), inv.CounterpartyName, inv.InvoiceNumber, DaysOverdue(inv.DueDate, asOf)),
			"Follow up with the customer on the outstanding balance"))
	}

	sorted := make([]models.ForecastPeriod, len(periods))
	copy(sorted, periods)
	SortPeriods(sorted)
	for _, p := range sorted {
		if !HasShortfall(p.EndingPosition, policy.ShortfallFloor) {
			continue
		}
		addItem(&report, shortfallItem(p))
	}

	report.Totals.CriticalCount = len(report.Risks.Critical)
	report.Totals.WarningCount = len(report.Risks.Warning)
	report.Totals.TotalRisks = report.Totals.CriticalCount + report.Totals.WarningCount
	if report.Totals.TotalRisks == 0 {
		report.Message = NoRiskMessage
	}
	return report
}

func overdueItem(inv models.Invoice, asOf time.Time, policy Policy, title, description, action string) models.RiskItem {
	days := DaysOverdue(inv.DueDate, asOf)
	amount := inv.BalanceDue
	severity := policy.invoiceSeverity(inv.BalanceDue, days)
	priority := models.PriorityHigh
	if severity == models.SeverityCritical {
		priority = models.PriorityCritical
	}
	return models.RiskItem{
		Severity:        severity,
		Title:           fmt.Sprintf("%s: %s", title, inv.InvoiceNumber),
		Description:     description,
		Amount:          &amount,
		DaysOverdue:     &days,
		SuggestedAction: action,
		Priority:        priority,
	}
}

// shortfallItem classifies a forecast shortfall: a negative ending position is
// critical, a position merely below the configured floor is a warning.
func shortfallItem(p models.ForecastPeriod) models.RiskItem {
	amount := p.EndingPosition
	severity := models.SeverityWarning
	priority := models.PriorityMedium
	if p.EndingPosition.IsNegative() {
		severity = models.SeverityCritical
		priority = models.PriorityCritical
	}
	return models.RiskItem{
		Severity: severity,
		Title:    fmt.Sprintf("Cash shortfall projected: %s", p.Category),
		Description: fmt.Sprintf("Forecast period starting %s ends at %s",
			p.PeriodStart.Format("2006-01-02"), p.EndingPosition.StringFixed(2)),
		Amount:          &amount,
		SuggestedAction: "Review planned outflows or arrange short-term financing",
		Priority:        priority,
	}
}

func addItem(report *models.RiskReport, item models.RiskItem) {
	switch item.Severity {
	case models.SeverityCritical:
		report.Risks.Critical = append(report.Risks.Critical, item)
	default:
		report.Risks.Warning = append(report.Risks.Warning, item)
	}
}
