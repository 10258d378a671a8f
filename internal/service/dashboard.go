package service

import (
	"context"
	"sync"
	"time"

	"github.com/avlebedev/finops-service/internal/finance"
	"github.com/avlebedev/finops-service/internal/models"
)

// DashboardMetrics fetches both ledgers and the forecast concurrently, then
// computes the summary views. All three reads must resolve before the
// cross-ledger health figures, which depend on every ledger total.
func (s *Service) DashboardMetrics(ctx context.Context) (*models.DashboardMetrics, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	payables, receivables, periods, err := s.fetchLedgers(userID)
	if err != nil {
		return nil, err
	}

	asOf := time.Now().UTC()
	var warnings []string
	payables = s.normalizeCurrencies(payables, &warnings)
	receivables = s.normalizeCurrencies(receivables, &warnings)
	for _, p := range periods {
		if w := finance.CheckPeriodIntegrity(p); w != nil {
			s.log.Warnf("Forecast integrity mismatch: %s", w)
			warnings = append(warnings, w.String())
		}
	}

	paySummary := finance.SummarizeLedger(payables, asOf)
	recSummary := finance.SummarizeLedger(receivables, asOf)

	return &models.DashboardMetrics{
		AccountsPayable:    paySummary,
		AccountsReceivable: recSummary,
		CashFlow:           finance.SummarizeForecast(periods, s.config.ShortfallFloor),
		OverallHealth:      finance.ComputeHealth(paySummary, recSummary, s.config.LiquidityFloor),
		Warnings:           warnings,
	}, nil
}

// DashboardRisks classifies the user's overdue items and forecast shortfalls
// into the grouped risk report.
func (s *Service) DashboardRisks(ctx context.Context) (*models.RiskReport, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	payables, receivables, periods, err := s.fetchLedgers(userID)
	if err != nil {
		return nil, err
	}

	policy := finance.Policy{
		CriticalAmount: s.config.RiskCriticalAmount,
		CriticalDays:   s.config.RiskCriticalDays,
		ShortfallFloor: s.config.ShortfallFloor,
	}
	report := finance.Classify(payables, receivables, periods, time.Now().UTC(), policy)
	return &report, nil
}

// fetchLedgers resolves the three independent reads in parallel; the first
// failure is fatal for the request.
func (s *Service) fetchLedgers(userID int64) ([]models.Invoice, []models.Invoice, []models.ForecastPeriod, error) {
	var (
		wg          sync.WaitGroup
		payables    []models.Invoice
		receivables []models.Invoice
		periods     []models.ForecastPeriod
		payErr      error
		recErr      error
		fcErr       error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		payables, payErr = s.repo.ListInvoices(models.KindPayable, userID)
	}()
	go func() {
		defer wg.Done()
		receivables, recErr = s.repo.ListInvoices(models.KindReceivable, userID)
	}()
	go func() {
		defer wg.Done()
		periods, fcErr = s.repo.ListForecastPeriods(userID)
	}()
	wg.Wait()

	for _, err := range []error{payErr, recErr, fcErr} {
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return payables, receivables, periods, nil
}

// normalizeCurrencies converts foreign-currency balances to the reporting
// currency for aggregation. Unknown currencies keep their stored value and
// are surfaced as data-quality warnings instead of being silently zeroed.
func (s *Service) normalizeCurrencies(invoices []models.Invoice, warnings *[]string) []models.Invoice {
	base := s.config.BaseCurrency
	out := make([]models.Invoice, len(invoices))
	for i, inv := range invoices {
		if inv.CurrencyCode == base || inv.CurrencyCode == "" {
			out[i] = inv
			continue
		}
		converted, ok := s.rates.Convert(inv.BalanceDue, inv.CurrencyCode, base)
		if !ok {
			s.log.Warnf("No rate for currency %s on invoice %s", inv.CurrencyCode, inv.ID)
			*warnings = append(*warnings, models.DataIntegrityWarning{
				Table:    "accounts_" + string(inv.Kind),
				RecordID: inv.ID.String(),
				Detail:   "no exchange rate for currency " + inv.CurrencyCode,
			}.String())
			out[i] = inv
			continue
		}
		inv.BalanceDue = converted
		total, ok := s.rates.Convert(inv.TotalAmount, inv.CurrencyCode, base)
		if ok {
			inv.TotalAmount = total
		}
		out[i] = inv
	}
	return out
}
