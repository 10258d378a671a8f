package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/avlebedev/finops-service/internal/config"
	"github.com/avlebedev/finops-service/internal/models"
)

// fixedRates converts through a flat table; unknown currencies fail
type fixedRates struct {
	factors map[string]float64
}

func (f fixedRates) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, bool) {
	factor, ok := f.factors[from]
	if !ok {
		return amount, false
	}
	return amount.Mul(decimal.NewFromFloat(factor)).Round(2), true
}

func testService() *Service {
	log := logrus.New()
	cfg := &config.Config{BaseCurrency: "USD"}
	rates := fixedRates{factors: map[string]float64{"EUR": 1.10}}
	return &Service{log: log, config: cfg, rates: rates}
}

func TestNormalizeCurrencies(t *testing.T) {
	s := testService()
	invoices := []models.Invoice{
		{ID: uuid.New(), CurrencyCode: "USD", BalanceDue: decimal.RequireFromString("100"), TotalAmount: decimal.RequireFromString("100")},
		{ID: uuid.New(), CurrencyCode: "EUR", BalanceDue: decimal.RequireFromString("200"), TotalAmount: decimal.RequireFromString("200")},
	}

	var warnings []string
	out := s.normalizeCurrencies(invoices, &warnings)
	require.Len(t, out, 2)
	require.Empty(t, warnings)
	require.Equal(t, "100", out[0].BalanceDue.String())
	require.Equal(t, "220", out[1].BalanceDue.String())
	// input slice is untouched
	require.Equal(t, "200", invoices[1].BalanceDue.String())
}

func TestNormalizeCurrenciesUnknownCurrencyWarns(t *testing.T) {
	s := testService()
	invoices := []models.Invoice{
		{ID: uuid.New(), Kind: models.KindPayable, CurrencyCode: "XXX", BalanceDue: decimal.RequireFromString("50"), TotalAmount: decimal.RequireFromString("50")},
	}

	var warnings []string
	out := s.normalizeCurrencies(invoices, &warnings)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "XXX")
	// stored value kept, not zeroed
	require.Equal(t, "50", out[0].BalanceDue.String())
}

func TestUserIDFromContext(t *testing.T) {
	id, err := userIDFromContext(context.WithValue(context.Background(), "userID", "42"))
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	_, err = userIDFromContext(context.Background())
	require.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = userIDFromContext(context.WithValue(context.Background(), "userID", "not-a-number"))
	require.ErrorIs(t, err, models.ErrUnauthorized)
}
