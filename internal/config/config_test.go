package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "USD", cfg.BaseCurrency)
	require.Equal(t, "10000", cfg.RiskCriticalAmount.String())
	require.Equal(t, 30, cfg.RiskCriticalDays)
	require.Equal(t, "1", cfg.LiquidityFloor.String())
	require.True(t, cfg.ShortfallFloor.IsZero())
	require.Equal(t, 6, cfg.DefaultProjectionMonths)
}

func TestNewConfigOverrides(t *testing.T) {
	t.Setenv("RISK_CRITICAL_AMOUNT", "2500.50")
	t.Setenv("RISK_CRITICAL_DAYS", "14")
	t.Setenv("SHORTFALL_FLOOR", "1000")
	t.Setenv("PROJECTION_MONTHS", "12")

	cfg, err := NewConfig()
	require.NoError(t, err)
	require.Equal(t, "2500.5", cfg.RiskCriticalAmount.String())
	require.Equal(t, 14, cfg.RiskCriticalDays)
	require.Equal(t, "1000", cfg.ShortfallFloor.String())
	require.Equal(t, 12, cfg.DefaultProjectionMonths)
}

func TestNewConfigRejectsBadValues(t *testing.T) {
	t.Setenv("RISK_CRITICAL_AMOUNT", "lots")
	_, err := NewConfig()
	require.Error(t, err)
}

func TestNewConfigRejectsNonPositiveLiquidityFloor(t *testing.T) {
	t.Setenv("LIQUIDITY_FLOOR", "0")
	_, err := NewConfig()
	require.Error(t, err)
}
