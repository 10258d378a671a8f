package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avlebedev/finops-service/internal/finance"
	"github.com/avlebedev/finops-service/internal/models"
)

const forecastTable = "cash_flow_forecast"

// ProjectionsResult is the projections endpoint payload
type ProjectionsResult struct {
	Projections []finance.ProjectionPoint `json:"projections"`
	Summary     models.ForecastSummary    `json:"summary"`
	Warnings    []string                  `json:"warnings,omitempty"`
}

// CreateForecastPeriod validates and stores a forecast period for the user
func (s *Service) CreateForecastPeriod(ctx context.Context, p *models.ForecastPeriod) (*models.ForecastPeriod, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	p.UserID = userID
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateForecastPeriod(p); err != nil {
		return nil, err
	}
	s.audit(forecastTable, p.ID.String(), models.AuditActionCreate, userID)
	s.log.Infof("Forecast period created: %s for user %d", p.ID, userID)
	return p, nil
}

// GetForecastPeriod retrieves one of the user's forecast periods
func (s *Service) GetForecastPeriod(ctx context.Context, id uuid.UUID) (*models.ForecastPeriod, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.GetForecastPeriod(userID, id)
}

// ListForecastPeriods retrieves all of the user's forecast periods
func (s *Service) ListForecastPeriods(ctx context.Context) ([]models.ForecastPeriod, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListForecastPeriods(userID)
}

// UpdateForecastPeriod validates and rewrites one of the user's periods
func (s *Service) UpdateForecastPeriod(ctx context.Context, id uuid.UUID, p *models.ForecastPeriod) (*models.ForecastPeriod, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	p.UserID = userID
	p.ID = id
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateForecastPeriod(p); err != nil {
		return nil, err
	}
	s.audit(forecastTable, id.String(), models.AuditActionUpdate, userID)
	return p, nil
}

// DeleteForecastPeriod removes one of the user's periods
func (s *Service) DeleteForecastPeriod(ctx context.Context, id uuid.UUID) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteForecastPeriod(userID, id); err != nil {
		return err
	}
	s.audit(forecastTable, id.String(), models.AuditActionDelete, userID)
	return nil
}

// Projections builds the N-month projection view: periods starting from the
// current month, annotated with trend and shortfall, plus summary statistics.
// Stored rows that fail the ending = beginning + net check are reported as
// warnings and aggregated on their stored values.
func (s *Service) Projections(ctx context.Context, months int) (*ProjectionsResult, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if months <= 0 {
		months = s.config.DefaultProjectionMonths
	}
	if months > 24 {
		months = 24
	}

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, months, 0)

	periods, err := s.repo.ListForecastRange(userID, from, to)
	if err != nil {
		return nil, err
	}

	var warnings []string
	for _, p := range periods {
		if w := finance.CheckPeriodIntegrity(p); w != nil {
			s.log.Warnf("Forecast integrity mismatch: %s", w)
			warnings = append(warnings, w.String())
		}
	}

	return &ProjectionsResult{
		Projections: finance.BuildProjections(periods, s.config.ShortfallFloor),
		Summary:     finance.SummarizeForecast(periods, s.config.ShortfallFloor),
		Warnings:    warnings,
	}, nil
}
