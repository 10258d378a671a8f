package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avlebedev/finops-service/internal/models"
)

const forecastColumns = `id, user_id, category, period_start, period_end,
		beginning_balance, net_change, ending_position, created_at, updated_at`

// CreateForecastPeriod inserts a forecast period for a user
func (r *Repository) CreateForecastPeriod(p *models.ForecastPeriod) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	query := `
		INSERT INTO cash_flow_forecast (id, user_id, category, period_start, period_end,
			beginning_balance, net_change, ending_position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(query,
		p.ID, p.UserID, p.Category, p.PeriodStart, p.PeriodEnd,
		p.BeginningBalance, p.NetChange, p.EndingPosition).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create forecast period: %w", err)
	}
	return nil
}

// GetForecastPeriod retrieves one forecast period scoped to the owning user
func (r *Repository) GetForecastPeriod(userID int64, id uuid.UUID) (*models.ForecastPeriod, error) {
	query := fmt.Sprintf(`SELECT %s FROM cash_flow_forecast WHERE id = $1 AND user_id = $2`, forecastColumns)
	p, err := scanForecastPeriod(r.db.QueryRow(query, id, userID))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get forecast period: %w", err)
	}
	return p, nil
}

// ListForecastPeriods retrieves all of a user's forecast periods in
// chronological order.
func (r *Repository) ListForecastPeriods(userID int64) ([]models.ForecastPeriod, error) {
	query := fmt.Sprintf(`SELECT %s FROM cash_flow_forecast WHERE user_id = $1 ORDER BY period_start`, forecastColumns)
	return r.queryForecastPeriods(query, userID)
}

// ListForecastRange retrieves a user's forecast periods starting within
// [from, to) in chronological order.
func (r *Repository) ListForecastRange(userID int64, from, to time.Time) ([]models.ForecastPeriod, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM cash_flow_forecast
		WHERE user_id = $1 AND period_start >= $2 AND period_start < $3
		ORDER BY period_start`, forecastColumns)
	return r.queryForecastPeriods(query, userID, from, to)
}

// UpdateForecastPeriod rewrites a user's forecast period in place
func (r *Repository) UpdateForecastPeriod(p *models.ForecastPeriod) error {
	query := `
		UPDATE cash_flow_forecast
		SET category = $1, period_start = $2, period_end = $3,
			beginning_balance = $4, net_change = $5, ending_position = $6,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $7 AND user_id = $8
		RETURNING updated_at`
	err := r.db.QueryRow(query,
		p.Category, p.PeriodStart, p.PeriodEnd,
		p.BeginningBalance, p.NetChange, p.EndingPosition, p.ID, p.UserID).
		Scan(&p.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update forecast period: %w", err)
	}
	return nil
}

// DeleteForecastPeriod removes a user's forecast period
func (r *Repository) DeleteForecastPeriod(userID int64, id uuid.UUID) error {
	res, err := r.db.Exec(`DELETE FROM cash_flow_forecast WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete forecast period: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *Repository) queryForecastPeriods(query string, args ...interface{}) ([]models.ForecastPeriod, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list forecast periods: %w", err)
	}
	defer rows.Close()

	periods := make([]models.ForecastPeriod, 0)
	for rows.Next() {
		p, err := scanForecastPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan forecast period: %w", err)
		}
		periods = append(periods, *p)
	}
	return periods, rows.Err()
}

func scanForecastPeriod(row rowScanner) (*models.ForecastPeriod, error) {
	p := &models.ForecastPeriod{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.Category, &p.PeriodStart, &p.PeriodEnd,
		&p.BeginningBalance, &p.NetChange, &p.EndingPosition, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}
