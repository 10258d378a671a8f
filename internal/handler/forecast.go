package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avlebedev/finops-service/internal/models"
)

type forecastRequest struct {
	Category         string          `json:"category"`
	PeriodStart      string          `json:"period_start"`
	PeriodEnd        string          `json:"period_end"`
	BeginningBalance decimal.Decimal `json:"beginning_balance"`
	NetChange        decimal.Decimal `json:"net_change"`
	EndingPosition   decimal.Decimal `json:"ending_position"`
}

func (req *forecastRequest) toModel() (*models.ForecastPeriod, error) {
	start, err := time.Parse(dateLayout, req.PeriodStart)
	if err != nil {
		return nil, &models.ValidationError{Field: "period_start", Reason: "must be a YYYY-MM-DD date"}
	}
	end, err := time.Parse(dateLayout, req.PeriodEnd)
	if err != nil {
		return nil, &models.ValidationError{Field: "period_end", Reason: "must be a YYYY-MM-DD date"}
	}
	return &models.ForecastPeriod{
		Category:         req.Category,
		PeriodStart:      start,
		PeriodEnd:        end,
		BeginningBalance: req.BeginningBalance,
		NetChange:        req.NetChange,
		EndingPosition:   req.EndingPosition,
	}, nil
}

// ListForecastPeriods lists the user's forecast periods chronologically
func (h *Handler) ListForecastPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.svc.ListForecastPeriods(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, periods)
}

// CreateForecastPeriod creates one forecast period
func (h *Handler) CreateForecastPeriod(w http.ResponseWriter, r *http.Request) {
	p, err := decodeForecast(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	created, err := h.svc.CreateForecastPeriod(r.Context(), p)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, created)
}

// GetForecastPeriod fetches one forecast period
func (h *Handler) GetForecastPeriod(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	p, err := h.svc.GetForecastPeriod(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, p)
}

// UpdateForecastPeriod rewrites one forecast period
func (h *Handler) UpdateForecastPeriod(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	p, err := decodeForecast(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	updated, err := h.svc.UpdateForecastPeriod(r.Context(), id, p)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, updated)
}

// DeleteForecastPeriod removes one forecast period
func (h *Handler) DeleteForecastPeriod(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if err := h.svc.DeleteForecastPeriod(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Deleted")
}

// Projections serves the N-month projection view with summary statistics
func (h *Handler) Projections(w http.ResponseWriter, r *http.Request) {
	months, err := monthsParam(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	result, err := h.svc.Projections(r.Context(), months)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, result)
}

// monthsParam parses the optional months query parameter; 0 means "use the
// configured default".
func monthsParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("months")
	if raw == "" {
		return 0, nil
	}
	months, err := strconv.Atoi(raw)
	if err != nil || months < 1 {
		return 0, &models.ValidationError{Field: "months", Reason: "must be a positive integer"}
	}
	return months, nil
}

func decodeForecast(r *http.Request) (*models.ForecastPeriod, error) {
	var req forecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, &models.ValidationError{Field: "body", Reason: "malformed JSON"}
	}
	return req.toModel()
}
