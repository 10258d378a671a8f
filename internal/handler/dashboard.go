package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/avlebedev/finops-service/internal/models"
)

// DashboardMetrics serves the summary metrics view
func (h *Handler) DashboardMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.svc.DashboardMetrics(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, metrics)
}

// DashboardRisks serves the grouped risk report
func (h *Handler) DashboardRisks(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.DashboardRisks(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, report)
}

// AuditLogs serves the filtered audit trail
func (h *Handler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	filter, err := auditFilterFromQuery(r)
	if err != nil {
		h.respondError(w, err)
		return
	}
	entries, err := h.svc.ListAuditEntries(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, entries)
}

func auditFilterFromQuery(r *http.Request) (models.AuditFilter, error) {
	q := r.URL.Query()
	filter := models.AuditFilter{
		TableName: q.Get("table_name"),
		Action:    q.Get("action"),
	}
	if raw := q.Get("start_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filter, &models.ValidationError{Field: "start_date", Reason: "must be a YYYY-MM-DD date"}
		}
		filter.StartDate = &t
	}
	if raw := q.Get("end_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return filter, &models.ValidationError{Field: "end_date", Reason: "must be a YYYY-MM-DD date"}
		}
		// inclusive end of day
		end := t.AddDate(0, 0, 1).Add(-time.Second)
		filter.EndDate = &end
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := atoiParam(raw)
		if err != nil {
			return filter, &models.ValidationError{Field: "limit", Reason: "must be a positive integer"}
		}
		filter.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := atoiParam(raw)
		if err != nil {
			return filter, &models.ValidationError{Field: "offset", Reason: "must be a positive integer"}
		}
		filter.Offset = n
	}
	return filter, nil
}

func atoiParam(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("not a non-negative integer: %s", raw)
	}
	return n, nil
}
