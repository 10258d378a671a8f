package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/avlebedev/finops-service/internal/models"
)

func respondData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": message,
	})
}

func respondFailure(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// MapError translates the error taxonomy onto HTTP statuses. Unclassified
// failures collapse to a generic 500 message; the cause stays in the logs.
func MapError(err error) (int, string) {
	var vErr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.As(err, &vErr):
		return http.StatusBadRequest, vErr.Error()
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "Record not found"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status, message := MapError(err)
	if status == http.StatusInternalServerError {
		h.log.WithFields(logrus.Fields{"error": err.Error()}).Error("request failed")
	}
	respondFailure(w, status, message)
}
