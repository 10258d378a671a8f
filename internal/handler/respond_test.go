package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/avlebedev/finops-service/internal/models"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"unauthorized", models.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
		{"not found", models.ErrNotFound, http.StatusNotFound, "Record not found"},
		{"validation", &models.ValidationError{Field: "due_date", Reason: "must be a YYYY-MM-DD date"},
			http.StatusBadRequest, "invalid due_date: must be a YYYY-MM-DD date"},
		{"internal cause stays hidden", errors.New("pq: connection refused"),
			http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := MapError(tt.err)
			require.Equal(t, tt.wantStatus, status)
			require.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestRespondErrorEnvelope(t *testing.T) {
	h := &Handler{log: logrus.New()}
	rec := httptest.NewRecorder()
	h.respondError(rec, models.ErrUnauthorized)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
	require.Equal(t, "Unauthorized", body["error"])
}

func TestRespondDataEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	respondData(rec, http.StatusOK, map[string]int{"n": 1})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, true, body["success"])
	require.NotNil(t, body["data"])
}
