package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/avlebedev/finops-service/internal/service"
)

// RateSource exposes the FX reference rates in use
type RateSource interface {
	Rates() map[string]float64
}

// Handler serves the HTTP API
type Handler struct {
	svc   *service.Service
	log   *logrus.Logger
	rates RateSource
}

// NewHandler initializes a new handler
func NewHandler(svc *service.Service, log *logrus.Logger, rates RateSource) *Handler {
	return &Handler{svc: svc, log: log, rates: rates}
}

// Rates serves the FX reference rates currently used for normalization
func (h *Handler) Rates(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, h.rates.Rates())
}
