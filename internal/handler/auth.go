package handler

import (
	"encoding/json"
	"net/http"

	"github.com/avlebedev/finops-service/internal/models"
)

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, &models.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}

	user, err := h.svc.Register(req.Username, req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, &models.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"token": token})
}

// Logout acknowledges a logout. Tokens are stateless; the client discards
// its copy and no server-side session exists to invalidate.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusOK, "Logged out")
}
