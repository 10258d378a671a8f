package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/avlebedev/finops-service/internal/models"
)

const dateLayout = "2006-01-02"

// invoiceRequest is the write payload for both ledgers; dates arrive as
// YYYY-MM-DD strings and are rejected with a 400 when unparseable.
type invoiceRequest struct {
	CounterpartyName string               `json:"counterparty_name"`
	InvoiceNumber    string               `json:"invoice_number"`
	IssueDate        string               `json:"issue_date"`
	DueDate          string               `json:"due_date"`
	TotalAmount      decimal.Decimal      `json:"total_amount"`
	BalanceDue       decimal.Decimal      `json:"balance_due"`
	CurrencyCode     string               `json:"currency_code"`
	Status           models.InvoiceStatus `json:"status"`
	Payments         []decimal.Decimal    `json:"payments"`
}

func (req *invoiceRequest) toModel() (*models.Invoice, error) {
	issue, err := time.Parse(dateLayout, req.IssueDate)
	if err != nil {
		return nil, &models.ValidationError{Field: "issue_date", Reason: "must be a YYYY-MM-DD date"}
	}
	due, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		return nil, &models.ValidationError{Field: "due_date", Reason: "must be a YYYY-MM-DD date"}
	}
	return &models.Invoice{
		CounterpartyName: req.CounterpartyName,
		InvoiceNumber:    req.InvoiceNumber,
		IssueDate:        issue,
		DueDate:          due,
		TotalAmount:      req.TotalAmount,
		BalanceDue:       req.BalanceDue,
		CurrencyCode:     req.CurrencyCode,
		Status:           req.Status,
		Payments:         req.Payments,
	}, nil
}

// ListInvoices lists one ledger for the authenticated user
func (h *Handler) ListInvoices(kind models.InvoiceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invoices, err := h.svc.ListInvoices(r.Context(), kind)
		if err != nil {
			h.respondError(w, err)
			return
		}
		respondData(w, http.StatusOK, invoices)
	}
}

// CreateInvoice creates a row on one ledger
func (h *Handler) CreateInvoice(kind models.InvoiceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv, err := decodeInvoice(r)
		if err != nil {
			h.respondError(w, err)
			return
		}
		created, err := h.svc.CreateInvoice(r.Context(), kind, inv)
		if err != nil {
			h.respondError(w, err)
			return
		}
		respondData(w, http.StatusCreated, created)
	}
}

// GetInvoice fetches a single row on one ledger
func (h *Handler) GetInvoice(kind models.InvoiceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.respondError(w, err)
			return
		}
		inv, err := h.svc.GetInvoice(r.Context(), kind, id)
		if err != nil {
			h.respondError(w, err)
			return
		}
		respondData(w, http.StatusOK, inv)
	}
}

// UpdateInvoice rewrites a single row on one ledger
func (h *Handler) UpdateInvoice(kind models.InvoiceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.respondError(w, err)
			return
		}
		inv, err := decodeInvoice(r)
		if err != nil {
			h.respondError(w, err)
			return
		}
		updated, err := h.svc.UpdateInvoice(r.Context(), kind, id, inv)
		if err != nil {
			h.respondError(w, err)
			return
		}
		respondData(w, http.StatusOK, updated)
	}
}

// DeleteInvoice removes a single row on one ledger
func (h *Handler) DeleteInvoice(kind models.InvoiceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.respondError(w, err)
			return
		}
		if err := h.svc.DeleteInvoice(r.Context(), kind, id); err != nil {
			h.respondError(w, err)
			return
		}
		respondMessage(w, http.StatusOK, "Deleted")
	}
}

// ListOverdue lists overdue rows with their days-overdue counts
func (h *Handler) ListOverdue(kind models.InvoiceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invoices, err := h.svc.ListOverdueInvoices(r.Context(), kind)
		if err != nil {
			h.respondError(w, err)
			return
		}
		respondData(w, http.StatusOK, invoices)
	}
}

func decodeInvoice(r *http.Request) (*models.Invoice, error) {
	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, &models.ValidationError{Field: "body", Reason: "malformed JSON"}
	}
	return req.toModel()
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, &models.ValidationError{Field: "id", Reason: "must be a valid UUID"}
	}
	return id, nil
}
