package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avlebedev/finops-service/internal/finance"
	"github.com/avlebedev/finops-service/internal/models"
	"github.com/avlebedev/finops-service/internal/repository"
)

// CreateInvoice validates and stores a new payable or receivable for the
// authenticated user.
func (s *Service) CreateInvoice(ctx context.Context, kind models.InvoiceKind, inv *models.Invoice) (*models.Invoice, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	inv.Kind = kind
	inv.UserID = userID
	if inv.CurrencyCode == "" {
		inv.CurrencyCode = s.config.BaseCurrency
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.CreateInvoice(inv); err != nil {
		return nil, err
	}
	table, _ := repository.LedgerTable(kind)
	s.audit(table, inv.ID.String(), models.AuditActionCreate, userID)
	s.log.Infof("Invoice created: %s %s for user %d", kind, inv.ID, userID)
	return inv, nil
}

// GetInvoice retrieves one of the user's invoices
func (s *Service) GetInvoice(ctx context.Context, kind models.InvoiceKind, id uuid.UUID) (*models.Invoice, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.GetInvoice(kind, userID, id)
}

// ListInvoices retrieves all of the user's invoices on one ledger
func (s *Service) ListInvoices(ctx context.Context, kind models.InvoiceKind) ([]models.Invoice, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListInvoices(kind, userID)
}

// UpdateInvoice validates and rewrites one of the user's invoices
func (s *Service) UpdateInvoice(ctx context.Context, kind models.InvoiceKind, id uuid.UUID, inv *models.Invoice) (*models.Invoice, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	inv.Kind = kind
	inv.UserID = userID
	inv.ID = id
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateInvoice(inv); err != nil {
		return nil, err
	}
	table, _ := repository.LedgerTable(kind)
	s.audit(table, id.String(), models.AuditActionUpdate, userID)
	return inv, nil
}

// DeleteInvoice removes one of the user's invoices
func (s *Service) DeleteInvoice(ctx context.Context, kind models.InvoiceKind, id uuid.UUID) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteInvoice(kind, userID, id); err != nil {
		return err
	}
	table, _ := repository.LedgerTable(kind)
	s.audit(table, id.String(), models.AuditActionDelete, userID)
	return nil
}

// ListOverdueInvoices retrieves the user's overdue rows enriched with their
// days-overdue count, sorted by due date ascending then balance descending.
func (s *Service) ListOverdueInvoices(ctx context.Context, kind models.InvoiceKind) ([]models.OverdueInvoice, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	asOf := time.Now().UTC()
	invoices, err := s.repo.ListOverdueInvoices(kind, userID, asOf)
	if err != nil {
		return nil, err
	}
	out := make([]models.OverdueInvoice, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, models.OverdueInvoice{
			Invoice:     inv,
			DaysOverdue: finance.DaysOverdue(inv.DueDate, asOf),
		})
	}
	return out, nil
}
