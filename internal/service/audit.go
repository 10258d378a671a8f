package service

import (
	"context"

	"github.com/avlebedev/finops-service/internal/models"
)

// ListAuditEntries retrieves the user's audit trail with the given filter
func (s *Service) ListAuditEntries(ctx context.Context, filter models.AuditFilter) ([]models.AuditEntry, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListAuditEntries(userID, filter)
}
