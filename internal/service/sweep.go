package service

import (
	"time"

	"github.com/avlebedev/finops-service/internal/finance"
	"github.com/avlebedev/finops-service/internal/models"
)

// SweepOverdue flips pending invoices past due to overdue status on both
// ledgers and emails each affected user a reminder listing their overdue
// payables. Individual reminder failures are logged and do not stop the sweep.
func (s *Service) SweepOverdue() error {
	asOf := time.Now().UTC()

	affected := make(map[int64]bool)
	for _, kind := range []models.InvoiceKind{models.KindPayable, models.KindReceivable} {
		userIDs, err := s.repo.MarkOverdue(kind, asOf)
		if err != nil {
			return err
		}
		for _, id := range userIDs {
			affected[id] = true
		}
	}
	s.log.Infof("Overdue sweep complete: %d users affected", len(affected))

	if s.email == nil || !s.email.Enabled() {
		return nil
	}

	for userID := range affected {
		user, err := s.repo.FindUserByID(userID)
		if err != nil {
			s.log.Errorf("Failed to load user %d for reminder: %v", userID, err)
			continue
		}
		invoices, err := s.repo.ListOverdueInvoices(models.KindPayable, userID, asOf)
		if err != nil {
			s.log.Errorf("Failed to load overdue payables for user %d: %v", userID, err)
			continue
		}
		items := make([]models.OverdueInvoice, 0, len(invoices))
		for _, inv := range invoices {
			items = append(items, models.OverdueInvoice{
				Invoice:     inv,
				DaysOverdue: finance.DaysOverdue(inv.DueDate, asOf),
			})
		}
		if err := s.email.SendOverdueReminder(user.Email, user.Username, items); err != nil {
			s.log.Errorf("Failed to send reminder to user %d: %v", userID, err)
		}
	}
	return nil
}
