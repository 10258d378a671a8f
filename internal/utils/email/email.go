package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/avlebedev/finops-service/internal/config"
	"github.com/avlebedev/finops-service/internal/finance"
	"github.com/avlebedev/finops-service/internal/models"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// Enabled reports whether SMTP is configured; reminders are skipped otherwise
func (s *Sender) Enabled() bool {
	return s.cfg.SMTPHost != ""
}

// SendOverdueReminder sends a reminder listing a user's overdue payables
func (s *Sender) SendOverdueReminder(to, username string, items []models.OverdueInvoice) error {
	if len(items) == 0 {
		return nil
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Overdue Payables Notice: %d invoice(s) require attention", len(items))

	// Format email body
	var body strings.Builder
	fmt.Fprintf(&body, "Dear %s,\n\n", username)
	fmt.Fprintf(&body, "The following payables are overdue:\n\n")
	for _, item := range items {
		fmt.Fprintf(&body, "  - Invoice %s to %s: %s due %s (%d days overdue)\n",
			item.InvoiceNumber, item.CounterpartyName,
			finance.FormatCurrency(item.BalanceDue, s.cfg.CurrencySymbol),
			item.DueDate.Format("2006-01-02"), item.DaysOverdue)
	}
	body.WriteString("\nPlease schedule these payments to avoid late fees.\n")
	body.WriteString("\nBest regards,\nFinOps Dashboard")
	e.Text = []byte(body.String())

	// Send email
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
