package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	s := &Sender{
		cfg:    cfg,
		logger: logger,
	}
	s.send = s.smtpSend
	return s
}

func (s *Sender) smtpSend(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	return e.Send(addr, auth)
}

// SendPaymentReminder lists the payments due in the coming days
func (s *Sender) SendPaymentReminder(to, username string, days []models.CalendarDay) error {
	return s.deliver(to, s.paymentReminder(to, username, days))
}

// SendLowBalanceWarning warns that the forecast balance goes negative
func (s *Sender) SendLowBalanceWarning(to, username string, summary models.Summary) error {
	return s.deliver(to, s.lowBalanceWarning(to, username, summary))
}

func (s *Sender) deliver(to string, e *email.Email) error {
	if err := s.send(e); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func (s *Sender) newEmail(to, subject string) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = subject
	return e
}

func (s *Sender) paymentReminder(to, username string, days []models.CalendarDay) *email.Email {
	e := s.newEmail(to, "Upcoming Payments Reminder")

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", username)
	b.WriteString("The following payments are due soon:\n\n")
	for _, day := range days {
		fmt.Fprintf(&b, "%s (total %s)\n", day.Date.Format(models.DateLayout), day.TotalAmount.StringFixed(2))
		for _, p := range day.Payments {
			label := "expense"
			if p.Kind == models.PaymentKindMinimum {
				label = "minimum payment"
			}
			fmt.Fprintf(&b, "  - %s: %s (%s)\n", p.Name, p.Amount.StringFixed(2), label)
		}
	}
	b.WriteString("\nPlease ensure sufficient funds are available in your account.\n")
	b.WriteString("\nBest regards,\nCash Flow Service")
	e.Text = []byte(b.String())
	return e
}

func (s *Sender) lowBalanceWarning(to, username string, summary models.Summary) *email.Email {
	e := s.newEmail(to, "Low Balance Warning")

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", username)
	if summary.DaysUntilNegative == 0 {
		b.WriteString("Your balance is forecast to be negative today.\n")
	} else {
		fmt.Fprintf(&b, "Your balance is forecast to go negative in %d days.\n", summary.DaysUntilNegative)
	}
	fmt.Fprintf(&b, "Current balance: %s\n", summary.CurrentBalance.StringFixed(2))
	fmt.Fprintf(&b, "Lowest forecast balance: %s\n", summary.LowestBalance.StringFixed(2))
	fmt.Fprintf(&b, "Monthly net income: %s\n", summary.NetIncome.StringFixed(2))
	b.WriteString("\nBest regards,\nCash Flow Service")
	e.Text = []byte(b.String())
	return e
}
