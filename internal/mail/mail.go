package mail

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"golang.org/x/time/rate"

	"github.com/SantaTabla/Shop-Backend/internal/config"
)

// Notifier delivers out-of-band notifications (reset links, purchase
// receipts, account notices). Delivery failures are the caller's to log;
// they never fail the primary operation.
type Notifier interface {
	Deliver(to, subject, body string) error
}

// SMTPMailer sends through a plain SMTP relay. Outbound volume is throttled
// so a bulk sweep (account cleanup) cannot trip provider limits.
type SMTPMailer struct {
	cfg     config.SMTPConfig
	limiter *rate.Limiter
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	// One mail per second, short bursts allowed.
	return &SMTPMailer{cfg: cfg, limiter: rate.NewLimiter(rate.Limit(1), 5)}
}

func (m *SMTPMailer) Deliver(to, subject, body string) error {
	if err := m.limiter.Wait(context.Background()); err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.Email, to, subject, body)
	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Email, m.cfg.Password, m.cfg.Host)
	return smtp.SendMail(addr, auth, m.cfg.Email, []string{to}, []byte(msg))
}

// LogMailer is the dev fallback when SMTP is unconfigured: deliveries are
// logged instead of sent.
type LogMailer struct{}

func (LogMailer) Deliver(to, subject, body string) error {
	log.Printf("[mail] to=%s subject=%q (smtp not configured, not sent)", to, subject)
	return nil
}

// FromConfig picks the SMTP mailer when settings are present, the log
// fallback otherwise.
func FromConfig(cfg config.SMTPConfig) Notifier {
	if cfg.Host == "" || cfg.Email == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}
