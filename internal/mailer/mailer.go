package mailer

import (
	"fmt"

	"freightdesk/config"

	"gopkg.in/gomail.v2"
)

// Mailer sends a single transactional message. Implementations must treat
// each send as independent; a failure never affects other messages.
type Mailer interface {
	Send(to, toName, subject, body string) error
}

// SMTPMailer sends mail through the configured SMTP relay.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPMailer returns nil when SMTP is not configured; callers treat a nil
// mailer as "sending disabled".
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	if cfg.Host == "" {
		return nil
	}
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (m *SMTPMailer) Send(to, toName, subject, body string) error {
	if m == nil {
		return fmt.Errorf("smtp not configured")
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetAddressHeader("To", to, toName)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}
