package client

import (
	"fmt"
	"storefront/internal/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Mailer interface {
	SendActivationEmail(to, activationURL string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewMailer returns a disabled mailer when SMTP credentials are not
// configured; activation links are then only logged.
func NewMailer(cfg *config.SMTP, logger *zap.Logger) Mailer {
	m := &smtpMailer{
		from:   cfg.From,
		logger: logger,
	}
	if cfg.Host == "" || cfg.Username == "" {
		logger.Warn("smtp not configured, activation emails disabled")
		return m
	}
	m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return m
}

func (m *smtpMailer) SendActivationEmail(to, activationURL string) error {
	if m.dialer == nil {
		m.logger.Info("activation email skipped",
			zap.String("to", to),
			zap.String("url", activationURL))
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Confirm your registration")
	msg.SetBody("text/plain", fmt.Sprintf("Follow the link to activate your account: %s", activationURL))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send activation email: %w", err)
	}
	return nil
}
