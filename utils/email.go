package utils

import (
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/meinhoongagan/therapy-booking/config"
)

// GomailMailer sends HTML mail over SMTP.
type GomailMailer struct {
	from   string
	dialer *gomail.Dialer
}

func NewGomailMailer(cfg config.SMTPConfig) *GomailMailer {
	return &GomailMailer{
		from:   cfg.User,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func (m *GomailMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	return m.dialer.DialAndSend(msg)
}

// LogMailer stands in when SMTP is not configured; it only logs the recipient.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(to, subject, _ string) error {
	m.log.Info("email skipped, smtp not configured", zap.String("to", to), zap.String("subject", subject))
	return nil
}
