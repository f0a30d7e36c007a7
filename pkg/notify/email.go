package notify

import (
	"context"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

type EmailConfig struct {
	SMTPHost string
	SMTPPort int
	Username string
	Password string
	// UseSSL selects implicit TLS (port 465) instead of STARTTLS.
	UseSSL bool
	From   string
	To     []string
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailNotifier struct {
	cfg    EmailConfig
	dialer sender
}

func NewEmailNotifier(cfg EmailConfig) *EmailNotifier {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password)
	d.SSL = cfg.UseSSL
	return &EmailNotifier{cfg: cfg, dialer: d}
}

func (e *EmailNotifier) Notify(_ context.Context, msg Message) error {
	if len(e.cfg.To) == 0 {
		return errors.New("no recipients configured for email notifications")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.cfg.From)
	m.SetHeader("To", e.cfg.To...)
	m.SetHeader("Subject", msg.Title)
	m.SetBody("text/plain", msg.Body)

	if err := e.dialer.DialAndSend(m); err != nil {
		return errors.Wrap(err, "failed to send email")
	}
	return nil
}
