// Package mailer sends HTML application mail over SMTP.
package mailer

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/wneessen/go-mail"
)

// Message is one outbound application email.
type Message struct {
	To             string
	Subject        string
	HTMLBody       string
	AttachmentPath string // optional resume document
}

// Sender delivers a single message. A send failure affects only that
// message; the dispatcher decides whether to retry on a later run.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int // 465 for implicit TLS
	Account  string
	Password string
	From     string // defaults to Account
}

type smtpSender struct {
	cfg Config
}

// NewSender creates an SMTP Sender.
func NewSender(cfg Config) Sender {
	if cfg.Port == 0 {
		cfg.Port = 465
	}
	if cfg.From == "" {
		cfg.From = cfg.Account
	}
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	m, err := s.build(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Account),
		mail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		return eris.Wrap(err, "mailer: smtp client")
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return eris.Wrapf(err, "mailer: send to %s", msg.To)
	}
	return nil
}

func (s *smtpSender) build(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return nil, eris.Wrap(err, "mailer: from address")
	}
	if err := m.To(msg.To); err != nil {
		return nil, eris.Wrap(err, "mailer: to address")
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	if msg.AttachmentPath != "" {
		m.AttachFile(msg.AttachmentPath)
	}
	return m, nil
}
