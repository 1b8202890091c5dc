package relay

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/vendixo/vendixo-backend/pkg/config"
)

// Message is one outbound email.
type Message struct {
	FromName string
	To       string
	Subject  string
	HTML     string
}

// Sender delivers a message to a mailbox provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type smtpSender struct {
	cfg config.SMTPConfig
}

// NewSMTPSender builds a sender speaking plain-auth SMTP.
func NewSMTPSender(cfg config.SMTPConfig) (Sender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host required")
	}
	if cfg.From == "" && cfg.User == "" {
		return nil, fmt.Errorf("smtp from address required")
	}
	return &smtpSender{cfg: cfg}, nil
}

func (s *smtpSender) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("recipient required")
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	var body strings.Builder
	fmt.Fprintf(&body, "From: %q <%s>\r\n", msg.FromName, from)
	fmt.Fprintf(&body, "To: %s\r\n", msg.To)
	fmt.Fprintf(&body, "Subject: %s\r\n", msg.Subject)
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(addr, auth, from, []string{msg.To}, []byte(body.String())); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}
