package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"ptaconnect/config"
)

// Mailer sends one email at a time. Only the task worker calls this; request
// handlers enqueue instead of sending inline.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer is the production implementation over plain SMTP with auth.
type SMTPMailer struct{}

// NewSMTPMailer returns the production mailer configured from AppConfig.
func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{}
}

// Send delivers one message.
func (m *SMTPMailer) Send(to, subject, body string) error {
	cfg := config.AppConfig
	if cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP host is not configured")
	}

	addr := cfg.SMTPHost + ":" + cfg.SMTPPort
	auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)

	var msg strings.Builder
	msg.WriteString("From: " + cfg.SMTPFrom + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(addr, auth, cfg.SMTPFrom, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
