// Package mailer sends transactional mail over SMTP. Delivery is best
// effort; callers log and swallow failures rather than failing the
// operation that triggered the mail.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends HTML mail through a single SMTP server.
type Mailer struct {
	host     string
	addr     string
	username string
	password string
	from     string
}

// New creates a Mailer. An empty username disables authentication.
func New(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		host:     host,
		addr:     fmt.Sprintf("%s:%d", host, port),
		username: username,
		password: password,
		from:     from,
	}
}

// Send delivers a single HTML message.
func (m *Mailer) Send(to, subject, body string) error {
	var msg strings.Builder
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(m.addr, auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
