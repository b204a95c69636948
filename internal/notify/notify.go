// Package notify delivers operational alerts and daily summaries by mail.
package notify

import (
	"fmt"
	"net/smtp"
	"os"

	"github.com/yanun0323/errors"
)

// Notifier delivers a message with a subject line.
type Notifier interface {
	Notify(subject, body string) error
}

// Mailer sends plain-text mail over SMTP. Credentials come from the
// environment: EMAIL_HOST, EMAIL_PORT, EMAIL_USERNAME, EMAIL_PASSWORD.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	to       string
}

// NewMailer reads SMTP settings from the environment.
func NewMailer(to string) (*Mailer, error) {
	m := &Mailer{
		host:     os.Getenv("EMAIL_HOST"),
		port:     os.Getenv("EMAIL_PORT"),
		username: os.Getenv("EMAIL_USERNAME"),
		password: os.Getenv("EMAIL_PASSWORD"),
		to:       to,
	}
	if m.host == "" || m.port == "" || m.username == "" || m.password == "" {
		return nil, errors.New("missing EMAIL_HOST/EMAIL_PORT/EMAIL_USERNAME/EMAIL_PASSWORD")
	}
	if m.to == "" {
		m.to = m.username
	}
	return m, nil
}

// Notify sends one message.
func (m *Mailer) Notify(subject, body string) error {
	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.username, m.to, subject, body)

	if err := smtp.SendMail(addr, auth, m.username, []string{m.to}, []byte(msg)); err != nil {
		return errors.Wrap(err, "send mail").With("to", m.to)
	}
	return nil
}
