package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer delivers the password-reset notifications. Delivery is always
// best-effort from the caller's point of view.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, username, token string) error
	SendPasswordResetConfirmation(ctx context.Context, email, username string) error
}

// ConsoleMailer logs instead of sending. Used in dev and tests.
type ConsoleMailer struct {
	log *slog.Logger
}

func NewConsoleMailer(log *slog.Logger) *ConsoleMailer {
	return &ConsoleMailer{log: log}
}

func (m *ConsoleMailer) SendPasswordReset(_ context.Context, email, username, token string) error {
	m.log.Info("password reset email", "email", email, "username", username, "token", token)
	return nil
}

func (m *ConsoleMailer) SendPasswordResetConfirmation(_ context.Context, email, username string) error {
	m.log.Info("password reset confirmation email", "email", email, "username", username)
	return nil
}

// SMTPMailer sends over plain SMTP with STARTTLS negotiated by the server.
type SMTPMailer struct {
	host        string
	port        string
	username    string
	password    string
	sender      string
	frontendURL string
}

func NewSMTPMailer(host, port, username, password, sender, frontendURL string) *SMTPMailer {
	return &SMTPMailer{
		host:        host,
		port:        port,
		username:    username,
		password:    password,
		sender:      sender,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (m *SMTPMailer) SendPasswordReset(_ context.Context, email, username, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", m.frontendURL, token)
	body := fmt.Sprintf(
		"Dear %s,\r\n\r\n"+
			"You have requested to reset your password for your Task Manager account.\r\n\r\n"+
			"Please open the following link to reset your password:\r\n%s\r\n\r\n"+
			"This link will expire in 24 hours.\r\n\r\n"+
			"If you did not request this password reset, please ignore this email.\r\n",
		username, resetURL,
	)
	return m.send(email, "Password Reset Request - Task Manager", body)
}

func (m *SMTPMailer) SendPasswordResetConfirmation(_ context.Context, email, username string) error {
	body := fmt.Sprintf(
		"Dear %s,\r\n\r\n"+
			"Your password has been successfully reset.\r\n\r\n"+
			"If you did not make this change, please contact support immediately.\r\n",
		username,
	)
	return m.send(email, "Password Reset Successful - Task Manager", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.sender, to, subject, body)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, auth, m.sender, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
