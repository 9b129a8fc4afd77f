package channel

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"storefront-notifications/internal/common/config"
	"storefront-notifications/internal/common/errors"
	"storefront-notifications/internal/common/logger"
)

// SMTPEmail sends email through a plain SMTP relay. Used for local
// development and sandbox environments where SES is not provisioned.
type SMTPEmail struct {
	config config.EmailConfig
	logger logger.Logger
}

func NewSMTPEmail(cfg config.EmailConfig, log logger.Logger) *SMTPEmail {
	return &SMTPEmail{
		config: cfg,
		logger: log.WithFields(map[string]interface{}{"channel": "email", "provider": "smtp"}),
	}
}

func (s *SMTPEmail) Send(ctx context.Context, to, subject, htmlBody string) Result {
	if !isValidEmail(to) {
		return Result{Err: errors.NewValidationError(fmt.Sprintf("invalid 'to' email address: %s", to))}
	}

	message := s.buildMessage(to, subject, htmlBody)
	if err := s.sendSMTP(ctx, to, message); err != nil {
		s.logger.Error("email send failed", map[string]interface{}{
			"error": err,
			"to":    to,
		})
		return Result{Err: errors.NewChannelSendFailedError("email", err)}
	}
	return Result{Success: true}
}

func (s *SMTPEmail) buildMessage(to, subject, htmlBody string) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("From: %s\r\n", s.config.FromEmail))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", to))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(htmlBody)

	return builder.String()
}

func (s *SMTPEmail) sendSMTP(ctx context.Context, to, message string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" && s.config.SMTPPassword != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if s.config.UseTLS {
		return s.sendWithTLS(addr, auth, []string{to}, []byte(message))
	}
	return smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, []byte(message))
}

func (s *SMTPEmail) sendWithTLS(addr string, auth smtp.Auth, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName:         s.config.SMTPHost,
		InsecureSkipVerify: false,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

// TestConnection verifies the relay is reachable. Called once at startup.
func (s *SMTPEmail) TestConnection(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName:         s.config.SMTPHost,
			InsecureSkipVerify: false,
		}
		if err = client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	return client.Quit()
}

func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return false
	}
	return strings.Contains(parts[1], ".")
}
