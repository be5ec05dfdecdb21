package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"cuponera_backend/internal/config"
)

// SMTPProvider implements Provider over plain SMTP, with optional TLS.
type SMTPProvider struct {
	config config.EmailConfig
	auth   smtp.Auth
}

func NewSMTPProvider(cfg config.EmailConfig) *SMTPProvider {
	var auth smtp.Auth
	if cfg.SMTPUsername != "" && cfg.SMTPPassword != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &SMTPProvider{config: cfg, auth: auth}
}

func (p *SMTPProvider) Send(email *Email) error {
	if p.config.SMTPHost == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if p.config.SMTPPort <= 0 || p.config.SMTPPort > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", p.config.SMTPPort)
	}
	if email.From == "" {
		email.From = p.config.FromEmail
	}

	message := buildMessage(email)
	addr := fmt.Sprintf("%s:%d", p.config.SMTPHost, p.config.SMTPPort)

	if p.config.UseTLS {
		conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: p.config.SMTPHost})
		if err != nil {
			return fmt.Errorf("failed to dial TLS: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, p.config.SMTPHost)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}
		defer client.Close()

		return p.sendWithClient(client, email, message)
	}

	return smtp.SendMail(addr, p.auth, email.From, email.To, message)
}

func (p *SMTPProvider) Close() error {
	return nil
}

func buildMessage(email *Email) []byte {
	b := &strings.Builder{}
	fmt.Fprintf(b, "From: %s\r\n", email.From)
	fmt.Fprintf(b, "To: %s\r\n", strings.Join(email.To, ","))
	fmt.Fprintf(b, "Subject: %s\r\n", email.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(email.Body)
	return []byte(b.String())
}

func (p *SMTPProvider) sendWithClient(client *smtp.Client, email *Email, message []byte) error {
	if p.auth != nil {
		if err := client.Auth(p.auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}
	if err := client.Mail(email.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, recipient := range email.To {
		if err := client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", recipient, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}
