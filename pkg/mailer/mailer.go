package mailer

import (
	"fmt"
	"log"
	"net"
	"net/smtp"
	"time"
)

// Timeouts for the SMTP exchange.
const (
	connectTimeout  = 60 * time.Second
	socketTimeout   = 60 * time.Second
	greetingTimeout = 30 * time.Second
)

// Mailer sends transactional mail (OTP codes, password resets, order
// confirmations). Services depend on this interface so tests can mock it.
type Mailer interface {
	Send(to, subject, body string) error
}

// Config holds SMTP connection details.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPMailer is a Mailer backed by a plain-auth SMTP server.
type SMTPMailer struct {
	cfg Config
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers a single message. The connection and greeting are bounded by
// explicit deadlines so a slow SMTP server cannot stall a request forever.
func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)

	conn, err := net.DialTimeout("tcp", addr, connectTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server %s: %w", addr, err)
	}

	if err := conn.SetDeadline(time.Now().Add(greetingTimeout)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set greeting deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to greet SMTP server: %w", err)
	}
	defer client.Close()

	if err := conn.SetDeadline(time.Now().Add(socketTimeout)); err != nil {
		return fmt.Errorf("failed to set socket deadline: %w", err)
	}

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP auth failed: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA failed: %w", err)
	}

	message := "To: " + to + "\r\n" +
		"From: " + m.cfg.From + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n"
	if _, err := w.Write([]byte(message)); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}

	if err := client.Quit(); err != nil {
		log.Printf("SMTP quit failed: %v", err)
	}

	log.Printf("Email sent successfully to %s", to)
	return nil
}
