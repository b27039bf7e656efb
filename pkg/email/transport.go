package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"trailbook/pkg/logger"
)

const dialTimeout = 10 * time.Second

// smtpTransport speaks plain SMTP, upgrading to TLS when the server offers it.
type smtpTransport struct {
	addr     string
	host     string
	username string
	password string
}

func newSMTPTransport(cfg Config) *smtpTransport {
	return &smtpTransport{
		addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		host:     cfg.Host,
		username: cfg.Username,
		password: cfg.Password,
	}
}

func (t *smtpTransport) Send(ctx context.Context, from, to string, msg []byte) error {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to dial smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open smtp session: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: t.host}); err != nil {
			return fmt.Errorf("failed to start tls: %w", err)
		}
	}

	if t.username != "" {
		auth := smtp.PlainAuth("", t.username, t.password, t.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth failed: %w", err)
		}
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("smtp mail from rejected: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp recipient rejected: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data command failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize message: %w", err)
	}

	return client.Quit()
}

// logTransport stands in for a real mail server during local development.
type logTransport struct {
	log *logger.Logger
}

func (t *logTransport) Send(_ context.Context, from, to string, msg []byte) error {
	t.log.Info("email suppressed in development mode", "from", from, "to", to, "bytes", len(msg))
	return nil
}
