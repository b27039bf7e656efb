// Package email renders templated HTML mail with a derived plain-text part
// and dispatches it through a transport selected by deployment mode.
package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"mime"
	"strings"

	"trailbook/pkg/logger"
	"trailbook/pkg/model"

	"github.com/jaytaylor/html2text"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	TemplateWelcome             = "welcome"
	TemplatePasswordReset       = "password_reset"
	TemplateBookingConfirmation = "booking_confirmation"
)

// Transport delivers a fully built RFC 5322 message.
type Transport interface {
	Send(ctx context.Context, from, to string, msg []byte) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AppEnv   string
}

type Mailer struct {
	transport Transport
	from      string
	templates *template.Template
	log       *logger.Logger
}

// templateData is what every mail template renders against.
type templateData struct {
	FirstName string
	URL       string
	Subject   string
	TourName  string
}

func New(cfg Config, log *logger.Logger) (*Mailer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	var transport Transport
	switch {
	case cfg.Host != "":
		transport = newSMTPTransport(cfg)
	case cfg.AppEnv == "production":
		return nil, fmt.Errorf("email transport requires SMTP settings in production")
	default:
		transport = &logTransport{log: log}
	}

	return &Mailer{
		transport: transport,
		from:      cfg.From,
		templates: templates,
		log:       log,
	}, nil
}

func (m *Mailer) SendWelcome(ctx context.Context, user *model.User, url string) error {
	return m.send(ctx, user, TemplateWelcome, "Welcome to the Trailbook family!", templateData{URL: url})
}

func (m *Mailer) SendPasswordReset(ctx context.Context, user *model.User, url string) error {
	return m.send(ctx, user, TemplatePasswordReset, "Your password reset token (valid for only 10 minutes)", templateData{URL: url})
}

func (m *Mailer) SendBookingConfirmation(ctx context.Context, user *model.User, tourName string) error {
	return m.send(ctx, user, TemplateBookingConfirmation, "Your tour booking is confirmed", templateData{TourName: tourName})
}

func (m *Mailer) send(ctx context.Context, user *model.User, templateName, subject string, data templateData) error {
	data.FirstName = firstName(user.Name)
	data.Subject = subject

	var html bytes.Buffer
	if err := m.templates.ExecuteTemplate(&html, templateName+".html", data); err != nil {
		return fmt.Errorf("failed to render email template %s: %w", templateName, err)
	}

	// A plain-text alternative keeps deliverability up for text-only clients.
	text, err := html2text.FromString(html.String())
	if err != nil {
		return fmt.Errorf("failed to derive text part: %w", err)
	}

	msg := buildMessage(m.from, user.Email, subject, html.String(), text)
	if err := m.transport.Send(ctx, m.from, user.Email, msg); err != nil {
		return fmt.Errorf("failed to send %s email: %w", templateName, err)
	}

	m.log.Info("email dispatched", "template", templateName, "to", user.Email)
	return nil
}

func buildMessage(from, to, subject, html, text string) []byte {
	const boundary = "trailbook-alt"

	var msg strings.Builder
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: multipart/alternative; boundary=" + boundary + "\r\n")
	msg.WriteString("\r\n")

	msg.WriteString("--" + boundary + "\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(text + "\r\n")

	msg.WriteString("--" + boundary + "\r\n")
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	msg.WriteString(html + "\r\n")

	msg.WriteString("--" + boundary + "--\r\n")
	return []byte(msg.String())
}

func firstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return name
}
