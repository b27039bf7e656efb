package email

import (
	"context"
	"io"
	"strings"
	"testing"

	"trailbook/pkg/logger"
	"trailbook/pkg/model"
)

type captureTransport struct {
	from string
	to   string
	msg  []byte
}

func (c *captureTransport) Send(ctx context.Context, from, to string, msg []byte) error {
	c.from = from
	c.to = to
	c.msg = msg
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:  logger.LevelError,
		Format: logger.FormatText,
		Output: io.Discard,
	})
}

func TestNewProductionRequiresSMTP(t *testing.T) {
	_, err := New(Config{AppEnv: "production", From: "Trailbook <hello@trailbook.dev>"}, testLogger())
	if err == nil {
		t.Fatal("New() must refuse production without SMTP settings")
	}
}

func TestNewDevelopmentFallsBackToLogTransport(t *testing.T) {
	m, err := New(Config{AppEnv: "development", From: "Trailbook <hello@trailbook.dev>"}, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := m.transport.(*logTransport); !ok {
		t.Errorf("transport = %T, want logTransport", m.transport)
	}
}

func TestSendWelcomeMessage(t *testing.T) {
	m, err := New(Config{AppEnv: "development", From: "Trailbook <hello@trailbook.dev>"}, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	capture := &captureTransport{}
	m.transport = capture

	user := &model.User{Name: "Laura Wilson", Email: "laura@example.com"}
	if err := m.SendWelcome(context.Background(), user, "http://localhost:3000/me"); err != nil {
		t.Fatalf("SendWelcome() error = %v", err)
	}

	if capture.to != "laura@example.com" {
		t.Errorf("to = %q", capture.to)
	}

	body := string(capture.msg)
	for _, want := range []string{
		"MIME-Version: 1.0",
		"multipart/alternative",
		"text/plain; charset=utf-8",
		"text/html; charset=utf-8",
		"Laura",
		"http://localhost:3000/me",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("message missing %q", want)
		}
	}
	if strings.Contains(body, "Wilson,") {
		t.Errorf("greeting must use the first name only")
	}
}

func TestSendBookingConfirmationNamesTour(t *testing.T) {
	m, err := New(Config{AppEnv: "development", From: "Trailbook <hello@trailbook.dev>"}, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	capture := &captureTransport{}
	m.transport = capture

	user := &model.User{Name: "Max Smith", Email: "max@example.com"}
	if err := m.SendBookingConfirmation(context.Background(), user, "The Forest Hiker"); err != nil {
		t.Fatalf("SendBookingConfirmation() error = %v", err)
	}
	if !strings.Contains(string(capture.msg), "The Forest Hiker") {
		t.Errorf("confirmation must name the booked tour")
	}
}

func TestFirstName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Laura Wilson", "Laura"},
		{"Laura", "Laura"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := firstName(tt.input); got != tt.want {
			t.Errorf("firstName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
