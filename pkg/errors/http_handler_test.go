package errors

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trailbook/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:  logger.LevelError,
		Format: logger.FormatText,
		Output: io.Discard,
	})
}

func TestWriteErrorGuardedOperational(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/tours/id/abc", nil)

	WriteError(w, r, testLogger(), ModeGuarded, NotFound("tour"))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body["status"] != "fail" {
		t.Errorf("status field = %v, want fail", body["status"])
	}
	if _, leaked := body["stack"]; leaked {
		t.Errorf("guarded responses must not carry a stack")
	}
}

func TestWriteErrorGuardedNonOperational(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)

	WriteError(w, r, testLogger(), ModeGuarded, errors.New("dial tcp: connection refused"))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body["message"] != "Something went very wrong!" {
		t.Errorf("message = %v, internal detail must never leak in guarded mode", body["message"])
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Errorf("guarded response leaked the underlying error: %s", w.Body.String())
	}
}

func TestWriteErrorVerbose(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)

	WriteError(w, r, testLogger(), ModeVerbose, errors.New("dial tcp: connection refused"))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(w.Body.String(), "connection refused") {
		t.Errorf("verbose response must include the underlying error: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "stack") {
		t.Errorf("verbose response must include the stack")
	}
}
