package errors

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
)

const (
	// StatusFail marks client-caused failures (4xx).
	StatusFail = "fail"
	// StatusError marks server-side failures (5xx).
	StatusError = "error"
)

// AppError is the normalized error carried to the response layer. Errors
// created through New are operational: anticipated, classified and safe to
// describe to the caller. Everything else stays non-operational and is never
// detailed to clients in guarded mode.
type AppError struct {
	StatusCode    int    `json:"statusCode"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	IsOperational bool   `json:"isOperational"`
	Err           error  `json:"-"`
	Stack         string `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (caused by: %v)", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(message string, statusCode int) *AppError {
	return &AppError{
		StatusCode:    statusCode,
		Status:        statusFor(statusCode),
		Message:       message,
		IsOperational: true,
		Stack:         string(debug.Stack()),
	}
}

func statusFor(code int) string {
	if code >= 400 && code < 500 {
		return StatusFail
	}
	return StatusError
}

func NotFound(resource string) *AppError {
	return New(fmt.Sprintf("No %s found with that ID", resource), http.StatusNotFound)
}

func NotFoundRoute(path string) *AppError {
	return New(fmt.Sprintf("Can not find %s on this server!", path), http.StatusNotFound)
}

func BadRequest(message string) *AppError {
	return New(message, http.StatusBadRequest)
}

func Unauthorized(message string) *AppError {
	return New(message, http.StatusUnauthorized)
}

func Forbidden(message string) *AppError {
	return New(message, http.StatusForbidden)
}

// CastError reports an identifier that could not be parsed into an ObjectID.
// Repositories return it so the classifier can name the offending field and value.
type CastError struct {
	Field string
	Value string
}

func (e *CastError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Value)
}

// ValidationError is a single translated field-level failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(v.Messages(), "; "))
}

func (v ValidationErrors) Messages() []string {
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return messages
}
