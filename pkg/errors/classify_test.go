package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestClassifyAppErrorPassthrough(t *testing.T) {
	orig := NotFound("tour")
	got := Classify(orig)
	if got != orig {
		t.Errorf("Classify returned a new error, want the original AppError")
	}
	if !got.IsOperational {
		t.Errorf("constructed AppError must be operational")
	}
}

func TestClassifyCastError(t *testing.T) {
	err := &CastError{Field: "_id", Value: "not-an-id"}
	got := Classify(err)

	if got.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want %d", got.StatusCode, http.StatusBadRequest)
	}
	if got.Message != "Invalid _id: not-an-id." {
		t.Errorf("Message = %q", got.Message)
	}
	if !got.IsOperational {
		t.Errorf("cast errors must be operational")
	}
}

func TestClassifyValidationErrors(t *testing.T) {
	err := ValidationErrors{
		{Field: "Name", Message: "A tour must have a name"},
		{Field: "Price", Message: "A tour must have a price"},
	}
	got := Classify(err)

	if got.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want %d", got.StatusCode, http.StatusBadRequest)
	}
	want := "Invalid input data. A tour must have a name. A tour must have a price"
	if got.Message != want {
		t.Errorf("Message = %q, want %q", got.Message, want)
	}
}

func TestClassifyDuplicateKey(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		wantMsg string
	}{
		{
			name:    "double-quoted value",
			driver:  `E11000 duplicate key error collection: trailbook.tours index: name_1 dup key: { name: "The Forest Hiker" }`,
			wantMsg: `Duplicate field value: "The Forest Hiker". Please use another value!`,
		},
		{
			name:    "single-quoted value",
			driver:  `E11000 duplicate key error collection: trailbook.users index: email_1 dup key: { email: 'laura@example.com' }`,
			wantMsg: `Duplicate field value: 'laura@example.com'. Please use another value!`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mongo.WriteException{
				WriteErrors: mongo.WriteErrors{{Code: 11000, Message: tt.driver}},
			}
			got := Classify(err)

			if got.StatusCode != http.StatusBadRequest {
				t.Errorf("StatusCode = %d, want %d", got.StatusCode, http.StatusBadRequest)
			}
			if got.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMsg)
			}
			if !got.IsOperational {
				t.Errorf("duplicate keys must be operational")
			}
		})
	}
}

func TestClassifyJWTErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantMsg    string
		wantStatus int
	}{
		{
			name:       "expired token",
			err:        fmt.Errorf("token invalid: %w", jwt.ErrTokenExpired),
			wantMsg:    "Your token has expired! Please log in again.",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed token",
			err:        jwt.ErrTokenMalformed,
			wantMsg:    "Invalid token. Please log in again!",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "bad signature",
			err:        jwt.ErrTokenSignatureInvalid,
			wantMsg:    "Invalid token. Please log in again!",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", got.StatusCode, tt.wantStatus)
			}
			if got.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMsg)
			}
		})
	}
}

func TestClassifyUnknownError(t *testing.T) {
	err := errors.New("connection refused")
	got := Classify(err)

	if got.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want %d", got.StatusCode, http.StatusInternalServerError)
	}
	if got.IsOperational {
		t.Errorf("unknown errors must stay non-operational")
	}
	if got.Stack == "" {
		t.Errorf("unknown errors must carry a stack")
	}
}
