package kafka

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{
			name: "nil error",
			err:  nil,
			want: ErrorTypeUnknown,
		},
		{
			name: "explicit transient",
			err:  NewTransientError("smtp down", errors.New("dial failed")),
			want: ErrorTypeTransient,
		},
		{
			name: "explicit permanent",
			err:  NewPermanentError("bad payload", nil),
			want: ErrorTypePermanent,
		},
		{
			name: "wrapped classified error",
			err:  fmt.Errorf("handler: %w", NewTransientError("db", nil)),
			want: ErrorTypeTransient,
		},
		{
			name: "connection refused pattern",
			err:  errors.New("dial tcp 127.0.0.1:9092: connection refused"),
			want: ErrorTypeTransient,
		},
		{
			name: "deadline pattern",
			err:  errors.New("context deadline exceeded"),
			want: ErrorTypeTransient,
		},
		{
			name: "unclassifiable defaults to permanent",
			err:  errors.New("document missing required field"),
			want: ErrorTypePermanent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := NewTransientError("broker unavailable", nil)
	permanent := NewPermanentError("decode failed", nil)

	assert.True(t, ShouldRetry(transient, 0, 3))
	assert.True(t, ShouldRetry(transient, 2, 3))
	assert.False(t, ShouldRetry(transient, 3, 3), "retries exhausted")
	assert.False(t, ShouldRetry(permanent, 0, 3), "permanent errors never retry")
	assert.False(t, ShouldRetry(nil, 0, 3))
}

func TestKafkaErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewTransientError("wrapper", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "wrapper")
	assert.Contains(t, err.Error(), "root cause")
}
