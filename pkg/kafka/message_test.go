package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBuilder(t *testing.T) {
	type payload struct {
		BookingID string  `json:"bookingId"`
		Price     float64 `json:"price"`
	}

	msg := NewMessage().
		WithKey("64c8e9f2a1b2c3d4e5f60718").
		WithEventType("booking.created").
		WithSource("trailbook-api").
		WithValue(payload{BookingID: "64c8e9f2a1b2c3d4e5f60718", Price: 497}).
		Build()

	assert.Equal(t, "64c8e9f2a1b2c3d4e5f60718", msg.Key)
	assert.Equal(t, "booking.created", msg.GetEventType())
	assert.NotEmpty(t, msg.GetEventID(), "builder must stamp an event id")

	stamp, ok := msg.GetHeader(HeaderTimestamp)
	require.True(t, ok, "builder must stamp a timestamp header")
	_, err := time.Parse(time.RFC3339, stamp)
	assert.NoError(t, err)

	var decoded payload
	require.NoError(t, msg.DecodeValue(&decoded))
	assert.Equal(t, float64(497), decoded.Price)
}

func TestMessageBuilderKeepsExplicitEventID(t *testing.T) {
	msg := NewMessage().
		WithKey("k").
		WithHeader(HeaderEventID, "fixed-id").
		WithValue("v").
		Build()

	assert.Equal(t, "fixed-id", msg.GetEventID())
}

func TestRetryCount(t *testing.T) {
	msg := NewMessage().WithKey("k").WithValue("v").Build()
	assert.Equal(t, 0, msg.GetRetryCount())

	msg.IncrementRetryCount()
	msg.IncrementRetryCount()
	assert.Equal(t, 2, msg.GetRetryCount())

	msg.Headers[HeaderRetryCount] = "garbage"
	assert.Equal(t, 0, msg.GetRetryCount())
}
