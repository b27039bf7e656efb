// Package events defines the booking event contract shared by the API
// producer and the notifier consumer.
package events

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	TopicBookingCreated    = "bookings.created"
	TopicBookingCreatedDLQ = "bookings.created.dlq"

	EventTypeBookingCreated = "booking.created"

	SourceAPI = "trailbook-api"
)

// BookingCreated is the payload published after a booking insert. Consumers
// resolve the referenced documents themselves.
type BookingCreated struct {
	BookingID primitive.ObjectID `json:"bookingId"`
	TourID    primitive.ObjectID `json:"tourId"`
	UserID    primitive.ObjectID `json:"userId"`
	Price     float64            `json:"price"`
}
