package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Booking struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	TourID    primitive.ObjectID `json:"tourId" bson:"tour" validate:"required"`
	UserID    primitive.ObjectID `json:"userId" bson:"user" validate:"required"`
	Price     float64            `json:"price" bson:"price" validate:"required,gt=0"`
	Paid      *bool              `json:"paid" bson:"paid"`
	CreatedAt time.Time          `json:"createdAt,omitempty" bson:"createdAt,omitempty"`

	// Populated at read time; never stored.
	Tour *Tour `json:"tour,omitempty" bson:"tourDoc,omitempty"`
	User *User `json:"user,omitempty" bson:"userDoc,omitempty"`
}

func (b *Booking) SetID(id primitive.ObjectID) {
	b.ID = id
}

func (b *Booking) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
}
