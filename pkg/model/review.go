package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review references its tour and author. One review per user per tour is
// enforced by a unique compound index on (tour, user).
type Review struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Review    string             `json:"review" bson:"review" validate:"required"`
	Rating    float64            `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	TourID    primitive.ObjectID `json:"tourId" bson:"tour" validate:"required"`
	UserID    primitive.ObjectID `json:"userId" bson:"user" validate:"required"`
	CreatedAt time.Time          `json:"createdAt,omitempty" bson:"createdAt,omitempty"`

	// Populated at read time; never stored.
	Author *User `json:"user,omitempty" bson:"authorDoc,omitempty"`
}

func (r *Review) SetID(id primitive.ObjectID) {
	r.ID = id
}

func (r *Review) Touch(now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
}
