package model

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is a GeoJSON point. Coordinates are [longitude, latitude].
type Location struct {
	Type        string    `json:"type" bson:"type" validate:"omitempty,oneof=Point"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates" validate:"required,len=2"`
	Address     string    `json:"address,omitempty" bson:"address,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Day         int       `json:"day,omitempty" bson:"day,omitempty"`
}

type Tour struct {
	ID              primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name            string               `json:"name" bson:"name" validate:"required,min=10,max=40"`
	Slug            string               `json:"slug,omitempty" bson:"slug,omitempty"`
	Difficulty      string               `json:"difficulty" bson:"difficulty" validate:"required,oneof=easy medium difficult"`
	Duration        float64              `json:"duration" bson:"duration" validate:"required,gt=0"`
	MaxGroupSize    int                  `json:"maxGroupSize" bson:"maxGroupSize" validate:"required,gt=0"`
	RatingsAverage  float64              `json:"ratingsAverage" bson:"ratingsAverage" validate:"omitempty,min=1,max=5"`
	RatingsQuantity int                  `json:"ratingsQuantity" bson:"ratingsQuantity"`
	Price           float64              `json:"price" bson:"price" validate:"required,gt=0"`
	PriceDiscount   float64              `json:"priceDiscount,omitempty" bson:"priceDiscount,omitempty" validate:"omitempty,gt=0,ltfield=Price"`
	Summary         string               `json:"summary" bson:"summary" validate:"required"`
	Description     string               `json:"description,omitempty" bson:"description,omitempty"`
	ImageCover      string               `json:"imageCover,omitempty" bson:"imageCover,omitempty"`
	Images          []string             `json:"images,omitempty" bson:"images,omitempty"`
	CreatedAt       time.Time            `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	StartDates      []time.Time          `json:"startDates,omitempty" bson:"startDates,omitempty"`
	SecretTour      bool                 `json:"secretTour,omitempty" bson:"secretTour,omitempty"`
	StartLocation   *Location            `json:"startLocation,omitempty" bson:"startLocation,omitempty" validate:"omitempty"`
	Locations       []Location           `json:"locations,omitempty" bson:"locations,omitempty" validate:"omitempty,dive"`
	GuideIDs        []primitive.ObjectID `json:"guideIds,omitempty" bson:"guides,omitempty"`

	// Populated at read time via $lookup; never stored.
	Guides  []User   `json:"guides,omitempty" bson:"guideDocs,omitempty"`
	Reviews []Review `json:"reviews,omitempty" bson:"reviewDocs,omitempty"`
}

func (t *Tour) SetID(id primitive.ObjectID) {
	t.ID = id
}

// Touch stamps the creation time on first persistence.
func (t *Tour) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
}

// MarshalJSON adds the derived durationWeeks field.
func (t Tour) MarshalJSON() ([]byte, error) {
	type alias Tour
	return json.Marshal(struct {
		alias
		DurationWeeks float64 `json:"durationWeeks,omitempty"`
	}{
		alias:         alias(t),
		DurationWeeks: t.Duration / 7,
	})
}
