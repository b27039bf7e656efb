package repository

import (
	"time"

	"trailbook/pkg/crud"
	"trailbook/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "bookings"

type BookingRepository interface {
	Store() *crud.Store[model.Booking]
}

type bookingRepository struct {
	store *crud.Store[model.Booking]
}

func NewBookingRepository(db *mongo.Database, readTimeout, writeTimeout time.Duration) BookingRepository {
	store := crud.NewStore[model.Booking](db.Collection(CollectionName), "booking", crud.StoreConfig{
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})
	return &bookingRepository{store: store}
}

func (r *bookingRepository) Store() *crud.Store[model.Booking] {
	return r.store
}
