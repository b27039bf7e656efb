package repository

import (
	"context"
	"time"

	"trailbook/pkg/crud"
	"trailbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "reviews"

// RatingStats is the per-tour aggregate recomputed after every review write.
type RatingStats struct {
	NRating   int     `bson:"nRating"`
	AvgRating float64 `bson:"avgRating"`
}

type ReviewRepository interface {
	Store() *crud.Store[model.Review]
	RatingStats(ctx context.Context, tourID primitive.ObjectID) (*RatingStats, error)
}

type reviewRepository struct {
	store *crud.Store[model.Review]
}

func NewReviewRepository(db *mongo.Database, readTimeout, writeTimeout time.Duration) ReviewRepository {
	store := crud.NewStore[model.Review](db.Collection(CollectionName), "review", crud.StoreConfig{
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})
	return &reviewRepository{store: store}
}

func (r *reviewRepository) Store() *crud.Store[model.Review] {
	return r.store
}

// RatingStats returns nil when the tour has no reviews left.
func (r *reviewRepository) RatingStats(ctx context.Context, tourID primitive.ObjectID) (*RatingStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tour": tourID}}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$tour",
			"nRating":   bson.M{"$sum": 1},
			"avgRating": bson.M{"$avg": "$rating"},
		}}},
	}

	var stats []RatingStats
	if err := r.store.Aggregate(ctx, pipeline, &stats); err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return nil, nil
	}
	return &stats[0], nil
}
