package repository

import (
	"context"
	"fmt"
	"time"

	"trailbook/pkg/crud"
	"trailbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "tours"

type TourRepository interface {
	Store() *crud.Store[model.Tour]
	Stats(ctx context.Context) ([]model.TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]model.MonthlyPlanEntry, error)
	Within(ctx context.Context, lat, lng, radius float64) ([]model.Tour, error)
	Distances(ctx context.Context, lat, lng, multiplier float64) ([]model.TourDistance, error)
}

type tourRepository struct {
	store *crud.Store[model.Tour]
}

// NewTourRepository builds the tour store. The base filter hides secret tours
// from every find-path read and write; aggregations run unscoped, matching
// the read model the rest of the pipeline stages expect.
func NewTourRepository(db *mongo.Database, readTimeout, writeTimeout time.Duration) TourRepository {
	store := crud.NewStore[model.Tour](db.Collection(CollectionName), "tour", crud.StoreConfig{
		BaseFilter:   bson.M{"secretTour": bson.M{"$ne": true}},
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})
	return &tourRepository{store: store}
}

func (r *tourRepository) Store() *crud.Store[model.Tour] {
	return r.store
}

func (r *tourRepository) Stats(ctx context.Context) ([]model.TourStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ratingsAverage": bson.M{"$gte": 4.5}}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$difficulty",
			"numTours":   bson.M{"$sum": 1},
			"numRatings": bson.M{"$sum": "$ratingsQuantity"},
			"avgRating":  bson.M{"$avg": "$ratingsAverage"},
			"avgPrice":   bson.M{"$avg": "$price"},
			"minPrice":   bson.M{"$min": "$price"},
			"maxPrice":   bson.M{"$max": "$price"},
		}}},
		{{Key: "$sort", Value: bson.M{"avgRating": -1}}},
	}

	var stats []model.TourStats
	if err := r.store.Aggregate(ctx, pipeline, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *tourRepository) MonthlyPlan(ctx context.Context, year int) ([]model.MonthlyPlanEntry, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$startDates"}},
		{{Key: "$match", Value: bson.M{
			"startDates": bson.M{"$gte": from, "$lte": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$month": "$startDates"},
			"numTourStarts": bson.M{"$sum": 1},
			"tours":         bson.M{"$push": "$name"},
		}}},
		{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		{{Key: "$project", Value: bson.M{"_id": 0}}},
		{{Key: "$sort", Value: bson.M{"numTourStarts": -1}}},
	}

	var plan []model.MonthlyPlanEntry
	if err := r.store.Aggregate(ctx, pipeline, &plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Within finds tours whose start location falls inside the sphere cap of the
// given radius (in radians) around the center point.
func (r *tourRepository) Within(ctx context.Context, lat, lng, radius float64) ([]model.Tour, error) {
	criteria := bson.M{
		"startLocation": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{lng, lat}, radius},
			},
		},
	}
	return r.store.Find(ctx, criteria, options.Find())
}

// Distances computes the distance from the center point to every tour's start
// location. $geoNear must be the first pipeline stage and requires the
// 2dsphere index on startLocation.
func (r *tourRepository) Distances(ctx context.Context, lat, lng, multiplier float64) ([]model.TourDistance, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.M{
			"near": bson.M{
				"type":        "Point",
				"coordinates": bson.A{lng, lat},
			},
			"distanceField":      "distance",
			"distanceMultiplier": multiplier,
		}}},
		{{Key: "$project", Value: bson.M{
			"distance": 1,
			"name":     1,
		}}},
	}

	var distances []model.TourDistance
	if err := r.store.Aggregate(ctx, pipeline, &distances); err != nil {
		return nil, fmt.Errorf("failed to compute distances: %w", err)
	}
	return distances, nil
}
