package service

import (
	"context"
	"math"

	"trailbook/internal/reviews/repository"
	"trailbook/internal/reviews/validator"
	tours "trailbook/internal/tours/repository"
	dbmongo "trailbook/pkg/db/mongo"
	"trailbook/pkg/logger"
	"trailbook/pkg/model"
	"trailbook/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Defaults restored when a tour loses its last review.
const (
	defaultRatingsAverage  = 4.5
	defaultRatingsQuantity = 0
)

type ReviewService interface {
	Normalize(review *model.Review)
	Validate(review *model.Review) error

	// RecalcTourRatings recomputes ratingsAverage and ratingsQuantity on the
	// tour from its current reviews. Failures are logged, not returned; a
	// stale aggregate must not undo the review write that triggered it.
	RecalcTourRatings(ctx context.Context, tourID primitive.ObjectID)
}

type reviewService struct {
	repo      repository.ReviewRepository
	tours     tours.TourRepository
	txn       dbmongo.TransactionManager
	validator *validator.ReviewValidator
	log       *logger.Logger
}

func NewReviewService(
	repo repository.ReviewRepository,
	tours tours.TourRepository,
	txn dbmongo.TransactionManager,
	validator *validator.ReviewValidator,
	log *logger.Logger,
) ReviewService {
	return &reviewService{
		repo:      repo,
		tours:     tours,
		txn:       txn,
		validator: validator,
		log:       log,
	}
}

func (s *reviewService) Normalize(review *model.Review) {
	review.Review = sanitizer.String(review.Review)
	review.Rating = math.Round(review.Rating*10) / 10
}

func (s *reviewService) Validate(review *model.Review) error {
	return s.validator.Validate(review)
}

func (s *reviewService) RecalcTourRatings(ctx context.Context, tourID primitive.ObjectID) {
	err := s.txn.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		stats, err := s.repo.RatingStats(sessCtx, tourID)
		if err != nil {
			return err
		}

		update := bson.M{"$set": bson.M{
			"ratingsAverage":  defaultRatingsAverage,
			"ratingsQuantity": defaultRatingsQuantity,
		}}
		if stats != nil {
			update = bson.M{"$set": bson.M{
				"ratingsAverage":  math.Round(stats.AvgRating*10) / 10,
				"ratingsQuantity": stats.NRating,
			}}
		}

		return s.tours.Store().UpdateByID(sessCtx, tourID.Hex(), update)
	})
	if err != nil {
		s.log.Error("failed to recalculate tour ratings", "tour_id", tourID.Hex(), "error", err)
		return
	}

	s.log.Info("tour ratings recalculated", "tour_id", tourID.Hex())
}
