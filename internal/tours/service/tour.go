package service

import (
	"context"
	"math"

	"trailbook/internal/tours/repository"
	"trailbook/internal/tours/validator"
	"trailbook/pkg/logger"
	"trailbook/pkg/model"
	"trailbook/pkg/sanitizer"

	"github.com/gosimple/slug"
)

// Unit conversion constants. Radii are the earth's radius in the target unit,
// used to convert a distance into radians for $centerSphere; multipliers
// convert $geoNear's meters into the requested unit.
const (
	earthRadiusMiles = 3958.8
	earthRadiusKm    = 6371.0

	metersToMiles = 0.000621371
	metersToKm    = 0.001

	defaultRatingsAverage = 4.5
)

type TourService interface {
	Normalize(tour *model.Tour)
	Validate(tour *model.Tour) error
	Stats(ctx context.Context) ([]model.TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]model.MonthlyPlanEntry, error)
	ToursWithin(ctx context.Context, distance, lat, lng float64, unit string) ([]model.Tour, error)
	Distances(ctx context.Context, lat, lng float64, unit string) ([]model.TourDistance, error)
}

type tourService struct {
	repo      repository.TourRepository
	validator *validator.TourValidator
	log       *logger.Logger
}

func NewTourService(repo repository.TourRepository, validator *validator.TourValidator, log *logger.Logger) TourService {
	return &tourService{
		repo:      repo,
		validator: validator,
		log:       log,
	}
}

// Normalize applies the derived fields: trimmed name, URL slug, the 4.5
// rating default for fresh documents and one-decimal rating rounding.
func (s *tourService) Normalize(tour *model.Tour) {
	tour.Name = sanitizer.String(tour.Name)
	if tour.Name != "" {
		tour.Slug = slug.Make(tour.Name)
	}

	if tour.RatingsAverage == 0 {
		tour.RatingsAverage = defaultRatingsAverage
	} else {
		tour.RatingsAverage = math.Round(tour.RatingsAverage*10) / 10
	}
}

func (s *tourService) Validate(tour *model.Tour) error {
	return s.validator.Validate(tour)
}

func (s *tourService) Stats(ctx context.Context) ([]model.TourStats, error) {
	return s.repo.Stats(ctx)
}

func (s *tourService) MonthlyPlan(ctx context.Context, year int) ([]model.MonthlyPlanEntry, error) {
	return s.repo.MonthlyPlan(ctx, year)
}

func (s *tourService) ToursWithin(ctx context.Context, distance, lat, lng float64, unit string) ([]model.Tour, error) {
	radius := distance / earthRadiusKm
	if unit == "mi" {
		radius = distance / earthRadiusMiles
	}
	return s.repo.Within(ctx, lat, lng, radius)
}

func (s *tourService) Distances(ctx context.Context, lat, lng float64, unit string) ([]model.TourDistance, error) {
	multiplier := metersToKm
	if unit == "mi" {
		multiplier = metersToMiles
	}
	return s.repo.Distances(ctx, lat, lng, multiplier)
}
