package service

import (
	"context"
	"io"
	"math"
	"testing"

	"trailbook/internal/tours/validator"
	"trailbook/pkg/crud"
	"trailbook/pkg/logger"
	"trailbook/pkg/model"
)

type mockTourRepository struct {
	withinFunc    func(ctx context.Context, lat, lng, radius float64) ([]model.Tour, error)
	distancesFunc func(ctx context.Context, lat, lng, multiplier float64) ([]model.TourDistance, error)
}

func (m *mockTourRepository) Store() *crud.Store[model.Tour] {
	return nil
}

func (m *mockTourRepository) Stats(ctx context.Context) ([]model.TourStats, error) {
	return nil, nil
}

func (m *mockTourRepository) MonthlyPlan(ctx context.Context, year int) ([]model.MonthlyPlanEntry, error) {
	return nil, nil
}

func (m *mockTourRepository) Within(ctx context.Context, lat, lng, radius float64) ([]model.Tour, error) {
	if m.withinFunc != nil {
		return m.withinFunc(ctx, lat, lng, radius)
	}
	return nil, nil
}

func (m *mockTourRepository) Distances(ctx context.Context, lat, lng, multiplier float64) ([]model.TourDistance, error) {
	if m.distancesFunc != nil {
		return m.distancesFunc(ctx, lat, lng, multiplier)
	}
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:  logger.LevelError,
		Format: logger.FormatText,
		Output: io.Discard,
	})
}

func newTestService(repo *mockTourRepository) TourService {
	log := testLogger()
	return NewTourService(repo, validator.NewTourValidator(log), log)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		tour       model.Tour
		wantName   string
		wantSlug   string
		wantRating float64
	}{
		{
			name:       "slug and rating default",
			tour:       model.Tour{Name: "  The Forest   Hiker "},
			wantName:   "The Forest Hiker",
			wantSlug:   "the-forest-hiker",
			wantRating: 4.5,
		},
		{
			name:       "rating rounds to one decimal",
			tour:       model.Tour{Name: "The Sea Explorer", RatingsAverage: 4.666666},
			wantName:   "The Sea Explorer",
			wantSlug:   "the-sea-explorer",
			wantRating: 4.7,
		},
		{
			name:       "round down",
			tour:       model.Tour{Name: "The City Wanderer", RatingsAverage: 3.84},
			wantName:   "The City Wanderer",
			wantSlug:   "the-city-wanderer",
			wantRating: 3.8,
		},
	}

	svc := newTestService(&mockTourRepository{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc.Normalize(&tt.tour)
			if tt.tour.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", tt.tour.Name, tt.wantName)
			}
			if tt.tour.Slug != tt.wantSlug {
				t.Errorf("Slug = %q, want %q", tt.tour.Slug, tt.wantSlug)
			}
			if tt.tour.RatingsAverage != tt.wantRating {
				t.Errorf("RatingsAverage = %v, want %v", tt.tour.RatingsAverage, tt.wantRating)
			}
		})
	}
}

func TestToursWithinRadius(t *testing.T) {
	tests := []struct {
		name       string
		unit       string
		distance   float64
		wantRadius float64
	}{
		{
			name:       "miles use the imperial earth radius",
			unit:       "mi",
			distance:   233,
			wantRadius: 233 / 3958.8,
		},
		{
			name:       "kilometers use the metric earth radius",
			unit:       "km",
			distance:   400,
			wantRadius: 400 / 6371.0,
		},
		{
			name:       "unknown unit falls back to kilometers",
			unit:       "furlongs",
			distance:   400,
			wantRadius: 400 / 6371.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotRadius float64
			repo := &mockTourRepository{
				withinFunc: func(ctx context.Context, lat, lng, radius float64) ([]model.Tour, error) {
					gotRadius = radius
					return nil, nil
				},
			}

			svc := newTestService(repo)
			if _, err := svc.ToursWithin(context.Background(), tt.distance, 34.111745, -118.113491, tt.unit); err != nil {
				t.Fatalf("ToursWithin() error = %v", err)
			}
			if math.Abs(gotRadius-tt.wantRadius) > 1e-12 {
				t.Errorf("radius = %v, want %v", gotRadius, tt.wantRadius)
			}
		})
	}
}

func TestDistancesMultiplier(t *testing.T) {
	tests := []struct {
		name           string
		unit           string
		wantMultiplier float64
	}{
		{
			name:           "miles",
			unit:           "mi",
			wantMultiplier: 0.000621371,
		},
		{
			name:           "kilometers",
			unit:           "km",
			wantMultiplier: 0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMultiplier float64
			repo := &mockTourRepository{
				distancesFunc: func(ctx context.Context, lat, lng, multiplier float64) ([]model.TourDistance, error) {
					gotMultiplier = multiplier
					return nil, nil
				},
			}

			svc := newTestService(repo)
			if _, err := svc.Distances(context.Background(), 34.111745, -118.113491, tt.unit); err != nil {
				t.Fatalf("Distances() error = %v", err)
			}
			if gotMultiplier != tt.wantMultiplier {
				t.Errorf("multiplier = %v, want %v", gotMultiplier, tt.wantMultiplier)
			}
		})
	}
}
