package validator

import (
	"errors"
	"io"
	"testing"

	apperrors "trailbook/pkg/errors"
	"trailbook/pkg/logger"
	"trailbook/pkg/model"
)

func testValidator() *TourValidator {
	return NewTourValidator(logger.New(logger.Config{
		Level:  logger.LevelError,
		Format: logger.FormatText,
		Output: io.Discard,
	}))
}

func validTour() model.Tour {
	return model.Tour{
		Name:         "The Forest Hiker",
		Difficulty:   "easy",
		Duration:     5,
		MaxGroupSize: 25,
		Price:        397,
		Summary:      "Breathtaking hike through the Canadian Banff National Park",
	}
}

func fieldMessages(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs apperrors.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error = %v, want ValidationErrors", err)
	}
	byField := make(map[string]string, len(verrs))
	for _, ve := range verrs {
		byField[ve.Field] = ve.Message
	}
	return byField
}

func TestValidateAcceptsCompleteTour(t *testing.T) {
	tour := validTour()
	if err := testValidator().Validate(&tour); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidateMissingFields(t *testing.T) {
	tour := model.Tour{}
	err := testValidator().Validate(&tour)
	if err == nil {
		t.Fatal("Validate() accepted an empty tour")
	}

	got := fieldMessages(t, err)
	wants := map[string]string{
		"Name":       "A tour must have a name",
		"Difficulty": "A tour must have a difficulty",
		"Duration":   "A tour must have a duration",
		"Price":      "A tour must have a price",
		"Summary":    "A tour must have a summary",
	}
	for field, want := range wants {
		if got[field] != want {
			t.Errorf("message for %s = %q, want %q", field, got[field], want)
		}
	}
}

func TestValidateBounds(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.Tour)
		field   string
		message string
	}{
		{
			name:    "short name",
			mutate:  func(tr *model.Tour) { tr.Name = "Too short" },
			field:   "Name",
			message: "A tour name must have more or equal then 10 characters",
		},
		{
			name:    "unknown difficulty",
			mutate:  func(tr *model.Tour) { tr.Difficulty = "impossible" },
			field:   "Difficulty",
			message: "Difficulty is either: easy, medium, difficult",
		},
		{
			name:    "rating too low",
			mutate:  func(tr *model.Tour) { tr.RatingsAverage = 0.5 },
			field:   "RatingsAverage",
			message: "Rating must be above 1.0",
		},
		{
			name:    "rating too high",
			mutate:  func(tr *model.Tour) { tr.RatingsAverage = 5.5 },
			field:   "RatingsAverage",
			message: "Rating must be below 5.0",
		},
		{
			name:    "discount above price",
			mutate:  func(tr *model.Tour) { tr.PriceDiscount = 500 },
			field:   "PriceDiscount",
			message: "Discount price should be below regular price",
		},
	}

	v := testValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tour := validTour()
			tt.mutate(&tour)

			err := v.Validate(&tour)
			if err == nil {
				t.Fatal("Validate() accepted an invalid tour")
			}
			got := fieldMessages(t, err)
			if got[tt.field] != tt.message {
				t.Errorf("message for %s = %q, want %q", tt.field, got[tt.field], tt.message)
			}
		})
	}
}
