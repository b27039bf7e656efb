package validator

import (
	"errors"
	"io"
	"testing"

	apperrors "trailbook/pkg/errors"
	"trailbook/pkg/logger"
	"trailbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testValidator() *ReviewValidator {
	return NewReviewValidator(logger.New(logger.Config{
		Level:  logger.LevelError,
		Format: logger.FormatText,
		Output: io.Discard,
	}))
}

func validReview() model.Review {
	return model.Review{
		Review: "Loved every minute of it",
		Rating: 5,
		TourID: primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
	}
}

func TestValidateAcceptsCompleteReview(t *testing.T) {
	review := validReview()
	if err := testValidator().Validate(&review); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.Review)
		message string
	}{
		{
			name:    "empty text",
			mutate:  func(r *model.Review) { r.Review = "" },
			message: "Review can not be empty!",
		},
		{
			name:    "rating too high",
			mutate:  func(r *model.Review) { r.Rating = 6 },
			message: "Rating must be below 5.0",
		},
		{
			name:    "missing tour reference",
			mutate:  func(r *model.Review) { r.TourID = primitive.NilObjectID },
			message: "Review must belong to a tour.",
		},
		{
			name:    "missing author reference",
			mutate:  func(r *model.Review) { r.UserID = primitive.NilObjectID },
			message: "Review must belong to a user",
		},
	}

	v := testValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review := validReview()
			tt.mutate(&review)

			err := v.Validate(&review)
			var verrs apperrors.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("error = %v, want ValidationErrors", err)
			}

			found := false
			for _, ve := range verrs {
				if ve.Message == tt.message {
					found = true
				}
			}
			if !found {
				t.Errorf("missing message %q, got %v", tt.message, verrs)
			}
		})
	}
}
