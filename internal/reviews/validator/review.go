package validator

import (
	"errors"

	apperrors "trailbook/pkg/errors"
	"trailbook/pkg/logger"
	"trailbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"Review.required": "Review can not be empty!",
	"Rating.required": "A review must have a rating",
	"Rating.min":      "Rating must be above 1.0",
	"Rating.max":      "Rating must be below 5.0",
	"TourID.required": "Review must belong to a tour.",
	"UserID.required": "Review must belong to a user",
}

type ReviewValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewReviewValidator(log *logger.Logger) *ReviewValidator {
	return &ReviewValidator{
		validate: validator.New(),
		log:      log,
	}
}

func (v *ReviewValidator) Validate(review *model.Review) error {
	err := v.validate.Struct(review)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	translated := make(apperrors.ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		message, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			message = "Invalid value for " + fe.Field()
		}
		translated = append(translated, apperrors.ValidationError{
			Field:   fe.Field(),
			Message: message,
		})
	}
	return translated
}
