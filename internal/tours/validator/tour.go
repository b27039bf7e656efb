package validator

import (
	"errors"

	apperrors "trailbook/pkg/errors"
	"trailbook/pkg/logger"
	"trailbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

// messages maps "Field.tag" to a client-facing message. Unknown combinations
// fall back to a generic message naming the field.
var messages = map[string]string{
	"Name.required":         "A tour must have a name",
	"Name.min":              "A tour name must have more or equal then 10 characters",
	"Name.max":              "A tour name must have less or equal then 40 characters",
	"Duration.required":     "A tour must have a duration",
	"MaxGroupSize.required": "A tour must have a group size",
	"Difficulty.required":   "A tour must have a difficulty",
	"Difficulty.oneof":      "Difficulty is either: easy, medium, difficult",
	"RatingsAverage.min":    "Rating must be above 1.0",
	"RatingsAverage.max":    "Rating must be below 5.0",
	"Price.required":        "A tour must have a price",
	"PriceDiscount.ltfield": "Discount price should be below regular price",
	"Summary.required":      "A tour must have a summary",
	"Coordinates.required":  "A location must have coordinates",
	"Coordinates.len":       "Coordinates must be a [longitude, latitude] pair",
}

type TourValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewTourValidator(log *logger.Logger) *TourValidator {
	return &TourValidator{
		validate: validator.New(),
		log:      log,
	}
}

func (v *TourValidator) Validate(tour *model.Tour) error {
	err := v.validate.Struct(tour)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	return translate(fieldErrors)
}

func translate(fieldErrors validator.ValidationErrors) apperrors.ValidationErrors {
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
