package validator

import (
	"errors"

	apperrors "trailbook/pkg/errors"
	"trailbook/pkg/logger"
	"trailbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"TourID.required": "Booking must belong to a Tour!",
	"UserID.required": "Booking must belong to a User!",
	"Price.required":  "Booking must have a price.",
	"Price.gt":        "Booking must have a price.",
}

type BookingValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		log:      log,
	}
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	err := v.validate.Struct(booking)
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
