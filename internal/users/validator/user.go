package validator

import (
	"errors"

	apperrors "trailbook/pkg/errors"
	"trailbook/pkg/logger"

	"github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"Name.required":             "Please tell us your name!",
	"Email.required":            "Please provide your email",
	"Email.email":               "Please provide a valid email",
	"Role.oneof":                "Role is either: user, guide, lead-guide, admin",
	"Password.required":         "Please provide a password",
	"Password.min":              "A password must have more or equal then 8 characters",
	"PasswordConfirm.required":  "Please confirm your password",
	"PasswordConfirm.eqfield":   "Passwords are not the same!",
	"PasswordCurrent.required":  "Please provide your current password",
}

// UserValidator validates both stored users and the auth request bodies
// (credentials, login, password change/reset).
type UserValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewUserValidator(log *logger.Logger) *UserValidator {
	return &UserValidator{
		validate: validator.New(),
		log:      log,
	}
}

func (v *UserValidator) Validate(doc any) error {
	err := v.validate.Struct(doc)
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
