package errors

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"runtime/debug"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

// dupValueRe pulls the conflicting quoted value out of the driver's
// duplicate-key message, e.g. `dup key: { name: "The Forest Hiker" }`.
var dupValueRe = regexp.MustCompile(`"[^"]*"|'[^']*'`)

// Classify maps heterogeneous failure causes into an AppError. First match
// wins; unrecognized errors stay 500/non-operational.
func Classify(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var castErr *CastError
	if errors.As(err, &castErr) {
		return New(fmt.Sprintf("Invalid %s: %s.", castErr.Field, castErr.Value), http.StatusBadRequest)
	}

	if mongo.IsDuplicateKeyError(err) {
		value := dupValueRe.FindString(err.Error())
		return New(fmt.Sprintf("Duplicate field value: %s. Please use another value!", value), http.StatusBadRequest)
	}

	var fieldErrs ValidationErrors
	if errors.As(err, &fieldErrs) {
		return New(fmt.Sprintf("Invalid input data. %s", strings.Join(fieldErrs.Messages(), ". ")), http.StatusBadRequest)
	}

	var rawErrs validator.ValidationErrors
	if errors.As(err, &rawErrs) {
		messages := make([]string, 0, len(rawErrs))
		for _, fe := range rawErrs {
			messages = append(messages, fe.Error())
		}
		return New(fmt.Sprintf("Invalid input data. %s", strings.Join(messages, ". ")), http.StatusBadRequest)
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		return New("Your token has expired! Please log in again.", http.StatusUnauthorized)
	}
	if errors.Is(err, jwt.ErrTokenMalformed) ||
		errors.Is(err, jwt.ErrTokenSignatureInvalid) ||
		errors.Is(err, jwt.ErrTokenUnverifiable) ||
		errors.Is(err, jwt.ErrSignatureInvalid) {
		return New("Invalid token. Please log in again!", http.StatusUnauthorized)
	}

	return &AppError{
		StatusCode:    http.StatusInternalServerError,
		Status:        StatusError,
		Message:       err.Error(),
		IsOperational: false,
		Err:           err,
		Stack:         string(debug.Stack()),
	}
}
