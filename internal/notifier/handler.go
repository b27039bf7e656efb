// Package notifier consumes booking events and sends confirmation emails.
package notifier

import (
	"context"
	"errors"
	"net/http"

	"trailbook/internal/bookings/events"
	tours "trailbook/internal/tours/repository"
	users "trailbook/internal/users/repository"
	"trailbook/pkg/email"
	apperrors "trailbook/pkg/errors"
	"trailbook/pkg/kafka"
	"trailbook/pkg/logger"
)

type Handler struct {
	users  users.UserRepository
	tours  tours.TourRepository
	mailer *email.Mailer
	log    *logger.Logger
}

func NewHandler(users users.UserRepository, tours tours.TourRepository, mailer *email.Mailer, log *logger.Logger) *Handler {
	return &Handler{
		users:  users,
		tours:  tours,
		mailer: mailer,
		log:    log,
	}
}

// Handle resolves the booking's user and tour and emails a confirmation.
// A missing document is permanent and goes to the DLQ without retries;
// database and SMTP failures are retried as transient.
func (h *Handler) Handle(ctx context.Context, msg kafka.Message) error {
	if msg.GetEventType() != events.EventTypeBookingCreated {
		return kafka.NewPermanentError("unexpected event type "+msg.GetEventType(), nil)
	}

	var event events.BookingCreated
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("failed to decode booking event", err)
	}

	user, err := h.users.FindByID(ctx, event.UserID.Hex())
	if err != nil {
		return classifyLookup("failed to load booking user", err)
	}

	tour, err := h.tours.Store().FindByID(ctx, event.TourID.Hex())
	if err != nil {
		return classifyLookup("failed to load booking tour", err)
	}

	if err := h.mailer.SendBookingConfirmation(ctx, user, tour.Name); err != nil {
		return kafka.NewTransientError("failed to send booking confirmation", err)
	}

	h.log.Info("booking confirmation sent",
		"booking_id", event.BookingID.Hex(),
		"user_id", event.UserID.Hex(),
		"tour_id", event.TourID.Hex(),
	)
	return nil
}

func classifyLookup(message string, err error) error {
	if errors.Is(err, users.ErrNotFound) {
		return kafka.NewPermanentError(message, err)
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.StatusCode == http.StatusNotFound {
		return kafka.NewPermanentError(message, err)
	}
	return kafka.NewTransientError(message, err)
}
