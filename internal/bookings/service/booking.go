package service

import (
	"context"
	"fmt"
	"math"

	"trailbook/internal/bookings/events"
	"trailbook/internal/bookings/repository"
	"trailbook/internal/bookings/validator"
	tours "trailbook/internal/tours/repository"
	"trailbook/pkg/kafka"
	"trailbook/pkg/logger"
	"trailbook/pkg/model"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// Publisher is the producer slice the service needs; satisfied by
// kafka.Producer and by test fakes.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type CheckoutURLs struct {
	Success string
	Cancel  string
	Image   string
}

type BookingService interface {
	Normalize(booking *model.Booking)
	Validate(booking *model.Booking) error
	CheckoutSession(ctx context.Context, user *model.User, tour *model.Tour, urls CheckoutURLs) (*stripe.CheckoutSession, error)

	// PublishCreated emits the booking event. Failures are logged; the
	// booking itself is already committed.
	PublishCreated(ctx context.Context, booking *model.Booking)
}

type bookingService struct {
	repo      repository.BookingRepository
	tours     tours.TourRepository
	producer  Publisher
	validator *validator.BookingValidator
	log       *logger.Logger
}

func NewBookingService(
	repo repository.BookingRepository,
	tours tours.TourRepository,
	producer Publisher,
	validator *validator.BookingValidator,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		repo:      repo,
		tours:     tours,
		producer:  producer,
		validator: validator,
		log:       log,
	}
}

func (s *bookingService) Normalize(booking *model.Booking) {
	if booking.Paid == nil {
		paid := true
		booking.Paid = &paid
	}
}

func (s *bookingService) Validate(booking *model.Booking) error {
	return s.validator.Validate(booking)
}

// CheckoutSession creates a Stripe checkout session for the tour, priced in
// cents with the tour id as client reference for later reconciliation.
func (s *bookingService) CheckoutSession(ctx context.Context, user *model.User, tour *model.Tour, urls CheckoutURLs) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(urls.Success),
		CancelURL:          stripe.String(urls.Cancel),
		CustomerEmail:      stripe.String(user.Email),
		ClientReferenceID:  stripe.String(tour.ID.Hex()),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(amountInCents(tour.Price)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(fmt.Sprintf("%s Tour", tour.Name)),
					Description: stripe.String(tour.Summary),
					Images:      stripe.StringSlice([]string{urls.Image}),
				},
			},
		}},
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.log.Info("checkout session created", "tour_id", tour.ID.Hex(), "user_id", user.ID.Hex())
	return sess, nil
}

// amountInCents rounds instead of truncating so fractional prices keep the
// exact cent value.
func amountInCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

func (s *bookingService) PublishCreated(ctx context.Context, booking *model.Booking) {
	if s.producer == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(booking.ID.Hex()).
		WithEventType(events.EventTypeBookingCreated).
		WithSource(events.SourceAPI).
		WithValue(events.BookingCreated{
			BookingID: booking.ID,
			TourID:    booking.TourID,
			UserID:    booking.UserID,
			Price:     booking.Price,
		}).
		Build()

	if err := s.producer.Publish(ctx, msg); err != nil {
		s.log.Error("failed to publish booking event", "booking_id", booking.ID.Hex(), "error", err)
		return
	}

	s.log.Info("booking event published", "booking_id", booking.ID.Hex())
}
