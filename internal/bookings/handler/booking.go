package handler

import (
	"context"
	"fmt"
	"net/http"

	"trailbook/internal/bookings/repository"
	"trailbook/internal/bookings/service"
	tours "trailbook/internal/tours/repository"
	"trailbook/pkg/auth"
	"trailbook/pkg/crud"
	httputil "trailbook/pkg/http"
	"trailbook/pkg/logger"
	"trailbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	crud    *crud.Handlers[model.Booking]
	service service.BookingService
	tours   tours.TourRepository
	guard   *auth.Guard
	catcher *httputil.Catcher
	log     *logger.Logger
}

func NewBookingHandler(
	repo repository.BookingRepository,
	svc service.BookingService,
	tourRepo tours.TourRepository,
	guard *auth.Guard,
	catcher *httputil.Catcher,
	log *logger.Logger,
) *BookingHandler {
	handlers := crud.NewHandlers(repo.Store(), crud.Options[model.Booking]{
		Populate: []crud.Lookup{
			{From: "tours", LocalField: "tour", ForeignField: "_id", As: "tourDoc"},
			{From: "users", LocalField: "user", ForeignField: "_id", As: "userDoc"},
		},
		Normalize: svc.Normalize,
		Validate:  svc.Validate,
		AfterCreate: func(ctx context.Context, doc *model.Booking) {
			svc.PublishCreated(ctx, doc)
		},
	}, log)

	return &BookingHandler{
		crud:    handlers,
		service: svc,
		tours:   tourRepo,
		guard:   guard,
		catcher: catcher,
		log:     log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	c := h.catcher
	protect := h.guard.Protect
	managers := h.guard.RestrictTo(model.RoleAdmin, model.RoleLeadGuide)

	router.GET("/api/v1/bookings/checkout-session/:tourId", c.Handle(h.checkoutSession, protect))

	router.GET("/api/v1/bookings", c.Handle(h.crud.GetAll, protect, managers))
	router.POST("/api/v1/bookings", c.Handle(h.crud.CreateOne, protect, managers))
	router.GET("/api/v1/bookings/id/:id", c.Handle(h.crud.GetOne, protect, managers))
	router.PATCH("/api/v1/bookings/id/:id", c.Handle(h.crud.UpdateOne, protect, managers))
	router.DELETE("/api/v1/bookings/id/:id", c.Handle(h.crud.DeleteOne, protect, managers))
}

func (h *BookingHandler) checkoutSession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	tour, err := h.tours.Store().FindByID(r.Context(), ps.ByName("tourId"))
	if err != nil {
		return err
	}
	user := auth.CurrentUser(r.Context())

	base := fmt.Sprintf("%s://%s", scheme(r), r.Host)
	urls := service.CheckoutURLs{
		Success: fmt.Sprintf("%s/my-tours?alert=booking", base),
		Cancel:  fmt.Sprintf("%s/tour/%s", base, tour.Slug),
		Image:   fmt.Sprintf("%s/img/tours/%s", base, tour.ImageCover),
	}

	sess, err := h.service.CheckoutSession(r.Context(), user, tour, urls)
	if err != nil {
		return err
	}
	return httputil.WriteSuccess(w, sess)
}

func scheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
