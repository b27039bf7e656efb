package handler

import (
	"context"
	"net/http"

	"trailbook/internal/reviews/repository"
	"trailbook/internal/reviews/service"
	"trailbook/pkg/auth"
	"trailbook/pkg/crud"
	apperrors "trailbook/pkg/errors"
	httputil "trailbook/pkg/http"
	"trailbook/pkg/logger"
	"trailbook/pkg/model"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewHandler struct {
	crud    *crud.Handlers[model.Review]
	service service.ReviewService
	guard   *auth.Guard
	catcher *httputil.Catcher
	log     *logger.Logger
}

func NewReviewHandler(
	repo repository.ReviewRepository,
	svc service.ReviewService,
	guard *auth.Guard,
	catcher *httputil.Catcher,
	log *logger.Logger,
) *ReviewHandler {
	recalc := func(ctx context.Context, doc *model.Review) {
		svc.RecalcTourRatings(ctx, doc.TourID)
	}

	handlers := crud.NewHandlers(repo.Store(), crud.Options[model.Review]{
		Populate: []crud.Lookup{
			{From: "users", LocalField: "user", ForeignField: "_id", As: "authorDoc"},
		},
		Nested:      nestedScope,
		Prepare:     presetRefs,
		Normalize:   svc.Normalize,
		Validate:    svc.Validate,
		AfterCreate: recalc,
		AfterUpdate: recalc,
	}, log)

	return &ReviewHandler{
		crud:    handlers,
		service: svc,
		guard:   guard,
		catcher: catcher,
		log:     log,
	}
}

func (h *ReviewHandler) RegisterRoutes(router *httprouter.Router) {
	c := h.catcher
	protect := h.guard.Protect
	reviewers := h.guard.RestrictTo(model.RoleUser)
	owners := h.guard.RestrictTo(model.RoleUser, model.RoleAdmin)

	router.GET("/api/v1/reviews", c.Handle(h.crud.GetAll, protect))
	router.POST("/api/v1/reviews", c.Handle(h.crud.CreateOne, protect, reviewers))
	router.GET("/api/v1/reviews/id/:id", c.Handle(h.crud.GetOne, protect))
	router.PATCH("/api/v1/reviews/id/:id", c.Handle(h.crud.UpdateOne, protect, owners))
	router.DELETE("/api/v1/reviews/id/:id", c.Handle(h.deleteReview, protect, owners))

	// Nested under a tour; :id is the tour here.
	router.GET("/api/v1/tours/id/:id/reviews", c.Handle(h.crud.GetAll, protect))
	router.POST("/api/v1/tours/id/:id/reviews", c.Handle(h.crud.CreateOne, protect, reviewers))
}

// deleteReview loads the review before removal so the tour's ratings can be
// recalculated afterwards; the stock delete handler only knows the id.
func (h *ReviewHandler) deleteReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	id := ps.ByName("id")

	review, err := h.crud.Store().FindByID(r.Context(), id)
	if err != nil {
		return err
	}
	if err := h.crud.Store().DeleteByID(r.Context(), id); err != nil {
		return err
	}

	h.log.Info("document deleted", "resource", "review", "id", id)
	h.service.RecalcTourRatings(r.Context(), review.TourID)

	httputil.WriteNoContent(w)
	return nil
}

// nestedScope restricts list queries to the tour named in the route.
func nestedScope(ps httprouter.Params) (bson.M, error) {
	raw := ps.ByName("id")
	if raw == "" {
		return nil, nil
	}
	tourID, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, &apperrors.CastError{Field: "tour", Value: raw}
	}
	return bson.M{"tour": tourID}, nil
}

// presetRefs fills the tour reference from the nested route and the author
// from the authenticated user when the body leaves them out.
func presetRefs(r *http.Request, ps httprouter.Params, doc *model.Review) error {
	if doc.TourID.IsZero() {
		if raw := ps.ByName("id"); raw != "" {
			tourID, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				return &apperrors.CastError{Field: "tour", Value: raw}
			}
			doc.TourID = tourID
		}
	}
	if doc.UserID.IsZero() {
		if user := auth.CurrentUser(r.Context()); user != nil {
			doc.UserID = user.ID
		}
	}
	return nil
}
