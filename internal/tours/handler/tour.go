package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"trailbook/internal/tours/images"
	"trailbook/internal/tours/repository"
	"trailbook/internal/tours/service"
	"trailbook/pkg/auth"
	"trailbook/pkg/crud"
	apperrors "trailbook/pkg/errors"
	httputil "trailbook/pkg/http"
	"trailbook/pkg/logger"
	"trailbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const maxGalleryImages = 3

type TourHandler struct {
	crud    *crud.Handlers[model.Tour]
	service service.TourService
	images  *images.Processor
	guard   *auth.Guard
	catcher *httputil.Catcher
	log     *logger.Logger
}

func NewTourHandler(
	repo repository.TourRepository,
	svc service.TourService,
	processor *images.Processor,
	guard *auth.Guard,
	catcher *httputil.Catcher,
	log *logger.Logger,
) *TourHandler {
	handlers := crud.NewHandlers(repo.Store(), crud.Options[model.Tour]{
		Populate: []crud.Lookup{
			{From: "users", LocalField: "guides", ForeignField: "_id", As: "guideDocs"},
			{From: "reviews", LocalField: "_id", ForeignField: "tour", As: "reviewDocs"},
		},
		Normalize: svc.Normalize,
		Validate:  svc.Validate,
	}, log)

	return &TourHandler{
		crud:    handlers,
		service: svc,
		images:  processor,
		guard:   guard,
		catcher: catcher,
		log:     log,
	}
}

func (h *TourHandler) RegisterRoutes(router *httprouter.Router) {
	c := h.catcher
	protect := h.guard.Protect
	managers := h.guard.RestrictTo(model.RoleAdmin, model.RoleLeadGuide)

	router.GET("/api/v1/tours", c.Handle(h.crud.GetAll))
	router.POST("/api/v1/tours", c.Handle(h.crud.CreateOne, protect, managers))

	router.GET("/api/v1/tours/top-5-cheap", c.Handle(h.topTours))
	router.GET("/api/v1/tours/stats", c.Handle(h.stats))
	router.GET("/api/v1/tours/monthly-plan/:year", c.Handle(h.monthlyPlan,
		protect, h.guard.RestrictTo(model.RoleAdmin, model.RoleLeadGuide, model.RoleGuide)))

	router.GET("/api/v1/tours/tours-within/:distance/center/:latlng/unit/:unit", c.Handle(h.toursWithin))
	router.GET("/api/v1/tours/distances/:latlng/unit/:unit", c.Handle(h.distances))

	router.GET("/api/v1/tours/id/:id", c.Handle(h.crud.GetOne))
	router.PATCH("/api/v1/tours/id/:id", c.Handle(h.updateTour, protect, managers))
	router.DELETE("/api/v1/tours/id/:id", c.Handle(h.crud.DeleteOne, protect, managers))
}

// topTours presets the list query to the five best-rated cheap tours and
// reuses the stock list handler.
func (h *TourHandler) topTours(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	q := r.URL.Query()
	q.Set("limit", "5")
	q.Set("sort", "-ratingsAverage,price")
	q.Set("fields", "name,price,ratingsAverage,summary,difficulty")
	r.URL.RawQuery = q.Encode()

	return h.crud.GetAll(w, r, ps)
}

func (h *TourHandler) stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) error {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		return err
	}
	return httputil.WriteSuccess(w, stats)
}

func (h *TourHandler) monthlyPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	raw := ps.ByName("year")
	year, err := strconv.Atoi(raw)
	if err != nil {
		return &apperrors.CastError{Field: "year", Value: raw}
	}

	plan, err := h.service.MonthlyPlan(r.Context(), year)
	if err != nil {
		return err
	}
	return httputil.WriteSuccess(w, plan)
}

func (h *TourHandler) toursWithin(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	raw := ps.ByName("distance")
	distance, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return &apperrors.CastError{Field: "distance", Value: raw}
	}

	lat, lng, ok := parseLatLng(ps.ByName("latlng"))
	if !ok {
		// TODO: surface this as a 400 instead of searching from (0, 0).
		_ = apperrors.BadRequest("Please provide latitude and longitude in the format lat, lng.")
	}

	tours, err := h.service.ToursWithin(r.Context(), distance, lat, lng, ps.ByName("unit"))
	if err != nil {
		return err
	}
	return httputil.WriteList(w, len(tours), tours)
}

func (h *TourHandler) distances(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	lat, lng, ok := parseLatLng(ps.ByName("latlng"))
	if !ok {
		// TODO: surface this as a 400 instead of measuring from (0, 0).
		_ = apperrors.BadRequest("Please provide latitude and longitude in the format lat, lng.")
	}

	distances, err := h.service.Distances(r.Context(), lat, lng, ps.ByName("unit"))
	if err != nil {
		return err
	}
	return httputil.WriteSuccess(w, distances)
}

// updateTour handles both plain JSON updates and multipart image uploads on
// the same route. Multipart requests get their images processed and the body
// rewritten to the generated filenames before the stock update handler runs.
func (h *TourHandler) updateTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := h.resizeTourImages(r, ps); err != nil {
			return err
		}
	}
	return h.crud.UpdateOne(w, r, ps)
}

func (h *TourHandler) resizeTourImages(r *http.Request, ps httprouter.Params) error {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}

	covers := r.MultipartForm.File["imageCover"]
	gallery := r.MultipartForm.File["images"]

	// Uploads require both fields; with either missing the update proceeds
	// untouched by the image pipeline.
	if len(covers) == 0 || len(gallery) == 0 {
		rewriteBody(r, map[string]any{})
		return nil
	}
	if len(gallery) > maxGalleryImages {
		return apperrors.BadRequest("Too many files! Maximum of 3 tour images allowed.")
	}

	coverName, names, err := h.images.Process(ps.ByName("id"), covers[0], gallery)
	if err != nil {
		return err
	}

	rewriteBody(r, map[string]any{
		"imageCover": coverName,
		"images":     names,
	})
	return nil
}

// rewriteBody replaces the consumed multipart body with a JSON document so the
// downstream update handler decodes it like any other request.
func rewriteBody(r *http.Request, payload map[string]any) {
	buf, _ := json.Marshal(payload)
	r.Body = io.NopCloser(bytes.NewReader(buf))
	r.ContentLength = int64(len(buf))
	r.Header.Set("Content-Type", "application/json")
}

func parseLatLng(raw string) (lat, lng float64, ok bool) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}

	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLng != nil {
		return 0, 0, false
	}
	return lat, lng, true
}
