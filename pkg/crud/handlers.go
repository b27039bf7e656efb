package crud

import (
	"context"
	"encoding/json"
	"net/http"

	apperrors "trailbook/pkg/errors"
	httputil "trailbook/pkg/http"
	"trailbook/pkg/logger"
	"trailbook/pkg/query"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// Options parameterizes the five generated handlers. All hooks are optional.
type Options[T any] struct {
	// Populate lists read-time lookups applied by GetOne.
	Populate []Lookup
	// Nested scopes GetAll to children of a parent resource present in the route.
	Nested func(ps httprouter.Params) (bson.M, error)
	// Prepare adjusts the decoded document from request state before
	// normalization, e.g. presetting reference ids on nested creates.
	Prepare func(r *http.Request, ps httprouter.Params, doc *T) error
	// Normalize applies derived fields and defaults.
	Normalize func(doc *T)
	// Validate runs schema validation; CreateOne and UpdateOne both call it,
	// so updates are re-validated against the merged document.
	Validate func(doc *T) error

	AfterCreate func(ctx context.Context, doc *T)
	AfterUpdate func(ctx context.Context, doc *T)
	AfterDelete func(ctx context.Context, id string)
}

// Handlers holds the five standard CRUD operations for one entity. Entity
// controllers embed these and layer their specializations on top.
type Handlers[T any] struct {
	store *Store[T]
	opts  Options[T]
	log   *logger.Logger
}

func NewHandlers[T any](store *Store[T], opts Options[T], log *logger.Logger) *Handlers[T] {
	return &Handlers[T]{store: store, opts: opts, log: log}
}

func (h *Handlers[T]) Store() *Store[T] {
	return h.store
}

func (h *Handlers[T]) GetAll(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	features := query.New(r.URL.Query()).Filter().Sort().LimitFields().Paginate()

	if h.opts.Nested != nil {
		scope, err := h.opts.Nested(ps)
		if err != nil {
			return err
		}
		for k, v := range scope {
			features.Criteria[k] = v
		}
	}

	docs, err := h.store.Find(r.Context(), features.Criteria, features.FindOptions())
	if err != nil {
		return err
	}
	return httputil.WriteList(w, len(docs), docs)
}

func (h *Handlers[T]) GetOne(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	doc, err := h.store.FindByID(r.Context(), ps.ByName("id"), h.opts.Populate...)
	if err != nil {
		return err
	}
	return httputil.WriteSuccess(w, doc)
}

func (h *Handlers[T]) CreateOne(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	var doc T
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}

	if err := h.prepare(r, ps, &doc); err != nil {
		return err
	}
	if err := h.store.Insert(r.Context(), &doc); err != nil {
		return err
	}

	h.log.Info("document created", "resource", h.store.resource)
	if h.opts.AfterCreate != nil {
		h.opts.AfterCreate(r.Context(), &doc)
	}
	return httputil.WriteCreated(w, &doc)
}

// UpdateOne fetches the document, merges the request body over it and
// re-validates the result before replacing, so partial updates obey the same
// schema rules as creates.
func (h *Handlers[T]) UpdateOne(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	id := ps.ByName("id")

	doc, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		return err
	}
	if err := json.NewDecoder(r.Body).Decode(doc); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}

	if err := h.prepare(r, ps, doc); err != nil {
		return err
	}
	if err := h.store.Replace(r.Context(), id, doc); err != nil {
		return err
	}

	h.log.Info("document updated", "resource", h.store.resource, "id", id)
	if h.opts.AfterUpdate != nil {
		h.opts.AfterUpdate(r.Context(), doc)
	}
	return httputil.WriteSuccess(w, doc)
}

func (h *Handlers[T]) DeleteOne(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error {
	id := ps.ByName("id")

	if err := h.store.DeleteByID(r.Context(), id); err != nil {
		return err
	}

	h.log.Info("document deleted", "resource", h.store.resource, "id", id)
	if h.opts.AfterDelete != nil {
		h.opts.AfterDelete(r.Context(), id)
	}
	httputil.WriteNoContent(w)
	return nil
}

func (h *Handlers[T]) prepare(r *http.Request, ps httprouter.Params, doc *T) error {
	if h.opts.Prepare != nil {
		if err := h.opts.Prepare(r, ps, doc); err != nil {
			return err
		}
	}
	if h.opts.Normalize != nil {
		h.opts.Normalize(doc)
	}
	if h.opts.Validate != nil {
		if err := h.opts.Validate(doc); err != nil {
			return err
		}
	}
	return nil
}
