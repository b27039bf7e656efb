package http

import (
	"net/http"

	apperrors "trailbook/pkg/errors"
	"trailbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// HandlerFunc is a route handler that surfaces failure as a return value
// instead of writing its own error response.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) error

// Middleware wraps a HandlerFunc with a pass/short-circuit contract: it either
// calls the next handler or returns an error that the Catch adapter classifies.
type Middleware func(HandlerFunc) HandlerFunc

// Catcher adapts HandlerFuncs for route registration. Every rejection a
// handler returns is funneled into the central error classifier; no handler
// writes error responses on its own.
type Catcher struct {
	log  *logger.Logger
	mode string
}

func NewCatcher(log *logger.Logger, mode string) *Catcher {
	return &Catcher{log: log, mode: mode}
}

func (c *Catcher) Handle(h HandlerFunc, mws ...Middleware) httprouter.Handle {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if err := h(w, r, ps); err != nil {
			apperrors.WriteError(w, r, c.log, c.mode, err)
		}
	}
}

// NotFoundHandler classifies unmatched routes like any other operational error.
func (c *Catcher) NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := apperrors.NotFoundRoute(r.URL.Path)
		apperrors.WriteError(w, r, c.log, c.mode, err)
	})
}
