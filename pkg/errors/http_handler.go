package errors

import (
	"encoding/json"
	"net/http"

	"trailbook/pkg/logger"
)

const (
	ModeVerbose = "development"
	ModeGuarded = "production"
)

type verboseResponse struct {
	Status  string    `json:"status"`
	Error   *AppError `json:"error"`
	Message string    `json:"message"`
	Stack   string    `json:"stack,omitempty"`
}

type guardedResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WriteError classifies err and writes the response for the deployment mode.
// In guarded mode non-operational errors are logged server-side and the client
// only ever sees a generic message, regardless of the error source.
func WriteError(w http.ResponseWriter, r *http.Request, log *logger.Logger, mode string, err error) {
	appErr := Classify(err)

	if mode == ModeVerbose {
		writeJSON(w, log, appErr.StatusCode, verboseResponse{
			Status:  appErr.Status,
			Error:   appErr,
			Message: appErr.Message,
			Stack:   appErr.Stack,
		})
		return
	}

	if appErr.IsOperational {
		writeJSON(w, log, appErr.StatusCode, guardedResponse{
			Status:  appErr.Status,
			Message: appErr.Message,
		})
		return
	}

	log.Error("Unhandled error",
		"method", r.Method,
		"path", r.URL.Path,
		"error", appErr.Error(),
		"stack", appErr.Stack,
	)

	writeJSON(w, log, http.StatusInternalServerError, guardedResponse{
		Status:  StatusError,
		Message: "Something went very wrong!",
	})
}

func writeJSON(w http.ResponseWriter, log *logger.Logger, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to encode error response", "error", err)
	}
}
