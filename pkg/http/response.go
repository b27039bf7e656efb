package http

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform success wrapper used by every endpoint.
type Envelope struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

const statusSuccess = "success"

func WriteJSON(w http.ResponseWriter, statusCode int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(body)
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, Envelope{Status: statusSuccess, Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, Envelope{Status: statusSuccess, Data: data})
}

// WriteList includes the result count alongside the data.
func WriteList(w http.ResponseWriter, results int, data any) error {
	return WriteJSON(w, http.StatusOK, Envelope{Status: statusSuccess, Results: &results, Data: data})
}

// WriteToken is used by the auth endpoints, which return the issued JWT next to the data.
func WriteToken(w http.ResponseWriter, statusCode int, token string, data any) error {
	return WriteJSON(w, statusCode, Envelope{Status: statusSuccess, Token: token, Data: data})
}

// WriteMessage is for endpoints that acknowledge without returning data.
func WriteMessage(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, Envelope{Status: statusSuccess, Message: message})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
