// Package httputil writes JSON responses and maps errors to HTTP statuses.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"dataproof/pkg/platform/sentinel"
)

type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps sentinel errors to a status and error code. Internal errors
// never expose their message.
func WriteError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	body := errorBody{Error: code}
	if status < http.StatusInternalServerError {
		body.ErrorDescription = err.Error()
	}
	WriteJSON(w, status, body)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, sentinel.ErrInvalidInput):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, sentinel.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, sentinel.ErrInvalidState):
		return http.StatusConflict, "conflict"
	case errors.Is(err, sentinel.ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
