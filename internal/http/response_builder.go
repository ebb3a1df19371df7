// Package http provides the JSON API server and its handlers.
//
// This file implements the Builder Pattern for JSON responses so every
// handler emits the same envelope and error shape.

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"lexia/internal/core"
	"lexia/internal/middleware/trace"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	data       any
	headers    map[string]string
}

// NewJSONResponse creates a builder with a default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Data sets the value serialised as the response body.
func (b *JSONResponseBuilder) Data(v any) *JSONResponseBuilder {
	b.data = v
	return b
}

// Write sends the response. A 204 never carries a body.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.statusCode == http.StatusNoContent || b.data == nil {
		w.WriteHeader(b.statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if err := json.NewEncoder(w).Encode(b.data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// ErrorResponse creates an error response with the standard body.
func ErrorResponse(r *http.Request, statusCode int, message string) *JSONResponseBuilder {
	body := ErrorBody{Error: message}
	if r != nil {
		body.RequestID = trace.RequestID(r.Context())
	}
	return NewJSONResponse().Status(statusCode).Data(body)
}

func BadRequestError(r *http.Request, message string) *JSONResponseBuilder {
	return ErrorResponse(r, http.StatusBadRequest, message)
}

func NotFoundError(r *http.Request, message string) *JSONResponseBuilder {
	return ErrorResponse(r, http.StatusNotFound, message)
}

func ConflictError(r *http.Request, message string) *JSONResponseBuilder {
	return ErrorResponse(r, http.StatusConflict, message)
}

func InternalServerError(r *http.Request, message string) *JSONResponseBuilder {
	return ErrorResponse(r, http.StatusInternalServerError, message)
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrSlotTaken):
		return http.StatusConflict
	case core.IsValidation(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// FromError builds the error response for err. Internal failures are logged
// and reported without detail.
func FromError(r *http.Request, err error) *JSONResponseBuilder {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		return InternalServerError(r, "internal error")
	}
	return ErrorResponse(r, code, err.Error())
}
