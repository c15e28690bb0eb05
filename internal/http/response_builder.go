// Package http serves the bookkeeping JSON API.
//
// This file implements the builder used to shape JSON responses and the
// single place where domain errors map onto HTTP status codes.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"financas/internal/core"
	"financas/internal/log"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	payload    any
	headers    map[string]string
}

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

func (b *JSONResponseBuilder) Body(payload any) *JSONResponseBuilder {
	b.payload = payload
	return b
}

// Write sends the built response. A nil payload writes the status code
// only.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.payload == nil {
		w.WriteHeader(b.statusCode)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.payload)
}

type errorBody struct {
	Error string `json:"error"`
}

func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Body(errorBody{Error: message})
}

func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func InternalServerError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, "internal server error")
}

// WriteDomainError translates a service error into the API's status
// codes. Anything unmapped is a 500; its detail is logged server-side
// and never echoed to the client.
func WriteDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrValidation),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrPasswordMismatch),
		errors.Is(err, core.ErrEmailTaken),
		errors.Is(err, core.ErrDuplicateCategory),
		errors.Is(err, core.ErrDuplicateCard),
		errors.Is(err, core.ErrInsufficientFunds):
		BadRequestError(err.Error()).Write(w)

	case errors.Is(err, core.ErrInvalidCredentials):
		ErrorResponse(http.StatusUnauthorized, "invalid credentials").Write(w)

	case errors.Is(err, core.ErrForbidden):
		ErrorResponse(http.StatusForbidden, err.Error()).Write(w)

	case errors.Is(err, core.ErrNotFound):
		NotFoundError(err.Error()).Write(w)

	case errors.Is(err, context.DeadlineExceeded):
		ErrorResponse(http.StatusGatewayTimeout, "request timed out").Write(w)

	default:
		log.FromContext(ctx).ErrorContext(ctx, "request failed",
			log.FieldError, err.Error())
		InternalServerError().Write(w)
	}
}
