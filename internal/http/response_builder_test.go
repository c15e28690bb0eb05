package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"financas/internal/core"
)

func TestJSONResponseBuilder(t *testing.T) {
	rec := httptest.NewRecorder()
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("X-Test", "yes").
		Body(map[string]string{"ok": "true"}).
		Write(rec)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Test") != "yes" {
		t.Error("custom header dropped")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["ok"] != "true" {
		t.Errorf("body = %v", body)
	}
}

func TestJSONResponseNoBody(t *testing.T) {
	rec := httptest.NewRecorder()
	NewJSONResponse().Status(http.StatusNoContent).Write(rec)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestWriteDomainErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{core.ErrValidation, http.StatusBadRequest},
		{core.ErrInvalidAmount, http.StatusBadRequest},
		{core.ErrInsufficientFunds, http.StatusBadRequest},
		{core.ErrEmailTaken, http.StatusBadRequest},
		{core.ErrPasswordMismatch, http.StatusBadRequest},
		{core.ErrDuplicateCategory, http.StatusBadRequest},
		{core.ErrDuplicateCard, http.StatusBadRequest},
		{core.ErrInvalidCredentials, http.StatusUnauthorized},
		{core.ErrForbidden, http.StatusForbidden},
		{core.ErrNotFound, http.StatusNotFound},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{core.ErrInconsistent, http.StatusInternalServerError},
		{fmt.Errorf("driver exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		WriteDomainError(context.Background(), rec, fmt.Errorf("wrap: %w", tt.err))
		if rec.Code != tt.status {
			t.Errorf("WriteDomainError(%v) = %d, want %d", tt.err, rec.Code, tt.status)
		}
	}
}

// Internal failures must not leak their detail to the client.
func TestInternalErrorIsOpaque(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteDomainError(context.Background(), rec, fmt.Errorf("dsn user:hunter2 connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}

	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Error != "internal server error" {
		t.Errorf("leaked detail: %q", body.Error)
	}
}
