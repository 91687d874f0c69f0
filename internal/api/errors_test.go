// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/insightops/internal/auth"
	"github.com/tomtom215/insightops/internal/authz"
	"github.com/tomtom215/insightops/internal/query"
	"github.com/tomtom215/insightops/internal/store"
	"github.com/tomtom215/insightops/internal/validation"
)

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", validation.NewRequestValidationError("Invalid input", "title", "required"), http.StatusBadRequest, "Invalid input"},
		{"from date", &query.DateError{Param: "from", Value: "x"}, http.StatusBadRequest, "Invalid from date format"},
		{"wrapped bad request", fmt.Errorf("page: %w", query.ErrBadRequest), http.StatusBadRequest, "Bad request"},
		{"no token", auth.ErrNoCredentials, http.StatusUnauthorized, "No token provided"},
		{"invalid token", fmt.Errorf("%w: expired", auth.ErrInvalidToken), http.StatusUnauthorized, "Invalid token"},
		{"unknown principal", auth.ErrUnknownPrincipal, http.StatusUnauthorized, "User no longer exists"},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"forbidden", authz.ErrForbidden, http.StatusForbidden, "Forbidden: Insufficient role"},
		{"event not found", store.ErrNotFound, http.StatusNotFound, "Event not found"},
		{"user not found", auth.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"invalid role", auth.ErrInvalidRole, http.StatusBadRequest, "Invalid role"},
		{"throttled", ErrTooManyAttempts, http.StatusTooManyRequests, msgTooManyAttempts},
		{"persist", fmt.Errorf("%w: disk full", store.ErrPersist), http.StatusInternalServerError, "Internal server error"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := errorResponse(tt.err)
			if status != tt.wantStatus || body.Error != tt.wantMsg {
				t.Errorf("errorResponse() = %d %q, want %d %q", status, body.Error, tt.wantStatus, tt.wantMsg)
			}
		})
	}
}

func TestErrorResponse_ValidationDetails(t *testing.T) {
	_, body := errorResponse(validation.NewRequestValidationError("Invalid role", "role", "must be a valid role"))
	if len(body.Details) != 1 || body.Details[0].Field != "role" {
		t.Errorf("details = %+v", body.Details)
	}

	_, body = errorResponse(auth.ErrNoCredentials)
	if body.Details != nil {
		t.Errorf("non-validation error carries details: %+v", body.Details)
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"object", `{"severity":"High"}`, false},
		{"object with trailing newline", "{\"severity\":\"High\"}\n", false},
		{"trailing word", `{"severity":"High"} trailing`, true},
		{"second object", `{"severity":"High"}{"severity":"Low"}`, true},
		{"empty", "", true},
		{"not json", "{not json", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPut, "/events/e1", strings.NewReader(tt.body))
			var dst EventUpdateRequest
			err := decodeJSON(r, &dst, msgInvalidInput)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			var verr *validation.RequestValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error %T is not a RequestValidationError", err)
			}
			if status, body := errorResponse(err); status != http.StatusBadRequest || body.Error != msgInvalidInput {
				t.Errorf("errorResponse() = %d %q", status, body.Error)
			}
		})
	}
}
