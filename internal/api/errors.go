// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/insightops/internal/auth"
	"github.com/tomtom215/insightops/internal/authz"
	"github.com/tomtom215/insightops/internal/logging"
	"github.com/tomtom215/insightops/internal/models"
	"github.com/tomtom215/insightops/internal/query"
	"github.com/tomtom215/insightops/internal/store"
	"github.com/tomtom215/insightops/internal/validation"
)

// ErrTooManyAttempts is returned when the login throttle rejects a client.
var ErrTooManyAttempts = errors.New("too many login attempts")

// Client-facing error messages
const (
	msgNoToken           = "No token provided"
	msgInvalidToken      = "Invalid token"
	msgUnknownPrincipal  = "User no longer exists"
	msgInvalidCreds      = "invalid credentials"
	msgForbidden         = "Forbidden: Insufficient role"
	msgEventNotFound     = "Event not found"
	msgUserNotFound      = "User not found"
	msgBadRequest        = "Bad request"
	msgTooManyAttempts   = "Too many login attempts, please try again later"
	msgTooManyRequests   = "Too many requests, please try again later"
	msgInternal          = "Internal server error"
	msgEventDeleted      = "Event deleted"
	msgInvalidInput      = "Invalid input"
	msgInvalidRole       = "Invalid role"
	msgMalformedBodyHint = "request body must be a valid JSON object"
)

// WriteError is the auth.ErrorWriter used by the authentication middleware.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, err)
}

// writeError maps err to a status code and writes the error body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	writeJSON(w, status, body)
}

func errorResponse(err error) (int, models.ErrorResponse) {
	var verr *validation.RequestValidationError
	var derr *query.DateError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, models.ErrorResponse{Error: verr.Summary(), Details: verr.Violations()}
	case errors.As(err, &derr):
		return http.StatusBadRequest, models.ErrorResponse{Error: derr.Error()}
	case errors.Is(err, query.ErrBadRequest):
		return http.StatusBadRequest, models.ErrorResponse{Error: msgBadRequest}
	case errors.Is(err, auth.ErrNoCredentials):
		return http.StatusUnauthorized, models.ErrorResponse{Error: msgNoToken}
	case errors.Is(err, auth.ErrUnknownPrincipal):
		return http.StatusUnauthorized, models.ErrorResponse{Error: msgUnknownPrincipal}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, models.ErrorResponse{Error: msgInvalidCreds}
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, models.ErrorResponse{Error: msgInvalidToken}
	case errors.Is(err, authz.ErrForbidden):
		return http.StatusForbidden, models.ErrorResponse{Error: msgForbidden}
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, models.ErrorResponse{Error: msgEventNotFound}
	case errors.Is(err, auth.ErrUserNotFound):
		return http.StatusNotFound, models.ErrorResponse{Error: msgUserNotFound}
	case errors.Is(err, auth.ErrInvalidRole):
		return http.StatusBadRequest, models.ErrorResponse{Error: msgInvalidRole}
	case errors.Is(err, ErrTooManyAttempts):
		return http.StatusTooManyRequests, models.ErrorResponse{Error: msgTooManyAttempts}
	default:
		return http.StatusInternalServerError, models.ErrorResponse{Error: msgInternal}
	}
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// decodeJSON reads exactly one JSON value from the request body into dst.
// A body that does not decode, or carries anything after the value, is
// reported as a validation error with summary.
func decodeJSON(r *http.Request, dst interface{}, summary string) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return validation.NewRequestValidationError(summary, "body", msgMalformedBodyHint)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return validation.NewRequestValidationError(summary, "body", msgMalformedBodyHint)
	}
	return nil
}
