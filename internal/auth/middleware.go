// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/insightops/internal/logging"
	"github.com/tomtom215/insightops/internal/metrics"
)

// ErrorWriter renders an authentication failure. The api package supplies
// the implementation so every error body has the same shape.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Authenticator resolves bearer tokens to principals.
type Authenticator struct {
	jwt      *JWTManager
	users    *UserDirectory
	writeErr ErrorWriter
	log      *logging.AuthLogger
}

// NewAuthenticator wires the token verifier to the directory.
func NewAuthenticator(jwtManager *JWTManager, users *UserDirectory, writeErr ErrorWriter) *Authenticator {
	if writeErr == nil {
		writeErr = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
		}
	}
	return &Authenticator{
		jwt:      jwtManager,
		users:    users,
		writeErr: writeErr,
		log:      logging.NewAuthLogger(),
	}
}

// Resolve verifies token and re-reads the principal from the directory.
func (a *Authenticator) Resolve(token string) (Principal, error) {
	if token == "" {
		return Principal{}, ErrNoCredentials
	}
	claims, err := a.jwt.ValidateToken(token)
	if err != nil {
		return Principal{}, err
	}
	p, err := a.users.Lookup(claims.Email)
	if err != nil {
		return Principal{}, ErrUnknownPrincipal
	}
	return p, nil
}

// Authenticate requires an "Authorization: Bearer <token>" header.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return a.middleware(next, false)
}

// AuthenticateStream also accepts the token as a ?token= query parameter,
// for browser WebSocket clients that cannot set headers.
func (a *Authenticator) AuthenticateStream(next http.Handler) http.Handler {
	return a.middleware(next, true)
}

func (a *Authenticator) middleware(next http.Handler, allowQuery bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearer(r.Header.Get("Authorization"))
		if errors.Is(err, ErrNoCredentials) && allowQuery {
			token, err = r.URL.Query().Get("token"), nil
		}
		if err == nil {
			var p Principal
			if p, err = a.Resolve(token); err == nil {
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
				return
			}
		}

		reason := failureReason(err)
		metrics.AuthFailures.WithLabelValues(reason).Inc()
		a.log.TokenRejected(r.Context(), token, reason)
		a.writeErr(w, r, err)
	})
}

// extractBearer returns ErrNoCredentials for an absent header or empty
// token, and ErrInvalidToken for any scheme other than Bearer.
func extractBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrNoCredentials
	}
	scheme, token, found := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidToken
	}
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return "", ErrNoCredentials
	}
	return token, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrNoCredentials):
		return "no_token"
	case errors.Is(err, ErrUnknownPrincipal):
		return "unknown_principal"
	default:
		return "invalid_token"
	}
}
