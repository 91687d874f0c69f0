// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package api

import (
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/insightops/internal/auth"
	"github.com/tomtom215/insightops/internal/logging"
	"github.com/tomtom215/insightops/internal/models"
	"github.com/tomtom215/insightops/internal/query"
	"github.com/tomtom215/insightops/internal/store"
	ws "github.com/tomtom215/insightops/internal/websocket"
)

// ServiceName is reported by the health route.
const ServiceName = "InsightOps Backend"

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, health
//   - handlers_events.go: event list, read, create, update, delete, stream
//   - handlers_auth.go: login and user administration
type Handler struct {
	store    *store.EventStore
	clock    query.Clock
	authn    *auth.Authenticator
	limiter  *auth.LoginLimiter
	hub      *ws.Hub
	upgrader websocket.Upgrader
	authLog  *logging.AuthLogger
	newID    func() string
}

// HandlerDeps groups the collaborators of a Handler. Clock defaults to the
// system clock and Limiter to no throttling.
type HandlerDeps struct {
	Store          *store.EventStore
	Clock          query.Clock
	Authenticator  *auth.Authenticator
	Limiter        *auth.LoginLimiter
	Hub            *ws.Hub
	AllowedOrigins []string
}

// NewHandler creates a new API handler.
func NewHandler(deps HandlerDeps) *Handler {
	clock := deps.Clock
	if clock == nil {
		clock = query.SystemClock{}
	}
	limiter := deps.Limiter
	if limiter == nil {
		limiter = auth.NewLoginLimiter(0, 1)
	}

	return &Handler{
		store:    deps.Store,
		clock:    clock,
		authn:    deps.Authenticator,
		limiter:  limiter,
		hub:      deps.Hub,
		upgrader: ws.NewUpgrader(deps.AllowedOrigins),
		authLog:  logging.NewAuthLogger(),
		newID:    uuid.NewString,
	}
}

// Health reports that the process is serving.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ok", Service: ServiceName})
}

// NotFound answers unmatched routes with the standard error body.
func (h *Handler) NotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Not found"})
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, models.ErrorResponse{Error: "Method not allowed"})
}

// clientIP returns the host part of RemoteAddr, which chi's RealIP has
// already rewritten when a proxy header is present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
