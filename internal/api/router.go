// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/insightops/internal/auth"
	"github.com/tomtom215/insightops/internal/authz"
	"github.com/tomtom215/insightops/internal/middleware"
)

// Router sets up HTTP routes using Chi router.
type Router struct {
	handler       *Handler
	authn         *auth.Authenticator
	enforcer      *authz.Enforcer
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil chiMw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, authn *auth.Authenticator, enforcer *authz.Enforcer, chiMw *ChiMiddleware) *Router {
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		authn:         authn,
		enforcer:      enforcer,
		chiMiddleware: chiMw,
	}
}

// require gates a route on op; it must follow authentication.
func (router *Router) require(op authz.Operation) func(http.Handler) http.Handler {
	return router.enforcer.Require(op, writeError)
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(APISecurityHeaders())
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog)

	r.NotFound(router.handler.NotFound)
	r.MethodNotAllowed(router.handler.MethodNotAllowed)

	// Scrapes are exempt from the client rate limit.
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		r.Get("/", router.handler.Health)
		r.Post("/auth/login", router.handler.Login)

		r.Route("/events", func(r chi.Router) {
			// Browsers cannot set headers on a websocket handshake.
			r.With(router.authn.AuthenticateStream, router.require(authz.EventsStream)).
				Get("/stream", router.handler.StreamEvents)

			r.Group(func(r chi.Router) {
				r.Use(router.authn.Authenticate)

				r.With(router.require(authz.EventsRead)).Get("/", router.handler.ListEvents)
				r.With(router.require(authz.EventsCreate)).Post("/", router.handler.CreateEvent)
				r.With(router.require(authz.EventsRead)).Get("/{id}", router.handler.GetEvent)
				r.With(router.require(authz.EventsUpdate)).Put("/{id}", router.handler.UpdateEvent)
				r.With(router.require(authz.EventsDelete)).Delete("/{id}", router.handler.DeleteEvent)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(router.authn.Authenticate)

			r.With(router.require(authz.UsersRead)).Get("/", router.handler.ListUsers)
			r.With(router.require(authz.UsersUpdate)).Put("/{email}/role", router.handler.UpdateUserRole)
		})
	})

	return r
}
