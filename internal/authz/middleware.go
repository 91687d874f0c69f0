// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package authz

import (
	"net/http"

	"github.com/tomtom215/insightops/internal/auth"
	"github.com/tomtom215/insightops/internal/logging"
	"github.com/tomtom215/insightops/internal/metrics"
)

// Require returns middleware admitting only principals allowed to perform
// op. It must run after auth.Authenticator; a request without a principal
// is treated as forbidden.
func (e *Enforcer) Require(op Operation, writeErr auth.ErrorWriter) func(http.Handler) http.Handler {
	authLog := logging.NewAuthLogger()
	if writeErr == nil {
		writeErr = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, "Forbidden: Insufficient role", http.StatusForbidden)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := auth.PrincipalFromContext(r.Context())
			if err := e.Authorize(p, op); err != nil {
				metrics.AuthzDenials.WithLabelValues(op.Object, op.Action, string(p.Role)).Inc()
				authLog.AccessDenied(r.Context(), p.Email, string(p.Role), op.Object, op.Action)
				writeErr(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
