// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/insightops/internal/auth"
	"github.com/tomtom215/insightops/internal/metrics"
	"github.com/tomtom215/insightops/internal/models"
	"github.com/tomtom215/insightops/internal/validation"
)

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if !h.limiter.Allow(ip) {
		metrics.RecordLoginAttempt("throttled")
		h.authLog.LoginFailed(r.Context(), "", "throttled", ip)
		writeError(w, r, ErrTooManyAttempts)
		return
	}

	var req LoginRequest
	if err := decodeJSON(r, &req, msgInvalidInput); err != nil {
		writeError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeError(w, r, verr)
		return
	}

	token, p, err := h.authn.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			metrics.RecordLoginAttempt("invalid")
			h.authLog.LoginFailed(r.Context(), req.Email, "invalid_credentials", ip)
		}
		writeError(w, r, err)
		return
	}

	metrics.RecordLoginAttempt("success")
	h.authLog.LoginSucceeded(r.Context(), p.Email, string(p.Role), ip)
	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token, User: p.View()})
}

// ListUsers handles GET /users. Principals are ordered by email.
func (h *Handler) ListUsers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.authn.Users().List())
}

// UpdateUserRole handles PUT /users/{email}/role. An unknown principal is
// reported before the body is examined.
func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	dir := h.authn.Users()
	if _, err := dir.Lookup(email); err != nil {
		writeError(w, r, err)
		return
	}

	var req RoleUpdateRequest
	if err := decodeJSON(r, &req, msgInvalidRole); err != nil {
		writeError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeError(w, r, verr.WithSummary(msgInvalidRole))
		return
	}

	role := models.Role(req.Role)
	prev, err := dir.SetRole(email, role)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.authLog.RoleChanged(r.Context(), principalEmail(r), email, string(prev), string(role))
	writeJSON(w, http.StatusOK, models.UserView{Email: email, Role: role})
}
