// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/insightops/internal/auth"
	"github.com/tomtom215/insightops/internal/logging"
	"github.com/tomtom215/insightops/internal/metrics"
	"github.com/tomtom215/insightops/internal/models"
	"github.com/tomtom215/insightops/internal/query"
	"github.com/tomtom215/insightops/internal/validation"
	ws "github.com/tomtom215/insightops/internal/websocket"
)

// ListEvents handles GET /events.
//
// Query parameters: category, severity, minScore, from, to, search, page,
// limit. Results are sorted newest first; total counts every match before
// pagination.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	spec, err := query.ParseSpec(r.URL.Query(), h.clock)
	if err != nil {
		var derr *query.DateError
		if errors.As(err, &derr) {
			metrics.QueryBadRequests.WithLabelValues(derr.Param).Inc()
		}
		writeError(w, r, err)
		return
	}

	start := time.Now()
	result := query.Run(h.store.ListAll(), spec)
	metrics.RecordQuery(time.Since(start), result.Total)

	items := result.Items
	if items == nil {
		items = []models.Event{}
	}
	writeJSON(w, http.StatusOK, models.EventListResponse{
		Events: items,
		Total:  result.Total,
		Page:   result.Page,
		Limit:  result.Limit,
	})
}

// GetEvent handles GET /events/{id}.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// CreateEvent handles POST /events.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventCreateRequest
	if err := decodeJSON(r, &req, msgInvalidInput); err != nil {
		writeError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeError(w, r, verr)
		return
	}

	e := req.ToEvent(h.newID(), h.clock.Now())
	if err := h.store.Insert(r.Context(), e); err != nil {
		writeError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("event_id", e.ID).
		Str("category", string(e.Category)).
		Str("by", principalEmail(r)).
		Msg("event created")
	writeJSON(w, http.StatusCreated, e)
}

// UpdateEvent handles PUT /events/{id}. Only supplied fields change.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventUpdateRequest
	if err := decodeJSON(r, &req, msgInvalidInput); err != nil {
		writeError(w, r, err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeError(w, r, verr)
		return
	}

	id := chi.URLParam(r, "id")
	updated, err := h.store.Update(r.Context(), id, req.ToPatch())
	if err != nil {
		writeError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("event_id", id).
		Str("by", principalEmail(r)).
		Msg("event updated")
	writeJSON(w, http.StatusOK, updated)
}

// DeleteEvent handles DELETE /events/{id}.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("event_id", id).
		Str("by", principalEmail(r)).
		Msg("event deleted")
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: msgEventDeleted})
}

// StreamEvents handles GET /events/stream, upgrading to a websocket that
// receives a message for every store mutation.
func (h *Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	ws.ServeWS(h.hub, &h.upgrader, w, r, principalEmail(r))
}

func principalEmail(r *http.Request) string {
	p, _ := auth.PrincipalFromContext(r.Context())
	return p.Email
}
