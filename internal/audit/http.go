// Copyright (c) 2026 Identra. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/identra/internal/platform/respond"
)

// defaultRecentLimit caps how many events a single listing returns when the
// caller does not say otherwise.
const defaultRecentLimit = 50

// maxRecentLimit is the hard ceiling for a single listing.
const maxRecentLimit = 500

// Handler exposes the audit trail for operational inspection.
//
// Listing is read-only and tolerant of dangling references: events keep the
// user id recorded at emission time even if the account is gone.
type Handler struct {
	sink Sink
}

// NewHandler constructs an audit [Handler] over the given sink.
func NewHandler(sink Sink) *Handler {
	return &Handler{sink: sink}
}

// Routes returns a [chi.Router] with the audit inspection endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listRecent)

	return router
}

/*
GET /api/v1/audit?limit=N.

Description: Returns the most recent audit events, newest first.

Response:
  - 200: []Event: Recent events (empty array when the stream is empty)
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listRecent(writer http.ResponseWriter, request *http.Request) {
	limit := int64(defaultRecentLimit)
	if raw := request.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			limit = min(parsed, maxRecentLimit)
		}
	}

	events, err := handler.sink.Recent(request.Context(), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, events)
}
