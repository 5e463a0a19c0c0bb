// Copyright (c) 2026 Identra. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account provides the HTTP delivery layer for profile discovery.

It exposes the authenticated read surface over registered accounts: the
caller's own profile, individual profiles by id, and the full directory
listing. Every payload is the password-free public projection.

# Security

All endpoints in this package require an active authentication session
provided by the RequireAuth middleware.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/identra/internal/platform/request"
	"github.com/taibuivan/identra/internal/platform/respond"
	"github.com/taibuivan/identra/internal/users/auth"
)

// Handler implements the HTTP layer for profile discovery.
type Handler struct {
	authService *auth.Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *auth.Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with the profile endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listProfiles)
	router.Get("/me", handler.getMe)
	router.Get("/{id}", handler.getProfile)

	return router
}

// # Profile Endpoints

/*
GET /api/v1/users.

Description: Retrieves the public profiles of every registered account.

Response:
  - 200: []PublicProfile: All profiles (empty array when none exist)
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listProfiles(writer http.ResponseWriter, request *http.Request) {
	profiles, err := handler.authService.ListProfiles(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profiles)
}

/*
GET /api/v1/users/me.

Description: Retrieves the public profile of the authenticated caller. The
identity was already re-resolved against current account state by the
authentication middleware, so this is a plain projection of it.

Response:
  - 200: PublicProfile: The caller's profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, auth.PublicProfile{
		ID:    identity.UserID,
		Name:  identity.Name,
		Email: identity.Email,
	})
}

/*
GET /api/v1/users/{id}.

Description: Retrieves the public profile of a single account by id.

Response:
  - 200: PublicProfile: The matching profile
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: No account with this id
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, auth.FieldID)

	profile, err := handler.authService.GetProfile(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}
