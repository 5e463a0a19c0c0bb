// Copyright (c) 2026 Identra. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/identra/internal/audit"
	"github.com/taibuivan/identra/internal/platform/apperr"
	"github.com/taibuivan/identra/internal/platform/ctxutil"
	"github.com/taibuivan/identra/internal/platform/middleware"
	"github.com/taibuivan/identra/internal/platform/sec"
)

// staticResolver resolves a fixed set of user ids.
type staticResolver struct {
	identities map[string]*sec.Identity
}

func (r *staticResolver) ResolveIdentity(_ context.Context, userID string) (*sec.Identity, error) {
	if identity, ok := r.identities[userID]; ok {
		return identity, nil
	}
	return nil, apperr.NotFound("User")
}

// newAuthChain assembles Authenticate (and optionally RequireAuth) around a
// handler that always answers 200.
func newAuthChain(t *testing.T, resolver middleware.IdentityResolver, requireAuth bool) http.Handler {
	t.Helper()

	tokenService, err := sec.NewTokenService("middleware-test-secret", "identra.app", time.Hour)
	require.NoError(t, err)

	var handler http.Handler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	if requireAuth {
		handler = middleware.RequireAuth(handler)
	}
	return middleware.Authenticate(tokenService, resolver, audit.NopSink{})(handler)
}

func knownUserResolver() *staticResolver {
	return &staticResolver{identities: map[string]*sec.Identity{
		"user-1": {UserID: "user-1", Name: "John Doe", Email: "john@x.com"},
	}}
}

func doRequest(handler http.Handler, authorization string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestAuthenticate_AnonymousPassThrough verifies a request without a token
reaches open handlers but is stopped by RequireAuth.
*/
func TestAuthenticate_AnonymousPassThrough(t *testing.T) {
	openChain := newAuthChain(t, knownUserResolver(), false)
	recorder := doRequest(openChain, "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	protectedChain := newAuthChain(t, knownUserResolver(), true)
	recorder = doRequest(protectedChain, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Authentication required")
}

/*
TestAuthenticate_ValidToken verifies the full chain: verification, store
resolution, and identity attachment.
*/
func TestAuthenticate_ValidToken(t *testing.T) {
	resolver := knownUserResolver()

	tokenService, err := sec.NewTokenService("middleware-test-secret", "identra.app", time.Hour)
	require.NoError(t, err)

	var observed *sec.Identity
	probe := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		observed = ctxutil.GetIdentity(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
	handler := middleware.Authenticate(tokenService, resolver, audit.NopSink{})(middleware.RequireAuth(probe))

	token, err := tokenService.Issue("user-1")
	require.NoError(t, err)

	recorder := doRequest(handler, "Bearer "+token)
	require.Equal(t, http.StatusOK, recorder.Code)

	require.NotNil(t, observed)
	assert.Equal(t, "user-1", observed.UserID)
	assert.Equal(t, "john@x.com", observed.Email)
}

/*
TestAuthenticate_RejectedTokens covers malformed headers, garbage tokens,
expired tokens, and tokens signed with a foreign secret. All collapse to 401.
*/
func TestAuthenticate_RejectedTokens(t *testing.T) {
	tokenService, err := sec.NewTokenService("middleware-test-secret", "identra.app", time.Hour)
	require.NoError(t, err)

	expiredService, err := sec.NewTokenService("middleware-test-secret", "identra.app", -time.Minute)
	require.NoError(t, err)
	expiredToken, err := expiredService.Issue("user-1")
	require.NoError(t, err)

	foreignService, err := sec.NewTokenService("some-other-secret", "identra.app", time.Hour)
	require.NoError(t, err)
	foreignToken, err := foreignService.Issue("user-1")
	require.NoError(t, err)

	probe := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	handler := middleware.Authenticate(tokenService, knownUserResolver(), audit.NopSink{})(probe)

	tests := []struct {
		name          string
		authorization string
		wantBody      string
	}{
		{"missing_scheme", "just-a-token", "Invalid authorization format"},
		{"wrong_scheme", "Basic dXNlcjpwYXNz", "Invalid authorization format"},
		{"garbage_token", "Bearer not-a-jwt", "Invalid or expired token"},
		{"expired_token", "Bearer " + expiredToken, "Invalid or expired token"},
		{"foreign_signature", "Bearer " + foreignToken, "Invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doRequest(handler, tt.authorization)
			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.wantBody)
		})
	}
}

/*
TestAuthenticate_DeletedUser verifies that a structurally valid token whose
subject no longer exists in the store yields 404, not 401.
*/
func TestAuthenticate_DeletedUser(t *testing.T) {
	tokenService, err := sec.NewTokenService("middleware-test-secret", "identra.app", time.Hour)
	require.NoError(t, err)

	probe := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	handler := middleware.Authenticate(tokenService, knownUserResolver(), audit.NopSink{})(probe)

	token, err := tokenService.Issue("deleted-user")
	require.NoError(t, err)

	recorder := doRequest(handler, "Bearer "+token)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
