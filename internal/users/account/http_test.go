// Copyright (c) 2026 Identra. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/identra/internal/audit"
	"github.com/taibuivan/identra/internal/platform/apperr"
	"github.com/taibuivan/identra/internal/platform/ctxutil"
	"github.com/taibuivan/identra/internal/platform/sec"
	"github.com/taibuivan/identra/internal/users/account"
	"github.com/taibuivan/identra/internal/users/auth"
)

// fixedUserRepository serves a static set of accounts.
type fixedUserRepository struct {
	users []auth.User
}

func (r *fixedUserRepository) Create(context.Context, *auth.User) error {
	return apperr.Internal(nil)
}

func (r *fixedUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			return &r.users[i], nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fixedUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for i := range r.users {
		if r.users[i].Email == email {
			return &r.users[i], nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fixedUserRepository) FindAll(context.Context) ([]auth.User, error) {
	return r.users, nil
}

// fixedTokenProvider satisfies auth.TokenProvider; these routes never issue
// tokens, so it only needs to exist.
type fixedTokenProvider struct{}

func (fixedTokenProvider) Issue(userID string) (string, error) { return "token-" + userID, nil }
func (fixedTokenProvider) TTL() time.Duration                  { return time.Hour }

type nopNotifier struct{}

func (nopNotifier) SendWelcome(context.Context, string, string) error { return nil }

func newProfilesHandler() http.Handler {
	repo := &fixedUserRepository{users: []auth.User{
		{ID: "user-1", Name: "John Doe", Email: "john@x.com", PasswordHash: "hash-1"},
		{ID: "user-2", Name: "Jane Roe", Email: "jane@x.com", PasswordHash: "hash-2"},
	}}
	service := auth.NewService(repo, fixedTokenProvider{}, nopNotifier{}, audit.NopSink{}, slog.Default())
	return account.NewHandler(service).Routes()
}

func getWithIdentity(handler http.Handler, path string, identity *sec.Identity) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, path, nil)
	if identity != nil {
		request = request.WithContext(ctxutil.WithIdentity(request.Context(), identity))
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_ListProfiles verifies the directory listing contains every account
as a password-free projection.
*/
func TestHandler_ListProfiles(t *testing.T) {
	handler := newProfilesHandler()

	recorder := getWithIdentity(handler, "/", &sec.Identity{UserID: "user-1"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data []auth.PublicProfile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	require.Len(t, envelope.Data, 2)
	assert.Equal(t, "john@x.com", envelope.Data[0].Email)
	assert.Equal(t, "jane@x.com", envelope.Data[1].Email)

	assert.NotContains(t, recorder.Body.String(), "hash-1")
	assert.NotContains(t, recorder.Body.String(), "hash-2")
}

/*
TestHandler_GetMe verifies the caller's own profile is served from the
resolved identity, and that an unauthenticated request is rejected.
*/
func TestHandler_GetMe(t *testing.T) {
	handler := newProfilesHandler()

	recorder := getWithIdentity(handler, "/me", &sec.Identity{
		UserID: "user-1",
		Name:   "John Doe",
		Email:  "john@x.com",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data auth.PublicProfile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "user-1", envelope.Data.ID)
	assert.Equal(t, "John Doe", envelope.Data.Name)

	// No identity in context: the handler itself refuses.
	recorder = getWithIdentity(handler, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestHandler_GetProfile covers lookup by id, including the unknown id case.
*/
func TestHandler_GetProfile(t *testing.T) {
	handler := newProfilesHandler()

	recorder := getWithIdentity(handler, "/user-2", &sec.Identity{UserID: "user-1"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data auth.PublicProfile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "Jane Roe", envelope.Data.Name)

	recorder = getWithIdentity(handler, "/no-such-user", &sec.Identity{UserID: "user-1"})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "User not found")
}
