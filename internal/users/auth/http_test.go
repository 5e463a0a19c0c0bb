// Copyright (c) 2026 Identra. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/identra/internal/platform/apperr"
	"github.com/taibuivan/identra/internal/users/auth"
)

// newSignupHandler wires a handler over an in-memory single-user store.
func newSignupHandler(t *testing.T) http.Handler {
	t.Helper()

	store := map[string]*auth.User{}

	repo := &mockUserRepository{
		findByEmailFunc: func(_ context.Context, email string) (*auth.User, error) {
			if user, ok := store[email]; ok {
				return user, nil
			}
			return nil, apperr.NotFound("User")
		},
		createFunc: func(_ context.Context, user *auth.User) error {
			user.ID = "user-1"
			store[user.Email] = user
			return nil
		},
	}

	service := newTestService(repo, &recordingSink{}, nil)
	return auth.NewHandler(service).Routes()
}

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	request.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_Signup_Created covers the canonical signup flow: valid payload in,
201 with password-free profile out.
*/
func TestHandler_Signup_Created(t *testing.T) {
	handler := newSignupHandler(t)

	recorder := postJSON(t, handler, "/signup", map[string]string{
		"name":     "John Doe",
		"email":    "john@x.com",
		"password": "StrongP@1",
	})

	require.Equal(t, http.StatusCreated, recorder.Code)

	var envelope struct {
		Data auth.PublicProfile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	assert.Equal(t, "user-1", envelope.Data.ID)
	assert.Equal(t, "John Doe", envelope.Data.Name)
	assert.Equal(t, "john@x.com", envelope.Data.Email)

	// No password material may appear anywhere in the response.
	assert.NotContains(t, recorder.Body.String(), "StrongP@1")
	assert.NotContains(t, recorder.Body.String(), "password")
}

/*
TestHandler_Signup_DuplicateEmail verifies the second signup with the same
email yields 409.
*/
func TestHandler_Signup_DuplicateEmail(t *testing.T) {
	handler := newSignupHandler(t)

	payload := map[string]string{
		"name":     "John Doe",
		"email":    "john@x.com",
		"password": "StrongP@1",
	}

	first := postJSON(t, handler, "/signup", payload)
	require.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(t, handler, "/signup", payload)
	require.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "Email is already registered")
}

/*
TestHandler_Signup_Validation exercises the boundary rules: name length,
email shape, password policy, and malformed JSON.
*/
func TestHandler_Signup_Validation(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]string
	}{
		{"short_name", map[string]string{"name": "Jo", "email": "john@x.com", "password": "StrongP@1"}},
		{"bad_email", map[string]string{"name": "John Doe", "email": "not-an-email", "password": "StrongP@1"}},
		{"weak_password", map[string]string{"name": "John Doe", "email": "john@x.com", "password": "password"}},
		{"missing_fields", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newSignupHandler(t)

			recorder := postJSON(t, handler, "/signup", tt.payload)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Contains(t, recorder.Body.String(), "VALIDATION_ERROR")
		})
	}
}

/*
TestHandler_Signup_InvalidJSON verifies undecodable bodies are rejected before
validation.
*/
func TestHandler_Signup_InvalidJSON(t *testing.T) {
	handler := newSignupHandler(t)

	request := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader([]byte("{not json")))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

/*
TestHandler_Login covers the success and failure transport shapes.
*/
func TestHandler_Login(t *testing.T) {
	hash := hashedTestPassword(t)

	repo := notFoundRepo()
	repo.findByEmailFunc = func(_ context.Context, email string) (*auth.User, error) {
		if email == "john@x.com" {
			return &auth.User{ID: "user-1", Name: "John Doe", Email: "john@x.com", PasswordHash: hash}, nil
		}
		return nil, apperr.NotFound("User")
	}

	service := newTestService(repo, &recordingSink{}, nil)
	handler := auth.NewHandler(service).Routes()

	t.Run("success", func(t *testing.T) {
		recorder := postJSON(t, handler, "/login", map[string]string{
			"email":    "john@x.com",
			"password": testPassword,
		})
		require.Equal(t, http.StatusOK, recorder.Code)

		var envelope struct {
			Data struct {
				User      auth.PublicProfile `json:"user"`
				Token     string             `json:"token"`
				TokenType string             `json:"token_type"`
				ExpiresIn int64              `json:"expires_in"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

		assert.Equal(t, "signed-token-for-user-1", envelope.Data.Token)
		assert.Equal(t, "Bearer", envelope.Data.TokenType)
		assert.Equal(t, int64(360000), envelope.Data.ExpiresIn) // 100 hours
		assert.Equal(t, "user-1", envelope.Data.User.ID)
	})

	t.Run("wrong_password", func(t *testing.T) {
		recorder := postJSON(t, handler, "/login", map[string]string{
			"email":    "john@x.com",
			"password": "WrongP@ss1",
		})
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid email or password")
	})

	t.Run("unknown_email", func(t *testing.T) {
		recorder := postJSON(t, handler, "/login", map[string]string{
			"email":    "ghost@x.com",
			"password": testPassword,
		})
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid email or password")
	})
}
