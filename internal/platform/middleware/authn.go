// Copyright (c) 2026 Identra. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/identra/internal/audit"
	"github.com/taibuivan/identra/internal/platform/apperr"
	"github.com/taibuivan/identra/internal/platform/constants"
	"github.com/taibuivan/identra/internal/platform/ctxutil"
	"github.com/taibuivan/identra/internal/platform/respond"
	"github.com/taibuivan/identra/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the concrete
// [sec.TokenService], allowing us to easily inject fakes during unit testing.
type TokenVerifier interface {
	Verify(tokenString string) (*sec.AuthClaims, error)
}

// IdentityResolver resolves a verified subject back into a live identity.
//
// Token possession alone is not sufficient: the account must still exist in
// the credential store at request time.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (*sec.Identity, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header,
// then resolves the claimed subject against the credential store.
//
// # Flow (per request)
//
//	NoToken -> Extracted -> Verified -> Resolved -> Attached
//	              |            |           |
//	              +------------+-----------+--> Rejected (short-circuit)
//
//  1. No 'Authorization' header: the request proceeds as anonymous and
//     [RequireAuth] decides later whether that is acceptable.
//  2. Malformed header or failed verification: 401, before any handler runs.
//  3. Verified subject missing from the store: 404 — the identity no longer
//     exists even though the token is valid.
//  4. Success: [*sec.Identity] is attached to the request context.
func Authenticate(verifier TokenVerifier, resolver IdentityResolver, sink audit.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != constants.BearerScheme {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			tokenString := parts[1]
			claims, err := verifier.Verify(tokenString)
			if err != nil {
				kind := rejectionKind(err)

				// The failure kind stays internal: logs and audit can tell an
				// expired token from a forged one, the client cannot.
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "token_rejected",
					slog.String("kind", kind),
				)
				sink.Record(request.Context(), audit.Event{
					Action:  "token_rejected",
					Service: constants.ServiceMiddleware,
					Body:    map[string]string{"kind": kind},
				})

				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Identity Resolution ────────────────────────────────────────
			identity, err := resolver.ResolveIdentity(request.Context(), claims.UserID)
			if err != nil {
				sink.Record(request.Context(), audit.Event{
					Action:  "identity_resolution_failed",
					Service: constants.ServiceMiddleware,
					UserID:  claims.UserID,
				})
				respond.Error(writer, request, err)
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.Identity] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := ctxutil.GetIdentity(request.Context())
		if identity == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// rejectionKind maps a verification error onto a stable diagnostic label.
func rejectionKind(err error) string {
	switch {
	case errors.Is(err, sec.ErrTokenExpired):
		return "expired"
	case errors.Is(err, sec.ErrTokenSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}
