// Copyright (c) 2026 Identra. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces ([TokenVerifier] in middleware,
// TokenProvider in the auth service).
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Verification Failure Kinds
//
// All three map to the same unauthenticated outcome at the HTTP boundary, but
// stay distinguishable for diagnostics and audit records.
var (
	// ErrTokenMalformed signals a token that could not be structurally decoded.
	ErrTokenMalformed = errors.New("sec: token malformed")

	// ErrTokenSignature signals a token whose signature does not match the
	// server-held secret.
	ErrTokenSignature = errors.New("sec: token signature invalid")

	// ErrTokenExpired signals a token presented after its expiry.
	ErrTokenExpired = errors.New("sec: token expired")
)

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// # Why custom claims?
//
// By embedding the UserID directly inside the JWT, verification can establish
// the claimed subject WITHOUT any I/O. The identity middleware still resolves
// the subject against the credential store afterwards — token possession alone
// is not sufficient proof that the account still exists.
type AuthClaims struct {
	jwt.RegisteredClaims

	// UserID mirrors the registered Subject claim, abbreviated to keep the
	// JWT payload small.
	UserID string `json:"uid"`
}

// Identity is the store-resolved identity attached to a request context after
// successful token verification. It never carries password material.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// TokenService handles generation and verification of JWT tokens using HS256.
//
// Verification is a pure computation given the secret and the token string —
// no I/O, no shared mutable state, safe for concurrent use.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService creates a new TokenService.
//
// An empty secret is a hard startup invariant violation: the constructor
// refuses to build a service that would silently sign with "".
func NewTokenService(secret, issuer string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: signing secret must not be empty")
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

// Issue creates a new signed bearer token for a user.
//
// The expiry is a fixed window from issuance ([TokenService] ttl); the server
// keeps no record of issued tokens.
func (service *TokenService) Issue(userID string) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// TTL returns the fixed validity window applied to issued tokens.
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}

// Verify checks the signature and validity window of a JWT string.
//
// # Failure Kinds
//
// Returns [ErrTokenExpired], [ErrTokenSignature], or [ErrTokenMalformed]
// (wrapped), in that order of precedence.
func (service *TokenService) Verify(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, classifyTokenError(err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	// Older tokens may predate the uid claim; the registered subject is canonical.
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}

	return claims, nil
}

// classifyTokenError maps golang-jwt parse errors onto the package's sentinel kinds.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrTokenSignature, err)
	default:
		return fmt.Errorf("%w: %w", ErrTokenMalformed, err)
	}
}
