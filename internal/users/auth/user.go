// Copyright (c) 2026 Identra. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity core.

It defines the User entity and the logic for registration, credential
verification, token issuance, and identity resolution.

# Architecture

This layer is the "Truth" of the system. The entity defined here encapsulates
the business rules around user identity: unique emails, hashed-only password
storage, and the password-free public projection.
*/
package auth

import (
	"time"
)

// # Domain Entities

// User represents a registered account.
//
// Accounts are created on signup and read on login/profile lookups; this core
// never mutates or deletes them.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicProfile is the outward, password-free projection of a [User].
//
// Every place a User crosses the trust boundary must go through this
// projection — handlers never serialize the entity directly.
type PublicProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the password-free projection of the user.
func (user *User) Public() PublicProfile {
	return PublicProfile{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldID       = "id"
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldToken    = "token"
	FieldUser     = "user"
)

// NameMinLen is the minimum accepted display name length.
const NameMinLen = 3
