// Copyright (c) 2026 Identra. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
)

// # Persistence Contract

// UserRepository abstracts account storage.
//
// Implementations assign the account id during Create and must surface
// duplicate emails as a conflict error so the service layer can present a
// uniform outcome regardless of which check tripped first.
type UserRepository interface {
	/*
		Create persists a new account and assigns its id.

		Parameters:
		  - ctx: Request context.
		  - user: Entity to persist; ID and timestamps are set by the store.

		Returns:
		  - error: Conflict when the email is already registered.
	*/
	Create(ctx context.Context, user *User) error

	/*
		FindByID retrieves an account by its id.

		Returns:
		  - *User: The matching account.
		  - error: NotFound when no account has this id.
	*/
	FindByID(ctx context.Context, id string) (*User, error)

	/*
		FindByEmail retrieves an account by its email address.

		Returns:
		  - *User: The matching account.
		  - error: NotFound when no account uses this email.
	*/
	FindByEmail(ctx context.Context, email string) (*User, error)

	/*
		FindAll retrieves every registered account.

		Returns:
		  - []User: All accounts; empty slice when none exist.
	*/
	FindAll(ctx context.Context) ([]User, error)
}
