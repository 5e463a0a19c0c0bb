// Copyright (c) 2026 Identra. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/identra/internal/audit"
	"github.com/taibuivan/identra/internal/notify"
	"github.com/taibuivan/identra/internal/platform/apperr"
	"github.com/taibuivan/identra/internal/platform/constants"
	"github.com/taibuivan/identra/internal/platform/sec"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing access tokens.
type TokenProvider interface {
	// Issue creates a signed token string carrying the given user id.
	Issue(userID string) (string, error)

	// TTL reports the lifetime of issued tokens.
	TTL() time.Duration
}

// Service implements the user identity use cases: registration, credential
// verification, profile lookups, and per-request identity resolution.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
	notifier       notify.Notifier
	sink           audit.Sink
	logger         *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	tokenProv TokenProvider,
	notifier notify.Notifier,
	sink audit.Sink,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
		notifier:       notifier,
		sink:           sink,
		logger:         logger,
	}
}

// # Registration Flow

// SignupInput holds the data required to enroll a new account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

/*
Signup validates, hashes, and persists a brand new user account.

Description: Enrolls a new member. The email pre-check gives a fast conflict
answer; the unique index underneath the repository remains the final arbiter,
and both paths surface the same conflict outcome. The welcome message is sent
in the background and never affects the result.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *PublicProfile: Password-free projection of the created account
  - error: Conflict (if the email is registered) or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*PublicProfile, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict(duplicateEmailMessage)
	}
	if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_signup_precheck_failed: %w", err)
	}

	// Prevent storing plain-text passwords. Default-adjacent cost balances
	// security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	// Persist the user. A concurrent signup racing past the pre-check lands
	// on the unique index and comes back as the same Conflict.
	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.IsConflict(err) {
			return nil, apperr.Conflict(duplicateEmailMessage)
		}
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	service.sink.Record(context, audit.Event{
		Action:  "user_signed_up",
		Service: constants.ServiceAuth,
		UserID:  user.ID,
		Body:    map[string]string{FieldEmail: user.Email},
	})

	// Fire-and-forget welcome message. Delivery failures are observed but
	// never surfaced to the caller.
	go service.sendWelcome(context, user.Email, user.Name, user.ID)

	profile := user.Public()
	return &profile, nil
}

// sendWelcome delivers the welcome message on a detached context so it
// survives the originating request.
func (service *Service) sendWelcome(parent context.Context, email, name, userID string) {
	detached, cancel := context.WithTimeout(context.WithoutCancel(parent), welcomeSendTimeout)
	defer cancel()

	if err := service.notifier.SendWelcome(detached, email, name); err != nil {
		service.logger.Error("welcome_email_failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		service.sink.Record(detached, audit.Event{
			Action:  "welcome_email_failed",
			Service: constants.ServiceNotify,
			UserID:  userID,
			Body:    map[string]string{FieldEmail: email, "error": err.Error()},
		})
	}
}

// welcomeSendTimeout bounds background welcome delivery.
const welcomeSendTimeout = 30 * time.Second

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult represents a successfully authenticated account.
type LoginResult struct {
	User  PublicProfile
	Token string
}

/*
Login validates user credentials and issues an access token.

Description: Verifies identity with constant-time password comparison. Unknown
emails and wrong passwords produce byte-identical outcomes so callers cannot
enumerate registered addresses.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Profile plus signed access token
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	user, err := service.userRepository.FindByEmail(context, input.Email)

	// Only absence collapses into the generic message. Store failures propagate.
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized(invalidCredentialsMessage)
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized(invalidCredentialsMessage)
	}

	token, err := service.tokenProvider.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_issue_failed: %w", err)
	}

	service.sink.Record(context, audit.Event{
		Action:  "user_logged_in",
		Service: constants.ServiceAuth,
		UserID:  user.ID,
		Body:    map[string]string{FieldEmail: user.Email},
	})

	return &LoginResult{User: user.Public(), Token: token}, nil
}

// invalidCredentialsMessage is shared by every login failure path so unknown
// emails and wrong passwords are indistinguishable to clients.
const invalidCredentialsMessage = "Invalid email or password"

// TokenTTL reports the lifetime of issued access tokens.
func (service *Service) TokenTTL() time.Duration {
	return service.tokenProvider.TTL()
}

// # Profile Lookups

/*
GetProfile retrieves the password-free profile of a single account.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *PublicProfile: The matching profile
  - error: apperr.NotFound or storage errors
*/
func (service *Service) GetProfile(context context.Context, id string) (*PublicProfile, error) {
	user, err := service.userRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	profile := user.Public()
	return &profile, nil
}

/*
ListProfiles retrieves the password-free profiles of every account.

Description: Each entity goes through the Public projection individually so no
password material can ride along in the listing.

Parameters:
  - context: context.Context

Returns:
  - []PublicProfile: All profiles; empty slice when no accounts exist
  - error: Storage errors
*/
func (service *Service) ListProfiles(context context.Context) ([]PublicProfile, error) {
	users, err := service.userRepository.FindAll(context)
	if err != nil {
		return nil, err
	}

	profiles := make([]PublicProfile, 0, len(users))
	for index := range users {
		profiles = append(profiles, users[index].Public())
	}

	return profiles, nil
}

// # Identity Resolution

/*
ResolveIdentity re-resolves a token subject against current account state.

Description: Called once per authenticated request. A valid token whose
subject no longer exists yields NotFound, so deleted accounts lose access
immediately regardless of token expiry.

Parameters:
  - context: context.Context
  - userID: string (token subject)

Returns:
  - *sec.Identity: Current identity of the account
  - error: apperr.NotFound when the account no longer exists
*/
func (service *Service) ResolveIdentity(context context.Context, userID string) (*sec.Identity, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	return &sec.Identity{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
	}, nil
}
