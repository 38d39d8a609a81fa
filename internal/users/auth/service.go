// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements sign-up, sign-in and token rotation for the dashboard.

It issues RS256 access tokens and opaque refresh tokens. The HTTP layer hands
the resulting credentials to the client's session holder, which is what the
route guard reads on every later request.

Architecture:

  - Service: Register, Login, Logout, Refresh.
  - Repository: account.UserRepository for identities, RefreshTokenRepository
    (Redis or memory) for refresh token digests.
  - Security: bcrypt password hashes, RS256 JWTs via platform/sec.
*/
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/platform/apperr"
	"github.com/taibuivan/aegis/internal/platform/constants"
	"github.com/taibuivan/aegis/internal/platform/sec"
	"github.com/taibuivan/aegis/internal/platform/validate"
	"github.com/taibuivan/aegis/internal/users/account"
	"github.com/taibuivan/aegis/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// Service implements user authentication use cases.
type Service struct {
	userRepository         account.UserRepository
	refreshTokenRepository RefreshTokenRepository
	tokenProvider          TokenProvider
	accessTokenTTL         time.Duration
	refreshTokenTTL        time.Duration
}

// NewService constructs a new [Service] with the default token lifetimes.
func NewService(users account.UserRepository, refreshTokens RefreshTokenRepository, tokens TokenProvider) *Service {
	return &Service{
		userRepository:         users,
		refreshTokenRepository: refreshTokens,
		tokenProvider:          tokens,
		accessTokenTTL:         constants.AccessTokenTTL,
		refreshTokenTTL:        constants.RefreshTokenTTL,
	}
}

// AccessTokenTTL reports the lifetime of issued access tokens.
func (service *Service) AccessTokenTTL() time.Duration {
	return service.accessTokenTTL
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: New accounts always start with the user role; promotion goes
through the admin user-management endpoint.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *account.User: Created entity
  - err: Validation, Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*account.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Username = strings.TrimSpace(input.Username)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Username(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Password(FieldPassword, input.Password).
		MaxLen(FieldFullName, input.FullName, 120)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Uniqueness is enforced by the store as well; these checks give a precise message.
	if _, err := service.userRepository.FindByEmail(context, input.Email); err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}
	if _, err := service.userRepository.FindByUsername(context, input.Username); err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	now := time.Now().UTC()
	user := &account.User{
		ID:           uuid.New(),
		Email:        input.Email,
		Username:     input.Username,
		FullName:     strings.TrimSpace(input.FullName),
		Role:         access.RoleUser,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Can be Username or Email
	Password string
}

// Credentials is the outcome of a successful login or refresh.
type Credentials struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *account.User
}

/*
Login validates user credentials and issues security tokens.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Credentials: Access token, refresh token and the signed-in user
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Credentials, error) {
	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	login := strings.TrimSpace(input.Login)

	user, err := service.userRepository.FindByEmail(context, strings.ToLower(login))
	if err != nil {
		user, err = service.userRepository.FindByUsername(context, login)
	}

	// Same message for unknown identity and bad password to prevent enumeration.
	if err != nil || !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	return service.issue(context, user)
}

/*
Logout revokes a refresh token. It is idempotent: an empty or unknown token is
not an error.

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return service.refreshTokenRepository.Revoke(context, sec.HashToken(refreshToken))
}

/*
Refresh exchanges a refresh token for a new credential pair. The presented
token is consumed, so replaying it fails.

Returns:
  - *Credentials: The rotated credentials with the current user record
  - err: Unauthorized if the token is unknown, expired or its user is gone
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*Credentials, error) {
	if refreshToken == "" {
		return nil, apperr.Unauthorized("Missing refresh token")
	}

	userID, err := service.refreshTokenRepository.Consume(context, sec.HashToken(refreshToken))
	if err != nil {
		return nil, err
	}

	// Role changes since the last login take effect here.
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Account no longer exists")
		}
		return nil, err
	}

	return service.issue(context, user)
}

// issue signs an access token and stores a fresh refresh token for user.
func (service *Service) issue(context context.Context, user *account.User) (*Credentials, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, user.Role.String(), service.accessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_token_generation_failed: %w", err))
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_refresh_token_failed: %w", err))
	}

	if err := service.refreshTokenRepository.Save(context, sec.HashToken(refreshToken), user.ID, service.refreshTokenTTL); err != nil {
		return nil, apperr.Internal(err)
	}

	return &Credentials{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: time.Now().Add(service.refreshTokenTTL),
		User:                  user.Clone(),
	}, nil
}
