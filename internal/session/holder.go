// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/taibuivan/aegis/internal/platform/ctxutil"
	"github.com/taibuivan/aegis/internal/platform/sec"
	"github.com/taibuivan/aegis/internal/users/account"
)

// # Contracts

// TokenVerifier validates a persisted access token.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// Credentials are the opaque tokens persisted next to the user record.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// # Holder

// Holder owns the [State] of one client and its persisted record.
//
// Only Initialize, Login and Logout mutate the state; every other consumer
// reads snapshots through State.
type Holder struct {
	mu       sync.RWMutex
	once     sync.Once
	storage  Storage
	verifier TokenVerifier
	state    State
}

// Option configures a [Holder].
type Option func(*Holder)

// WithVerifier makes Initialize reject persisted tokens that fail verification
// or whose subject differs from the persisted user.
func WithVerifier(verifier TokenVerifier) Option {
	return func(holder *Holder) {
		holder.verifier = verifier
	}
}

// NewHolder creates an uninitialized holder over storage.
func NewHolder(storage Storage, options ...Option) *Holder {
	holder := &Holder{storage: storage, state: Uninitialized()}
	for _, option := range options {
		option(holder)
	}
	return holder
}

// State returns a snapshot of the current state.
func (holder *Holder) State() State {
	holder.mu.RLock()
	defer holder.mu.RUnlock()
	return holder.state
}

/*
Initialize restores the session from storage. Only the first call has an effect.

Description: Both the token and the user record must be present and valid to
restore an authenticated session. Missing, corrupt or unverifiable records
settle to anonymous.

Returns:
  - State: The settled state
*/
func (holder *Holder) Initialize(ctx context.Context) State {
	holder.once.Do(func() {
		user, err := holder.restore(ctx)

		holder.mu.Lock()
		defer holder.mu.Unlock()

		// Login or Logout may already have settled the state.
		if !holder.state.IsLoading {
			return
		}

		if err != nil {
			if !errors.Is(err, ErrKeyNotFound) {
				ctxutil.GetLogger(ctx).WarnContext(ctx, "session_restore_rejected", slog.Any("error", err))
			}
			holder.state = Anonymous()
			return
		}

		holder.state = Authenticated(user)
	})

	return holder.State()
}

// restore reads and validates the persisted record.
func (holder *Holder) restore(ctx context.Context) (*account.User, error) {
	token, err := holder.storage.Get(ctx, KeyAuthToken)
	if err != nil {
		return nil, err
	}

	rawUser, err := holder.storage.Get(ctx, KeyUser)
	if err != nil {
		return nil, err
	}

	if token == "" || rawUser == "" {
		return nil, ErrKeyNotFound
	}

	var user account.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return nil, fmt.Errorf("session: decode persisted user: %w", err)
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("session: persisted user: %w", err)
	}

	if holder.verifier != nil {
		claims, err := holder.verifier.VerifyToken(token)
		if err != nil {
			return nil, fmt.Errorf("session: persisted token: %w", err)
		}
		if claims.UserID != user.ID {
			return nil, fmt.Errorf("session: token subject %q does not match user %q", claims.UserID, user.ID)
		}
	}

	return &user, nil
}

/*
Login settles the session to authenticated for user and persists the record.

Description: Storage that implements [Renewer] is renewed first. The record
is written before the state changes, so a storage failure leaves the previous
state in place and an uninitialized holder can still run Initialize.

Returns:
  - error: Validation or storage failures
*/
func (holder *Holder) Login(ctx context.Context, user *account.User, credentials Credentials) error {
	if user == nil {
		return fmt.Errorf("session: login requires a user")
	}
	if err := user.Validate(); err != nil {
		return err
	}

	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: encode user: %w", err)
	}

	if renewer, ok := holder.storage.(Renewer); ok {
		if err := renewer.Renew(ctx); err != nil {
			return err
		}
	}

	if err := holder.storage.Set(ctx, KeyAuthToken, credentials.AccessToken); err != nil {
		return err
	}
	if err := holder.storage.Set(ctx, KeyRefreshToken, credentials.RefreshToken); err != nil {
		return err
	}
	if err := holder.storage.Set(ctx, KeyUser, string(rawUser)); err != nil {
		return err
	}

	// The loading phase ends here even if Initialize never ran.
	holder.once.Do(func() {})

	holder.mu.Lock()
	holder.state = Authenticated(user)
	holder.mu.Unlock()

	return nil
}

/*
Logout settles the session to anonymous and removes the persisted record.

Returns:
  - error: Storage failures (the in-memory state is cleared regardless)
*/
func (holder *Holder) Logout(ctx context.Context) error {
	holder.once.Do(func() {})

	holder.mu.Lock()
	holder.state = Anonymous()
	holder.mu.Unlock()

	return holder.storage.Delete(ctx, recordKeys...)
}

// RefreshToken returns the persisted refresh token, if any.
func (holder *Holder) RefreshToken(ctx context.Context) (string, error) {
	return holder.storage.Get(ctx, KeyRefreshToken)
}

// PersistedUser decodes the persisted user record. It returns nil when no
// record is stored or it cannot be decoded.
func (holder *Holder) PersistedUser(ctx context.Context) *account.User {
	rawUser, err := holder.storage.Get(ctx, KeyUser)
	if err != nil || rawUser == "" {
		return nil
	}

	var user account.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return nil
	}
	return &user
}
