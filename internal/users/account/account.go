// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account owns the user identity record and its storage.

The [User] entity is produced by the auth flows (register, login) and held by
the session layer for the lifetime of an authenticated session. Admins manage
roles through the handlers in this package.
*/
package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/aegis/internal/access"
)

// # Domain Entities

// User is an identity record of the dashboard.
type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	Username     string      `json:"username"`
	FullName     string      `json:"full_name,omitempty"`
	Avatar       string      `json:"avatar,omitempty"`
	Role         access.Role `json:"role"`
	PasswordHash string      `json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Validate checks the invariants of a stored identity record.
func (u *User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("account: user id is empty")
	}
	if strings.TrimSpace(u.Email) == "" || strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("account: user %s is missing email or username", u.ID)
	}
	if !u.Role.Assignable() {
		return fmt.Errorf("account: user %s has unassignable role %s", u.ID, u.Role)
	}
	return nil
}

// Clone returns a detached copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}

// # Field Identifiers

const (
	FieldRole = "role"
	FieldID   = "id"
)

// # Repository Contracts

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email.
	FindByEmail(context context.Context, email string) (*User, error)

	// FindByUsername returns the account with the given username.
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account.

		Returns:
		  - error: apperr.Conflict on duplicate identity, or storage failures
	*/
	Create(context context.Context, user *User) error

	// UpdateRole replaces the role of an existing account.
	UpdateRole(context context.Context, id string, role access.Role) error

	// List returns accounts ordered by creation time with the total count.
	List(context context.Context, limit, offset int) ([]*User, int, error)
}
