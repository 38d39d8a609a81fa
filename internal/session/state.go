// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session holds the signed-in state of one client.

A [Holder] moves through three phases:

	uninitialized ──Initialize──► authenticated | anonymous
	any           ──Login──────► authenticated
	any           ──Logout─────► anonymous

The persisted subset (token, refresh token, user record) lives in a [Storage]
and survives process restarts; the loading flag never does.

Decision helpers are methods on the [State] value so callers pass the state
explicitly instead of reading a global.
*/
package session

import (
	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/users/account"
)

// # Phases

// Phase names the position of a [State] in the session lifecycle.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseAuthenticated Phase = "authenticated"
	PhaseAnonymous     Phase = "anonymous"
)

// # State

// State is a snapshot of a client session.
//
// IsAuthenticated always equals User != nil. Use the constructors below.
type State struct {
	User            *account.User `json:"user"`
	IsAuthenticated bool          `json:"is_authenticated"`
	IsLoading       bool          `json:"is_loading"`
}

// Uninitialized is the state before [Holder.Initialize] has run.
func Uninitialized() State {
	return State{IsLoading: true}
}

// Anonymous is the settled state without a user.
func Anonymous() State {
	return State{}
}

// Authenticated is the settled state for user.
func Authenticated(user *account.User) State {
	if user == nil {
		return Anonymous()
	}
	return State{User: user.Clone(), IsAuthenticated: true}
}

// Phase derives the lifecycle phase of s.
func (s State) Phase() Phase {
	switch {
	case s.IsLoading:
		return PhaseUninitialized
	case s.User != nil:
		return PhaseAuthenticated
	default:
		return PhaseAnonymous
	}
}

// # Decisions

// Role resolves the caller's role; no user is guest.
func (s State) Role() access.Role {
	if s.User == nil {
		return access.RoleGuest
	}
	return s.User.Role
}

// HasPermission reports whether the session's role grants permission.
func (s State) HasPermission(permission access.Permission) bool {
	return access.HasPermission(s.Role(), permission)
}

// HasAnyPermission reports whether the session's role grants one of permissions.
func (s State) HasAnyPermission(permissions ...access.Permission) bool {
	return access.HasAnyPermission(s.Role(), permissions...)
}

// HasAllPermissions reports whether the session's role grants all permissions.
func (s State) HasAllPermissions(permissions ...access.Permission) bool {
	return access.HasAllPermissions(s.Role(), permissions...)
}

// CanAccessRoute reports whether the session may reach route under table.
func (s State) CanAccessRoute(table *access.RouteTable, route string) bool {
	return table.CanAccess(s.Role(), route)
}

// IsAdmin reports whether the session belongs to an admin.
func (s State) IsAdmin() bool {
	return access.IsAdmin(s.Role())
}

// IsModerator reports whether the session belongs to a moderator or admin.
func (s State) IsModerator() bool {
	return access.IsModerator(s.Role())
}
