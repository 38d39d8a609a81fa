// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/platform/apperr"
	"github.com/taibuivan/aegis/internal/platform/respond"
	"github.com/taibuivan/aegis/internal/session"
)

// # Session Gates

// RequireAuth blocks requests that carry no authenticated session.
//
// # Usage
//
// Must be registered in the router AFTER [session.Load].
//
// # Flow
//  1. A session that is still loading answers 503 (retry).
//  2. An anonymous session answers 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if _, ok := authenticated(writer, request); !ok {
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose role is below the given one.
//
// It implies [RequireAuth] so you don't need to mount both.
func RequireRole(role access.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			state, ok := authenticated(writer, request)
			if !ok {
				return
			}

			if state.Role() < role {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequirePermission blocks requests whose role lacks any of the listed
// permissions (AND semantics).
//
// # Flow
//  1. Resolve the session state (implies AuthN).
//  2. Check the grants with [session.State.HasAllPermissions].
//  3. If insufficient, abort with HTTP 403 naming the permissions required.
func RequirePermission(permissions ...access.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			state, ok := authenticated(writer, request)
			if !ok {
				return
			}

			if !state.HasAllPermissions(permissions...) {
				respond.Error(writer, request, apperr.Forbidden("Missing permission: "+joinPermissions(permissions)))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAnyPermission blocks requests whose role holds none of the listed
// permissions (OR semantics). An empty list blocks everyone.
func RequireAnyPermission(permissions ...access.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			state, ok := authenticated(writer, request)
			if !ok {
				return
			}

			if !state.HasAnyPermission(permissions...) {
				respond.Error(writer, request, apperr.Forbidden("Requires one of: "+joinPermissions(permissions)))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Helpers

// authenticated resolves the session state and writes the error response
// itself when the caller cannot proceed.
func authenticated(writer http.ResponseWriter, request *http.Request) (session.State, bool) {
	state := session.StateFromContext(request.Context())

	switch state.Phase() {
	case session.PhaseUninitialized:
		respond.Error(writer, request, apperr.SessionPending())
		return state, false
	case session.PhaseAnonymous:
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return state, false
	}

	return state, true
}

func joinPermissions(permissions []access.Permission) string {
	names := make([]string, len(permissions))
	for index, permission := range permissions {
		names[index] = string(permission)
	}
	return strings.Join(names, ", ")
}
