// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/session"
)

func TestState_Constructors(t *testing.T) {
	assert.Equal(t, session.PhaseUninitialized, session.Uninitialized().Phase())
	assert.Equal(t, session.PhaseAnonymous, session.Anonymous().Phase())
	assert.Equal(t, session.PhaseAnonymous, session.Authenticated(nil).Phase())

	state := session.Authenticated(testUser(access.RoleUser))
	assert.Equal(t, session.PhaseAuthenticated, state.Phase())
	assert.Equal(t, state.User != nil, state.IsAuthenticated)
}

/*
TestState_NoUserIsGuest checks that decisions for an empty session match the
guest role exactly.
*/
func TestState_NoUserIsGuest(t *testing.T) {
	state := session.Anonymous()

	assert.Equal(t, access.RoleGuest, state.Role())
	for _, permission := range access.AllPermissions() {
		assert.Equal(t, access.HasPermission(access.RoleGuest, permission), state.HasPermission(permission))
	}
	assert.False(t, state.IsAdmin())
	assert.False(t, state.IsModerator())
}

func TestState_Decisions(t *testing.T) {
	table := access.DefaultRoutes()

	admin := session.Authenticated(testUser(access.RoleAdmin))
	moderator := session.Authenticated(testUser(access.RoleModerator))
	user := session.Authenticated(testUser(access.RoleUser))

	assert.True(t, admin.CanAccessRoute(table, access.RouteCitizen))
	assert.False(t, moderator.CanAccessRoute(table, access.RouteCitizen))
	assert.True(t, moderator.CanAccessRoute(table, access.RouteEOPCreate))
	assert.False(t, session.Anonymous().CanAccessRoute(table, access.RouteDashboard))
	assert.True(t, session.Anonymous().CanAccessRoute(table, "/unlisted"))

	assert.True(t, moderator.HasAnyPermission(access.PermDeleteEOP, access.PermEditEOP))
	assert.False(t, user.HasAllPermissions(access.PermViewEOP, access.PermEditEOP))
	assert.True(t, admin.IsAdmin())
	assert.True(t, moderator.IsModerator())
	assert.False(t, user.IsModerator())
}
