// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/aegis/internal/access"
)

/*
TestLevel_SatisfiedBy covers the full level × role dispatch matrix.
*/
func TestLevel_SatisfiedBy(t *testing.T) {
	tests := []struct {
		level access.Level
		want  map[access.Role]bool
	}{
		{access.LevelPublic, map[access.Role]bool{
			access.RoleGuest: true, access.RoleUser: true, access.RoleModerator: true, access.RoleAdmin: true,
		}},
		{access.LevelUser, map[access.Role]bool{
			access.RoleGuest: false, access.RoleUser: true, access.RoleModerator: true, access.RoleAdmin: true,
		}},
		{access.LevelModerator, map[access.Role]bool{
			access.RoleGuest: false, access.RoleUser: false, access.RoleModerator: true, access.RoleAdmin: true,
		}},
		{access.LevelAdmin, map[access.Role]bool{
			access.RoleGuest: false, access.RoleUser: false, access.RoleModerator: false, access.RoleAdmin: true,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			for role, want := range tt.want {
				assert.Equal(t, want, tt.level.SatisfiedBy(role), "role=%s", role)
			}
		})
	}
}

func TestLevel_UndeclaredDenies(t *testing.T) {
	for _, role := range access.AllRoles() {
		assert.False(t, access.Level(17).SatisfiedBy(role))
	}
}

func TestCanAccessRoute_UnlistedIsPublic(t *testing.T) {
	for _, path := range []string{"/nowhere", "/eop/flood-plan", "", "/CITIZEN"} {
		for _, role := range access.AllRoles() {
			assert.True(t, access.CanAccessRoute(role, path), "path=%q role=%s", path, role)
		}
	}
}

func TestCanAccessRoute_AdminRoutes(t *testing.T) {
	table := access.DefaultRoutes()

	assert.False(t, access.CanAccessRoute(access.RoleGuest, access.RouteAreaSelection))
	assert.True(t, access.CanAccessRoute(access.RoleAdmin, access.RouteAreaSelection))

	for _, entry := range table.Entries() {
		if entry.Level != access.LevelAdmin {
			continue
		}
		assert.False(t, access.CanAccessRoute(access.RoleModerator, entry.Path), "path=%s", entry.Path)
		assert.True(t, access.CanAccessRoute(access.RoleAdmin, entry.Path), "path=%s", entry.Path)
	}
}

func TestRouteTable_WithFallback(t *testing.T) {
	closed := access.DefaultRoutes().WithFallback(access.LevelAdmin)

	assert.Equal(t, access.LevelAdmin, closed.Fallback())
	assert.Equal(t, access.LevelAdmin, closed.Required("/forgotten"))
	assert.Equal(t, access.LevelPublic, closed.Required(access.RouteLogin))
	assert.False(t, closed.CanAccess(access.RoleUser, "/forgotten"))
	assert.Equal(t, access.LevelAdmin, closed.Required(access.RouteCitizen))
}

func TestRouteTable_EntriesAndReachable(t *testing.T) {
	table := access.NewRouteTable(map[string]access.Level{
		"/b": access.LevelUser,
		"/a": access.LevelUser,
		"/z": access.LevelPublic,
		"/m": access.LevelAdmin,
	}, access.LevelPublic)

	entries := table.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "/z", entries[0].Path)
	assert.Equal(t, "/a", entries[1].Path)
	assert.Equal(t, "/b", entries[2].Path)
	assert.Equal(t, "/m", entries[3].Path)

	assert.Equal(t, []string{"/z"}, table.Reachable(access.RoleGuest))
	assert.Equal(t, []string{"/z", "/a", "/b"}, table.Reachable(access.RoleModerator))
}

func TestParseLevel(t *testing.T) {
	level, err := access.ParseLevel("moderator")
	require.NoError(t, err)
	assert.Equal(t, access.LevelModerator, level)

	_, err = access.ParseLevel("owner")
	assert.Error(t, err)
}
