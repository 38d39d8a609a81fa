// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/dashboard"
	"github.com/taibuivan/aegis/internal/guard"
)

func pageRouter(routes *access.RouteTable) http.Handler {
	router := chi.NewRouter()
	dashboard.NewPageHandler(guard.New(routes, access.RouteLogin)).Register(router)
	return router
}

/*
TestPages_EveryRouteHonoursItsLevel walks the whole route table with every
role and checks the HTTP outcome against the table.
*/
func TestPages_EveryRouteHonoursItsLevel(t *testing.T) {
	routes := access.DefaultRoutes()
	router := pageRouter(routes)

	for _, role := range access.AllRoles() {
		for _, entry := range routes.Entries() {
			recorder := serve(t, router, role, http.MethodGet, entry.Path, "")

			switch {
			case entry.Level.SatisfiedBy(role):
				assert.Equal(t, http.StatusOK, recorder.Code, "role=%s path=%s", role, entry.Path)
			case role == access.RoleGuest:
				assert.Equal(t, http.StatusFound, recorder.Code, "role=%s path=%s", role, entry.Path)
			default:
				assert.Equal(t, http.StatusForbidden, recorder.Code, "role=%s path=%s", role, entry.Path)
			}
		}
	}
}

func TestPages_Descriptor(t *testing.T) {
	router := pageRouter(access.DefaultRoutes())

	recorder := serve(t, router, access.RoleModerator, http.MethodGet, access.RouteEOP, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data dashboard.Page `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	page := envelope.Data
	assert.Equal(t, "/eop", page.Path)
	assert.Equal(t, access.LevelUser, page.RequiredLevel)
	assert.True(t, page.Permissions[access.PermCreateEOP])
	assert.True(t, page.Permissions[access.PermEditEOP])
	assert.False(t, page.Permissions[access.PermDeleteEOP])

	var raw struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &raw))
	assert.Contains(t, raw.Data, "permissions")
}

func TestPages_UnlistedPath(t *testing.T) {
	// Default fallback is public: the visitor reaches the 404.
	assert.Equal(t, http.StatusNotFound, serve(t, pageRouter(access.DefaultRoutes()), access.RoleGuest, http.MethodGet, "/nowhere", "").Code)

	// Fail-closed fallback: the guard answers first.
	closed := pageRouter(access.DefaultRoutes().WithFallback(access.LevelUser))
	assert.Equal(t, http.StatusFound, serve(t, closed, access.RoleGuest, http.MethodGet, "/nowhere", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, closed, access.RoleUser, http.MethodGet, "/nowhere", "").Code)
}
