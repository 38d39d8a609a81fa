// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/platform/constants"
	"github.com/taibuivan/aegis/internal/platform/middleware"
	"github.com/taibuivan/aegis/internal/session"
	"github.com/taibuivan/aegis/internal/users/account"
)

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

// withRole binds a holder for role (guest means anonymous).
func withRole(t *testing.T, request *http.Request, role access.Role) *http.Request {
	t.Helper()

	holder := session.NewHolder(session.NewMemoryStorage())
	holder.Initialize(context.Background())

	if role != access.RoleGuest {
		user := &account.User{ID: "u-1", Email: "u@aegis.local", Username: "u", Role: role}
		require.NoError(t, holder.Login(context.Background(), user, session.Credentials{AccessToken: "t"}))
	}

	return request.WithContext(session.WithHolder(request.Context(), holder))
}

func run(handler http.Handler, request *http.Request) int {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder.Code
}

/*
TestRequirePermission walks the role ladder through a moderator-only action.
*/
func TestRequirePermission(t *testing.T) {
	handler := middleware.RequirePermission(access.PermCreateEOP)(okHandler)

	tests := []struct {
		role access.Role
		want int
	}{
		{access.RoleGuest, http.StatusUnauthorized},
		{access.RoleUser, http.StatusForbidden},
		{access.RoleModerator, http.StatusOK},
		{access.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			request := withRole(t, httptest.NewRequest(http.MethodPost, "/api/v1/eops", nil), tt.role)
			assert.Equal(t, tt.want, run(handler, request))
		})
	}
}

func TestRequireAnyPermission(t *testing.T) {
	handler := middleware.RequireAnyPermission(access.PermManageUsers, access.PermViewReports)(okHandler)

	assert.Equal(t, http.StatusForbidden, run(handler, withRole(t, httptest.NewRequest(http.MethodGet, "/", nil), access.RoleUser)))
	assert.Equal(t, http.StatusOK, run(handler, withRole(t, httptest.NewRequest(http.MethodGet, "/", nil), access.RoleModerator)))

	empty := middleware.RequireAnyPermission()(okHandler)
	assert.Equal(t, http.StatusForbidden, run(empty, withRole(t, httptest.NewRequest(http.MethodGet, "/", nil), access.RoleAdmin)))
}

func TestRequireRole(t *testing.T) {
	handler := middleware.RequireRole(access.RoleAdmin)(okHandler)

	assert.Equal(t, http.StatusForbidden, run(handler, withRole(t, httptest.NewRequest(http.MethodGet, "/", nil), access.RoleModerator)))
	assert.Equal(t, http.StatusOK, run(handler, withRole(t, httptest.NewRequest(http.MethodGet, "/", nil), access.RoleAdmin)))
}

func TestRequireAuth_NoSession(t *testing.T) {
	recorder := httptest.NewRecorder()
	middleware.RequireAuth(okHandler).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Equal(t, "1", recorder.Header().Get(constants.HeaderRetryAfter))
}

type corsConfig struct{ dev bool }

func (c corsConfig) IsDevelopment() bool  { return c.dev }
func (c corsConfig) OriginSuffix() string { return "aegis.app" }

func TestCORS(t *testing.T) {
	handler := middleware.CORS(corsConfig{})(okHandler)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderOrigin, "https://ops.aegis.app")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "https://ops.aegis.app", recorder.Header().Get("Access-Control-Allow-Origin"))

	request = httptest.NewRequest(http.MethodOptions, "/", nil)
	request.Header.Set(constants.HeaderOrigin, "https://evil.example")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestRequestID(t *testing.T) {
	recorder := httptest.NewRecorder()
	middleware.RequestID()(okHandler).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, recorder.Header().Get(constants.HeaderXRequestID), 36)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "req-42")
	recorder = httptest.NewRecorder()
	middleware.RequestID()(okHandler).ServeHTTP(recorder, request)
	assert.Equal(t, "req-42", recorder.Header().Get(constants.HeaderXRequestID))
}

func TestPanicRecovery(t *testing.T) {
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })

	recorder := httptest.NewRecorder()
	middleware.PanicRecovery(nil)(panicking).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}
