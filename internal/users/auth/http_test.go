// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/platform/constants"
	"github.com/taibuivan/aegis/internal/session"
	"github.com/taibuivan/aegis/internal/users/auth"
)

// newRouter mounts the auth routes behind a single shared session backend, so
// consecutive requests behave like one browser.
func newRouter(t *testing.T) (http.Handler, *session.MemoryBackend) {
	t.Helper()

	env := newEnv(t)
	backend := session.NewMemoryBackend()

	router := chi.NewRouter()
	router.Use(session.Load(backend))
	router.Mount("/api/v1/auth", auth.NewHandler(env.service, false).Routes())
	return router, backend
}

func post(router http.Handler, path, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestHTTP_LoginEstablishesSession(t *testing.T) {
	router, backend := newRouter(t)

	recorder := post(router, "/api/v1/auth/login", `{"login":"admin","password":"`+demoPassword+`"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
			ExpiresIn   int    `json:"expires_in"`
			User        struct {
				Role access.Role `json:"role"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.Equal(t, 900, envelope.Data.ExpiresIn)
	assert.Equal(t, access.RoleAdmin, envelope.Data.User.Role)

	var refreshCookie *http.Cookie
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.RefreshTokenCookieName {
			refreshCookie = cookie
		}
	}
	require.NotNil(t, refreshCookie)
	assert.True(t, refreshCookie.HttpOnly)

	// The next request restores the persisted record.
	restored := session.NewHolder(backend.Storage).Initialize(context.Background())
	assert.Equal(t, session.PhaseAuthenticated, restored.Phase())
	assert.True(t, restored.IsAdmin())

	me := httptest.NewRecorder()
	router.ServeHTTP(me, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"username":"admin"`)
}

func TestHTTP_LogoutClearsSession(t *testing.T) {
	router, backend := newRouter(t)

	require.Equal(t, http.StatusOK, post(router, "/api/v1/auth/login", `{"login":"resident","password":"`+demoPassword+`"}`).Code)
	require.Equal(t, http.StatusNoContent, post(router, "/api/v1/auth/logout", "").Code)

	restored := session.NewHolder(backend.Storage).Initialize(context.Background())
	assert.Equal(t, session.PhaseAnonymous, restored.Phase())

	me := httptest.NewRecorder()
	router.ServeHTTP(me, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, me.Code)

	// Logging out twice is harmless.
	assert.Equal(t, http.StatusNoContent, post(router, "/api/v1/auth/logout", "").Code)
}

func TestHTTP_RefreshFromSessionRecord(t *testing.T) {
	router, _ := newRouter(t)

	require.Equal(t, http.StatusOK, post(router, "/api/v1/auth/login", `{"login":"moderator","password":"`+demoPassword+`"}`).Code)

	// No cookie is sent; the refresh token comes from the session record.
	assert.Equal(t, http.StatusOK, post(router, "/api/v1/auth/refresh", "").Code)
}

func TestHTTP_RegisterAndBadInput(t *testing.T) {
	router, _ := newRouter(t)

	created := post(router, "/api/v1/auth/register", `{"username":"shelter.lead","email":"lead@aegis.local","password":"shelter42"}`)
	assert.Equal(t, http.StatusCreated, created.Code)
	assert.NotContains(t, created.Body.String(), "password")

	assert.Equal(t, http.StatusBadRequest, post(router, "/api/v1/auth/register", `{"username":`).Code)
	assert.Equal(t, http.StatusBadRequest, post(router, "/api/v1/auth/login", `{"login":"admin","role":"admin"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, post(router, "/api/v1/auth/login", `{"login":"admin","password":"wrong"}`).Code)
}

// stuckBackend serves a storage that cannot delete its record.
type stuckBackend struct {
	storage *session.MemoryStorage
}

type stuckStorage struct {
	*session.MemoryStorage
}

func (stuckStorage) Delete(context.Context, ...string) error {
	return errors.New("connection reset")
}

func (backend stuckBackend) Open(http.ResponseWriter, *http.Request) (session.Storage, error) {
	return stuckStorage{backend.storage}, nil
}

func TestHTTP_LogoutReportsStorageFailure(t *testing.T) {
	env := newEnv(t)
	storage := session.NewMemoryStorage()

	router := chi.NewRouter()
	router.Use(session.Load(stuckBackend{storage: storage}))
	router.Mount("/api/v1/auth", auth.NewHandler(env.service, false).Routes())

	require.Equal(t, http.StatusOK, post(router, "/api/v1/auth/login", `{"login":"resident","password":"`+demoPassword+`"}`).Code)

	recorder := post(router, "/api/v1/auth/logout", "")
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")

	// The record the client still holds was not cleared.
	assert.NotNil(t, session.NewHolder(storage).PersistedUser(context.Background()))
}
