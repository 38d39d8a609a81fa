// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/session"
)

func TestLoad_BindsInitializedHolder(t *testing.T) {
	backend := session.NewMemoryBackend()
	require.NoError(t, session.NewHolder(backend.Storage).Login(context.Background(), testUser(access.RoleUser), session.Credentials{AccessToken: "a"}))

	var observed session.State
	handler := session.Load(backend)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		observed = session.StateFromContext(request.Context())
		writer.WriteHeader(http.StatusNoContent)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.False(t, observed.IsLoading)
	assert.True(t, observed.IsAuthenticated)
}

func TestStateFromContext_WithoutHolderIsLoading(t *testing.T) {
	state := session.StateFromContext(context.Background())
	assert.True(t, state.IsLoading)
	assert.Nil(t, session.FromContext(context.Background()))
}
