// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/session"
	"github.com/taibuivan/aegis/internal/users/account"
)

// userFor returns a demo identity holding role.
func userFor(role access.Role) *account.User {
	return &account.User{
		ID:       fmt.Sprintf("0194b2a0-0000-7000-8000-%012d", uint8(role)),
		Email:    role.String() + "@aegis.local",
		Username: role.String(),
		Role:     role,
	}
}

// serve runs one request through handler with a settled session for role;
// RoleGuest means anonymous.
func serve(t *testing.T, handler http.Handler, role access.Role, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	holder := session.NewHolder(session.NewMemoryStorage())
	holder.Initialize(context.Background())
	if role != access.RoleGuest {
		require.NoError(t, holder.Login(context.Background(), userFor(role), session.Credentials{AccessToken: "t"}))
	}

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	request := httptest.NewRequest(method, path, reader)
	request = request.WithContext(session.WithHolder(request.Context(), holder))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}
