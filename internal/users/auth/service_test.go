// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/platform/apperr"
	"github.com/taibuivan/aegis/internal/platform/constants"
	"github.com/taibuivan/aegis/internal/platform/sec"
	"github.com/taibuivan/aegis/internal/users/account"
	"github.com/taibuivan/aegis/internal/users/auth"
)

const demoPassword = "aegis2026"

var (
	tokenOnce    sync.Once
	tokenService *sec.TokenService
	demoHash     string
)

// fixtures shares one RSA key and one bcrypt hash across the package's tests.
func fixtures(t *testing.T) (*sec.TokenService, string) {
	t.Helper()

	tokenOnce.Do(func() {
		var err error
		tokenService, err = sec.NewEphemeralTokenService(constants.AuthIssuer)
		if err != nil {
			panic(err)
		}
		demoHash, err = sec.HashPassword(demoPassword)
		if err != nil {
			panic(err)
		}
	})
	return tokenService, demoHash
}

type testEnv struct {
	service *auth.Service
	users   *account.MemoryUserRepository
	tokens  *sec.TokenService
}

func newEnv(t *testing.T) testEnv {
	t.Helper()

	tokens, hash := fixtures(t)
	users := account.NewMemoryUserRepository(account.DemoUsers(hash)...)
	return testEnv{
		service: auth.NewService(users, auth.NewMemoryRefreshTokenRepository(), tokens),
		users:   users,
		tokens:  tokens,
	}
}

/*
TestRegister ensures new accounts start as plain users and duplicates conflict.
*/
func TestRegister(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	user, err := env.service.Register(ctx, auth.RegisterInput{
		Username: "river.watch",
		Email:    "River.Watch@Aegis.local ",
		Password: "levee2026",
		FullName: "River Watch",
	})
	require.NoError(t, err)

	assert.Equal(t, access.RoleUser, user.Role)
	assert.Equal(t, "river.watch@aegis.local", user.Email)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "levee2026", user.PasswordHash)

	_, err = env.service.Register(ctx, auth.RegisterInput{Username: "river.watch", Email: "other@aegis.local", Password: "levee2026"})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)

	_, err = env.service.Register(ctx, auth.RegisterInput{Username: "x", Email: "bad", Password: "short"})
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Len(t, ae.Details, 3)
}

func TestLogin(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		login    string
		password string
		wantRole access.Role
		wantErr  bool
	}{
		{"by_email", "admin@aegis.local", demoPassword, access.RoleAdmin, false},
		{"by_username", "moderator", demoPassword, access.RoleModerator, false},
		{"email_case_insensitive", "Resident@Aegis.local", demoPassword, access.RoleUser, false},
		{"wrong_password", "admin", "nope", 0, true},
		{"unknown_user", "ghost", demoPassword, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			credentials, err := env.service.Login(ctx, auth.LoginInput{Login: tt.login, Password: tt.password})
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantRole, credentials.User.Role)
			assert.NotEmpty(t, credentials.RefreshToken)
			assert.WithinDuration(t, time.Now().Add(constants.RefreshTokenTTL), credentials.RefreshTokenExpiresAt, time.Minute)

			claims, err := env.tokens.VerifyToken(credentials.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, credentials.User.ID, claims.UserID)
			assert.Equal(t, tt.wantRole.String(), claims.Role)
		})
	}
}

/*
TestRefresh_Rotation ensures a refresh token can be exchanged exactly once and
that role changes are picked up.
*/
func TestRefresh_Rotation(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	first, err := env.service.Login(ctx, auth.LoginInput{Login: "resident", Password: demoPassword})
	require.NoError(t, err)

	require.NoError(t, env.users.UpdateRole(ctx, first.User.ID, access.RoleModerator))

	second, err := env.service.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, access.RoleModerator, second.User.Role)

	_, err = env.service.Refresh(ctx, first.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	_, err = env.service.Refresh(ctx, "")
	assert.Error(t, err)
}

func TestLogout_Idempotent(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	credentials, err := env.service.Login(ctx, auth.LoginInput{Login: "admin", Password: demoPassword})
	require.NoError(t, err)

	require.NoError(t, env.service.Logout(ctx, credentials.RefreshToken))
	require.NoError(t, env.service.Logout(ctx, credentials.RefreshToken))
	require.NoError(t, env.service.Logout(ctx, ""))

	_, err = env.service.Refresh(ctx, credentials.RefreshToken)
	assert.Error(t, err)
}
