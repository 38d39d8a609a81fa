// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/platform/sec"
	"github.com/taibuivan/aegis/internal/session"
	"github.com/taibuivan/aegis/internal/users/account"
)

func testUser(role access.Role) *account.User {
	created := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	return &account.User{
		ID:        "0194b2a0-1111-7000-8000-000000000001",
		Email:     "operator@aegis.local",
		Username:  "operator",
		FullName:  "Shift Operator",
		Role:      role,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// failingStorage fails every write.
type failingStorage struct {
	*session.MemoryStorage
}

func (failingStorage) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

/*
TestHolder_Lifecycle walks uninitialized → anonymous → authenticated → anonymous.
*/
func TestHolder_Lifecycle(t *testing.T) {
	ctx := context.Background()
	storage := session.NewMemoryStorage()
	holder := session.NewHolder(storage)

	// 1. Fresh holder is loading
	state := holder.State()
	assert.True(t, state.IsLoading)
	assert.Nil(t, state.User)
	assert.Equal(t, session.PhaseUninitialized, state.Phase())

	// 2. Nothing persisted settles to anonymous
	state = holder.Initialize(ctx)
	assert.False(t, state.IsLoading)
	assert.False(t, state.IsAuthenticated)
	assert.Equal(t, session.PhaseAnonymous, state.Phase())

	// 3. Login persists and authenticates
	user := testUser(access.RoleModerator)
	require.NoError(t, holder.Login(ctx, user, session.Credentials{AccessToken: "access", RefreshToken: "refresh"}))

	state = holder.State()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, session.PhaseAuthenticated, state.Phase())
	assert.Equal(t, user, holder.PersistedUser(ctx))

	refresh, err := holder.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refresh)

	// 4. Logout clears state and every persisted key
	require.NoError(t, holder.Logout(ctx))
	assert.False(t, holder.State().IsAuthenticated)
	assert.Nil(t, holder.PersistedUser(ctx))

	for _, key := range []string{session.KeyAuthToken, session.KeyRefreshToken, session.KeyUser} {
		_, err := storage.Get(ctx, key)
		assert.ErrorIs(t, err, session.ErrKeyNotFound, "key=%s", key)
	}
}

/*
TestHolder_InitializeRestores checks that a record written by one holder is
restored by the next one, as after a process restart.
*/
func TestHolder_InitializeRestores(t *testing.T) {
	ctx := context.Background()
	storage := session.NewMemoryStorage()
	user := testUser(access.RoleAdmin)

	first := session.NewHolder(storage)
	require.NoError(t, first.Login(ctx, user, session.Credentials{AccessToken: "access"}))

	second := session.NewHolder(storage)
	state := second.Initialize(ctx)

	require.True(t, state.IsAuthenticated)
	assert.Equal(t, user.ID, state.User.ID)
	assert.Equal(t, access.RoleAdmin, state.User.Role)
	assert.False(t, state.IsLoading)
}

func TestHolder_InitializeRunsOnce(t *testing.T) {
	ctx := context.Background()
	storage := session.NewMemoryStorage()
	holder := session.NewHolder(storage)

	assert.False(t, holder.Initialize(ctx).IsAuthenticated)

	// A record appearing later is not picked up by a second Initialize.
	require.NoError(t, session.NewHolder(storage).Login(ctx, testUser(access.RoleUser), session.Credentials{AccessToken: "a"}))
	assert.False(t, holder.Initialize(ctx).IsAuthenticated)
}

/*
TestHolder_MalformedRecord covers partial or corrupt records. All of them
settle to anonymous.
*/
func TestHolder_MalformedRecord(t *testing.T) {
	validUser := `{"id":"u1","email":"a@b.c","username":"a","role":"user"}`

	tests := []struct {
		name   string
		values map[string]string
	}{
		{"token_without_user", map[string]string{session.KeyAuthToken: "t"}},
		{"user_without_token", map[string]string{session.KeyUser: validUser}},
		{"empty_token", map[string]string{session.KeyAuthToken: "", session.KeyUser: validUser}},
		{"corrupt_json", map[string]string{session.KeyAuthToken: "t", session.KeyUser: "{not json"}},
		{"unknown_role", map[string]string{session.KeyAuthToken: "t", session.KeyUser: `{"id":"u1","email":"a@b.c","username":"a","role":"root"}`}},
		{"guest_role", map[string]string{session.KeyAuthToken: "t", session.KeyUser: `{"id":"u1","email":"a@b.c","username":"a","role":"guest"}`}},
		{"missing_id", map[string]string{session.KeyAuthToken: "t", session.KeyUser: `{"email":"a@b.c","username":"a","role":"user"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			storage := session.NewMemoryStorage()
			for key, value := range tt.values {
				require.NoError(t, storage.Set(ctx, key, value))
			}

			state := session.NewHolder(storage).Initialize(ctx)
			assert.Equal(t, session.PhaseAnonymous, state.Phase())
			assert.Nil(t, state.User)
		})
	}
}

func TestHolder_VerifierGate(t *testing.T) {
	ctx := context.Background()
	tokens, err := sec.NewEphemeralTokenService("aegis.test")
	require.NoError(t, err)

	user := testUser(access.RoleUser)

	valid, err := tokens.GenerateAccessToken(user.ID, user.Username, user.Role.String(), time.Minute)
	require.NoError(t, err)
	otherSubject, err := tokens.GenerateAccessToken("someone-else", "x", "admin", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  session.Phase
	}{
		{"valid_token", valid, session.PhaseAuthenticated},
		{"subject_mismatch", otherSubject, session.PhaseAnonymous},
		{"garbage", "garbage", session.PhaseAnonymous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := session.NewMemoryStorage()
			require.NoError(t, session.NewHolder(storage).Login(ctx, user, session.Credentials{AccessToken: tt.token}))

			state := session.NewHolder(storage, session.WithVerifier(tokens)).Initialize(ctx)
			assert.Equal(t, tt.want, state.Phase())
		})
	}
}

func TestHolder_LoginFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	holder := session.NewHolder(failingStorage{session.NewMemoryStorage()})
	holder.Initialize(ctx)

	err := holder.Login(ctx, testUser(access.RoleUser), session.Credentials{AccessToken: "a"})
	require.Error(t, err)
	assert.Equal(t, session.PhaseAnonymous, holder.State().Phase())
}

func TestHolder_LoginRejectsInvalidUser(t *testing.T) {
	ctx := context.Background()
	holder := session.NewHolder(session.NewMemoryStorage())

	assert.Error(t, holder.Login(ctx, nil, session.Credentials{}))
	assert.Error(t, holder.Login(ctx, testUser(access.RoleGuest), session.Credentials{}))
	assert.True(t, holder.State().IsLoading)
}

func TestHolder_LoginBeforeInitialize(t *testing.T) {
	ctx := context.Background()
	holder := session.NewHolder(session.NewMemoryStorage())

	require.NoError(t, holder.Login(ctx, testUser(access.RoleUser), session.Credentials{AccessToken: "a"}))
	state := holder.Initialize(ctx)

	assert.True(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
}

/*
TestHolder_LoginFailureBeforeInitialize checks that a failed write does not
strand an uninitialized holder in the loading phase.
*/
func TestHolder_LoginFailureBeforeInitialize(t *testing.T) {
	ctx := context.Background()
	holder := session.NewHolder(failingStorage{session.NewMemoryStorage()})

	require.Error(t, holder.Login(ctx, testUser(access.RoleUser), session.Credentials{AccessToken: "a"}))
	assert.True(t, holder.State().IsLoading)

	state := holder.Initialize(ctx)
	assert.False(t, state.IsLoading)
	assert.Equal(t, session.PhaseAnonymous, state.Phase())
}

// renewingStorage counts renewals.
type renewingStorage struct {
	*session.MemoryStorage
	renewals int
}

func (storage *renewingStorage) Renew(ctx context.Context) error {
	storage.renewals++
	return storage.Delete(ctx, session.KeyAuthToken, session.KeyRefreshToken, session.KeyUser)
}

func TestHolder_LoginRenewsStorage(t *testing.T) {
	ctx := context.Background()
	storage := &renewingStorage{MemoryStorage: session.NewMemoryStorage()}
	holder := session.NewHolder(storage)
	holder.Initialize(ctx)

	require.NoError(t, holder.Login(ctx, testUser(access.RoleUser), session.Credentials{AccessToken: "a", RefreshToken: "r"}))
	assert.Equal(t, 1, storage.renewals)
	assert.True(t, holder.State().IsAuthenticated)

	token, err := holder.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r", token)
}
