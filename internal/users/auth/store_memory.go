// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/aegis/internal/platform/apperr"
)

type memoryRefreshToken struct {
	userID    string
	expiresAt time.Time
}

// MemoryRefreshTokenRepository keeps refresh tokens in process memory. Tokens
// do not survive a restart.
type MemoryRefreshTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]memoryRefreshToken
	now    func() time.Time
}

// NewMemoryRefreshTokenRepository creates an empty repository.
func NewMemoryRefreshTokenRepository() *MemoryRefreshTokenRepository {
	return &MemoryRefreshTokenRepository{
		tokens: make(map[string]memoryRefreshToken),
		now:    time.Now,
	}
}

// Save implements [RefreshTokenRepository].
func (repository *MemoryRefreshTokenRepository) Save(_ context.Context, tokenHash, userID string, ttl time.Duration) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.tokens[tokenHash] = memoryRefreshToken{userID: userID, expiresAt: repository.now().Add(ttl)}
	return nil
}

// Consume implements [RefreshTokenRepository].
func (repository *MemoryRefreshTokenRepository) Consume(_ context.Context, tokenHash string) (string, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	token, found := repository.tokens[tokenHash]
	delete(repository.tokens, tokenHash)

	if !found || !repository.now().Before(token.expiresAt) {
		return "", errInvalidRefreshToken()
	}
	return token.userID, nil
}

// Revoke implements [RefreshTokenRepository].
func (repository *MemoryRefreshTokenRepository) Revoke(_ context.Context, tokenHash string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	delete(repository.tokens, tokenHash)
	return nil
}

func errInvalidRefreshToken() *apperr.AppError {
	return apperr.Unauthorized("Refresh token is invalid or expired")
}
