// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Repository Contracts

// RefreshTokenRepository stores hashed refresh tokens. Raw tokens never reach
// a store; callers pass [sec.HashToken] digests.
type RefreshTokenRepository interface {

	/*
		Save records that tokenHash belongs to userID until ttl elapses.

		Returns:
		  - error: Storage failures
	*/
	Save(context context.Context, tokenHash, userID string, ttl time.Duration) error

	/*
		Consume atomically looks up and deletes a token, so a refresh token can
		be exchanged at most once.

		Returns:
		  - string: Owning user ID
		  - error: apperr.Unauthorized if absent or expired, or storage failures
	*/
	Consume(context context.Context, tokenHash string) (string, error)

	// Revoke deletes a token. Revoking an unknown token is not an error.
	Revoke(context context.Context, tokenHash string) error
}
