// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/aegis/internal/platform/constants"
)

// RedisRefreshTokenRepository implements [RefreshTokenRepository] using Redis
// string keys with a TTL.
type RedisRefreshTokenRepository struct {
	client *redis.Client
}

// NewRedisRefreshTokenRepository creates a new Redis-backed repository.
func NewRedisRefreshTokenRepository(client *redis.Client) *RedisRefreshTokenRepository {
	return &RedisRefreshTokenRepository{client: client}
}

func refreshTokenKey(tokenHash string) string {
	return constants.RedisPrefixRefreshToken + tokenHash
}

/*
Save stores a token digest with its owning user and TTL.

Returns:
  - error: Execution errors
*/
func (repository *RedisRefreshTokenRepository) Save(context context.Context, tokenHash, userID string, ttl time.Duration) error {
	if err := repository.client.Set(context, refreshTokenKey(tokenHash), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_refresh_token_set_failed: %w", err)
	}
	return nil
}

/*
Consume reads and deletes the token in one GETDEL round trip.

Returns:
  - string: Owning user ID
  - error: apperr.Unauthorized when absent, or connectivity errors
*/
func (repository *RedisRefreshTokenRepository) Consume(context context.Context, tokenHash string) (string, error) {
	userID, err := repository.client.GetDel(context, refreshTokenKey(tokenHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errInvalidRefreshToken()
		}
		return "", fmt.Errorf("redis_refresh_token_getdel_failed: %w", err)
	}
	return userID, nil
}

// Revoke deletes the token from Redis.
func (repository *RedisRefreshTokenRepository) Revoke(context context.Context, tokenHash string) error {
	if err := repository.client.Del(context, refreshTokenKey(tokenHash)).Err(); err != nil {
		return fmt.Errorf("redis_refresh_token_delete_failed: %w", err)
	}
	return nil
}
