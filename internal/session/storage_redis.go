// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/aegis/internal/platform/constants"
	"github.com/taibuivan/aegis/internal/platform/sec"
)

// # Redis Backend

// sessionIDLength is the byte length of a generated session id.
const sessionIDLength = 32

// sessionIDPattern matches the hex encoding of a generated session id.
var sessionIDPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// RedisBackend keeps the session record in a Redis hash. The client only
// carries an opaque session id cookie.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewRedisBackend creates a Redis-backed session backend. Records expire
// ttl after their last write.
func NewRedisBackend(client *redis.Client, ttl time.Duration, secure bool) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl, secure: secure}
}

// Open implements [Backend]. A malformed session id cookie is ignored.
func (backend *RedisBackend) Open(writer http.ResponseWriter, request *http.Request) (Storage, error) {
	storage := &RedisStorage{backend: backend, writer: writer}

	if cookie, err := request.Cookie(constants.SessionIDCookieName); err == nil && sessionIDPattern.MatchString(cookie.Value) {
		storage.sessionID = cookie.Value
	}

	return storage, nil
}

// RedisStorage is the [Storage] of one session id.
type RedisStorage struct {
	backend   *RedisBackend
	writer    http.ResponseWriter
	sessionID string
}

func (storage *RedisStorage) key() string {
	return constants.RedisPrefixSession + storage.sessionID
}

// Get implements [Storage].
func (storage *RedisStorage) Get(context context.Context, key string) (string, error) {
	if storage.sessionID == "" {
		return "", ErrKeyNotFound
	}

	value, err := storage.backend.client.HGet(context, storage.key(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis_session_get_failed: %w", err)
	}

	return value, nil
}

// Set implements [Storage]. The first write of a request without a session
// id allocates one and sends it to the client.
func (storage *RedisStorage) Set(context context.Context, key, value string) error {
	if storage.sessionID == "" {
		sessionID, err := sec.GenerateSecureToken(sessionIDLength)
		if err != nil {
			return fmt.Errorf("redis_session_id_failed: %w", err)
		}
		storage.sessionID = sessionID
		storage.writeCookie(sessionID, int(storage.backend.ttl/time.Second))
	}

	_, err := storage.backend.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.HSet(context, storage.key(), key, value)
		pipe.Expire(context, storage.key(), storage.backend.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}

	return nil
}

// Renew implements [Renewer]. The hash behind the presented id is dropped and
// the next Set issues a new id cookie.
func (storage *RedisStorage) Renew(context context.Context) error {
	if storage.sessionID == "" {
		return nil
	}

	if err := storage.backend.client.Del(context, storage.key()).Err(); err != nil {
		return fmt.Errorf("redis_session_renew_failed: %w", err)
	}
	storage.sessionID = ""

	return nil
}

// Delete implements [Storage]. Removing every record key also drops the
// session id cookie.
func (storage *RedisStorage) Delete(context context.Context, keys ...string) error {
	if storage.sessionID == "" || len(keys) == 0 {
		return nil
	}

	if err := storage.backend.client.HDel(context, storage.key(), keys...).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}

	remaining, err := storage.backend.client.HLen(context, storage.key()).Result()
	if err != nil {
		return fmt.Errorf("redis_session_len_failed: %w", err)
	}
	if remaining == 0 {
		storage.writeCookie("", -1)
		storage.sessionID = ""
	}

	return nil
}

func (storage *RedisStorage) writeCookie(value string, maxAge int) {
	http.SetCookie(storage.writer, &http.Cookie{
		Name:     constants.SessionIDCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   storage.backend.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
