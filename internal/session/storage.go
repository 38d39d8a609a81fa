// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"net/http"
)

// # Persisted Session Record

// Well-known keys of the persisted session record.
const (
	KeyAuthToken    = "auth_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "auth_user"
)

// recordKeys lists every key removed on logout.
var recordKeys = []string{KeyAuthToken, KeyRefreshToken, KeyUser}

// ErrKeyNotFound is returned by [Storage.Get] when a key is absent.
var ErrKeyNotFound = errors.New("session: key not found")

// Storage is the key-value store that outlives the process for one client.
//
// # Implementations
//   - [MemoryStorage]: process-local map, used in tests and the CLI.
//   - [CookieStorage]: signed and encrypted cookies on the client.
//   - [RedisStorage]: server-side hash addressed by a session id cookie.
type Storage interface {

	/*
		Get returns the value stored under key.

		Returns:
		  - string: The stored value
		  - error: ErrKeyNotFound if absent, or backend failures
	*/
	Get(context context.Context, key string) (string, error)

	// Set stores value under key.
	Set(context context.Context, key, value string) error

	// Delete removes keys. Missing keys are not an error.
	Delete(context context.Context, keys ...string) error
}

// Renewer is implemented by a [Storage] addressed by an identifier the client
// holds. Renew drops the current record and makes the next write allocate a
// fresh identifier, so an identifier planted before login never becomes an
// authenticated session.
type Renewer interface {
	Renew(context context.Context) error
}

// Backend opens the [Storage] of the client behind an HTTP exchange.
//
// Writes made through the returned storage are reflected in writer (cookies)
// or in the backing service, depending on the implementation.
type Backend interface {
	Open(writer http.ResponseWriter, request *http.Request) (Storage, error)
}
