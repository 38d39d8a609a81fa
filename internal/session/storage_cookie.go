// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

// # Cookie Backend

// CookieBackend keeps the session record on the client, one cookie per key.
//
// Values are HMAC-signed with the hash key and AES-encrypted with the block
// key, so the user record can be trusted when it comes back.
type CookieBackend struct {
	codec  *securecookie.SecureCookie
	maxAge int
	secure bool
}

// NewCookieBackend creates a cookie backend. blockKey may be nil to sign
// without encrypting.
func NewCookieBackend(hashKey, blockKey []byte, ttl time.Duration, secure bool) *CookieBackend {
	maxAge := int(ttl / time.Second)

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(maxAge)

	return &CookieBackend{codec: codec, maxAge: maxAge, secure: secure}
}

// Open implements [Backend].
func (backend *CookieBackend) Open(writer http.ResponseWriter, request *http.Request) (Storage, error) {
	return &CookieStorage{
		backend: backend,
		writer:  writer,
		request: request,
		pending: make(map[string]*string),
	}, nil
}

// CookieStorage is the [Storage] view of one request's cookies.
//
// Writes are sent as Set-Cookie headers and also remembered locally so that
// later reads within the same request observe them.
type CookieStorage struct {
	backend *CookieBackend
	writer  http.ResponseWriter
	request *http.Request

	// pending holds values written during this request; nil marks a deletion.
	pending map[string]*string
}

// Get implements [Storage]. Cookies that fail verification are reported as errors.
func (storage *CookieStorage) Get(_ context.Context, key string) (string, error) {
	if value, ok := storage.pending[key]; ok {
		if value == nil {
			return "", ErrKeyNotFound
		}
		return *value, nil
	}

	cookie, err := storage.request.Cookie(key)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("session: read cookie %q: %w", key, err)
	}

	var value string
	if err := storage.backend.codec.Decode(key, cookie.Value, &value); err != nil {
		return "", fmt.Errorf("session: decode cookie %q: %w", key, err)
	}
	return value, nil
}

// Set implements [Storage].
func (storage *CookieStorage) Set(_ context.Context, key, value string) error {
	encoded, err := storage.backend.codec.Encode(key, value)
	if err != nil {
		return fmt.Errorf("session: encode cookie %q: %w", key, err)
	}

	http.SetCookie(storage.writer, storage.cookie(key, encoded, storage.backend.maxAge))
	storage.pending[key] = &value
	return nil
}

// Delete implements [Storage].
func (storage *CookieStorage) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		http.SetCookie(storage.writer, storage.cookie(key, "", -1))
		storage.pending[key] = nil
	}
	return nil
}

func (storage *CookieStorage) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   storage.backend.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
