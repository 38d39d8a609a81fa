// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It hides chi's parameter extraction and the session lookup behind small helpers
so handlers read the same way across domains.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/aegis/internal/platform/apperr"
	"github.com/taibuivan/aegis/internal/platform/validate"
	"github.com/taibuivan/aegis/internal/session"
	"github.com/taibuivan/aegis/internal/users/account"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

var errNoHolder = errors.New("requestutil: no session holder bound to request")

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (used to bound the body size)
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)

	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Session returns the session state bound to the request. Requests that never
passed through session.Load report the loading state.
*/
func Session(request *http.Request) session.State {
	return session.StateFromContext(request.Context())
}

/*
RequiredUser ensures the request carries an authenticated session and returns
its user.

Returns:
  - *account.User: The signed-in user
  - error: apperr.SessionPending while loading, apperr.Unauthorized when anonymous
*/
func RequiredUser(request *http.Request) (*account.User, error) {
	state := Session(request)

	if state.IsLoading {
		return nil, apperr.SessionPending()
	}
	if state.User == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return state.User, nil
}

/*
RequiredHolder returns the session holder bound to the request.

Returns:
  - *session.Holder: The per-client holder
  - error: apperr.Internal if session.Load was not mounted
*/
func RequiredHolder(request *http.Request) (*session.Holder, error) {
	holder := session.FromContext(request.Context())
	if holder == nil {
		return nil, apperr.Internal(errNoHolder)
	}
	return holder, nil
}
