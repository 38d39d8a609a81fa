// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/aegis/internal/platform/apperr"
	"github.com/taibuivan/aegis/internal/platform/ctxkey"
	"github.com/taibuivan/aegis/internal/platform/ctxutil"
	"github.com/taibuivan/aegis/internal/platform/respond"
)

// # Context Binding

// WithHolder returns a new context carrying holder.
func WithHolder(ctx context.Context, holder *Holder) context.Context {
	return context.WithValue(ctx, ctxkey.KeySession, holder)
}

// FromContext returns the holder bound to ctx, or nil.
func FromContext(ctx context.Context) *Holder {
	holder, _ := ctx.Value(ctxkey.KeySession).(*Holder)
	return holder
}

// StateFromContext returns the state bound to ctx. Without a holder the
// session counts as still loading, so guards hold their decision.
func StateFromContext(ctx context.Context) State {
	holder := FromContext(ctx)
	if holder == nil {
		return Uninitialized()
	}
	return holder.State()
}

// # Middleware

// Load opens the client's storage, restores the session and binds the
// [Holder] to the request context.
//
// # Flow
//  1. Open the [Storage] for this exchange via the [Backend].
//  2. Build a [Holder] with the given options.
//  3. Run [Holder.Initialize] before any downstream guard reads the state.
func Load(backend Backend, options ...Option) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Storage ────────────────────────────────────────────────────
			storage, err := backend.Open(writer, request)
			if err != nil {
				respond.Error(writer, request, apperr.Internal(err))
				return
			}

			// ── 2. Restore ────────────────────────────────────────────────────
			holder := NewHolder(storage, options...)
			state := holder.Initialize(request.Context())

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := WithHolder(request.Context(), holder)
			if state.User != nil {
				logger := ctxutil.GetLogger(ctx).With(slog.String("user_id", state.User.ID))
				ctx = ctxutil.WithLogger(ctx, logger)
			}

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
