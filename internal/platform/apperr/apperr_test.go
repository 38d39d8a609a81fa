// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/aegis/internal/platform/apperr"
)

func TestAccessErrors(t *testing.T) {
	denied := apperr.AccessDenied("Moderator")
	assert.Equal(t, http.StatusForbidden, denied.HTTPStatus)
	assert.Equal(t, apperr.CodeAccessDenied, denied.Code)
	assert.Equal(t, "Moderator access required", denied.Error())

	pending := apperr.SessionPending()
	assert.Equal(t, http.StatusServiceUnavailable, pending.HTTPStatus)
	assert.Equal(t, apperr.CodeSessionPending, pending.Code)
}

func TestAsAndIsNotFound(t *testing.T) {
	wrapped := fmt.Errorf("account: lookup: %w", apperr.NotFound("User"))

	require.True(t, apperr.IsAppError(wrapped))
	assert.True(t, apperr.IsNotFound(wrapped))
	assert.Equal(t, "User not found", apperr.As(wrapped).Message)

	assert.False(t, apperr.IsNotFound(apperr.Conflict("taken")))
	assert.False(t, apperr.IsNotFound(errors.New("plain")))
	assert.Nil(t, apperr.As(errors.New("plain")))
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperr.Internal(cause)

	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.Error(), "connection reset")
}
