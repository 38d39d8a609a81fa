// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"net/http"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/platform/apperr"
	requestutil "github.com/taibuivan/aegis/internal/platform/request"
	"github.com/taibuivan/aegis/internal/platform/respond"
	"github.com/taibuivan/aegis/internal/session"
)

// AccessSummary tells the frontend what the caller may see and do, so it can
// hide navigation entries the guard would refuse anyway.
type AccessSummary struct {
	Phase       session.Phase       `json:"phase"`
	Role        access.Role         `json:"role"`
	UserID      string              `json:"user_id,omitempty"`
	Permissions []access.Permission `json:"permissions"`
	Routes      []string            `json:"routes"`
}

// AccessHandler serves GET /api/v1/me/access.
type AccessHandler struct {
	routes *access.RouteTable
}

// NewAccessHandler constructs an [AccessHandler] over routes.
func NewAccessHandler(routes *access.RouteTable) *AccessHandler {
	return &AccessHandler{routes: routes}
}

/*
ServeHTTP returns the caller's [AccessSummary]. Anonymous callers get the guest
summary; a session still loading answers 503.

GET /api/v1/me/access
*/
func (handler *AccessHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	state := requestutil.Session(request)
	if state.IsLoading {
		respond.Error(writer, request, apperr.SessionPending())
		return
	}

	role := state.Role()
	summary := AccessSummary{
		Phase:       state.Phase(),
		Role:        role,
		Permissions: role.Permissions(),
		Routes:      handler.routes.Reachable(role),
	}
	if state.User != nil {
		summary.UserID = state.User.ID
	}

	respond.OK(writer, summary)
}

func errMissingPermission(permission access.Permission) error {
	return apperr.Forbidden("Missing permission: " + string(permission))
}
