// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/platform/middleware"
	requestutil "github.com/taibuivan/aegis/internal/platform/request"
	"github.com/taibuivan/aegis/internal/platform/respond"
	"github.com/taibuivan/aegis/pkg/pagination"
)

// Handler implements the user-management endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted at /api/v1/admin/users.
//
// # Endpoints
//   - GET   /           : Paginated account list.
//   - PATCH /{id}/role  : Change an account's role.
//
// Both require the manage-users permission.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequirePermission(access.PermManageUsers))

	router.Get("/", handler.list)
	router.Patch("/{id}/role", handler.changeRole)

	return router
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

/*
List returns one page of accounts.

GET /api/v1/admin/users?page=&limit=

Response:
  - 200: []User with pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.service.ListUsers(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params, total))
}

/*
ChangeRole assigns a new role to an account.

PATCH /api/v1/admin/users/{id}/role

Request:
  - Body: changeRoleRequest (Role)

Response:
  - 200: User: The updated account
  - 400: Unknown or unassignable role
  - 403: Changing one's own role
  - 404: No such account
*/
func (handler *Handler) changeRole(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changeRoleRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.ChangeRole(request.Context(), actor, ChangeRoleInput{
		UserID: requestutil.Param(request, "id"),
		Role:   input.Role,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
