// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/platform/middleware"
	requestutil "github.com/taibuivan/aegis/internal/platform/request"
	"github.com/taibuivan/aegis/internal/platform/respond"
	"github.com/taibuivan/aegis/pkg/pagination"
	"github.com/taibuivan/aegis/pkg/query"
	"github.com/taibuivan/aegis/pkg/slice"
)

// PlanHandler implements the /api/v1/eops endpoints.
type PlanHandler struct {
	service *PlanService
}

// NewPlanHandler constructs a [PlanHandler].
func NewPlanHandler(service *PlanService) *PlanHandler {
	return &PlanHandler{service: service}
}

// Routes returns the plan router.
//
// # Endpoints
//   - GET    /        : view-eop   (paginated; ?status=, ?min_severity=)
//   - GET    /{slug}  : view-eop
//   - POST   /        : create-eop
//   - PATCH  /{slug}  : edit-eop
//   - DELETE /{slug}  : delete-eop
func (handler *PlanHandler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.RequirePermission(access.PermViewEOP)).Get("/", handler.list)
	router.With(middleware.RequirePermission(access.PermViewEOP)).Get("/{slug}", handler.get)
	router.With(middleware.RequirePermission(access.PermCreateEOP)).Post("/", handler.create)
	router.With(middleware.RequirePermission(access.PermEditEOP)).Patch("/{slug}", handler.update)
	router.With(middleware.RequirePermission(access.PermDeleteEOP)).Delete("/{slug}", handler.delete)

	return router
}

type createPlanRequest struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Area     string `json:"area"`
	Severity int    `json:"severity"`
}

type updatePlanRequest struct {
	Title    *string `json:"title"`
	Summary  *string `json:"summary"`
	Area     *string `json:"area"`
	Severity *int    `json:"severity"`
	Status   *string `json:"status"`
}

/*
List returns one page of plans, newest first.

GET /api/v1/eops?page=&limit=&status=draft,active&min_severity=3
*/
func (handler *PlanHandler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := PlanFilter{
		Statuses:    slice.Map(query.Strings(request, FieldStatus), func(raw string) PlanStatus { return PlanStatus(raw) }),
		MinSeverity: query.Int(request, "min_severity", 0),
	}

	plans, total := handler.service.List(request.Context(), filter, params)
	respond.Paginated(writer, plans, pagination.NewMeta(params, total))
}

/*
Get returns a single plan.

GET /api/v1/eops/{slug}

Response:
  - 200: Plan
  - 404: Unknown slug
*/
func (handler *PlanHandler) get(writer http.ResponseWriter, request *http.Request) {
	plan, err := handler.service.Get(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, plan)
}

/*
Create stores a new draft plan.

POST /api/v1/eops

Response:
  - 201: Plan
  - 400: Validation failure
*/
func (handler *PlanHandler) create(writer http.ResponseWriter, request *http.Request) {
	author, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createPlanRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	plan, err := handler.service.Create(request.Context(), author, CreatePlanInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, plan)
}

/*
Update applies a partial update.

PATCH /api/v1/eops/{slug}

Response:
  - 200: Plan
  - 400: Validation failure
  - 404: Unknown slug
*/
func (handler *PlanHandler) update(writer http.ResponseWriter, request *http.Request) {
	var input updatePlanRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	plan, err := handler.service.Update(request.Context(), requestutil.Param(request, "slug"), UpdatePlanInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, plan)
}

/*
Delete removes a plan.

DELETE /api/v1/eops/{slug}

Response:
  - 204: No Content
  - 404: Unknown slug
*/
func (handler *PlanHandler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
