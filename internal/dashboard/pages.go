// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package dashboard serves the emergency-management dashboard: one JSON page
descriptor per route in the access table, plus the data APIs those pages call
(emergency operation plans, the community feed, the caller's access summary).

Architecture:

  - Pages: mounted behind [guard.Protect]; the guard alone decides render,
    redirect, denied or pending.
  - APIs: mounted behind permission middleware, since their paths (plan slugs,
    post ids) are not in the exact-match route table.
*/
package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/guard"
	"github.com/taibuivan/aegis/internal/platform/apperr"
	requestutil "github.com/taibuivan/aegis/internal/platform/request"
	"github.com/taibuivan/aegis/internal/platform/respond"
)

// # Page Catalogue

// Page describes one dashboard page for the frontend.
type Page struct {
	Path          string                     `json:"path"`
	Title         string                     `json:"title"`
	RequiredLevel access.Level               `json:"required_level"`
	Permissions   map[access.Permission]bool `json:"permissions"`
}

type pageSpec struct {
	title   string
	actions []access.Permission
}

// pageSpecs lists the title and the actions offered on each page.
var pageSpecs = map[string]pageSpec{
	access.RouteHome:           {title: "Aegis"},
	access.RouteLogin:          {title: "Sign in"},
	access.RouteSignup:         {title: "Create account"},
	access.RouteAbout:          {title: "About"},
	access.RouteDashboard:      {title: "Dashboard", actions: []access.Permission{access.PermViewDashboard}},
	access.RouteCommunity:      {title: "Community", actions: []access.Permission{access.PermViewFeed, access.PermCreatePost, access.PermCommentPost}},
	access.RouteDisasterMap:    {title: "Disaster map", actions: []access.Permission{access.PermViewMap}},
	access.RouteEOP:            {title: "Emergency operation plans", actions: []access.Permission{access.PermViewEOP, access.PermCreateEOP, access.PermEditEOP, access.PermDeleteEOP}},
	access.RouteProfile:        {title: "Profile"},
	access.RouteEOPCreate:      {title: "New operation plan", actions: []access.Permission{access.PermCreateEOP}},
	access.RouteModeration:     {title: "Moderation queue", actions: []access.Permission{access.PermModeratePosts}},
	access.RouteReports:        {title: "Reports", actions: []access.Permission{access.PermViewReports}},
	access.RouteCitizen:        {title: "Citizen registry", actions: []access.Permission{access.PermManageCitizens}},
	access.RouteAreaSelection:  {title: "Area selection", actions: []access.Permission{access.PermManageAreas}},
	access.RouteAdminUsers:     {title: "User management", actions: []access.Permission{access.PermManageUsers}},
	access.RouteSystemSettings: {title: "System settings", actions: []access.Permission{access.PermManageSystem}},
}

// PageHandler serves the page descriptors.
type PageHandler struct {
	guard *guard.Guard
}

// NewPageHandler constructs a [PageHandler] over the guard's route table.
func NewPageHandler(g *guard.Guard) *PageHandler {
	return &PageHandler{guard: g}
}

// Register mounts one GET route per listed path, all behind the guard. Paths
// that match nothing go through the guard too, so a fail-closed fallback
// applies to them before the 404.
func (handler *PageHandler) Register(router chi.Router) {
	router.Group(func(pages chi.Router) {
		pages.Use(guard.Protect(handler.guard))
		for _, entry := range handler.guard.Routes().Entries() {
			pages.Get(entry.Path, handler.serve)
		}
	})

	router.NotFound(guard.Protect(handler.guard)(http.HandlerFunc(handler.notFound)).ServeHTTP)
}

/*
Serve returns the descriptor of the requested page.

GET <page path>

Response:
  - 200: Page
  - 302, 403, 503: decided by the guard before this runs
*/
func (handler *PageHandler) serve(writer http.ResponseWriter, request *http.Request) {
	path := request.URL.Path
	state := requestutil.Session(request)
	spec := pageSpecs[path]

	actions := make(map[access.Permission]bool, len(spec.actions))
	for _, permission := range spec.actions {
		actions[permission] = state.HasPermission(permission)
	}

	title := spec.title
	if title == "" {
		title = path
	}

	respond.OK(writer, Page{
		Path:          path,
		Title:         title,
		RequiredLevel: handler.guard.Routes().Required(path),
		Permissions:   actions,
	})
}

func (handler *PageHandler) notFound(writer http.ResponseWriter, request *http.Request) {
	respond.Error(writer, request, apperr.NotFound("Page"))
}
