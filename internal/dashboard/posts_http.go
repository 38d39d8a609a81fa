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
)

// FeedHandler implements the /api/v1/posts endpoints.
type FeedHandler struct {
	feed *Feed
}

// NewFeedHandler constructs a [FeedHandler].
func NewFeedHandler(feed *Feed) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// Routes returns the feed router.
//
// # Endpoints
//   - GET    /               : view-feed (paginated)
//   - POST   /               : create-post
//   - POST   /{id}/comments  : comment-post
//   - DELETE /{id}           : moderate-posts
//
// view-feed is a guest grant, so the listing is readable while signed out.
func (handler *FeedHandler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.With(middleware.RequirePermission(access.PermCreatePost)).Post("/", handler.publish)
	router.With(middleware.RequirePermission(access.PermCommentPost)).Post("/{id}/comments", handler.comment)
	router.With(middleware.RequirePermission(access.PermModeratePosts)).Delete("/{id}", handler.remove)

	return router
}

type bodyRequest struct {
	Body string `json:"body"`
}

/*
List returns one page of the feed.

GET /api/v1/posts

Description: Checked against the caller's role directly, so anonymous callers
are admitted through the guest grant rather than rejected as unauthenticated.
*/
func (handler *FeedHandler) list(writer http.ResponseWriter, request *http.Request) {
	state := requestutil.Session(request)
	if !state.IsLoading && !state.HasPermission(access.PermViewFeed) {
		respond.Error(writer, request, errMissingPermission(access.PermViewFeed))
		return
	}

	params := pagination.FromRequest(request)
	posts, total := handler.feed.List(request.Context(), params)
	respond.Paginated(writer, posts, pagination.NewMeta(params, total))
}

/*
Publish adds a post.

POST /api/v1/posts

Response:
  - 201: Post
*/
func (handler *FeedHandler) publish(writer http.ResponseWriter, request *http.Request) {
	author, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input bodyRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.feed.Publish(request.Context(), author, input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, post)
}

/*
Comment replies to a post.

POST /api/v1/posts/{id}/comments

Response:
  - 201: Comment
  - 404: Unknown post
*/
func (handler *FeedHandler) comment(writer http.ResponseWriter, request *http.Request) {
	author, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input bodyRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.feed.Comment(request.Context(), author, requestutil.Param(request, "id"), input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

/*
Remove deletes a post.

DELETE /api/v1/posts/{id}

Response:
  - 204: No Content
  - 404: Unknown post
*/
func (handler *FeedHandler) remove(writer http.ResponseWriter, request *http.Request) {
	moderator, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.feed.Remove(request.Context(), moderator, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
