// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/aegis/internal/platform/apperr"
	"github.com/taibuivan/aegis/internal/platform/constants"
	"github.com/taibuivan/aegis/internal/platform/middleware"
	requestutil "github.com/taibuivan/aegis/internal/platform/request"
	"github.com/taibuivan/aegis/internal/platform/respond"
	"github.com/taibuivan/aegis/internal/session"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// Every endpoint that changes who the client is also updates the client's
// session holder, so the route guard sees the change on the next request.
type Handler struct {
	authService   *Service
	secureCookies bool
}

// NewHandler constructs a new [Handler]. secureCookies marks the refresh
// token cookie Secure and should be true outside local development.
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{authService: service, secureCookies: secureCookies}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account.
//   - POST /login    : Authenticates and establishes the session.
//   - POST /refresh  : Rotates the refresh token.
//   - POST /logout   : Revokes the refresh token and clears the session.
//   - GET  /me       : Returns the signed-in user.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	router.With(middleware.RequireAuth).Get("/me", handler.me)

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Request:
  - Body: registerRequest (Username, Email, Password, FullName)

Response:
  - 201: User: Created user profile
  - 400: Validation failure
  - 409: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes the session.

POST /api/v1/auth/login

Request:
  - Body: loginRequest (Login, Password)

Response:
  - 200: Access token and User profile
  - 401: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	credentials, err := handler.authService.Login(request.Context(), LoginInput{
		Login:    input.Login,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.establish(writer, request, credentials)
}

/*
Refresh issues a new credential pair from a refresh token.

POST /api/v1/auth/refresh

Description: The token is read from the refresh cookie, falling back to the
one persisted in the session record.

Response:
  - 200: New access token and the current user
  - 401: Missing, replayed or expired refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	credentials, err := handler.authService.Refresh(request.Context(), handler.presentedRefreshToken(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.establish(writer, request, credentials)
}

/*
Logout terminates the current session.

POST /api/v1/auth/logout

Description: Revokes the refresh token (if any), clears the session record and
the refresh cookie. Calling it while signed out is not an error.

Response:
  - 204: No Content
  - 500: The session record could not be cleared
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Revoke ─────────────────────────────────────────────────────────
	if err := handler.authService.Logout(request.Context(), handler.presentedRefreshToken(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Clear the session record ───────────────────────────────────────
	holder, err := requestutil.RequiredHolder(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := holder.Logout(request.Context()); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	// ── 3. Expire the cookie ──────────────────────────────────────────────
	handler.setRefreshCookie(writer, "", time.Time{})
	respond.NoContent(writer)
}

/*
Me returns the signed-in user.

GET /api/v1/auth/me

Response:
  - 200: User
  - 401: Anonymous session
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

// # Helpers

// establish binds credentials to the client's session and writes the response.
func (handler *Handler) establish(writer http.ResponseWriter, request *http.Request, credentials *Credentials) {
	holder, err := requestutil.RequiredHolder(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Storage backends may set cookies, so this runs before any body is written.
	err = holder.Login(request.Context(), credentials.User, session.Credentials{
		AccessToken:  credentials.AccessToken,
		RefreshToken: credentials.RefreshToken,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, credentials.RefreshToken, credentials.RefreshTokenExpiresAt)

	respond.OK(writer, map[string]any{
		FieldAccessToken: credentials.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   int(handler.authService.AccessTokenTTL() / time.Second),
		FieldUser:        credentials.User,
	})
}

func (handler *Handler) presentedRefreshToken(request *http.Request) string {
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if holder := session.FromContext(request.Context()); holder != nil {
		if token, err := holder.RefreshToken(request.Context()); err == nil {
			return token
		}
	}
	return ""
}

// setRefreshCookie writes the refresh cookie; an empty value expires it.
func (handler *Handler) setRefreshCookie(writer http.ResponseWriter, value string, expiresAt time.Time) {
	cookie := &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    value,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  expiresAt,
		Secure:   handler.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	http.SetCookie(writer, cookie)
}
