// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guard

import (
	"log/slog"
	"net/http"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/platform/apperr"
	"github.com/taibuivan/aegis/internal/platform/ctxutil"
	"github.com/taibuivan/aegis/internal/platform/respond"
	"github.com/taibuivan/aegis/internal/session"
)

// DeniedView is the access-denied page body.
type DeniedView struct {
	Error         string       `json:"error"`
	Code          string       `json:"code"`
	RequiredLevel access.Level `json:"required_level"`
	CurrentRole   access.Role  `json:"current_role"`
}

var titleCaser = cases.Title(language.English)

// Protect enforces g on every request passing through it.
//
// # Usage
//
// Must be registered AFTER [session.Load]. Without a bound session the
// request counts as loading and protected pages answer 503.
func Protect(g *Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			state := session.StateFromContext(request.Context())
			decision := g.Decide(request.URL.Path, state)

			if decision.Outcome != OutcomeRender {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "guard_blocked",
					slog.String("outcome", decision.Outcome.String()),
					slog.String("required_level", decision.Required.String()),
				)
			}

			switch decision.Outcome {
			case OutcomeRender:
				next.ServeHTTP(writer, request)

			case OutcomeRedirect:
				http.Redirect(writer, request, decision.RedirectTo, http.StatusFound)

			case OutcomeDenied:
				denied := apperr.AccessDenied(titleCaser.String(decision.Required.String()))
				respond.JSON(writer, denied.HTTPStatus, DeniedView{
					Error:         denied.Message,
					Code:          denied.Code,
					RequiredLevel: decision.Required,
					CurrentRole:   state.Role(),
				})

			default:
				respond.Error(writer, request, apperr.SessionPending())
			}
		})
	}
}
