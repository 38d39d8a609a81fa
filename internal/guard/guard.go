// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package guard decides what a page request renders given the caller's session.

Every decision is one of:

  - render: the caller may see the page.
  - redirect: anonymous caller on a protected page; go to login and come back.
  - denied: signed-in caller below the required level.
  - pending: the session is still loading; hold the decision.

[Guard.Decide] is pure. [Protect] turns a decision into an HTTP response.
*/
package guard

import (
	"net/url"

	"github.com/taibuivan/aegis/internal/access"
	"github.com/taibuivan/aegis/internal/session"
)

// # Decisions

// Outcome is the render target selected by the guard.
type Outcome uint8

const (
	OutcomeRender Outcome = iota
	OutcomeRedirect
	OutcomeDenied
	OutcomePending
)

// String returns the outcome name used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeRender:
		return "render"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeDenied:
		return "denied"
	case OutcomePending:
		return "pending"
	default:
		return "unknown"
	}
}

// Decision is the guard's verdict for one (session, path) pair.
type Decision struct {
	Outcome Outcome

	// Required is the level resolved for the requested path.
	Required access.Level

	// RedirectTo is set for OutcomeRedirect only.
	RedirectTo string
}

// RedirectParam is the query parameter carrying the originally requested path.
const RedirectParam = "redirect"

// # Guard

// Guard enforces a [access.RouteTable] at render time.
type Guard struct {
	routes    *access.RouteTable
	loginPath string
}

// New creates a guard over routes that sends anonymous callers to loginPath.
func New(routes *access.RouteTable, loginPath string) *Guard {
	return &Guard{routes: routes, loginPath: loginPath}
}

// Routes returns the table the guard enforces.
func (g *Guard) Routes() *access.RouteTable {
	return g.routes
}

/*
Decide selects the render target for pathname.

Description:
 1. Resolve the required level (unlisted paths use the table fallback). The
    login page is public whatever the table says, so redirects always land.
 2. Public pages always render, even while the session loads.
 3. While loading, hold every other decision as pending.
 4. Satisfied level renders.
 5. No user redirects to login with the requested path attached.
 6. A signed-in user below the level is denied.
*/
func (g *Guard) Decide(pathname string, state session.State) Decision {
	required := g.routes.Required(pathname)
	if pathname == g.loginPath {
		required = access.LevelPublic
	}
	decision := Decision{Required: required}

	switch {
	case required == access.LevelPublic:
		decision.Outcome = OutcomeRender
	case state.IsLoading:
		decision.Outcome = OutcomePending
	case required.SatisfiedBy(state.Role()):
		decision.Outcome = OutcomeRender
	case state.User == nil:
		decision.Outcome = OutcomeRedirect
		decision.RedirectTo = g.loginURL(pathname)
	default:
		decision.Outcome = OutcomeDenied
	}

	return decision
}

// loginURL builds the login path with the return-to parameter.
func (g *Guard) loginURL(pathname string) string {
	query := url.Values{}
	query.Set(RedirectParam, pathname)
	return g.loginPath + "?" + query.Encode()
}
