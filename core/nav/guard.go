// Package nav gates navigation on the current session: the guard resolves
// every navigation attempt to allow-or-redirect, and the menu derives the
// navigation tree visible to the session.
package nav

import (
	"net/url"

	"github.com/edutrack/edutrack/core/authz"
	"github.com/edutrack/edutrack/core/session"
)

// Well-known routes.
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
	DashboardPath    = "/dashboard"

	returnURLParam = "returnUrl"
)

// SessionSource is the slice of the session store the guard needs.
type SessionSource interface {
	IsAuthenticated() bool
	Current() (session.Session, bool)
}

// RedirectTo tells the router where to send a denied navigation attempt.
type RedirectTo struct {
	Path  string
	Query url.Values
}

// Result of a navigation check: either allowed, or a redirect.
// The guard never errors; every branch resolves to one of the two.
type Result struct {
	Allowed  bool
	Redirect *RedirectTo
}

// Guard intercepts navigation attempts. It is a synchronous decision
// function over already-computed state; it performs no network calls.
type Guard struct {
	sessions SessionSource
}

func NewGuard(sessions SessionSource) *Guard {
	return &Guard{sessions: sessions}
}

// CanEnter checks a navigation attempt to path against its declared
// requirement. Unauthenticated users are sent to the login page carrying
// the requested path as returnUrl; authenticated users lacking the
// requirement are sent to the unauthorized page.
func (g *Guard) CanEnter(path string, req authz.Requirement) Result {
	if !g.sessions.IsAuthenticated() {
		q := url.Values{}
		q.Set(returnURLParam, path)
		return redirect(LoginPath, q)
	}

	cur, ok := g.sessions.Current()
	if !ok {
		return redirect(LoginPath, nil)
	}
	if authz.Evaluate(cur.Permissions, req).Allowed() {
		return Result{Allowed: true}
	}
	return redirect(UnauthorizedPath, nil)
}

// CanEnterLogin guards the login page itself: an already-authenticated
// user is bounced to the default landing page.
func (g *Guard) CanEnterLogin() Result {
	if g.sessions.IsAuthenticated() {
		return redirect(DashboardPath, nil)
	}
	return Result{Allowed: true}
}

func redirect(path string, query url.Values) Result {
	return Result{Redirect: &RedirectTo{Path: path, Query: query}}
}
