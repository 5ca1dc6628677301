package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/wash24-admin/internal/metrics"
	"github.com/jrsteele09/wash24-admin/session"
)

// GuardAction is what the route guard does with a request.
type GuardAction int

const (
	GuardAllow GuardAction = iota
	GuardRedirect
)

// GuardDecision is the outcome of Decide. Target is set for redirects.
type GuardDecision struct {
	Action GuardAction
	Target string
}

// Decide maps token presence and login-page-ness to an action:
//
//	token  login page  action
//	no     no          redirect to the login page
//	no     yes         allow
//	yes    yes         redirect home
//	yes    no          allow
func Decide(tokenPresent, isLoginPage bool) GuardDecision {
	switch {
	case !tokenPresent && !isLoginPage:
		return GuardDecision{Action: GuardRedirect, Target: RouteAuthLogin}
	case tokenPresent && isLoginPage:
		return GuardDecision{Action: GuardRedirect, Target: RouteHome}
	default:
		return GuardDecision{Action: GuardAllow}
	}
}

// RouteGuard redirects page navigations based on the presence of the token
// cookie. It does not check the token; the backend does that and a 401 ends
// the session through the api client.
type RouteGuard struct {
	cookie    session.TokenCookie
	loginPath string
}

func NewRouteGuard(cookie session.TokenCookie) *RouteGuard {
	return &RouteGuard{cookie: cookie, loginPath: RouteAuthLogin}
}

// Matches reports whether the guard applies to path. API calls, static
// assets and operational endpoints are left alone.
func (g *RouteGuard) Matches(path string) bool {
	switch {
	case strings.HasPrefix(path, RouteAPIPrefix),
		strings.HasPrefix(path, RouteStaticPrefix),
		path == RouteFavicon,
		path == RouteHealth,
		path == RouteMetrics:
		return false
	}
	return true
}

// Check applies the matcher and the decision table to a request.
func (g *RouteGuard) Check(r *http.Request) GuardDecision {
	if !g.Matches(r.URL.Path) {
		return GuardDecision{Action: GuardAllow}
	}
	_, hasToken := g.cookie.Read(r)
	return Decide(hasToken, r.URL.Path == g.loginPath)
}

func (g *RouteGuard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := g.Check(r)
		if decision.Action == GuardRedirect {
			metrics.GuardRedirects.WithLabelValues(decision.Target).Inc()
			redirectSuccess(w, r, decision.Target)
			return
		}
		next.ServeHTTP(w, r)
	})
}
