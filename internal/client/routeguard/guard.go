// Package routeguard decides, for a requested route and the current session
// status, whether navigation proceeds or gets redirected. It is a pure
// function of its inputs: no storage reads, no network.
package routeguard

import "github.com/loanwise/client/internal/client/session"

// Routes known to the guard policy.
const (
	PathRoot      = "/"
	PathLogin     = "/login"
	PathRegister  = "/register"
	PathDashboard = "/dashboard"
)

// Decision is either an allow or a redirect to another path.
type Decision struct {
	Allow      bool
	RedirectTo string
}

func allow() Decision                 { return Decision{Allow: true} }
func redirectTo(path string) Decision { return Decision{RedirectTo: path} }

// Decide applies the access policy:
//
//   - /login and /register are always allowed;
//   - the root path goes to /dashboard when authenticated, /login otherwise;
//   - every other path requires an authenticated session, redirecting to
//     /login when there is none.
func Decide(path string, status session.Status) Decision {
	authed := status == session.StatusAuthenticated

	switch path {
	case PathLogin, PathRegister:
		return allow()
	case PathRoot:
		if authed {
			return redirectTo(PathDashboard)
		}
		return redirectTo(PathLogin)
	default:
		if authed {
			return allow()
		}
		return redirectTo(PathLogin)
	}
}
