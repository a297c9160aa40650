package routeguard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loanwise/client/internal/client/session"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status session.Status
		want   Decision
	}{
		{"dashboard anonymous", "/dashboard", session.StatusAnonymous, Decision{RedirectTo: "/login"}},
		{"dashboard authenticated", "/dashboard", session.StatusAuthenticated, Decision{Allow: true}},
		{"login always allowed when anonymous", "/login", session.StatusAnonymous, Decision{Allow: true}},
		{"login always allowed when authenticated", "/login", session.StatusAuthenticated, Decision{Allow: true}},
		{"register always allowed", "/register", session.StatusFailed, Decision{Allow: true}},
		{"root anonymous", "/", session.StatusAnonymous, Decision{RedirectTo: "/login"}},
		{"root authenticated", "/", session.StatusAuthenticated, Decision{RedirectTo: "/dashboard"}},
		{"unknown path anonymous", "/loan-application", session.StatusAnonymous, Decision{RedirectTo: "/login"}},
		{"unknown path authenticating", "/loan-application", session.StatusAuthenticating, Decision{RedirectTo: "/login"}},
		{"unknown path failed", "/loan-application", session.StatusFailed, Decision{RedirectTo: "/login"}},
		{"unknown path authenticated", "/loan-application", session.StatusAuthenticated, Decision{Allow: true}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Decide(tc.path, tc.status))
		})
	}
}

func TestDecide_IsDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		require.Equal(t, Decide("/dashboard", session.StatusAnonymous), Decision{RedirectTo: "/login"})
	}
}
