// Package session owns the authentication state machine. The Manager is the
// only writer of session state and of the credential store; everything else
// (route guard, CLI, loan service) reads through it.
package session

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/loanwise/client/internal/client/api"
	"github.com/loanwise/client/internal/client/credstore"
	"github.com/loanwise/client/internal/client/models"
	"github.com/loanwise/client/internal/logging"
)

type Status string

const (
	StatusAnonymous      Status = "anonymous"
	StatusAuthenticating Status = "authenticating"
	StatusAuthenticated  Status = "authenticated"
	StatusFailed         Status = "failed"
)

// Session is a snapshot of the authentication state. Token is non-empty
// exactly when Status is StatusAuthenticated; User is set only then.
// LastError carries the failure message when Status is StatusFailed.
type Session struct {
	Status    Status
	Token     string
	User      *models.User
	LastError string
}

// Manager derives the session from the credential store at startup and
// transitions it on login/register/logout. All methods are safe for
// concurrent use.
type Manager struct {
	api   api.Client
	store credstore.Store
	log   logging.Logger

	mu  sync.Mutex
	cur Session
}

func NewManager(apiClient api.Client, store credstore.Store, log logging.Logger) *Manager {
	return &Manager{
		api:   apiClient,
		store: store,
		log:   log,
		cur:   Session{Status: StatusAnonymous},
	}
}

// Current returns a copy of the session state.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.cur
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur.Status
}

func (m *Manager) setState(s Session) {
	m.mu.Lock()
	m.cur = s
	m.mu.Unlock()
}

// errMessage picks what the user sees: the backend's structured message, or
// the generic fallback when the backend was unreachable or gave no structure.
func errMessage(err error, generic string) string {
	if errors.Is(err, api.ErrNetwork) {
		return generic
	}
	return err.Error()
}

// finishAuth persists the token+user pair, installs the token on the API
// client, and flips the session to authenticated. Nothing is applied unless
// the whole sequence succeeds.
func (m *Manager) finishAuth(ctx context.Context, resp *api.AuthResponse) (*models.User, error) {
	creds := &credstore.Credentials{Token: resp.Token, User: resp.User}
	if err := m.store.Save(ctx, creds); err != nil {
		m.log.Error(ctx, "failed to persist credentials", "error", err)
		m.setState(Session{Status: StatusAnonymous})
		return nil, err
	}

	m.api.SetToken(resp.Token)
	m.setState(Session{Status: StatusAuthenticated, Token: resp.Token, User: resp.User})
	return resp.User, nil
}

// beginAuth moves the session to authenticating. Re-authenticating from an
// already authenticated session first drops the stored credentials and the
// installed token: a failed attempt must not leave a valid token behind a
// failed status.
func (m *Manager) beginAuth(ctx context.Context) {
	if m.Status() == StatusAuthenticated {
		m.api.SetToken("")
		if err := m.store.Clear(ctx); err != nil {
			m.log.Warn(ctx, "failed to clear credential store", "error", err)
		}
	}
	m.setState(Session{Status: StatusAuthenticating})
}

// Login authenticates against the backend. On success the token and user are
// persisted and the session becomes authenticated; on failure nothing is
// persisted and the session records the error.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	m.beginAuth(ctx)

	resp, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.setState(Session{Status: StatusFailed, LastError: errMessage(err, "Login failed")})
		return nil, err
	}
	return m.finishAuth(ctx, resp)
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// validateRegistration enforces the local rules that gate the network call.
func validateRegistration(name, email, password string) models.FieldErrors {
	errs := models.FieldErrors{}
	if name == "" {
		errs["name"] = "Name is required"
	}
	if email == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(email) {
		errs["email"] = "Email is invalid"
	}
	if len(password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Register creates an account and logs in. Local validation failures are
// returned as FieldErrors before any network call and leave the session
// untouched.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if errs := validateRegistration(name, email, password); errs != nil {
		return nil, errs
	}

	m.beginAuth(ctx)

	resp, err := m.api.Register(ctx, name, email, password)
	if err != nil {
		m.setState(Session{Status: StatusFailed, LastError: errMessage(err, "Registration failed")})
		return nil, err
	}
	return m.finishAuth(ctx, resp)
}

// Logout clears the credential store and resets the session to anonymous.
// Idempotent: logging out twice leaves the same state as once.
func (m *Manager) Logout(ctx context.Context) error {
	m.api.SetToken("")
	err := m.store.Clear(ctx)
	if err != nil {
		m.log.Warn(ctx, "failed to clear credential store", "error", err)
	}
	m.setState(Session{Status: StatusAnonymous})
	return err
}

// Restore derives the session from the credential store at startup. A stored
// token is trusted optimistically: no network round-trip happens here, and
// staleness is tolerated until the next authenticated call fails.
func (m *Manager) Restore(ctx context.Context) error {
	creds, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	if creds == nil {
		m.setState(Session{Status: StatusAnonymous})
		return nil
	}

	m.warnIfExpired(ctx, creds.Token)

	m.api.SetToken(creds.Token)
	m.setState(Session{Status: StatusAuthenticated, Token: creds.Token, User: creds.User})
	return nil
}

// warnIfExpired inspects the stored token's exp claim without verifying the
// signature. The session stays authenticated either way.
func (m *Manager) warnIfExpired(ctx context.Context, token string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	if exp.Before(time.Now()) {
		m.log.Warn(ctx, "stored token is expired; next authenticated call may fail",
			"expired_at", exp.Time)
	}
}

// RefreshProfile re-fetches the profile for the restored session. A rejected
// credential check destroys the session (logout); other errors leave it as
// is.
func (m *Manager) RefreshProfile(ctx context.Context) (*models.User, error) {
	if m.Status() != StatusAuthenticated {
		return nil, api.ErrInvalidCredentials
	}

	user, err := m.api.Profile(ctx)
	if err != nil {
		if errors.Is(err, api.ErrInvalidCredentials) {
			m.log.Warn(ctx, "stored credentials rejected, logging out")
			_ = m.Logout(ctx)
		}
		return nil, err
	}

	m.mu.Lock()
	token := m.cur.Token
	m.cur.User = user
	m.mu.Unlock()

	if err := m.store.Save(ctx, &credstore.Credentials{Token: token, User: user}); err != nil {
		m.log.Warn(ctx, "failed to refresh cached profile", "error", err)
	}
	return user, nil
}
