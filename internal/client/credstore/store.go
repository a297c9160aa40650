// Package credstore is the durable credential store: the session token and
// the cached user profile it was issued for, surviving process restarts.
//
// Absence of the token key is the canonical "logged out" signal.
package credstore

import (
	"context"

	"github.com/loanwise/client/internal/client/models"
)

// Credentials is the unit of persistence. Token and User are written and
// read together: no reader may observe one without the other.
type Credentials struct {
	Token string
	User  *models.User
}

type Store interface {
	// Load returns the saved credentials, or (nil, nil) when logged out.
	Load(ctx context.Context) (*Credentials, error)

	// Save persists token and user atomically.
	Save(ctx context.Context, c *Credentials) error

	// Clear removes any saved credentials. Idempotent.
	Clear(ctx context.Context) error
}
