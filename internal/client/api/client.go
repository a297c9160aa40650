// Package api defines the transport client consumed by the session and loan
// services, plus its HTTP implementation and the sentinel errors every
// implementation maps backend failures onto.
package api

import (
	"context"

	"github.com/loanwise/client/internal/client/models"
)

// AuthResponse is returned by Login and Register: the issued bearer token
// together with the profile it belongs to.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// ApprovalResponse pairs the updated application with its decision. The two
// always arrive together so callers never render one without the other.
type ApprovalResponse struct {
	Application *models.LoanApplication  `json:"application"`
	Decision    *models.ValidationResult `json:"validationLog"`
}

// Client is the backend surface the rest of the client depends on.
//
// Implementations must translate transport failures into the sentinel errors
// of this package so that callers can match with errors.Is.
type Client interface {
	Close() error

	// SetToken installs (or, with "", removes) the bearer token attached to
	// authenticated calls.
	SetToken(token string)

	Register(ctx context.Context, name, email, password string) (*AuthResponse, error)
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	Profile(ctx context.Context) (*models.User, error)

	// Submit ships a completed submission, documents included, and returns
	// the created application in status PENDING. Implementations must not
	// retry: a duplicate request can create a duplicate application.
	Submit(ctx context.Context, sub *models.Submission) (*models.LoanApplication, error)

	Application(ctx context.Context, id string) (*models.LoanApplication, error)
	ApplicationsForUser(ctx context.Context, userID string) ([]*models.LoanApplication, error)

	// ValidationResult returns (nil, nil) when no decision exists yet.
	ValidationResult(ctx context.Context, id string) (*models.ValidationResult, error)

	RequestApproval(ctx context.Context, id string) (*ApprovalResponse, error)
}
