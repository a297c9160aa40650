// Package lifecycle submits completed drafts and tracks server-owned
// application state. It keeps a read cache of applications and decisions;
// the server remains the only writer of both.
package lifecycle

import (
	"context"
	"sync"

	"github.com/loanwise/client/internal/client/api"
	"github.com/loanwise/client/internal/client/models"
	"github.com/loanwise/client/internal/logging"
)

// Service coordinates submit/fetch/approval calls and applies responses to
// the local cache in request order, so a stale in-flight response can never
// overwrite a newer decision.
type Service struct {
	api api.Client
	log logging.Logger

	mu      sync.Mutex
	apps    map[string]*models.LoanApplication
	results map[string]*models.ValidationResult

	// Per-application approval bookkeeping: the sequence number handed to
	// the latest request, and the highest sequence whose response has been
	// applied.
	approvalSeq     map[string]uint64
	approvalApplied map[string]uint64
}

func NewService(apiClient api.Client, log logging.Logger) *Service {
	return &Service{
		api:             apiClient,
		log:             log,
		apps:            make(map[string]*models.LoanApplication),
		results:         make(map[string]*models.ValidationResult),
		approvalSeq:     make(map[string]uint64),
		approvalApplied: make(map[string]uint64),
	}
}

// Submit ships the submission exactly once and caches the created
// application. It is never retried here: a duplicate submit could create a
// duplicate application, so re-submitting is an explicit caller action.
// Once dispatched the request also ignores cancellation of the caller's
// context; a partial submission is worse than a slow one.
func (s *Service) Submit(ctx context.Context, sub *models.Submission) (*models.LoanApplication, error) {
	s.log.Info(ctx, "submitting application", "draft_id", sub.DraftID)

	app, err := s.api.Submit(context.WithoutCancel(ctx), sub)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.apps[app.ID] = app
	s.mu.Unlock()

	s.log.Info(ctx, "application created", "app_id", app.ID, "status", app.Status)
	return app, nil
}

// Application fetches one application and refreshes the cache.
func (s *Service) Application(ctx context.Context, id string) (*models.LoanApplication, error) {
	app, err := s.api.Application(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.apps[app.ID] = app
	s.mu.Unlock()
	return app, nil
}

// ApplicationsForUser lists the caller's applications (dashboard view).
func (s *Service) ApplicationsForUser(ctx context.Context, userID string) ([]*models.LoanApplication, error) {
	apps, err := s.api.ApplicationsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for _, app := range apps {
		s.apps[app.ID] = app
	}
	s.mu.Unlock()
	return apps, nil
}

// ValidationResult fetches the decision for an application. (nil, nil) means
// no decision has been requested yet; that is not an error.
func (s *Service) ValidationResult(ctx context.Context, id string) (*models.ValidationResult, error) {
	res, err := s.api.ValidationResult(ctx, id)
	if err != nil {
		return nil, err
	}
	if res != nil {
		s.mu.Lock()
		s.results[id] = res
		s.mu.Unlock()
	}
	return res, nil
}

// RequestApproval triggers the server-side decision. Calling it on an
// application the cache already knows to be decided fails with
// api.ErrAlreadyDecided before any network traffic.
//
// Responses are applied in request order: if a newer request for the same id
// completed while this one was in flight, the stale response is discarded
// and the newer cached pair is returned instead.
func (s *Service) RequestApproval(ctx context.Context, id string) (*models.LoanApplication, *models.ValidationResult, error) {
	s.mu.Lock()
	if app, ok := s.apps[id]; ok && app.Status.Terminal() {
		s.mu.Unlock()
		return nil, nil, api.ErrAlreadyDecided
	}
	s.approvalSeq[id]++
	seq := s.approvalSeq[id]
	s.mu.Unlock()

	resp, err := s.api.RequestApproval(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.approvalApplied[id] > seq {
		// A newer request already completed; this response is stale.
		s.log.Warn(ctx, "discarding stale approval response", "app_id", id, "seq", seq)
		return s.apps[id], s.results[id], nil
	}

	s.approvalApplied[id] = seq
	s.apps[id] = resp.Application
	s.results[id] = resp.Decision
	return resp.Application, resp.Decision, nil
}

// Cached returns the locally cached application and decision without any
// network traffic. Either may be nil.
func (s *Service) Cached(id string) (*models.LoanApplication, *models.ValidationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apps[id], s.results[id]
}
