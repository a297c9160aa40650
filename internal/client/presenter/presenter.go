// Package presenter maps a fetched application and its (possibly absent)
// decision into a stable renderable shape. The mapping is total: every
// reachable combination yields a defined state.
package presenter

import (
	"time"

	"github.com/loanwise/client/internal/client/models"
)

// State is what the UI renders.
type State string

const (
	StateAwaitingDecision State = "awaiting_decision"
	StateApproved         State = "approved"
	StateRejected         State = "rejected"
)

// View is the renderable projection of an application's decision status.
type View struct {
	State         State
	ApplicationID string
	Message       string
	DecidedAt     time.Time
}

// Present maps (application status, decision | absent) onto a View.
//
// With a decision present, the decision wins regardless of the cached
// status (the two are fetched together, so a mismatch only means the cache
// is older than the decision). Without one, a pending application is
// awaiting its decision; a terminal status without a decision record still
// renders by status so the mapping stays total.
func Present(app *models.LoanApplication, res *models.ValidationResult) View {
	v := View{ApplicationID: app.ID}

	if res != nil {
		v.Message = res.Message
		v.DecidedAt = res.ValidationDate
		if res.Approved {
			v.State = StateApproved
		} else {
			v.State = StateRejected
		}
		return v
	}

	switch app.Status {
	case models.StatusApproved:
		v.State = StateApproved
	case models.StatusRejected:
		v.State = StateRejected
	default:
		v.State = StateAwaitingDecision
	}
	return v
}
