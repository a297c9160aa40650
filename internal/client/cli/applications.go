package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/loanwise/client/internal/client/api"
	"github.com/loanwise/client/internal/client/presenter"
)

// List prints the caller's applications, newest information first according
// to the server's ordering.
func (a *App) List(ctx context.Context) error {
	if !a.navigate("/dashboard") {
		return nil
	}

	user := a.session.Current().User
	apps, err := a.loans.ApplicationsForUser(ctx, user.ID)
	if err != nil {
		printlnFn("Could not load applications:", err.Error())
		return err
	}

	if len(apps) == 0 {
		printlnFn("No applications yet. Use 'apply' to start one.")
		return nil
	}

	for _, app := range apps {
		printlnFn(fmt.Sprintf("%s  %-8s  %.2f %s (%d months)",
			app.ID, app.Status, app.LoanAmount, app.LoanPurpose, app.LoanTermMonths))
	}
	return nil
}

// Show fetches one application together with its decision (if any) and
// renders the combined view.
func (a *App) Show(ctx context.Context, id string) error {
	if !a.navigate("/dashboard") {
		return nil
	}

	app, err := a.loans.Application(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			printlnFn("No application with id", id)
		} else {
			printlnFn("Could not load application:", err.Error())
		}
		return err
	}

	res, err := a.loans.ValidationResult(ctx, id)
	if err != nil {
		printlnFn("Could not load the decision:", err.Error())
		return err
	}

	a.printView(presenter.Present(app, res))
	return nil
}

// Approve asks the backend to decide the application and renders the
// outcome. An application that already has a decision is reported without
// another round-trip.
func (a *App) Approve(ctx context.Context, id string) error {
	if !a.navigate("/dashboard") {
		return nil
	}

	app, res, err := a.loans.RequestApproval(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrAlreadyDecided):
			printlnFn("This application has already been decided.")
			if cachedApp, cachedRes := a.loans.Cached(id); cachedApp != nil {
				a.printView(presenter.Present(cachedApp, cachedRes))
			}
		case errors.Is(err, api.ErrNotFound):
			printlnFn("No application with id", id)
		default:
			printlnFn("Approval request failed:", err.Error())
		}
		return err
	}

	a.printView(presenter.Present(app, res))
	return nil
}

func (a *App) printView(v presenter.View) {
	switch v.State {
	case presenter.StateApproved:
		printlnFn(fmt.Sprintf("Application %s: APPROVED (%s)", v.ApplicationID, v.DecidedAt.Format("2006-01-02 15:04")))
	case presenter.StateRejected:
		printlnFn(fmt.Sprintf("Application %s: REJECTED (%s)", v.ApplicationID, v.DecidedAt.Format("2006-01-02 15:04")))
	default:
		printlnFn(fmt.Sprintf("Application %s: awaiting decision", v.ApplicationID))
	}
	if v.Message != "" {
		printlnFn("  " + v.Message)
	}
}
