package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/loanwise/client/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email and password and creates an account.
// Field-level validation problems are printed per field; a successful
// registration leaves the user logged in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	user, err := a.session.Register(ctx, name, email, password)
	if err != nil {
		var fe models.FieldErrors
		if errors.As(err, &fe) {
			printFieldErrors(fe)
		} else {
			printlnFn(err.Error())
		}
		return err
	}

	printlnFn(fmt.Sprintf("Welcome, %s!", user.Name))
	return nil
}

// Login prompts for credentials and authenticates against the backend.
// On success the session is persisted, so the next start of the CLI
// resumes logged in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	user, err := a.session.Login(ctx, email, password)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Logged in as %s.", user.Email))
	return nil
}

// Logout clears the persisted credentials. It succeeds even when the user
// was not logged in.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		printlnFn(err.Error())
		return err
	}
	a.draft = nil
	printlnFn("Logged out.")
	return nil
}

// Whoami refreshes the profile from the server and prints it. A stale token
// gets the session cleared by the manager, in which case the user is told
// to log in again.
func (a *App) Whoami(ctx context.Context) error {
	if !a.navigate("/dashboard") {
		return nil
	}

	user, err := a.session.RefreshProfile(ctx)
	if err != nil {
		printlnFn("Could not load profile:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("%s <%s> (id %s)", user.Name, user.Email, user.ID))
	return nil
}

func printFieldErrors(fe models.FieldErrors) {
	for _, field := range fe.Fields() {
		printlnFn(fmt.Sprintf("  %s: %s", field, fe[field]))
	}
}
