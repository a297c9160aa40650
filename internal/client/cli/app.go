package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"

	"github.com/loanwise/client/internal/client/api"
	"github.com/loanwise/client/internal/client/config"
	"github.com/loanwise/client/internal/client/credstore"
	"github.com/loanwise/client/internal/client/draft"
	"github.com/loanwise/client/internal/client/lifecycle"
	"github.com/loanwise/client/internal/client/routeguard"
	"github.com/loanwise/client/internal/client/session"
	"github.com/loanwise/client/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the client services together and carries the interactive state:
// the current session, the in-progress draft, and the I/O endpoints.
type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	api     api.Client
	session *session.Manager
	loans   *lifecycle.Service
	draft   *draft.Builder
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	db, err := credstore.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	apiClient := api.NewHTTPClient(cfg.ServerBaseURL, cfg.RequestTimeout)

	store := credstore.NewSQLiteStore(db)
	sm := session.NewManager(apiClient, store, log)
	ls := lifecycle.NewService(apiClient, log)

	return &App{
		config:  cfg,
		log:     log,
		db:      db,
		api:     apiClient,
		session: sm,
		loans:   ls,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run restores any persisted session and starts the REPL. It blocks until
// the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if err := a.session.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "error", err)
	}

	printlnFn("Loanwise CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) Close() {
	if a.api != nil {
		_ = a.api.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Status() == session.StatusAuthenticated
}

// status renders the prompt suffix, e.g. "(alice@example.com)".
func (a *App) status() string {
	s := a.session.Current()
	if s.User == nil {
		return ""
	}
	return "(" + s.User.Email + ")"
}

// navigate runs the route guard for the screen backing a command. It returns
// true when the command may proceed; otherwise it tells the user where they
// were redirected.
func (a *App) navigate(path string) bool {
	d := routeguard.Decide(path, a.session.Status())
	if d.Allow {
		return true
	}
	if d.RedirectTo == routeguard.PathLogin {
		printlnFn("Please log in first ('login' or 'register').")
	}
	return false
}
