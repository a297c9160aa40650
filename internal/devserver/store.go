package devserver

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/loanwise/client/internal/client/models"
)

var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrNotFound       = errors.New("not found")
	ErrAlreadyDecided = errors.New("application already decided")
)

// Account is a registered user plus its bcrypt password hash.
type Account struct {
	models.User
	PasswordHash []byte
}

// StoredApplication is an application record together with the metadata of
// the documents uploaded with it. Document contents are not retained; the
// decision rules only need to know which slots were filled.
type StoredApplication struct {
	models.LoanApplication
	Documents map[models.DocumentSlot]string // slot -> original file name
}

// Store is the in-memory backing state of the devserver. Everything is lost
// on restart, which is the point: each run starts from a clean slate.
type Store struct {
	mu      sync.Mutex
	users   map[string]*Account           // by id
	emails  map[string]string             // email -> user id
	apps    map[string]*StoredApplication // by id
	results map[string]*models.ValidationResult
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]*Account),
		emails:  make(map[string]string),
		apps:    make(map[string]*StoredApplication),
		results: make(map[string]*models.ValidationResult),
	}
}

func (s *Store) CreateUser(name, email string, passwordHash []byte) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[email]; taken {
		return nil, ErrEmailTaken
	}

	acc := &Account{
		User:         models.User{ID: uuid.NewString(), Name: name, Email: email},
		PasswordHash: passwordHash,
	}
	s.users[acc.ID] = acc
	s.emails[email] = acc.ID

	u := acc.User
	return &u, nil
}

func (s *Store) AccountByEmail(email string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) UserByID(id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u := acc.User
	return &u, nil
}

// CreateApplication assigns an id and stores the record in status PENDING.
func (s *Store) CreateApplication(app *StoredApplication) *models.LoanApplication {
	s.mu.Lock()
	defer s.mu.Unlock()

	app.ID = uuid.NewString()
	app.Status = models.StatusPending
	s.apps[app.ID] = app

	out := app.LoanApplication
	return &out
}

func (s *Store) Application(id string) (*models.LoanApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := app.LoanApplication
	return &out, nil
}

// ApplicationsForUser returns the user's applications, newest first.
func (s *Store) ApplicationsForUser(userID string) []*models.LoanApplication {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.LoanApplication, 0)
	for _, app := range s.apps {
		if app.UserID == userID {
			a := app.LoanApplication
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Result returns the stored decision, or ErrNotFound when the application
// has not been decided yet.
func (s *Store) Result(applicationID string) (*models.ValidationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.results[applicationID]
	if !ok {
		return nil, ErrNotFound
	}
	r := *res
	return &r, nil
}

// Decide runs fn on the stored application, then persists the resulting
// status and decision atomically. A second decision for the same
// application fails with ErrAlreadyDecided.
func (s *Store) Decide(applicationID string, fn func(*StoredApplication) *models.ValidationResult) (*models.LoanApplication, *models.ValidationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[applicationID]
	if !ok {
		return nil, nil, ErrNotFound
	}
	if app.Status.Terminal() {
		return nil, nil, ErrAlreadyDecided
	}

	res := fn(app)
	if res.Approved {
		app.Status = models.StatusApproved
	} else {
		app.Status = models.StatusRejected
	}
	s.results[applicationID] = res

	a := app.LoanApplication
	r := *res
	return &a, &r, nil
}
