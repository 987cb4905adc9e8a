// Package session holds the request-scoped authentication state machine.
//
// A Store answers "am I logged in, and as whom" for one browser request. It is
// changed only by its actions (Login, Register, FetchProfile, Logout) plus
// ClearError and Reset. Actions may run concurrently; each applies its outcome
// when it settles, so the call that resolves last decides the final state.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mrlokans/fintrack/internal/apiclient"
	"github.com/mrlokans/fintrack/internal/entities"
	"github.com/mrlokans/fintrack/internal/logging"
	"github.com/mrlokans/fintrack/internal/services"
)

// ErrLoginRequired is returned by Register when the account was created but
// the backend did not start a session.
var ErrLoginRequired = errors.New("account created, login required")

// Listener receives the state after every transition.
type Listener func(State)

// Store is safe for concurrent use. Listeners are called synchronously and
// in transition order; they must not call Store actions.
type Store struct {
	auth   services.Authenticator
	logger *slog.Logger

	// notifyMu serializes transition+notification pairs so listeners
	// observe states in the order they were applied.
	notifyMu sync.Mutex

	mu            sync.Mutex
	user          *entities.User
	authenticated bool
	inFlight      int
	errMsg        string
	listeners     map[int]Listener
	nextID        int
}

// NewStore returns an anonymous store backed by auth.
func NewStore(auth services.Authenticator, logger *slog.Logger) *Store {
	return &Store{
		auth:      auth,
		logger:    logging.Component(logger, logging.ComponentSession),
		listeners: make(map[int]Listener),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Status returns the derived status of the current state.
func (s *Store) Status() Status {
	return s.Snapshot().Status()
}

// Subscribe registers l and returns a function removing it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Login authenticates with credentials and loads the user's profile.
// On failure State.Error holds a user-facing message and the error is returned.
func (s *Store) Login(ctx context.Context, creds entities.LoginCredentials) error {
	s.transition(func() {
		s.errMsg = ""
		s.inFlight++
	})

	user, err := s.loginAndFetch(ctx, creds)

	s.transition(func() {
		s.inFlight--
		if err != nil {
			s.errMsg = failureMessage(err, MessageLoginFailed)
			s.authenticated = false
			return
		}
		s.user = user
		s.authenticated = true
		s.errMsg = ""
	})
	if err != nil {
		s.logger.Debug("login failed", "error", err)
	}
	return err
}

func (s *Store) loginAndFetch(ctx context.Context, creds entities.LoginCredentials) (*entities.User, error) {
	if err := s.auth.Login(ctx, creds); err != nil {
		return nil, err
	}
	return s.auth.Me(ctx)
}

// Register creates an account and then checks whether the backend started a
// session. When it did not, the store stays anonymous without an error and
// ErrLoginRequired is returned.
func (s *Store) Register(ctx context.Context, creds entities.RegisterCredentials) error {
	s.transition(func() {
		s.errMsg = ""
		s.inFlight++
	})

	var (
		user          *entities.User
		loginRequired bool
	)
	err := s.auth.Register(ctx, creds)
	if err == nil {
		user, err = s.auth.Me(ctx)
		if errors.Is(err, apiclient.ErrUnauthorized) {
			loginRequired = true
		}
	}

	s.transition(func() {
		s.inFlight--
		switch {
		case loginRequired:
		case err != nil:
			s.errMsg = failureMessage(err, MessageRegistrationFailed)
			s.authenticated = false
		default:
			s.user = user
			s.authenticated = true
			s.errMsg = ""
		}
	})

	if loginRequired {
		return ErrLoginRequired
	}
	if err != nil {
		s.logger.Debug("registration failed", "error", err)
	}
	return err
}

// FetchProfile restores the session from the backend. Failure is an expected
// outcome: the store becomes anonymous and Error is left untouched.
func (s *Store) FetchProfile(ctx context.Context) error {
	s.transition(func() {
		s.inFlight++
	})

	user, err := s.auth.Me(ctx)

	s.transition(func() {
		s.inFlight--
		if err != nil {
			s.user = nil
			s.authenticated = false
			return
		}
		s.user = user
		s.authenticated = true
	})
	return err
}

// Logout asks the backend to end the session and always resets local state.
func (s *Store) Logout(ctx context.Context) {
	s.transition(func() {
		s.inFlight++
	})

	err := s.auth.Logout(ctx)
	if err != nil {
		s.logger.Debug("logout request failed", "error", err)
	}

	s.transition(func() {
		s.inFlight--
		s.resetLocked()
	})
}

// ClearError drops the last failure message.
func (s *Store) ClearError() {
	s.transition(func() {
		s.errMsg = ""
	})
}

// Reset drops the session locally without contacting the backend. It is used
// when the backend rejects a credential the route guard had admitted.
func (s *Store) Reset() {
	s.transition(s.resetLocked)
}

func (s *Store) resetLocked() {
	s.user = nil
	s.authenticated = false
	s.errMsg = ""
}

// transition applies mutate under the lock and notifies listeners with the
// resulting state.
func (s *Store) transition(mutate func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	mutate()
	state := s.snapshotLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(state)
	}
}

func (s *Store) snapshotLocked() State {
	state := State{
		IsAuthenticated: s.authenticated,
		IsLoading:       s.inFlight > 0,
		Error:           s.errMsg,
	}
	if s.user != nil {
		u := *s.user
		state.User = &u
	}
	return state
}
