// Package session holds the process-wide authenticated identity.
//
// A Store owns the current {user, token, loading} state and mirrors the token
// into durable storage. Interested parties subscribe to be told about every
// change; callbacks run synchronously on the goroutine that made the change.
//
// Writers are serialized: persisting the token, replacing the state and
// notifying listeners happen as one step, so storage and state never disagree
// and every listener sees changes in the order they were made. Listeners may
// read the store but must not write to it or subscribe from inside a callback.
package session

import (
	"context"
	"fmt"
	"sync"

	"web_portal/internal/logger"
	"web_portal/internal/models"
	"web_portal/internal/repository"
)

// Listener receives a snapshot of the session state.
type Listener func(models.SessionState)

// Store is the single source of truth for the current session.
type Store struct {
	tokens repository.TokenStore
	log    *logger.Logger

	// writeMu orders writers and notifications; mu guards the fields below.
	writeMu sync.Mutex

	mu     sync.Mutex
	state  models.SessionState
	subs   map[uint64]Listener
	nextID uint64
}

// New builds a store seeded with the persisted token, if any. The user is
// always absent at startup; callers rehydrate it from the backend.
func New(ctx context.Context, tokens repository.TokenStore, log *logger.Logger) (*Store, error) {
	if tokens == nil {
		tokens = repository.NoopTokenStore{}
	}
	if log == nil {
		log = logger.Nop()
	}
	tok, _, err := tokens.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("read persisted token: %w", err)
	}
	return &Store{
		tokens: tokens,
		log:    log,
		state:  models.SessionState{Token: tok},
		subs:   make(map[uint64]Listener),
	}, nil
}

// State returns a snapshot of the current state.
func (s *Store) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.state)
}

// SetUser persists token and then replaces the whole state with
// {user, token, loading: false}. If persisting fails the state is left as is.
func (s *Store) SetUser(ctx context.Context, user *models.User, token string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.tokens.Set(ctx, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.replace(func(models.SessionState) models.SessionState {
		return models.SessionState{User: copyUser(user), Token: token}
	})
	return nil
}

// ClearUser removes the persisted token and resets the state.
func (s *Store) ClearUser(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.tokens.Remove(ctx); err != nil {
		return fmt.Errorf("remove persisted token: %w", err)
	}
	s.replace(func(models.SessionState) models.SessionState {
		return models.SessionState{}
	})
	return nil
}

// SetLoading flips only the loading flag.
func (s *Store) SetLoading(loading bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.replace(func(cur models.SessionState) models.SessionState {
		cur.Loading = loading
		return cur
	})
}

// Subscribe registers fn, calls it once with the current state and then on
// every change. The returned function unregisters fn and may be called more
// than once.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	cur := copyState(s.state)
	s.mu.Unlock()

	fn(cur)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Subscribers reports how many listeners are registered.
func (s *Store) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close drops every subscriber. The state and the persisted token survive.
func (s *Store) Close() {
	s.mu.Lock()
	n := len(s.subs)
	s.subs = make(map[uint64]Listener)
	s.mu.Unlock()
	s.log.Debugw("session_store_closed", "dropped_subscribers", n)
}

// replace must be called with writeMu held.
func (s *Store) replace(next func(models.SessionState) models.SessionState) {
	s.mu.Lock()
	s.state = next(s.state)
	snapshot := copyState(s.state)
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(copyState(snapshot))
	}
}

func copyState(st models.SessionState) models.SessionState {
	st.User = copyUser(st.User)
	return st
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
