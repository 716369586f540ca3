// internal/domain/cart/store.go
package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var errStoreClosed = errors.New("cart store closed")

const persistTimeout = 3 * time.Second

// Listener receives every committed snapshot.
// It runs while the store is locked and must not call back into the store.
type Listener func(Snapshot)

// Store owns one session's cart. Mutations are serialised so each one
// reduces over the current state.
type Store struct {
	mu        sync.Mutex
	sessionID string
	state     Cart
	storage   Storage
	logger    logrus.FieldLogger

	listeners    map[int]Listener
	nextListener int

	lastUsed time.Time
	closed   bool
	now      func() time.Time
}

// NewStore creates an empty store for a session
func NewStore(sessionID string, storage Storage, logger logrus.FieldLogger) *Store {
	return &Store{
		sessionID: sessionID,
		state:     Cart{Items: []CartItem{}},
		storage:   storage,
		logger:    logger.WithField("session_id", sessionID),
		listeners: make(map[int]Listener),
		lastUsed:  time.Now(),
		now:       time.Now,
	}
}

// SessionID returns the owning session
func (s *Store) SessionID() string {
	return s.sessionID
}

// Rehydrate replaces the in-memory cart with the persisted one
func (s *Store) Rehydrate(ctx context.Context) error {
	items, err := s.storage.Load(ctx, s.sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state, _ = Reduce(s.state, Load{Items: items})
	s.lastUsed = s.now()
	return nil
}

// Dispatch applies cmd, persists the new snapshot and notifies subscribers.
// A rejected command leaves the cart untouched and returns the current snapshot.
func (s *Store) Dispatch(ctx context.Context, cmd Command) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Snapshot{}, errStoreClosed
	}

	now := s.now()
	s.lastUsed = now

	next, err := Reduce(s.state, cmd)
	if err != nil {
		return newSnapshot(s.sessionID, s.state, cmd.Name(), now), err
	}
	s.state = next

	s.persist(ctx, cmd)

	snap := newSnapshot(s.sessionID, s.state, cmd.Name(), now)
	for _, listener := range s.listeners {
		listener(snap)
	}
	return snap, nil
}

// persist writes through to storage. Failures are logged and never undo the
// in-memory mutation; the next successful write carries the full state.
func (s *Store) persist(ctx context.Context, cmd Command) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	var err error
	if _, ok := cmd.(Clear); ok {
		err = s.storage.Delete(ctx, s.sessionID)
	} else {
		err = s.storage.Save(ctx, s.sessionID, s.state.Items)
	}

	if err != nil {
		s.logger.WithError(err).WithField("command", cmd.Name()).Warn("cart persistence failed")
	}
}

// Snapshot returns the current cart without mutating it
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUsed = s.now()
	return newSnapshot(s.sessionID, s.state, "", s.lastUsed)
}

// Subscribe registers a listener and returns its unsubscribe func
func (s *Store) Subscribe(listener Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = listener

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// IdleSince reports when the store was last touched
func (s *Store) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Close detaches all listeners; later dispatches fail
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.listeners = make(map[int]Listener)
}
