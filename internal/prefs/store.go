// ABOUTME: Reactive preference store over a durable storage.Repository.
// ABOUTME: Serializes read-modify-write edits and streams every committed snapshot.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/hydrate/internal/storage"
)

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("preference store is closed")

// Store holds the current preference snapshot and its subscribers.
//
// Edits are serialized: each one reads the latest snapshot, applies its
// transform, and writes the difference through the repository before the
// new snapshot becomes visible. Reads never block.
type Store struct {
	repo   storage.Repository
	logger *log.Logger

	mu      sync.Mutex // serializes edits, subscribe, and close
	current atomic.Pointer[Preferences]
	closed  bool

	subs map[uuid.UUID]*Subscription
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open loads the persisted preferences from repo.
func Open(repo storage.Repository, opts ...Option) (*Store, error) {
	s := &Store{
		repo:   repo,
		logger: log.New(io.Discard),
		subs:   make(map[uuid.UUID]*Subscription),
	}
	for _, opt := range opts {
		opt(s)
	}

	values, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	s.current.Store(&Preferences{values: values})
	s.logger.Debug("preferences loaded", "keys", len(values))

	return s, nil
}

// Data returns the latest committed snapshot.
func (s *Store) Data() Preferences {
	return *s.current.Load()
}

// Edit applies fn to a working copy of the preferences and persists the
// result. If fn returns an error, or the write fails, nothing changes and
// no subscriber is notified. Edits that change nothing write nothing.
func (s *Store) Edit(ctx context.Context, fn func(*MutablePreferences) error) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.current.Load()
	if s.closed {
		return *before, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return *before, err
	}

	m := &MutablePreferences{values: copyValues(before.values)}
	if err := fn(m); err != nil {
		return *before, err
	}

	changes := storage.Diff(before.values, m.values)
	if changes.IsEmpty() {
		return *before, nil
	}
	if err := ctx.Err(); err != nil {
		return *before, err
	}

	if err := s.repo.Apply(changes); err != nil {
		return *before, fmt.Errorf("apply preferences: %w", err)
	}

	next := &Preferences{values: m.values, version: before.version + 1}
	s.current.Store(next)
	s.logger.Debug("preferences committed",
		"version", next.version, "set", len(changes.Set), "deleted", len(changes.Delete))

	for _, sub := range s.subs {
		sub.push(*next)
	}
	return *next, nil
}

// Subscribe returns a subscription whose channel yields the current
// snapshot followed by every later committed snapshot, in commit order.
// The channel closes when ctx is done, the subscription is canceled, or
// the store closes.
func (s *Store) Subscribe(ctx context.Context) *Subscription {
	sub := newSubscription()
	sub.cancel = func() { s.unsubscribe(sub.ID) }

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sub.stop()
		return sub
	}
	s.subs[sub.ID] = sub
	sub.push(*s.current.Load())
	s.mu.Unlock()

	s.logger.Debug("subscriber added", "id", sub.ID)

	go func() {
		select {
		case <-ctx.Done():
			s.unsubscribe(sub.ID)
		case <-sub.done:
		}
	}()
	return sub
}

func (s *Store) unsubscribe(id uuid.UUID) {
	s.mu.Lock()
	sub, ok := s.subs[id]
	delete(s.subs, id)
	s.mu.Unlock()

	if ok {
		sub.stop()
		s.logger.Debug("subscriber removed", "id", id)
	}
}

// Close ends every subscription and closes the repository.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	subs := s.subs
	s.subs = make(map[uuid.UUID]*Subscription)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
	return s.repo.Close()
}

// Map streams fn applied to every snapshot. The channel closes with the
// underlying subscription.
func Map[T any](ctx context.Context, s *Store, fn func(Preferences) T) <-chan T {
	sub := s.Subscribe(ctx)
	out := make(chan T)
	go func() {
		defer close(out)
		for p := range sub.C {
			select {
			case out <- fn(p):
			case <-ctx.Done():
				sub.Cancel()
				return
			}
		}
	}()
	return out
}

// Watch is Map with consecutive duplicate values dropped.
func Watch[T comparable](ctx context.Context, s *Store, fn func(Preferences) T) <-chan T {
	in := Map(ctx, s, fn)
	out := make(chan T)
	go func() {
		defer close(out)
		var last T
		first := true
		for v := range in {
			if !first && v == last {
				continue
			}
			first, last = false, v
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
