package appstate

import (
	"context"
	"sync"

	"github.com/goliatone/go-appstate/pkg/activity"
)

// Store holds a single mutable root value and fans every change out to its
// subscribers. Snapshots are passed by value; callers must treat reference
// fields inside a snapshot as read-only and mutate exclusively through Set or
// Update. Independent stores never share notifications.
type Store[T any] struct {
	// notifyMu serializes whole mutations including their fan-out, so
	// notifications reach subscribers in mutation-invocation order. mu guards
	// only the value and subscriber list, which keeps Get callable from
	// inside a subscriber.
	notifyMu    sync.Mutex
	mu          sync.Mutex
	value       T
	subscribers []subscriber[T]
	nextSubID   int
	usedDefault bool

	cfg storeConfig[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// New constructs a store around initial. When WithStorage is configured the
// initial value doubles as the hydration default: a missing or corrupt
// snapshot leaves it in place.
func New[T any](initial T, opts ...StoreOption[T]) *Store[T] {
	s := &Store[T]{
		value: initial,
		cfg:   applyStoreOptions(opts),
	}
	if s.cfg.adapter != nil {
		s.usedDefault = s.cfg.adapter.Load(s.cfg.key, &s.value)
		if s.usedDefault {
			s.cfg.logger.LogStore(LogEvent{Object: s.cfg.name, Op: OpHydrate})
		}
	}
	return s
}

// Get returns a point-in-time snapshot without subscribing to changes.
func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// UsedDefault reports whether hydration fell back to the initial value.
func (s *Store[T]) UsedDefault() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usedDefault
}

// Set replaces the root value, persists it, and notifies subscribers before
// returning.
func (s *Store[T]) Set(value T) {
	s.Update(func(T) T { return value })
}

// Update applies fn to the current value and installs the result. The new
// value is persisted and every subscriber observes it synchronously before
// Update returns; a subscriber reading the store mid-notification sees the
// new state. Updates are serialized through their fan-out, so per-store
// effects (notifications and storage writes) land in invocation order even
// under concurrent mutators. Subscribers may call Get but must not mutate
// the store from inside a notification.
func (s *Store[T]) Update(fn func(T) T) T {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	next := fn(s.value)
	s.value = next
	if s.cfg.adapter != nil {
		s.cfg.adapter.Save(s.cfg.key, next)
	}
	subs := make([]subscriber[T], len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(next)
	}
	s.emit(next)
	return next
}

// Subscribe registers fn for every subsequent change and returns an
// idempotent cancel func. fn runs synchronously on the mutating caller's
// goroutine; it may read the store but must not block indefinitely.
func (s *Store[T]) Subscribe(fn func(T)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers = append(s.subscribers, subscriber[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			for i, sub := range s.subscribers {
				if sub.id == id {
					s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
					break
				}
			}
			s.mu.Unlock()
		})
	}
}

func (s *Store[T]) emit(value T) {
	if !s.cfg.hooks.Enabled() {
		return
	}
	err := s.cfg.hooks.Notify(context.Background(), activity.BuildStateUpdatedEvent(s.cfg.name, activity.StateEventInput{
		ObjectID: s.cfg.name,
		NewValue: value,
	}))
	if err != nil {
		s.cfg.logger.LogStore(LogEvent{Object: s.cfg.name, Op: OpNotify, Err: err})
	}
}
