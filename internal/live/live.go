// Package live provides observable handles to single domain values.
//
// A Handle is what list views hold instead of a detached copy: it carries the
// value's identity, the last value seen, and a way to re-read the value as
// the underlying record changes.
package live

import (
	"context"
	"sync"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/notify"
)

// Value is a domain value that can be held by a Handle.
type Value[T any] interface {
	Identity() domain.EntityID
	Equal(other T) bool
}

// Handle is an observable reference to one value.
type Handle[T any] interface {
	ID() domain.EntityID
	// Snapshot returns the last value read without touching the store.
	Snapshot() T
	// Current re-reads the value. Fixed handles return their value.
	Current(ctx context.Context) (T, error)
}

// Observable is implemented by handles backed by a store.
type Observable[T any] interface {
	Handle[T]
	// Changes yields the value each time a commit changes it. The channel
	// closes when ctx is done or the record disappears.
	Changes(ctx context.Context) <-chan T
}

type fixed[T Value[T]] struct {
	value T
}

// Fixed wraps a value that never changes. It backs preview and test data.
func Fixed[T Value[T]](v T) Handle[T] {
	return fixed[T]{value: v}
}

// FixedAll wraps each value in a fixed handle.
func FixedAll[T Value[T]](values ...T) []Handle[T] {
	out := make([]Handle[T], len(values))
	for i, v := range values {
		out[i] = Fixed(v)
	}
	return out
}

func (f fixed[T]) ID() domain.EntityID                { return f.value.Identity() }
func (f fixed[T]) Snapshot() T                        { return f.value }
func (f fixed[T]) Current(context.Context) (T, error) { return f.value, nil }

// Loader reads the current value for id.
type Loader[T any] func(ctx context.Context, id domain.EntityID) (T, error)

// Subscriber registers for commit notifications.
type Subscriber func() (<-chan notify.Event, func())

// StoreHandle is a Handle that re-reads its value from the store.
type StoreHandle[T Value[T]] struct {
	id        domain.EntityID
	load      Loader[T]
	subscribe Subscriber

	mu   sync.RWMutex
	last T
}

// NewStoreHandle returns a handle seeded with initial.
func NewStoreHandle[T Value[T]](initial T, load Loader[T], subscribe Subscriber) *StoreHandle[T] {
	return &StoreHandle[T]{
		id:        initial.Identity(),
		load:      load,
		subscribe: subscribe,
		last:      initial,
	}
}

// ID returns the identity of the referenced record.
func (h *StoreHandle[T]) ID() domain.EntityID { return h.id }

// Snapshot returns the last value read.
func (h *StoreHandle[T]) Snapshot() T {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}

// Current re-reads the record and refreshes the snapshot.
func (h *StoreHandle[T]) Current(ctx context.Context) (T, error) {
	v, err := h.load(ctx, h.id)
	if err != nil {
		return h.Snapshot(), err
	}
	h.mu.Lock()
	h.last = v
	h.mu.Unlock()
	return v, nil
}

// Changes re-reads the record after every commit and yields it when it
// differs from the previous value.
func (h *StoreHandle[T]) Changes(ctx context.Context) <-chan T {
	out := make(chan T)
	events, cancel := h.subscribe()

	go func() {
		defer close(out)
		defer cancel()

		prev := h.Snapshot()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
			}

			v, err := h.Current(ctx)
			if err != nil {
				if errors.IsNotFound(err) {
					return
				}
				continue
			}
			if v.Equal(prev) {
				continue
			}
			prev = v

			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// IDs returns the identity sequence of handles.
func IDs[T any](handles []Handle[T]) []domain.EntityID {
	ids := make([]domain.EntityID, len(handles))
	for i, h := range handles {
		ids[i] = h.ID()
	}
	return ids
}

// SameIdentities reports whether a and b reference the same records in the
// same order.
func SameIdentities[T any](a, b []Handle[T]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID() != b[i].ID() {
			return false
		}
	}
	return true
}

// Snapshots returns the last value of each handle.
func Snapshots[T any](handles []Handle[T]) []T {
	out := make([]T, len(handles))
	for i, h := range handles {
		out[i] = h.Snapshot()
	}
	return out
}
