// Package bridge republishes query results for list views.
//
// A FetchRequest watches one query slot of the active DataSource. The slot
// is either backed by the store through a Fetcher, or bound to a fixed
// collection for previews and tests. Results arrive on a single delivery
// goroutine, coalesced and with consecutive duplicates removed.
package bridge

import (
	"context"
	"sync"
	"time"

	"todo/internal/domain"
	"todo/internal/live"
	"todo/internal/notify"
	"todo/internal/query"
)

// Fetcher runs queries against the store and reports commits.
type Fetcher[T any] interface {
	Fetch(ctx context.Context, q *query.Query) ([]live.Handle[T], error)
	Subscribe() (<-chan notify.Event, func())
}

type slotMode uint8

const (
	modeLive slotMode = iota
	modeFixed
)

// Slot says how one query slot is satisfied.
type Slot[T any] struct {
	mode    slotMode
	handles []live.Handle[T]
}

// LiveQuery backs the slot with the store.
func LiveQuery[T any]() Slot[T] {
	return Slot[T]{mode: modeLive}
}

// FixedCollection binds the slot to handles.
func FixedCollection[T any](handles ...live.Handle[T]) Slot[T] {
	return Slot[T]{mode: modeFixed, handles: handles}
}

// IsLive reports whether the slot is store backed.
func (s Slot[T]) IsLive() bool { return s.mode == modeLive }

// Fixed returns the bound collection of a fixed slot.
func (s Slot[T]) Fixed() ([]live.Handle[T], bool) {
	return s.handles, s.mode == modeFixed
}

// DataSource configures every query slot.
type DataSource struct {
	IncompleteTasks Slot[domain.Task]
	CompletedTasks  Slot[domain.Task]
	Groups          Slot[domain.Group]
}

// LiveDataSource backs every slot with the store.
func LiveDataSource() DataSource {
	return DataSource{
		IncompleteTasks: LiveQuery[domain.Task](),
		CompletedTasks:  LiveQuery[domain.Task](),
		Groups:          LiveQuery[domain.Group](),
	}
}

// DefaultDataSource is the preview configuration: one sample task per
// task slot and one sample group.
func DefaultDataSource() DataSource {
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	incomplete := domain.Task{
		ID:        domain.IntegerID(1),
		Priority:  domain.PriorityHigh,
		CreatedAt: created,
		Title:     "Buy groceries",
		DueToday:  true,
	}
	completed := domain.Task{
		ID:        domain.IntegerID(2),
		Priority:  domain.PriorityStandard,
		CreatedAt: created.Add(-24 * time.Hour),
		Title:     "Renew passport",
		Completed: true,
		Memo:      &domain.Memo{ID: domain.IntegerID(1), Content: "Bring two photos"},
	}
	group := domain.Group{ID: domain.IntegerID(1), Title: "Errands", TaskCount: 2}

	return DataSource{
		IncompleteTasks: FixedCollection(live.Fixed(incomplete)),
		CompletedTasks:  FixedCollection(live.Fixed(completed)),
		Groups:          FixedCollection(live.Fixed(group)),
	}
}

// Selector picks the watched slot from a DataSource.
type Selector[T any] func(DataSource) Slot[T]

// SelectIncompleteTasks, SelectCompletedTasks and SelectGroups pick the
// DataSource slot of the same name.
func SelectIncompleteTasks(ds DataSource) Slot[domain.Task] { return ds.IncompleteTasks }
func SelectCompletedTasks(ds DataSource) Slot[domain.Task]  { return ds.CompletedTasks }
func SelectGroups(ds DataSource) Slot[domain.Group]         { return ds.Groups }

// Environment holds the DataSource in effect. It is set at composition time
// and read on every activation.
type Environment struct {
	mu sync.RWMutex
	ds DataSource
}

// NewEnvironment creates an environment with ds active.
func NewEnvironment(ds DataSource) *Environment {
	return &Environment{ds: ds}
}

// Set replaces the active DataSource.
func (e *Environment) Set(ds DataSource) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ds = ds
}

// DataSource returns the active DataSource.
func (e *Environment) DataSource() DataSource {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ds
}
