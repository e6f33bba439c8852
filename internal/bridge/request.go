package bridge

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"todo/internal/live"
	"todo/internal/logging"
	"todo/internal/query"
)

// DefaultQuantum is the coalescing delay applied to every push.
const DefaultQuantum = time.Millisecond

// Transition describes how a consumer should present a result change.
type Transition struct {
	Animated bool
	Duration time.Duration
}

// NoTransition is applied to the first delivery.
var NoTransition = Transition{}

// DefaultTransition is applied to later deliveries unless overridden.
var DefaultTransition = Transition{Animated: true, Duration: 250 * time.Millisecond}

// Update is one delivered result set.
type Update[T any] struct {
	Results    []live.Handle[T]
	Transition Transition
}

// State is the lifecycle state of a FetchRequest.
type State uint8

const (
	Uninitialized State = iota
	LiveSubscribed
	FixedBound
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case LiveSubscribed:
		return "live"
	case FixedBound:
		return "fixed"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Option configures a FetchRequest.
type Option[T any] func(*FetchRequest[T])

// WithQuery seeds the live subscription with q.
func WithQuery[T any](q *query.Query) Option[T] {
	return func(r *FetchRequest[T]) { r.query = q }
}

// WithTransition sets the transition used after the first delivery.
func WithTransition[T any](t Transition) Option[T] {
	return func(r *FetchRequest[T]) { r.transition = t }
}

// WithQuantum sets the coalescing delay.
func WithQuantum[T any](d time.Duration) Option[T] {
	return func(r *FetchRequest[T]) {
		if d > 0 {
			r.quantum = d
		}
	}
}

// WithLogger sets the logger for fetch failures.
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(r *FetchRequest[T]) { r.log = logging.OrDiscard(l) }
}

// OnChange registers fn to run on the delivery goroutine for every update.
func OnChange[T any](fn func(Update[T])) Option[T] {
	return func(r *FetchRequest[T]) { r.onChange = fn }
}

// FetchRequest is the live result set of one query slot.
type FetchRequest[T any] struct {
	env        *Environment
	selector   Selector[T]
	fetcher    Fetcher[T]
	quantum    time.Duration
	transition Transition
	log        *slog.Logger
	onChange   func(Update[T])

	mu         sync.Mutex
	query      *query.Query
	results    []live.Handle[T]
	state      State
	liveCancel context.CancelFunc
	liveGen    uint64

	refetch     chan struct{}
	pushMu      sync.Mutex
	sender      chan []live.Handle[T]
	updates     chan Update[T]
	wantUpdates atomic.Bool

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a request watching the slot chosen by selector. fetcher is
// only used while that slot is configured as a live query.
func New[T any](env *Environment, selector Selector[T], fetcher Fetcher[T], opts ...Option[T]) *FetchRequest[T] {
	r := &FetchRequest[T]{
		env:        env,
		selector:   selector,
		fetcher:    fetcher,
		quantum:    DefaultQuantum,
		transition: DefaultTransition,
		log:        logging.Discard(),
		refetch:    make(chan struct{}, 1),
		sender:     make(chan []live.Handle[T], 1),
		updates:    make(chan Update[T]),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.wg.Add(1)
	go r.deliver()
	return r
}

// Activate re-checks the slot configuration. A live slot gets a
// subscription if it has none; it lasts until ctx is done or the request
// is closed. A fixed slot pushes its collection when it differs from the
// buffered results.
func (r *FetchRequest[T]) Activate(ctx context.Context) {
	slot := r.selector(r.env.DataSource())

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == Closed {
		return
	}

	if slot.IsLive() {
		r.state = LiveSubscribed
		if r.liveCancel == nil {
			r.startLive(ctx)
		}
		return
	}

	if r.liveCancel != nil {
		r.liveCancel()
		r.liveCancel = nil
	}
	r.state = FixedBound
	fixed, _ := slot.Fixed()
	if !live.SameIdentities(fixed, r.results) || r.results == nil {
		r.push(fixed)
	}
}

// startLive must be called with r.mu held.
func (r *FetchRequest[T]) startLive(ctx context.Context) {
	liveCtx, cancel := context.WithCancel(ctx)
	r.liveGen++
	gen := r.liveGen
	r.liveCancel = cancel

	events, unsubscribe := r.fetcher.Subscribe()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer unsubscribe()
		defer r.clearLive(gen)

		stop := func() bool {
			select {
			case <-liveCtx.Done():
				return true
			case <-r.done:
				return true
			default:
				return false
			}
		}

		r.fetchAndPush(liveCtx)
		for {
			select {
			case <-liveCtx.Done():
				return
			case <-r.done:
				return
			case <-r.refetch:
			case _, ok := <-events:
				if !ok {
					return
				}
			}
			if stop() {
				return
			}
			r.fetchAndPush(liveCtx)
		}
	}()
}

func (r *FetchRequest[T]) clearLive(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.liveGen == gen && r.liveCancel != nil {
		r.liveCancel()
		r.liveCancel = nil
	}
}

func (r *FetchRequest[T]) fetchAndPush(ctx context.Context) {
	q := r.Query()
	if q == nil {
		r.push([]live.Handle[T]{})
		return
	}
	handles, err := r.fetcher.Fetch(ctx, q)
	if err != nil {
		if ctx.Err() == nil {
			r.log.Error("fetch failed", "query", q.String(), "error", err)
		}
		return
	}
	if handles == nil {
		handles = []live.Handle[T]{}
	}
	r.push(handles)
}

// push hands v to the delivery goroutine, replacing any value it has not
// picked up yet.
func (r *FetchRequest[T]) push(v []live.Handle[T]) {
	r.pushMu.Lock()
	defer r.pushMu.Unlock()
	select {
	case <-r.sender:
	default:
	}
	r.sender <- v
}

func (r *FetchRequest[T]) deliver() {
	defer r.wg.Done()
	defer close(r.updates)

	first := true
	var last []live.Handle[T]
	timer := time.NewTimer(r.quantum)
	timer.Stop()

	for {
		var v []live.Handle[T]
		select {
		case <-r.done:
			return
		case v = <-r.sender:
		}

		// Let a synchronous burst settle, then take the newest value.
		timer.Reset(r.quantum)
		select {
		case <-r.done:
			timer.Stop()
			return
		case <-timer.C:
		}
		select {
		case v = <-r.sender:
		default:
		}

		if !first && live.SameIdentities(last, v) {
			r.setResults(v)
			continue
		}

		u := Update[T]{Results: v, Transition: r.transition}
		if first {
			u.Transition = NoTransition
			first = false
		}
		last = v
		r.setResults(v)

		if r.onChange != nil {
			r.onChange(u)
		}
		if r.wantUpdates.Load() {
			select {
			case r.updates <- u:
			case <-r.done:
				return
			}
		}
	}
}

func (r *FetchRequest[T]) setResults(v []live.Handle[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = v
}

// Results returns the buffered result set.
func (r *FetchRequest[T]) Results() []live.Handle[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results
}

// Query returns the current concrete query.
func (r *FetchRequest[T]) Query() *query.Query {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.query
}

// SetQuery replaces the concrete query. A live subscription keeps running
// and re-fetches with q.
func (r *FetchRequest[T]) SetQuery(q *query.Query) {
	r.mu.Lock()
	r.query = q
	subscribed := r.liveCancel != nil
	r.mu.Unlock()

	if subscribed {
		select {
		case r.refetch <- struct{}{}:
		default:
		}
	}
}

// State returns the lifecycle state.
func (r *FetchRequest[T]) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Updates returns the delivery channel. Once called, deliveries wait for
// the consumer, so it must keep reading until the channel closes.
func (r *FetchRequest[T]) Updates() <-chan Update[T] {
	r.wantUpdates.Store(true)
	return r.updates
}

// Close ends the live subscription and the delivery goroutine.
func (r *FetchRequest[T]) Close() {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.state = Closed
		if r.liveCancel != nil {
			r.liveCancel()
			r.liveCancel = nil
		}
		r.mu.Unlock()

		close(r.done)
		r.wg.Wait()
	})
}
