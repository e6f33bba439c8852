package bridge

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/domain"
	"todo/internal/live"
	"todo/internal/notify"
	"todo/internal/query"
)

type fakeFetcher struct {
	mu      sync.Mutex
	tasks   []domain.Task
	queries []*query.Query
	events  *notify.Broadcaster
}

func newFakeFetcher(tasks ...domain.Task) *fakeFetcher {
	return &fakeFetcher{tasks: tasks, events: notify.NewBroadcaster()}
}

func (f *fakeFetcher) Fetch(_ context.Context, q *query.Query) ([]live.Handle[domain.Task], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	out := []domain.Task{}
	for _, t := range f.tasks {
		if q.MatchNone {
			break
		}
		if want, ok := conditionValue(q, query.FieldCompleted); ok && want != t.Completed {
			continue
		}
		out = append(out, t)
	}
	return live.FixedAll(out...), nil
}

func conditionValue(q *query.Query, field query.Field) (interface{}, bool) {
	for _, c := range q.Conditions {
		if c.Field == field {
			return c.Value, true
		}
	}
	return nil, false
}

func (f *fakeFetcher) Subscribe() (<-chan notify.Event, func()) {
	return f.events.Subscribe()
}

func (f *fakeFetcher) set(tasks ...domain.Task) {
	f.mu.Lock()
	f.tasks = tasks
	f.mu.Unlock()
	f.events.Publish(notify.Event{Kinds: notify.Tasks})
}

func (f *fakeFetcher) lastQuery() *query.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return nil
	}
	return f.queries[len(f.queries)-1]
}

func task(key int64, title string, completed bool) domain.Task {
	return domain.Task{ID: domain.TaskRef(key), Title: title, Priority: domain.PriorityStandard, Completed: completed}
}

func titles(handles []live.Handle[domain.Task]) []string {
	out := make([]string, len(handles))
	for i, h := range handles {
		out[i] = h.Snapshot().Title
	}
	return out
}

func nextUpdate(t *testing.T, ch <-chan Update[domain.Task]) Update[domain.Task] {
	t.Helper()
	select {
	case u, ok := <-ch:
		require.True(t, ok, "updates closed")
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("no update delivered")
		return Update[domain.Task]{}
	}
}

func incompleteQuery() *query.Query {
	return query.New(query.Tasks).Where(query.FieldCompleted, query.Eq, false)
}

func TestFetchRequest_FixedCollection(t *testing.T) {
	env := NewEnvironment(DefaultDataSource())
	r := New(env, SelectIncompleteTasks, Fetcher[domain.Task](nil))
	defer r.Close()
	updates := r.Updates()

	assert.Equal(t, Uninitialized, r.State())
	r.Activate(context.Background())
	assert.Equal(t, FixedBound, r.State())

	u := nextUpdate(t, updates)
	assert.Equal(t, NoTransition, u.Transition)
	assert.Equal(t, []string{"Buy groceries"}, titles(u.Results))
	assert.Eventually(t, func() bool { return len(r.Results()) == 1 }, time.Second, time.Millisecond)
}

func TestFetchRequest_FixedCollectionChangedOnReactivation(t *testing.T) {
	env := NewEnvironment(DefaultDataSource())
	r := New(env, SelectIncompleteTasks, Fetcher[domain.Task](nil), WithTransition[domain.Task](DefaultTransition))
	defer r.Close()
	updates := r.Updates()

	r.Activate(context.Background())
	nextUpdate(t, updates)
	require.Eventually(t, func() bool { return len(r.Results()) == 1 }, time.Second, time.Millisecond)

	ds := env.DataSource()
	ds.IncompleteTasks = FixedCollection(live.FixedAll(task(1, "a", false), task(2, "b", false))...)
	env.Set(ds)
	r.Activate(context.Background())

	u := nextUpdate(t, updates)
	assert.Equal(t, DefaultTransition, u.Transition)
	assert.Equal(t, []string{"a", "b"}, titles(u.Results))
}

func TestFetchRequest_LiveQuery(t *testing.T) {
	fetcher := newFakeFetcher(task(1, "open", false), task(2, "done", true))
	env := NewEnvironment(LiveDataSource())
	r := New(env, SelectIncompleteTasks, Fetcher[domain.Task](fetcher), WithQuery[domain.Task](incompleteQuery()))
	defer r.Close()
	updates := r.Updates()

	r.Activate(context.Background())
	assert.Equal(t, LiveSubscribed, r.State())

	u := nextUpdate(t, updates)
	assert.Equal(t, NoTransition, u.Transition)
	assert.Equal(t, []string{"open"}, titles(u.Results))

	fetcher.set(task(1, "open", false), task(3, "new", false), task(2, "done", true))
	u = nextUpdate(t, updates)
	assert.Equal(t, DefaultTransition, u.Transition)
	assert.Equal(t, []string{"open", "new"}, titles(u.Results))
}

func TestFetchRequest_RemovesConsecutiveDuplicates(t *testing.T) {
	fetcher := newFakeFetcher(task(1, "open", false))
	env := NewEnvironment(LiveDataSource())

	var mu sync.Mutex
	var delivered []Update[domain.Task]
	r := New(env, SelectIncompleteTasks, Fetcher[domain.Task](fetcher),
		WithQuery[domain.Task](incompleteQuery()),
		OnChange(func(u Update[domain.Task]) {
			mu.Lock()
			delivered = append(delivered, u)
			mu.Unlock()
		}))
	defer r.Close()

	r.Activate(context.Background())
	require.Eventually(t, func() bool { return len(r.Results()) == 1 }, time.Second, time.Millisecond)

	// Same identities, new title: buffer refreshes without a new delivery.
	fetcher.set(task(1, "renamed", false))
	require.Eventually(t, func() bool {
		res := r.Results()
		return len(res) == 1 && res[0].Snapshot().Title == "renamed"
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, delivered, 1)
}

func TestFetchRequest_CoalescesBursts(t *testing.T) {
	fetcher := newFakeFetcher()
	env := NewEnvironment(LiveDataSource())
	r := New(env, SelectIncompleteTasks, Fetcher[domain.Task](fetcher),
		WithQuery[domain.Task](incompleteQuery()),
		WithQuantum[domain.Task](50*time.Millisecond))
	defer r.Close()
	updates := r.Updates()

	r.Activate(context.Background())
	first := nextUpdate(t, updates)
	assert.Empty(t, first.Results)

	fetcher.set(task(1, "a", false))
	fetcher.set(task(1, "a", false), task(2, "b", false))
	fetcher.set(task(1, "a", false), task(2, "b", false), task(3, "c", false))

	var last Update[domain.Task]
	require.Eventually(t, func() bool {
		select {
		case last = <-updates:
		default:
		}
		return len(last.Results) == 3
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, titles(last.Results))
}

func TestFetchRequest_SetQueryRepointsSubscription(t *testing.T) {
	fetcher := newFakeFetcher(task(1, "open", false), task(2, "done", true))
	env := NewEnvironment(LiveDataSource())
	r := New(env, SelectIncompleteTasks, Fetcher[domain.Task](fetcher), WithQuery[domain.Task](incompleteQuery()))
	defer r.Close()
	updates := r.Updates()

	r.Activate(context.Background())
	nextUpdate(t, updates)
	subscribers := fetcher.events.Subscribers()

	completeQuery := query.New(query.Tasks).Where(query.FieldCompleted, query.Eq, true)
	r.SetQuery(completeQuery)

	u := nextUpdate(t, updates)
	assert.Equal(t, []string{"done"}, titles(u.Results))
	assert.True(t, completeQuery.Equal(r.Query()))
	assert.True(t, completeQuery.Equal(fetcher.lastQuery()))
	assert.Equal(t, subscribers, fetcher.events.Subscribers(), "subscription must be reused")
}

func TestFetchRequest_ActivateTwiceKeepsOneSubscription(t *testing.T) {
	fetcher := newFakeFetcher(task(1, "open", false))
	env := NewEnvironment(LiveDataSource())
	r := New(env, SelectIncompleteTasks, Fetcher[domain.Task](fetcher), WithQuery[domain.Task](incompleteQuery()))
	defer r.Close()

	r.Activate(context.Background())
	r.Activate(context.Background())

	assert.Equal(t, 1, fetcher.events.Subscribers())
}

func TestFetchRequest_NilQueryYieldsEmptyResults(t *testing.T) {
	fetcher := newFakeFetcher(task(1, "open", false))
	env := NewEnvironment(LiveDataSource())
	r := New(env, SelectIncompleteTasks, Fetcher[domain.Task](fetcher))
	defer r.Close()
	updates := r.Updates()

	r.Activate(context.Background())
	u := nextUpdate(t, updates)
	assert.Empty(t, u.Results)
	assert.Nil(t, fetcher.lastQuery())
}

func TestFetchRequest_CloseEndsSubscription(t *testing.T) {
	fetcher := newFakeFetcher(task(1, "open", false))
	env := NewEnvironment(LiveDataSource())
	r := New(env, SelectIncompleteTasks, Fetcher[domain.Task](fetcher), WithQuery[domain.Task](incompleteQuery()))
	updates := r.Updates()

	r.Activate(context.Background())
	nextUpdate(t, updates)
	r.Close()

	assert.Equal(t, Closed, r.State())
	assert.Equal(t, 0, fetcher.events.Subscribers())
	_, ok := <-updates
	assert.False(t, ok)

	r.Activate(context.Background())
	assert.Equal(t, Closed, r.State())
}

func TestFetchRequest_ContextCancelAllowsResubscribe(t *testing.T) {
	fetcher := newFakeFetcher(task(1, "open", false))
	env := NewEnvironment(LiveDataSource())
	r := New(env, SelectIncompleteTasks, Fetcher[domain.Task](fetcher), WithQuery[domain.Task](incompleteQuery()))
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	r.Activate(ctx)
	require.Equal(t, 1, fetcher.events.Subscribers())
	cancel()
	require.Eventually(t, func() bool { return fetcher.events.Subscribers() == 0 }, time.Second, time.Millisecond)

	r.Activate(context.Background())
	assert.Equal(t, 1, fetcher.events.Subscribers())
}

func TestDefaultDataSource(t *testing.T) {
	ds := DefaultDataSource()

	incomplete, ok := ds.IncompleteTasks.Fixed()
	require.True(t, ok)
	require.Len(t, incomplete, 1)
	assert.False(t, incomplete[0].Snapshot().Completed)

	completed, ok := ds.CompletedTasks.Fixed()
	require.True(t, ok)
	require.Len(t, completed, 1)
	assert.True(t, completed[0].Snapshot().Completed)

	groups, ok := ds.Groups.Fixed()
	require.True(t, ok)
	assert.Len(t, groups, 1)

	assert.True(t, LiveDataSource().Groups.IsLive())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", Uninitialized.String())
	assert.Equal(t, "live", LiveSubscribed.String())
	assert.Equal(t, "fixed", FixedBound.String())
	assert.Equal(t, "closed", Closed.String())
}
