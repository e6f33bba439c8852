package live

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/notify"
)

type fakeStore struct {
	mu     sync.Mutex
	tasks  map[domain.EntityID]domain.Task
	events *notify.Broadcaster
}

func newFakeStore(tasks ...domain.Task) *fakeStore {
	s := &fakeStore{tasks: map[domain.EntityID]domain.Task{}, events: notify.NewBroadcaster()}
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
	return s
}

func (s *fakeStore) load(_ context.Context, id domain.EntityID) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, errors.NewNotFoundError("task", id.String())
	}
	return t, nil
}

func (s *fakeStore) put(t domain.Task) {
	s.mu.Lock()
	s.tasks[t.ID] = t
	s.mu.Unlock()
	s.events.Publish(notify.Event{Kinds: notify.Tasks})
}

func (s *fakeStore) remove(id domain.EntityID) {
	s.mu.Lock()
	delete(s.tasks, id)
	s.mu.Unlock()
	s.events.Publish(notify.Event{Kinds: notify.Tasks})
}

func sampleTask(key int64, title string) domain.Task {
	t := domain.NewTask(title)
	t.ID = domain.TaskRef(key)
	return t
}

func TestFixed(t *testing.T) {
	task := sampleTask(1, "Buy milk")
	h := Fixed(task)

	assert.Equal(t, task.ID, h.ID())
	assert.Equal(t, task, h.Snapshot())

	got, err := h.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, task, got)
}

func TestStoreHandle_Current(t *testing.T) {
	task := sampleTask(1, "Buy milk")
	store := newFakeStore(task)
	h := NewStoreHandle(task, store.load, store.events.Subscribe)

	updated := task
	updated.Title = "Buy oat milk"
	store.put(updated)

	assert.Equal(t, "Buy milk", h.Snapshot().Title)

	got, err := h.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", got.Title)
	assert.Equal(t, "Buy oat milk", h.Snapshot().Title)
}

func TestStoreHandle_CurrentNotFoundKeepsSnapshot(t *testing.T) {
	task := sampleTask(1, "Buy milk")
	store := newFakeStore(task)
	h := NewStoreHandle(task, store.load, store.events.Subscribe)
	store.remove(task.ID)

	got, err := h.Current(context.Background())
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, task, got)
}

func TestStoreHandle_Changes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	task := sampleTask(1, "Buy milk")
	store := newFakeStore(task)
	h := NewStoreHandle(task, store.load, store.events.Subscribe)
	changes := h.Changes(ctx)

	require.Eventually(t, func() bool { return store.events.Subscribers() == 1 }, time.Second, time.Millisecond)

	done := task
	done.Completed = true
	store.put(done)

	select {
	case v := <-changes:
		assert.True(t, v.Completed)
	case <-time.After(time.Second):
		t.Fatal("no change delivered")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-changes:
			return !ok
		default:
			return false
		}
	}, time.Second, time.Millisecond)
	assert.Eventually(t, func() bool { return store.events.Subscribers() == 0 }, time.Second, time.Millisecond)
}

func TestStoreHandle_ChangesClosesWhenRecordDeleted(t *testing.T) {
	task := sampleTask(1, "Buy milk")
	store := newFakeStore(task)
	h := NewStoreHandle(task, store.load, store.events.Subscribe)
	changes := h.Changes(context.Background())

	require.Eventually(t, func() bool { return store.events.Subscribers() == 1 }, time.Second, time.Millisecond)
	store.remove(task.ID)

	select {
	case _, ok := <-changes:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("changes not closed")
	}
}

func TestSameIdentities(t *testing.T) {
	a := FixedAll(sampleTask(1, "a"), sampleTask(2, "b"))
	renamed := FixedAll(sampleTask(1, "x"), sampleTask(2, "y"))
	reordered := FixedAll(sampleTask(2, "b"), sampleTask(1, "a"))

	assert.True(t, SameIdentities(a, renamed))
	assert.False(t, SameIdentities(a, reordered))
	assert.False(t, SameIdentities(a, a[:1]))
	assert.True(t, SameIdentities[domain.Task](nil, nil))

	assert.Equal(t, []domain.EntityID{domain.TaskRef(1), domain.TaskRef(2)}, IDs(a))
	assert.Equal(t, []string{"x", "y"}, []string{Snapshots(renamed)[0].Title, Snapshots(renamed)[1].Title})
}
