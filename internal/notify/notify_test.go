package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_PublishReachesEverySubscriber(t *testing.T) {
	b := NewBroadcaster()
	first, cancelFirst := b.Subscribe()
	defer cancelFirst()
	second, cancelSecond := b.Subscribe()
	defer cancelSecond()

	b.Publish(Event{Kinds: Tasks})

	assert.Equal(t, Event{Kinds: Tasks}, <-first)
	assert.Equal(t, Event{Kinds: Tasks}, <-second)
}

func TestBroadcaster_MergesPendingEvents(t *testing.T) {
	b := NewBroadcaster()
	events, cancel := b.Subscribe()
	defer cancel()

	b.Publish(Event{Kinds: Groups})
	b.Publish(Event{Kinds: Tasks})
	b.Publish(Event{Kinds: Memos})

	e := <-events
	assert.True(t, e.Touches(Groups))
	assert.True(t, e.Touches(Tasks))
	assert.True(t, e.Touches(Memos))

	select {
	case extra := <-events:
		t.Fatalf("unexpected extra event %v", extra)
	default:
	}
}

func TestBroadcaster_CancelClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	events, cancel := b.Subscribe()
	require.Equal(t, 1, b.Subscribers())

	cancel()
	cancel()

	_, ok := <-events
	assert.False(t, ok)
	assert.Equal(t, 0, b.Subscribers())

	// Publishing with no subscribers is a no-op.
	b.Publish(Event{Kinds: Tasks})
}

func TestBroadcaster_Close(t *testing.T) {
	b := NewBroadcaster()
	events, cancel := b.Subscribe()
	defer cancel()

	b.Close()
	_, ok := <-events
	assert.False(t, ok)

	late, lateCancel := b.Subscribe()
	defer lateCancel()
	_, ok = <-late
	assert.False(t, ok)
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{0, "none"},
		{Tasks, "tasks"},
		{Tasks | Memos, "tasks|memos"},
		{Tasks | Groups | Memos, "tasks|groups|memos"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}
