// Package notify broadcasts "a write committed" events to every subscriber.
//
// Delivery never blocks the publisher. Each subscriber has a single pending
// slot; events that arrive while the slot is full are merged into it, so a
// slow subscriber sees fewer events but never misses the fact that a commit
// touched a given record kind.
package notify

import "sync"

// Kind is a bit set of record kinds touched by a commit.
type Kind uint8

const (
	Tasks Kind = 1 << iota
	Groups
	Memos
)

// String returns a short description such as "tasks|memos".
func (k Kind) String() string {
	if k == 0 {
		return "none"
	}
	var out string
	for _, n := range []struct {
		kind Kind
		name string
	}{{Tasks, "tasks"}, {Groups, "groups"}, {Memos, "memos"}} {
		if k&n.kind == 0 {
			continue
		}
		if out != "" {
			out += "|"
		}
		out += n.name
	}
	return out
}

// Event describes one committed write transaction.
type Event struct {
	Kinds Kind
}

// Touches reports whether the commit changed records of kind k.
func (e Event) Touches(k Kind) bool {
	return e.Kinds&k != 0
}

// Broadcaster fans committed-write events out to subscribers.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[uint64]chan Event
	next   uint64
	closed bool
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[uint64]chan Event)}
}

// Subscribe registers a new subscriber. The returned cancel function
// unregisters it and closes the channel; it is safe to call more than once.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 1)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// Publish delivers e to every subscriber without blocking.
func (b *Broadcaster) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			// Slot is full: merge with the pending event. Only publishers
			// write to ch and they hold b.mu, so the resend cannot block.
			select {
			case pending := <-ch:
				ch <- Event{Kinds: pending.Kinds | e.Kinds}
			default:
				ch <- e
			}
		}
	}
}

// Subscribers returns the number of active subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscriber channel. Later subscriptions receive an
// already-closed channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
