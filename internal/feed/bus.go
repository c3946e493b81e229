package feed

import (
	"context"
	"sync"
)

// Bus is an in-process Publisher/Subscriber with the same contract as
// the Redis feed. It backs tests and single-process deployments.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]chan Event
}

// NewBus creates an empty in-process feed.
func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]chan Event)}
}

// Publish fans the event out to every subscriber of its table.
// A subscriber that has fallen far behind loses the event; every
// consumer re-fetches full lists, so a dropped event is only a missed
// refresh, not corruption.
func (b *Bus) Publish(_ context.Context, ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[ev.Table] {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

// Subscribe registers a listener for one table.
func (b *Bus) Subscribe(_ context.Context, table string) (<-chan Event, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[table] == nil {
		b.subs[table] = make(map[int]chan Event)
	}
	id := b.next
	b.next++
	ch := make(chan Event, 64)
	b.subs[table][id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[table][id]; ok {
			delete(b.subs[table], id)
			close(sub)
		}
	}
	return ch, cancel, nil
}
