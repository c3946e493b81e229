// Package feed carries change notifications out of the item store.
// Every mutation publishes an Event; view synchronizers subscribe per
// table and re-fetch their lists when anything changes.
package feed

import (
	"context"
)

// Op is the kind of mutation an event describes.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event is one change notification.
type Event struct {
	Table string `json:"table"`
	Op    Op     `json:"op"`
	ID    int64  `json:"id"`
}

// Publisher emits change events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Subscriber delivers change events for a single table. The returned
// cancel func releases the subscription; the channel is closed when the
// subscription ends.
type Subscriber interface {
	Subscribe(ctx context.Context, table string) (<-chan Event, func(), error)
}
