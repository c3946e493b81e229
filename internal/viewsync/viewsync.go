// Package viewsync keeps per-view item snapshots fresh. Each view
// subscribes to the items change feed independently and re-runs its
// repository query on every insert/update/delete event. There is no
// row-level diffing: an event means the whole list is fetched again,
// which trades bandwidth for a consistency argument that fits on one
// line.
package viewsync

import (
	"context"
	"log"
	"sync"

	"github.com/swapcloset/swapcloset-golang/internal/feed"
	"github.com/swapcloset/swapcloset-golang/internal/itemstore"
	"github.com/swapcloset/swapcloset-golang/internal/models"
)

// FetchFunc re-runs the view's repository query.
type FetchFunc func(ctx context.Context) ([]*models.Item, error)

// View is one synchronized list (catalog, pending queue, approved,
// rejected). Items returns the latest snapshot; Run keeps it fresh.
type View struct {
	name  string
	fetch FetchFunc

	mu    sync.RWMutex
	items []*models.Item

	// OnUpdate, when set, observes every snapshot refresh. Used by the
	// consumers that push updates onward and by tests.
	OnUpdate func(items []*models.Item)
}

// NewView builds a view around a repository query.
func NewView(name string, fetch FetchFunc) *View {
	return &View{name: name, fetch: fetch}
}

// Name identifies the view.
func (v *View) Name() string { return v.name }

// Items returns the most recent snapshot.
func (v *View) Items() []*models.Item {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.items
}

// Refresh re-fetches the list and swaps the snapshot.
func (v *View) Refresh(ctx context.Context) error {
	items, err := v.fetch(ctx)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*models.Item{}
	}

	v.mu.Lock()
	v.items = items
	v.mu.Unlock()

	if v.OnUpdate != nil {
		v.OnUpdate(items)
	}
	return nil
}

// Run subscribes to the items feed and refreshes on every event until
// the context is cancelled. The initial snapshot is fetched right after
// the subscription is established so no event can fall in between.
func (v *View) Run(ctx context.Context, sub feed.Subscriber) error {
	events, cancel, err := sub.Subscribe(ctx, itemstore.Table)
	if err != nil {
		return err
	}
	defer cancel()

	if err := v.Refresh(ctx); err != nil {
		log.Printf("WARNING: view %s: initial fetch failed: %v", v.name, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-events:
			if !ok {
				return nil
			}
			if err := v.Refresh(ctx); err != nil {
				// A failed re-fetch keeps the previous snapshot; the next
				// event triggers another attempt.
				log.Printf("WARNING: view %s: re-fetch failed: %v", v.name, err)
			}
		}
	}
}
