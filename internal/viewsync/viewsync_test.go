package viewsync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/swapcloset/swapcloset-golang/internal/catalog"
	"github.com/swapcloset/swapcloset-golang/internal/feed"
	"github.com/swapcloset/swapcloset-golang/internal/itemstore"
	"github.com/swapcloset/swapcloset-golang/internal/models"
	"github.com/swapcloset/swapcloset-golang/internal/submissions"
)

func waitForSize(t *testing.T, sizes <-chan int) int {
	t.Helper()
	select {
	case n := <-sizes:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a snapshot")
		return 0
	}
}

func TestCatalogViewRefetchesOnEvents(t *testing.T) {
	bus := feed.NewBus()
	store := itemstore.NewMemory(bus)
	repo := catalog.New(store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	view := NewView("catalog", repo.List)
	sizes := make(chan int, 16)
	view.OnUpdate = func(items []*models.Item) { sizes <- len(items) }

	done := make(chan error, 1)
	go func() { done <- view.Run(ctx, bus) }()

	assert.Equal(t, 0, waitForSize(t, sizes), "initial snapshot is empty")

	item, err := repo.Create(ctx, catalog.CreateInput{
		Title: "Corduroy Pants", Category: "pants", Price: 22, StockQuantity: 6,
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, waitForSize(t, sizes), "insert event triggers a re-fetch")
	assert.Equal(t, "in_stock", view.Items()[0].StockStatus)

	assert.NoError(t, repo.AdjustStock(ctx, item.ID, 2))
	assert.Equal(t, 1, waitForSize(t, sizes), "update event triggers a re-fetch")
	assert.Equal(t, 2, view.Items()[0].StockQuantity)
	assert.Equal(t, "low_stock", view.Items()[0].StockStatus)

	assert.NoError(t, repo.Delete(ctx, item.ID))
	assert.Equal(t, 0, waitForSize(t, sizes), "deleted item is absent from the next snapshot")

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
}

func TestPendingViewSeesReviewTransitions(t *testing.T) {
	bus := feed.NewBus()
	store := itemstore.NewMemory(bus)
	repo := submissions.New(store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	view := NewView("pending", func(ctx context.Context) ([]*models.Item, error) {
		return repo.List(ctx, "pending")
	})
	sizes := make(chan int, 16)
	view.OnUpdate = func(items []*models.Item) { sizes <- len(items) }

	go view.Run(ctx, bus)
	assert.Equal(t, 0, waitForSize(t, sizes))

	item, err := repo.Create(ctx, submissions.CreateInput{
		Title: "Flannel Shirt", Category: "shirts", OwnerUserID: 3,
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, waitForSize(t, sizes))

	err = store.TransitionReview(ctx, item.ID, itemstore.ReviewTransition{
		Status: models.ApprovalRejected, ReviewedBy: 9, ReviewedAt: time.Now(),
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, waitForSize(t, sizes), "reviewed item leaves the pending queue")
}
