package submissions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/swapcloset/swapcloset-golang/internal/apperr"
	"github.com/swapcloset/swapcloset-golang/internal/itemstore"
	"github.com/swapcloset/swapcloset-golang/internal/models"
)

func seed(t *testing.T) (*Repository, *itemstore.Memory) {
	t.Helper()
	store := itemstore.NewMemory(nil)
	repo := New(store)
	ctx := context.Background()

	// Unset status: still counts as pending.
	repo.Create(ctx, CreateInput{Title: "Hoodie", Category: "hoodies", OwnerUserID: 1})

	// Explicitly pending.
	pending := models.ApprovalPending
	store.Insert(ctx, &models.Item{Title: "Sneakers", Category: "shoes", OwnerUserID: 2, ApprovalStatus: &pending})

	// Reviewed both ways.
	now := time.Now()
	approved, _ := store.Insert(ctx, &models.Item{Title: "Scarf", Category: "accessories", OwnerUserID: 1})
	store.TransitionReview(ctx, approved, itemstore.ReviewTransition{
		Status: models.ApprovalApproved, ReviewedBy: 9, ReviewedAt: now, SwapCoins: 10,
	})
	rejected, _ := store.Insert(ctx, &models.Item{Title: "Torn Jeans", Category: "jeans", OwnerUserID: 2})
	store.TransitionReview(ctx, rejected, itemstore.ReviewTransition{
		Status: models.ApprovalRejected, ReviewedBy: 9, ReviewedAt: now,
	})

	// A catalog item must never leak into the submission view.
	store.Insert(ctx, &models.Item{Title: "Shop Coat", Category: "coats", IsShopItem: true, Status: models.ItemStatusActive})

	return repo, store
}

func TestListPartitions(t *testing.T) {
	repo, _ := seed(t)
	ctx := context.Background()

	all, err := repo.List(ctx, "")
	assert.NoError(t, err)
	assert.Len(t, all, 4)

	pending, err := repo.List(ctx, "pending")
	assert.NoError(t, err)
	assert.Len(t, pending, 2, "pending includes unset statuses")

	approved, err := repo.List(ctx, "approved")
	assert.NoError(t, err)
	assert.Len(t, approved, 1)
	assert.Equal(t, "Scarf", approved[0].Title)

	rejected, err := repo.List(ctx, "rejected")
	assert.NoError(t, err)
	assert.Len(t, rejected, 1)
	assert.Equal(t, "Torn Jeans", rejected[0].Title)
}

func TestListRejectsUnknownFilter(t *testing.T) {
	repo, _ := seed(t)

	_, err := repo.List(context.Background(), "archived")

	var validationErr *apperr.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestListMine(t *testing.T) {
	repo, _ := seed(t)

	mine, err := repo.ListMine(context.Background(), 2)
	assert.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, item := range mine {
		assert.Equal(t, int64(2), item.OwnerUserID)
	}
}

func TestGetHidesCatalogItems(t *testing.T) {
	repo, store := seed(t)
	ctx := context.Background()

	shop := true
	catalogItems, _ := store.List(ctx, itemstore.Filter{ShopItem: &shop})
	assert.NotEmpty(t, catalogItems)

	var notFound *apperr.NotFoundError
	_, err := repo.Get(ctx, catalogItems[0].ID)
	assert.True(t, errors.As(err, &notFound))

	_, err = repo.Get(ctx, 999)
	assert.True(t, errors.As(err, &notFound))
}

func TestCreateValidatesAndSetsPrimaryImage(t *testing.T) {
	store := itemstore.NewMemory(nil)
	repo := New(store)
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateInput{Category: "tops"})
	var validationErr *apperr.ValidationError
	assert.True(t, errors.As(err, &validationErr))

	item, err := repo.Create(ctx, CreateInput{
		Title:    "Linen Shirt",
		Category: "shirts",
		Images:   []string{"http://cdn.test/1.jpg", "http://cdn.test/2.jpg"},
	})
	assert.NoError(t, err)
	assert.False(t, item.IsShopItem)
	assert.Nil(t, item.ApprovalStatus)
	assert.Equal(t, "http://cdn.test/1.jpg", *item.ImageURL)
}
