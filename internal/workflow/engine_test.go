package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/swapcloset/swapcloset-golang/internal/apperr"
	"github.com/swapcloset/swapcloset-golang/internal/itemstore"
	"github.com/swapcloset/swapcloset-golang/internal/ledger"
	"github.com/swapcloset/swapcloset-golang/internal/models"
)

const reviewerID = int64(99)

func newEngine() (*Engine, *itemstore.Memory, *ledger.Memory) {
	store := itemstore.NewMemory(nil)
	coins := ledger.NewMemory()
	return New(store, coins, nil), store, coins
}

func newSubmission(t *testing.T, store *itemstore.Memory, title string, owner int64) int64 {
	t.Helper()
	id, err := store.Insert(context.Background(), &models.Item{
		Title: title, Category: "tops", OwnerUserID: owner,
	})
	assert.NoError(t, err)
	return id
}

func TestApproveCreditsOwnerOnce(t *testing.T) {
	engine, store, coins := newEngine()
	ctx := context.Background()
	id := newSubmission(t, store, "Denim Jacket", 1)

	estimated := 40.0
	item, err := engine.Approve(ctx, id, reviewerID, ApproveParams{
		Notes:          "great condition",
		SwapCoins:      25,
		Convertible:    true,
		EstimatedValue: &estimated,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, *item.ApprovalStatus)
	assert.Equal(t, "great condition", *item.ReviewNotes)
	assert.Equal(t, reviewerID, *item.ReviewedBy)
	assert.NotNil(t, item.ReviewedAt)
	assert.Equal(t, 25, item.SwapCoins)
	assert.True(t, item.ConvertibleToInventory)
	assert.Equal(t, 40.0, *item.EstimatedValue)

	balance, _ := coins.Balance(ctx, 1)
	assert.Equal(t, 25, balance)

	// A second approval loses the race: state conflict, no extra credit.
	_, err = engine.Approve(ctx, id, reviewerID, ApproveParams{SwapCoins: 25})
	var conflict *apperr.StateConflictError
	assert.True(t, errors.As(err, &conflict))

	balance, _ = coins.Balance(ctx, 1)
	assert.Equal(t, 25, balance)
}

func TestApproveWithZeroAwardSkipsLedger(t *testing.T) {
	engine, store, coins := newEngine()
	ctx := context.Background()
	id := newSubmission(t, store, "Plain Tee", 4)

	_, err := engine.Approve(ctx, id, reviewerID, ApproveParams{})
	assert.NoError(t, err)

	balance, _ := coins.Balance(ctx, 4)
	assert.Equal(t, 0, balance)
}

func TestApproveRejectsCatalogItemsAndMissingIDs(t *testing.T) {
	engine, store, _ := newEngine()
	ctx := context.Background()

	shopID, _ := store.Insert(ctx, &models.Item{
		Title: "Shop Coat", Category: "coats", IsShopItem: true, Status: models.ItemStatusActive,
	})

	var conflict *apperr.StateConflictError
	_, err := engine.Approve(ctx, shopID, reviewerID, ApproveParams{SwapCoins: 5})
	assert.True(t, errors.As(err, &conflict))

	var notFound *apperr.NotFoundError
	_, err = engine.Approve(ctx, 12345, reviewerID, ApproveParams{SwapCoins: 5})
	assert.True(t, errors.As(err, &notFound))

	_, err = engine.Approve(ctx, shopID, reviewerID, ApproveParams{SwapCoins: -1})
	var validationErr *apperr.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestRejectLeavesBalanceUntouched(t *testing.T) {
	engine, store, coins := newEngine()
	ctx := context.Background()
	id := newSubmission(t, store, "Worn Boots", 2)

	item, err := engine.Reject(ctx, id, reviewerID, RejectParams{Notes: "too worn"})
	assert.NoError(t, err)
	assert.Equal(t, models.ApprovalRejected, *item.ApprovalStatus)
	assert.Equal(t, "too worn", *item.ReviewNotes)

	balance, _ := coins.Balance(ctx, 2)
	assert.Equal(t, 0, balance)

	// Terminal: a second review attempt conflicts, either way around.
	var conflict *apperr.StateConflictError
	_, err = engine.Reject(ctx, id, reviewerID, RejectParams{Notes: "again"})
	assert.True(t, errors.As(err, &conflict))
	_, err = engine.Approve(ctx, id, reviewerID, ApproveParams{SwapCoins: 10})
	assert.True(t, errors.As(err, &conflict))

	balance, _ = coins.Balance(ctx, 2)
	assert.Equal(t, 0, balance)
}

func TestConvertToInventory(t *testing.T) {
	engine, store, _ := newEngine()
	ctx := context.Background()

	// Not yet approved: conversion must refuse.
	pendingID := newSubmission(t, store, "Wool Sweater", 3)
	var conflict *apperr.StateConflictError
	_, err := engine.ConvertToInventory(ctx, pendingID)
	assert.True(t, errors.As(err, &conflict))

	// Approved but not convertible: still refused.
	estimated := 18.5
	_, err = engine.Approve(ctx, pendingID, reviewerID, ApproveParams{
		SwapCoins: 5, Convertible: false, EstimatedValue: &estimated,
	})
	assert.NoError(t, err)
	_, err = engine.ConvertToInventory(ctx, pendingID)
	assert.True(t, errors.As(err, &conflict))

	// Approved and convertible: same row becomes a catalog listing.
	convertibleID := newSubmission(t, store, "Vintage Dress", 3)
	_, err = engine.Approve(ctx, convertibleID, reviewerID, ApproveParams{
		SwapCoins: 5, Convertible: true, EstimatedValue: &estimated,
	})
	assert.NoError(t, err)

	item, err := engine.ConvertToInventory(ctx, convertibleID)
	assert.NoError(t, err)
	assert.Equal(t, convertibleID, item.ID, "conversion keeps the item's identity")
	assert.True(t, item.IsShopItem)
	assert.Equal(t, models.ItemStatusActive, item.Status)
	assert.Equal(t, 1, item.StockQuantity)
	assert.Equal(t, 18.5, *item.Price)
	assert.NotNil(t, item.SKU)
	assert.NotEmpty(t, *item.SKU)

	// Conversion is one-way.
	_, err = engine.ConvertToInventory(ctx, convertibleID)
	assert.True(t, errors.As(err, &conflict))
}

func TestBatchApproveCreditsEachOwner(t *testing.T) {
	engine, store, coins := newEngine()
	ctx := context.Background()

	a := newSubmission(t, store, "Item A", 1)
	b := newSubmission(t, store, "Item B", 2)

	result, err := engine.BatchApprove(ctx, []int64{a, b}, 10, reviewerID)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []int64{a, b}, result.Approved)
	assert.Empty(t, result.Failed)

	balanceA, _ := coins.Balance(ctx, 1)
	balanceB, _ := coins.Balance(ctx, 2)
	assert.Equal(t, 10, balanceA)
	assert.Equal(t, 10, balanceB)
}

func TestBatchApproveIsolatesCreditFailure(t *testing.T) {
	engine, store, coins := newEngine()
	ctx := context.Background()

	a := newSubmission(t, store, "Item A", 1)
	b := newSubmission(t, store, "Item B", 2)
	coins.FailUserID = 2

	result, err := engine.BatchApprove(ctx, []int64{a, b}, 10, reviewerID)
	assert.NoError(t, err)

	// A stays approved and credited despite B's credit failing.
	assert.Equal(t, []int64{a}, result.Approved)
	assert.Len(t, result.Failed, 1)
	assert.Equal(t, b, result.Failed[0].ItemID)

	balanceA, _ := coins.Balance(ctx, 1)
	assert.Equal(t, 10, balanceA)
	balanceB, _ := coins.Balance(ctx, 2)
	assert.Equal(t, 0, balanceB)

	// B's status flip still happened; only the credit is outstanding.
	itemB, _ := store.Get(ctx, b)
	assert.Equal(t, models.ApprovalApproved, *itemB.ApprovalStatus)
}

func TestBatchApproveReportsMissingAndReviewedItems(t *testing.T) {
	engine, store, _ := newEngine()
	ctx := context.Background()

	a := newSubmission(t, store, "Item A", 1)
	reviewed := newSubmission(t, store, "Already Done", 2)
	_, err := engine.Reject(ctx, reviewed, reviewerID, RejectParams{Notes: "no"})
	assert.NoError(t, err)

	result, err := engine.BatchApprove(ctx, []int64{a, reviewed, 777}, 10, reviewerID)
	assert.NoError(t, err)
	assert.Equal(t, []int64{a}, result.Approved)
	assert.Len(t, result.Failed, 2)
}
