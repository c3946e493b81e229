// Package submissions is the read/partition repository for member
// submissions (IsShopItem=false). Review mutations happen exclusively
// through the workflow engine so transition rules stay in one place;
// this repository only creates, lists and fetches.
package submissions

import (
	"context"
	"strings"

	"github.com/swapcloset/swapcloset-golang/internal/apperr"
	"github.com/swapcloset/swapcloset-golang/internal/itemstore"
	"github.com/swapcloset/swapcloset-golang/internal/models"
)

// Repository exposes the submission view of the item store.
type Repository struct {
	store itemstore.Store
}

// New builds a submission repository over the given store.
func New(store itemstore.Store) *Repository {
	return &Repository{store: store}
}

func submissionFilter(review itemstore.ReviewFilter) itemstore.Filter {
	shop := false
	return itemstore.Filter{ShopItem: &shop, Review: review}
}

// List partitions submissions by approval status. An empty filter
// returns everything; "pending" includes submissions that were never
// explicitly marked pending.
func (r *Repository) List(ctx context.Context, filter string) ([]*models.Item, error) {
	switch filter {
	case "", "pending", "approved", "rejected":
	default:
		return nil, apperr.Validation("status", "must be one of pending, approved, rejected")
	}
	return r.store.List(ctx, submissionFilter(itemstore.ReviewFilter(filter)))
}

// ListMine returns one member's submissions, newest first.
func (r *Repository) ListMine(ctx context.Context, ownerID int64) ([]*models.Item, error) {
	shop := false
	return r.store.List(ctx, itemstore.Filter{ShopItem: &shop, OwnerID: &ownerID})
}

// Get fetches a single submission. Catalog items are invisible here:
// asking for one reports NotFound.
func (r *Repository) Get(ctx context.Context, id int64) (*models.Item, error) {
	item, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.IsShopItem {
		return nil, apperr.NotFound("submission", id)
	}
	return item, nil
}

// CreateInput is the intake field set for a new submission.
type CreateInput struct {
	Title       string
	Description string
	Category    string
	Condition   string
	Size        string
	Images      []string
	OwnerUserID int64
}

// Create stores a new submission awaiting review.
func (r *Repository) Create(ctx context.Context, in CreateInput) (*models.Item, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("title", "is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, apperr.Validation("category", "is required")
	}

	item := &models.Item{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Condition:   in.Condition,
		Size:        in.Size,
		Images:      in.Images,
		OwnerUserID: in.OwnerUserID,
		IsShopItem:  false,
	}
	if len(in.Images) > 0 {
		item.ImageURL = &in.Images[0]
	}

	if _, err := r.store.Insert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete withdraws a submission permanently.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return r.store.Delete(ctx, id)
}
