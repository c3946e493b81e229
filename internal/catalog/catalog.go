// Package catalog is the repository for shop listings: items with
// IsShopItem=true, stock-tracked and purchasable.
package catalog

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
	"github.com/google/uuid"
	"github.com/swapcloset/swapcloset-golang/internal/apperr"
	"github.com/swapcloset/swapcloset-golang/internal/itemstore"
	"github.com/swapcloset/swapcloset-golang/internal/models"
	"github.com/swapcloset/swapcloset-golang/internal/stock"
)

// Repository exposes catalog CRUD and stock mutation over the item
// store. Every mutation reaches the change feed through the store, so
// the other views resynchronize.
type Repository struct {
	store itemstore.Store
}

// New builds a catalog repository over the given store.
func New(store itemstore.Store) *Repository {
	return &Repository{store: store}
}

// GenerateSKU derives a readable SKU from a title, with a uuid fragment
// so two items with the same title never collide.
func GenerateSKU(title string) string {
	base := strings.ToUpper(slug.Make(title))
	if len(base) > 12 {
		base = base[:12]
	}
	if base == "" {
		base = "ITEM"
	}
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return base + "-" + suffix
}

func attachStockStatus(items []*models.Item) {
	for _, item := range items {
		item.StockStatus = string(stock.StatusOf(item.StockQuantity))
	}
}

// List returns all catalog items, newest first, with the derived stock
// status attached for display.
func (r *Repository) List(ctx context.Context) ([]*models.Item, error) {
	shop := true
	items, err := r.store.List(ctx, itemstore.Filter{ShopItem: &shop})
	if err != nil {
		return nil, err
	}
	attachStockStatus(items)
	return items, nil
}

// ListActive returns only the visible catalog, for shop browsing.
func (r *Repository) ListActive(ctx context.Context) ([]*models.Item, error) {
	shop := true
	items, err := r.store.List(ctx, itemstore.Filter{ShopItem: &shop, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	attachStockStatus(items)
	return items, nil
}

// CreateInput is the field set for a directly-created catalog item.
type CreateInput struct {
	Title         string
	Description   string
	Category      string
	Condition     string
	Size          string
	Images        []string
	OwnerUserID   int64
	Price         float64
	SKU           string
	StockQuantity int
}

// Create validates and stores a new catalog listing. A missing SKU is
// generated; the listing starts active.
func (r *Repository) Create(ctx context.Context, in CreateInput) (*models.Item, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("title", "is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, apperr.Validation("category", "is required")
	}
	if in.Price < 0 {
		return nil, apperr.Validation("price", "must not be negative")
	}
	if in.StockQuantity < 0 {
		return nil, apperr.Validation("stockQuantity", "must not be negative")
	}

	sku := in.SKU
	if sku == "" {
		sku = GenerateSKU(in.Title)
	}
	price := in.Price

	item := &models.Item{
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		Condition:     in.Condition,
		Size:          in.Size,
		Images:        in.Images,
		OwnerUserID:   in.OwnerUserID,
		IsShopItem:    true,
		Price:         &price,
		StockQuantity: in.StockQuantity,
		SKU:           &sku,
		Status:        models.ItemStatusActive,
	}
	if len(in.Images) > 0 {
		item.ImageURL = &in.Images[0]
	}

	if _, err := r.store.Insert(ctx, item); err != nil {
		return nil, err
	}
	item.StockStatus = string(stock.StatusOf(item.StockQuantity))
	return item, nil
}

// getCatalogItem fetches the item and hides non-catalog rows: a
// submission id is simply not found in this view.
func (r *Repository) getCatalogItem(ctx context.Context, id int64) (*models.Item, error) {
	item, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.IsShopItem {
		return nil, apperr.NotFound("catalog item", id)
	}
	return item, nil
}

// Update merges the patch into an existing catalog item.
func (r *Repository) Update(ctx context.Context, id int64, p itemstore.Patch) error {
	if p.Price != nil && *p.Price < 0 {
		return apperr.Validation("price", "must not be negative")
	}
	if p.StockQuantity != nil && *p.StockQuantity < 0 {
		return apperr.Validation("stockQuantity", "must not be negative")
	}
	if _, err := r.getCatalogItem(ctx, id); err != nil {
		return err
	}
	return r.store.Update(ctx, id, p)
}

// AdjustStock overwrites the stock quantity.
func (r *Repository) AdjustStock(ctx context.Context, id int64, quantity int) error {
	if quantity < 0 {
		return apperr.Validation("stockQuantity", "must not be negative")
	}
	if _, err := r.getCatalogItem(ctx, id); err != nil {
		return err
	}
	return r.store.Update(ctx, id, itemstore.Patch{StockQuantity: &quantity})
}

// SetActive toggles listing visibility without touching stock.
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	if _, err := r.getCatalogItem(ctx, id); err != nil {
		return err
	}
	status := models.ItemStatusInactive
	if active {
		status = models.ItemStatusActive
	}
	return r.store.Update(ctx, id, itemstore.Patch{Status: &status})
}

// Delete removes the listing permanently. A second call reports
// NotFound, which callers tolerate.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.getCatalogItem(ctx, id); err != nil {
		return err
	}
	return r.store.Delete(ctx, id)
}
