package itemstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/swapcloset/swapcloset-golang/internal/apperr"
	"github.com/swapcloset/swapcloset-golang/internal/feed"
	"github.com/swapcloset/swapcloset-golang/internal/models"
)

// Memory is an in-memory Store with the same semantics as the MySQL
// implementation, including the conditional review and conversion
// transitions. It exists so the repositories and the workflow engine
// can be tested without a database.
type Memory struct {
	mu    sync.Mutex
	next  int64
	items map[int64]*models.Item
	feed  feed.Publisher
}

// NewMemory builds an empty in-memory store. pub may be nil.
func NewMemory(pub feed.Publisher) *Memory {
	return &Memory{next: 1, items: make(map[int64]*models.Item), feed: pub}
}

func cloneItem(item *models.Item) *models.Item {
	c := *item
	c.Images = append([]string(nil), item.Images...)
	if item.ImageURL != nil {
		v := *item.ImageURL
		c.ImageURL = &v
	}
	if item.Price != nil {
		v := *item.Price
		c.Price = &v
	}
	if item.SKU != nil {
		v := *item.SKU
		c.SKU = &v
	}
	if item.ApprovalStatus != nil {
		v := *item.ApprovalStatus
		c.ApprovalStatus = &v
	}
	if item.ReviewNotes != nil {
		v := *item.ReviewNotes
		c.ReviewNotes = &v
	}
	if item.ReviewedBy != nil {
		v := *item.ReviewedBy
		c.ReviewedBy = &v
	}
	if item.ReviewedAt != nil {
		v := *item.ReviewedAt
		c.ReviewedAt = &v
	}
	if item.EstimatedValue != nil {
		v := *item.EstimatedValue
		c.EstimatedValue = &v
	}
	return &c
}

func (m *Memory) Get(_ context.Context, id int64) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("item", id)
	}
	return cloneItem(item), nil
}

func matches(item *models.Item, f Filter) bool {
	if f.ShopItem != nil && item.IsShopItem != *f.ShopItem {
		return false
	}
	if f.OwnerID != nil && item.OwnerUserID != *f.OwnerID {
		return false
	}
	if f.ActiveOnly && item.Status != models.ItemStatusActive {
		return false
	}
	switch f.Review {
	case ReviewAny:
	case ReviewPending:
		if item.ApprovalStatus != nil && *item.ApprovalStatus != models.ApprovalPending {
			return false
		}
	default:
		if item.ApprovalStatus == nil || *item.ApprovalStatus != models.ApprovalStatus(f.Review) {
			return false
		}
	}
	return true
}

func (m *Memory) List(_ context.Context, f Filter) ([]*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items []*models.Item
	for _, item := range m.items {
		if matches(item, f) {
			items = append(items, cloneItem(item))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (m *Memory) ListByIDs(_ context.Context, ids []int64) ([]*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items []*models.Item
	for _, id := range ids {
		if item, ok := m.items[id]; ok {
			items = append(items, cloneItem(item))
		}
	}
	return items, nil
}

func (m *Memory) Insert(ctx context.Context, item *models.Item) (int64, error) {
	m.mu.Lock()
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	item.ID = m.next
	m.next++
	m.items[item.ID] = cloneItem(item)
	m.mu.Unlock()

	m.publish(ctx, feed.OpInsert, item.ID)
	return item.ID, nil
}

func (m *Memory) Update(ctx context.Context, id int64, p Patch) error {
	m.mu.Lock()
	item, ok := m.items[id]
	if !ok {
		m.mu.Unlock()
		return apperr.NotFound("item", id)
	}
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Condition != nil {
		item.Condition = *p.Condition
	}
	if p.Size != nil {
		item.Size = *p.Size
	}
	if p.Images != nil {
		item.Images = append([]string(nil), (*p.Images)...)
	}
	if p.ImageURL != nil {
		v := *p.ImageURL
		item.ImageURL = &v
	}
	if p.Price != nil {
		v := *p.Price
		item.Price = &v
	}
	if p.StockQuantity != nil {
		item.StockQuantity = *p.StockQuantity
	}
	if p.Status != nil {
		item.Status = *p.Status
	}
	item.UpdatedAt = time.Now()
	m.mu.Unlock()

	m.publish(ctx, feed.OpUpdate, id)
	return nil
}

func (m *Memory) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	if _, ok := m.items[id]; !ok {
		m.mu.Unlock()
		return apperr.NotFound("item", id)
	}
	delete(m.items, id)
	m.mu.Unlock()

	m.publish(ctx, feed.OpDelete, id)
	return nil
}

func (m *Memory) TransitionReview(ctx context.Context, id int64, tr ReviewTransition) error {
	m.mu.Lock()
	item, ok := m.items[id]
	if !ok {
		m.mu.Unlock()
		return apperr.NotFound("item", id)
	}
	if item.IsShopItem {
		m.mu.Unlock()
		return apperr.Conflict(fmt.Sprintf("item %d is a catalog item, not a submission", id))
	}
	if item.ApprovalStatus != nil && *item.ApprovalStatus != models.ApprovalPending {
		m.mu.Unlock()
		return apperr.Conflict(fmt.Sprintf("item %d has already been reviewed", id))
	}

	status := tr.Status
	item.ApprovalStatus = &status
	notes := tr.Notes
	item.ReviewNotes = &notes
	reviewer := tr.ReviewedBy
	item.ReviewedBy = &reviewer
	at := tr.ReviewedAt
	item.ReviewedAt = &at
	item.SwapCoins = tr.SwapCoins
	item.ConvertibleToInventory = tr.Convertible
	if tr.EstimatedValue != nil {
		v := *tr.EstimatedValue
		item.EstimatedValue = &v
	} else {
		item.EstimatedValue = nil
	}
	item.UpdatedAt = time.Now()
	m.mu.Unlock()

	m.publish(ctx, feed.OpUpdate, id)
	return nil
}

func (m *Memory) ConvertToCatalog(ctx context.Context, id int64, init CatalogInit) error {
	m.mu.Lock()
	item, ok := m.items[id]
	if !ok {
		m.mu.Unlock()
		return apperr.NotFound("item", id)
	}
	if item.IsShopItem {
		m.mu.Unlock()
		return apperr.Conflict(fmt.Sprintf("item %d is already a catalog item", id))
	}
	if item.ApprovalStatus == nil || *item.ApprovalStatus != models.ApprovalApproved || !item.ConvertibleToInventory {
		m.mu.Unlock()
		return apperr.Conflict(fmt.Sprintf("item %d is not an approved, convertible submission", id))
	}

	item.IsShopItem = true
	item.Status = models.ItemStatusActive
	item.StockQuantity = init.StockQuantity
	price := init.Price
	item.Price = &price
	sku := init.SKU
	item.SKU = &sku
	item.UpdatedAt = time.Now()
	m.mu.Unlock()

	m.publish(ctx, feed.OpUpdate, id)
	return nil
}

func (m *Memory) publish(ctx context.Context, op feed.Op, id int64) {
	if m.feed == nil {
		return
	}
	_ = m.feed.Publish(ctx, feed.Event{Table: Table, Op: op, ID: id})
}
