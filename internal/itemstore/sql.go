package itemstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/swapcloset/swapcloset-golang/internal/apperr"
	"github.com/swapcloset/swapcloset-golang/internal/feed"
	"github.com/swapcloset/swapcloset-golang/internal/models"
)

// itemColumns is the canonical SELECT list for scanItem.
// 'condition' is a reserved word in MySQL, hence item_condition.
const itemColumns = `id, title, description, category, item_condition, size,
	images, image_url, owner_user_id, is_shop_item,
	price, stock_quantity, sku, status,
	approval_status, review_notes, reviewed_by, reviewed_at,
	convertible_to_inventory, estimated_value,
	swapcoins, created_at, updated_at`

// SQLStore is the MySQL-backed item store.
type SQLStore struct {
	DB   *sql.DB
	Feed feed.Publisher
}

// NewSQL builds a store over an open connection pool. feed may be nil,
// in which case mutations are silent.
func NewSQL(db *sql.DB, pub feed.Publisher) *SQLStore {
	return &SQLStore{DB: db, Feed: pub}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	var dbImages []byte
	var imageURL, sku, approval, notes sql.NullString
	var price, estimated sql.NullFloat64
	var stockQty, reviewedBy sql.NullInt64
	var reviewedAt sql.NullTime

	err := row.Scan(
		&item.ID, &item.Title, &item.Description, &item.Category, &item.Condition, &item.Size,
		&dbImages, &imageURL, &item.OwnerUserID, &item.IsShopItem,
		&price, &stockQty, &sku, &item.Status,
		&approval, &notes, &reviewedBy, &reviewedAt,
		&item.ConvertibleToInventory, &estimated,
		&item.SwapCoins, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Images = []string{}
	if len(dbImages) > 0 {
		_ = json.Unmarshal(dbImages, &item.Images)
	}
	if imageURL.Valid {
		item.ImageURL = &imageURL.String
	}
	if price.Valid {
		item.Price = &price.Float64
	}
	// Absent stock reads as 0 so the status classifier only sees ints.
	if stockQty.Valid {
		item.StockQuantity = int(stockQty.Int64)
	}
	if sku.Valid {
		item.SKU = &sku.String
	}
	if approval.Valid {
		status := models.ApprovalStatus(approval.String)
		item.ApprovalStatus = &status
	}
	if notes.Valid {
		item.ReviewNotes = &notes.String
	}
	if reviewedBy.Valid {
		item.ReviewedBy = &reviewedBy.Int64
	}
	if reviewedAt.Valid {
		item.ReviewedAt = &reviewedAt.Time
	}
	if estimated.Valid {
		item.EstimatedValue = &estimated.Float64
	}
	return &item, nil
}

// Get fetches one item by id.
func (s *SQLStore) Get(ctx context.Context, id int64) (*models.Item, error) {
	query := fmt.Sprintf("SELECT %s FROM items WHERE id = ?", itemColumns)
	item, err := scanItem(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFound("item", id)
		}
		return nil, apperr.Persistence("get item", err)
	}
	return item, nil
}

// List fetches items matching the filter, newest first.
func (s *SQLStore) List(ctx context.Context, f Filter) ([]*models.Item, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM items WHERE 1=1", itemColumns)
	var args []interface{}

	if f.ShopItem != nil {
		b.WriteString(" AND is_shop_item = ?")
		args = append(args, *f.ShopItem)
	}
	if f.OwnerID != nil {
		b.WriteString(" AND owner_user_id = ?")
		args = append(args, *f.OwnerID)
	}
	if f.ActiveOnly {
		b.WriteString(" AND status = ?")
		args = append(args, models.ItemStatusActive)
	}
	switch f.Review {
	case ReviewAny:
	case ReviewPending:
		b.WriteString(" AND (approval_status IS NULL OR approval_status = ?)")
		args = append(args, string(models.ApprovalPending))
	default:
		b.WriteString(" AND approval_status = ?")
		args = append(args, string(f.Review))
	}
	b.WriteString(" ORDER BY created_at DESC, id DESC")

	rows, err := s.DB.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, apperr.Persistence("list items", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, apperr.Persistence("scan item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterate items", err)
	}
	return items, nil
}

// ListByIDs fetches the given items in one round trip. Missing ids are
// simply absent from the result.
func (s *SQLStore) ListByIDs(ctx context.Context, ids []int64) ([]*models.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := fmt.Sprintf("SELECT %s FROM items WHERE id IN (%s)", itemColumns, placeholders)

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence("list items by ids", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, apperr.Persistence("scan item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("iterate items", err)
	}
	return items, nil
}

// Insert stores a new item and returns its id.
func (s *SQLStore) Insert(ctx context.Context, item *models.Item) (int64, error) {
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	images := item.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, _ := json.Marshal(images)

	var approval *string
	if item.ApprovalStatus != nil {
		v := string(*item.ApprovalStatus)
		approval = &v
	}

	query := `
		INSERT INTO items
		(title, description, category, item_condition, size,
		images, image_url, owner_user_id, is_shop_item,
		price, stock_quantity, sku, status,
		approval_status, review_notes, reviewed_by, reviewed_at,
		convertible_to_inventory, estimated_value,
		swapcoins, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := s.DB.ExecContext(ctx, query,
		item.Title, item.Description, item.Category, item.Condition, item.Size,
		string(imagesJSON), item.ImageURL, item.OwnerUserID, item.IsShopItem,
		item.Price, item.StockQuantity, item.SKU, item.Status,
		approval, item.ReviewNotes, item.ReviewedBy, item.ReviewedAt,
		item.ConvertibleToInventory, item.EstimatedValue,
		item.SwapCoins, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return 0, apperr.Persistence("insert item", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, apperr.Persistence("insert item", err)
	}
	item.ID = id

	s.publish(ctx, feed.OpInsert, id)
	return id, nil
}

// Update merges the patch into the row. Fetches the row first so a
// missing id reports NotFound rather than a silent no-op.
func (s *SQLStore) Update(ctx context.Context, id int64, p Patch) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	querySet := "updated_at = ?"
	queryArgs := []interface{}{time.Now()}

	if p.Title != nil {
		querySet += ", title = ?"
		queryArgs = append(queryArgs, *p.Title)
	}
	if p.Description != nil {
		querySet += ", description = ?"
		queryArgs = append(queryArgs, *p.Description)
	}
	if p.Category != nil {
		querySet += ", category = ?"
		queryArgs = append(queryArgs, *p.Category)
	}
	if p.Condition != nil {
		querySet += ", item_condition = ?"
		queryArgs = append(queryArgs, *p.Condition)
	}
	if p.Size != nil {
		querySet += ", size = ?"
		queryArgs = append(queryArgs, *p.Size)
	}
	if p.Images != nil {
		imagesJSON, _ := json.Marshal(*p.Images)
		querySet += ", images = ?"
		queryArgs = append(queryArgs, string(imagesJSON))
	}
	if p.ImageURL != nil {
		querySet += ", image_url = ?"
		queryArgs = append(queryArgs, *p.ImageURL)
	}
	if p.Price != nil {
		querySet += ", price = ?"
		queryArgs = append(queryArgs, *p.Price)
	}
	if p.StockQuantity != nil {
		querySet += ", stock_quantity = ?"
		queryArgs = append(queryArgs, *p.StockQuantity)
	}
	if p.Status != nil {
		querySet += ", status = ?"
		queryArgs = append(queryArgs, *p.Status)
	}

	queryArgs = append(queryArgs, id)
	query := fmt.Sprintf("UPDATE items SET %s WHERE id = ?", querySet)

	if _, err := s.DB.ExecContext(ctx, query, queryArgs...); err != nil {
		return apperr.Persistence("update item", err)
	}

	s.publish(ctx, feed.OpUpdate, id)
	return nil
}

// Delete removes the row permanently from both logical views.
func (s *SQLStore) Delete(ctx context.Context, id int64) error {
	result, err := s.DB.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return apperr.Persistence("delete item", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Persistence("delete item", err)
	}
	if affected == 0 {
		return apperr.NotFound("item", id)
	}

	s.publish(ctx, feed.OpDelete, id)
	return nil
}

// TransitionReview is the compare-and-swap gate of the review state
// machine: the UPDATE only matches while the row is an unreviewed
// submission, so concurrent reviews and retries cannot both win.
func (s *SQLStore) TransitionReview(ctx context.Context, id int64, tr ReviewTransition) error {
	query := `
		UPDATE items
		SET approval_status = ?, review_notes = ?, reviewed_by = ?, reviewed_at = ?,
			swapcoins = ?, convertible_to_inventory = ?, estimated_value = ?, updated_at = ?
		WHERE id = ? AND is_shop_item = 0
			AND (approval_status IS NULL OR approval_status = ?)`

	result, err := s.DB.ExecContext(ctx, query,
		string(tr.Status), tr.Notes, tr.ReviewedBy, tr.ReviewedAt,
		tr.SwapCoins, tr.Convertible, tr.EstimatedValue, time.Now(),
		id, string(models.ApprovalPending),
	)
	if err != nil {
		return apperr.Persistence("transition review", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Persistence("transition review", err)
	}
	if affected == 0 {
		return s.reviewConflict(ctx, id)
	}

	s.publish(ctx, feed.OpUpdate, id)
	return nil
}

// reviewConflict distinguishes a missing row from a lost race.
func (s *SQLStore) reviewConflict(ctx context.Context, id int64) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if item.IsShopItem {
		return apperr.Conflict(fmt.Sprintf("item %d is a catalog item, not a submission", id))
	}
	return apperr.Conflict(fmt.Sprintf("item %d has already been reviewed", id))
}

// ConvertToCatalog promotes an approved, convertible submission in
// place. The WHERE clause carries the full precondition so a concurrent
// double-convert loses the race cleanly.
func (s *SQLStore) ConvertToCatalog(ctx context.Context, id int64, init CatalogInit) error {
	query := `
		UPDATE items
		SET is_shop_item = 1, status = ?, stock_quantity = ?, price = ?, sku = ?, updated_at = ?
		WHERE id = ? AND is_shop_item = 0
			AND approval_status = ? AND convertible_to_inventory = 1`

	result, err := s.DB.ExecContext(ctx, query,
		models.ItemStatusActive, init.StockQuantity, init.Price, init.SKU, time.Now(),
		id, string(models.ApprovalApproved),
	)
	if err != nil {
		return apperr.Persistence("convert item", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Persistence("convert item", err)
	}
	if affected == 0 {
		item, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if item.IsShopItem {
			return apperr.Conflict(fmt.Sprintf("item %d is already a catalog item", id))
		}
		return apperr.Conflict(fmt.Sprintf("item %d is not an approved, convertible submission", id))
	}

	s.publish(ctx, feed.OpUpdate, id)
	return nil
}

func (s *SQLStore) publish(ctx context.Context, op feed.Op, id int64) {
	if s.Feed == nil {
		return
	}
	if err := s.Feed.Publish(ctx, feed.Event{Table: Table, Op: op, ID: id}); err != nil {
		log.Printf("WARNING: changefeed publish failed for item %d: %v", id, err)
	}
}
