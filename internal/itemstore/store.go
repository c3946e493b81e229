// Package itemstore persists the dual-role item records and notifies
// the change feed about every mutation. Review transitions and
// submission→catalog conversion are conditional updates: they only
// apply when the row is still in the expected state, which is what
// guarantees a review happens at most once.
package itemstore

import (
	"context"
	"time"

	"github.com/swapcloset/swapcloset-golang/internal/models"
)

// Table is the change-feed table name for item events.
const Table = "items"

// ReviewFilter selects a partition of submissions.
type ReviewFilter string

const (
	// ReviewAny applies no approval-status constraint.
	ReviewAny ReviewFilter = ""
	// ReviewPending matches explicit "pending" and unset statuses.
	ReviewPending ReviewFilter = "pending"
	ReviewApproved ReviewFilter = "approved"
	ReviewRejected ReviewFilter = "rejected"
)

// Filter narrows a List call.
type Filter struct {
	ShopItem   *bool
	OwnerID    *int64
	ActiveOnly bool
	Review     ReviewFilter
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title         *string
	Description   *string
	Category      *string
	Condition     *string
	Size          *string
	Images        *[]string
	ImageURL      *string
	Price         *float64
	StockQuantity *int
	Status        *string
}

// ReviewTransition moves a pending submission to a terminal outcome.
type ReviewTransition struct {
	Status         models.ApprovalStatus // approved or rejected
	Notes          string
	ReviewedBy     int64
	ReviewedAt     time.Time
	SwapCoins      int
	Convertible    bool
	EstimatedValue *float64
}

// CatalogInit carries the catalog fields written when an approved
// submission is converted into inventory.
type CatalogInit struct {
	SKU           string
	Price         float64
	StockQuantity int
}

// Store is the persistence contract the repositories and the workflow
// engine are built on. The MySQL implementation backs production; the
// in-memory one backs tests.
type Store interface {
	Get(ctx context.Context, id int64) (*models.Item, error)
	List(ctx context.Context, f Filter) ([]*models.Item, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*models.Item, error)
	Insert(ctx context.Context, item *models.Item) (int64, error)
	Update(ctx context.Context, id int64, p Patch) error
	Delete(ctx context.Context, id int64) error

	// TransitionReview applies review outcome semantics only if the item
	// is a submission whose status is unset or pending. It returns a
	// StateConflictError when the item was already reviewed or is a
	// catalog item, and a NotFoundError when the id is absent.
	TransitionReview(ctx context.Context, id int64, tr ReviewTransition) error

	// ConvertToCatalog flips an approved, convertible submission into a
	// catalog item in place. Same error contract as TransitionReview.
	ConvertToCatalog(ctx context.Context, id int64, init CatalogInit) error
}
