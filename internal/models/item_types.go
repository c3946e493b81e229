package models

import (
	"time"
)

// ApprovalStatus is the closed set of review outcomes for a submission.
// A nil pointer on Item means the submission has not entered review yet;
// unset and "pending" are treated the same everywhere.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Catalog visibility values for the 'status' column.
const (
	ItemStatusActive   = "active"
	ItemStatusInactive = "inactive"
)

// Item is the model for the 'items' table. It plays two roles:
// a member submission (IsShopItem=false) awaiting staff review, or a
// stock-tracked catalog listing (IsShopItem=true). Conversion of an
// approved submission flips the same row rather than creating a new one.
// Pointers are used for nullable columns so JSON serialization stays clean.
type Item struct {
	ID          int64    `json:"id" db:"id"`
	Title       string   `json:"title" db:"title"`
	Description string   `json:"description" db:"description"`
	Category    string   `json:"category" db:"category"`
	Condition   string   `json:"condition" db:"condition"`
	Size        string   `json:"size" db:"size"`
	Images      []string `json:"images" db:"images"` // Stored as a JSON column
	ImageURL    *string  `json:"imageUrl,omitempty" db:"image_url"`
	OwnerUserID int64    `json:"ownerUserId" db:"owner_user_id"`
	IsShopItem  bool     `json:"isShopItem" db:"is_shop_item"`

	// --- Catalog fields (meaningful when IsShopItem=true) ---
	Price         *float64 `json:"price,omitempty" db:"price"`
	StockQuantity int      `json:"stockQuantity" db:"stock_quantity"` // NULL coalesced to 0
	SKU           *string  `json:"sku,omitempty" db:"sku"`
	Status        string   `json:"status" db:"status"`

	// --- Submission fields (meaningful when IsShopItem=false) ---
	ApprovalStatus         *ApprovalStatus `json:"approvalStatus,omitempty" db:"approval_status"`
	ReviewNotes            *string         `json:"reviewNotes,omitempty" db:"review_notes"`
	ReviewedBy             *int64          `json:"reviewedBy,omitempty" db:"reviewed_by"`
	ReviewedAt             *time.Time      `json:"reviewedAt,omitempty" db:"reviewed_at"`
	ConvertibleToInventory bool            `json:"convertibleToInventory" db:"convertible_to_inventory"`
	EstimatedValue         *float64        `json:"estimatedValue,omitempty" db:"estimated_value"`

	// --- Common ---
	SwapCoins int       `json:"swapcoins" db:"swapcoins"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Derived for display, never stored (populated by the catalog repository).
	StockStatus string `json:"stockStatus,omitempty" db:"-"`
}

// Reviewed reports whether the submission has reached a terminal review
// outcome. Catalog items are considered reviewed as well: they are past
// the submission stage by definition.
func (i *Item) Reviewed() bool {
	if i.IsShopItem {
		return true
	}
	return i.ApprovalStatus != nil && *i.ApprovalStatus != ApprovalPending
}

// PendingReview reports whether the item is a submission still waiting
// for review. An unset status counts as pending.
func (i *Item) PendingReview() bool {
	if i.IsShopItem {
		return false
	}
	return i.ApprovalStatus == nil || *i.ApprovalStatus == ApprovalPending
}
