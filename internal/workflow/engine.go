// Package workflow orchestrates the submission review state machine:
// approve, reject, batch approval and conversion into catalog
// inventory, along with the SwapCoins credit an approval triggers.
//
// The item update and the wallet credit are two separate round trips
// with no transaction spanning them. At-most-once crediting is instead
// guaranteed by two mechanisms working together: the store's
// conditional review transition (only one caller can win the
// pending→approved race) and the ledger's idempotency reference (the
// item id), which turns a replayed credit into a no-op.
package workflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/swapcloset/swapcloset-golang/internal/apperr"
	"github.com/swapcloset/swapcloset-golang/internal/catalog"
	"github.com/swapcloset/swapcloset-golang/internal/itemstore"
	"github.com/swapcloset/swapcloset-golang/internal/ledger"
	"github.com/swapcloset/swapcloset-golang/internal/models"
)

// Notifier is the optional notification sink for review outcomes.
type Notifier interface {
	Add(ctx context.Context, userID int64, message, link string) error
}

// Engine runs the approval workflow over injected collaborators.
type Engine struct {
	Items  itemstore.Store
	Ledger ledger.Ledger
	Notify Notifier
}

// New builds an engine. notifier may be nil.
func New(items itemstore.Store, coins ledger.Ledger, notifier Notifier) *Engine {
	return &Engine{Items: items, Ledger: coins, Notify: notifier}
}

// creditReference is the idempotency key for the award a given approval
// event triggers. Deterministic per item, so retries are suppressed by
// the ledger.
func creditReference(itemID int64) string {
	return fmt.Sprintf("approve:%d", itemID)
}

// ApproveParams carries the reviewer's decision details.
type ApproveParams struct {
	Notes          string
	SwapCoins      int
	Convertible    bool
	EstimatedValue *float64
}

// Approve moves a pending submission to approved, records the review
// details and credits the owner's SwapCoins balance once. When the
// credit fails after the status flip, the approval stands and the error
// is returned for the caller to surface.
func (e *Engine) Approve(ctx context.Context, itemID, reviewerID int64, p ApproveParams) (*models.Item, error) {
	if p.SwapCoins < 0 {
		return nil, apperr.Validation("swapcoinsAwarded", "must not be negative")
	}

	err := e.Items.TransitionReview(ctx, itemID, itemstore.ReviewTransition{
		Status:         models.ApprovalApproved,
		Notes:          p.Notes,
		ReviewedBy:     reviewerID,
		ReviewedAt:     time.Now(),
		SwapCoins:      p.SwapCoins,
		Convertible:    p.Convertible,
		EstimatedValue: p.EstimatedValue,
	})
	if err != nil {
		return nil, err
	}

	item, err := e.Items.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if p.SwapCoins > 0 {
		notes := fmt.Sprintf("Award for approved item %q", item.Title)
		if _, err := e.Ledger.Credit(ctx, item.OwnerUserID, p.SwapCoins, creditReference(itemID), "approval_award", notes); err != nil {
			return item, fmt.Errorf("item %d approved but crediting owner failed: %w", itemID, err)
		}
	}

	e.notifyOwner(ctx, item.OwnerUserID,
		fmt.Sprintf("Your item %q was approved and you earned %d SwapCoins.", item.Title, p.SwapCoins))
	return item, nil
}

// RejectParams carries the rejection details.
type RejectParams struct {
	Notes string
}

// Reject moves a pending submission to rejected. No balance change.
func (e *Engine) Reject(ctx context.Context, itemID, reviewerID int64, p RejectParams) (*models.Item, error) {
	err := e.Items.TransitionReview(ctx, itemID, itemstore.ReviewTransition{
		Status:     models.ApprovalRejected,
		Notes:      p.Notes,
		ReviewedBy: reviewerID,
		ReviewedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	item, err := e.Items.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	e.notifyOwner(ctx, item.OwnerUserID,
		fmt.Sprintf("Your item %q was rejected. Notes: %s", item.Title, p.Notes))
	return item, nil
}

// BatchFailure is one item that could not be fully processed.
type BatchFailure struct {
	ItemID int64  `json:"itemId"`
	Reason string `json:"reason"`
}

// BatchResult reports per-item outcomes of a batch approval. Approved
// lists items whose status flipped AND whose owner was credited.
type BatchResult struct {
	Approved []int64        `json:"approved"`
	Failed   []BatchFailure `json:"failed"`
}

// BatchApprove applies approve semantics to every id, each item
// independently: one owner's failed credit never rolls back other
// items' approvals. Items are fetched in a single bulk read up front.
func (e *Engine) BatchApprove(ctx context.Context, itemIDs []int64, swapcoinsPerItem int, reviewerID int64) (*BatchResult, error) {
	if swapcoinsPerItem < 0 {
		return nil, apperr.Validation("swapcoinsPerItem", "must not be negative")
	}

	items, err := e.Items.ListByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	result := &BatchResult{Approved: []int64{}, Failed: []BatchFailure{}}
	for _, id := range itemIDs {
		item, ok := byID[id]
		if !ok {
			result.Failed = append(result.Failed, BatchFailure{ItemID: id, Reason: "item not found"})
			continue
		}

		err := e.Items.TransitionReview(ctx, id, itemstore.ReviewTransition{
			Status:     models.ApprovalApproved,
			ReviewedBy: reviewerID,
			ReviewedAt: time.Now(),
			SwapCoins:  swapcoinsPerItem,
		})
		if err != nil {
			result.Failed = append(result.Failed, BatchFailure{ItemID: id, Reason: err.Error()})
			continue
		}

		if swapcoinsPerItem > 0 {
			notes := fmt.Sprintf("Award for approved item %q", item.Title)
			if _, err := e.Ledger.Credit(ctx, item.OwnerUserID, swapcoinsPerItem, creditReference(id), "approval_award", notes); err != nil {
				result.Failed = append(result.Failed, BatchFailure{
					ItemID: id,
					Reason: fmt.Sprintf("approved but crediting owner failed: %v", err),
				})
				continue
			}
		}

		e.notifyOwner(ctx, item.OwnerUserID,
			fmt.Sprintf("Your item %q was approved and you earned %d SwapCoins.", item.Title, swapcoinsPerItem))
		result.Approved = append(result.Approved, id)
	}
	return result, nil
}

// ConvertToInventory promotes an approved, convertible submission into
// a catalog listing in place: same row, fresh SKU, stock 1, price taken
// from the reviewer's estimated value.
func (e *Engine) ConvertToInventory(ctx context.Context, itemID int64) (*models.Item, error) {
	item, err := e.Items.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	var price float64
	if item.EstimatedValue != nil {
		price = *item.EstimatedValue
	}

	err = e.Items.ConvertToCatalog(ctx, itemID, itemstore.CatalogInit{
		SKU:           catalog.GenerateSKU(item.Title),
		Price:         price,
		StockQuantity: 1,
	})
	if err != nil {
		return nil, err
	}

	return e.Items.Get(ctx, itemID)
}

func (e *Engine) notifyOwner(ctx context.Context, userID int64, message string) {
	if e.Notify == nil {
		return
	}
	if err := e.Notify.Add(ctx, userID, message, ""); err != nil {
		log.Printf("WARNING: failed to notify user %d: %v", userID, err)
	}
}
