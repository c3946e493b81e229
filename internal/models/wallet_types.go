package models

import (
	"time"
)

// WalletTransaction is the model for the 'wallet_transactions' table.
// The table is append-only: a user's SwapCoins balance is the sum of
// their transaction amounts. Reference is a deterministic idempotency
// key (e.g. "approve:42") and carries a UNIQUE index, so a replayed
// credit for the same cause cannot create a second row.
type WalletTransaction struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Type      string    `json:"type" db:"type"` // e.g. approval_award, topup
	Amount    int       `json:"amount" db:"amount"`
	Reference string    `json:"reference" db:"reference"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
