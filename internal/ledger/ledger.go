// Package ledger tracks per-user SwapCoins balances as an append-only
// transaction log. Balances are computed by summing transaction
// amounts; the only mutation is an additive credit keyed by a unique
// reference, which makes replays of the same causing event no-ops.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/swapcloset/swapcloset-golang/internal/apperr"
)

// Ledger is the currency collaborator used by the workflow engine and
// the wallet handlers.
type Ledger interface {
	// Credit adds amount to the user's balance exactly once per
	// reference and returns the new balance. A duplicate reference is
	// treated as already applied: no new row, current balance returned.
	Credit(ctx context.Context, userID int64, amount int, reference, txType, notes string) (int, error)

	// Balance returns the user's current SwapCoins balance (0 when the
	// user has no transactions).
	Balance(ctx context.Context, userID int64) (int, error)
}

// SQLLedger is the MySQL-backed ledger over 'wallet_transactions'.
type SQLLedger struct {
	DB *sql.DB
}

// NewSQL builds a ledger over an open connection pool.
func NewSQL(db *sql.DB) *SQLLedger {
	return &SQLLedger{DB: db}
}

func (l *SQLLedger) Balance(ctx context.Context, userID int64) (int, error) {
	var balance sql.NullInt64
	query := "SELECT SUM(amount) FROM wallet_transactions WHERE user_id = ?"
	err := l.DB.QueryRowContext(ctx, query, userID).Scan(&balance)
	if err != nil && err != sql.ErrNoRows {
		return 0, apperr.Persistence("get balance", err)
	}
	// SUM over no rows is NULL; a user with no transactions has 0 coins.
	if !balance.Valid {
		return 0, nil
	}
	return int(balance.Int64), nil
}

func (l *SQLLedger) Credit(ctx context.Context, userID int64, amount int, reference, txType, notes string) (int, error) {
	if amount <= 0 {
		return 0, apperr.Validation("amount", "must be positive")
	}

	query := `
		INSERT INTO wallet_transactions
		(user_id, type, amount, reference, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := l.DB.ExecContext(ctx, query, userID, txType, amount, reference, notes, time.Now())
	if err != nil && !isDuplicateEntry(err) {
		return 0, apperr.Persistence("credit wallet", err)
	}
	// Duplicate reference means this credit was already applied; fall
	// through and report the balance as-is.
	return l.Balance(ctx, userID)
}

// isDuplicateEntry reports whether err is a MySQL unique-key violation
// (error 1062) on the reference column.
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
