package ledger

import (
	"context"
	"sync"

	"github.com/swapcloset/swapcloset-golang/internal/apperr"
)

// Memory is an in-memory Ledger with the same idempotency contract as
// the SQL implementation, used by tests. FailUserID, when non-zero,
// makes credits for that user fail with a PersistenceError so partial
// batch failures can be exercised.
type Memory struct {
	mu         sync.Mutex
	balances   map[int64]int
	references map[string]bool

	FailUserID int64
}

// NewMemory builds an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{
		balances:   make(map[int64]int),
		references: make(map[string]bool),
	}
}

func (m *Memory) Balance(_ context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID], nil
}

func (m *Memory) Credit(_ context.Context, userID int64, amount int, reference, _, _ string) (int, error) {
	if amount <= 0 {
		return 0, apperr.Validation("amount", "must be positive")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if userID == m.FailUserID && m.FailUserID != 0 {
		return 0, apperr.Persistence("credit wallet", context.DeadlineExceeded)
	}
	if !m.references[reference] {
		m.references[reference] = true
		m.balances[userID] += amount
	}
	return m.balances[userID], nil
}
