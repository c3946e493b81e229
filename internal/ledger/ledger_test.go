package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateEntry(t *testing.T) {
	assert.True(t, isDuplicateEntry(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.False(t, isDuplicateEntry(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout"}))
	assert.False(t, isDuplicateEntry(errors.New("connection refused")))
	assert.False(t, isDuplicateEntry(nil))
}

func TestMemoryCreditIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	balance, err := m.Credit(ctx, 7, 25, "approve:1", "approval_award", "")
	assert.NoError(t, err)
	assert.Equal(t, 25, balance)

	// Replay with the same reference: no additional credit.
	balance, err = m.Credit(ctx, 7, 25, "approve:1", "approval_award", "")
	assert.NoError(t, err)
	assert.Equal(t, 25, balance)

	// A different causing event credits again.
	balance, err = m.Credit(ctx, 7, 10, "approve:2", "approval_award", "")
	assert.NoError(t, err)
	assert.Equal(t, 35, balance)
}

func TestMemoryCreditRejectsNonPositive(t *testing.T) {
	m := NewMemory()
	_, err := m.Credit(context.Background(), 7, 0, "approve:1", "approval_award", "")
	assert.Error(t, err)
}
