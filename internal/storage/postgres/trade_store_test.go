package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meanrev-lab/internal/domain"
	"meanrev-lab/internal/storage"
)

func createTestTrade(tradeID, runID string, entry time.Time) *domain.Trade {
	return &domain.Trade{
		TradeID:    tradeID,
		RunID:      runID,
		Symbol:     "SPY",
		EntryDate:  entry,
		EntryPrice: 97.097,
		ExitDate:   entry.AddDate(0, 0, 2),
		ExitPrice:  102.897,
		ReturnPct:  0.0597,
		ExitReason: domain.ExitReasonTakeProfit,
	}
}

func TestTradeStore_InsertBulkAndGetByRunID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTradeStore(pool)

	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	trades := []*domain.Trade{
		createTestTrade("t-002", "run-001", base.AddDate(0, 0, 10)),
		createTestTrade("t-001", "run-001", base),
		createTestTrade("t-003", "run-002", base),
	}

	err := store.InsertBulk(ctx, trades)
	require.NoError(t, err)

	retrieved, err := store.GetByRunID(ctx, "run-001")
	require.NoError(t, err)
	require.Len(t, retrieved, 2)

	// Ordered by entry date
	assert.Equal(t, "t-001", retrieved[0].TradeID)
	assert.Equal(t, "t-002", retrieved[1].TradeID)

	got := retrieved[0]
	assert.Equal(t, "SPY", got.Symbol)
	assert.True(t, base.Equal(got.EntryDate))
	assert.InDelta(t, 97.097, got.EntryPrice, 1e-9)
	assert.InDelta(t, 102.897, got.ExitPrice, 1e-9)
	assert.InDelta(t, 0.0597, got.ReturnPct, 1e-9)
	assert.Equal(t, domain.ExitReasonTakeProfit, got.ExitReason)
}

func TestTradeStore_BulkDuplicateRollsBack(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTradeStore(pool)

	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.InsertBulk(ctx, []*domain.Trade{
		createTestTrade("t-dup", "run-001", base),
	}))

	err := store.InsertBulk(ctx, []*domain.Trade{
		createTestTrade("t-new", "run-001", base.AddDate(0, 0, 5)),
		createTestTrade("t-dup", "run-001", base),
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// The non-duplicate trade must not have been committed
	retrieved, err := store.GetByRunID(ctx, "run-001")
	require.NoError(t, err)
	assert.Len(t, retrieved, 1)
}

func TestTradeStore_GetByRunIDEmpty(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTradeStore(pool)

	retrieved, err := store.GetByRunID(ctx, "run-none")
	require.NoError(t, err)
	assert.Empty(t, retrieved)
}
