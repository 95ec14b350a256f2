package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adelgadoc/updownbot/internal/adapters/storage"
	"github.com/adelgadoc/updownbot/internal/domain"
)

func newTestJournal(t *testing.T) *storage.SQLiteJournal {
	t.Helper()
	j, err := storage.NewSQLiteJournal(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func makeOrder() domain.Order {
	v := domain.NewVariant(domain.FamilyBuyLow, 0.46)
	window := domain.MarketWindow{
		Slug:      "btc-updown-15m-1756700100",
		StartTime: 1756700100,
		EndTime:   1756701000,
	}
	o := domain.NewOrder(v, domain.AssetBTC, window, domain.OutcomeUp, 0.45, 10, time.Unix(1756699100, 0))
	return *o
}

func TestSQLiteJournal_SaveOrderUpsert(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	order := makeOrder()
	require.NoError(t, j.SaveOrder(ctx, order))

	// Same id with a new status must update, not fail the primary key.
	order.Status = domain.OrderStatusFilled
	order.FilledSize = order.Size
	require.NoError(t, j.SaveOrder(ctx, order))
}

func TestSQLiteJournal_SaveTradeUpsert(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	order := makeOrder()
	order.Fill(order.Size, time.Unix(1756699200, 0))
	trade := *domain.TradeFromOrder(&order)
	require.NoError(t, j.SaveTrade(ctx, trade))

	trade.Resolve(domain.OutcomeUp, time.Unix(1756701100, 0))
	assert.Equal(t, domain.TradeResultWin, trade.Result)
	require.NoError(t, j.SaveTrade(ctx, trade))
}

func TestSQLiteJournal_SchemaSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reopen.db")

	j, err := storage.NewSQLiteJournal(path)
	require.NoError(t, err)
	require.NoError(t, j.SaveOrder(context.Background(), makeOrder()))
	require.NoError(t, j.Close())

	// Reopening applies CREATE IF NOT EXISTS against existing tables.
	j2, err := storage.NewSQLiteJournal(path)
	require.NoError(t, err)
	require.NoError(t, j2.SaveOrder(context.Background(), makeOrder()))
	require.NoError(t, j2.Close())
}
