package storage

// sqlite.go: append-style journal of simulated orders and trades.
//
// One row per order and per trade, upserted on every state change so the
// row always holds the latest snapshot. The engine never reads this back:
// in-memory state is authoritative for the run; the journal exists so a
// run's history survives for offline inspection.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/adelgadoc/updownbot/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
    id           TEXT PRIMARY KEY,
    variant      TEXT NOT NULL,
    family       TEXT NOT NULL,
    asset        TEXT NOT NULL,
    market_slug  TEXT NOT NULL,
    side         TEXT NOT NULL,
    price        REAL NOT NULL,
    limit_price  REAL NOT NULL,
    size         REAL NOT NULL,
    filled_size  REAL NOT NULL DEFAULT 0,
    status       TEXT NOT NULL,
    market_start INTEGER NOT NULL,
    created_at   DATETIME NOT NULL,
    updated_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
    id           TEXT PRIMARY KEY,
    order_id     TEXT NOT NULL,
    variant      TEXT NOT NULL,
    family       TEXT NOT NULL,
    asset        TEXT NOT NULL,
    market_slug  TEXT NOT NULL,
    side         TEXT NOT NULL,
    entry_price  REAL NOT NULL,
    size         REAL NOT NULL,
    filled_size  REAL NOT NULL,
    invested     REAL NOT NULL,
    market_start INTEGER NOT NULL,
    entry_time   DATETIME NOT NULL,
    resolved_at  DATETIME,
    result       TEXT NOT NULL,
    pnl          REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_orders_created ON orders(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_trades_entry   ON trades(entry_time DESC);
CREATE INDEX IF NOT EXISTS idx_trades_variant ON trades(variant);
`

// SQLiteJournal implements ports.Journal on a local SQLite file.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal opens (or creates) the database and applies the schema.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteJournal: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteJournal: apply schema: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

// SaveOrder upserts the order's latest snapshot.
func (s *SQLiteJournal) SaveOrder(ctx context.Context, o domain.Order) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO orders
		    (id, variant, family, asset, market_slug, side, price, limit_price,
		     size, filled_size, status, market_start, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		    filled_size = excluded.filled_size,
		    status      = excluded.status,
		    updated_at  = excluded.updated_at`,
		o.ID, o.Variant, string(o.Family), string(o.Asset), o.MarketSlug,
		string(o.Side), o.Price, o.LimitPrice, o.Size, o.FilledSize,
		string(o.Status), o.MarketStartTime,
		o.CreatedAt.UTC(), o.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveOrder: %w", err)
	}
	return nil
}

// SaveTrade upserts the trade's latest snapshot.
func (s *SQLiteJournal) SaveTrade(ctx context.Context, t domain.Trade) error {
	var resolvedAt *time.Time
	if t.ResolutionTime != nil {
		utc := t.ResolutionTime.UTC()
		resolvedAt = &utc
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades
		    (id, order_id, variant, family, asset, market_slug, side, entry_price,
		     size, filled_size, invested, market_start, entry_time, resolved_at, result, pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		    resolved_at = excluded.resolved_at,
		    result      = excluded.result,
		    pnl         = excluded.pnl`,
		t.ID, t.OrderID, t.Variant, string(t.Family), string(t.Asset),
		t.MarketSlug, string(t.Side), t.EntryPrice, t.Size, t.FilledSize,
		t.Invested, t.MarketStartTime, t.EntryTime.UTC(), resolvedAt,
		string(t.Result), t.PnL,
	)
	if err != nil {
		return fmt.Errorf("storage.SaveTrade: %w", err)
	}
	return nil
}

// Close closes the database connection cleanly.
func (s *SQLiteJournal) Close() error {
	return s.db.Close()
}
