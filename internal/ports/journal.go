package ports

import (
	"context"

	"github.com/adelgadoc/updownbot/internal/domain"
)

// Journal persists order and trade history for later inspection.
// It is write-through only: the engine never reads it back, in-memory
// state stays authoritative for the lifetime of the run.
type Journal interface {
	SaveOrder(ctx context.Context, order domain.Order) error
	SaveTrade(ctx context.Context, trade domain.Trade) error
	Close() error
}
