package ports

import (
	"github.com/adelgadoc/updownbot/internal/domain"
)

// Notifier surfaces simulation events to the user.
// The console implementation prints one line per event and a
// per-variant summary table on demand.
type Notifier interface {
	OrderPlaced(order domain.Order)
	OrderFilled(order domain.Order, secondChance bool)
	OrderCancelled(order domain.Order)
	TradeResolved(trade domain.Trade)
	PrintSummary(metrics []domain.VariantMetrics)
}
