package ports

import (
	"context"

	"github.com/adelgadoc/updownbot/internal/domain"
)

// MarketProvider fetches up/down market metadata by slug from the
// metadata API. Implementations must tolerate missing or partial fields.
type MarketProvider interface {
	// FetchMarket returns the parsed window for the given slug.
	// found is false when the market does not exist upstream or the
	// payload is missing either outcome's token id.
	FetchMarket(ctx context.Context, slug string) (window domain.MarketWindow, found bool, err error)
}
