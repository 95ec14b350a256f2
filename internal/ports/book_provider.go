package ports

import "context"

// BookProvider fetches current orderbook prices from the CLOB.
type BookProvider interface {
	// BestBid returns the highest bid price for a token.
	// found is false when the book exists but has no bids.
	BestBid(ctx context.Context, tokenID string) (price float64, found bool, err error)
}
