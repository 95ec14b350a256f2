package polymarket

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

const bookPath = "/book"

// BestBid implements ports.BookProvider: the highest bid price for a
// token, or found=false when the book has no bids. Each side is fetched
// independently; callers never assume both sides are priced.
func (c *Client) BestBid(ctx context.Context, tokenID string) (float64, bool, error) {
	var resp bookResponse
	u := c.clobBase + bookPath + "?token_id=" + url.QueryEscape(tokenID)
	if err := c.get(ctx, c.bookLimiter, u, &resp); err != nil {
		return 0, false, fmt.Errorf("clob.BestBid: %w", err)
	}

	best := 0.0
	for _, b := range resp.Bids {
		price, err := strconv.ParseFloat(b.Price, 64)
		if err != nil || price <= 0 {
			continue
		}
		if price > best {
			best = price
		}
	}
	if best == 0 {
		return 0, false, nil
	}
	return best, true, nil
}
