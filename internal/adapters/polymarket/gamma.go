package polymarket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/adelgadoc/updownbot/internal/domain"
	"github.com/adelgadoc/updownbot/internal/tracker"
)

const (
	gammaEventsPath  = "/events"
	gammaMarketsPath = "/markets"
)

// FetchMarket implements ports.MarketProvider. It tries the events
// endpoint first and falls back to the markets endpoint, matching how
// the 15-minute series is published. found is false when neither
// endpoint knows the slug or the payload is unparseable.
func (c *Client) FetchMarket(ctx context.Context, slug string) (domain.MarketWindow, bool, error) {
	asset, ok := tracker.AssetFromSlug(slug)
	if !ok {
		return domain.MarketWindow{}, false, fmt.Errorf("gamma.FetchMarket: unknown asset prefix in %q", slug)
	}

	raw, found, err := c.fetchRawMarket(ctx, slug)
	if err != nil {
		return domain.MarketWindow{}, false, fmt.Errorf("gamma.FetchMarket: %w", err)
	}
	if !found {
		return domain.MarketWindow{}, false, nil
	}

	w, ok := mapMarketWindow(raw, slug, asset)
	if !ok {
		// Missing token ids; treated the same as an absent market.
		slog.Debug("unparseable market payload", "slug", slug)
		return domain.MarketWindow{}, false, nil
	}
	return w, true, nil
}

// fetchRawMarket returns the first market DTO for the slug.
func (c *Client) fetchRawMarket(ctx context.Context, slug string) (gammaMarket, bool, error) {
	query := "?slug=" + url.QueryEscape(slug)

	var events gammaEventsResponse
	err := c.get(ctx, c.gammaLimiter, c.gammaBase+gammaEventsPath+query, &events)
	switch {
	case errors.Is(err, errNotFound):
	case err != nil:
		return gammaMarket{}, false, err
	case len(events) > 0 && len(events[0].Markets) > 0:
		return events[0].Markets[0], true, nil
	}

	var markets gammaMarketsResponse
	err = c.get(ctx, c.gammaLimiter, c.gammaBase+gammaMarketsPath+query, &markets)
	switch {
	case errors.Is(err, errNotFound):
		return gammaMarket{}, false, nil
	case err != nil:
		return gammaMarket{}, false, err
	case len(markets) > 0:
		return markets[0], true, nil
	}
	return gammaMarket{}, false, nil
}
