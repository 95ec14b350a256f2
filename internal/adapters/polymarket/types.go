package polymarket

import "encoding/json"

// Raw DTOs from the Polymarket APIs. Only used inside this package;
// conversion to domain entities happens in mapping.go.

// --- Gamma API ---

// gammaEventsResponse is the reply to GET /events?slug=...
type gammaEventsResponse []gammaEvent

// gammaEvent wraps the markets of one recurring event instance.
type gammaEvent struct {
	Slug    string        `json:"slug"`
	Markets []gammaMarket `json:"markets"`
}

// gammaMarketsResponse is the reply to GET /markets?slug=... (fallback path).
type gammaMarketsResponse []gammaMarket

// gammaMarket is one market's metadata. Gamma alternates between a
// tokens array and parallel outcome/clobTokenIds arrays, and encodes
// the latter either as JSON arrays or as JSON-encoded strings, so the
// flexible fields stay raw until mapping.
type gammaMarket struct {
	ConditionID   string          `json:"conditionId"`
	Question      string          `json:"question"`
	Slug          string          `json:"slug"`
	Tokens        []gammaToken    `json:"tokens"`
	ClobTokenIDs  json.RawMessage `json:"clobTokenIds"`
	Outcomes      json.RawMessage `json:"outcomes"`
	OutcomePrices json.RawMessage `json:"outcomePrices"`
	Active        bool            `json:"active"`
	Closed        bool            `json:"closed"`
}

// gammaToken is one side's token in the explicit per-outcome list.
type gammaToken struct {
	TokenID string `json:"token_id"`
	Outcome string `json:"outcome"`
}

// --- CLOB API ---

// bookResponse is the reply to GET /book?token_id=...
type bookResponse struct {
	AssetID string         `json:"asset_id"`
	Bids    []bookEntryRaw `json:"bids"`
	Asks    []bookEntryRaw `json:"asks"`
}

// bookEntryRaw is a raw price level (strings for precision).
type bookEntryRaw struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}
