package polymarket

import (
	"encoding/json"

	"github.com/adelgadoc/updownbot/internal/domain"
	"github.com/adelgadoc/updownbot/internal/tracker"
)

// mapMarketWindow converts a gammaMarket DTO into a domain.MarketWindow.
// ok is false when the payload is unparseable: missing either outcome's
// token id, or a slug without a trailing bucket timestamp. The start
// time always comes from the slug, never from provider-supplied dates.
func mapMarketWindow(raw gammaMarket, slug string, asset domain.Asset) (domain.MarketWindow, bool) {
	startTime, ok := tracker.StartTimeFromSlug(slug)
	if !ok {
		return domain.MarketWindow{}, false
	}

	outcomes := decodeStringArray(raw.Outcomes)
	prices := decodeStringArray(raw.OutcomePrices)
	tokenIDs := decodeStringArray(raw.ClobTokenIDs)

	var upToken, downToken string
	if len(raw.Tokens) > 0 {
		for _, t := range raw.Tokens {
			switch t.Outcome {
			case "Up":
				upToken = t.TokenID
			case "Down":
				downToken = t.TokenID
			}
		}
	} else {
		for i, outcome := range outcomes {
			if i >= len(tokenIDs) {
				break
			}
			switch outcome {
			case "Up":
				upToken = tokenIDs[i]
			case "Down":
				downToken = tokenIDs[i]
			}
		}
	}

	if upToken == "" || downToken == "" {
		return domain.MarketWindow{}, false
	}

	w := domain.MarketWindow{
		Slug:        slug,
		Asset:       asset,
		ConditionID: raw.ConditionID,
		UpTokenID:   upToken,
		DownTokenID: downToken,
		StartTime:   startTime,
		EndTime:     startTime + domain.WindowDuration,
		Winner:      extractWinner(outcomes, prices),
	}
	return w, true
}

// extractWinner returns the side whose settlement price is exactly 1.
// A market where both or neither side settles at 1 is malformed or not
// finalized; the winner stays unset and resolution retries later.
func extractWinner(outcomes, prices []string) *domain.Outcome {
	if len(outcomes) < 2 || len(prices) < 2 {
		return nil
	}

	firstWins := prices[0] == "1"
	secondWins := prices[1] == "1"
	if firstWins == secondWins {
		return nil
	}

	var side domain.Outcome
	if firstWins {
		side = sideFor(outcomes[0])
	} else {
		side = sideFor(outcomes[1])
	}
	return &side
}

func sideFor(outcome string) domain.Outcome {
	if outcome == "Up" {
		return domain.OutcomeUp
	}
	return domain.OutcomeDown
}

// decodeStringArray handles Gamma's two encodings for array fields:
// a plain JSON array, or the same array serialized into a JSON string.
// Numeric elements are preserved as their literal text.
func decodeStringArray(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var nested string
	if err := json.Unmarshal(raw, &nested); err == nil {
		raw = json.RawMessage(nested)
	}

	var flexible []json.Number
	if err := json.Unmarshal(raw, &flexible); err == nil {
		out := make([]string, len(flexible))
		for i, n := range flexible {
			out[i] = n.String()
		}
		return out
	}

	var plain []string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}
	return nil
}
