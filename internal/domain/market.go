package domain

import "time"

// WindowDuration is the fixed length of every tracked market window in seconds.
const WindowDuration = 900

// Outcome is one of the two sides of an up/down market.
type Outcome string

const (
	OutcomeUp   Outcome = "Up"
	OutcomeDown Outcome = "Down"
)

// MarketWindow is one concrete 15-minute market instance.
// Immutable once parsed except for Winner, which transitions
// once from nil to the resolved side.
type MarketWindow struct {
	Slug        string   `json:"slug"`
	Asset       Asset    `json:"asset"`
	ConditionID string   `json:"condition_id"`
	UpTokenID   string   `json:"up_token_id"`
	DownTokenID string   `json:"down_token_id"`
	StartTime   int64    `json:"start_time"` // unix seconds, derived from the slug suffix
	EndTime     int64    `json:"end_time"`   // StartTime + WindowDuration
	Winner      *Outcome `json:"winner,omitempty"`
}

// CountdownToActive returns the seconds until the window opens, floored at 0.
func (m MarketWindow) CountdownToActive(now time.Time) int64 {
	d := m.StartTime - now.Unix()
	if d < 0 {
		return 0
	}
	return d
}

// CountdownToEnd returns the seconds until the window closes, floored at 0.
func (m MarketWindow) CountdownToEnd(now time.Time) int64 {
	d := m.EndTime - now.Unix()
	if d < 0 {
		return 0
	}
	return d
}

// Contains reports whether now falls inside [StartTime, EndTime).
func (m MarketWindow) Contains(now time.Time) bool {
	t := now.Unix()
	return m.StartTime <= t && t < m.EndTime
}

// TokenID returns the token id for the given side.
func (m MarketWindow) TokenID(side Outcome) string {
	if side == OutcomeUp {
		return m.UpTokenID
	}
	return m.DownTokenID
}
