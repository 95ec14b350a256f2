package domain

import "fmt"

// StrategyFamily names one of the two entry rule families.
type StrategyFamily string

const (
	// FamilyBuyLow enters when either side's best bid is at or below the threshold.
	FamilyBuyLow StrategyFamily = "buy_low"
	// FamilyBuyHigh enters when either side's best bid is at or above the threshold.
	FamilyBuyHigh StrategyFamily = "buy_high"
)

// ParseFamily validates a family name coming from external input.
func ParseFamily(s string) (StrategyFamily, bool) {
	switch StrategyFamily(s) {
	case FamilyBuyLow:
		return FamilyBuyLow, true
	case FamilyBuyHigh:
		return FamilyBuyHigh, true
	}
	return "", false
}

// Variant is one configured (family, threshold) strategy instance.
// The catalog is static; variants are never mutated at runtime.
type Variant struct {
	Family    StrategyFamily
	Threshold float64 // price in (0,1)
	Name      string  // e.g. "buy_low_48", keys all metrics
}

// NewVariant derives the canonical variant name from family and threshold.
func NewVariant(family StrategyFamily, threshold float64) Variant {
	return Variant{
		Family:    family,
		Threshold: threshold,
		Name:      fmt.Sprintf("%s_%d", family, int(threshold*100+0.5)),
	}
}

// DefaultVariants builds the full catalog from the configured threshold lists.
func DefaultVariants(buyLow, buyHigh []float64) []Variant {
	variants := make([]Variant, 0, len(buyLow)+len(buyHigh))
	for _, t := range buyLow {
		variants = append(variants, NewVariant(FamilyBuyLow, t))
	}
	for _, t := range buyHigh {
		variants = append(variants, NewVariant(FamilyBuyHigh, t))
	}
	return variants
}
