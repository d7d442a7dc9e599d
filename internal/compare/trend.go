package compare

import "math"

const (
	TrendFlat = "="
	TrendUp   = "↑"
	TrendDown = "↓"

	// Relative changes under 5% read as stable. Percentage-based comparison
	// keeps heterogeneous markers (glucose vs TSH) on one scale.
	trendFlatPct = 0.05
)

// TrendSymbol compares the baseline value against a past window value and
// returns "=", "↑" or "↓". Either value missing yields nil: a marker absent
// on one side has no trend.
func TrendSymbol(baselineVal, pastVal *float64) *string {
	if baselineVal == nil || pastVal == nil {
		return nil
	}
	b, p := *baselineVal, *pastVal

	if p == 0 {
		// Zero denominator: direction by absolute difference only.
		diff := b - p
		if math.Abs(diff) < 1e-9 {
			return symbol(TrendFlat)
		}
		if diff > 0 {
			return symbol(TrendUp)
		}
		return symbol(TrendDown)
	}

	pct := (b - p) / math.Abs(p)
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return nil
	}
	if math.Abs(pct) < trendFlatPct {
		return symbol(TrendFlat)
	}
	if pct > 0 {
		return symbol(TrendUp)
	}
	return symbol(TrendDown)
}

func symbol(s string) *string { return &s }
