package audio

import "math"

// Fit-quality bucket bounds, expressed as actual/target ratios.
const (
	excellentLow  = 0.95
	excellentHigh = 1.05
	goodLow       = 0.85
	goodHigh      = 1.15
	fairLow       = 0.7
	fairHigh      = 1.3
)

const (
	FitExcellent = "excellent"
	FitGood      = "good"
	FitFair      = "fair"
	FitPoor      = "poor"
)

const (
	OptPerfectFit    = "perfect-fit"
	OptPaddingNeeded = "padding-needed"
	OptTrimNeeded    = "trim-needed"
)

// FitQuality buckets how closely a narration's duration matches the
// scene's target duration.
func FitQuality(actual, target float64) string {
	if target <= 0 {
		return FitPoor
	}
	ratio := actual / target
	switch {
	case ratio >= excellentLow && ratio <= excellentHigh:
		return FitExcellent
	case ratio >= goodLow && ratio <= goodHigh:
		return FitGood
	case ratio >= fairLow && ratio <= fairHigh:
		return FitFair
	default:
		return FitPoor
	}
}

// FitClassification decides whether a narration needs silence padding or
// trimming to hit the target duration, with a tolerance band in which it
// is left alone. Returns the classification and the padding/trim amounts
// in seconds (at most one is nonzero).
func FitClassification(actual, target, tolerance float64) (optimization string, padding, trimming float64) {
	diff := actual - target
	if math.Abs(diff) <= tolerance {
		return OptPerfectFit, 0, 0
	}
	if diff < 0 {
		return OptPaddingNeeded, -diff, 0
	}
	return OptTrimNeeded, 0, diff
}
