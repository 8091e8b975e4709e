package scoring

import (
	"math"
	"time"
)

// MaxRecency is the score of anything a week old or newer
const MaxRecency = 100.0

// Recency scores content age on a piecewise-linear decay in [0, 100]:
// flat for a week, -2/day to day 30, -0.5/day to day 90, then -0.1/day
// until it bottoms out at zero. Age is measured in fractional days.
func Recency(createdAt, now time.Time) float64 {
	return RecencyForAge(AgeInDays(createdAt, now))
}

// RecencyForAge applies the decay curve to an age in days
func RecencyForAge(days float64) float64 {
	switch {
	case days <= 7:
		return MaxRecency
	case days <= 30:
		return 100 - (days-7)*2
	case days <= 90:
		return 50 - (days-30)*0.5
	default:
		return math.Max(0, 20-(days-90)*0.1)
	}
}

// AgeInDays is the fractional number of days between t and now; timestamps in
// the future count as zero.
func AgeInDays(t, now time.Time) float64 {
	d := now.Sub(t)
	if d < 0 {
		return 0
	}
	return d.Hours() / 24
}
