package scoring

// Counters are the interaction counts of a content item
type Counters struct {
	Likes    int64
	Comments int64
	Views    int64
}

// Engagement returns likes*w.Like + comments*w.Comment + views*w.View.
// Negative counters count as zero.
func Engagement(c Counters, w EngagementWeights) float64 {
	return float64(nonNegative(c.Likes))*w.Like +
		float64(nonNegative(c.Comments))*w.Comment +
		float64(nonNegative(c.Views))*w.View
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
