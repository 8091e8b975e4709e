package ranking

import (
	"strings"
	"time"

	"github.com/trailtales/trailtales-api/models"
	"github.com/trailtales/trailtales-api/scoring"
)

// Algorithm names the scoring strategy used for a feed
type Algorithm string

// Ranking algorithms
const (
	AlgorithmPersonalized Algorithm = "personalized"
	AlgorithmGeneric      Algorithm = "generic"
)

// Strategy is the scoring variant chosen once per request
type Strategy struct {
	Algorithm Algorithm
	profile   Profile
	weights   scoring.Weights
}

// SelectStrategy picks personalized ranking for a non-empty profile and
// generic ranking otherwise.
func SelectStrategy(p Profile, w scoring.Weights) Strategy {
	if p.Empty() {
		return Strategy{Algorithm: AlgorithmGeneric, weights: w}
	}
	return Strategy{Algorithm: AlgorithmPersonalized, profile: p, weights: w}
}

// Score computes the ranking score of a single item at time now
func (s Strategy) Score(item models.ContentItem, now time.Time) float64 {
	if s.Algorithm == AlgorithmPersonalized {
		return s.personalized(item, now)
	}
	return s.generic(item, now)
}

func (s Strategy) personalized(item models.ContentItem, now time.Time) float64 {
	w := s.weights.Personalized
	score := 0.0

	if LocationMatches(item.LocationName, s.profile.Locations) {
		score += w.LocationMatch
	}
	score += float64(countRelevantTags(item.Tags, w.RelevantTags)) * w.TagMatch
	score += scoring.Engagement(counters(item), s.weights.Engagement) * w.Engagement
	score += scoring.Recency(item.CreatedAt, now) * w.Recency
	if item.HasImages() {
		score += w.Media
	}

	if item.Moderation.IsFlagged {
		score *= w.FlagPenalty
	}
	return score
}

func (s Strategy) generic(item models.ContentItem, now time.Time) float64 {
	w := s.weights.Generic
	score := scoring.Engagement(counters(item), s.weights.Engagement) * w.Engagement
	score += scoring.Recency(item.CreatedAt, now) * w.Recency

	if isPopularDestination(item.LocationName, w.PopularDestinations) {
		score += w.PopularDestination
	}
	score += float64(len(item.Tags)) * w.PerTag
	if item.HasImages() {
		score += w.Media
	}

	if item.Moderation.IsFlagged {
		score *= w.FlagPenalty
	}
	return score
}

// LocationMatches is a fuzzy, two-directional substring test between an item
// location and the profile tokens. "Galle" matches "galle fort, galle, sri
// lanka" and vice versa. Short tokens can produce false positives; that is
// accepted.
func LocationMatches(location string, tokens map[string]struct{}) bool {
	loc := normalize(location)
	if loc == "" || len(tokens) == 0 {
		return false
	}

	for t := range tokens {
		if t == "" {
			continue
		}
		if strings.Contains(t, loc) || strings.Contains(loc, t) {
			return true
		}
	}

	for _, segment := range strings.Split(loc, ",") {
		seg := strings.TrimSpace(segment)
		if seg == "" {
			continue
		}
		for t := range tokens {
			if t == "" {
				continue
			}
			if seg == t || strings.Contains(t, seg) {
				return true
			}
		}
	}
	return false
}

func countRelevantTags(tags, relevant []string) int {
	n := 0
	for _, tag := range tags {
		tag = normalize(tag)
		for _, r := range relevant {
			if tag == r {
				n++
				break
			}
		}
	}
	return n
}

func isPopularDestination(location string, destinations []string) bool {
	loc := normalize(location)
	if loc == "" {
		return false
	}
	for _, d := range destinations {
		if d != "" && strings.Contains(loc, d) {
			return true
		}
	}
	return false
}

func counters(item models.ContentItem) scoring.Counters {
	return scoring.Counters{
		Likes:    item.LikeCount,
		Comments: item.CommentCount,
		Views:    item.ViewCount,
	}
}
