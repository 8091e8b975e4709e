package moderation

import (
	"sort"
	"time"

	"github.com/trailtales/trailtales-api/scoring"
)

// CredibilityTier assigns Weight to accounts at least MinAgeDays old
type CredibilityTier struct {
	MinAgeDays float64
	Weight     float64
}

// CredibilityTable converts reporter account age and verification into a
// trust multiplier.
type CredibilityTable struct {
	tiers              []CredibilityTier
	verifiedMultiplier float64
}

// NewCredibilityTable builds a table from tiers in any order
func NewCredibilityTable(verifiedMultiplier float64, tiers ...CredibilityTier) CredibilityTable {
	sorted := append([]CredibilityTier(nil), tiers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinAgeDays < sorted[j].MinAgeDays })
	return CredibilityTable{tiers: sorted, verifiedMultiplier: verifiedMultiplier}
}

// DefaultCredibilityTable is <7d 0.5, 7-30d 1.0, 30-90d 1.5, 90d+ 2.0, verified x1.5
func DefaultCredibilityTable() CredibilityTable {
	return NewCredibilityTable(1.5,
		CredibilityTier{MinAgeDays: 0, Weight: 0.5},
		CredibilityTier{MinAgeDays: 7, Weight: 1.0},
		CredibilityTier{MinAgeDays: 30, Weight: 1.5},
		CredibilityTier{MinAgeDays: 90, Weight: 2.0},
	)
}

// Weight returns the credibility of an account created at accountCreatedAt,
// judged at time at.
func (t CredibilityTable) Weight(accountCreatedAt time.Time, verified bool, at time.Time) float64 {
	age := scoring.AgeInDays(accountCreatedAt, at)

	weight := 0.0
	if len(t.tiers) > 0 {
		weight = t.tiers[0].Weight
	}
	for _, tier := range t.tiers {
		if age >= tier.MinAgeDays {
			weight = tier.Weight
		}
	}

	if verified {
		weight *= t.verifiedMultiplier
	}
	return weight
}
