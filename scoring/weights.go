// Package scoring holds the numeric primitives shared by the feed ranker:
// engagement magnitude, recency decay and the tunable weight tables.
package scoring

// EngagementWeights converts interaction counters into one magnitude
type EngagementWeights struct {
	Like    float64 `koanf:"like" json:"like"`
	Comment float64 `koanf:"comment" json:"comment"`
	View    float64 `koanf:"view" json:"view"`
}

// PersonalizedWeights are the terms of the travel-history aware score
type PersonalizedWeights struct {
	LocationMatch float64  `koanf:"location_match" json:"locationMatch"`
	TagMatch      float64  `koanf:"tag_match" json:"tagMatch"`
	Engagement    float64  `koanf:"engagement" json:"engagement"`
	Recency       float64  `koanf:"recency" json:"recency"`
	Media         float64  `koanf:"media" json:"media"`
	FlagPenalty   float64  `koanf:"flag_penalty" json:"flagPenalty"`
	RelevantTags  []string `koanf:"relevant_tags" json:"relevantTags"`
}

// GenericWeights are the terms of the score used without a travel profile
type GenericWeights struct {
	Engagement          float64  `koanf:"engagement" json:"engagement"`
	Recency             float64  `koanf:"recency" json:"recency"`
	PopularDestination  float64  `koanf:"popular_destination" json:"popularDestination"`
	PerTag              float64  `koanf:"per_tag" json:"perTag"`
	Media               float64  `koanf:"media" json:"media"`
	FlagPenalty         float64  `koanf:"flag_penalty" json:"flagPenalty"`
	PopularDestinations []string `koanf:"popular_destinations" json:"popularDestinations"`
}

// Weights is the full ranking policy. It is built once at startup and passed
// to the ranker; nothing mutates it afterwards.
type Weights struct {
	Engagement     EngagementWeights   `koanf:"engagement" json:"engagement"`
	Personalized   PersonalizedWeights `koanf:"personalized" json:"personalized"`
	Generic        GenericWeights      `koanf:"generic" json:"generic"`
	CandidateLimit int64               `koanf:"candidate_limit" json:"candidateLimit"`
}

// DefaultWeights returns the production ranking policy
func DefaultWeights() Weights {
	return Weights{
		Engagement: EngagementWeights{
			Like:    3,
			Comment: 5,
			View:    0.1,
		},
		Personalized: PersonalizedWeights{
			LocationMatch: 100,
			TagMatch:      15,
			Engagement:    0.5,
			Recency:       0.3,
			Media:         10,
			FlagPenalty:   0.5,
			RelevantTags:  []string{"experience", "tips", "guide", "adventure", "food", "culture"},
		},
		Generic: GenericWeights{
			Engagement:         1,
			Recency:            0.5,
			PopularDestination: 30,
			PerTag:             5,
			Media:              15,
			FlagPenalty:        0.3,
			PopularDestinations: []string{
				"colombo", "kandy", "galle", "ella", "sigiriya", "nuwara eliya",
				"mirissa", "trincomalee", "jaffna", "anuradhapura", "yala", "arugam bay",
			},
		},
		CandidateLimit: 500,
	}
}
