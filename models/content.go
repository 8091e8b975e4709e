package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Content kinds double as the mongo collection names
const (
	KindBlogPost = "blogposts"
	KindMapPoint = "mappoints"
	KindReview   = "reviews"
)

// Content statuses
const (
	ContentStatusPublished = "published"
	ContentStatusRemoved   = "removed"
)

// ContentKinds lists every rankable and reportable content kind
var ContentKinds = []string{KindBlogPost, KindMapPoint, KindReview}

// IsContentKind reports whether kind names a known content collection
func IsContentKind(kind string) bool {
	for _, k := range ContentKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ContentItem is any rankable/reportable unit: a blog post, a map point or a review
type ContentItem struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Kind         string             `json:"kind" bson:"kind"`
	AuthorID     string             `json:"authorId" bson:"authorId"`
	Title        string             `json:"title" bson:"title"`
	Body         string             `json:"body,omitempty" bson:"body,omitempty"`
	Status       string             `json:"status" bson:"status"`
	Tags         []string           `json:"tags" bson:"tags"`
	LocationName string             `json:"locationName,omitempty" bson:"locationName,omitempty"`
	Images       []Image            `json:"images,omitempty" bson:"images,omitempty"`
	HiddenBy     []string           `json:"-" bson:"hiddenBy,omitempty"`
	LikeCount    int64              `json:"likeCount" bson:"likeCount"`
	CommentCount int64              `json:"commentCount" bson:"commentCount"`
	ViewCount    int64              `json:"viewCount" bson:"viewCount"`
	Moderation   ModerationState    `json:"moderation" bson:"moderation"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Image is a CDN hosted image attached to a content item
type Image struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"publicId" bson:"publicId"`
}

// HasImages reports whether at least one image is attached
func (c ContentItem) HasImages() bool {
	return len(c.Images) > 0
}

// ModerationState holds the report counters and flag fields of a content item
type ModerationState struct {
	ReportCount      int64      `json:"reportCount" bson:"reportCount"`
	TotalReportScore float64    `json:"totalReportScore" bson:"totalReportScore"`
	IsFlagged        bool       `json:"isFlagged" bson:"isFlagged"`
	FlagSeverity     Severity   `json:"flagSeverity" bson:"flagSeverity"`
	FlagReason       string     `json:"flagReason,omitempty" bson:"flagReason,omitempty"`
	FlaggedAt        *time.Time `json:"flaggedAt,omitempty" bson:"flaggedAt,omitempty"`
}

// Severity is the moderation flag tier of a content item
type Severity string

// Severity tiers, in escalating order
const (
	SeverityNone     Severity = "none"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityNone:     0,
	SeverityModerate: 1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank orders severities; the empty value ranks as none
func (s Severity) Rank() int {
	return severityRank[s]
}

// Exceeds reports whether s is a strictly higher tier than other
func (s Severity) Exceeds(other Severity) bool {
	return s.Rank() > other.Rank()
}

// Below returns every stored value that ranks strictly lower than s,
// including the empty string and null for documents that were never flagged.
func (s Severity) Below() []interface{} {
	below := []interface{}{nil, ""}
	for _, sev := range []Severity{SeverityNone, SeverityModerate, SeverityHigh, SeverityCritical} {
		if sev.Rank() < s.Rank() {
			below = append(below, string(sev))
		}
	}
	return below
}
