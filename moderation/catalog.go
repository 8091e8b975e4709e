// Package moderation turns abuse reports into moderation pressure. Each report
// is weighted by its reason and by the reporter's credibility, and the sums over
// sliding windows decide when content is auto-flagged.
package moderation

import "github.com/trailtales/trailtales-api/models"

// Report reason codes
const (
	ReasonSpam           = "spam"
	ReasonInappropriate  = "inappropriate"
	ReasonHarassment     = "harassment"
	ReasonHateSpeech     = "hate_speech"
	ReasonViolence       = "violence"
	ReasonMisinformation = "misinformation"
	ReasonScam           = "scam"
	ReasonCopyright      = "copyright"
	ReasonOther          = "other"
)

// Reason is a report reason code with its label and severity weight
type Reason struct {
	Code   string
	Label  string
	Weight float64
}

// ReasonCatalog maps reason codes to their weights. It is read-only once built.
type ReasonCatalog struct {
	reasons map[string]Reason
	order   []string
}

// NewReasonCatalog builds a catalog; later duplicates of a code replace earlier ones
func NewReasonCatalog(reasons ...Reason) ReasonCatalog {
	c := ReasonCatalog{reasons: make(map[string]Reason, len(reasons))}
	for _, r := range reasons {
		if _, ok := c.reasons[r.Code]; !ok {
			c.order = append(c.order, r.Code)
		}
		c.reasons[r.Code] = r
	}
	return c
}

// DefaultReasonCatalog returns the production reason table
func DefaultReasonCatalog() ReasonCatalog {
	return NewReasonCatalog(
		Reason{Code: ReasonSpam, Label: "Spam or advertising", Weight: 1.0},
		Reason{Code: ReasonInappropriate, Label: "Inappropriate content", Weight: 2.0},
		Reason{Code: ReasonHarassment, Label: "Harassment or bullying", Weight: 3.0},
		Reason{Code: ReasonHateSpeech, Label: "Hate speech", Weight: 3.0},
		Reason{Code: ReasonViolence, Label: "Violence or dangerous activity", Weight: 3.0},
		Reason{Code: ReasonMisinformation, Label: "False or misleading information", Weight: 2.0},
		Reason{Code: ReasonScam, Label: "Scam or fraud", Weight: 2.5},
		Reason{Code: ReasonCopyright, Label: "Copyright violation", Weight: 1.5},
		Reason{Code: ReasonOther, Label: "Other", Weight: 1.0},
	)
}

// Lookup returns the reason for code
func (c ReasonCatalog) Lookup(code string) (Reason, bool) {
	r, ok := c.reasons[code]
	return r, ok
}

// List returns every reason in catalog order
func (c ReasonCatalog) List() []models.ReportReason {
	out := make([]models.ReportReason, 0, len(c.order))
	for _, code := range c.order {
		r := c.reasons[code]
		out = append(out, models.ReportReason{Code: r.Code, Label: r.Label, Weight: r.Weight})
	}
	return out
}
