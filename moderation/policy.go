package moderation

import (
	"fmt"
	"time"

	"github.com/trailtales/trailtales-api/models"
)

// DefaultMaxDescriptionLength bounds the free-text part of a report
const DefaultMaxDescriptionLength = 500

// Window is a trailing interval whose summed report weight escalates content
// to Severity once it reaches Threshold.
type Window struct {
	Label     string
	Span      time.Duration
	Threshold float64
	Severity  models.Severity
}

// Policy bundles every constant the aggregator needs. Build it once at startup.
type Policy struct {
	Reasons              ReasonCatalog
	Credibility          CredibilityTable
	Windows              []Window
	MaxDescriptionLength int
}

// DefaultWindows are checked tightest first: 1h >= 15 critical, 24h >= 30 high,
// 7d >= 50 moderate.
func DefaultWindows() []Window {
	return []Window{
		{Label: "1 hour", Span: time.Hour, Threshold: 15, Severity: models.SeverityCritical},
		{Label: "24 hours", Span: 24 * time.Hour, Threshold: 30, Severity: models.SeverityHigh},
		{Label: "7 days", Span: 7 * 24 * time.Hour, Threshold: 50, Severity: models.SeverityModerate},
	}
}

// DefaultPolicy returns the production moderation policy
func DefaultPolicy() Policy {
	return Policy{
		Reasons:              DefaultReasonCatalog(),
		Credibility:          DefaultCredibilityTable(),
		Windows:              DefaultWindows(),
		MaxDescriptionLength: DefaultMaxDescriptionLength,
	}
}

// WithThresholds returns a copy of p whose window thresholds are replaced per
// severity. Non-positive values keep the existing threshold.
func (p Policy) WithThresholds(critical, high, moderate float64) Policy {
	overrides := map[models.Severity]float64{
		models.SeverityCritical: critical,
		models.SeverityHigh:     high,
		models.SeverityModerate: moderate,
	}
	windows := make([]Window, len(p.Windows))
	copy(windows, p.Windows)
	for i := range windows {
		if t := overrides[windows[i].Severity]; t > 0 {
			windows[i].Threshold = t
		}
	}
	p.Windows = windows
	return p
}

// LongestSpan is how far back report history must be loaded
func (p Policy) LongestSpan() time.Duration {
	var longest time.Duration
	for _, w := range p.Windows {
		if w.Span > longest {
			longest = w.Span
		}
	}
	return longest
}

// Evaluation is the outcome of checking report history against the windows
type Evaluation struct {
	Severity models.Severity
	Window   Window
	Count    int
	Score    float64
}

// Reason is the human readable flag summary
func (e Evaluation) Reason() string {
	return fmt.Sprintf("%d reports with weighted score %.1f within %s", e.Count, e.Score, e.Window.Label)
}

// Evaluate sums the weighted score of active reports in each window, in
// policy order. The first window whose threshold is met decides the severity.
func (p Policy) Evaluate(reports []models.Report, now time.Time) Evaluation {
	for _, w := range p.Windows {
		cutoff := now.Add(-w.Span)
		count := 0
		score := 0.0
		for _, r := range reports {
			if !isActive(r.Status) || r.CreatedAt.Before(cutoff) {
				continue
			}
			count++
			score += r.WeightedScore
		}
		if score >= w.Threshold {
			return Evaluation{Severity: w.Severity, Window: w, Count: count, Score: score}
		}
	}
	return Evaluation{Severity: models.SeverityNone}
}

func isActive(status string) bool {
	for _, s := range models.ActiveReportStatuses {
		if status == s {
			return true
		}
	}
	return false
}
