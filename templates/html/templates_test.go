package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderGenericEmailEscapes(t *testing.T) {
	out := RenderGenericEmail("Hi <b>", "line one\n<script>")

	assert.Contains(t, out, "Hi &lt;b&gt;")
	assert.Contains(t, out, "line one<br>&lt;script&gt;")
	assert.Contains(t, out, "TrailTales")
}

func TestRenderFlagAlertEmail(t *testing.T) {
	out := RenderFlagAlertEmail(FlagAlertData{
		Kind:        "blogposts",
		ContentID:   "abc",
		Severity:    "critical",
		Reason:      "4 reports with weighted score 16.0 within 1 hour",
		ReportCount: 4,
		Score:       16,
		ReviewURL:   "https://example.com/q",
	})

	assert.Contains(t, out, "Critical content flagged")
	assert.Contains(t, out, "(untitled)")
	assert.Contains(t, out, "4 (total weight 16.0)")
	assert.Contains(t, out, `href="https://example.com/q"`)
}

func TestRenderDigestEmail(t *testing.T) {
	out := RenderDigestEmail(DigestData{
		Period:         "Last hour",
		PendingReports: 7,
		NewlyFlagged:   map[string]int64{"reviews": 2},
	})

	assert.Contains(t, out, "<strong>7</strong>")
	assert.Contains(t, out, "<tr><td>reviews</td><td>2</td></tr>")
	assert.Contains(t, out, "<tr><td>blogposts</td><td>0</td></tr>")
}

func TestLayoutAccentAndFooter(t *testing.T) {
	alert := RenderFlagAlertEmail(FlagAlertData{Severity: "critical"})
	digest := RenderDigestEmail(DigestData{QueueURL: "https://example.com/q"})
	generic := RenderGenericEmail("Notice", "body")

	assert.Contains(t, alert, accentRed)
	assert.NotContains(t, digest, accentRed)
	assert.Contains(t, digest, `<a href="https://example.com/q">Open moderation queue</a>`)
	assert.NotContains(t, digest, "Community Guidelines")
	assert.Contains(t, generic, "Community Guidelines")
}
