package templates

import (
	"fmt"
	"html"
	"strings"
)

// FlagAlertData holds the fields shown in a critical flag alert
type FlagAlertData struct {
	Kind        string
	ContentID   string
	Title       string
	Severity    string
	Reason      string
	ReportCount int64
	Score       float64
	ReviewURL   string
}

// DigestData summarizes moderation activity for one digest period
type DigestData struct {
	Period         string
	PendingReports int64
	NewlyFlagged   map[string]int64
	QueueURL       string
}

// RenderFlagAlertEmail generates the HTML for the alert sent when content is
// auto-flagged at critical severity.
func RenderFlagAlertEmail(d FlagAlertData) string {
	title := d.Title
	if title == "" {
		title = "(untitled)"
	}
	body := fmt.Sprintf(`<p>An item crossed an auto-flag threshold and is waiting for review.</p>
      <div class="highlight-box">
        <p><strong>Title:</strong> %s</p>
        <p><strong>Collection:</strong> %s</p>
        <p><strong>Id:</strong> %s</p>
        <p><strong>Why:</strong> %s</p>
        <p><strong>Reports so far:</strong> %d (total weight %.1f)</p>
      </div>
      <a class="cta-button" href="%s">Open moderation queue</a>`,
		html.EscapeString(title),
		html.EscapeString(d.Kind),
		html.EscapeString(d.ContentID),
		html.EscapeString(d.Reason),
		d.ReportCount, d.Score,
		html.EscapeString(d.ReviewURL))

	return layout{
		Title:   "Content flagged - TrailTales moderation",
		Heading: capitalize(d.Severity) + " content flagged",
		Accent:  accentRed,
		Body:    body,
		Footer:  "<p>&copy; TrailTales moderation</p>",
	}.render()
}

// RenderDigestEmail generates the HTML for the periodic moderation digest
func RenderDigestEmail(d DigestData) string {
	var rows strings.Builder
	for _, kind := range []string{"blogposts", "mappoints", "reviews"} {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%d</td></tr>", kind, d.NewlyFlagged[kind])
	}
	body := fmt.Sprintf(`<p>%s</p>
      <p><strong>%d</strong> reports are waiting for review.</p>
      <p>Items auto-flagged in this period:</p>
      <table>%s</table>`, html.EscapeString(d.Period), d.PendingReports, rows.String())

	return layout{
		Title:   "Moderation digest",
		Heading: "Moderation digest",
		Body:    body,
		Footer:  fmt.Sprintf(`<p><a href="%s">Open moderation queue</a></p>`, html.EscapeString(d.QueueURL)),
	}.render()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
