package templates

import (
	"fmt"
	"html"
	"strings"
)

const (
	accentTeal = "#0f766e 0%, #14b8a6 100%"
	accentRed  = "#dc2626 0%, #f97316 100%"
)

const defaultFooter = `<p>&copy; TrailTales | <a href="https://www.trailtales.app">trailtales.app</a></p>
      <p><a href="https://www.trailtales.app/community-guidelines">Community Guidelines</a></p>`

// layout is the shared frame every outgoing email is rendered into. Heading
// and Title are escaped here; Body and Footer must already be safe HTML.
type layout struct {
	Title   string
	Heading string
	Accent  string
	Body    string
	Footer  string
}

func (l layout) render() string {
	accent := l.Accent
	if accent == "" {
		accent = accentTeal
	}
	footer := l.Footer
	if footer == "" {
		footer = defaultFooter
	}

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
`)
	fmt.Fprintf(&b, "  <title>%s</title>\n", html.EscapeString(l.Title))
	b.WriteString(`  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #0a0a0f; }
    .container { max-width: 600px; margin: 0 auto; background-color: #12121f; }
`)
	fmt.Fprintf(&b, "    .header { background: linear-gradient(135deg, %s); padding: 40px 30px; text-align: center; }\n", accent)
	b.WriteString(`    .header h1 { color: #fff; margin: 0; font-size: 24px; font-weight: 700; }
    .content { padding: 40px 30px; color: #e5e7eb; line-height: 1.6; font-size: 15px; }
    .highlight-box { background: rgba(220, 38, 38, 0.1); border: 1px solid rgba(220, 38, 38, 0.3); border-radius: 12px; padding: 20px; margin: 20px 0; }
    .highlight-box p { margin: 6px 0; }
    .cta-button { display: inline-block; background: #dc2626; color: #fff; padding: 14px 28px; border-radius: 8px; text-decoration: none; font-weight: 700; margin-top: 20px; }
    table { width: 100%; border-collapse: collapse; }
    td { padding: 8px; border-bottom: 1px solid rgba(255,255,255,0.1); }
    .footer { padding: 30px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid rgba(255,255,255,0.1); }
    .footer a { color: #14b8a6; text-decoration: none; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
`)
	fmt.Fprintf(&b, "      <h1>%s</h1>\n", html.EscapeString(l.Heading))
	b.WriteString("    </div>\n    <div class=\"content\">\n      ")
	b.WriteString(l.Body)
	b.WriteString("\n    </div>\n    <div class=\"footer\">\n      ")
	b.WriteString(footer)
	b.WriteString("\n    </div>\n  </div>\n</body>\n</html>")
	return b.String()
}

// plainTextToHTML escapes s and converts newlines to <br> tags
func plainTextToHTML(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}

// RenderGenericEmail wraps plain text in the branded layout with the subject
// as the banner heading. Used for one-off notices to content authors.
func RenderGenericEmail(subject, bodyContent string) string {
	return layout{
		Title:   subject,
		Heading: subject,
		Body:    plainTextToHTML(bodyContent),
	}.render()
}
