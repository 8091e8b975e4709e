// Package notify tells moderators about auto-flagged content, by email and
// over the moderation websocket.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/trailtales/trailtales-api/models"
	"github.com/trailtales/trailtales-api/moderation"
	templates "github.com/trailtales/trailtales-api/templates/html"
)

// ErrMailDisabled is returned when no SendGrid key is configured
var ErrMailDisabled = errors.New("email delivery is not configured")

// Sender delivers one message; *sendgrid.Client satisfies it
type Sender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// Mailer sends moderation email through SendGrid
type Mailer struct {
	sender  Sender
	from    *mail.Email
	alertTo string
	baseURL string
}

// NewMailer returns a mailer; with an empty apiKey every send reports ErrMailDisabled
func NewMailer(apiKey, fromAddress, alertTo, baseURL string) *Mailer {
	m := &Mailer{
		from:    mail.NewEmail("TrailTales Moderation", fromAddress),
		alertTo: alertTo,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	if apiKey != "" {
		m.sender = sendgrid.NewSendClient(apiKey)
	}
	return m
}

// NewMailerWithSender is NewMailer with an explicit transport
func NewMailerWithSender(sender Sender, fromAddress, alertTo, baseURL string) *Mailer {
	m := NewMailer("", fromAddress, alertTo, baseURL)
	m.sender = sender
	return m
}

// QueueURL is where moderators review reports
func (m *Mailer) QueueURL() string {
	return m.baseURL + "/moderation/reports?status=pending"
}

// SendFlagAlert emails the moderation inbox about one flagged item
func (m *Mailer) SendFlagAlert(item models.ContentItem, eval moderation.Evaluation) error {
	if m.alertTo == "" {
		return ErrMailDisabled
	}
	subject := fmt.Sprintf("[%s] %s flagged: %s", eval.Severity, item.Kind, item.ID.Hex())
	plain := fmt.Sprintf("%s %s was auto-flagged %s: %s. Review it at %s",
		item.Kind, item.ID.Hex(), eval.Severity, eval.Reason(), m.QueueURL())
	body := templates.RenderFlagAlertEmail(templates.FlagAlertData{
		Kind:        item.Kind,
		ContentID:   item.ID.Hex(),
		Title:       item.Title,
		Severity:    string(eval.Severity),
		Reason:      eval.Reason(),
		ReportCount: item.Moderation.ReportCount,
		Score:       item.Moderation.TotalReportScore,
		ReviewURL:   m.QueueURL(),
	})
	return m.send(m.alertTo, subject, plain, body)
}

// SendDigest emails the periodic moderation summary to each recipient
func (m *Mailer) SendDigest(ctx context.Context, recipients []string, d templates.DigestData) error {
	if d.QueueURL == "" {
		d.QueueURL = m.QueueURL()
	}
	subject := fmt.Sprintf("Moderation digest: %d pending reports", d.PendingReports)
	plain := fmt.Sprintf("%s: %d reports pending review. %s", d.Period, d.PendingReports, d.QueueURL)
	body := templates.RenderDigestEmail(d)

	var errs []error
	for _, to := range recipients {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.send(to, subject, plain, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SendRemovalNotice tells an author that a moderator took their content down
func (m *Mailer) SendRemovalNotice(toEmail string, item models.ContentItem, note string) error {
	if toEmail == "" {
		return ErrMailDisabled
	}
	title := item.Title
	if title == "" {
		title = "Your post"
	}
	subject := "Your content was removed"
	text := fmt.Sprintf("%q was removed after review because it breaks the community guidelines.", title)
	if note != "" {
		text += "\n\nModerator note: " + note
	}
	return m.send(toEmail, subject, text, templates.RenderGenericEmail(subject, text))
}

func (m *Mailer) send(toEmail, subject, plainText, htmlContent string) error {
	if m.sender == nil {
		return ErrMailDisabled
	}
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail("", toEmail), plainText, htmlContent)
	response, err := m.sender.Send(message)
	if err != nil {
		zap.S().Errorw("failed to send email", "error", err, "to", toEmail)
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", toEmail)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	zap.S().Infow("email sent successfully", "to", toEmail, "subject", subject)
	return nil
}
