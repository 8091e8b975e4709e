package notify

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/trailtales/trailtales-api/models"
	"github.com/trailtales/trailtales-api/moderation"
)

// EventContentFlagged is the websocket event name for auto-flags
const EventContentFlagged = "content_flagged"

// Broadcaster pushes an event to every connected moderator
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

// FlagRecorder counts escalations, typically into prometheus
type FlagRecorder interface {
	ContentFlagged(kind string, severity models.Severity)
}

// FlagEvent is the payload broadcast for every escalation
type FlagEvent struct {
	Kind             string          `json:"kind"`
	ContentID        string          `json:"contentId"`
	Title            string          `json:"title,omitempty"`
	Severity         models.Severity `json:"severity"`
	Reason           string          `json:"reason"`
	ReportCount      int64           `json:"reportCount"`
	TotalReportScore float64         `json:"totalReportScore"`
	FlaggedAt        *time.Time      `json:"flaggedAt,omitempty"`
}

// FlagNotifier fans an escalation out to metrics, the moderation websocket
// and, from EmailAt upwards, the moderation inbox.
type FlagNotifier struct {
	Mailer      *Mailer
	Broadcaster Broadcaster
	Recorder    FlagRecorder
	EmailAt     models.Severity

	// dispatch runs slow deliveries off the request path
	dispatch func(func())
}

// NewFlagNotifier emails on critical escalations. Any dependency may be nil.
func NewFlagNotifier(mailer *Mailer, broadcaster Broadcaster, recorder FlagRecorder) *FlagNotifier {
	return &FlagNotifier{
		Mailer:      mailer,
		Broadcaster: broadcaster,
		Recorder:    recorder,
		EmailAt:     models.SeverityCritical,
		dispatch:    func(f func()) { go f() },
	}
}

// ContentFlagged implements moderation.Notifier. Only the metric is recorded
// inline; the websocket broadcast and the email are dispatched.
func (n *FlagNotifier) ContentFlagged(_ context.Context, item models.ContentItem, eval moderation.Evaluation) {
	if n.Recorder != nil {
		n.Recorder.ContentFlagged(item.Kind, eval.Severity)
	}

	if n.Broadcaster != nil {
		event := FlagEvent{
			Kind:             item.Kind,
			ContentID:        item.ID.Hex(),
			Title:            item.Title,
			Severity:         eval.Severity,
			Reason:           eval.Reason(),
			ReportCount:      item.Moderation.ReportCount,
			TotalReportScore: item.Moderation.TotalReportScore,
			FlaggedAt:        item.Moderation.FlaggedAt,
		}
		// socket writes can stall on a slow moderator; keep them off the report request
		n.dispatch(func() { n.Broadcaster.Broadcast(EventContentFlagged, event) })
	}

	if n.Mailer == nil || eval.Severity.Rank() < n.EmailAt.Rank() {
		return
	}
	n.dispatch(func() {
		if err := n.Mailer.SendFlagAlert(item, eval); err != nil && !errors.Is(err, ErrMailDisabled) {
			zap.S().Errorw("failed to send flag alert",
				"contentId", item.ID.Hex(),
				"kind", item.Kind,
				"error", err)
		}
	})
}
