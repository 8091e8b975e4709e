package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/trailtales/trailtales-api/databases"
	"github.com/trailtales/trailtales-api/models"
)

// Submission errors. Validation and policy errors are returned before anything is written.
var (
	ErrInvalidReason       = errors.New("invalid report reason")
	ErrDescriptionTooLong  = errors.New("report description is too long")
	ErrUnknownKind         = errors.New("unknown content kind")
	ErrContentNotFound     = errors.New("content not found")
	ErrSelfReport          = errors.New("cannot report your own content")
	ErrDuplicateReport     = errors.New("content already reported by this user")
	ErrMissingReporterInfo = errors.New("reporter identity is required")
)

// CompensationTimeout bounds the writes that undo a failed submission
const CompensationTimeout = 5 * time.Second

// ContentStore is the slice of the content collection the aggregator mutates
type ContentStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ContentItem, error)
	AdjustReports(ctx context.Context, id primitive.ObjectID, count int64, score float64) (*models.ContentItem, error)
	EscalateFlag(ctx context.Context, id primitive.ObjectID, severity models.Severity, reason string, at time.Time) (bool, error)
}

// ReportStore persists reports. Insert must fail with databases.ErrDuplicateKey
// when the (content, reporter) pair already exists.
type ReportStore interface {
	Exists(ctx context.Context, contentID primitive.ObjectID, reporterID string) (bool, error)
	Insert(ctx context.Context, report models.Report) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindActiveSince(ctx context.Context, contentID primitive.ObjectID, since time.Time) ([]models.Report, error)
}

// Notifier is told about every escalation this aggregator applied
type Notifier interface {
	ContentFlagged(ctx context.Context, item models.ContentItem, eval Evaluation)
}

// Submission is one report filed by a user
type Submission struct {
	Kind        string
	ContentID   primitive.ObjectID
	Reporter    models.Identity
	Reason      string
	Description string
}

// Outcome is the persisted report and the moderation state after aggregation
type Outcome struct {
	Report      models.Report
	Moderation  models.ModerationState
	AutoFlagged bool
	Evaluation  Evaluation
}

// Aggregator records reports and escalates content flags
type Aggregator struct {
	policy   Policy
	reports  ReportStore
	contents map[string]ContentStore
	notifier Notifier
	now      func() time.Time
}

// NewAggregator wires an aggregator. notifier may be nil.
func NewAggregator(policy Policy, reports ReportStore, contents map[string]ContentStore, notifier Notifier) *Aggregator {
	return &Aggregator{
		policy:   policy,
		reports:  reports,
		contents: contents,
		notifier: notifier,
		now:      time.Now,
	}
}

// Policy returns the policy the aggregator was built with
func (a *Aggregator) Policy() Policy {
	return a.policy
}

// Submit validates and stores a report, bumps the item's counters atomically
// and escalates its flag when a window threshold is crossed. Any failure after
// the report is written is compensated so counters and reports stay in step.
func (a *Aggregator) Submit(ctx context.Context, sub Submission) (*Outcome, error) {
	reason, ok := a.policy.Reasons.Lookup(sub.Reason)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReason, sub.Reason)
	}
	description := strings.TrimSpace(sub.Description)
	if a.policy.MaxDescriptionLength > 0 && utf8.RuneCountInString(description) > a.policy.MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}
	if sub.Reporter.UserID == "" {
		return nil, ErrMissingReporterInfo
	}
	contents, ok := a.contents[sub.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, sub.Kind)
	}

	item, err := contents.FindByID(ctx, sub.ContentID)
	if err != nil {
		if errors.Is(err, databases.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	if item.AuthorID == sub.Reporter.UserID {
		return nil, ErrSelfReport
	}
	exists, err := a.reports.Exists(ctx, item.ID, sub.Reporter.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing reports: %w", err)
	}
	if exists {
		return nil, ErrDuplicateReport
	}

	now := a.now()
	credibility := a.policy.Credibility.Weight(sub.Reporter.CreatedAt, sub.Reporter.Verified, now)
	report := models.Report{
		ID:                primitive.NewObjectID(),
		ContentID:         item.ID,
		ContentKind:       sub.Kind,
		ReporterID:        sub.Reporter.UserID,
		ReporterUsername:  sub.Reporter.Username,
		ReporterCreatedAt: sub.Reporter.CreatedAt,
		ReporterVerified:  sub.Reporter.Verified,
		Reason:            reason.Code,
		Description:       description,
		ReasonWeight:      reason.Weight,
		CredibilityWeight: credibility,
		WeightedScore:     reason.Weight * credibility,
		Status:            models.ReportStatusPending,
		CreatedAt:         now,
	}

	if err := a.reports.Insert(ctx, report); err != nil {
		if errors.Is(err, databases.ErrDuplicateKey) {
			return nil, ErrDuplicateReport
		}
		return nil, fmt.Errorf("failed to insert report: %w", err)
	}

	updated, err := contents.AdjustReports(ctx, item.ID, 1, report.WeightedScore)
	if err != nil {
		a.deleteReport(ctx, report)
		if errors.Is(err, databases.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to update report counters: %w", err)
	}

	outcome := &Outcome{Report: report, Moderation: updated.Moderation}
	if err := a.escalate(ctx, contents, updated, now, outcome); err != nil {
		a.rollback(ctx, contents, report)
		return nil, err
	}
	return outcome, nil
}

func (a *Aggregator) escalate(ctx context.Context, contents ContentStore, item *models.ContentItem, now time.Time, outcome *Outcome) error {
	history, err := a.reports.FindActiveSince(ctx, item.ID, now.Add(-a.policy.LongestSpan()))
	if err != nil {
		return fmt.Errorf("failed to load report history: %w", err)
	}

	eval := a.policy.Evaluate(history, now)
	outcome.Evaluation = eval
	if !eval.Severity.Exceeds(item.Moderation.FlagSeverity) {
		return nil
	}

	reason := eval.Reason()
	applied, err := contents.EscalateFlag(ctx, item.ID, eval.Severity, reason, now)
	if err != nil {
		return fmt.Errorf("failed to flag content: %w", err)
	}
	if !applied {
		// a concurrent report already moved the flag to this tier or higher
		if current, err := contents.FindByID(ctx, item.ID); err == nil {
			outcome.Moderation = current.Moderation
		}
		return nil
	}

	flaggedAt := now
	outcome.AutoFlagged = true
	outcome.Moderation.IsFlagged = true
	outcome.Moderation.FlagSeverity = eval.Severity
	outcome.Moderation.FlagReason = reason
	outcome.Moderation.FlaggedAt = &flaggedAt

	zap.S().Infow("content auto-flagged",
		"contentId", item.ID.Hex(),
		"kind", item.Kind,
		"severity", eval.Severity,
		"reports", eval.Count,
		"score", eval.Score,
		"window", eval.Window.Label)

	if a.notifier != nil {
		flagged := *item
		flagged.Moderation = outcome.Moderation
		a.notifier.ContentFlagged(ctx, flagged, eval)
	}
	return nil
}

// compensationContext outlives the request so a cancelled or expired caller
// context cannot leave a half-applied submission behind.
func compensationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), CompensationTimeout)
}

func (a *Aggregator) rollback(ctx context.Context, contents ContentStore, report models.Report) {
	ctx, cancel := compensationContext(ctx)
	defer cancel()
	if _, err := contents.AdjustReports(ctx, report.ContentID, -1, -report.WeightedScore); err != nil {
		zap.S().Errorw("failed to roll back report counters",
			"reportId", report.ID.Hex(),
			"contentId", report.ContentID.Hex(),
			"error", err)
	}
	a.deleteReport(ctx, report)
}

func (a *Aggregator) deleteReport(ctx context.Context, report models.Report) {
	ctx, cancel := compensationContext(ctx)
	defer cancel()
	if err := a.reports.Delete(ctx, report.ID); err != nil {
		zap.S().Errorw("failed to remove report after aborted submission",
			"reportId", report.ID.Hex(),
			"error", err)
	}
}
