package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/trailtales/trailtales-api/databases"
	"github.com/trailtales/trailtales-api/models"
)

// Review errors
var (
	ErrReportNotFound      = errors.New("report not found")
	ErrReportClosed        = errors.New("report has already been resolved")
	ErrInvalidReviewStatus = errors.New("invalid review status")
	ErrRemovalNeedsAction  = errors.New("content removal requires status action_taken")
)

// ReviewStore is the report collection as seen by moderators
type ReviewStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error)
	UpdateReview(ctx context.Context, id primitive.ObjectID, status, reviewer, note string, at time.Time) (*models.Report, error)
}

// ContentModerator applies moderator decisions to a content collection
type ContentModerator interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ContentItem, error)
	MarkRemoved(ctx context.Context, id primitive.ObjectID) (*models.ContentItem, error)
	ClearFlag(ctx context.Context, id primitive.ObjectID) (*models.ContentItem, error)
}

// ImageRemover deletes a hosted image by its public id
type ImageRemover interface {
	Destroy(ctx context.Context, publicID string) error
}

// Decision is a moderator's resolution of one report
type Decision struct {
	ReportID      primitive.ObjectID
	Moderator     models.Identity
	Status        string
	Note          string
	RemoveContent bool
}

// Resolution is what a decision changed
type Resolution struct {
	Report  models.Report
	Content *models.ContentItem
}

// Reviewer resolves reports and clears flags on behalf of moderators
type Reviewer struct {
	reports  ReviewStore
	contents map[string]ContentModerator
	images   ImageRemover
	now      func() time.Time
}

// NewReviewer builds a reviewer; images may be nil when no CDN is configured
func NewReviewer(reports ReviewStore, contents map[string]ContentModerator, images ImageRemover) *Reviewer {
	return &Reviewer{reports: reports, contents: contents, images: images, now: time.Now}
}

// Review moves a pending or reviewed report to its final status. With
// RemoveContent the reported item is taken down and its images destroyed.
func (r *Reviewer) Review(ctx context.Context, d Decision) (*Resolution, error) {
	switch d.Status {
	case models.ReportStatusReviewed, models.ReportStatusDismissed, models.ReportStatusActionTaken:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidReviewStatus, d.Status)
	}
	if d.RemoveContent && d.Status != models.ReportStatusActionTaken {
		return nil, ErrRemovalNeedsAction
	}

	report, err := r.reports.FindByID(ctx, d.ReportID)
	if err != nil {
		if errors.Is(err, databases.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	if !isActive(report.Status) {
		return nil, ErrReportClosed
	}

	contents, ok := r.contents[report.ContentKind]
	if d.RemoveContent && !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, report.ContentKind)
	}

	updated, err := r.reports.UpdateReview(ctx, report.ID, d.Status, d.Moderator.UserID, d.Note, r.now())
	if err != nil {
		if errors.Is(err, databases.ErrNotFound) {
			return nil, ErrReportClosed
		}
		return nil, fmt.Errorf("failed to update report: %w", err)
	}

	res := &Resolution{Report: *updated}
	if !d.RemoveContent {
		return res, nil
	}

	item, err := contents.MarkRemoved(ctx, report.ContentID)
	if err != nil {
		if errors.Is(err, databases.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to remove content: %w", err)
	}
	res.Content = item
	r.destroyImages(ctx, *item)

	zap.S().Infow("content removed by moderator",
		"contentId", item.ID.Hex(),
		"kind", item.Kind,
		"reportId", report.ID.Hex(),
		"moderator", d.Moderator.UserID)
	return res, nil
}

// Unflag resets an item's flag fields. The aggregator itself never lowers a flag.
func (r *Reviewer) Unflag(ctx context.Context, kind string, contentID primitive.ObjectID, moderator models.Identity) (*models.ContentItem, error) {
	contents, ok := r.contents[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	item, err := contents.ClearFlag(ctx, contentID)
	if err != nil {
		if errors.Is(err, databases.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to clear flag: %w", err)
	}
	zap.S().Infow("content unflagged",
		"contentId", contentID.Hex(),
		"kind", kind,
		"moderator", moderator.UserID)
	return item, nil
}

func (r *Reviewer) destroyImages(ctx context.Context, item models.ContentItem) {
	if r.images == nil {
		return
	}
	for _, img := range item.Images {
		if img.PublicID == "" {
			continue
		}
		if err := r.images.Destroy(ctx, img.PublicID); err != nil {
			zap.S().Warnw("failed to destroy image",
				"contentId", item.ID.Hex(),
				"publicId", img.PublicID,
				"error", err)
		}
	}
}
