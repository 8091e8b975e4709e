package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/trailtales/trailtales-api/api"
	"github.com/trailtales/trailtales-api/config"
	"github.com/trailtales/trailtales-api/databases"
	"github.com/trailtales/trailtales-api/models"
	"github.com/trailtales/trailtales-api/moderation"
)

// ReviewService applies moderator decisions
type ReviewService interface {
	Review(ctx context.Context, d moderation.Decision) (*moderation.Resolution, error)
	Unflag(ctx context.Context, kind string, contentID primitive.ObjectID, moderator models.Identity) (*models.ContentItem, error)
}

// RemovalMailer tells authors their content was taken down
type RemovalMailer interface {
	SendRemovalNotice(toEmail string, item models.ContentItem, note string) error
}

// Moderation serves the moderator queue and decisions
type Moderation struct {
	Reports  databases.ReportDatabase
	Contents map[string]databases.ContentDatabase
	Users    databases.UserDatabase
	Reviewer ReviewService
	Mailer   RemovalMailer
	Metrics  *api.Metrics
	// Dispatch runs author notifications; nil starts a goroutine
	Dispatch func(func())
}

// ReportsHandler lists reports by status, oldest first. An empty status or
// "all" returns every report.
func (m Moderation) ReportsHandler(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	switch status {
	case "all":
		status = ""
	case "", models.ReportStatusPending, models.ReportStatusReviewed,
		models.ReportStatusDismissed, models.ReportStatusActionTaken:
	default:
		config.ErrorStatus("invalid status filter", http.StatusBadRequest, w, errors.New(status))
		return
	}
	page, limit := pageParams(r)

	reports, total, err := m.Reports.FindByStatus(r.Context(), status, page, limit)
	if err != nil {
		config.ErrorStatus("failed to list reports", http.StatusInternalServerError, w, err)
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	writeJSON(w, http.StatusOK, models.ReportListResponse{
		Success:    true,
		Reports:    reports,
		Pagination: models.NewPaginationInfo(page, limit, int(total)),
	})
}

// FlaggedContentHandler lists flagged items of one kind, most severe first
func (m Moderation) FlaggedContentHandler(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	db, ok := m.Contents[kind]
	if !ok {
		config.ErrorStatus("unknown content kind", http.StatusNotFound, w, errors.New(kind))
		return
	}
	page, limit := pageParams(r)

	items, total, err := db.FindFlagged(r.Context(), page, limit)
	if err != nil {
		config.ErrorStatus("failed to list flagged content", http.StatusInternalServerError, w, err)
		return
	}
	if items == nil {
		items = []models.ContentItem{}
	}
	writeJSON(w, http.StatusOK, models.ContentListResponse{
		Success:    true,
		Items:      items,
		Pagination: models.NewPaginationInfo(page, limit, int(total)),
	})
}

// ReviewReportHandler resolves a report and optionally removes the content
func (m Moderation) ReviewReportHandler(w http.ResponseWriter, r *http.Request) {
	moderator, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errors.New("missing identity"))
		return
	}
	reportID, err := objectIDVar(r, "reportId")
	if err != nil {
		config.ErrorStatus("invalid report id", http.StatusBadRequest, w, err)
		return
	}
	var body models.ReviewReportRequest
	if err := decodeAndValidate(r, &body); err != nil {
		config.ErrorStatus("invalid review", http.StatusBadRequest, w, err)
		return
	}

	res, err := m.Reviewer.Review(r.Context(), moderation.Decision{
		ReportID:      reportID,
		Moderator:     *moderator,
		Status:        body.Status,
		Note:          body.Note,
		RemoveContent: body.RemoveContent,
	})
	if err != nil {
		switch {
		case errors.Is(err, moderation.ErrInvalidReviewStatus), errors.Is(err, moderation.ErrRemovalNeedsAction):
			config.ErrorStatus("invalid review", http.StatusBadRequest, w, err)
		case errors.Is(err, moderation.ErrReportNotFound), errors.Is(err, moderation.ErrContentNotFound):
			config.ErrorStatus("not found", http.StatusNotFound, w, err)
		case errors.Is(err, moderation.ErrReportClosed):
			config.ErrorStatus("report has already been resolved", http.StatusConflict, w, err)
		default:
			config.ErrorStatus("failed to review report", http.StatusInternalServerError, w, err)
		}
		return
	}
	m.Metrics.ModerationDecision(body.Status)

	if res.Content != nil {
		m.notifyAuthor(*res.Content, body.Note)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"report":  res.Report,
		"content": res.Content,
	})
}

// UnflagHandler clears an item's flag after a moderator decided it is fine
func (m Moderation) UnflagHandler(w http.ResponseWriter, r *http.Request) {
	moderator, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errors.New("missing identity"))
		return
	}
	contentID, err := objectIDVar(r, "contentId")
	if err != nil {
		config.ErrorStatus("invalid content id", http.StatusBadRequest, w, err)
		return
	}

	item, err := m.Reviewer.Unflag(r.Context(), mux.Vars(r)["kind"], contentID, *moderator)
	if err != nil {
		if errors.Is(err, moderation.ErrUnknownKind) || errors.Is(err, moderation.ErrContentNotFound) {
			config.ErrorStatus("content not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to unflag content", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"moderation": item.Moderation,
	})
}

func (m Moderation) notifyAuthor(item models.ContentItem, note string) {
	if m.Mailer == nil || m.Users == nil || item.AuthorID == "" {
		return
	}
	send := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		author, err := m.Users.FindByID(ctx, item.AuthorID)
		if err != nil {
			zap.S().Warnw("failed to load author for removal notice",
				"authorId", item.AuthorID,
				"error", err)
			return
		}
		if err := m.Mailer.SendRemovalNotice(author.Details.Email, item, note); err != nil {
			zap.S().Warnw("failed to send removal notice",
				"authorId", item.AuthorID,
				"contentId", item.ID.Hex(),
				"error", err)
		}
	}
	if m.Dispatch != nil {
		m.Dispatch(send)
		return
	}
	go send()
}
