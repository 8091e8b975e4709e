package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/trailtales/trailtales-api/api"
	"github.com/trailtales/trailtales-api/config"
	"github.com/trailtales/trailtales-api/models"
	"github.com/trailtales/trailtales-api/moderation"
)

// ReportSubmitter records a report and runs auto-flag aggregation
type ReportSubmitter interface {
	Submit(ctx context.Context, sub moderation.Submission) (*moderation.Outcome, error)
}

// Report handles report submission
type Report struct {
	Aggregator ReportSubmitter
	Reasons    moderation.ReasonCatalog
	Metrics    *api.Metrics
}

// CreateReportHandler files a report against a content item
func (re Report) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, moderation.ErrMissingReporterInfo)
		return
	}
	contentID, err := objectIDVar(r, "contentId")
	if err != nil {
		re.Metrics.ReportRejected("bad_request")
		config.ErrorStatus("invalid content id", http.StatusBadRequest, w, err)
		return
	}

	var body models.CreateReportRequest
	if err := decodeAndValidate(r, &body); err != nil {
		re.Metrics.ReportRejected("bad_request")
		config.ErrorStatus("invalid report", http.StatusBadRequest, w, err)
		return
	}

	outcome, err := re.Aggregator.Submit(r.Context(), moderation.Submission{
		Kind:        mux.Vars(r)["kind"],
		ContentID:   contentID,
		Reporter:    *identity,
		Reason:      body.Reason,
		Description: body.Description,
	})
	if err != nil {
		status, message, cause := classifySubmitError(err)
		re.Metrics.ReportRejected(cause)
		config.ErrorStatus(message, status, w, err)
		return
	}
	re.Metrics.ReportSubmitted(outcome.Report.Reason)

	writeJSON(w, http.StatusCreated, models.ReportSubmissionResponse{
		Success:     true,
		Report:      outcome.Report,
		Moderation:  outcome.Moderation,
		AutoFlagged: outcome.AutoFlagged,
	})
}

// ReasonsHandler lists the report reason codes and their weights
func (re Report) ReasonsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"reasons": re.Reasons.List(),
	})
}

func classifySubmitError(err error) (status int, message, cause string) {
	switch {
	case errors.Is(err, moderation.ErrInvalidReason):
		return http.StatusBadRequest, "invalid report reason", "invalid_reason"
	case errors.Is(err, moderation.ErrDescriptionTooLong):
		return http.StatusBadRequest, "report description is too long", "description_too_long"
	case errors.Is(err, moderation.ErrMissingReporterInfo):
		return http.StatusBadRequest, "reporter identity is required", "bad_request"
	case errors.Is(err, moderation.ErrUnknownKind), errors.Is(err, moderation.ErrContentNotFound):
		return http.StatusNotFound, "content not found", "not_found"
	case errors.Is(err, moderation.ErrSelfReport):
		return http.StatusForbidden, "you cannot report your own content", "self_report"
	case errors.Is(err, moderation.ErrDuplicateReport):
		return http.StatusConflict, "you have already reported this content", "duplicate"
	}
	return http.StatusInternalServerError, "failed to submit report", "error"
}
