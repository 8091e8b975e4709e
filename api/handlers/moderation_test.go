package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailtales/trailtales-api/api/handlers"
	"github.com/trailtales/trailtales-api/databases"
	"github.com/trailtales/trailtales-api/databases/mocks"
	"github.com/trailtales/trailtales-api/models"
	"github.com/trailtales/trailtales-api/moderation"
)

type fakeReviewer struct {
	decision moderation.Decision
	res      *moderation.Resolution
	item     *models.ContentItem
	err      error
}

func (f *fakeReviewer) Review(_ context.Context, d moderation.Decision) (*moderation.Resolution, error) {
	f.decision = d
	return f.res, f.err
}

func (f *fakeReviewer) Unflag(_ context.Context, kind string, id primitive.ObjectID, _ models.Identity) (*models.ContentItem, error) {
	return f.item, f.err
}

type removalNotice struct {
	to   string
	item models.ContentItem
	note string
}

type recordingRemovalMailer struct {
	sent []removalNotice
}

func (m *recordingRemovalMailer) SendRemovalNotice(to string, item models.ContentItem, note string) error {
	m.sent = append(m.sent, removalNotice{to: to, item: item, note: note})
	return nil
}

var moderator = &models.Identity{UserID: "mod1", Roles: []string{models.RoleModerator}}

func syncDispatch(f func()) { f() }

func TestModeration_ReportsHandler(t *testing.T) {
	reports := &mocks.ReportDatabase{}
	pending := []models.Report{{ID: primitive.NewObjectID(), Status: models.ReportStatusPending}}
	reports.On("FindByStatus", mock.Anything, models.ReportStatusPending, 1, 20).Return(pending, int64(1), nil)
	reports.On("FindByStatus", mock.Anything, "", 2, 5).Return(nil, int64(6), nil)
	h := handlers.Moderation{Reports: reports}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.ReportsHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/moderation/reports?status=pending", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var body models.ReportListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body.Reports, 1)

	rr = httptest.NewRecorder()
	http.HandlerFunc(h.ReportsHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/moderation/reports?status=all&page=2&limit=5", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"reports":[]`)
	assert.Contains(t, rr.Body.String(), `"totalPages":2`)

	rr = httptest.NewRecorder()
	http.HandlerFunc(h.ReportsHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/moderation/reports?status=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestModeration_FlaggedContentHandler(t *testing.T) {
	posts := &mocks.ContentDatabase{}
	posts.On("FindFlagged", mock.Anything, 1, 20).Return([]models.ContentItem{{Title: "spammy"}}, int64(1), nil)
	h := handlers.Moderation{Contents: map[string]databases.ContentDatabase{models.KindBlogPost: posts}}

	req := mux.SetURLVars(httptest.NewRequest("GET", "/api/v1/moderation/flagged/blogposts", nil), map[string]string{"kind": models.KindBlogPost})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.FlaggedContentHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"title":"spammy"`)

	req = mux.SetURLVars(httptest.NewRequest("GET", "/api/v1/moderation/flagged/reviews", nil), map[string]string{"kind": models.KindReview})
	rr = httptest.NewRecorder()
	http.HandlerFunc(h.FlaggedContentHandler).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func reviewRequest(reportID, body string) *http.Request {
	req := httptest.NewRequest("PATCH", "/api/v1/moderation/reports/"+reportID, strings.NewReader(body))
	return mux.SetURLVars(withIdentity(req, moderator), map[string]string{"reportId": reportID})
}

func TestModeration_ReviewReportHandlerRemovesAndNotifies(t *testing.T) {
	reportID := primitive.NewObjectID()
	authorID := primitive.NewObjectID()
	removed := &models.ContentItem{ID: primitive.NewObjectID(), AuthorID: authorID.Hex(), Title: "Bad post", Status: models.ContentStatusRemoved}
	reviewer := &fakeReviewer{res: &moderation.Resolution{
		Report:  models.Report{ID: reportID, Status: models.ReportStatusActionTaken},
		Content: removed,
	}}
	users := &mocks.UserDatabase{}
	users.On("FindByID", mock.Anything, authorID.Hex()).Return(&models.User{
		ID: authorID, Details: models.UserDetails{Email: "author@trail.io"},
	}, nil)
	mailer := &recordingRemovalMailer{}
	h := handlers.Moderation{Reviewer: reviewer, Users: users, Mailer: mailer, Dispatch: syncDispatch}

	rr := httptest.NewRecorder()
	body := `{"status":"action_taken","note":"spam ring","removeContent":true}`
	http.HandlerFunc(h.ReviewReportHandler).ServeHTTP(rr, reviewRequest(reportID.Hex(), body))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, moderation.Decision{
		ReportID:      reportID,
		Moderator:     *moderator,
		Status:        models.ReportStatusActionTaken,
		Note:          "spam ring",
		RemoveContent: true,
	}, reviewer.decision)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "author@trail.io", mailer.sent[0].to)
	assert.Equal(t, "spam ring", mailer.sent[0].note)
}

func TestModeration_ReviewReportHandlerDismissDoesNotNotify(t *testing.T) {
	reportID := primitive.NewObjectID()
	reviewer := &fakeReviewer{res: &moderation.Resolution{Report: models.Report{ID: reportID, Status: models.ReportStatusDismissed}}}
	mailer := &recordingRemovalMailer{}
	h := handlers.Moderation{Reviewer: reviewer, Users: &mocks.UserDatabase{}, Mailer: mailer, Dispatch: syncDispatch}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.ReviewReportHandler).ServeHTTP(rr, reviewRequest(reportID.Hex(), `{"status":"dismissed"}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, mailer.sent)
}

func TestModeration_ReviewReportHandlerErrors(t *testing.T) {
	valid := primitive.NewObjectID().Hex()
	tests := []struct {
		name string
		id   string
		body string
		err  error
		want int
	}{
		{"bad id", "zzz", `{"status":"dismissed"}`, nil, http.StatusBadRequest},
		{"unknown status", valid, `{"status":"deleted"}`, nil, http.StatusBadRequest},
		{"removal without action", valid, `{"status":"reviewed","removeContent":true}`, moderation.ErrRemovalNeedsAction, http.StatusBadRequest},
		{"missing report", valid, `{"status":"dismissed"}`, moderation.ErrReportNotFound, http.StatusNotFound},
		{"already closed", valid, `{"status":"dismissed"}`, moderation.ErrReportClosed, http.StatusConflict},
		{"store failure", valid, `{"status":"dismissed"}`, errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.Moderation{Reviewer: &fakeReviewer{err: tt.err}}
			rr := httptest.NewRecorder()
			http.HandlerFunc(h.ReviewReportHandler).ServeHTTP(rr, reviewRequest(tt.id, tt.body))

			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestModeration_UnflagHandler(t *testing.T) {
	id := primitive.NewObjectID()
	unflag := func(reviewer *fakeReviewer) *httptest.ResponseRecorder {
		h := handlers.Moderation{Reviewer: reviewer}
		req := httptest.NewRequest("POST", "/api/v1/moderation/reviews/"+id.Hex()+"/unflag", nil)
		req = mux.SetURLVars(withIdentity(req, moderator), map[string]string{"kind": models.KindReview, "contentId": id.Hex()})
		rr := httptest.NewRecorder()
		http.HandlerFunc(h.UnflagHandler).ServeHTTP(rr, req)
		return rr
	}

	rr := unflag(&fakeReviewer{item: &models.ContentItem{ID: id, Moderation: models.ModerationState{FlagSeverity: models.SeverityNone}}})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"flagSeverity":"none"`)

	rr = unflag(&fakeReviewer{err: moderation.ErrContentNotFound})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
