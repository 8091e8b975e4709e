package moderation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailtales/trailtales-api/models"
)

var submitNow = time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)

type aggregatorFixture struct {
	item     models.ContentItem
	contents *memContents
	reports  *memReports
	notifier *recordingNotifier
	agg      *Aggregator
}

func newFixture() *aggregatorFixture {
	item := models.ContentItem{
		ID:       primitive.NewObjectID(),
		Kind:     models.KindBlogPost,
		AuthorID: "author",
		Status:   models.ContentStatusPublished,
		Moderation: models.ModerationState{
			FlagSeverity: models.SeverityNone,
		},
	}
	f := &aggregatorFixture{
		item:     item,
		contents: newMemContents(item),
		reports:  &memReports{},
		notifier: &recordingNotifier{},
	}
	f.agg = NewAggregator(DefaultPolicy(), f.reports,
		map[string]ContentStore{models.KindBlogPost: f.contents}, f.notifier)
	f.agg.now = func() time.Time { return submitNow }
	return f
}

// veteran has 2.0 credibility: unverified and older than 90 days
func veteran(id string) models.Identity {
	return models.Identity{UserID: id, Username: id, CreatedAt: submitNow.AddDate(0, 0, -120)}
}

func (f *aggregatorFixture) submission(reporter models.Identity, reason string) Submission {
	return Submission{Kind: models.KindBlogPost, ContentID: f.item.ID, Reporter: reporter, Reason: reason}
}

func TestSubmitStoresWeightedReport(t *testing.T) {
	f := newFixture()
	reporter := models.Identity{UserID: "r1", Username: "ria", CreatedAt: submitNow.AddDate(0, 0, -100), Verified: true}

	out, err := f.agg.Submit(context.Background(), Submission{
		Kind:        models.KindBlogPost,
		ContentID:   f.item.ID,
		Reporter:    reporter,
		Reason:      ReasonHarassment,
		Description: "  rude comments  ",
	})

	require.NoError(t, err)
	assert.Equal(t, 3.0, out.Report.ReasonWeight)
	assert.Equal(t, 3.0, out.Report.CredibilityWeight)
	assert.Equal(t, 9.0, out.Report.WeightedScore)
	assert.Equal(t, "rude comments", out.Report.Description)
	assert.Equal(t, models.ReportStatusPending, out.Report.Status)
	assert.True(t, out.Report.ReporterVerified)
	assert.Equal(t, int64(1), out.Moderation.ReportCount)
	assert.Equal(t, 9.0, out.Moderation.TotalReportScore)
	assert.False(t, out.AutoFlagged)
	assert.Equal(t, 1, f.reports.len())
}

func TestSubmitNewAccountWeight(t *testing.T) {
	f := newFixture()
	reporter := models.Identity{UserID: "r1", CreatedAt: submitNow.AddDate(0, 0, -3)}

	out, err := f.agg.Submit(context.Background(), f.submission(reporter, ReasonSpam))

	require.NoError(t, err)
	assert.Equal(t, 0.5, out.Report.CredibilityWeight)
	assert.Equal(t, 0.5, out.Report.WeightedScore)
}

func TestSubmitEscalatesToCriticalOnFourthReport(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		out, err := f.agg.Submit(ctx, f.submission(veteran(fmt.Sprintf("r%d", i)), ReasonInappropriate))
		require.NoError(t, err)
		assert.Equal(t, 4.0, out.Report.WeightedScore)
		assert.False(t, out.AutoFlagged, "report %d", i)
		assert.False(t, out.Moderation.IsFlagged)
	}

	out, err := f.agg.Submit(ctx, f.submission(veteran("r4"), ReasonInappropriate))
	require.NoError(t, err)
	assert.True(t, out.AutoFlagged)
	assert.True(t, out.Moderation.IsFlagged)
	assert.Equal(t, models.SeverityCritical, out.Moderation.FlagSeverity)
	assert.Equal(t, "4 reports with weighted score 16.0 within 1 hour", out.Moderation.FlagReason)
	assert.Equal(t, int64(4), out.Moderation.ReportCount)
	require.NotNil(t, out.Moderation.FlaggedAt)
	assert.Equal(t, submitNow, *out.Moderation.FlaggedAt)

	stored := f.contents.get(f.item.ID)
	assert.Equal(t, models.SeverityCritical, stored.Moderation.FlagSeverity)
	require.Len(t, f.notifier.items, 1)
	assert.Equal(t, models.SeverityCritical, f.notifier.evals[0].Severity)
}

func TestSubmitNeverDowngrades(t *testing.T) {
	f := newFixture()
	f.contents.items[f.item.ID].Moderation.IsFlagged = true
	f.contents.items[f.item.ID].Moderation.FlagSeverity = models.SeverityCritical
	f.contents.items[f.item.ID].Moderation.FlagReason = "earlier"

	// 24h worth of pressure would only mean high
	for i := 0; i < 2; i++ {
		f.reports.reports = append(f.reports.reports, models.Report{
			ID:            primitive.NewObjectID(),
			ContentID:     f.item.ID,
			ReporterID:    fmt.Sprintf("old%d", i),
			Status:        models.ReportStatusPending,
			WeightedScore: 14,
			CreatedAt:     submitNow.Add(-3 * time.Hour),
		})
	}

	out, err := f.agg.Submit(context.Background(), f.submission(veteran("r1"), ReasonSpam))

	require.NoError(t, err)
	assert.Equal(t, models.SeverityHigh, out.Evaluation.Severity)
	assert.False(t, out.AutoFlagged)
	assert.Equal(t, models.SeverityCritical, out.Moderation.FlagSeverity)
	assert.Equal(t, "earlier", f.contents.get(f.item.ID).Moderation.FlagReason)
	assert.Empty(t, f.notifier.items)
}

func TestSubmitSameSeverityIsNoop(t *testing.T) {
	f := newFixture()
	f.contents.items[f.item.ID].Moderation.FlagSeverity = models.SeverityCritical
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		out, err := f.agg.Submit(ctx, f.submission(veteran(fmt.Sprintf("r%d", i)), ReasonInappropriate))
		require.NoError(t, err)
		assert.False(t, out.AutoFlagged)
	}
	assert.Empty(t, f.notifier.items)
}

func TestSubmitRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*aggregatorFixture, *Submission)
		want   error
	}{
		{"invalid reason", func(_ *aggregatorFixture, s *Submission) { s.Reason = "boring" }, ErrInvalidReason},
		{"description too long", func(_ *aggregatorFixture, s *Submission) { s.Description = strings.Repeat("x", 501) }, ErrDescriptionTooLong},
		{"unknown kind", func(_ *aggregatorFixture, s *Submission) { s.Kind = "tweets" }, ErrUnknownKind},
		{"missing content", func(_ *aggregatorFixture, s *Submission) { s.ContentID = primitive.NewObjectID() }, ErrContentNotFound},
		{"self report", func(_ *aggregatorFixture, s *Submission) { s.Reporter.UserID = "author" }, ErrSelfReport},
		{"anonymous", func(_ *aggregatorFixture, s *Submission) { s.Reporter = models.Identity{} }, ErrMissingReporterInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			sub := f.submission(veteran("r1"), ReasonSpam)
			tt.mutate(f, &sub)

			out, err := f.agg.Submit(context.Background(), sub)

			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, out)
			assert.Equal(t, 0, f.reports.len())
			assert.Equal(t, int64(0), f.contents.get(f.item.ID).Moderation.ReportCount)
		})
	}
}

func TestSubmitDescriptionAtLimit(t *testing.T) {
	f := newFixture()
	sub := f.submission(veteran("r1"), ReasonSpam)
	sub.Description = strings.Repeat("é", 500)

	_, err := f.agg.Submit(context.Background(), sub)
	assert.NoError(t, err)
}

func TestSubmitDuplicateLeavesCountersUntouched(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.agg.Submit(ctx, f.submission(veteran("r1"), ReasonSpam))
	require.NoError(t, err)
	before := f.contents.get(f.item.ID).Moderation

	_, err = f.agg.Submit(ctx, f.submission(veteran("r1"), ReasonScam))

	assert.ErrorIs(t, err, ErrDuplicateReport)
	assert.Equal(t, before, f.contents.get(f.item.ID).Moderation)
	assert.Equal(t, 1, f.reports.len())
}

func TestSubmitDuplicateInsertRace(t *testing.T) {
	f := newFixture()
	f.reports.skipExists = true
	ctx := context.Background()

	_, err := f.agg.Submit(ctx, f.submission(veteran("r1"), ReasonSpam))
	require.NoError(t, err)

	_, err = f.agg.Submit(ctx, f.submission(veteran("r1"), ReasonSpam))

	assert.ErrorIs(t, err, ErrDuplicateReport)
	assert.Equal(t, int64(1), f.contents.get(f.item.ID).Moderation.ReportCount)
}

func TestSubmitConcurrentReportsFromOneUser(t *testing.T) {
	f := newFixture()
	f.reports.skipExists = true

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.agg.Submit(context.Background(), f.submission(veteran("r1"), ReasonSpam))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateReport)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, int64(1), f.contents.get(f.item.ID).Moderation.ReportCount)
	assert.Equal(t, 1, f.reports.len())
}

func TestSubmitRemovesReportWhenIncrementFails(t *testing.T) {
	f := newFixture()
	f.contents.adjustErr = errBoom

	_, err := f.agg.Submit(context.Background(), f.submission(veteran("r1"), ReasonSpam))

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, f.reports.len())
	assert.Equal(t, int64(0), f.contents.get(f.item.ID).Moderation.ReportCount)
}

func TestSubmitRollsBackWhenEscalationFails(t *testing.T) {
	f := newFixture()
	f.reports.historyErr = errBoom

	_, err := f.agg.Submit(context.Background(), f.submission(veteran("r1"), ReasonSpam))

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, f.reports.len())
	m := f.contents.get(f.item.ID).Moderation
	assert.Equal(t, int64(0), m.ReportCount)
	assert.InDelta(t, 0.0, m.TotalReportScore, 1e-9)
}

func TestSubmitRollsBackWhenRequestIsCancelled(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.contents.afterAdjust = cancel

	_, err := f.agg.Submit(ctx, f.submission(veteran("r1"), ReasonInappropriate))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.reports.len())
	m := f.contents.get(f.item.ID).Moderation
	assert.Equal(t, int64(0), m.ReportCount)
	assert.InDelta(t, 0.0, m.TotalReportScore, 1e-9)

	// the reporter can try again once the partial write is gone
	_, err = f.agg.Submit(context.Background(), f.submission(veteran("r1"), ReasonInappropriate))
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.contents.get(f.item.ID).Moderation.ReportCount)
}

func TestSubmitRollsBackWhenFlagUpdateFails(t *testing.T) {
	f := newFixture()
	f.contents.flagErr = errBoom
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := f.agg.Submit(ctx, f.submission(veteran(fmt.Sprintf("r%d", i)), ReasonInappropriate))
		require.NoError(t, err)
	}

	_, err := f.agg.Submit(ctx, f.submission(veteran("r4"), ReasonInappropriate))

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 3, f.reports.len())
	assert.Equal(t, int64(3), f.contents.get(f.item.ID).Moderation.ReportCount)
}

func TestSubmitWithoutNotifier(t *testing.T) {
	f := newFixture()
	f.agg.notifier = nil
	ctx := context.Background()

	var out *Outcome
	var err error
	for i := 1; i <= 4; i++ {
		out, err = f.agg.Submit(ctx, f.submission(veteran(fmt.Sprintf("r%d", i)), ReasonInappropriate))
		require.NoError(t, err)
	}
	assert.True(t, out.AutoFlagged)
}
