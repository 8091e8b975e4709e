package moderation

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailtales/trailtales-api/databases"
	"github.com/trailtales/trailtales-api/models"
)

// memContents mimics the mongo content collection: counters change under a
// lock like $inc, and escalation is a compare-and-set on severity.
type memContents struct {
	mu        sync.Mutex
	items     map[primitive.ObjectID]*models.ContentItem
	adjustErr error
	flagErr   error
	adjusts   int
	// afterAdjust runs once a positive increment has been applied
	afterAdjust func()
}

func newMemContents(items ...models.ContentItem) *memContents {
	m := &memContents{items: map[primitive.ObjectID]*models.ContentItem{}}
	for i := range items {
		item := items[i]
		m.items[item.ID] = &item
	}
	return m
}

func (m *memContents) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, databases.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *memContents) AdjustReports(ctx context.Context, id primitive.ObjectID, count int64, score float64) (*models.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adjusts++
	if m.adjustErr != nil && count > 0 {
		return nil, m.adjustErr
	}
	item, ok := m.items[id]
	if !ok {
		return nil, databases.ErrNotFound
	}
	item.Moderation.ReportCount += count
	item.Moderation.TotalReportScore += score
	cp := *item
	if m.afterAdjust != nil && count > 0 {
		m.afterAdjust()
	}
	return &cp, nil
}

func (m *memContents) EscalateFlag(ctx context.Context, id primitive.ObjectID, severity models.Severity, reason string, at time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.flagErr != nil {
		return false, m.flagErr
	}
	item, ok := m.items[id]
	if !ok || !severity.Exceeds(item.Moderation.FlagSeverity) {
		return false, nil
	}
	item.Moderation.IsFlagged = true
	item.Moderation.FlagSeverity = severity
	item.Moderation.FlagReason = reason
	item.Moderation.FlaggedAt = &at
	return true, nil
}

func (m *memContents) MarkRemoved(_ context.Context, id primitive.ObjectID) (*models.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, databases.ErrNotFound
	}
	item.Status = models.ContentStatusRemoved
	cp := *item
	return &cp, nil
}

func (m *memContents) ClearFlag(_ context.Context, id primitive.ObjectID) (*models.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, databases.ErrNotFound
	}
	item.Moderation.IsFlagged = false
	item.Moderation.FlagSeverity = models.SeverityNone
	item.Moderation.FlagReason = ""
	item.Moderation.FlaggedAt = nil
	cp := *item
	return &cp, nil
}

func (m *memContents) get(id primitive.ObjectID) models.ContentItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.items[id]
}

// memReports enforces the (content, reporter) uniqueness the unique index gives us
type memReports struct {
	mu      sync.Mutex
	reports []models.Report
	// skipExists hides existing reports from Exists so the insert race is reachable
	skipExists bool
	historyErr error
}

func (m *memReports) Exists(ctx context.Context, contentID primitive.ObjectID, reporterID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.skipExists {
		return false, nil
	}
	for _, r := range m.reports {
		if r.ContentID == contentID && r.ReporterID == reporterID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memReports) Insert(ctx context.Context, report models.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.ContentID == report.ContentID && r.ReporterID == report.ReporterID {
			return databases.ErrDuplicateKey
		}
	}
	m.reports = append(m.reports, report)
	return nil
}

func (m *memReports) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.reports {
		if r.ID == id {
			m.reports = append(m.reports[:i], m.reports[i+1:]...)
			return nil
		}
	}
	return databases.ErrNotFound
}

func (m *memReports) FindActiveSince(ctx context.Context, contentID primitive.ObjectID, since time.Time) ([]models.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	var out []models.Report
	for _, r := range m.reports {
		if r.ContentID == contentID && isActive(r.Status) && !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReports) FindByID(_ context.Context, id primitive.ObjectID) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, databases.ErrNotFound
}

func (m *memReports) UpdateReview(_ context.Context, id primitive.ObjectID, status, reviewer, note string, at time.Time) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reports {
		r := &m.reports[i]
		if r.ID != id || !isActive(r.Status) {
			continue
		}
		r.Status = status
		r.ReviewedBy = reviewer
		r.ReviewNote = note
		r.ReviewedAt = &at
		cp := *r
		return &cp, nil
	}
	return nil, databases.ErrNotFound
}

func (m *memReports) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reports)
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []models.ContentItem
	evals []Evaluation
}

func (n *recordingNotifier) ContentFlagged(_ context.Context, item models.ContentItem, eval Evaluation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, item)
	n.evals = append(n.evals, eval)
}

type recordingImages struct {
	destroyed []string
	err       error
}

func (r *recordingImages) Destroy(_ context.Context, publicID string) error {
	r.destroyed = append(r.destroyed, publicID)
	return r.err
}

var errBoom = errors.New("boom")
