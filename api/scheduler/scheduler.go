package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/trailtales/trailtales-api/databases"
	"github.com/trailtales/trailtales-api/models"
	templates "github.com/trailtales/trailtales-api/templates/html"
)

const (
	digestLock    = "moderation_digest_job"
	digestLockTTL = 10 * time.Minute
	// DefaultDigestPeriod is used for the first digest after start-up
	DefaultDigestPeriod = time.Hour
)

// DigestMailer delivers the moderation digest
type DigestMailer interface {
	SendDigest(ctx context.Context, recipients []string, d templates.DigestData) error
}

// Scheduler runs the periodic moderation digest
type Scheduler struct {
	cron     *cron.Cron
	schedule string

	Reports  databases.ReportDatabase
	Contents map[string]databases.ContentDatabase
	Users    databases.UserDatabase
	LockDB   databases.LockDatabase
	Mailer   DigestMailer
	// Fallback receives the digest when no account holds the moderator role
	Fallback string

	instanceID string
	now        func() time.Time

	// mu serializes digests on this instance and guards lastRun
	mu      sync.Mutex
	lastRun time.Time
}

// NewScheduler creates a new scheduler instance. lockDB may be nil for a
// single-instance deployment.
func NewScheduler(
	schedule string,
	reports databases.ReportDatabase,
	contents map[string]databases.ContentDatabase,
	users databases.UserDatabase,
	lockDB databases.LockDatabase,
	mailer DigestMailer,
	fallback string,
) *Scheduler {
	// Heroku style dyno names identify the pod holding the lock
	instanceID := os.Getenv("DYNO")
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		schedule:   schedule,
		Reports:    reports,
		Contents:   contents,
		Users:      users,
		LockDB:     lockDB,
		Mailer:     mailer,
		Fallback:   fallback,
		instanceID: instanceID,
		now:        time.Now,
	}
}

// Start registers the digest job and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runDigest); err != nil {
		return fmt.Errorf("failed to register digest job %q: %w", s.schedule, err)
	}
	s.cron.Start()
	zap.S().Infow("moderation scheduler started", "schedule", s.schedule)
	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("moderation scheduler stopped")
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.SendDigest(ctx); err != nil {
		zap.S().Errorw("moderation digest failed", "error", err)
	}
}

// SendDigest counts pending reports and items flagged since the previous run
// and mails the summary to every moderator. Nothing is sent when the queue is
// empty and nothing new was flagged.
func (s *Scheduler) SendDigest(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.LockDB != nil {
		acquired, err := s.LockDB.TryAcquireLock(ctx, digestLock, s.instanceID, digestLockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire digest lock: %w", err)
		}
		if !acquired {
			zap.S().Debug("digest job already running on another instance, skipping")
			return nil
		}
		defer s.LockDB.ReleaseLock(ctx, digestLock, s.instanceID)
	}

	now := s.now().UTC()
	since := s.lastRun
	if since.IsZero() {
		since = now.Add(-DefaultDigestPeriod)
	}

	pending, err := s.Reports.CountByStatus(ctx, models.ReportStatusPending)
	if err != nil {
		return fmt.Errorf("failed to count pending reports: %w", err)
	}

	flagged := make(map[string]int64, len(s.Contents))
	var totalFlagged int64
	for kind, contents := range s.Contents {
		n, err := contents.CountFlaggedSince(ctx, since)
		if err != nil {
			return fmt.Errorf("failed to count flagged %s: %w", kind, err)
		}
		flagged[kind] = n
		totalFlagged += n
	}
	s.lastRun = now

	if pending == 0 && totalFlagged == 0 {
		zap.S().Debug("moderation digest skipped, nothing to report")
		return nil
	}

	recipients, err := s.recipients(ctx)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		zap.S().Warnw("moderation digest has no recipients",
			"pendingReports", pending,
			"flagged", totalFlagged)
		return nil
	}

	err = s.Mailer.SendDigest(ctx, recipients, templates.DigestData{
		Period:         fmt.Sprintf("%s to %s UTC", since.Format("Jan 2 15:04"), now.Format("Jan 2 15:04")),
		PendingReports: pending,
		NewlyFlagged:   flagged,
	})
	if err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}

	zap.S().Infow("moderation digest sent",
		"instance", s.instanceID,
		"recipients", len(recipients),
		"pendingReports", pending,
		"flagged", totalFlagged)
	return nil
}

func (s *Scheduler) recipients(ctx context.Context) ([]string, error) {
	var emails []string
	if s.Users != nil {
		found, err := s.Users.FindEmailsByRole(ctx, models.RoleModerator)
		if err != nil && !errors.Is(err, databases.ErrNotFound) {
			return nil, fmt.Errorf("failed to list moderators: %w", err)
		}
		emails = found
	}
	if len(emails) == 0 && s.Fallback != "" {
		emails = []string{s.Fallback}
	}
	sort.Strings(emails)
	return emails, nil
}
