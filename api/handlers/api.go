package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/trailtales/trailtales-api/api"
	"github.com/trailtales/trailtales-api/api/scheduler"
	"github.com/trailtales/trailtales-api/config"
	"github.com/trailtales/trailtales-api/databases"
	"github.com/trailtales/trailtales-api/itinerary"
	"github.com/trailtales/trailtales-api/logging"
	"github.com/trailtales/trailtales-api/media"
	"github.com/trailtales/trailtales-api/models"
	"github.com/trailtales/trailtales-api/moderation"
	"github.com/trailtales/trailtales-api/notify"
	"github.com/trailtales/trailtales-api/ranking"
)

// kindPattern restricts {kind} route variables to the content collections
const kindPattern = "blogposts|mappoints|reviews"

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Metrics   *api.Metrics
	Registry  *prometheus.Registry
	Hub       *ModerationHub
	Scheduler *scheduler.Scheduler
	client    databases.ClientHelper
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	a.initializeMetrics()
	if a.Hub == nil {
		a.Hub = NewModerationHub(a.Config.BaseURL)
	}

	users := databases.NewUserDatabase(a.dbHelper)
	reports := databases.NewReportDatabase(a.dbHelper)
	contents := databases.NewContentDatabases(a.dbHelper)

	// setup go-guardian for middleware
	m := api.NewMiddleware(users, a.Config.JWTSecret)

	mailer := notify.NewMailer(a.Config.SendGridAPIKey, a.Config.MailFrom, a.Config.ModerationAlertEmail, a.Config.BaseURL)
	notifier := notify.NewFlagNotifier(mailer, a.Hub, a.Metrics)

	policy := moderationPolicy(a.Config.Moderation)
	aggregator := moderation.NewAggregator(policy, reports, contentStores(contents), notifier)

	mediaHandler := Media{}
	var images moderation.ImageRemover
	cdn, err := media.New(a.Config.Cloudinary)
	switch {
	case err == nil:
		images = cdn
		mediaHandler.Signer = cdn
	case errors.Is(err, media.ErrNotConfigured):
		zap.S().Info("cloudinary not configured, image uploads and removals are disabled")
	default:
		zap.S().Warnw("failed to set up cloudinary", "error", err)
	}
	reviewer := moderation.NewReviewer(reports, contentModerators(contents), images)

	itineraries := itinerary.NewClient(itinerary.Settings{
		BaseURL:   a.Config.ItineraryURL,
		Timeout:   a.Config.ItineraryTimeout,
		OnFailure: a.Metrics.ItineraryFailure,
	}, logging.New("itinerary"))
	feedService := ranking.NewService(candidateSources(contents), itineraries, a.Config.Ranking, logging.New("ranking"))

	a.Scheduler = scheduler.NewScheduler(a.Config.Moderation.DigestSchedule, reports, contents, users,
		databases.NewLockDatabase(a.dbHelper), mailer, a.Config.ModerationAlertEmail)

	feed := Feed{Ranker: feedService, Metrics: a.Metrics}
	report := Report{Aggregator: aggregator, Reasons: policy.Reasons, Metrics: a.Metrics}
	content := Content{DBs: contents}
	mod := Moderation{
		Reports:  reports,
		Contents: contents,
		Users:    users,
		Reviewer: reviewer,
		Mailer:   mailer,
		Metrics:  a.Metrics,
	}
	moderator := func(h http.HandlerFunc) http.Handler {
		return m.RequireRole(models.RoleModerator, h)
	}

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware(a.Metrics))

	// healthchex
	r.HandleFunc("/health", api.HealthCheckHandler).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})).Methods("GET")
	r.Handle("/ws/moderation", moderator(a.Hub.HandleModerationWebSocket)).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(a.Config.RequestTimeout))

	apiCreate.Handle("/auth/logout", m.Middleware(http.HandlerFunc(m.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/feed/{kind:"+kindPattern+"}", m.OptionalMiddleware(http.HandlerFunc(feed.FeedHandler))).Methods("GET")

	apiCreate.HandleFunc("/reports/reasons", report.ReasonsHandler).Methods("GET")
	apiCreate.Handle("/{kind:"+kindPattern+"}/{contentId}/reports", m.Middleware(http.HandlerFunc(report.CreateReportHandler))).Methods("POST")
	apiCreate.Handle("/{kind:"+kindPattern+"}/{contentId}/hide", m.Middleware(http.HandlerFunc(content.HideContentHandler))).Methods("POST")

	apiCreate.Handle("/moderation/reports", moderator(mod.ReportsHandler)).Methods("GET")
	apiCreate.Handle("/moderation/reports/{reportId}", moderator(mod.ReviewReportHandler)).Methods("PATCH")
	apiCreate.Handle("/moderation/flagged/{kind:"+kindPattern+"}", moderator(mod.FlaggedContentHandler)).Methods("GET")
	apiCreate.Handle("/moderation/{kind:"+kindPattern+"}/{contentId}/unflag", moderator(mod.UnflagHandler)).Methods("POST")

	apiCreate.Handle("/media/signature", m.Middleware(http.HandlerFunc(mediaHandler.SignatureHandler))).Methods("POST")

	return r
}

// Initialize is invoked by main to connect with the database, ensure indexes
// and create a router
func (a *App) Initialize() error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}
	a.client = client

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("trailtales-api has connected to the database")

	if err := a.ensureIndexes(ctx); err != nil {
		return err
	}

	// initialize api router
	a.initializeRoutes()
	return nil
}

// Shutdown stops background work and closes the database connection
func (a *App) Shutdown(ctx context.Context) error {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Hub != nil {
		a.Hub.Close()
	}
	if a.client != nil {
		return a.client.Disconnect(ctx)
	}
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func (a *App) initializeMetrics() {
	if a.Metrics == nil {
		a.Metrics = api.NewMetrics()
	}
	if a.Registry != nil {
		return
	}
	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := a.Metrics.Register(a.Registry); err != nil {
		zap.S().Warnw("failed to register metrics", "error", err)
	}
}

func (a *App) ensureIndexes(ctx context.Context) error {
	if err := databases.NewReportDatabase(a.dbHelper).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create report indexes: %w", err)
	}
	for kind, db := range databases.NewContentDatabases(a.dbHelper) {
		if err := db.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", kind, err)
		}
	}
	return nil
}

func moderationPolicy(c config.ModerationConfig) moderation.Policy {
	policy := moderation.DefaultPolicy().WithThresholds(c.CriticalThreshold, c.HighThreshold, c.ModerateThreshold)
	if c.MaxDescriptionLength > 0 {
		policy.MaxDescriptionLength = c.MaxDescriptionLength
	}
	return policy
}

func contentStores(dbs map[string]databases.ContentDatabase) map[string]moderation.ContentStore {
	out := make(map[string]moderation.ContentStore, len(dbs))
	for kind, db := range dbs {
		out[kind] = db
	}
	return out
}

func contentModerators(dbs map[string]databases.ContentDatabase) map[string]moderation.ContentModerator {
	out := make(map[string]moderation.ContentModerator, len(dbs))
	for kind, db := range dbs {
		out[kind] = db
	}
	return out
}

func candidateSources(dbs map[string]databases.ContentDatabase) map[string]ranking.CandidateSource {
	out := make(map[string]ranking.CandidateSource, len(dbs))
	for kind, db := range dbs {
		out[kind] = db
	}
	return out
}
