package api

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/trailtales/trailtales-api/models"
)

// Metric names
const (
	MetricHTTPRequestsTotal        = "trailtales_http_requests_total"
	MetricHTTPRequestDuration      = "trailtales_http_request_duration_seconds"
	MetricReportsSubmittedTotal    = "trailtales_reports_submitted_total"
	MetricReportsRejectedTotal     = "trailtales_reports_rejected_total"
	MetricContentAutoFlaggedTotal  = "trailtales_content_auto_flagged_total"
	MetricFeedRequestsTotal        = "trailtales_feed_requests_total"
	MetricFeedRankingDuration      = "trailtales_feed_ranking_duration_seconds"
	MetricItineraryFailuresTotal   = "trailtales_itinerary_fetch_failures_total"
	MetricModerationDecisionsTotal = "trailtales_moderation_decisions_total"
)

// Metrics holds the Prometheus collectors used by the API. All methods are safe
// for concurrent use and tolerate a nil receiver so tests can skip metrics.
type Metrics struct {
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	reportsSubmitted  *prometheus.CounterVec
	reportsRejected   *prometheus.CounterVec
	autoFlagged       *prometheus.CounterVec
	feedRequests      *prometheus.CounterVec
	feedDuration      *prometheus.HistogramVec
	itineraryFailures *prometheus.CounterVec
	decisions         *prometheus.CounterVec
}

// NewMetrics creates the collectors. Call Register to expose them.
func NewMetrics() *Metrics {
	return &Metrics{
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHTTPRequestsTotal,
				Help: "Total HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPRequestDuration,
				Help:    "HTTP request latency in seconds by method and route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		reportsSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricReportsSubmittedTotal,
				Help: "Reports accepted by reason code",
			},
			[]string{"reason"},
		),
		reportsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricReportsRejectedTotal,
				Help: "Reports rejected by cause",
			},
			[]string{"cause"},
		),
		autoFlagged: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricContentAutoFlaggedTotal,
				Help: "Content items automatically flagged by kind and severity",
			},
			[]string{"kind", "severity"},
		),
		feedRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricFeedRequestsTotal,
				Help: "Feed requests by content kind and ranking algorithm",
			},
			[]string{"kind", "algorithm"},
		),
		feedDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricFeedRankingDuration,
				Help:    "Time spent assembling a ranked feed in seconds",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"kind"},
		),
		itineraryFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricItineraryFailuresTotal,
				Help: "Itinerary service calls that fell back to an empty profile, by cause",
			},
			[]string{"cause"},
		),
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricModerationDecisionsTotal,
				Help: "Moderator decisions by resulting report status",
			},
			[]string{"status"},
		),
	}
}

// Register registers every collector with reg
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns all collectors, mainly for tests
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.httpRequests,
		m.httpDuration,
		m.reportsSubmitted,
		m.reportsRejected,
		m.autoFlagged,
		m.feedRequests,
		m.feedDuration,
		m.itineraryFailures,
		m.decisions,
	}
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}

// ReportSubmitted counts an accepted report
func (m *Metrics) ReportSubmitted(reason string) {
	if m == nil {
		return
	}
	m.reportsSubmitted.WithLabelValues(reason).Inc()
}

// ReportRejected counts a refused report
func (m *Metrics) ReportRejected(cause string) {
	if m == nil {
		return
	}
	m.reportsRejected.WithLabelValues(cause).Inc()
}

// ContentFlagged counts an automatic escalation
func (m *Metrics) ContentFlagged(kind string, severity models.Severity) {
	if m == nil {
		return
	}
	m.autoFlagged.WithLabelValues(kind, string(severity)).Inc()
}

// FeedServed records a feed request and how long ranking took
func (m *Metrics) FeedServed(kind, algorithm string, seconds float64) {
	if m == nil {
		return
	}
	m.feedRequests.WithLabelValues(kind, algorithm).Inc()
	m.feedDuration.WithLabelValues(kind).Observe(seconds)
}

// ItineraryFailure counts a degraded itinerary lookup
func (m *Metrics) ItineraryFailure(cause string) {
	if m == nil {
		return
	}
	m.itineraryFailures.WithLabelValues(cause).Inc()
}

// ModerationDecision counts a resolved report
func (m *Metrics) ModerationDecision(status string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(status).Inc()
}
