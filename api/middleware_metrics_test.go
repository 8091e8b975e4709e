package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailtales/trailtales-api/models"
)

func TestMetricsMiddleware(t *testing.T) {
	m := NewMetrics()
	require.NoError(t, m.Register(prometheus.NewRegistry()))

	var seenID string
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/api/v1/feed/{kind}", func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})
	r.HandleFunc("/health", HealthCheckHandler)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/feed/reviews", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.NotEmpty(t, seenID)
	assert.Equal(t, seenID, rr.Header().Get(RequestIDHeader))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/feed/{kind}", "418")))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/feed/reviews", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, "upstream-id", seenID)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpRequests), "health checks are not recorded")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/", "200", 0.1)
		m.ReportSubmitted("spam")
		m.ReportRejected("duplicate")
		m.ContentFlagged("reviews", models.SeverityHigh)
		m.FeedServed("reviews", "generic", 0.1)
		m.ItineraryFailure("open")
		m.ModerationDecision("dismissed")
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()
	m.ContentFlagged(models.KindReview, models.SeverityCritical)
	m.ReportRejected("duplicate")
	m.ReportRejected("duplicate")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.autoFlagged.WithLabelValues(models.KindReview, "critical")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.reportsRejected.WithLabelValues("duplicate")))
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, NewMetrics().Register(reg))
	assert.Error(t, NewMetrics().Register(reg))
}

func TestHealthCheckHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	New().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"alive": true}`, rr.Body.String())
}
