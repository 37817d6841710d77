// Package metrics provides Prometheus metrics for the auction service,
// adapted from thenexusengine's internal/metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	AuctionsCreated *prometheus.CounterVec
	AuctionsEnded   *prometheus.CounterVec

	BidsAccepted *prometheus.CounterVec
	BidsRejected *prometheus.CounterVec

	FeedConnections prometheus.Gauge
	RateLimitRejected *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics under namespace.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "auctionhouse"
	}

	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		RequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),
		AuctionsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auctions_created_total",
				Help:      "Total number of auctions created",
			},
			[]string{"type"},
		),
		AuctionsEnded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auctions_ended_total",
				Help:      "Total number of auctions observed to have ended, by whether a winner was resolved",
			},
			[]string{"type", "resolved"},
		),
		BidsAccepted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bids_accepted_total",
				Help:      "Total number of bids admitted",
			},
			[]string{"type"},
		),
		BidsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bids_rejected_total",
				Help:      "Total number of bids rejected, by reason",
			},
			[]string{"reason"},
		),
		FeedConnections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "feed_connections",
				Help:      "Number of open live auction feed websocket connections",
			},
		),
		RateLimitRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_rejected_total",
				Help:      "Total requests rejected due to rate limiting",
			},
			[]string{"route"},
		),
	}

	prometheus.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RequestsInFlight,
		m.AuctionsCreated,
		m.AuctionsEnded,
		m.BidsAccepted,
		m.BidsRejected,
		m.FeedConnections,
		m.RateLimitRejected,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns HTTP middleware that records request metrics.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.RequestsInFlight.Inc()
		defer m.RequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(wrapped.statusCode)

		m.RequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		m.RequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RecordBidRejected records a rejected bid under the given reason
// label; the HTTP handler passes the full rendered error set.
func (m *Metrics) RecordBidRejected(reason string) {
	m.BidsRejected.WithLabelValues(reason).Inc()
}

// RecordBidAccepted records a bid admitted to an auction of the given type.
func (m *Metrics) RecordBidAccepted(auctionType string) {
	m.BidsAccepted.WithLabelValues(auctionType).Inc()
}

// RecordAuctionCreated records a newly created auction.
func (m *Metrics) RecordAuctionCreated(auctionType string) {
	m.AuctionsCreated.WithLabelValues(auctionType).Inc()
}

// RecordAuctionEnded records an auction transitioning to ended, noting
// whether a winner was resolved.
func (m *Metrics) RecordAuctionEnded(auctionType string, resolved bool) {
	resolvedLabel := "false"
	if resolved {
		resolvedLabel = "true"
	}
	m.AuctionsEnded.WithLabelValues(auctionType, resolvedLabel).Inc()
}

// RecordRateLimitRejected records a request rejected by the rate limiter.
func (m *Metrics) RecordRateLimitRejected(route string) {
	m.RateLimitRejected.WithLabelValues(route).Inc()
}
