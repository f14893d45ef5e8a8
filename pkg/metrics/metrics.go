// Package metrics provides Prometheus metrics for btc-cache.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// FramesReceivedTotal is a counter of text frames received per feed.
	FramesReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_frames_received_total",
			Help: "Total number of text frames received from a feed",
		},
		[]string{"feed"},
	)

	// PriceSamplesTotal is a counter of price samples accepted into a running counter.
	PriceSamplesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_price_samples_total",
			Help: "Total number of price samples accepted from a feed",
		},
		[]string{"feed"},
	)

	// ParseFaultsTotal is a counter of frames with a price field that could not be parsed.
	ParseFaultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_parse_faults_total",
			Help: "Total number of well-shaped frames whose price could not be parsed",
		},
		[]string{"feed"},
	)

	// SessionResultsTotal is a counter of finished sessions by outcome.
	SessionResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_results_total",
			Help: "Total number of feed sessions by outcome",
		},
		[]string{"feed", "status"},
	)

	// SessionDuration is a histogram of wall-clock session lifetimes.
	SessionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "session_duration_seconds",
			Help:    "Wall-clock duration of feed sessions from dial to finalize",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"feed"},
	)

	// SignatureVerificationsTotal is a counter of signature checks by result.
	SignatureVerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signature_verifications_total",
			Help: "Total number of session signature verifications",
		},
		[]string{"feed", "result"},
	)

	// AggregatePrice is a gauge of the last cross-feed aggregate.
	AggregatePrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aggregate_price",
			Help: "Last cross-feed aggregate price",
		},
		[]string{"symbol"},
	)

	// ContributingFeeds is a gauge of feeds that contributed to the last aggregate.
	ContributingFeeds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "aggregate_contributing_feeds",
			Help: "Number of feeds that contributed to the last aggregate",
		},
	)

	// ArtifactWritesTotal is a counter of artifact writes per sink.
	ArtifactWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artifact_writes_total",
			Help: "Total number of artifact writes",
		},
		[]string{"sink", "status"},
	)

	initOnce sync.Once
)

// Init initializes Prometheus metrics registry.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			FramesReceivedTotal,
			PriceSamplesTotal,
			ParseFaultsTotal,
			SessionResultsTotal,
			SessionDuration,
			SignatureVerificationsTotal,
			AggregatePrice,
			ContributingFeeds,
			ArtifactWritesTotal,
		)
	})
}

// ServeHTTP serves Prometheus metrics on the specified address.
func ServeHTTP(addr, path string) error {
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return server.ListenAndServe()
}

// RecordFrame records a received frame.
func RecordFrame(feed string) {
	FramesReceivedTotal.WithLabelValues(feed).Inc()
}

// RecordSample records an accepted price sample.
func RecordSample(feed string) {
	PriceSamplesTotal.WithLabelValues(feed).Inc()
}

// RecordParseFault records a frame whose price could not be parsed.
func RecordParseFault(feed string) {
	ParseFaultsTotal.WithLabelValues(feed).Inc()
}

// RecordSession records the outcome and lifetime of a session.
func RecordSession(feed, status string, duration time.Duration) {
	SessionResultsTotal.WithLabelValues(feed, status).Inc()
	SessionDuration.WithLabelValues(feed).Observe(duration.Seconds())
}

// RecordVerification records a signature verification.
func RecordVerification(feed string, valid bool) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	SignatureVerificationsTotal.WithLabelValues(feed, result).Inc()
}

// RecordAggregate records the final aggregate.
func RecordAggregate(symbol string, price float64, contributing int) {
	AggregatePrice.WithLabelValues(symbol).Set(price)
	ContributingFeeds.Set(float64(contributing))
}

// RecordArtifactWrite records an artifact write against a sink.
func RecordArtifactWrite(sink string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ArtifactWritesTotal.WithLabelValues(sink, status).Inc()
}
