// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tubepulse_feed_fetch_total",
		Help: "Upstream feed fetch attempts by kind and outcome",
	}, []string{"kind", "outcome"}) // outcome=success|timeout|too_large|error|status_4xx|status_5xx|...

	feedFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tubepulse_feed_fetch_duration_seconds",
		Help:    "Latency of upstream feed fetches",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"kind"})

	feedEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tubepulse_feed_entries",
		Help: "Records produced by the last normalized feed of each kind",
	}, []string{"kind"})

	feedParseTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tubepulse_feed_parse_total",
		Help: "Feed normalization attempts by kind and outcome",
	}, []string{"kind", "outcome"}) // outcome=success|malformed

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tubepulse_http_requests_total",
		Help: "HTTP requests served by route pattern and status code",
	}, []string{"route", "status"})
)

// RecordFeedFetch counts one fetch attempt and observes its latency.
func RecordFeedFetch(kind, outcome string, elapsed time.Duration) {
	feedFetchTotal.WithLabelValues(kind, outcome).Inc()
	feedFetchDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// RecordFeedParse counts one normalization and, on success, the record count.
func RecordFeedParse(kind string, records int, err error) {
	if err != nil {
		feedParseTotal.WithLabelValues(kind, "malformed").Inc()
		return
	}
	feedParseTotal.WithLabelValues(kind, "success").Inc()
	feedEntries.WithLabelValues(kind).Set(float64(records))
}

func RecordHTTPRequest(route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
