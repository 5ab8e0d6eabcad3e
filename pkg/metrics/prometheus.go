package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository Metrics using Prometheus.
type Recorder struct {
	quoteFetches    *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	lastPrice       *prometheus.GaugeVec
	searchQueries   prometheus.Counter
	wishlistToggles *prometheus.CounterVec
	alertsRecorded  *prometheus.CounterVec
	alertsTriggered *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		quoteFetches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockview_quote_fetches_total",
				Help: "Total quote fetch attempts against the provider",
			},
			[]string{"symbol", "result"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockview_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockview_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
		searchQueries: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stockview_search_queries_total",
				Help: "Total directory searches evaluated",
			},
		),
		wishlistToggles: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockview_wishlist_toggles_total",
				Help: "Total wishlist toggles by outcome",
			},
			[]string{"outcome"},
		),
		alertsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockview_alerts_recorded_total",
				Help: "Total alert submissions by outcome",
			},
			[]string{"outcome"},
		),
		alertsTriggered: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockview_alerts_triggered_total",
				Help: "Total alert trigger events emitted",
			},
			[]string{"kind"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockview_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordQuoteFetch records a fetch attempt outcome for a symbol.
func (r *Recorder) RecordQuoteFetch(symbol, result string) {
	r.quoteFetches.WithLabelValues(symbol, result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordSearch records one evaluated search.
func (r *Recorder) RecordSearch() {
	r.searchQueries.Inc()
}

// RecordWishlistToggle records a toggle outcome (added, removed, failed).
func (r *Recorder) RecordWishlistToggle(outcome string) {
	r.wishlistToggles.WithLabelValues(outcome).Inc()
}

// RecordAlertUpsert records an alert submission outcome (created, updated, failed).
func (r *Recorder) RecordAlertUpsert(outcome string) {
	r.alertsRecorded.WithLabelValues(outcome).Inc()
}

// RecordAlertTrigger records an emitted trigger (target, stop_loss).
func (r *Recorder) RecordAlertTrigger(kind string) {
	r.alertsTriggered.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
