// Package metrics holds Prometheus metrics for the harvest pipeline:
// fetch outcomes, download volume and per-document conversion results.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Set bundles all pipeline metrics. A nil *Set is safe to use everywhere.
type Set struct {
	fetchTotal    *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	downloadBytes prometheus.Counter
	convertTotal  *prometheus.CounterVec
	recordsOut    prometheus.Counter
}

// New creates the metric set and registers it on reg.
func New(reg prometheus.Registerer) *Set {
	m := &Set{
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "harvest",
			Name:      "fetch_total",
			Help:      "Product fetch attempts by outcome",
		}, []string{"outcome"}), // downloaded, restricted, failed, skipped

		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "harvest",
			Name:      "fetch_duration_seconds",
			Help:      "Product fetch request duration",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		downloadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "harvest",
			Name:      "download_bytes_total",
			Help:      "Total bytes downloaded from the upstream feed",
		}),

		convertTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "harvest",
			Name:      "convert_total",
			Help:      "Document conversion results by outcome",
		}, []string{"outcome"}), // converted, skipped, errored

		recordsOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "harvest",
			Name:      "records_written_total",
			Help:      "Normalized records written to output segments",
		}),
	}

	reg.MustRegister(
		m.fetchTotal, m.fetchDuration, m.downloadBytes, m.convertTotal, m.recordsOut,
	)
	return m
}

// FetchOutcome counts one product fetch attempt.
func (m *Set) FetchOutcome(outcome string) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetch records the duration of one product request.
func (m *Set) ObserveFetch(seconds float64) {
	if m == nil {
		return
	}
	m.fetchDuration.Observe(seconds)
}

// AddDownloadBytes counts bytes received from the upstream feed.
func (m *Set) AddDownloadBytes(n int64) {
	if m == nil {
		return
	}
	m.downloadBytes.Add(float64(n))
}

// ConvertOutcome counts one per-document conversion result.
func (m *Set) ConvertOutcome(outcome string) {
	if m == nil {
		return
	}
	m.convertTotal.WithLabelValues(outcome).Inc()
}

// RecordWritten counts one record flushed to an output segment.
func (m *Set) RecordWritten() {
	if m == nil {
		return
	}
	m.recordsOut.Inc()
}
