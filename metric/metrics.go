// Package metric collects run metrics for ontodoc in a Prometheus registry.
//
// A run is short-lived, so nothing is served over HTTP. When the CLI is given
// --metrics-file the registry is written in the text exposition format for
// the node_exporter textfile collector.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch kinds.
const (
	KindOntology   = "ontology"
	KindPrefixes   = "prefixes"
	KindVocabulary = "vocabulary"
)

// Metrics holds all collectors of one run.
type Metrics struct {
	registry *prometheus.Registry

	FetchesTotal   *prometheus.CounterVec
	FetchDuration  *prometheus.HistogramVec
	TriplesLoaded  *prometheus.CounterVec
	CacheLookups   *prometheus.CounterVec
	LabelsResolved *prometheus.CounterVec
	ElementsTotal  *prometheus.GaugeVec
	RenderDuration prometheus.Histogram
}

// New creates a Metrics instance on a fresh registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.FetchesTotal = promauto.With(m.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ontodoc_fetches_total",
			Help: "Total number of document fetches",
		},
		[]string{"kind", "result"}, // result: ok, error
	)

	m.FetchDuration = promauto.With(m.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ontodoc_fetch_duration_seconds",
			Help:    "Duration of document fetches including retries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	m.TriplesLoaded = promauto.With(m.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ontodoc_triples_loaded_total",
			Help: "Total number of triples parsed into ontology stores",
		},
		[]string{"kind"},
	)

	m.CacheLookups = promauto.With(m.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ontodoc_vocabulary_cache_lookups_total",
			Help: "Vocabulary cache lookups by result",
		},
		[]string{"result"}, // hit, miss, failed
	)

	m.LabelsResolved = promauto.With(m.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ontodoc_labels_resolved_total",
			Help: "Resolved labels by source",
		},
		[]string{"source"}, // vocabulary, synthetic
	)

	m.ElementsTotal = promauto.With(m.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ontodoc_elements",
			Help: "Number of aggregated elements in the last run",
		},
		[]string{"type"}, // class, property
	)

	m.RenderDuration = promauto.With(m.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ontodoc_render_duration_seconds",
			Help:    "Duration of template rendering",
			Buckets: prometheus.DefBuckets,
		},
	)

	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
