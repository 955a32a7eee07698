// Package prometheus records pipeline counters on a dedicated registry.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/legis-ingest/internal/core/domain"
	"github.com/custodia-labs/legis-ingest/internal/core/ports/driven"
)

const namespace = "legis"

// Recorder implements driven.Metrics.
type Recorder struct {
	registry *prometheus.Registry

	files     *prometheus.CounterVec
	batches   *prometheus.CounterVec
	indexed   prometheus.Counter
	batchTime prometheus.Histogram
}

var _ driven.Metrics = (*Recorder)(nil)

// NewRecorder registers the pipeline collectors on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,

		// Labels: outcome (extracted, skipped, failed)
		files: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Files processed by outcome",
		}, []string{"outcome"}),

		// Labels: result (written, empty)
		batches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Batches completed by result",
		}, []string{"result"}),

		indexed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_indexed_total",
			Help:      "Records written to the vector index",
		}),

		batchTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Duration of batch index writes in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}

// FileProcessed counts one file outcome.
func (r *Recorder) FileProcessed(status domain.ExtractStatus) {
	r.files.WithLabelValues(string(status)).Inc()
}

// BatchWritten records a successful batch write.
func (r *Recorder) BatchWritten(records int, elapsed time.Duration) {
	r.batches.WithLabelValues("written").Inc()
	r.indexed.Add(float64(records))
	r.batchTime.Observe(elapsed.Seconds())
}

// BatchEmpty counts a batch that produced no records.
func (r *Recorder) BatchEmpty() {
	r.batches.WithLabelValues("empty").Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
