// Package metrics provides Prometheus instrumentation for processing runs.
//
// Metrics live on a per-Recorder registry so a library user can expose them
// next to their own, and the CLI can dump them to a node_exporter textfile.
// All metrics are prefixed with "mediaproc_". A nil *Recorder is valid and
// records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the metrics of one processor.
type Recorder struct {
	registry *prometheus.Registry

	FilesProcessed    *prometheus.CounterVec
	VariantsEmitted   *prometheus.CounterVec
	Fallbacks         *prometheus.CounterVec
	EngineLoads       *prometheus.CounterVec
	TranscodeDuration *prometheus.HistogramVec
	BatchesTotal      *prometheus.CounterVec
	BatchProgress     prometheus.Gauge
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		FilesProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mediaproc_files_processed_total",
				Help: "Total number of input files processed",
			},
			[]string{"type", "outcome"}, // outcome: "converted", "passthrough"
		),
		VariantsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mediaproc_variants_emitted_total",
				Help: "Total number of output variants emitted",
			},
			[]string{"type", "format"},
		),
		Fallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mediaproc_fallbacks_total",
				Help: "Total number of pass-through fallbacks by reason",
			},
			[]string{"reason"},
		),
		EngineLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mediaproc_engine_loads_total",
				Help: "Total number of codec engine load attempts",
			},
			[]string{"tier", "result"},
		),
		TranscodeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mediaproc_transcode_duration_seconds",
				Help:    "Codec engine transcode duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"kind"},
		),
		BatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mediaproc_batches_total",
				Help: "Total number of batches by final state",
			},
			[]string{"state"},
		),
		BatchProgress: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "mediaproc_batch_progress_percent",
				Help: "Progress of the current batch in percent",
			},
		),
	}
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// FileProcessed counts one processed input file.
func (r *Recorder) FileProcessed(mediaType string, passthrough bool) {
	if r == nil {
		return
	}
	outcome := "converted"
	if passthrough {
		outcome = "passthrough"
	}
	r.FilesProcessed.WithLabelValues(mediaType, outcome).Inc()
}

// VariantEmitted counts one emitted variant.
func (r *Recorder) VariantEmitted(mediaType, format string) {
	if r == nil {
		return
	}
	r.VariantsEmitted.WithLabelValues(mediaType, format).Inc()
}

// Fallback counts one pass-through fallback.
func (r *Recorder) Fallback(reason string) {
	if r == nil {
		return
	}
	r.Fallbacks.WithLabelValues(reason).Inc()
}

// EngineLoad counts one engine load attempt.
func (r *Recorder) EngineLoad(tier string, ok bool) {
	if r == nil {
		return
	}
	result := "failed"
	if ok {
		result = "ok"
	}
	r.EngineLoads.WithLabelValues(tier, result).Inc()
}

// ObserveTranscode records the duration of one transcode.
func (r *Recorder) ObserveTranscode(kind string, d time.Duration) {
	if r == nil {
		return
	}
	r.TranscodeDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// BatchFinished counts a finished batch by final state.
func (r *Recorder) BatchFinished(state string) {
	if r == nil {
		return
	}
	r.BatchesTotal.WithLabelValues(state).Inc()
}

// SetProgress records the current batch progress.
func (r *Recorder) SetProgress(percent float64) {
	if r == nil {
		return
	}
	r.BatchProgress.Set(percent)
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
