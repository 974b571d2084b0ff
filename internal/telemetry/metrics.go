package telemetry

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// RunMetrics collects the timing results of one run in a private registry.
// The registry is written out as a node-exporter textfile next to the records.
type RunMetrics struct {
	registry *prometheus.Registry

	IterationSeconds *prometheus.HistogramVec
	Iterations       *prometheus.CounterVec
	MeanSeconds      *prometheus.GaugeVec
}

// NewRunMetrics creates the metric set; runID and tag become constant labels.
func NewRunMetrics(runID, tag string) *RunMetrics {
	constLabels := prometheus.Labels{"run_id": runID, "impl": tag}
	labels := []string{"kernel", "size", "discipline"}

	m := &RunMetrics{registry: prometheus.NewRegistry()}

	m.IterationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   "kernbench",
			Name:        "iteration_seconds",
			Help:        "Per-iteration kernel latency in seconds",
			Buckets:     prometheus.ExponentialBuckets(1e-6, 4, 12),
			ConstLabels: constLabels,
		},
		labels,
	)

	m.Iterations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   "kernbench",
			Name:        "iterations_total",
			Help:        "Number of timed iterations recorded",
			ConstLabels: constLabels,
		},
		labels,
	)

	m.MeanSeconds = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   "kernbench",
			Name:        "mean_iteration_seconds",
			Help:        "Reported mean iteration time in seconds",
			ConstLabels: constLabels,
		},
		labels,
	)

	m.registry.MustRegister(m.IterationSeconds, m.Iterations, m.MeanSeconds)
	return m
}

// ObserveRecord feeds one workload's per-iteration deltas (nanoseconds) and mean.
func (m *RunMetrics) ObserveRecord(kernel string, size int, discipline string, deltasNs []float64, meanNs float64) {
	lv := []string{kernel, strconv.Itoa(size), discipline}
	h := m.IterationSeconds.WithLabelValues(lv...)
	for _, d := range deltasNs {
		h.Observe(d / 1e9)
	}
	m.Iterations.WithLabelValues(lv...).Add(float64(len(deltasNs)))
	m.MeanSeconds.WithLabelValues(lv...).Set(meanNs / 1e9)
}

// Registry exposes the underlying registry for gathering.
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the registry in the Prometheus text format to path.
func (m *RunMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
