package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig configures metric collection
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`

	// TextfilePath, when set, receives a snapshot of all metrics in the
	// Prometheus text format after each CLI run.
	TextfilePath string `mapstructure:"textfile_path" yaml:"textfile_path"`
}

// Metrics provides Prometheus metrics for predictions. A nil *Metrics or one
// created with Enabled=false records nothing.
type Metrics struct {
	predictions        *prometheus.CounterVec
	predictionDuration *prometheus.HistogramVec
	keplerFallbacks    prometheus.Counter
	samplesDropped     prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector on a private registry.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return &Metrics{}
	}

	ns := cfg.Namespace
	if ns == "" {
		ns = "orbittracker"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "predictions_total",
				Help:      "Total number of predictions by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		predictionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "prediction_duration_seconds",
				Help:      "Wall time of a complete prediction",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		keplerFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "kepler_fallbacks_total",
			Help:      "Kepler steps that fell back to linear drift",
		}),
		samplesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "mc_samples_dropped_total",
			Help:      "Monte Carlo samples dropped as non-physical",
		}),
	}

	m.registry.MustRegister(m.predictions, m.predictionDuration, m.keplerFallbacks, m.samplesDropped)
	return m
}

func (m *Metrics) enabled() bool {
	return m != nil && m.registry != nil
}

// RecordPrediction counts one finished prediction
func (m *Metrics) RecordPrediction(mode, outcome string, d time.Duration) {
	if !m.enabled() {
		return
	}
	m.predictions.WithLabelValues(mode, outcome).Inc()
	if outcome == "success" {
		m.predictionDuration.WithLabelValues(mode).Observe(d.Seconds())
	}
}

// AddKeplerFallbacks adds n degraded Kepler steps
func (m *Metrics) AddKeplerFallbacks(n int) {
	if !m.enabled() || n <= 0 {
		return
	}
	m.keplerFallbacks.Add(float64(n))
}

// AddSamplesDropped adds n dropped Monte Carlo samples
func (m *Metrics) AddSamplesDropped(n int) {
	if !m.enabled() || n <= 0 {
		return
	}
	m.samplesDropped.Add(float64(n))
}

// Registry returns the underlying registry, nil when disabled
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns the HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if !m.enabled() {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current metric values to path in the Prometheus
// text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if !m.enabled() || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
