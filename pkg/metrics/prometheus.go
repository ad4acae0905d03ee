package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	refreshTotal    *prometheus.CounterVec
	refreshDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
	livewireSize    prometheus.Gauge
	lastSuccess     prometheus.Gauge
}

// New registers the recorder on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the recorder on reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		refreshTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "velra_refresh_total",
				Help: "Snapshot refresh attempts by result",
			},
			[]string{"result"},
		),
		refreshDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "velra_refresh_duration_seconds",
				Help:    "Duration of snapshot refresh cycles in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
			},
			[]string{"result"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "velra_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		livewireSize: f.NewGauge(prometheus.GaugeOpts{
			Name: "velra_livewire_items",
			Help: "Number of items in the persisted livewire feed",
		}),
		lastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "velra_last_success_timestamp_seconds",
			Help: "Unix time of the last successful refresh",
		}),
	}
}

// RecordRefresh records one refresh cycle outcome.
func (r *Recorder) RecordRefresh(result string, seconds float64) {
	r.refreshTotal.WithLabelValues(result).Inc()
	r.refreshDuration.WithLabelValues(result).Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordLivewireSize(n int) {
	r.livewireSize.Set(float64(n))
}

func (r *Recorder) RecordLastSuccess(t time.Time) {
	r.lastSuccess.Set(float64(t.Unix()))
}
