package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	daysEvaluated *prometheus.CounterVec
	daysFailed    *prometheus.CounterVec
	sinkWrites    *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	lastStability *prometheus.GaugeVec
	lastYield     *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New creates a recorder registered with the default Prometheus registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered with reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		daysEvaluated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stabtrade_days_evaluated_total",
				Help: "Total number of trading days evaluated",
			},
			[]string{"symbol"},
		),
		daysFailed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stabtrade_days_failed_total",
				Help: "Total number of trading days that could not be evaluated",
			},
			[]string{"reason"},
		),
		sinkWrites: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stabtrade_sink_rows_total",
				Help: "Total number of yield rows written per sink",
			},
			[]string{"sink"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stabtrade_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastStability: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stabtrade_last_stability",
				Help: "Stability score of the most recently evaluated day",
			},
			[]string{"symbol"},
		),
		lastYield: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stabtrade_last_annual_yield",
				Help: "Annualized yield of the most recently evaluated day",
			},
			[]string{"symbol"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stabtrade_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordDayEvaluated records a successfully evaluated day.
func (r *Recorder) RecordDayEvaluated(symbol string, stability, yield float64) {
	r.daysEvaluated.WithLabelValues(symbol).Inc()
	r.lastStability.WithLabelValues(symbol).Set(stability)
	r.lastYield.WithLabelValues(symbol).Set(yield)
}

// RecordDayFailed records a day that was skipped or aborted the run.
func (r *Recorder) RecordDayFailed(reason string) {
	r.daysFailed.WithLabelValues(reason).Inc()
}

// RecordSinkWrite records rows written to a sink.
func (r *Recorder) RecordSinkWrite(sink string, n int) {
	r.sinkWrites.WithLabelValues(sink).Add(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
