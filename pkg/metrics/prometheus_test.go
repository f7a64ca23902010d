package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegistry(reg)

	r.RecordDayEvaluated("EURUSD", 0.01, 1.5)
	r.RecordDayEvaluated("EURUSD", 0.02, -0.05)
	r.RecordDayFailed("insufficient_data")
	r.RecordSinkWrite("xlsx", 7)
	r.RecordError("sink")
	r.RecordLatency("evaluate", 0.2)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.daysEvaluated.WithLabelValues("EURUSD")))
	assert.Equal(t, 0.02, testutil.ToFloat64(r.lastStability.WithLabelValues("EURUSD")))
	assert.Equal(t, -0.05, testutil.ToFloat64(r.lastYield.WithLabelValues("EURUSD")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.daysFailed.WithLabelValues("insufficient_data")))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.sinkWrites.WithLabelValues("xlsx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("sink")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.latency))
}
