package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StabTrade/internal/domain/models"
	"StabTrade/internal/services/stability"
	pkgkafka "StabTrade/pkg/kafka"
)

func TestKafkaDaysHandler(t *testing.T) {
	m := newFakeMetrics()
	sink := &fakeSink{name: "kafka"}
	h := NewKafkaDaysHandler("stabtrade.days", newEvaluator(m, OnErrorSkip), NewYieldProcessor(m, sink), m, time.UTC)
	assert.Equal(t, "stabtrade.days", h.Topic())

	bars := dayBars("2024-03-01", 9, 10, 10, 10, 10, 12)
	// reversed on the wire; the handler restores time order
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	payload, err := json.Marshal(models.DaySeries{Date: "2024-03-01", Symbol: "X", Bars: bars})
	require.NoError(t, err)

	require.NoError(t, h.Handle(context.Background(), payload))
	require.Len(t, sink.got, 1)
	assert.Equal(t, "long", sink.got[0][0].Action)
	assert.InDelta(t, 0.5, sink.got[0][0].Yield, 1e-12)
}

func TestKafkaDaysHandlerRejects(t *testing.T) {
	m := newFakeMetrics()
	sink := &fakeSink{name: "kafka"}
	h := NewKafkaDaysHandler("days", newEvaluator(m, OnErrorSkip), NewYieldProcessor(m, sink), m, time.UTC)

	assert.Error(t, h.Handle(context.Background(), []byte("{")))
	assert.Equal(t, 1, m.errors["consumer_unmarshal"])

	assert.Error(t, h.Handle(context.Background(), []byte(`{"date":"03/01/2024","bars":[]}`)))
	assert.Equal(t, 1, m.errors["consumer_invalid"])

	short, _ := json.Marshal(models.DaySeries{Date: "2024-03-01", Bars: dayBars("2024-03-01", 9, 10)})
	err := h.Handle(context.Background(), short)
	assert.ErrorIs(t, err, stability.ErrInsufficientData)
	assert.True(t, pkgkafka.IsPermanent(err))
	assert.Empty(t, sink.got)

	mixed := append(dayBars("2024-03-01", 9, 10, 10, 10), dayBars("2024-03-02", 10, 10, 10, 12)...)
	payload, _ := json.Marshal(models.DaySeries{Date: "2024-03-01", Bars: mixed})
	err = h.Handle(context.Background(), payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "falls on 2024-03-02")
	assert.True(t, pkgkafka.IsPermanent(err))
	assert.Equal(t, 2, m.errors["consumer_invalid"])
	assert.Empty(t, sink.got)
}

func TestKafkaDaysHandlerSinkErrorIsRetryable(t *testing.T) {
	m := newFakeMetrics()
	sink := &fakeSink{name: "kafka", err: errors.New("broker down")}
	h := NewKafkaDaysHandler("days", newEvaluator(m, OnErrorSkip), NewYieldProcessor(m, sink), m, time.UTC)

	payload, _ := json.Marshal(models.DaySeries{Date: "2024-03-01", Bars: dayBars("2024-03-01", 9, 10, 10, 10, 10, 12)})
	err := h.Handle(context.Background(), payload)
	require.Error(t, err)
	assert.False(t, pkgkafka.IsPermanent(err))
	assert.Equal(t, 1, m.errors["consumer_sink"])
}
