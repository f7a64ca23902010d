package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type fakeHandler struct {
	topic     string
	fails     int
	calls     int
	permanent bool
}

func (h *fakeHandler) Topic() string { return h.topic }

func (h *fakeHandler) Handle(_ context.Context, _ []byte) error {
	h.calls++
	if h.calls <= h.fails {
		if h.permanent {
			return Permanent(errors.New("not enough bars"))
		}
		return errors.New("boom")
	}
	return nil
}

func TestProducerPublishBatchEncodesValues(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "gzip")

	err := p.PublishBatch(context.Background(), "yields", []Message{
		{Key: []byte("2024-03-01"), Value: map[string]float64{"annual_yield": 1.5}},
		{Key: []byte("raw"), Value: []byte("x")},
		{Key: []byte("str"), Value: "y"},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 3)
	assert.Equal(t, "yields", w.msgs[0].Topic)
	assert.JSONEq(t, `{"annual_yield":1.5}`, string(w.msgs[0].Value))
	assert.Equal(t, "x", string(w.msgs[1].Value))
	assert.Equal(t, "y", string(w.msgs[2].Value))
	assert.Equal(t, "application/json", string(w.msgs[0].Headers[0].Value))
	assert.Equal(t, "text/plain", string(w.msgs[2].Headers[0].Value))

	require.NoError(t, p.PublishBatch(context.Background(), "yields", nil))
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducerConfigBuildsWriter(t *testing.T) {
	cfg := defaultProducerConfig()
	WithBrokers([]string{"b1:9092"})(&cfg)
	WithCompression("zstd")(&cfg)
	w := cfg.writer()
	assert.Equal(t, kafka.Zstd, w.Compression)
	assert.Equal(t, kafka.RequiredAcks(-1), w.RequiredAcks)
	assert.Equal(t, int64(1<<20), w.BatchBytes)
}

func TestProducerWrapsWriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newProducer(w, "gzip")
	err := p.Publish(context.Background(), "yields", nil, "v")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}

func TestConsumerProcessRetriesThenSucceeds(t *testing.T) {
	c := newConsumer(&ConsumerConfig{RetryMax: 2, BackoffMin: time.Millisecond, BackoffMax: time.Millisecond, BufferSize: 1})
	h := &fakeHandler{topic: "days", fails: 2}
	require.NoError(t, c.RegisterHandler(h))

	assert.True(t, c.process(kafka.Message{Topic: "days", Value: []byte("{}")}))
	assert.Equal(t, 3, h.calls)
}

func TestConsumerProcessExhaustedGoesToDLQ(t *testing.T) {
	c := newConsumer(&ConsumerConfig{RetryMax: 1, BackoffMin: time.Millisecond, BackoffMax: time.Millisecond, BufferSize: 1, DLQTopic: "days.dlq"})
	dlq := &fakeWriter{}
	c.dlq = dlq
	h := &fakeHandler{topic: "days", fails: 10}
	require.NoError(t, c.RegisterHandler(h))

	assert.True(t, c.process(kafka.Message{Topic: "days", Key: []byte("k"), Value: []byte("bad")}))
	assert.Equal(t, 2, h.calls)
	require.Len(t, dlq.msgs, 1)
	assert.Equal(t, "days.dlq", dlq.msgs[0].Topic)
	assert.Equal(t, "bad", string(dlq.msgs[0].Value))
	assert.Equal(t, "source_topic", dlq.msgs[0].Headers[0].Key)
}

func TestConsumerProcessPermanentErrorSkipsRetries(t *testing.T) {
	c := newConsumer(&ConsumerConfig{RetryMax: 3, BackoffMin: time.Millisecond, BackoffMax: time.Millisecond, BufferSize: 1, DLQTopic: "days.dlq"})
	dlq := &fakeWriter{}
	c.dlq = dlq
	h := &fakeHandler{topic: "days", fails: 10, permanent: true}
	require.NoError(t, c.RegisterHandler(h))

	assert.True(t, c.process(kafka.Message{Topic: "days", Value: []byte("short day")}))
	assert.Equal(t, 1, h.calls)
	require.Len(t, dlq.msgs, 1)
	assert.Equal(t, "not enough bars", string(dlq.msgs[0].Headers[1].Value))
}

func TestPermanent(t *testing.T) {
	assert.NoError(t, Permanent(nil))
	base := errors.New("x")
	err := fmt.Errorf("wrapped: %w", Permanent(base))
	assert.True(t, IsPermanent(err))
	assert.ErrorIs(t, err, base)
	assert.False(t, IsPermanent(base))
}

func TestConsumerProcessWithoutDLQDoesNotCommit(t *testing.T) {
	c := newConsumer(&ConsumerConfig{RetryMax: 0, BufferSize: 1})
	require.NoError(t, c.RegisterHandler(&fakeHandler{topic: "days", fails: 1}))
	assert.False(t, c.process(kafka.Message{Topic: "days"}))
	assert.False(t, c.process(kafka.Message{Topic: "unknown"}))
}

func TestRegisterHandlerDuplicate(t *testing.T) {
	c := newConsumer(&ConsumerConfig{BufferSize: 1})
	require.NoError(t, c.RegisterHandler(&fakeHandler{topic: "days"}))
	assert.Error(t, c.RegisterHandler(&fakeHandler{topic: "days"}))
}

func TestBackoffWithJitterBounds(t *testing.T) {
	for attempt := 1; attempt < 40; attempt++ {
		d := backoffWithJitter(10*time.Millisecond, 80*time.Millisecond, attempt)
		assert.GreaterOrEqual(t, d, 5*time.Millisecond)
		assert.LessOrEqual(t, d, 80*time.Millisecond)
	}
}

func TestConfigTranslatesToOptions(t *testing.T) {
	cfg := Config{
		Brokers:      []string{"k1:9092"},
		RequiredAcks: 1,
		Compression:  "zstd",
		Producer:     ProducerSettings{MaxAttempts: 5, BatchSize: 10, Linger: 20 * time.Millisecond},
		Consumer:     ConsumerSettings{GroupID: "g", Workers: 3, RetryMax: 4, DLQTopic: "days.dlq", MinBytes: 1, MaxBytes: 1024},
	}

	var pc ProducerConfig
	for _, opt := range cfg.ProducerOptions() {
		opt(&pc)
	}
	assert.Equal(t, []string{"k1:9092"}, pc.Brokers)
	assert.Equal(t, "zstd", pc.Compression)
	assert.Equal(t, 1, pc.RequiredAcks)
	assert.Equal(t, 5, pc.MaxAttempts)
	assert.Equal(t, 10, pc.BatchSize)
	assert.Equal(t, 20*time.Millisecond, pc.BatchTimeout)

	cc := ConsumerConfig{GroupID: "default", WorkerCount: 1}
	for _, opt := range cfg.ConsumerOptions() {
		opt(&cc)
	}
	assert.Equal(t, "g", cc.GroupID)
	assert.Equal(t, 3, cc.WorkerCount)
	assert.Equal(t, 4, cc.RetryMax)
	assert.Equal(t, "days.dlq", cc.DLQTopic)
	assert.Equal(t, 1024, cc.MaxBytes)
}
