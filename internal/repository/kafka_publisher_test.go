package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StabTrade/internal/domain/models"
	pkgkafka "StabTrade/pkg/kafka"
)

type fakePublisher struct {
	topic  string
	msgs   []pkgkafka.Message
	closed bool
}

func (f *fakePublisher) PublishBatch(_ context.Context, topic string, messages []pkgkafka.Message) error {
	f.topic = topic
	f.msgs = append(f.msgs, messages...)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func TestKafkaYieldPublisherKeysByDate(t *testing.T) {
	fp := &fakePublisher{}
	p := &KafkaYieldPublisher{producer: fp, topic: "stabtrade.yields"}
	assert.Equal(t, "kafka", p.Name())

	out := []models.YieldOutcome{{Date: "2024-03-01", Yield: 0.5}, {Date: "2024-03-02"}}
	require.NoError(t, p.Write(context.Background(), out))
	assert.Equal(t, "stabtrade.yields", fp.topic)
	require.Len(t, fp.msgs, 2)
	assert.Equal(t, []byte("2024-03-01"), fp.msgs[0].Key)
	assert.Equal(t, out[0], fp.msgs[0].Value)

	require.NoError(t, p.Close())
	assert.True(t, fp.closed)
}
