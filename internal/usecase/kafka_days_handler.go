package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"StabTrade/internal/domain/models"
	drepo "StabTrade/internal/domain/repository"
	pkgkafka "StabTrade/pkg/kafka"
	"StabTrade/pkg/util"
)

// KafkaDaysHandler evaluates one day per Kafka message and forwards the
// outcome to the yield processor.
type KafkaDaysHandler struct {
	topic     string
	evaluator *DayEvaluator
	processor *YieldProcessor
	metrics   drepo.Metrics
	loc       *time.Location
}

// NewKafkaDaysHandler builds the handler; loc decides which calendar day a
// bar belongs to and defaults to UTC.
func NewKafkaDaysHandler(topic string, evaluator *DayEvaluator, processor *YieldProcessor, metrics drepo.Metrics, loc *time.Location) *KafkaDaysHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &KafkaDaysHandler{topic: topic, evaluator: evaluator, processor: processor, metrics: metrics, loc: loc}
}

func (h *KafkaDaysHandler) Topic() string { return h.topic }

// Handle evaluates one message of the form {date, symbol, bars[]}. Every bar
// must fall on date in the handler's location. Malformed messages and core
// evaluation errors are deterministic and are returned as permanent so the
// consumer sends them to the DLQ without retrying.
func (h *KafkaDaysHandler) Handle(ctx context.Context, b []byte) error {
	start := time.Now()
	var day models.DaySeries
	if err := json.Unmarshal(b, &day); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return pkgkafka.Permanent(fmt.Errorf("decode day: %w", err))
	}
	if _, ok := util.ParseDay(day.Date); !ok {
		h.metrics.RecordError("consumer_invalid")
		return pkgkafka.Permanent(fmt.Errorf("decode day: invalid date '%s'", day.Date))
	}
	for i, bar := range day.Bars {
		if key := util.DayKey(bar.Time, h.loc); key != day.Date {
			h.metrics.RecordError("consumer_invalid")
			return pkgkafka.Permanent(fmt.Errorf("decode day %s: bar %d falls on %s", day.Date, i, key))
		}
	}
	sort.SliceStable(day.Bars, func(a, c int) bool { return day.Bars[a].Time.Before(day.Bars[c].Time) })

	res := h.evaluator.EvaluateDay(day)
	if res.Err != nil {
		return pkgkafka.Permanent(res.Err)
	}

	if err := h.processor.Process(ctx, []models.YieldOutcome{res.Outcome}); err != nil {
		h.metrics.RecordError("consumer_sink")
		return err
	}
	h.metrics.RecordLatency("consumer_day", time.Since(start).Seconds())
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaDaysHandler)(nil)
