package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"StabTrade/internal/domain/models"
	drepo "StabTrade/internal/domain/repository"
	applogger "StabTrade/pkg/logger"
)

// YieldProcessor routes yield outcomes to every configured sink.
type YieldProcessor struct {
	sinks   []drepo.YieldSink
	metrics drepo.Metrics
	l       *applogger.Logger
}

// NewYieldProcessor creates a new YieldProcessor instance.
func NewYieldProcessor(metrics drepo.Metrics, sinks ...drepo.YieldSink) *YieldProcessor {
	return &YieldProcessor{sinks: sinks, metrics: metrics, l: applogger.Nop()}
}

// SetLogger injects a structured logger.
func (p *YieldProcessor) SetLogger(l *applogger.Logger) {
	if l != nil {
		p.l = l
	}
}

// Sinks returns the sink names in routing order.
func (p *YieldProcessor) Sinks() []string {
	names := make([]string, len(p.sinks))
	for i, s := range p.sinks {
		names[i] = s.Name()
	}
	return names
}

// Process writes outcomes, sorted by date, to each sink. A failing sink
// does not stop the others; all failures are returned joined.
func (p *YieldProcessor) Process(ctx context.Context, outcomes []models.YieldOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}
	ordered := make([]models.YieldOutcome, len(outcomes))
	copy(ordered, outcomes)
	sort.SliceStable(ordered, func(a, b int) bool { return ordered[a].Date < ordered[b].Date })

	var errs []error
	for _, s := range p.sinks {
		start := time.Now()
		if err := s.Write(ctx, ordered); err != nil {
			p.metrics.RecordError("sink_" + s.Name())
			p.l.Error("sink write failed",
				applogger.String("sink", s.Name()),
				applogger.Int("rows", len(ordered)),
				applogger.Error(err))
			errs = append(errs, fmt.Errorf("sink %s: %w", s.Name(), err))
			continue
		}
		p.metrics.RecordSinkWrite(s.Name(), len(ordered))
		p.metrics.RecordLatency("sink_"+s.Name(), time.Since(start).Seconds())
		p.l.Debug("sink write ok",
			applogger.String("sink", s.Name()),
			applogger.Int("rows", len(ordered)),
			applogger.Duration("duration_ms", time.Since(start)))
	}
	return errors.Join(errs...)
}

// Close closes all sinks.
func (p *YieldProcessor) Close() error {
	var errs []error
	for _, s := range p.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
