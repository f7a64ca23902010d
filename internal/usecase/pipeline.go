package usecase

import (
	"context"
	"fmt"
	"time"

	"StabTrade/internal/domain/models"
	drepo "StabTrade/internal/domain/repository"
	applogger "StabTrade/pkg/logger"
)

// RunSummary describes a batch run.
type RunSummary struct {
	Bars      int
	Days      int
	Evaluated int
	Failed    []models.DayResult
}

// BatchPipeline loads bars, evaluates each day and writes the outcomes.
type BatchPipeline struct {
	source    drepo.BarSource
	evaluator *DayEvaluator
	processor *YieldProcessor
	symbol    string
	from, to  time.Time
	loc       *time.Location
	l         *applogger.Logger
}

func NewBatchPipeline(
	source drepo.BarSource,
	evaluator *DayEvaluator,
	processor *YieldProcessor,
	symbol string,
	from, to time.Time,
	loc *time.Location,
) *BatchPipeline {
	if loc == nil {
		loc = time.UTC
	}
	return &BatchPipeline{
		source:    source,
		evaluator: evaluator,
		processor: processor,
		symbol:    symbol,
		from:      from,
		to:        to,
		loc:       loc,
		l:         applogger.Nop(),
	}
}

// SetLogger injects a structured logger.
func (p *BatchPipeline) SetLogger(l *applogger.Logger) {
	if l != nil {
		p.l = l
	}
}

// Run executes one batch. Successful outcomes are written even when some
// days failed under the skip policy.
func (p *BatchPipeline) Run(ctx context.Context) (RunSummary, error) {
	var sum RunSummary

	bars, err := p.source.LoadBars(ctx, p.symbol, p.from, p.to)
	if err != nil {
		return sum, fmt.Errorf("load bars: %w", err)
	}
	sum.Bars = len(bars)

	days := GroupByDay(p.symbol, bars, p.loc)
	sum.Days = len(days)
	p.l.Info("bars grouped",
		applogger.String("symbol", p.symbol),
		applogger.Int("bars", len(bars)),
		applogger.Int("days", len(days)))

	results, err := p.evaluator.Evaluate(ctx, days)
	for _, r := range results {
		if !r.OK() {
			sum.Failed = append(sum.Failed, r)
		}
	}
	if err != nil {
		return sum, err
	}

	outcomes := Outcomes(results)
	sum.Evaluated = len(outcomes)
	if err := p.processor.Process(ctx, outcomes); err != nil {
		return sum, fmt.Errorf("write outcomes: %w", err)
	}

	p.l.Info("batch complete",
		applogger.Int("evaluated", sum.Evaluated),
		applogger.Int("failed", len(sum.Failed)),
		applogger.Strings("sinks", p.processor.Sinks()))
	return sum, nil
}
