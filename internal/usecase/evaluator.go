package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"StabTrade/internal/domain/models"
	drepo "StabTrade/internal/domain/repository"
	domsvc "StabTrade/internal/domain/service"
	"StabTrade/internal/services/stability"
	applogger "StabTrade/pkg/logger"
)

// Failure policies for days that cannot be evaluated.
const (
	OnErrorSkip = "skip"
	OnErrorFail = "fail"
)

// DayEvaluator turns day series into yield outcomes.
type DayEvaluator struct {
	est     domsvc.StabilityEstimator
	engine  domsvc.DecisionEngine
	metrics drepo.Metrics
	workers int
	onError string
	l       *applogger.Logger
}

// NewDayEvaluator creates a DayEvaluator. workers bounds the number of days
// evaluated concurrently.
func NewDayEvaluator(
	est domsvc.StabilityEstimator,
	engine domsvc.DecisionEngine,
	metrics drepo.Metrics,
	workers int,
	onError string,
) *DayEvaluator {
	if workers < 1 {
		workers = 1
	}
	if onError != OnErrorFail {
		onError = OnErrorSkip
	}
	return &DayEvaluator{
		est:     est,
		engine:  engine,
		metrics: metrics,
		workers: workers,
		onError: onError,
		l:       applogger.Nop(),
	}
}

// SetLogger injects a structured logger.
func (e *DayEvaluator) SetLogger(l *applogger.Logger) {
	if l != nil {
		e.l = l
	}
}

// Evaluate evaluates every day independently and returns one result per day
// in chronological order. With the fail policy the first failing day's
// DayError is returned alongside the results.
func (e *DayEvaluator) Evaluate(ctx context.Context, days []models.DaySeries) ([]models.DayResult, error) {
	start := time.Now()
	results := make([]models.DayResult, len(days))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range days {
		day := days[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = models.DayResult{Date: day.Date, Err: stability.WrapDay(day.Date, err)}
				return nil
			}
			results[i] = e.EvaluateDay(day)
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(results, func(a, b int) bool { return results[a].Date < results[b].Date })
	e.metrics.RecordLatency("evaluate", time.Since(start).Seconds())

	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("evaluate: %w", err)
	}
	if e.onError == OnErrorFail {
		for _, r := range results {
			if r.Err != nil {
				return results, r.Err
			}
		}
	}
	return results, nil
}

// EvaluateDay builds the day's record and applies the decision rule.
func (e *DayEvaluator) EvaluateDay(day models.DaySeries) models.DayResult {
	res := models.DayResult{Date: day.Date}

	record, err := BuildRecord(day, e.est)
	if err != nil {
		return e.fail(res, err)
	}
	res.Record = record

	d, err := e.engine.Decide(record.Stability, record.Open, record.WindowClose, record.FinalClose)
	if err != nil {
		return e.fail(res, err)
	}

	res.Outcome = models.YieldOutcome{
		Date:        record.Date,
		Symbol:      record.Symbol,
		Stability:   record.Stability,
		Open:        record.Open,
		WindowClose: record.WindowClose,
		FinalClose:  record.FinalClose,
		Action:      string(d.Action),
		StopLoss:    d.StopLoss,
		Yield:       d.Yield,
	}
	e.metrics.RecordDayEvaluated(record.Symbol, record.Stability, d.Yield)
	return res
}

func (e *DayEvaluator) fail(res models.DayResult, err error) models.DayResult {
	res.Err = stability.WrapDay(res.Date, err)
	kind := FailureKind(err)
	e.metrics.RecordDayFailed(kind)
	e.l.Warn("day evaluation failed",
		applogger.String("date", res.Date),
		applogger.String("reason", kind),
		applogger.Error(err))
	return res
}

// FailureKind classifies an evaluation error for metrics and logs.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, stability.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, stability.ErrDomain):
		return "domain"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "other"
	}
}

// Outcomes returns the outcomes of the successful results, in order.
func Outcomes(results []models.DayResult) []models.YieldOutcome {
	out := make([]models.YieldOutcome, 0, len(results))
	for _, r := range results {
		if r.OK() {
			out = append(out, r.Outcome)
		}
	}
	return out
}
