package server

import (
	"context"
	"errors"

	"StabTrade/internal/domain/repository"
	"StabTrade/internal/usecase"
	pkgch "StabTrade/pkg/clickhouse"
	applogger "StabTrade/pkg/logger"
)

// Batch runs the pipeline once and releases every resource it holds.
type Batch struct {
	l         *applogger.Logger
	pipeline  *usecase.BatchPipeline
	source    repository.BarSource
	processor *usecase.YieldProcessor
	chClient  *pkgch.Client
}

func NewBatch(
	l *applogger.Logger,
	pipeline *usecase.BatchPipeline,
	source repository.BarSource,
	processor *usecase.YieldProcessor,
	chClient *pkgch.Client,
) *Batch {
	if l == nil {
		l = applogger.Nop()
	}
	return &Batch{l: l, pipeline: pipeline, source: source, processor: processor, chClient: chClient}
}

// Run executes the pipeline. Failed days are logged individually.
func (b *Batch) Run(ctx context.Context) (usecase.RunSummary, error) {
	sum, err := b.pipeline.Run(ctx)
	for _, r := range sum.Failed {
		b.l.Warn("day not evaluated",
			applogger.String("date", r.Date),
			applogger.String("reason", usecase.FailureKind(r.Err)),
			applogger.Error(r.Err))
	}
	if cerr := b.Close(); cerr != nil {
		b.l.Warn("batch close error", applogger.Error(cerr))
	}
	return sum, err
}

// Close flushes sinks and closes the source and clients.
func (b *Batch) Close() error {
	var errs []error
	if err := b.processor.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := b.source.Close(); err != nil {
		errs = append(errs, err)
	}
	if b.chClient != nil {
		if err := b.chClient.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
