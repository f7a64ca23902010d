package repository

import (
	"context"
	"time"

	"StabTrade/internal/domain/models"
)

// BarSource supplies intraday bars for a symbol within [from, to].
// Zero from/to means unbounded.
type BarSource interface {
	LoadBars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error)
	Close() error
}

// YieldSink persists or forwards yield outcomes. Outcomes arrive in
// chronological order.
type YieldSink interface {
	Name() string
	Write(ctx context.Context, outcomes []models.YieldOutcome) error
	Close() error
}

type Metrics interface {
	RecordDayEvaluated(symbol string, stability, yield float64)
	RecordDayFailed(kind string)
	RecordSinkWrite(sink string, n int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
