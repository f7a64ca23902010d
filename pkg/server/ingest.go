package server

import (
	"context"
	"fmt"
	"time"

	"StabTrade/internal/domain/models"
	"StabTrade/internal/domain/repository"
	pkgch "StabTrade/pkg/clickhouse"
	applogger "StabTrade/pkg/logger"
)

// BarWriter stores bars for a symbol.
type BarWriter interface {
	InsertBars(ctx context.Context, symbol string, bars []models.Bar) error
}

// Ingest copies bars from a source into a bar store.
type Ingest struct {
	l        *applogger.Logger
	source   repository.BarSource
	store    BarWriter
	chClient *pkgch.Client
	symbol   string
}

func NewIngest(l *applogger.Logger, source repository.BarSource, store BarWriter, chClient *pkgch.Client, symbol string) *Ingest {
	if l == nil {
		l = applogger.Nop()
	}
	return &Ingest{l: l, source: source, store: store, chClient: chClient, symbol: symbol}
}

// Run loads every bar from the source and inserts it. It returns the number
// of bars written.
func (i *Ingest) Run(ctx context.Context) (int, error) {
	defer func() {
		if err := i.source.Close(); err != nil {
			i.l.Warn("source close error", applogger.Error(err))
		}
		if i.chClient != nil {
			if err := i.chClient.Close(); err != nil {
				i.l.Warn("clickhouse close error", applogger.Error(err))
			}
		}
	}()

	if i.symbol == "" {
		return 0, fmt.Errorf("ingest: symbol is required")
	}
	bars, err := i.source.LoadBars(ctx, i.symbol, time.Time{}, time.Time{})
	if err != nil {
		return 0, fmt.Errorf("ingest: %w", err)
	}
	if err := i.store.InsertBars(ctx, i.symbol, bars); err != nil {
		return 0, fmt.Errorf("ingest: %w", err)
	}
	i.l.Info("bars ingested", applogger.String("symbol", i.symbol), applogger.Int("bars", len(bars)))
	return len(bars), nil
}
