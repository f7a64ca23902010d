package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"StabTrade/internal/domain/models"
	domrepo "StabTrade/internal/domain/repository"
	pkgch "StabTrade/pkg/clickhouse"
	applogger "StabTrade/pkg/logger"
)

// CHBarStore reads and writes intraday bars in <db>.bars.
type CHBarStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHBarStore(ch *pkgch.Client) *CHBarStore {
	return &CHBarStore{db: ch.DB(), table: ch.Database() + ".bars", l: applogger.Nop()}
}

// SetLogger injects a structured logger.
func (s *CHBarStore) SetLogger(l *applogger.Logger) {
	if l != nil {
		s.l = l
	}
}

func (s *CHBarStore) LoadBars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	start := time.Now()
	q := fmt.Sprintf("SELECT ts, open, high, low, close, volume FROM %s WHERE symbol = ?", s.table)
	args := []any{symbol}
	switch {
	case !from.IsZero() && !to.IsZero():
		q += " AND ts BETWEEN ? AND ?"
		args = append(args, from, to)
	case !from.IsZero():
		q += " AND ts >= ?"
		args = append(args, from)
	case !to.IsZero():
		q += " AND ts <= ?"
		args = append(args, to)
	}
	q += " ORDER BY ts"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		s.l.Error("clickhouse load_bars query error",
			applogger.String("table", s.table),
			applogger.String("symbol", symbol),
			applogger.Error(err))
		return nil, fmt.Errorf("load bars: %w", err)
	}
	defer rows.Close()

	out := make([]models.Bar, 0, 1024)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Time, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	s.l.Info("clickhouse load_bars ok",
		applogger.String("table", s.table),
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)))
	return out, nil
}

// InsertBars writes bars for symbol in multi-row batches.
func (s *CHBarStore) InsertBars(ctx context.Context, symbol string, bars []models.Bar) error {
	const chunkSize = 2000
	for start := 0; start < len(bars); start += chunkSize {
		end := min(start+chunkSize, len(bars))

		values := make([]string, 0, end-start)
		args := make([]any, 0, (end-start)*7)
		for _, b := range bars[start:end] {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args, symbol, b.Time, b.Open, b.High, b.Low, b.Close, b.Volume)
		}
		q := fmt.Sprintf("INSERT INTO %s (symbol, ts, open, high, low, close, volume) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert bars: %w", err)
		}
	}
	return nil
}

// Close is a no-op; the shared client is closed by its owner.
func (s *CHBarStore) Close() error { return nil }

var _ domrepo.BarSource = (*CHBarStore)(nil)
