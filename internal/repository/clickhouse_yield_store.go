package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"StabTrade/internal/domain/models"
	domrepo "StabTrade/internal/domain/repository"
	pkgch "StabTrade/pkg/clickhouse"
	"StabTrade/pkg/util"
)

// CHYieldStore writes outcomes into <db>.daily_yields.
type CHYieldStore struct {
	db    *sql.DB
	table string
}

func NewCHYieldStore(ch *pkgch.Client) *CHYieldStore {
	return &CHYieldStore{db: ch.DB(), table: ch.Database() + ".daily_yields"}
}

func (s *CHYieldStore) Name() string { return "clickhouse" }

func (s *CHYieldStore) Write(ctx context.Context, outcomes []models.YieldOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}
	values := make([]string, 0, len(outcomes))
	args := make([]any, 0, len(outcomes)*8)
	for _, o := range outcomes {
		day, ok := util.ParseDay(o.Date)
		if !ok {
			return fmt.Errorf("daily yield: invalid date '%s'", o.Date)
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, day, o.Symbol, o.Stability, o.Open, o.WindowClose, o.FinalClose, o.Action, o.Yield)
	}
	q := fmt.Sprintf("INSERT INTO %s (date, symbol, stability, open, window_close, final_close, action, yield) VALUES %s",
		s.table, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert daily yields: %w", err)
	}
	return nil
}

// Close is a no-op; the shared client is closed by its owner.
func (s *CHYieldStore) Close() error { return nil }

var _ domrepo.YieldSink = (*CHYieldStore)(nil)
