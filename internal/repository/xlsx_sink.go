package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/xuri/excelize/v2"

	"StabTrade/internal/domain/models"
	domrepo "StabTrade/internal/domain/repository"
)

// DefaultSheetName is the worksheet holding the yields.
const DefaultSheetName = "annual yield"

// XLSXSink keeps every outcome it has seen, one per date, and rewrites the
// workbook on each Write so rows stay in chronological order.
type XLSXSink struct {
	path     string
	sheet    string
	detailed bool

	mu   sync.Mutex
	rows map[string]models.YieldOutcome
}

func NewXLSXSink(path, sheet string, detailed bool) *XLSXSink {
	if sheet == "" {
		sheet = DefaultSheetName
	}
	return &XLSXSink{path: path, sheet: sheet, detailed: detailed, rows: make(map[string]models.YieldOutcome)}
}

func (s *XLSXSink) Name() string { return "xlsx" }

func (s *XLSXSink) Write(_ context.Context, outcomes []models.YieldOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range outcomes {
		s.rows[o.Date] = o
	}
	return s.save()
}

func (s *XLSXSink) header() []any {
	h := []any{"date", "annual yield"}
	if s.detailed {
		h = append(h, "stability", "open", "window_close", "final_close", "action")
	}
	return h
}

func (s *XLSXSink) save() error {
	dates := make([]string, 0, len(s.rows))
	for d := range s.rows {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", s.sheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	header := s.header()
	if err := f.SetSheetRow(s.sheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}

	for i, d := range dates {
		o := s.rows[d]
		row := []any{o.Date, o.Yield}
		if s.detailed {
			row = append(row, o.Stability, o.Open, o.WindowClose, o.FinalClose, o.Action)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx row %s: %w", d, err)
		}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("xlsx dir: %w", err)
		}
	}
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("xlsx save: %w", err)
	}
	return nil
}

func (s *XLSXSink) Close() error { return nil }

var _ domrepo.YieldSink = (*XLSXSink)(nil)
