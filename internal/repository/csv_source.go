package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"StabTrade/internal/domain/models"
	domrepo "StabTrade/internal/domain/repository"
	applogger "StabTrade/pkg/logger"
	"StabTrade/pkg/util"
)

// CSVBarSource reads bars from a CSV file whose first column is a combined
// "date time" stamp and whose header names the open and close columns.
type CSVBarSource struct {
	path string
	loc  *time.Location
	l    *applogger.Logger
}

func NewCSVBarSource(path string, loc *time.Location) *CSVBarSource {
	if loc == nil {
		loc = time.UTC
	}
	return &CSVBarSource{path: path, loc: loc, l: applogger.Nop()}
}

// SetLogger injects a structured logger.
func (s *CSVBarSource) SetLogger(l *applogger.Logger) {
	if l != nil {
		s.l = l
	}
}

type csvColumns struct {
	open, high, low, close, volume int
}

func locateColumns(header []string) (csvColumns, error) {
	cols := csvColumns{open: -1, high: -1, low: -1, close: -1, volume: -1}
	for i, name := range header {
		if i == 0 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "open":
			cols.open = i
		case "high":
			cols.high = i
		case "low":
			cols.low = i
		case "close":
			cols.close = i
		case "volume", "vol":
			cols.volume = i
		}
	}
	if cols.open < 0 || cols.close < 0 {
		return cols, fmt.Errorf("header must name open and close columns, got %v", header)
	}
	return cols, nil
}

// LoadBars reads every row within [from, to]; zero bounds are open. symbol is
// ignored since a CSV file carries a single instrument.
func (s *CSVBarSource) LoadBars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	if s.path == "" {
		return nil, fmt.Errorf("csv source: input path is required")
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("csv source: %w", err)
	}
	defer f.Close()

	bars, err := s.read(ctx, f, from, to)
	if err != nil {
		return nil, fmt.Errorf("csv source %s: %w", s.path, err)
	}
	s.l.Info("csv bars loaded",
		applogger.String("path", s.path),
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(bars)))
	return bars, nil
}

func (s *CSVBarSource) read(ctx context.Context, r io.Reader, from, to time.Time) ([]models.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	bars := make([]models.Bar, 0, 1024)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}

		b, err := s.parseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if !from.IsZero() && b.Time.Before(from) {
			continue
		}
		if !to.IsZero() && b.Time.After(to) {
			continue
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func (s *CSVBarSource) parseRow(rec []string, cols csvColumns) (models.Bar, error) {
	var b models.Bar
	date, clock := util.SplitDateTime(rec[0])
	stamp := date
	if clock != "" {
		stamp = date + " " + clock
	}
	ts, ok := util.ParseTimestamp(stamp, s.loc)
	if !ok {
		return b, fmt.Errorf("invalid timestamp '%s'", rec[0])
	}
	b.Time = ts

	var err error
	if b.Open, err = field(rec, cols.open, "open", true); err != nil {
		return b, err
	}
	if b.Close, err = field(rec, cols.close, "close", true); err != nil {
		return b, err
	}
	if b.High, err = field(rec, cols.high, "high", false); err != nil {
		return b, err
	}
	if b.Low, err = field(rec, cols.low, "low", false); err != nil {
		return b, err
	}
	if b.Volume, err = field(rec, cols.volume, "volume", false); err != nil {
		return b, err
	}
	return b, nil
}

func field(rec []string, idx int, name string, required bool) (float64, error) {
	if idx < 0 || idx >= len(rec) || strings.TrimSpace(rec[idx]) == "" {
		if required {
			return 0, fmt.Errorf("missing %s", name)
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s'", name, rec[idx])
	}
	return v, nil
}

func (s *CSVBarSource) Close() error { return nil }

var _ domrepo.BarSource = (*CSVBarSource)(nil)
