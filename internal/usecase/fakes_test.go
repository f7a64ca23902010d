package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"StabTrade/internal/domain/models"
)

type fakeMetrics struct {
	mu        sync.Mutex
	evaluated int
	failed    map[string]int
	written   map[string]int
	errors    map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{failed: map[string]int{}, written: map[string]int{}, errors: map[string]int{}}
}

func (m *fakeMetrics) RecordDayEvaluated(string, float64, float64) {
	m.mu.Lock()
	m.evaluated++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordDayFailed(kind string) {
	m.mu.Lock()
	m.failed[kind]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordSinkWrite(sink string, n int) {
	m.mu.Lock()
	m.written[sink] += n
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordLatency(string, float64) {}

type fakeSink struct {
	name   string
	err    error
	got    [][]models.YieldOutcome
	closed bool
}

func (s *fakeSink) Name() string { return s.name }

func (s *fakeSink) Write(_ context.Context, outcomes []models.YieldOutcome) error {
	if s.err != nil {
		return s.err
	}
	s.got = append(s.got, outcomes)
	return nil
}

func (s *fakeSink) Close() error {
	s.closed = true
	return nil
}

type fakeSource struct {
	bars []models.Bar
	err  error
}

func (s *fakeSource) LoadBars(context.Context, string, time.Time, time.Time) ([]models.Bar, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.bars, nil
}

func (s *fakeSource) Close() error { return nil }

var errSinkDown = errors.New("sink down")

// dayBars builds one bar per minute on date starting at 09:00 UTC. The first
// bar's open is open; every bar's close comes from closes.
func dayBars(date string, open float64, closes ...float64) []models.Bar {
	d, _ := time.Parse("2006-01-02", date)
	start := d.Add(9 * time.Hour)
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{Time: start.Add(time.Duration(i) * time.Minute), Open: c, Close: c}
	}
	if len(bars) > 0 {
		bars[0].Open = open
	}
	return bars
}
