package usecase

import (
	"sort"
	"time"

	"StabTrade/internal/domain/models"
	domsvc "StabTrade/internal/domain/service"
	"StabTrade/internal/services/stability"
	"StabTrade/pkg/util"
)

// GroupByDay buckets bars by calendar day in loc. Bars inside a day are
// stably sorted by time and days are returned in chronological order.
func GroupByDay(symbol string, bars []models.Bar, loc *time.Location) []models.DaySeries {
	if len(bars) == 0 {
		return nil
	}
	index := make(map[string]int)
	days := make([]models.DaySeries, 0, 16)
	for _, b := range bars {
		key := util.DayKey(b.Time, loc)
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, models.DaySeries{Date: key, Symbol: symbol})
		}
		days[i].Bars = append(days[i].Bars, b)
	}

	for i := range days {
		bs := days[i].Bars
		sort.SliceStable(bs, func(a, b int) bool { return bs[a].Time.Before(bs[b].Time) })
	}
	sort.Slice(days, func(a, b int) bool { return days[a].Date < days[b].Date })
	return days
}

// BuildRecord computes the stability of a day's closes and picks the
// reference prices: the first open, the close at index window and the last
// close.
func BuildRecord(day models.DaySeries, est domsvc.StabilityEstimator) (models.DayRecord, error) {
	window := est.Window()
	if len(day.Bars) < window+1 {
		return models.DayRecord{}, &stability.InsufficientDataError{Have: len(day.Bars), Need: window + 1}
	}

	closes := day.Closes()
	score, err := est.Stability(closes)
	if err != nil {
		return models.DayRecord{}, err
	}

	return models.DayRecord{
		Date:        day.Date,
		Symbol:      day.Symbol,
		Stability:   score,
		Open:        day.Bars[0].Open,
		WindowClose: closes[window],
		FinalClose:  closes[len(closes)-1],
	}, nil
}
