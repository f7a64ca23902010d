package models

import "time"

// DateLayout is the calendar day key format.
const DateLayout = "2006-01-02"

// Bar is one intraday observation row.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// DaySeries holds one calendar day of bars in ascending time order.
type DaySeries struct {
	Date   string `json:"date"`
	Symbol string `json:"symbol,omitempty"`
	Bars   []Bar  `json:"bars"`
}

// Closes returns the day's close prices in time order.
func (d DaySeries) Closes() []float64 {
	out := make([]float64, len(d.Bars))
	for i, b := range d.Bars {
		out[i] = b.Close
	}
	return out
}

// DayRecord is the per-day input to the decision rule.
type DayRecord struct {
	Date        string  `json:"date"`
	Symbol      string  `json:"symbol,omitempty"`
	Stability   float64 `json:"stability"`
	Open        float64 `json:"open"`         // first open of the day
	WindowClose float64 `json:"window_close"` // close at index WINDOW
	FinalClose  float64 `json:"final_close"`  // last close of the day
}

// YieldOutcome is the annualized yield for a day; Yield is 0 when no trade is
// taken. Reference prices are copied from the DayRecord for sinks.
type YieldOutcome struct {
	Date        string  `json:"date"`
	Symbol      string  `json:"symbol,omitempty"`
	Stability   float64 `json:"stability"`
	Open        float64 `json:"open,omitempty"`
	WindowClose float64 `json:"window_close,omitempty"`
	FinalClose  float64 `json:"final_close,omitempty"`
	Action      string  `json:"action"`
	StopLoss    bool    `json:"stop_loss"`
	Yield       float64 `json:"annual_yield"`
}

// DayResult pairs a day with its record and outcome, or the error that
// prevented them.
type DayResult struct {
	Date    string
	Record  DayRecord
	Outcome YieldOutcome
	Err     error
}

// OK reports whether the day was evaluated successfully.
func (r DayResult) OK() bool { return r.Err == nil }
