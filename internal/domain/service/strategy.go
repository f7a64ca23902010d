package service

import "StabTrade/internal/services/stability"

// StabilityEstimator turns a day's close sequence into a stability score.
type StabilityEstimator interface {
	Window() int
	Stability(closes []float64) (float64, error)
}

// DecisionEngine maps a stability score and reference prices to a yield.
type DecisionEngine interface {
	Decide(score, open, tradeClose, endClose float64) (stability.Decision, error)
}

var (
	_ StabilityEstimator = (*stability.Estimator)(nil)
	_ DecisionEngine     = (*stability.DecisionEngine)(nil)
)
