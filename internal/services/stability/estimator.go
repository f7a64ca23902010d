package stability

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Estimator aggregates drawdown metrics over the first Window prefixes of a
// day into a single stability score.
type Estimator struct {
	window int
}

func NewEstimator(window int) *Estimator {
	return &Estimator{window: window}
}

// Window returns the number of prefixes averaged per score.
func (e *Estimator) Window() int { return e.window }

// Stability returns -min(avg(maxReverse), avg(maxDrawdown)) over obsLen 0..window-1.
// seq must hold at least window+1 observations.
func (e *Estimator) Stability(seq []float64) (float64, error) {
	if e.window < 1 {
		return 0, &InsufficientDataError{Have: len(seq), Need: 2}
	}
	if len(seq) < e.window+1 {
		return 0, &InsufficientDataError{Have: len(seq), Need: e.window + 1}
	}

	drawdowns := make([]float64, e.window)
	reverses := make([]float64, e.window)
	for i := 0; i < e.window; i++ {
		dd, err := MaxDrawdown(seq, i)
		if err != nil {
			return 0, err
		}
		rv, err := MaxReverse(seq, i)
		if err != nil {
			return 0, err
		}
		drawdowns[i] = dd
		reverses[i] = rv
	}

	avgDrawdown := stat.Mean(drawdowns, nil)
	avgReverse := stat.Mean(reverses, nil)
	return -math.Min(avgReverse, avgDrawdown), nil
}
