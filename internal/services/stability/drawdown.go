package stability

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// MaxDrawdown returns min(1 - peak/x) over the prefix seq[:obsLen+1], where
// peak is the prefix maximum. The result is 0 when no point sits below the peak.
func MaxDrawdown(seq []float64, obsLen int) (float64, error) {
	prefix, err := observationPrefix("max_drawdown", seq, obsLen)
	if err != nil {
		return 0, err
	}
	return minRatio(prefix, floats.Max(prefix)), nil
}

// MaxReverse mirrors MaxDrawdown with the prefix minimum as the reference
// point. It reduces with min as well, so for positive prices the result is
// always 0 at the trough itself.
func MaxReverse(seq []float64, obsLen int) (float64, error) {
	prefix, err := observationPrefix("max_reverse", seq, obsLen)
	if err != nil {
		return 0, err
	}
	return minRatio(prefix, floats.Min(prefix)), nil
}

func observationPrefix(op string, seq []float64, obsLen int) ([]float64, error) {
	if obsLen < 0 {
		return nil, &DomainError{Op: op, Index: -1, Reason: "negative observation length"}
	}
	if len(seq) == 0 {
		return nil, &DomainError{Op: op, Index: -1, Reason: "empty observation sequence"}
	}
	if obsLen >= len(seq) {
		return nil, &DomainError{Op: op, Index: obsLen, Reason: "observation length beyond sequence end"}
	}
	prefix := seq[:obsLen+1]
	for i, v := range prefix {
		if v == 0 {
			return nil, &DomainError{Op: op, Index: i, Value: v, Reason: "zero price"}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &DomainError{Op: op, Index: i, Value: v, Reason: "non-finite price"}
		}
	}
	return prefix, nil
}

func minRatio(prefix []float64, ref float64) float64 {
	out := math.Inf(1)
	for _, v := range prefix {
		if r := 1 - ref/v; r < out {
			out = r
		}
	}
	return out
}
