// Package statistics estimates the sampling error of Monte Carlo equity
// results, so callers can report how tight an estimate is rather than just
// its point value.
package statistics

import "math"

// Estimate summarises the distribution of per-deal pot share for one player:
// 1 for an outright win, 1/k for a k-way split, 0 for a loss.
type Estimate struct {
	Mean     float64
	StdError float64
	Deals    uint64
}

// EquityEstimate derives mean and standard error from outcome counts.
// splitCounts[k-2] holds the number of deals tied k ways.
func EquityEstimate(wins uint64, splitCounts []uint64, total uint64) Estimate {
	if total == 0 {
		return Estimate{}
	}

	sum := float64(wins)
	sumSq := float64(wins)
	for i, c := range splitCounts {
		if c == 0 {
			continue
		}
		k := float64(i + 2)
		sum += float64(c) / k
		sumSq += float64(c) / (k * k)
	}

	n := float64(total)
	est := Estimate{Mean: sum / n, Deals: total}
	if total < 2 {
		return est
	}

	variance := (sumSq - n*est.Mean*est.Mean) / (n - 1)
	if variance < 0 {
		// Guard against tiny negative values from floating point rounding.
		variance = 0
	}
	est.StdError = math.Sqrt(variance / n)
	return est
}

// MarginOfError returns the 95% margin of error.
func (e Estimate) MarginOfError() float64 {
	return 1.96 * e.StdError
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean,
// clamped to [0, 1].
func (e Estimate) ConfidenceInterval95() (float64, float64) {
	margin := e.MarginOfError()
	return math.Max(0, e.Mean-margin), math.Min(1, e.Mean+margin)
}
