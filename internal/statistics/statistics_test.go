package statistics

import (
	"math"
	"testing"
)

func TestEquityEstimate_Empty(t *testing.T) {
	est := EquityEstimate(0, nil, 0)

	if est.Mean != 0 {
		t.Errorf("Expected mean of 0 for empty estimate, got %f", est.Mean)
	}
	if est.StdError != 0 {
		t.Errorf("Expected stderr of 0 for empty estimate, got %f", est.StdError)
	}
}

func TestEquityEstimate_SingleDeal(t *testing.T) {
	est := EquityEstimate(1, nil, 1)

	if est.Mean != 1 {
		t.Errorf("Expected mean of 1, got %f", est.Mean)
	}
	if est.StdError != 0 {
		t.Errorf("Expected stderr of 0 for a single deal, got %f", est.StdError)
	}
}

func TestEquityEstimate_AllWinsHasNoError(t *testing.T) {
	est := EquityEstimate(1000, nil, 1000)

	if est.Mean != 1 {
		t.Errorf("Expected mean of 1, got %f", est.Mean)
	}
	if est.StdError != 0 {
		t.Errorf("Expected zero stderr for a constant outcome, got %f", est.StdError)
	}
}

func TestEquityEstimate_CoinFlip(t *testing.T) {
	// 500 wins, 500 losses: mean 0.5, per-deal variance 0.25.
	est := EquityEstimate(500, nil, 1000)

	if est.Mean != 0.5 {
		t.Errorf("Expected mean of 0.5, got %f", est.Mean)
	}

	wantSE := math.Sqrt(0.25 * 1000 / 999 / 1000)
	if math.Abs(est.StdError-wantSE) > 1e-12 {
		t.Errorf("Expected stderr %f, got %f", wantSE, est.StdError)
	}
}

func TestEquityEstimate_Splits(t *testing.T) {
	// 10 two-way splits and nothing else: every deal pays exactly 0.5.
	est := EquityEstimate(0, []uint64{10}, 10)

	if est.Mean != 0.5 {
		t.Errorf("Expected mean of 0.5, got %f", est.Mean)
	}
	if est.StdError > 1e-9 {
		t.Errorf("Expected near-zero stderr for constant payouts, got %f", est.StdError)
	}

	// Three-way splits pay 1/3 each.
	est = EquityEstimate(0, []uint64{0, 9}, 9)
	if math.Abs(est.Mean-1.0/3.0) > 1e-12 {
		t.Errorf("Expected mean of 1/3, got %f", est.Mean)
	}
}

func TestConfidenceInterval95(t *testing.T) {
	est := EquityEstimate(500, nil, 1000)
	lo, hi := est.ConfidenceInterval95()

	if lo >= est.Mean || hi <= est.Mean {
		t.Errorf("Interval [%f, %f] should straddle the mean %f", lo, hi, est.Mean)
	}
	if math.Abs((hi-lo)/2-est.MarginOfError()) > 1e-12 {
		t.Errorf("Interval half-width should equal the margin of error")
	}

	// Clamped at the boundaries.
	est = EquityEstimate(1, []uint64{1}, 2)
	lo, hi = est.ConfidenceInterval95()
	if lo < 0 || hi > 1 {
		t.Errorf("Interval [%f, %f] should be clamped to [0, 1]", lo, hi)
	}
}
