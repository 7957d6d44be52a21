package combin

import (
	"math"
	"testing"

	"github.com/lox/poker-equity/internal/randutil"
)

func TestGeneratorYieldsAllSubsets(t *testing.T) {
	g := NewGenerator(5, 3)

	var subsets [][]int
	for g.Next() {
		cur := g.Current()
		subset := make([]int, len(cur))
		copy(subset, cur)
		subsets = append(subsets, subset)
	}

	if len(subsets) != 10 {
		t.Fatalf("expected C(5,3)=10 subsets, got %d", len(subsets))
	}

	seen := make(map[[3]int]bool)
	for _, s := range subsets {
		if !(s[0] < s[1] && s[1] < s[2]) {
			t.Errorf("subset %v is not strictly increasing", s)
		}
		key := [3]int{s[0], s[1], s[2]}
		if seen[key] {
			t.Errorf("subset %v yielded twice", s)
		}
		seen[key] = true
	}
}

func TestGeneratorEmptySubset(t *testing.T) {
	g := NewGenerator(5, 0)
	if !g.Next() {
		t.Fatal("k=0 should yield exactly one empty subset")
	}
	if len(g.Current()) != 0 {
		t.Errorf("expected empty subset, got %v", g.Current())
	}
	if g.Next() {
		t.Error("k=0 should yield only one subset")
	}
}

func TestGeneratorKExceedsN(t *testing.T) {
	g := NewGenerator(3, 4)
	if g.Next() {
		t.Error("k>n should yield no subsets")
	}
}

func TestGeneratorReset(t *testing.T) {
	g := NewGenerator(4, 2)
	count := 0
	for g.Next() {
		count++
	}
	g.Reset()
	count2 := 0
	for g.Next() {
		count2++
	}
	if count != 6 || count2 != 6 {
		t.Errorf("expected 6 subsets on both passes, got %d and %d", count, count2)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		n, k     int
		expected uint64
	}{
		{52, 0, 1},
		{52, 1, 52},
		{52, 2, 1326},
		{52, 5, 2598960},
		{45, 2, 990},
		{48, 5, 1712304},
		{5, 6, 0},
		{0, 0, 1},
	}
	for _, tt := range tests {
		if got := Count(tt.n, tt.k); got != tt.expected {
			t.Errorf("Count(%d,%d): expected %d, got %d", tt.n, tt.k, tt.expected, got)
		}
	}

	if got := Count(200, 100); got != math.MaxUint64 {
		t.Errorf("expected saturation at MaxUint64, got %d", got)
	}
}

func TestSamplerDistinct(t *testing.T) {
	rng := randutil.New(42)
	var s Sampler

	for trial := 0; trial < 100; trial++ {
		out := s.Sample(45, 5, rng, nil)
		if len(out) != 5 {
			t.Fatalf("expected 5 samples, got %d", len(out))
		}
		seen := make(map[int]bool)
		for _, idx := range out {
			if idx < 0 || idx >= 45 {
				t.Fatalf("index %d out of range", idx)
			}
			if seen[idx] {
				t.Fatalf("index %d drawn twice in one sample", idx)
			}
			seen[idx] = true
		}
	}
}

func TestSamplerReproducible(t *testing.T) {
	var s1, s2 Sampler
	a := s1.Sample(52, 7, randutil.New(7), nil)
	b := s2.Sample(52, 7, randutil.New(7), nil)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed should give identical draws: %v vs %v", a, b)
		}
	}
}
