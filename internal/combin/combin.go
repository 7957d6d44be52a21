// Package combin produces lazy sequences of k-subsets and uniform
// without-replacement samples, both used by the equity engine to walk the
// space of unseen-card completions.
package combin

import (
	"math"
	"math/bits"
	rand "math/rand/v2"
)

// Generator lazily yields every unordered k-subset of {0..n-1} in
// lexicographic order. It never materialises the full sequence and can be
// restarted with Reset. The zero-size subset is a valid degenerate case:
// a k=0 generator yields exactly one empty subset.
type Generator struct {
	n, k    int
	idx     []int
	started bool
	done    bool
}

// NewGenerator creates a generator over k-subsets of n elements.
// If k > n the sequence is empty.
func NewGenerator(n, k int) *Generator {
	return &Generator{n: n, k: k, idx: make([]int, k)}
}

// Next advances to the next subset, returning false when the sequence is
// exhausted.
func (g *Generator) Next() bool {
	if g.done {
		return false
	}

	if !g.started {
		g.started = true
		if g.k > g.n {
			g.done = true
			return false
		}
		for i := range g.idx {
			g.idx[i] = i
		}
		return true
	}

	// Find the rightmost index that can still advance.
	i := g.k - 1
	for i >= 0 && g.idx[i] == g.n-g.k+i {
		i--
	}
	if i < 0 {
		g.done = true
		return false
	}
	g.idx[i]++
	for j := i + 1; j < g.k; j++ {
		g.idx[j] = g.idx[j-1] + 1
	}
	return true
}

// Current returns the current subset as element indices. The slice is valid
// only until the next call to Next or Reset.
func (g *Generator) Current() []int {
	return g.idx
}

// Reset restarts the sequence from the first subset.
func (g *Generator) Reset() {
	g.started = false
	g.done = false
}

// Count returns the binomial coefficient C(n, k), saturating at
// math.MaxUint64 instead of overflowing. Used to size exact enumeration
// spaces before committing to them.
func Count(n, k int) uint64 {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	var result uint64 = 1
	for i := 1; i <= k; i++ {
		hi, lo := bits.Mul64(result, uint64(n-k+i))
		if hi != 0 {
			return math.MaxUint64
		}
		// The running product C(n-k+i, i) divides evenly at each step.
		result = lo / uint64(i)
	}
	return result
}

// Sampler draws k distinct elements uniformly without replacement using a
// partial Fisher-Yates shuffle over a reusable scratch permutation. A single
// Sampler is not safe for concurrent use; each worker owns its own.
type Sampler struct {
	scratch []int
}

// Sample appends k distinct indices from {0..n-1} to out, drawn uniformly
// using the supplied deterministic source, and returns the extended slice.
func (s *Sampler) Sample(n, k int, rng *rand.Rand, out []int) []int {
	if cap(s.scratch) < n {
		s.scratch = make([]int, n)
	}
	s.scratch = s.scratch[:n]
	for i := range s.scratch {
		s.scratch[i] = i
	}

	for i := 0; i < k; i++ {
		j := i + rng.IntN(n-i)
		s.scratch[i], s.scratch[j] = s.scratch[j], s.scratch[i]
		out = append(out, s.scratch[i])
	}
	return out
}
