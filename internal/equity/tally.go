package equity

import (
	"github.com/lox/poker-equity/internal/evaluator"
)

// tally accumulates per-player outcome counts for one worker. All counters are
// integers scaled by the deal weight, so exact-mode arithmetic stays rational
// until the final division into percentages. Merging tallies is a plain
// elementwise sum: associative and commutative, so merge order never affects
// the result.
type tally struct {
	wins       []uint64   // weighted deals won outright, per player
	splits     [][]uint64 // weighted k-way ties, per player, index k-2
	categories [][]uint64 // weighted final hand categories, per player
	deals      uint64     // total weighted deals
}

func newTally(players int) *tally {
	t := &tally{
		wins:       make([]uint64, players),
		splits:     make([][]uint64, players),
		categories: make([][]uint64, players),
	}
	for i := 0; i < players; i++ {
		t.splits[i] = make([]uint64, players-1)
		t.categories[i] = make([]uint64, int(evaluator.StraightFlush)+1)
	}
	return t
}

// record folds one completed deal into the tally. strengths holds every
// player's evaluated hand; weight is the deal's integer weight (products of
// range combo weights, 1 for uniform deals).
func (t *tally) record(strengths []evaluator.HandStrength, weight uint64) {
	best := strengths[0]
	for _, s := range strengths[1:] {
		if s.Compare(best) > 0 {
			best = s
		}
	}

	winners := 0
	for _, s := range strengths {
		if s.Compare(best) == 0 {
			winners++
		}
	}

	for i, s := range strengths {
		t.categories[i][s.Category] += weight
		if s.Compare(best) != 0 {
			continue
		}
		if winners == 1 {
			t.wins[i] += weight
		} else {
			t.splits[i][winners-2] += weight
		}
	}
	t.deals += weight
}

// merge folds another tally into this one.
func (t *tally) merge(o *tally) {
	for i := range t.wins {
		t.wins[i] += o.wins[i]
		for k := range t.splits[i] {
			t.splits[i][k] += o.splits[i][k]
		}
		for c := range t.categories[i] {
			t.categories[i][c] += o.categories[i][c]
		}
	}
	t.deals += o.deals
}

// results converts accumulated counts into per-player results, in input order.
func (t *tally) results(players []Player, undersampled bool) []Result {
	out := make([]Result, len(players))
	for i, p := range players {
		var splitTotal uint64
		for _, c := range t.splits[i] {
			splitTotal += c
		}
		out[i] = Result{
			Player:       p.Name,
			Wins:         t.wins[i],
			TiedDeals:    splitTotal,
			Losses:       t.deals - t.wins[i] - splitTotal,
			SplitCounts:  append([]uint64(nil), t.splits[i]...),
			Categories:   append([]uint64(nil), t.categories[i]...),
			TotalDeals:   t.deals,
			Undersampled: undersampled,
		}
	}
	return out
}

// Result is one player's share of the outcome space.
type Result struct {
	Player string

	// Wins counts weighted deals won outright; TiedDeals counts weighted
	// deals tied for best; Losses is everything else.
	Wins      uint64
	TiedDeals uint64
	Losses    uint64

	// SplitCounts[k-2] counts weighted deals tied k ways; the fractional
	// split-pot credit Σ SplitCounts[k-2]/k is applied only at division time.
	SplitCounts []uint64

	// Categories counts the player's final hand category per deal, indexed by
	// evaluator.Category.
	Categories []uint64

	TotalDeals uint64

	// Undersampled marks a run stopped early by deadline or cancellation;
	// counts cover fewer deals than requested but remain internally
	// consistent.
	Undersampled bool
}

// TieCredit is the fractional split-pot credit: Σ over k of SplitCounts[k]/k.
func (r Result) TieCredit() float64 {
	var credit float64
	for i, c := range r.SplitCounts {
		if c != 0 {
			credit += float64(c) / float64(i+2)
		}
	}
	return credit
}

// Equity is the player's share of the pot over all deals:
// (wins + tie credit) / total.
func (r Result) Equity() float64 {
	if r.TotalDeals == 0 {
		return 0
	}
	return (float64(r.Wins) + r.TieCredit()) / float64(r.TotalDeals)
}

// WinPct is the fraction of deals won outright.
func (r Result) WinPct() float64 {
	if r.TotalDeals == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.TotalDeals)
}

// TiePct is the fraction of deals tied for best.
func (r Result) TiePct() float64 {
	if r.TotalDeals == 0 {
		return 0
	}
	return float64(r.TiedDeals) / float64(r.TotalDeals)
}
