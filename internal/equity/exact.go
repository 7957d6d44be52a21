package equity

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/lox/poker-equity/internal/combin"
	"github.com/lox/poker-equity/internal/deck"
	"github.com/lox/poker-equity/internal/evaluator"
)

// runExact enumerates every completion of the unseen slots. The outermost
// level of the nested enumeration is striped across workers: worker w handles
// outer iterations where i % workers == w, so the partition is disjoint and
// deterministic.
func (e *Engine) runExact(ctx context.Context, s *dealSpace, workers int) ([]Result, error) {
	dl := e.newDeadline()

	var stopped atomic.Bool
	tallies := make([]*tally, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			ew := newExactWorker(s, w, workers, &stopped, dl)
			tallies[w] = ew.run(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := tallies[0]
	for _, t := range tallies[1:] {
		total.merge(t)
	}
	return total.results(s.players, stopped.Load()), nil
}

// exactWorker walks its stripe of the completion space depth-first: range
// players first, then open hole slots, then the board completion.
type exactWorker struct {
	s        *dealSpace
	workerID int
	workers  int
	stopped  *atomic.Bool
	dl       deadline

	tally     *tally
	taken     deck.CardSet // baseUsed plus cards assigned on the current path
	holes     [][2]deck.Card
	board     [5]deck.Card
	gens      []*combin.Generator // one per slot level, reset on entry
	strengths []evaluator.HandStrength
	scratch   [7]deck.Card

	outer      uint64 // outer-level iteration counter for striping
	sinceCheck int    // deals since the last cancellation check
	cancelled  bool
	ctx        context.Context
}

func newExactWorker(s *dealSpace, workerID, workers int, stopped *atomic.Bool, dl deadline) *exactWorker {
	ew := &exactWorker{
		s:         s,
		workerID:  workerID,
		workers:   workers,
		stopped:   stopped,
		dl:        dl,
		tally:     newTally(len(s.players)),
		taken:     s.baseUsed,
		holes:     make([][2]deck.Card, len(s.players)),
		strengths: make([]evaluator.HandStrength, len(s.players)),
	}

	for i, p := range s.players {
		copy(ew.holes[i][:], p.Hole)
	}
	copy(ew.board[:], s.board)

	// One generator per open-slot level plus the board level.
	for _, os := range s.openSlots {
		ew.gens = append(ew.gens, combin.NewGenerator(len(s.unseen), os.need))
	}
	ew.gens = append(ew.gens, combin.NewGenerator(len(s.unseen), s.boardNeed))
	return ew
}

func (ew *exactWorker) run(ctx context.Context) *tally {
	ew.ctx = ctx
	ew.walk(0, 1)
	if ew.cancelled {
		ew.stopped.Store(true)
	}
	return ew.tally
}

// mine reports whether the current outer-level iteration belongs to this
// worker's stripe.
func (ew *exactWorker) mine(level int) bool {
	if level != 0 {
		return true
	}
	i := ew.outer
	ew.outer++
	return i%uint64(ew.workers) == uint64(ew.workerID)
}

// walk assigns one slot level and recurses. Levels are ordered range slots,
// open hole slots, then the board; weight carries the product of range combo
// weights along the path.
func (ew *exactWorker) walk(level int, weight uint64) {
	if ew.cancelled {
		return
	}

	if level < len(ew.s.rangeSlots) {
		rs := ew.s.rangeSlots[level]
		for _, combo := range rs.combos {
			if !ew.mine(level) {
				continue
			}
			if combo.Overlaps(ew.taken) {
				continue
			}
			ew.taken.Add(combo.Cards[0])
			ew.taken.Add(combo.Cards[1])
			ew.holes[rs.player] = combo.Cards

			ew.walk(level+1, weight*uint64(combo.Weight))

			ew.taken.Remove(combo.Cards[0])
			ew.taken.Remove(combo.Cards[1])
			if level == 0 && ew.checkCancel(1) {
				return
			}
		}
		return
	}

	slotLevel := level - len(ew.s.rangeSlots)
	gen := ew.gens[slotLevel]
	gen.Reset()

	if slotLevel < len(ew.s.openSlots) {
		os := ew.s.openSlots[slotLevel]
		base := len(ew.s.players[os.player].Hole)
	subsets:
		for gen.Next() {
			if !ew.mine(level) {
				continue
			}
			idx := gen.Current()
			for _, i := range idx {
				if ew.taken.Contains(ew.s.unseen[i]) {
					continue subsets
				}
			}
			for j, i := range idx {
				card := ew.s.unseen[i]
				ew.taken.Add(card)
				ew.holes[os.player][base+j] = card
			}

			ew.walk(level+1, weight)

			for _, i := range idx {
				ew.taken.Remove(ew.s.unseen[i])
			}
			if level == 0 && ew.checkCancel(1) {
				return
			}
		}
		return
	}

	// Board completion: the innermost loop evaluates and records.
boards:
	for gen.Next() {
		if !ew.mine(level) {
			continue
		}
		idx := gen.Current()
		for _, i := range idx {
			if ew.taken.Contains(ew.s.unseen[i]) {
				continue boards
			}
		}
		for j, i := range idx {
			ew.board[len(ew.s.board)+j] = ew.s.unseen[i]
		}
		ew.recordDeal(weight)
		if ew.checkCancel(1024) {
			return
		}
	}
}

func (ew *exactWorker) recordDeal(weight uint64) {
	for i := range ew.s.players {
		copy(ew.scratch[:2], ew.holes[i][:])
		copy(ew.scratch[2:], ew.board[:])
		ew.strengths[i] = evaluator.EvaluateUnchecked(ew.scratch[:])
	}
	ew.tally.record(ew.strengths, weight)
	ew.sinceCheck++
}

// checkCancel polls the context and time budget once at least every `every`
// recorded deals. It returns true when the worker should unwind.
func (ew *exactWorker) checkCancel(every int) bool {
	if ew.sinceCheck < every {
		return false
	}
	ew.sinceCheck = 0
	if ew.ctx.Err() != nil || ew.dl.expired() {
		ew.cancelled = true
	}
	return ew.cancelled
}
