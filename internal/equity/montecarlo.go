package equity

import (
	"context"
	"sort"
	"sync/atomic"

	rand "math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/lox/poker-equity/internal/combin"
	"github.com/lox/poker-equity/internal/deck"
	"github.com/lox/poker-equity/internal/evaluator"
	"github.com/lox/poker-equity/internal/notation"
	"github.com/lox/poker-equity/internal/randutil"
)

// mcChunkSize is the number of samples per chunk. Each chunk owns a random
// stream derived from the master seed and the chunk index, so the union of
// all chunks is identical no matter how many workers process them.
const mcChunkSize = 4096

// runMonteCarlo draws `samples` uniform completions of the unseen slots.
// Chunks are handed to workers through a shared atomic counter.
func (e *Engine) runMonteCarlo(ctx context.Context, s *dealSpace, samples int, seed int64, workers int) ([]Result, error) {
	dl := e.newDeadline()

	chunks := (samples + mcChunkSize - 1) / mcChunkSize
	if workers > chunks {
		workers = chunks
	}

	var next atomic.Int64
	var stopped atomic.Bool
	tallies := make([]*tally, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			mw := newMCWorker(s)
			for {
				chunk := int(next.Add(1)) - 1
				if chunk >= chunks {
					break
				}
				if gctx.Err() != nil || dl.expired() {
					stopped.Store(true)
					break
				}

				size := mcChunkSize
				if remaining := samples - chunk*mcChunkSize; remaining < size {
					size = remaining
				}
				mw.runChunk(gctx, randutil.Worker(seed, chunk), size, dl, &stopped)
			}
			tallies[w] = mw.tally
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

// mcWorker holds one worker's scratch state; nothing here is shared.
type mcWorker struct {
	s     *dealSpace
	tally *tally

	holes      [][2]deck.Card
	board      [5]deck.Card
	candidates []deck.Card
	sampler    combin.Sampler
	drawn      []int
	strengths  []evaluator.HandStrength
	scratch    [7]deck.Card
}

func newMCWorker(s *dealSpace) *mcWorker {
	mw := &mcWorker{
		s:          s,
		tally:      newTally(len(s.players)),
		holes:      make([][2]deck.Card, len(s.players)),
		candidates: make([]deck.Card, 0, len(s.unseen)),
		strengths:  make([]evaluator.HandStrength, len(s.players)),
	}
	for i, p := range s.players {
		copy(mw.holes[i][:], p.Hole)
	}
	copy(mw.board[:], s.board)
	return mw
}

// runChunk draws up to `size` samples from one derived stream, checking for
// cancellation periodically inside the loop.
func (mw *mcWorker) runChunk(ctx context.Context, rng *rand.Rand, size int, dl deadline, stopped *atomic.Bool) {
	for i := 0; i < size; i++ {
		if i%1024 == 1023 && (ctx.Err() != nil || dl.expired()) {
			stopped.Store(true)
			return
		}
		mw.sample(rng)
	}
}

// sample draws one completion: range players' combos by weight with rejection
// against cards already in use, then the open hole slots and board completion
// as a single uniform without-replacement draw.
func (mw *mcWorker) sample(rng *rand.Rand) {
	used := mw.s.baseUsed

	for _, rs := range mw.s.rangeSlots {
		combo, ok := sampleCombo(rs, used, rng)
		if !ok {
			// Every remaining combo collides with cards drawn for an earlier
			// range; discard the whole sample rather than bias the draw.
			return
		}
		used.Add(combo.Cards[0])
		used.Add(combo.Cards[1])
		mw.holes[rs.player] = combo.Cards
	}

	mw.candidates = mw.candidates[:0]
	for _, card := range mw.s.unseen {
		if !used.Contains(card) {
			mw.candidates = append(mw.candidates, card)
		}
	}

	// One joint without-replacement draw covers the open hole slots and the
	// board completion.
	need := mw.s.boardNeed
	for _, os := range mw.s.openSlots {
		need += os.need
	}
	mw.drawn = mw.sampler.Sample(len(mw.candidates), need, rng, mw.drawn[:0])

	next := 0
	for _, os := range mw.s.openSlots {
		base := len(mw.s.players[os.player].Hole)
		for j := 0; j < os.need; j++ {
			mw.holes[os.player][base+j] = mw.candidates[mw.drawn[next]]
			next++
		}
	}
	for j := 0; j < mw.s.boardNeed; j++ {
		mw.board[len(mw.s.board)+j] = mw.candidates[mw.drawn[next]]
		next++
	}

	for i := range mw.s.players {
		copy(mw.scratch[:2], mw.holes[i][:])
		copy(mw.scratch[2:], mw.board[:])
		mw.strengths[i] = evaluator.EvaluateUnchecked(mw.scratch[:])
	}
	mw.tally.record(mw.strengths, 1)
}

// sampleCombo draws a combo from the range in proportion to its weight,
// rejecting draws that collide with cards already in use. Rejection keeps the
// conditional distribution over the surviving combos proportional to weight.
func sampleCombo(rs rangeSlot, used deck.CardSet, rng *rand.Rand) (notation.Combo, bool) {
	total := rs.cumWeights[len(rs.cumWeights)-1]
	const maxAttempts = 200

	for attempt := 0; attempt < maxAttempts; attempt++ {
		target := rng.Uint64N(total)
		i := sort.Search(len(rs.cumWeights), func(j int) bool {
			return rs.cumWeights[j] > target
		})
		combo := rs.combos[i]
		if !combo.Overlaps(used) {
			return combo, true
		}
	}

	// Rejection stalled; fall back to scanning for any playable combo so a
	// heavily blocked range still degrades gracefully.
	for _, combo := range rs.combos {
		if !combo.Overlaps(used) {
			return combo, true
		}
	}
	return notation.Combo{}, false
}
