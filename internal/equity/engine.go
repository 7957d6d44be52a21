package equity

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/poker-equity/internal/combin"
	"github.com/lox/poker-equity/internal/deck"
	"github.com/lox/poker-equity/internal/notation"
)

// Engine runs equity queries. It holds no per-query state, so a single Engine
// is safe to share across concurrent queries.
type Engine struct {
	clock quartz.Clock

	// TimeBudget bounds wall-clock time per query; when it trips, workers
	// stop at the next partition boundary and the result is flagged
	// undersampled. Zero means no budget.
	TimeBudget time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock substitutes the clock used for time-budget checks (mocked in
// tests).
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithTimeBudget bounds wall-clock time per query.
func WithTimeBudget(budget time.Duration) Option {
	return func(e *Engine) { e.TimeBudget = budget }
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{clock: quartz.NewReal()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// rangeSlot is a player whose hole cards come from a declared range, with
// combos pre-filtered against the fixed cards and cumulative weights
// pre-summed for sampling.
type rangeSlot struct {
	player     int
	combos     []notation.Combo
	cumWeights []uint64
}

// openSlot is a player with fewer than two exact hole cards; the missing
// cards are drawn from the unseen set along with the board completion.
type openSlot struct {
	player int
	need   int
}

// dealSpace is a validated query reduced to the structures the enumeration
// and sampling loops operate on.
type dealSpace struct {
	players   []Player
	board     []deck.Card
	boardNeed int

	baseUsed deck.CardSet
	unseen   []deck.Card

	rangeSlots []rangeSlot
	openSlots  []openSlot
}

// Calculate answers a query, returning one result per player in input order.
// Validation is strict and happens before any enumeration: a failed query
// produces no partial state.
func (e *Engine) Calculate(ctx context.Context, q Query) ([]Result, error) {
	space, err := buildDealSpace(q)
	if err != nil {
		return nil, err
	}

	workers := q.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	switch q.Strategy.Mode {
	case Exact:
		ceiling := q.MaxExactCombos
		if ceiling == 0 {
			ceiling = DefaultMaxExactCombos
		}
		if size := space.size(); size > ceiling {
			return nil, fmt.Errorf("%w: %d combinations over ceiling %d",
				ErrCombinationSpaceTooLarge, size, ceiling)
		}
		return e.runExact(ctx, space, workers)
	case MonteCarlo:
		if q.Strategy.Samples <= 0 {
			return nil, fmt.Errorf("%w: got %d", ErrSampleCountInvalid, q.Strategy.Samples)
		}
		return e.runMonteCarlo(ctx, space, q.Strategy.Samples, q.Seed, workers)
	default:
		return nil, fmt.Errorf("%w: unknown strategy mode %d", ErrInvalidQuery, q.Strategy.Mode)
	}
}

func buildDealSpace(q Query) (*dealSpace, error) {
	if len(q.Players) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPlayers, len(q.Players))
	}
	if len(q.Board) > 5 {
		return nil, fmt.Errorf("%w: board has %d cards", ErrInvalidQuery, len(q.Board))
	}
	groups := [][]deck.Card{q.Board}
	for i, p := range q.Players {
		if len(p.Hole) > 2 {
			return nil, fmt.Errorf("%w: player %d has %d hole cards", ErrInvalidQuery, i, len(p.Hole))
		}
		if p.Range != nil && len(p.Hole) > 0 {
			return nil, fmt.Errorf("%w: player %d has both exact cards and a range", ErrInvalidQuery, i)
		}
		if p.Range != nil && len(p.Range.Combos) == 0 {
			return nil, fmt.Errorf("%w: player %d has an empty range", ErrInvalidQuery, i)
		}
		groups = append(groups, p.Hole)
	}

	used, err := deck.CollectDistinct(groups...)
	if err != nil {
		return nil, err
	}

	space := &dealSpace{
		players:   q.Players,
		board:     q.Board,
		boardNeed: 5 - len(q.Board),
		baseUsed:  used,
		unseen:    used.Remaining(),
	}
	needed := space.boardNeed
	for i, p := range q.Players {
		switch {
		case p.Range != nil:
			slot := rangeSlot{player: i}
			var cum uint64
			for _, combo := range p.Range.Combos {
				if combo.Overlaps(used) {
					continue
				}
				cum += uint64(combo.Weight)
				slot.combos = append(slot.combos, combo)
				slot.cumWeights = append(slot.cumWeights, cum)
			}
			if len(slot.combos) == 0 {
				return nil, fmt.Errorf("%w: no combo in player %d's range avoids the fixed cards",
					ErrInsufficientDeck, i)
			}
			space.rangeSlots = append(space.rangeSlots, slot)
			needed += 2
		case len(p.Hole) < 2:
			space.openSlots = append(space.openSlots, openSlot{player: i, need: 2 - len(p.Hole)})
			needed += 2 - len(p.Hole)
		}
	}

	if needed > len(space.unseen) {
		return nil, fmt.Errorf("%w: need %d cards, %d unseen", ErrInsufficientDeck, needed, len(space.unseen))
	}
	return space, nil
}

// size bounds the exact enumeration space: the product of each range's combo
// count, each open slot group's subset count, and the board completions.
// Saturates at MaxUint64.
func (s *dealSpace) size() uint64 {
	var total uint64 = 1
	mul := func(n uint64) {
		if n == 0 {
			total = 0
			return
		}
		if total > math.MaxUint64/n {
			total = math.MaxUint64
			return
		}
		total *= n
	}

	remaining := len(s.unseen)
	for _, rs := range s.rangeSlots {
		mul(uint64(len(rs.combos)))
		remaining -= 2
	}
	for _, os := range s.openSlots {
		mul(combin.Count(remaining, os.need))
		remaining -= os.need
	}
	mul(combin.Count(remaining, s.boardNeed))
	return total
}

// deadline captures the time budget at query start; expired() is cheap enough
// for partition-boundary checks.
type deadline struct {
	clock  quartz.Clock
	start  time.Time
	budget time.Duration
}

func (e *Engine) newDeadline() deadline {
	d := deadline{clock: e.clock, budget: e.TimeBudget}
	if d.budget > 0 {
		d.start = e.clock.Now()
	}
	return d
}

func (d deadline) expired() bool {
	return d.budget > 0 && d.clock.Now().Sub(d.start) >= d.budget
}
