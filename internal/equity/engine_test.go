package equity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/poker-equity/internal/deck"
	"github.com/lox/poker-equity/internal/notation"
)

func holePlayer(t *testing.T, name, cards string) Player {
	t.Helper()
	hole, err := deck.ParseCards(cards)
	require.NoError(t, err)
	return Player{Name: name, Hole: hole}
}

func rangePlayer(t *testing.T, name, expr string) Player {
	t.Helper()
	r, err := notation.ParseRange(expr)
	require.NoError(t, err)
	return Player{Name: name, Range: &r}
}

func board(t *testing.T, cards string) []deck.Card {
	t.Helper()
	b, err := deck.ParseCards(cards)
	require.NoError(t, err)
	return b
}

func TestExactHeadsUpAAvsKK(t *testing.T) {
	results, err := New().Calculate(context.Background(), Query{
		Players:  []Player{holePlayer(t, "aces", "AhAc"), holePlayer(t, "kings", "KhKc")},
		Strategy: ExactStrategy(),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Every preflop heads-up matchup enumerates C(48,5) boards.
	assert.Equal(t, uint64(1712304), results[0].TotalDeals)
	assert.False(t, results[0].Undersampled)

	kk := results[1].Equity()
	assert.Greater(t, kk, 0.17)
	assert.Less(t, kk, 0.19)
	assert.InDelta(t, 1.0, results[0].Equity()+results[1].Equity(), 1e-9)
}

func TestExactWorkerCountInvariance(t *testing.T) {
	base := Query{
		Players:  []Player{holePlayer(t, "a", "AhAc"), holePlayer(t, "b", "KhKc")},
		Board:    board(t, "2h7d9s"),
		Strategy: ExactStrategy(),
	}

	var prev []Result
	for _, workers := range []int{1, 3, 8} {
		q := base
		q.Workers = workers
		results, err := New().Calculate(context.Background(), q)
		require.NoError(t, err)
		if prev != nil {
			assert.Equal(t, prev, results, "workers=%d", workers)
		}
		prev = results
	}
}

func TestExactFullBoardSingleDeal(t *testing.T) {
	results, err := New().Calculate(context.Background(), Query{
		Players:  []Player{holePlayer(t, "aces", "AsAd"), holePlayer(t, "kings", "KsKd")},
		Board:    board(t, "2h3d7s9cJh"),
		Strategy: ExactStrategy(),
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), results[0].TotalDeals)
	assert.Equal(t, uint64(1), results[0].Wins)
	assert.Equal(t, uint64(1), results[1].Losses)
	assert.Equal(t, 1.0, results[0].Equity())
	assert.Equal(t, 0.0, results[1].Equity())
}

func TestExactBoardPlaysSplit(t *testing.T) {
	// Straight flush on the board; neither hand improves on it.
	results, err := New().Calculate(context.Background(), Query{
		Players:  []Player{holePlayer(t, "a", "AsAd"), holePlayer(t, "b", "KsKd")},
		Board:    board(t, "2h3h4h5h6h"),
		Strategy: ExactStrategy(),
	})
	require.NoError(t, err)

	for _, r := range results {
		assert.Equal(t, uint64(0), r.Wins)
		assert.Equal(t, uint64(1), r.TiedDeals)
		assert.Equal(t, []uint64{1}, r.SplitCounts)
		assert.InDelta(t, 0.5, r.Equity(), 1e-12)
	}
}

func TestExactPartialHoleCards(t *testing.T) {
	// One known card for the first player; the second comes from the 44
	// unseen cards, so the space is exactly 44 deals.
	as, err := deck.ParseCards("As")
	require.NoError(t, err)

	results, err := New().Calculate(context.Background(), Query{
		Players: []Player{
			{Name: "partial", Hole: as},
			holePlayer(t, "kings", "KhKc"),
		},
		Board:    board(t, "2h3d7s9cJh"),
		Strategy: ExactStrategy(),
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(44), results[0].TotalDeals)
	assert.InDelta(t, 1.0, results[0].Equity()+results[1].Equity(), 1e-9)
}

func TestExactRangeVersusHand(t *testing.T) {
	results, err := New().Calculate(context.Background(), Query{
		Players:  []Player{rangePlayer(t, "aces", "AA"), holePlayer(t, "kings", "KhKc")},
		Board:    board(t, "2h3d7s9c"),
		Strategy: ExactStrategy(),
	})
	require.NoError(t, err)

	// 6 AA combos, each against 44 river cards.
	assert.Equal(t, uint64(264), results[0].TotalDeals)
	assert.Greater(t, results[0].Equity(), results[1].Equity())
	assert.InDelta(t, 1.0, results[0].Equity()+results[1].Equity(), 1e-9)
}

func TestExactRangeCombosBlockedByFixedCards(t *testing.T) {
	// With As and Ah dead, the AA range keeps only the AdAc combo.
	results, err := New().Calculate(context.Background(), Query{
		Players:  []Player{rangePlayer(t, "aces", "AA"), holePlayer(t, "blockers", "AsAh")},
		Board:    board(t, "2h3d7s9c"),
		Strategy: ExactStrategy(),
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(44), results[0].TotalDeals)
}

func TestExactCombinationCeiling(t *testing.T) {
	_, err := New().Calculate(context.Background(), Query{
		Players:        []Player{holePlayer(t, "a", "AhAc"), holePlayer(t, "b", "KhKc")},
		Strategy:       ExactStrategy(),
		MaxExactCombos: 1000,
	})
	assert.ErrorIs(t, err, ErrCombinationSpaceTooLarge)
}

func TestMonteCarloSeedReproducible(t *testing.T) {
	q := Query{
		Players:  []Player{holePlayer(t, "aces", "AhAc"), holePlayer(t, "kings", "KhKc")},
		Strategy: MonteCarloStrategy(50000),
		Seed:     42,
	}

	q.Workers = 1
	single, err := New().Calculate(context.Background(), q)
	require.NoError(t, err)

	q.Workers = 4
	parallel, err := New().Calculate(context.Background(), q)
	require.NoError(t, err)

	// Identical seed means identical counts, regardless of worker count.
	assert.Equal(t, single, parallel)
	assert.Equal(t, uint64(50000), single[0].TotalDeals)

	kk := single[1].Equity()
	assert.Greater(t, kk, 0.15)
	assert.Less(t, kk, 0.21)
}

func TestMonteCarloSeedsDiffer(t *testing.T) {
	q := Query{
		Players:  []Player{holePlayer(t, "a", "AhAc"), holePlayer(t, "b", "KhKc")},
		Strategy: MonteCarloStrategy(20000),
	}

	q.Seed = 1
	first, err := New().Calculate(context.Background(), q)
	require.NoError(t, err)

	q.Seed = 2
	second, err := New().Calculate(context.Background(), q)
	require.NoError(t, err)

	assert.NotEqual(t, first[0].Wins, second[0].Wins)
}

func TestMonteCarloWithRanges(t *testing.T) {
	results, err := New().Calculate(context.Background(), Query{
		Players:  []Player{rangePlayer(t, "strong", "TT+"), rangePlayer(t, "wide", "50%")},
		Strategy: MonteCarloStrategy(30000),
		Seed:     7,
	})
	require.NoError(t, err)

	assert.Greater(t, results[0].Equity(), results[1].Equity())
	// Discarded collision samples may shave the total, but never grow it.
	assert.LessOrEqual(t, results[0].TotalDeals, uint64(30000))
	assert.Greater(t, results[0].TotalDeals, uint64(29000))
}

func TestCalculateValidation(t *testing.T) {
	engine := New()
	ctx := context.Background()

	_, err := engine.Calculate(ctx, Query{
		Players:  []Player{holePlayer(t, "solo", "AhAc")},
		Strategy: ExactStrategy(),
	})
	assert.ErrorIs(t, err, ErrTooFewPlayers)

	_, err = engine.Calculate(ctx, Query{
		Players:  []Player{holePlayer(t, "a", "AhAc"), holePlayer(t, "b", "KhKc")},
		Strategy: MonteCarloStrategy(0),
	})
	assert.ErrorIs(t, err, ErrSampleCountInvalid)

	_, err = engine.Calculate(ctx, Query{
		Players:  []Player{holePlayer(t, "a", "AhAc"), holePlayer(t, "b", "KhKc")},
		Board:    board(t, "2h3d4s5c6h7d"),
		Strategy: ExactStrategy(),
	})
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = engine.Calculate(ctx, Query{
		Players: []Player{
			{Name: "both", Hole: board(t, "AhAc"), Range: &notation.Range{Combos: []notation.Combo{{}}}},
			holePlayer(t, "b", "KhKc"),
		},
		Strategy: ExactStrategy(),
	})
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestCalculateDuplicateCard(t *testing.T) {
	results, err := New().Calculate(context.Background(), Query{
		Players:  []Player{holePlayer(t, "a", "AhAc"), holePlayer(t, "b", "AhKd")},
		Strategy: ExactStrategy(),
	})
	assert.ErrorIs(t, err, deck.ErrDuplicateCard)
	assert.Nil(t, results)

	var dup *deck.DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "Ah", dup.Card.String())
}

func TestCalculateInsufficientDeck(t *testing.T) {
	// 24 unknown seats need 48 hole cards plus a 5-card board: 53 > 52.
	players := make([]Player, 24)
	for i := range players {
		players[i] = Player{Name: "seat"}
	}
	_, err := New().Calculate(context.Background(), Query{
		Players:  players,
		Strategy: MonteCarloStrategy(100),
	})
	assert.ErrorIs(t, err, ErrInsufficientDeck)
}

func TestExactCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := New().Calculate(ctx, Query{
		Players:  []Player{holePlayer(t, "a", "AhAc"), holePlayer(t, "b", "KhKc")},
		Strategy: ExactStrategy(),
		Workers:  1,
	})
	require.NoError(t, err)

	assert.True(t, results[0].Undersampled)
	assert.Less(t, results[0].TotalDeals, uint64(1712304))
	assert.Equal(t, results[0].TotalDeals,
		results[0].Wins+results[0].TiedDeals+results[0].Losses)
}

func TestMonteCarloCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := New().Calculate(ctx, Query{
		Players:  []Player{holePlayer(t, "a", "AhAc"), holePlayer(t, "b", "KhKc")},
		Strategy: MonteCarloStrategy(50000),
	})
	require.NoError(t, err)
	assert.True(t, results[0].Undersampled)
	assert.Less(t, results[0].TotalDeals, uint64(50000))
}

func TestTimeBudgetExpiry(t *testing.T) {
	engine := New(WithTimeBudget(time.Nanosecond))
	results, err := engine.Calculate(context.Background(), Query{
		Players:  []Player{holePlayer(t, "a", "AhAc"), holePlayer(t, "b", "KhKc")},
		Strategy: ExactStrategy(),
		Workers:  1,
	})
	require.NoError(t, err)
	assert.True(t, results[0].Undersampled)
	assert.Less(t, results[0].TotalDeals, uint64(1712304))
}

func TestTimeBudgetMockedClockNeverExpires(t *testing.T) {
	// A frozen clock keeps the budget untouched no matter how long the
	// enumeration actually takes.
	engine := New(WithClock(quartz.NewMock(t)), WithTimeBudget(time.Millisecond))
	results, err := engine.Calculate(context.Background(), Query{
		Players:  []Player{holePlayer(t, "a", "AhAc"), holePlayer(t, "b", "KhKc")},
		Board:    board(t, "2h7d9s"),
		Strategy: ExactStrategy(),
	})
	require.NoError(t, err)
	assert.False(t, results[0].Undersampled)
	assert.Equal(t, uint64(990), results[0].TotalDeals) // C(45,2)
}

func TestThreeWayExact(t *testing.T) {
	results, err := New().Calculate(context.Background(), Query{
		Players: []Player{
			holePlayer(t, "aces", "AhAc"),
			holePlayer(t, "kings", "KhKc"),
			holePlayer(t, "suited", "7d6d"),
		},
		Board:    board(t, "2h3d9s"),
		Strategy: ExactStrategy(),
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	// C(43,2) turn/river completions.
	assert.Equal(t, uint64(903), results[0].TotalDeals)

	var sum float64
	for _, r := range results {
		sum += r.Equity()
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Greater(t, results[0].Equity(), results[1].Equity())
}
