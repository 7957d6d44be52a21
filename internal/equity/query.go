// Package equity computes win/tie/loss probabilities for 2+ players over all
// possible completions of the unseen cards, either by exact enumeration or by
// Monte Carlo sampling.
package equity

import (
	"errors"

	"github.com/lox/poker-equity/internal/deck"
	"github.com/lox/poker-equity/internal/notation"
)

var (
	// ErrTooFewPlayers is returned when a query has fewer than two players.
	ErrTooFewPlayers = errors.New("at least two players required")

	// ErrInsufficientDeck is returned when too few unseen cards remain to
	// complete the board and every player's hole cards.
	ErrInsufficientDeck = errors.New("not enough unseen cards to complete the deal")

	// ErrSampleCountInvalid is returned for Monte Carlo queries with a
	// non-positive sample count.
	ErrSampleCountInvalid = errors.New("sample count must be positive")

	// ErrCombinationSpaceTooLarge is returned when an exact query's
	// enumeration space exceeds the configured ceiling.
	ErrCombinationSpaceTooLarge = errors.New("exact enumeration space exceeds ceiling")

	// ErrInvalidQuery is returned for malformed player or board input.
	ErrInvalidQuery = errors.New("invalid query")
)

// Mode selects how the unseen-card space is walked.
type Mode int

const (
	// Exact enumerates every completion of the unseen cards.
	Exact Mode = iota
	// MonteCarlo draws uniform random completions.
	MonteCarlo
)

// Strategy couples a mode with its sample budget.
type Strategy struct {
	Mode    Mode
	Samples int // Monte Carlo only
}

// ExactStrategy enumerates the full completion space.
func ExactStrategy() Strategy {
	return Strategy{Mode: Exact}
}

// MonteCarloStrategy draws the given number of random completions.
func MonteCarloStrategy(samples int) Strategy {
	return Strategy{Mode: MonteCarlo, Samples: samples}
}

// Player is one seat in a query: either up to two exact hole cards (missing
// cards are drawn with the rest of the unseen completion) or a weighted range.
type Player struct {
	Name  string
	Hole  []deck.Card
	Range *notation.Range
}

// DefaultMaxExactCombos caps exact enumeration at a space that completes in
// seconds rather than stalling silently.
const DefaultMaxExactCombos = 25_000_000

// Query is the single entry point's input: ordered players, a board of 0-5
// cards, and an enumeration strategy. Results preserve player order.
type Query struct {
	Players  []Player
	Board    []deck.Card
	Strategy Strategy

	// Seed makes sampling reproducible; identical queries with the same seed
	// produce bit-identical counts regardless of worker count.
	Seed int64

	// Workers sets the parallel worker count; zero means GOMAXPROCS.
	Workers int

	// MaxExactCombos overrides DefaultMaxExactCombos when positive.
	MaxExactCombos uint64
}
