package evaluator

import (
	"testing"

	"github.com/lox/poker-equity/internal/deck"
	"github.com/lox/poker-equity/internal/randutil"
)

func BenchmarkEvaluateUnchecked(b *testing.B) {
	rng := randutil.New(1)
	universe := deck.AllCards()

	// Pre-deal a batch of random 7-card hands so the benchmark measures
	// evaluation only.
	hands := make([][]deck.Card, 1024)
	for i := range hands {
		rng.Shuffle(len(universe), func(a, b int) {
			universe[a], universe[b] = universe[b], universe[a]
		})
		hand := make([]deck.Card, 7)
		copy(hand, universe[:7])
		hands[i] = hand
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = EvaluateUnchecked(hands[i%len(hands)])
	}
}
