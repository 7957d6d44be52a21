// Package evaluator maps 5-7 card hands to total-ordered strengths. The best
// five-card hand is derived directly from rank and suit frequency masks rather
// than by enumerating five-card subsets.
package evaluator

import (
	"fmt"
	"math/bits"

	"github.com/lox/poker-equity/internal/deck"
)

func rankBit(r deck.Rank) uint16 {
	return 1 << (int(r) - 2)
}

func rankFromBit(bit int) deck.Rank {
	return deck.Rank(bit + 2)
}

// Evaluate returns the strength of the best five-card hand within 5 to 7
// distinct cards. It validates card count and distinctness; the engine's hot
// loop uses EvaluateUnchecked once inputs are known good.
func Evaluate(cards []deck.Card) (HandStrength, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return HandStrength{}, fmt.Errorf("evaluate requires 5-7 cards, got %d", len(cards))
	}
	if _, err := deck.CollectDistinct(cards); err != nil {
		return HandStrength{}, err
	}
	return EvaluateUnchecked(cards), nil
}

// EvaluateUnchecked evaluates without input validation. Cards must be 5-7
// distinct values.
func EvaluateUnchecked(cards []deck.Card) HandStrength {
	var suitMasks [4]uint16
	for _, card := range cards {
		suitMasks[card.Suit] |= rankBit(card.Rank)
	}
	return fromMasks(suitMasks)
}

// fromMasks derives the best hand from per-suit rank masks. Categories are
// tested strongest first; with at most seven cards only one suit can hold a
// five-card flush.
func fromMasks(suitMasks [4]uint16) HandStrength {
	rankMask := suitMasks[0] | suitMasks[1] | suitMasks[2] | suitMasks[3]

	flushMask := uint16(0)
	for _, sm := range suitMasks {
		if bits.OnesCount16(sm) >= 5 {
			flushMask = sm
			break
		}
	}

	if flushMask != 0 {
		if high := straightHigh(flushMask); high > 0 {
			return HandStrength{Category: StraightFlush, Tiebreaks: [5]deck.Rank{high}}
		}
	}

	s0, s1, s2, s3 := suitMasks[0], suitMasks[1], suitMasks[2], suitMasks[3]
	quadsMask := s0 & s1 & s2 & s3
	tripCandidates := (s0 & s1 & s2) | (s0 & s1 & s3) | (s0 & s2 & s3) | (s1 & s2 & s3)
	tripsMask := tripCandidates &^ quadsMask
	pairsMask := ((s0 & s1) | (s0 & s2) | (s0 & s3) | (s1 & s2) | (s1 & s3) | (s2 & s3)) &^ tripCandidates

	if quadsMask != 0 {
		quad := topRank(quadsMask)
		kicker := topRank(rankMask &^ rankBit(quad))
		return HandStrength{Category: FourOfAKind, Tiebreaks: [5]deck.Rank{quad, kicker}}
	}

	if tripsMask != 0 {
		trip := topRank(tripsMask)
		// A second trips rank plays as the pair of a full house.
		pairCandidates := pairsMask | (tripsMask &^ rankBit(trip))
		if pairCandidates != 0 {
			pair := topRank(pairCandidates)
			return HandStrength{Category: FullHouse, Tiebreaks: [5]deck.Rank{trip, pair}}
		}
	}

	if flushMask != 0 {
		var h HandStrength
		h.Category = Flush
		fillTopRanks(flushMask, 5, &h.Tiebreaks, 0)
		return h
	}

	if high := straightHigh(rankMask); high > 0 {
		return HandStrength{Category: Straight, Tiebreaks: [5]deck.Rank{high}}
	}

	if tripsMask != 0 {
		trip := topRank(tripsMask)
		var h HandStrength
		h.Category = ThreeOfAKind
		h.Tiebreaks[0] = trip
		fillTopRanks(rankMask&^rankBit(trip), 2, &h.Tiebreaks, 1)
		return h
	}

	if pairsMask != 0 {
		highPair := topRank(pairsMask)
		rest := pairsMask &^ rankBit(highPair)
		if rest != 0 {
			// Three pairs are possible in seven cards; keep the two highest.
			lowPair := topRank(rest)
			kicker := topRank(rankMask &^ rankBit(highPair) &^ rankBit(lowPair))
			return HandStrength{Category: TwoPair, Tiebreaks: [5]deck.Rank{highPair, lowPair, kicker}}
		}
		var h HandStrength
		h.Category = Pair
		h.Tiebreaks[0] = highPair
		fillTopRanks(rankMask&^rankBit(highPair), 3, &h.Tiebreaks, 1)
		return h
	}

	var h HandStrength
	h.Category = HighCard
	fillTopRanks(rankMask, 5, &h.Tiebreaks, 0)
	return h
}

// topRank returns the highest rank present in a rank bitmask. The mask must
// be non-zero.
func topRank(mask uint16) deck.Rank {
	return rankFromBit(bits.Len16(mask) - 1)
}

// fillTopRanks writes the n highest ranks of mask into out starting at offset,
// descending.
func fillTopRanks(mask uint16, n int, out *[5]deck.Rank, offset int) {
	for i := 0; i < n && mask != 0; i++ {
		top := bits.Len16(mask) - 1
		out[offset+i] = rankFromBit(top)
		mask &^= 1 << top
	}
}

// straightHigh returns the high rank of the best straight in a rank mask, or
// zero when none exists. The wheel (A-2-3-4-5) reports Five as its high card.
func straightHigh(mask uint16) deck.Rank {
	// Bitwise cascade identifies five consecutive ranks in one pass.
	seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4)
	if seq != 0 {
		low := bits.Len16(seq) - 1
		return rankFromBit(low + 4)
	}

	const wheelMask = 0x100F // Ace plus 2-3-4-5
	if mask&wheelMask == wheelMask {
		return deck.Five
	}
	return 0
}
