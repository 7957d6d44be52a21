package evaluator

import (
	"fmt"
	"strings"

	"github.com/lox/poker-equity/internal/deck"
)

// Category enumerates poker hand categories ordered from weakest to strongest.
// The set is closed: comparison logic relies on the ordinal values.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable category name
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// HandStrength is the total-ordered value a hand evaluates to: a category plus
// the tiebreak ranks relevant to it, most significant first. Unused tiebreak
// slots stay zero, so two strengths are equal iff the struct values are equal.
type HandStrength struct {
	Category  Category
	Tiebreaks [5]deck.Rank
}

// Compare returns 1 if h is stronger than other, -1 if weaker, 0 on an exact
// tie. Comparison is by category first, then lexicographically by tiebreaks.
func (h HandStrength) Compare(other HandStrength) int {
	if h.Category != other.Category {
		if h.Category > other.Category {
			return 1
		}
		return -1
	}
	for i := range h.Tiebreaks {
		if h.Tiebreaks[i] != other.Tiebreaks[i] {
			if h.Tiebreaks[i] > other.Tiebreaks[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// String returns the category plus its significant tiebreak ranks,
// e.g. "Full House (K T)".
func (h HandStrength) String() string {
	var ranks []string
	for _, r := range h.Tiebreaks {
		if r == 0 {
			break
		}
		ranks = append(ranks, r.String())
	}
	if len(ranks) == 0 {
		return h.Category.String()
	}
	return fmt.Sprintf("%s (%s)", h.Category, strings.Join(ranks, " "))
}
