package deck

import (
	"errors"
	"fmt"
)

// ErrInvalidCard is returned when a rank or suit is outside the 52-card domain.
var ErrInvalidCard = errors.New("invalid card")

// ErrDuplicateCard is returned when the same card is assigned twice.
var ErrDuplicateCard = errors.New("duplicate card")

// DuplicateError reports which card appeared more than once across hole cards
// and the board.
type DuplicateError struct {
	Card Card
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate card: %s", e.Card)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicateCard
}

// Suit represents a card suit. Suits are nominal: they matter for flushes and
// card identity, never for ordering.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// Rank represents a card rank. Aces are high (14) but count as 1 in the wheel
// straight.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Two:
		return "2"
	case Three:
		return "3"
	case Four:
		return "4"
	case Five:
		return "5"
	case Six:
		return "6"
	case Seven:
		return "7"
	case Eight:
		return "8"
	case Nine:
		return "9"
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return "?"
	}
}

// Card represents a playing card. Two cards are equal iff rank and suit match.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard constructs a card, validating that rank and suit are within the
// 52-card domain.
func NewCard(rank Rank, suit Suit) (Card, error) {
	if rank < Two || rank > Ace {
		return Card{}, fmt.Errorf("%w: rank %d out of range", ErrInvalidCard, rank)
	}
	if suit < Spades || suit > Clubs {
		return Card{}, fmt.Errorf("%w: suit %d out of range", ErrInvalidCard, suit)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// String returns the two-character representation of a card (e.g. "As")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit == Hearts || c.Suit == Diamonds
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// AllCards returns the 52-card universe in a fixed suit-major order.
func AllCards() []Card {
	cards := make([]Card, 0, 52)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, Card{Suit: suit, Rank: rank})
		}
	}
	return cards
}
