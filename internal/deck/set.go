package deck

import "math/bits"

// CardSet represents a set of cards using a bitset for fast operations.
// Each card maps to a bit: index = (rank-2)*4 + suit.
type CardSet uint64

func cardIndex(card Card) int {
	return (int(card.Rank)-2)*4 + int(card.Suit)
}

// NewCardSet creates a CardSet from a slice of cards
func NewCardSet(cards []Card) CardSet {
	var cs CardSet
	for _, card := range cards {
		cs.Add(card)
	}
	return cs
}

// Add adds a card to the set
func (cs *CardSet) Add(card Card) {
	*cs |= 1 << cardIndex(card)
}

// Remove removes a card from the set
func (cs *CardSet) Remove(card Card) {
	*cs &^= 1 << cardIndex(card)
}

// Contains checks if a card is in the set
func (cs CardSet) Contains(card Card) bool {
	return cs&(1<<cardIndex(card)) != 0
}

// Count returns the number of cards in the set
func (cs CardSet) Count() int {
	return bits.OnesCount64(uint64(cs))
}

// Remaining returns the 52-card universe minus the cards in the set, in a
// fixed deterministic order.
func (cs CardSet) Remaining() []Card {
	cards := make([]Card, 0, 52-cs.Count())
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			card := Card{Suit: suit, Rank: rank}
			if !cs.Contains(card) {
				cards = append(cards, card)
			}
		}
	}
	return cards
}

// CollectDistinct adds each card group to a single set, returning a
// DuplicateError naming the first card that appears twice across any group.
func CollectDistinct(groups ...[]Card) (CardSet, error) {
	var cs CardSet
	for _, group := range groups {
		for _, card := range group {
			if cs.Contains(card) {
				return 0, &DuplicateError{Card: card}
			}
			cs.Add(card)
		}
	}
	return cs, nil
}
