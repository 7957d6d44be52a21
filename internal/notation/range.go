// Package notation parses hand-range notation ("AA,AKs,QQ-TT,ATs+") into
// weighted hole-card combinations.
package notation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/poker-equity/internal/deck"
)

// Combo is a specific two-card holding with an integer weight. Weights stay
// integral so exact-mode tallies remain rational until the final division.
type Combo struct {
	Cards  [2]deck.Card
	Weight uint32
}

// String returns the combo in standard notation (e.g. "AsKh")
func (c Combo) String() string {
	return c.Cards[0].String() + c.Cards[1].String()
}

// Overlaps reports whether either card of the combo is already in use.
func (c Combo) Overlaps(used deck.CardSet) bool {
	return used.Contains(c.Cards[0]) || used.Contains(c.Cards[1])
}

// Range is a weighted set of possible hole-card combinations.
type Range struct {
	Combos []Combo
}

// TotalWeight sums the weights of all combos.
func (r Range) TotalWeight() uint64 {
	var total uint64
	for _, c := range r.Combos {
		total += uint64(c.Weight)
	}
	return total
}

// ParseRange parses comma-separated range notation into a weighted combo set.
// Supported forms:
//   - "AA"       pocket pair (6 combos)
//   - "AKs"      suited (4 combos), "AKo" offsuit (12 combos)
//   - "QQ-TT"    pair run, "AQs-ATs" kicker run within a class
//   - "TT+"      pairs up to AA, "ATs+" kickers up to one below the high card
//   - "15%"      the top slice of starting hands by percentile ranking
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, fmt.Errorf("empty range string")
	}

	var combos []Combo
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		var (
			parsed []Combo
			err    error
		)
		switch {
		case strings.HasSuffix(part, "%"):
			parsed, err = parsePercentile(part)
		case strings.Contains(part, "-"):
			parsed, err = parseDashRange(part)
		case strings.HasSuffix(part, "+"):
			parsed, err = parsePlusRange(part)
		default:
			parsed, err = parseHandClass(part)
		}
		if err != nil {
			return Range{}, fmt.Errorf("range component %q: %w", part, err)
		}
		combos = append(combos, parsed...)
	}

	if len(combos) == 0 {
		return Range{}, fmt.Errorf("range %q contains no hands", s)
	}
	return Range{Combos: dedupe(combos)}, nil
}

// handClass is a parsed class token like "AKs": two ranks plus suitedness.
type handClass struct {
	high, low deck.Rank
	suited    bool
	pair      bool
}

func parseClass(s string) (handClass, error) {
	if len(s) < 2 || len(s) > 3 {
		return handClass{}, fmt.Errorf("invalid hand class %q", s)
	}

	r1, err := rankChar(s[0])
	if err != nil {
		return handClass{}, err
	}
	r2, err := rankChar(s[1])
	if err != nil {
		return handClass{}, err
	}
	if r2 > r1 {
		r1, r2 = r2, r1
	}

	hc := handClass{high: r1, low: r2, pair: r1 == r2}
	if len(s) == 3 {
		switch s[2] {
		case 's', 'S':
			hc.suited = true
		case 'o', 'O':
			hc.suited = false
		default:
			return handClass{}, fmt.Errorf("invalid suitedness %q (want 's' or 'o')", string(s[2]))
		}
		if hc.pair {
			return handClass{}, fmt.Errorf("pairs cannot be suited or offsuit: %q", s)
		}
	} else if !hc.pair {
		return handClass{}, fmt.Errorf("ambiguous hand %q (append 's' or 'o')", s)
	}
	return hc, nil
}

func parseHandClass(s string) ([]Combo, error) {
	hc, err := parseClass(s)
	if err != nil {
		return nil, err
	}
	return hc.combos(), nil
}

func parseDashRange(s string) ([]Combo, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid dash range %q (want like QQ-TT)", s)
	}

	from, err := parseClass(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, err
	}
	to, err := parseClass(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, err
	}

	if from.pair != to.pair || from.suited != to.suited {
		return nil, fmt.Errorf("dash range %q must stay within one class", s)
	}
	if !from.pair && from.high != to.high {
		return nil, fmt.Errorf("dash range %q must share the high card", s)
	}

	lo, hi := to, from
	if from.pair {
		if lo.high > hi.high {
			lo, hi = hi, lo
		}
		var combos []Combo
		for r := lo.high; r <= hi.high; r++ {
			combos = append(combos, handClass{high: r, low: r, pair: true}.combos()...)
		}
		return combos, nil
	}

	if lo.low > hi.low {
		lo, hi = hi, lo
	}
	var combos []Combo
	for r := lo.low; r <= hi.low; r++ {
		combos = append(combos, handClass{high: from.high, low: r, suited: from.suited}.combos()...)
	}
	return combos, nil
}

func parsePlusRange(s string) ([]Combo, error) {
	hc, err := parseClass(strings.TrimSuffix(s, "+"))
	if err != nil {
		return nil, err
	}

	var combos []Combo
	if hc.pair {
		for r := hc.high; r <= deck.Ace; r++ {
			combos = append(combos, handClass{high: r, low: r, pair: true}.combos()...)
		}
		return combos, nil
	}
	for r := hc.low; r < hc.high; r++ {
		combos = append(combos, handClass{high: hc.high, low: r, suited: hc.suited}.combos()...)
	}
	return combos, nil
}

func parsePercentile(s string) ([]Combo, error) {
	pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil || pct <= 0 || pct > 100 {
		return nil, fmt.Errorf("invalid percentile %q", s)
	}
	return topPercentCombos(pct / 100)
}

// combos expands a class into its concrete card combinations, weight 1 each.
func (hc handClass) combos() []Combo {
	suits := []deck.Suit{deck.Spades, deck.Hearts, deck.Diamonds, deck.Clubs}

	var combos []Combo
	if hc.pair {
		for i := 0; i < len(suits); i++ {
			for j := i + 1; j < len(suits); j++ {
				combos = append(combos, Combo{
					Cards:  [2]deck.Card{{Rank: hc.high, Suit: suits[i]}, {Rank: hc.high, Suit: suits[j]}},
					Weight: 1,
				})
			}
		}
		return combos
	}

	for _, s1 := range suits {
		for _, s2 := range suits {
			if hc.suited != (s1 == s2) {
				continue
			}
			combos = append(combos, Combo{
				Cards:  [2]deck.Card{{Rank: hc.high, Suit: s1}, {Rank: hc.low, Suit: s2}},
				Weight: 1,
			})
		}
	}
	return combos
}

func rankChar(c byte) (deck.Rank, error) {
	switch c {
	case 'A', 'a':
		return deck.Ace, nil
	case 'K', 'k':
		return deck.King, nil
	case 'Q', 'q':
		return deck.Queen, nil
	case 'J', 'j':
		return deck.Jack, nil
	case 'T', 't':
		return deck.Ten, nil
	case '9', '8', '7', '6', '5', '4', '3', '2':
		return deck.Rank(c - '0'), nil
	default:
		return 0, fmt.Errorf("%w: unknown rank %q", deck.ErrInvalidCard, string(c))
	}
}

// dedupe drops duplicate combos (the same holding reachable through multiple
// components), keeping the first weight seen. Card order within a combo is
// normalised high card first.
func dedupe(combos []Combo) []Combo {
	seen := make(map[[2]deck.Card]bool, len(combos))
	out := combos[:0]
	for _, c := range combos {
		if c.Cards[0].Rank < c.Cards[1].Rank {
			c.Cards[0], c.Cards[1] = c.Cards[1], c.Cards[0]
		}
		if seen[c.Cards] {
			continue
		}
		seen[c.Cards] = true
		out = append(out, c)
	}
	return out
}
