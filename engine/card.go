package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is one of the four Rook suits. The Rook card itself has ColorNone.
type Color uint8

const (
	ColorNone   Color = 0
	ColorRed    Color = 1
	ColorYellow Color = 2
	ColorGreen  Color = 3
	ColorBlack  Color = 4
)

// Colors lists the four suits in deck order.
var Colors = [4]Color{ColorRed, ColorYellow, ColorGreen, ColorBlack}

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorYellow:
		return "yellow"
	case ColorGreen:
		return "green"
	case ColorBlack:
		return "black"
	default:
		return ""
	}
}

// Valid reports whether c is one of the four suits.
func (c Color) Valid() bool { return c >= ColorRed && c <= ColorBlack }

// ParseColor converts a color name to a Color.
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(s) {
	case "red":
		return ColorRed, true
	case "yellow":
		return ColorYellow, true
	case "green":
		return ColorGreen, true
	case "black":
		return ColorBlack, true
	}
	return ColorNone, false
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*c = ColorNone
		return nil
	}
	parsed, ok := ParseColor(string(b))
	if !ok {
		return fmt.Errorf("unknown color %q", b)
	}
	*c = parsed
	return nil
}

// Rank bounds for suited cards.
const (
	MinRank uint8 = 1
	MaxRank uint8 = 14
)

// Card is a packed uint8: upper 4 bits = color, lower 4 bits = rank.
// The Rook is encoded with ColorNone and a rank outside the suited range.
type Card uint8

const (
	// RookCard is the single special card of the deck.
	RookCard Card = 0x0F
	// EmptyCard represents the absence of a card.
	EmptyCard Card = 0xFF
)

// NewCard constructs a suited Card.
func NewCard(color Color, rank uint8) Card {
	return Card((uint8(color) << 4) | (rank & 0x0F))
}

// Color returns the card's suit, ColorNone for the Rook.
func (c Card) Color() Color {
	if c.IsRook() {
		return ColorNone
	}
	return Color(uint8(c) >> 4)
}

// Rank returns the card's rank (1..14), 0 for the Rook.
func (c Card) Rank() uint8 {
	if c.IsRook() {
		return 0
	}
	return uint8(c) & 0x0F
}

// IsRook reports whether c is the Rook.
func (c Card) IsRook() bool { return c == RookCard }

// Valid reports whether c is the Rook or a well-formed suited card.
func (c Card) Valid() bool {
	if c.IsRook() {
		return true
	}
	r := uint8(c) & 0x0F
	return Color(uint8(c)>>4).Valid() && r >= MinRank && r <= MaxRank
}

// Points returns the card's point value.
//   - Rook → 20
//   - rank 1 → 15
//   - rank 5 → 5
//   - rank 10, 14 → 10
//   - everything else → 0
func (c Card) Points() int {
	if c.IsRook() {
		return 20
	}
	switch c.Rank() {
	case 1:
		return 15
	case 5:
		return 5
	case 10, 14:
		return 10
	}
	return 0
}

// IsPointCard reports whether the card carries any point value.
func (c Card) IsPointCard() bool { return c.Points() > 0 }

// ID returns the card's stable identifier, e.g. "red-14" or "rook".
func (c Card) ID() string {
	if c.IsRook() {
		return "rook"
	}
	if !c.Valid() {
		return "?"
	}
	return c.Color().String() + "-" + strconv.Itoa(int(c.Rank()))
}

func (c Card) String() string { return c.ID() }

// ParseCard converts a card identifier produced by ID back into a Card.
func ParseCard(id string) (Card, error) {
	if strings.EqualFold(id, "rook") {
		return RookCard, nil
	}
	colorPart, rankPart, ok := strings.Cut(id, "-")
	if !ok {
		return EmptyCard, fmt.Errorf("malformed card id %q", id)
	}
	color, ok := ParseColor(colorPart)
	if !ok {
		return EmptyCard, fmt.Errorf("unknown color in card id %q", id)
	}
	rank, err := strconv.Atoi(rankPart)
	if err != nil || rank < int(MinRank) || rank > int(MaxRank) {
		return EmptyCard, fmt.Errorf("bad rank in card id %q", id)
	}
	return NewCard(color, uint8(rank)), nil
}

func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid card 0x%02x", uint8(c))
	}
	return []byte(c.ID()), nil
}

func (c *Card) UnmarshalText(b []byte) error {
	parsed, err := ParseCard(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// CountPoints sums the point values of cards.
func CountPoints(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points()
	}
	return total
}

// RemoveCards subtracts toRemove from hand as multisets. It returns the
// remaining cards and false if any requested card is not present; hand is
// never modified.
func RemoveCards(hand []Card, toRemove []Card) ([]Card, bool) {
	counts := make(map[Card]int, len(hand))
	for _, c := range hand {
		counts[c]++
	}
	for _, c := range toRemove {
		if counts[c] == 0 {
			return nil, false
		}
		counts[c]--
	}

	need := make(map[Card]int, len(toRemove))
	for _, c := range toRemove {
		need[c]++
	}
	out := make([]Card, 0, len(hand)-len(toRemove))
	for _, c := range hand {
		if need[c] > 0 {
			need[c]--
			continue
		}
		out = append(out, c)
	}
	return out, true
}

// containsCard reports whether cards holds c.
func containsCard(cards []Card, c Card) bool {
	for _, h := range cards {
		if h == c {
			return true
		}
	}
	return false
}
