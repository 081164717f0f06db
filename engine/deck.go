package engine

import "fmt"

// DeckMode selects which ranks are in play.
type DeckMode string

const (
	// DeckFull is ranks 1–14 in four colors plus the Rook (57 cards).
	DeckFull DeckMode = "full"
	// DeckFast drops ranks 2, 3 and 4 from every color (45 cards).
	DeckFast DeckMode = "fast"
)

// Valid reports whether m is a known deck mode.
func (m DeckMode) Valid() bool { return m == DeckFull || m == DeckFast }

const (
	// KittySize is the number of cards set aside during the deal.
	KittySize = 5
	// CardPoints is the sum of card values in either deck mode; ranks 2–4
	// carry none.
	CardPoints = 180
)

// DeckSize returns the number of cards in a deck of the given mode.
func DeckSize(mode DeckMode) int {
	if mode == DeckFast {
		return 45
	}
	return 57
}

// HandSize returns the number of cards each seat is dealt.
func HandSize(mode DeckMode) int {
	return (DeckSize(mode) - KittySize) / NumSeats
}

// BuildDeck returns the deck for mode in a fixed order: colors in deck order,
// ranks ascending, Rook last.
func BuildDeck(mode DeckMode) []Card {
	deck := make([]Card, 0, DeckSize(mode))
	for _, color := range Colors {
		for rank := MinRank; rank <= MaxRank; rank++ {
			if mode == DeckFast && rank >= 2 && rank <= 4 {
				continue
			}
			deck = append(deck, NewCard(color, rank))
		}
	}
	return append(deck, RookCard)
}

// Shuffle performs an in-place Fisher-Yates shuffle driven by rng.
func Shuffle(deck []Card, rng *Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// Deal distributes deck one card at a time in seat order until all but
// kittySize cards are handed out; the remainder becomes the kitty.
func Deal(deck []Card, kittySize int) (hands [NumSeats][]Card, kitty []Card, err error) {
	dealt := len(deck) - kittySize
	if dealt < 0 || dealt%NumSeats != 0 {
		return hands, nil, fmt.Errorf("cannot deal %d cards with a kitty of %d to %d seats", len(deck), kittySize, NumSeats)
	}
	for i := range hands {
		hands[i] = make([]Card, 0, dealt/NumSeats)
	}
	for i := 0; i < dealt; i++ {
		hands[i%NumSeats] = append(hands[i%NumSeats], deck[i])
	}
	kitty = append([]Card(nil), deck[dealt:]...)
	return hands, kitty, nil
}
