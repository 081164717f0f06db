package agent

import (
	"sort"

	engine "github.com/jason-s-yu/rook/engine"
)

// AgentState is one seat's memory of the current hand. It only reads what the
// seat could see at the table: its own cards, the bidding history and the
// cards played into tricks.
type AgentState struct {
	Seat engine.Seat

	// Played[color][rank] records suited cards that have left every hand.
	Played     [5][engine.MaxRank + 1]bool
	RookPlayed bool

	handNumber int
}

// NewAgentState creates a state for seat.
func NewAgentState(seat engine.Seat) AgentState {
	return AgentState{Seat: seat}
}

// Update folds every card played so far this hand into the memory. Call it
// before every decision; a new hand resets the memory.
func (a *AgentState) Update(g *engine.GameState) {
	if g.HandNumber != a.handNumber {
		*a = NewAgentState(a.Seat)
		a.handNumber = g.HandNumber
	}
	if g.Phase != engine.PhaseTrick && g.Phase != engine.PhaseScore && g.Phase != engine.PhaseGameOver {
		return
	}

	for _, pile := range g.Hand.CapturedByTeam {
		for _, c := range pile {
			a.markPlayed(c)
		}
	}
	for _, p := range g.Hand.TrickCards {
		a.markPlayed(p.Card)
	}
}

func (a *AgentState) markPlayed(c engine.Card) {
	if c.IsRook() {
		a.RookPlayed = true
		return
	}
	a.Played[c.Color()][c.Rank()] = true
}

// isMaster reports whether c cannot be beaten by any unseen card of its color.
func (a *AgentState) isMaster(c engine.Card, hand []engine.Card) bool {
	if c.IsRook() {
		return true
	}
	v := rankValue(c.Rank())
	for r := engine.MinRank; r <= engine.MaxRank; r++ {
		if rankValue(r) <= v || a.Played[c.Color()][r] {
			continue
		}
		if !holds(hand, engine.NewCard(c.Color(), r)) {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Hand evaluation
// ---------------------------------------------------------------------------

// Evaluate scores a hand and returns its strength bucket and best trump color.
func Evaluate(hand []engine.Card) (Strength, engine.Color) {
	score := 0
	var length [5]int
	var weight [5]int
	for _, c := range hand {
		switch {
		case c.IsRook():
			score += weightRook
			continue
		case c.Rank() == 1:
			score += weightTopRank
		case c.Rank() >= 12:
			score += weightHighRank
		}
		if c.Points() == 5 || c.Points() == 10 {
			score += weightPointCard
		}
		length[c.Color()]++
		weight[c.Color()] += rankValue(c.Rank())
	}

	best := noColor
	for _, col := range engine.Colors {
		if best == noColor || length[col] > length[best] ||
			(length[col] == length[best] && weight[col] > weight[best]) {
			best = col
		}
	}
	if best != noColor && length[best] > 4 {
		score += (length[best] - 4) * weightPerLength
	}

	switch {
	case score >= thresholdStrong:
		return StrengthStrong, best
	case score >= thresholdGood:
		return StrengthGood, best
	case score >= thresholdFair:
		return StrengthFair, best
	}
	return StrengthWeak, best
}

// ---------------------------------------------------------------------------
// Decisions
// ---------------------------------------------------------------------------

// Choose returns the action the seat should take in g. ok is false when the
// seat has nothing to do.
func (a *AgentState) Choose(g *engine.GameState, seed uint64) (engine.Action, bool) {
	a.Update(g)
	hand := g.Hand.Hands[a.Seat]

	switch g.Phase {
	case engine.PhasePreDeal:
		if g.DealerIndex == a.Seat {
			return engine.DealAction{Seed: seed}, true
		}
	case engine.PhaseBidding:
		if g.Bidding.CurrentPlayer == a.Seat {
			return a.chooseBid(&g.Bidding, hand), true
		}
	case engine.PhaseKitty:
		if g.Hand.Bidder != a.Seat {
			return nil, false
		}
		if !g.Hand.KittyPickedUp {
			return engine.PickupKittyAction{}, true
		}
		return engine.DiscardKittyAction{Cards: chooseDiscard(hand)}, true
	case engine.PhaseDeclareTrump:
		if g.Hand.Bidder == a.Seat {
			_, trump := Evaluate(hand)
			return engine.DeclareTrumpAction{Color: trump}, true
		}
	case engine.PhaseTrick:
		if g.TurnSeat == a.Seat {
			return engine.PlayCardAction{Card: a.choosePlay(g)}, true
		}
	case engine.PhaseScore:
		return engine.NextHandAction{}, true
	}
	return nil, false
}

func (a *AgentState) chooseBid(b *engine.BiddingState, hand []engine.Card) engine.Action {
	strength, _ := Evaluate(hand)
	ceiling := bidCeiling[strength]
	if ceiling > b.MaxBid {
		ceiling = b.MaxBid
	}

	next := b.MinBid
	if b.HighBid != nil {
		if b.HighBid.Seat == a.Seat.Partner() {
			if !b.PassPartnerUsed[a.Seat.Team()] {
				return engine.PassPartnerAction{}
			}
			return engine.PassAction{}
		}
		next = b.HighBid.Amount + b.Step
	}
	if strength == StrengthFair && b.HighBid != nil {
		return engine.PassAction{}
	}
	if next > ceiling {
		return engine.PassAction{}
	}
	return engine.BidAction{Amount: next}
}

// chooseDiscard sets aside the least useful cards: never the Rook, and
// point cards only when nothing else is left.
func chooseDiscard(hand []engine.Card) []engine.Card {
	_, trump := Evaluate(hand)
	ranked := append([]engine.Card(nil), hand...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return keepValue(ranked[i], trump) < keepValue(ranked[j], trump)
	})
	return ranked[:engine.KittySize]
}

// keepValue orders cards for discarding; lower is discarded first.
func keepValue(c engine.Card, trump engine.Color) int {
	if c.IsRook() {
		return 1000
	}
	v := rankValue(c.Rank())
	if c.Color() == trump {
		v += 100
	}
	if c.IsPointCard() {
		v += 50
	}
	return v
}

// choosePlay picks a legal card: the lowest winner if the trick can be taken
// and the partner is not already winning, otherwise the cheapest card.
func (a *AgentState) choosePlay(g *engine.GameState) engine.Card {
	hand := g.Hand.Hands[a.Seat]
	legal := g.LegalPlaysFor(g.PlayerAt(a.Seat))
	trump, mode := g.Hand.Trump, g.Hand.RookRankMode

	trick := g.Hand.TrickCards
	if g.Hand.TrickComplete() {
		trick = nil
	}
	if len(trick) == 0 {
		for _, c := range legal {
			if !c.IsRook() && c.Color() != trump && a.isMaster(c, hand) {
				return c
			}
		}
		return cheapest(legal, trump)
	}

	winner := trick[engine.TrickWinner(trick, trump, mode)].Seat
	if winner == a.Seat.Partner() && len(trick) >= 2 {
		return cheapest(legal, trump)
	}

	var winners []engine.Card
	for _, c := range legal {
		plays := append(append([]engine.TrickPlay(nil), trick...), engine.TrickPlay{Seat: a.Seat, Card: c})
		if engine.TrickWinner(plays, trump, mode) == len(trick) {
			winners = append(winners, c)
		}
	}
	if len(winners) > 0 {
		return cheapest(winners, trump)
	}
	return cheapest(legal, trump)
}

// cheapest returns the card with the lowest keep value.
func cheapest(cards []engine.Card, trump engine.Color) engine.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if keepValue(c, trump) < keepValue(best, trump) {
			best = c
		}
	}
	return best
}

func rankValue(r uint8) int {
	if r == 1 {
		return 15
	}
	return int(r)
}

func holds(hand []engine.Card, c engine.Card) bool {
	for _, h := range hand {
		if h == c {
			return true
		}
	}
	return false
}
