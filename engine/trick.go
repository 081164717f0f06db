package engine

// TrickPlay is one card played into a trick.
type TrickPlay struct {
	Seat Seat `json:"seat"`
	Card Card `json:"card"`
}

// EffectiveColor is the color a card follows as. The Rook always belongs to
// the trump suit.
func EffectiveColor(c Card, trump Color) Color {
	if c.IsRook() {
		return trump
	}
	return c.Color()
}

// LeadColor returns the color led in plays, or ColorNone for an empty trick.
func LeadColor(plays []TrickPlay, trump Color) Color {
	if len(plays) == 0 {
		return ColorNone
	}
	return EffectiveColor(plays[0].Card, trump)
}

// LegalPlays returns the cards in hand that may be played. With no lead color
// every card is legal. Otherwise the player must follow the lead color when
// able; trumping is never compulsory. The Rook follows as trump in either
// rank mode, so the mode does not affect legality.
func LegalPlays(hand []Card, lead Color, trump Color, _ RookRankMode) []Card {
	if lead == ColorNone {
		return append([]Card(nil), hand...)
	}
	var follow []Card
	for _, c := range hand {
		if EffectiveColor(c, trump) == lead {
			follow = append(follow, c)
		}
	}
	if len(follow) > 0 {
		return follow
	}
	return append([]Card(nil), hand...)
}

// IsLegalPlay reports whether c may be played from hand.
func IsLegalPlay(hand []Card, c Card, lead Color, trump Color, mode RookRankMode) bool {
	return containsCard(LegalPlays(hand, lead, trump, mode), c)
}

// trickRank orders a played card within a trick. Tuples compare
// lexicographically.
type trickRank struct {
	major int // 2 trump or Rook, 1 lead color, 0 off-suit
	tier  int // Rook above (2) or below (0) ordinary trump (1)
	rank  int
}

func (a trickRank) beats(b trickRank) bool {
	if a.major != b.major {
		return a.major > b.major
	}
	if a.tier != b.tier {
		return a.tier > b.tier
	}
	return a.rank > b.rank
}

// rankValue orders ranks within a color; rank 1 is highest.
func rankValue(r uint8) int {
	if r == 1 {
		return 15
	}
	return int(r)
}

func rankPlay(c Card, lead, trump Color, mode RookRankMode) trickRank {
	switch {
	case c.IsRook():
		tier := 0
		if mode == RookHigh {
			tier = 2
		}
		return trickRank{major: 2, tier: tier}
	case trump != ColorNone && c.Color() == trump:
		return trickRank{major: 2, tier: 1, rank: rankValue(c.Rank())}
	case c.Color() == lead:
		return trickRank{major: 1, rank: rankValue(c.Rank())}
	}
	return trickRank{}
}

// TrickWinner returns the index into plays of the winning card, or -1 for an
// empty trick. Only a strictly higher card displaces the incumbent, so the
// earliest play wins ties.
func TrickWinner(plays []TrickPlay, trump Color, mode RookRankMode) int {
	if len(plays) == 0 {
		return -1
	}
	lead := LeadColor(plays, trump)
	best := 0
	bestRank := rankPlay(plays[0].Card, lead, trump, mode)
	for i := 1; i < len(plays); i++ {
		r := rankPlay(plays[i].Card, lead, trump, mode)
		if r.beats(bestRank) {
			best, bestRank = i, r
		}
	}
	return best
}

// trickCards returns just the cards of plays.
func trickCards(plays []TrickPlay) []Card {
	out := make([]Card, len(plays))
	for i, p := range plays {
		out[i] = p.Card
	}
	return out
}
