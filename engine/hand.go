package engine

// HandState holds everything scoped to a single hand. It is replaced on every
// deal.
type HandState struct {
	Seed         uint64           `json:"seed"`
	DeckMode     DeckMode         `json:"deckMode"`
	RookRankMode RookRankMode     `json:"rookRankMode"`
	Hands        [NumSeats][]Card `json:"hands"`
	// Kitty is owner-less after the deal, empty once picked up, and holds the
	// bidder's discards afterwards.
	Kitty         []Card `json:"kitty"`
	KittyPickedUp bool   `json:"kittyPickedUp"`
	Trump         Color  `json:"trump"`
	// TrickCards is the visible trick buffer. A completed trick stays here
	// until its winner leads the next card.
	TrickCards          []TrickPlay `json:"trickCards"`
	CapturedByTeam      [2][]Card   `json:"capturedByTeam"`
	LastTrickWinnerTeam Team        `json:"lastTrickWinnerTeam"`
	TricksPlayed        int         `json:"tricksPlayed"`
	Bidder              Seat        `json:"bidder"`
	WinningBid          int         `json:"winningBid"`
	AllPassFallback     bool        `json:"allPassFallback"`
	HandPoints          [2]int      `json:"handPoints"`
	HandScores          [2]int      `json:"handScores"`
	BiddersSet          bool        `json:"biddersSet"`
	// Undo is the single-slot undo for the most recent non-completing play.
	Undo *UndoSlot `json:"-"`
}

// HandRecord is one entry of the append-only hand history.
type HandRecord struct {
	HandNumber      int      `json:"handNumber"`
	Dealer          Seat     `json:"dealer"`
	Bidder          Seat     `json:"bidder"`
	BidderPlayerID  PlayerID `json:"bidderPlayerId"`
	BiddingTeam     Team     `json:"biddingTeam"`
	BidAmount       int      `json:"bidAmount"`
	AllPassFallback bool     `json:"allPassFallback"`
	Trump           Color    `json:"trump"`
	BiddersSet      bool     `json:"biddersSet"`
	Points          [2]int   `json:"points"`
	Scores          [2]int   `json:"scores"`
	CumulativeAfter [2]int   `json:"cumulativeAfter"`
	Seed            uint64   `json:"seed"`
	DeckMode        DeckMode `json:"deckMode"`
}

// emptyHand is the hand before the first deal.
func emptyHand() HandState {
	return HandState{
		Trump:               ColorNone,
		LastTrickWinnerTeam: NoTeam,
		Bidder:              NoSeat,
	}
}

// BiddingTeam returns the bidder's team, NoTeam before bidding completes.
func (h *HandState) BiddingTeam() Team {
	if !h.Bidder.Valid() {
		return NoTeam
	}
	return h.Bidder.Team()
}

// TrickComplete reports whether the buffer holds a finished trick.
func (h *HandState) TrickComplete() bool { return len(h.TrickCards) == NumSeats }

// currentLead returns the lead color the next play must follow. A finished
// trick in the buffer means the next play leads.
func (h *HandState) currentLead() Color {
	if h.TrickComplete() {
		return ColorNone
	}
	return LeadColor(h.TrickCards, h.Trump)
}

// handsEmpty reports whether every seat has played out.
func (h *HandState) handsEmpty() bool {
	for _, cards := range h.Hands {
		if len(cards) > 0 {
			return false
		}
	}
	return true
}

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	return append(make([]Card, 0, len(cards)), cards...)
}

func (h HandState) clone() HandState {
	for i := range h.Hands {
		h.Hands[i] = cloneCards(h.Hands[i])
	}
	h.Kitty = cloneCards(h.Kitty)
	if h.TrickCards != nil {
		h.TrickCards = append(make([]TrickPlay, 0, len(h.TrickCards)), h.TrickCards...)
	}
	for i := range h.CapturedByTeam {
		h.CapturedByTeam[i] = cloneCards(h.CapturedByTeam[i])
	}
	return h
}
