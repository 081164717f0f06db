// Package engine implements the Rook partnership trick-taking rules.
//
// GameState is the authoritative state of one table. Every action is a
// synchronous transition that validates fully before mutating anything, so a
// rejected action leaves the state untouched. The package performs no I/O,
// reads no clock and holds no locks: callers serialize actions per table.
package engine

// Phase is the stage of the current hand.
type Phase string

const (
	PhasePreDeal      Phase = "preDeal"
	PhaseBidding      Phase = "bidding"
	PhaseKitty        Phase = "kitty"
	PhaseDeclareTrump Phase = "declareTrump"
	PhaseTrick        Phase = "trick"
	PhaseScore        Phase = "score"
	PhaseGameOver     Phase = "gameOver"
)

// SeatAssignment is one seat of a lobby room handed to NewGame.
type SeatAssignment struct {
	PlayerID PlayerID `json:"playerId"`
	Ready    bool     `json:"ready"`
}

// RoomSnapshot is the lobby's view of a room at the moment the game starts.
type RoomSnapshot struct {
	Code  string                   `json:"code"`
	Seats [NumSeats]SeatAssignment `json:"seats"`
}

// Turn names whose turn it is by seat and by player.
type Turn struct {
	Seat     Seat     `json:"seat"`
	PlayerID PlayerID `json:"playerId"`
}

// GameState holds the complete state of one table.
type GameState struct {
	RoomCode    string             `json:"roomCode"`
	Phase       Phase              `json:"phase"`
	Settings    Settings           `json:"settings"`
	SeatOrder   [NumSeats]Seat     `json:"seatOrder"`
	PlayerOrder [NumSeats]PlayerID `json:"playerOrder"`
	DealerIndex Seat               `json:"dealerIndex"`
	Bidding     BiddingState       `json:"bidding"`
	Hand        HandState          `json:"hand"`
	// TurnSeat is the seat expected to act next, NoSeat between hands.
	TurnSeat    Seat         `json:"turnSeat"`
	Scores      [2]int       `json:"scores"`
	TargetScore int          `json:"targetScore"`
	WinnerTeam  Team         `json:"winnerTeam"`
	HandNumber  int          `json:"handNumber"`
	HandHistory []HandRecord `json:"handHistory"`
}

// NewGame creates the game for a full, ready room. The first dealer is T1P1.
func NewGame(room RoomSnapshot, settings Settings) (*GameState, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	seen := make(map[PlayerID]bool, NumSeats)
	for i, a := range room.Seats {
		if a.PlayerID == "" {
			return nil, ErrSeatsNotFull.withf("seat %s is empty", Seat(i))
		}
		if seen[a.PlayerID] {
			return nil, ErrPlayerAlreadySeated.withf("player %s holds more than one seat", a.PlayerID)
		}
		seen[a.PlayerID] = true
	}
	for i, a := range room.Seats {
		if !a.Ready {
			return nil, ErrPlayersNotReady.withf("player in seat %s is not ready", Seat(i))
		}
	}

	g := &GameState{
		RoomCode:    room.Code,
		Phase:       PhasePreDeal,
		Settings:    settings,
		SeatOrder:   SeatOrder,
		DealerIndex: SeatT1P1,
		TurnSeat:    SeatT1P1,
		TargetScore: settings.TargetScore,
		WinnerTeam:  NoTeam,
		HandHistory: []HandRecord{},
		Hand:        emptyHand(),
	}
	for i, a := range room.Seats {
		g.PlayerOrder[i] = a.PlayerID
	}
	return g, nil
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// SeatOf returns the seat bound to player.
func (g *GameState) SeatOf(player PlayerID) (Seat, bool) {
	for i, p := range g.PlayerOrder {
		if p == player && p != "" {
			return Seat(i), true
		}
	}
	return NoSeat, false
}

// PlayerAt returns the player bound to seat.
func (g *GameState) PlayerAt(seat Seat) PlayerID {
	mustSeat(seat)
	return g.PlayerOrder[seat]
}

// Dealer returns the current dealer's player.
func (g *GameState) Dealer() PlayerID { return g.PlayerAt(g.DealerIndex) }

// WhoseTurn returns the seat and player expected to act. It is false once a
// hand is scored or the game is over.
func (g *GameState) WhoseTurn() (Turn, bool) {
	if !g.TurnSeat.Valid() {
		return Turn{Seat: NoSeat}, false
	}
	return Turn{Seat: g.TurnSeat, PlayerID: g.PlayerOrder[g.TurnSeat]}, true
}

// IsGameOver reports whether a team has reached the target score.
func (g *GameState) IsGameOver() bool { return g.Phase == PhaseGameOver }

// WinningBid returns the contract once bidding has completed for this hand.
func (g *GameState) WinningBid() (HighBid, bool) {
	switch g.Phase {
	case PhasePreDeal, PhaseBidding:
		return HighBid{}, false
	}
	if !g.Hand.Bidder.Valid() {
		return HighBid{}, false
	}
	return HighBid{Seat: g.Hand.Bidder, Amount: g.Hand.WinningBid}, true
}

// LegalPlaysFor returns the cards player may play right now. It is empty
// when it is not that player's turn to play a card.
func (g *GameState) LegalPlaysFor(player PlayerID) []Card {
	seat, ok := g.SeatOf(player)
	if !ok || g.Phase != PhaseTrick || g.TurnSeat != seat || !g.Hand.Trump.Valid() {
		return nil
	}
	return LegalPlays(g.Hand.Hands[seat], g.Hand.currentLead(), g.Hand.Trump, g.Hand.RookRankMode)
}

// CardCount returns the number of cards across hands, kitty, captured piles
// and an unfinished trick. It equals the deck size once a hand is dealt.
func (g *GameState) CardCount() int {
	n := len(g.Hand.Kitty) + len(g.Hand.CapturedByTeam[Team1]) + len(g.Hand.CapturedByTeam[Team2])
	if !g.Hand.TrickComplete() {
		n += len(g.Hand.TrickCards)
	}
	for _, h := range g.Hand.Hands {
		n += len(h)
	}
	return n
}

// ---------------------------------------------------------------------------
// Snapshot / Clone
// ---------------------------------------------------------------------------

// Clone returns a deep copy of the state. The copy shares the immutable undo
// snapshot, if any.
func (g *GameState) Clone() *GameState {
	c := *g
	c.Bidding = g.Bidding.clone()
	c.Hand = g.Hand.clone()
	if g.HandHistory != nil {
		c.HandHistory = append(make([]HandRecord, 0, len(g.HandHistory)), g.HandHistory...)
	}
	return &c
}

// seatOrErr resolves an acting player to a seat.
func (g *GameState) seatOrErr(player PlayerID) (Seat, error) {
	seat, ok := g.SeatOf(player)
	if !ok {
		return NoSeat, ErrNotSeated.withf("player %s is not seated", player)
	}
	return seat, nil
}
