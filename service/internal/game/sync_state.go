// internal/game/sync_state.go
package game

import (
	engine "github.com/jason-s-yu/rook/engine"
)

// SeatView is one seat as everyone at the table sees it.
type SeatView struct {
	Seat          engine.Seat     `json:"seat"`
	Team          engine.Team     `json:"team"`
	PlayerID      engine.PlayerID `json:"playerId"`
	HandSize      int             `json:"handSize"`
	IsDealer      bool            `json:"isDealer"`
	IsCurrentTurn bool            `json:"isCurrentTurn"`
	Passed        bool            `json:"passed"`
}

// BiddingView is the public auction state.
type BiddingView struct {
	CurrentPlayer   engine.Seat       `json:"currentPlayer"`
	HighBid         *engine.HighBid   `json:"highBid,omitempty"`
	MinBid          int               `json:"minBid"`
	Step            int               `json:"step"`
	MaxBid          int               `json:"maxBid"`
	PassPartnerUsed [2]bool           `json:"passPartnerUsed"`
	History         []engine.BidEntry `json:"history"`
}

// PublicView is the state with every hidden card removed: no hands, no kitty
// contents. It is safe to show to anyone.
type PublicView struct {
	RoomCode    string                    `json:"roomCode"`
	Phase       engine.Phase              `json:"phase"`
	HandNumber  int                       `json:"handNumber"`
	Settings    engine.Settings           `json:"settings"`
	Dealer      engine.Seat               `json:"dealer"`
	Turn        *engine.Turn              `json:"turn,omitempty"`
	Seats       [engine.NumSeats]SeatView `json:"seats"`
	Bidding     *BiddingView              `json:"bidding,omitempty"`
	Contract    *engine.HighBid           `json:"contract,omitempty"`
	AllPass     bool                      `json:"allPassFallback"`
	Trump       engine.Color              `json:"trump"`
	KittySize   int                       `json:"kittySize"`
	KittyTaken  bool                      `json:"kittyPickedUp"`
	Trick       []engine.TrickPlay        `json:"trick"`
	TrickDone   bool                      `json:"trickComplete"`
	Tricks      int                       `json:"tricksPlayed"`
	Captured    [2]int                    `json:"capturedCards"`
	Scores      [2]int                    `json:"scores"`
	TargetScore int                       `json:"targetScore"`
	LastHand    *engine.HandRecord        `json:"lastHand,omitempty"`
	Winner      *engine.Team              `json:"winnerTeam,omitempty"`
	History     []engine.HandRecord       `json:"handHistory"`
	UndoFor     engine.PlayerID           `json:"undoAvailableFor,omitempty"`
}

// PlayerView is the state as seen by one player: the public view plus that
// player's own hand, the legal plays and, for the bidder during the kitty
// phase, the kitty.
type PlayerView struct {
	PublicView
	You        engine.Seat   `json:"you"`
	Seated     bool          `json:"seated"`
	Hand       []engine.Card `json:"hand"`
	Kitty      []engine.Card `json:"kitty,omitempty"`
	LegalPlays []engine.Card `json:"legalPlays,omitempty"`
	CanUndo    bool          `json:"canUndo"`
}

// NewPublicView builds the view of g every seat shares. The caller must hold the
// table lock or pass a snapshot.
func NewPublicView(g *engine.GameState) PublicView {
	h := &g.Hand
	v := PublicView{
		RoomCode:    g.RoomCode,
		Phase:       g.Phase,
		HandNumber:  g.HandNumber,
		Settings:    g.Settings,
		Dealer:      g.DealerIndex,
		Trump:       h.Trump,
		KittySize:   len(h.Kitty),
		KittyTaken:  h.KittyPickedUp,
		Trick:       append([]engine.TrickPlay{}, h.TrickCards...),
		TrickDone:   h.TrickComplete(),
		Tricks:      h.TricksPlayed,
		Captured:    [2]int{len(h.CapturedByTeam[engine.Team1]), len(h.CapturedByTeam[engine.Team2])},
		Scores:      g.Scores,
		TargetScore: g.TargetScore,
		History:     append([]engine.HandRecord{}, g.HandHistory...),
	}

	turn, hasTurn := g.WhoseTurn()
	if hasTurn {
		v.Turn = &turn
	}
	for i := range v.Seats {
		s := engine.Seat(i)
		v.Seats[i] = SeatView{
			Seat:          s,
			Team:          s.Team(),
			PlayerID:      g.PlayerOrder[s],
			HandSize:      len(h.Hands[s]),
			IsDealer:      s == g.DealerIndex,
			IsCurrentTurn: hasTurn && turn.Seat == s,
			Passed:        g.Phase == engine.PhaseBidding && g.Bidding.Passed[s],
		}
	}

	if g.HandNumber > 0 {
		b := g.Bidding
		v.Bidding = &BiddingView{
			CurrentPlayer:   b.CurrentPlayer,
			MinBid:          b.MinBid,
			Step:            b.Step,
			MaxBid:          b.MaxBid,
			PassPartnerUsed: b.PassPartnerUsed,
			History:         append([]engine.BidEntry{}, b.History...),
		}
		if b.HighBid != nil {
			high := *b.HighBid
			v.Bidding.HighBid = &high
		}
	}
	if bid, ok := g.WinningBid(); ok {
		v.Contract = &bid
		v.AllPass = h.AllPassFallback
	}
	if (g.Phase == engine.PhaseScore || g.Phase == engine.PhaseGameOver) && len(g.HandHistory) > 0 {
		last := g.HandHistory[len(g.HandHistory)-1]
		v.LastHand = &last
	}
	if g.IsGameOver() {
		w := g.WinnerTeam
		v.Winner = &w
	}
	if p, ok := g.UndoAvailableFor(); ok {
		v.UndoFor = p
	}
	return v
}

// NewPlayerView builds the view of g for player. A player who is not seated
// gets the public view only.
func NewPlayerView(g *engine.GameState, player engine.PlayerID) PlayerView {
	v := PlayerView{PublicView: NewPublicView(g), You: engine.NoSeat, Hand: []engine.Card{}}
	seat, ok := g.SeatOf(player)
	if !ok {
		return v
	}
	v.You = seat
	v.Seated = true
	v.Hand = append([]engine.Card{}, g.Hand.Hands[seat]...)
	if g.Phase == engine.PhaseKitty && g.Hand.Bidder == seat && len(g.Hand.Kitty) > 0 {
		v.Kitty = append([]engine.Card{}, g.Hand.Kitty...)
	}
	v.LegalPlays = g.LegalPlaysFor(player)
	if p, ok := g.UndoAvailableFor(); ok && p == player {
		v.CanUndo = true
	}
	return v
}
