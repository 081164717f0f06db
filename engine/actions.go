package engine

import "fmt"

// ---------------------------------------------------------------------------
// Action sum type
// ---------------------------------------------------------------------------

// Action is one of the concrete action types below. The set is closed: Apply
// switches over every variant.
type Action interface {
	// Name is a stable identifier used in logs and the action history.
	Name() string
	isAction()
}

// DealAction deals a new hand. Empty modes keep the current settings.
type DealAction struct {
	RookRankMode RookRankMode `json:"rookRankMode,omitempty"`
	DeckMode     DeckMode     `json:"deckMode,omitempty"`
	Seed         uint64       `json:"seed"`
}

type BidAction struct {
	Amount int `json:"amount"`
}

type PassAction struct{}

type PassPartnerAction struct{}

type PickupKittyAction struct{}

type DiscardKittyAction struct {
	Cards []Card `json:"cards"`
}

type DeclareTrumpAction struct {
	Color Color `json:"color"`
}

type PlayCardAction struct {
	Card Card `json:"card"`
}

type UndoPlayAction struct{}

type NextHandAction struct{}

func (DealAction) Name() string         { return "deal" }
func (BidAction) Name() string          { return "bid" }
func (PassAction) Name() string         { return "pass" }
func (PassPartnerAction) Name() string  { return "pass_partner" }
func (PickupKittyAction) Name() string  { return "pickup_kitty" }
func (DiscardKittyAction) Name() string { return "discard_kitty" }
func (DeclareTrumpAction) Name() string { return "declare_trump" }
func (PlayCardAction) Name() string     { return "play_card" }
func (UndoPlayAction) Name() string     { return "undo_play" }
func (NextHandAction) Name() string     { return "next_hand" }

func (DealAction) isAction()         {}
func (BidAction) isAction()          {}
func (PassAction) isAction()         {}
func (PassPartnerAction) isAction()  {}
func (PickupKittyAction) isAction()  {}
func (DiscardKittyAction) isAction() {}
func (DeclareTrumpAction) isAction() {}
func (PlayCardAction) isAction()     {}
func (UndoPlayAction) isAction()     {}
func (NextHandAction) isAction()     {}

// Outcome carries side-effect flags of an applied action.
type Outcome struct {
	// PointsNotice is raised when the bidder discarded at least one point card.
	PointsNotice bool `json:"pointsNotice"`
	// TrickCompleted is set when the play finished a trick.
	TrickCompleted bool `json:"trickCompleted"`
	// HandScored is set when the play finished the hand.
	HandScored bool `json:"handScored"`
}

// Apply dispatches a to the matching action method on behalf of actor.
func (g *GameState) Apply(actor PlayerID, a Action) (Outcome, error) {
	var out Outcome
	switch act := a.(type) {
	case DealAction:
		return out, g.DealHand(actor, act)
	case BidAction:
		return out, g.Bid(actor, act.Amount)
	case PassAction:
		return out, g.Pass(actor)
	case PassPartnerAction:
		return out, g.PassPartner(actor)
	case PickupKittyAction:
		return out, g.PickupKitty(actor)
	case DiscardKittyAction:
		notice, err := g.DiscardKitty(actor, act.Cards)
		out.PointsNotice = notice
		return out, err
	case DeclareTrumpAction:
		return out, g.DeclareTrump(actor, act.Color)
	case PlayCardAction:
		played := g.Hand.TricksPlayed
		if err := g.PlayCard(actor, act.Card); err != nil {
			return out, err
		}
		out.TrickCompleted = g.Hand.TricksPlayed > played
		out.HandScored = g.Phase == PhaseScore || g.Phase == PhaseGameOver
		return out, nil
	case UndoPlayAction:
		return out, g.UndoPlay(actor)
	case NextHandAction:
		return out, g.NextHand()
	}
	return out, ErrUnknownAction.withf("unknown action %T", a)
}

// ---------------------------------------------------------------------------
// Deal
// ---------------------------------------------------------------------------

// DealHand builds, shuffles and deals a fresh deck for the dealer. Mode
// overrides in opts become the table's settings for this and later hands.
func (g *GameState) DealHand(actor PlayerID, opts DealAction) error {
	if g.Phase == PhaseGameOver {
		return ErrGameComplete
	}
	if g.Phase != PhasePreDeal {
		return ErrDealNotReady.withf("cannot deal during %s", g.Phase)
	}
	seat, err := g.seatOrErr(actor)
	if err != nil {
		return err
	}
	if seat != g.DealerIndex {
		return ErrOnlyDealerMayDeal.withf("the dealer is %s", g.DealerIndex)
	}

	settings := g.Settings
	if opts.RookRankMode != "" {
		settings.RookRankMode = opts.RookRankMode
	}
	if opts.DeckMode != "" {
		settings.DeckMode = opts.DeckMode
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	deck := BuildDeck(settings.DeckMode)
	Shuffle(deck, NewRand(opts.Seed))
	hands, kitty, err := Deal(deck, KittySize)
	if err != nil {
		return ErrInvalidSettings.withf("%v", err)
	}

	g.Settings = settings
	g.HandNumber++
	g.Hand = emptyHand()
	g.Hand.Seed = opts.Seed
	g.Hand.DeckMode = settings.DeckMode
	g.Hand.RookRankMode = settings.RookRankMode
	g.Hand.Hands = hands
	g.Hand.Kitty = kitty
	g.Bidding = NewBidding(g.DealerIndex, settings)
	g.Phase = PhaseBidding
	g.TurnSeat = g.Bidding.CurrentPlayer
	return nil
}

// ---------------------------------------------------------------------------
// Bidding
// ---------------------------------------------------------------------------

// biddingSeat validates phase and actor for an auction action.
func (g *GameState) biddingSeat(actor PlayerID) (Seat, error) {
	if g.Phase != PhaseBidding {
		return NoSeat, ErrBiddingNotActive.withf("cannot bid during %s", g.Phase)
	}
	return g.seatOrErr(actor)
}

// Bid places a bid for actor.
func (g *GameState) Bid(actor PlayerID, amount int) error {
	seat, err := g.biddingSeat(actor)
	if err != nil {
		return err
	}
	if err := g.Bidding.Bid(seat, amount); err != nil {
		return err
	}
	g.afterBiddingAction()
	return nil
}

// Pass passes for actor.
func (g *GameState) Pass(actor PlayerID) error {
	seat, err := g.biddingSeat(actor)
	if err != nil {
		return err
	}
	if err := g.Bidding.Pass(seat); err != nil {
		return err
	}
	g.afterBiddingAction()
	return nil
}

// PassPartner declines to outbid actor's partner without leaving the auction.
func (g *GameState) PassPartner(actor PlayerID) error {
	seat, err := g.biddingSeat(actor)
	if err != nil {
		return err
	}
	if err := g.Bidding.PassPartner(seat); err != nil {
		return err
	}
	g.afterBiddingAction()
	return nil
}

// afterBiddingAction advances the turn or, once the auction is complete,
// awards the contract and moves to the kitty phase.
func (g *GameState) afterBiddingAction() {
	win, done := g.Bidding.WinningBid()
	if !done {
		g.TurnSeat = g.Bidding.CurrentPlayer
		return
	}
	g.Hand.Bidder = win.Seat
	g.Hand.WinningBid = win.Amount
	g.Hand.AllPassFallback = g.Bidding.AllPassed()
	g.Phase = PhaseKitty
	g.TurnSeat = win.Seat
	if g.Settings.AutoPickupKitty {
		g.pickupKitty()
	}
}

// ---------------------------------------------------------------------------
// Kitty
// ---------------------------------------------------------------------------

// bidderSeat validates that actor is the winning bidder.
func (g *GameState) bidderSeat(actor PlayerID) (Seat, error) {
	seat, err := g.seatOrErr(actor)
	if err != nil {
		return NoSeat, err
	}
	if seat != g.Hand.Bidder {
		return NoSeat, ErrOnlyBidderMayAct.withf("the bidder is %s", g.Hand.Bidder)
	}
	return seat, nil
}

// PickupKitty moves the kitty into the bidder's hand when pickup was deferred.
func (g *GameState) PickupKitty(actor PlayerID) error {
	if g.Phase != PhaseKitty {
		return ErrKittyNotAvailable.withf("cannot pick up the kitty during %s", g.Phase)
	}
	if _, err := g.bidderSeat(actor); err != nil {
		return err
	}
	if g.Hand.KittyPickedUp {
		return ErrKittyAlreadyPicked
	}
	g.pickupKitty()
	return nil
}

func (g *GameState) pickupKitty() {
	b := g.Hand.Bidder
	g.Hand.Hands[b] = append(g.Hand.Hands[b], g.Hand.Kitty...)
	g.Hand.Kitty = nil
	g.Hand.KittyPickedUp = true
}

// DiscardKitty sets aside exactly KittySize cards from the bidder's hand as
// the new kitty. It reports whether any discarded card carries points; which
// cards were discarded stays private.
func (g *GameState) DiscardKitty(actor PlayerID, cards []Card) (bool, error) {
	if g.Phase != PhaseKitty {
		return false, ErrKittyNotAvailable.withf("cannot discard during %s", g.Phase)
	}
	seat, err := g.bidderSeat(actor)
	if err != nil {
		return false, err
	}
	if !g.Hand.KittyPickedUp {
		return false, ErrKittyNotPickedUp
	}
	if len(cards) != KittySize {
		return false, ErrDiscardMustMatchKittySize.withf("discard %d cards, got %d", KittySize, len(cards))
	}
	remaining, ok := RemoveCards(g.Hand.Hands[seat], cards)
	if !ok {
		return false, ErrCardsMissingFromHand
	}

	notice := false
	for _, c := range cards {
		if c.IsPointCard() {
			notice = true
			break
		}
	}
	g.Hand.Hands[seat] = remaining
	g.Hand.Kitty = cloneCards(cards)
	g.Phase = PhaseDeclareTrump
	return notice, nil
}

// ---------------------------------------------------------------------------
// Trump
// ---------------------------------------------------------------------------

// DeclareTrump sets the trump color. The bidder leads the first trick.
func (g *GameState) DeclareTrump(actor PlayerID, color Color) error {
	if g.Phase != PhaseDeclareTrump {
		return ErrTrumpNotReady.withf("cannot declare trump during %s", g.Phase)
	}
	seat, err := g.bidderSeat(actor)
	if err != nil {
		return err
	}
	if !color.Valid() {
		return ErrInvalidTrump
	}
	g.Hand.Trump = color
	g.Phase = PhaseTrick
	g.TurnSeat = seat
	return nil
}

// ---------------------------------------------------------------------------
// Trick play
// ---------------------------------------------------------------------------

// PlayCard plays card for actor.
//
// A finished trick stays in the buffer until its winner leads again. A play
// that does not finish a trick can be taken back by the same player until
// anyone plays again.
func (g *GameState) PlayCard(actor PlayerID, card Card) error {
	if g.Phase != PhaseTrick {
		return ErrNotTrickPhase.withf("cannot play during %s", g.Phase)
	}
	if !g.Hand.Trump.Valid() {
		return ErrTrumpNotSet
	}
	seat, err := g.seatOrErr(actor)
	if err != nil {
		return err
	}
	if seat != g.TurnSeat {
		return ErrNotYourTurn.withf("it is %s's turn", g.TurnSeat)
	}
	hand := g.Hand.Hands[seat]
	if !containsCard(hand, card) {
		return ErrCardNotInHand.withf("%s is not in your hand", card)
	}
	if !IsLegalPlay(hand, card, g.Hand.currentLead(), g.Hand.Trump, g.Hand.RookRankMode) {
		return ErrIllegalPlay.withf("%s does not follow %s", card, g.Hand.currentLead())
	}

	prior := g.undoSnapshot()
	g.Hand.Undo = nil

	if g.Hand.TrickComplete() {
		g.Hand.TrickCards = nil
	}
	remaining, _ := RemoveCards(hand, []Card{card})
	g.Hand.Hands[seat] = remaining
	g.Hand.TrickCards = append(g.Hand.TrickCards, TrickPlay{Seat: seat, Card: card})

	if !g.Hand.TrickComplete() {
		g.TurnSeat = seat.Next()
		g.Hand.Undo = &UndoSlot{Seat: seat, prior: prior}
		return nil
	}

	g.completeTrick()
	if g.Hand.handsEmpty() {
		g.scoreHand()
	}
	return nil
}

// completeTrick awards the buffered trick to its winner. The cards stay
// visible in the buffer.
func (g *GameState) completeTrick() {
	idx := TrickWinner(g.Hand.TrickCards, g.Hand.Trump, g.Hand.RookRankMode)
	if idx < 0 {
		panic("engine: completeTrick on an empty trick")
	}
	winner := g.Hand.TrickCards[idx].Seat
	team := winner.Team()
	g.Hand.CapturedByTeam[team] = append(g.Hand.CapturedByTeam[team], trickCards(g.Hand.TrickCards)...)
	g.Hand.LastTrickWinnerTeam = team
	g.Hand.TricksPlayed++
	g.TurnSeat = winner
}

// ---------------------------------------------------------------------------
// Scoring and hand progression
// ---------------------------------------------------------------------------

// scoreHand resolves the contract, appends the hand history and checks for a
// winner.
func (g *GameState) scoreHand() {
	h := &g.Hand
	biddingTeam := h.BiddingTeam()
	res := ScoreHand(h.CapturedByTeam, h.LastTrickWinnerTeam, h.Kitty, biddingTeam, h.WinningBid)
	h.HandPoints = res.Points
	h.HandScores = res.Scores
	h.BiddersSet = res.BiddersSet
	for t := range g.Scores {
		g.Scores[t] += res.Scores[t]
	}

	g.HandHistory = append(g.HandHistory, HandRecord{
		HandNumber:      g.HandNumber,
		Dealer:          g.DealerIndex,
		Bidder:          h.Bidder,
		BidderPlayerID:  g.PlayerOrder[h.Bidder],
		BiddingTeam:     biddingTeam,
		BidAmount:       h.WinningBid,
		AllPassFallback: h.AllPassFallback,
		Trump:           h.Trump,
		BiddersSet:      res.BiddersSet,
		Points:          res.Points,
		Scores:          res.Scores,
		CumulativeAfter: g.Scores,
		Seed:            h.Seed,
		DeckMode:        h.DeckMode,
	})

	g.TurnSeat = NoSeat
	if winner, ok := g.gameWinner(biddingTeam); ok {
		g.WinnerTeam = winner
		g.Phase = PhaseGameOver
		return
	}
	g.Phase = PhaseScore
}

// gameWinner decides whether the game has ended. If both teams reach the
// target the higher cumulative score wins; a tie goes to the bidding team.
func (g *GameState) gameWinner(biddingTeam Team) (Team, bool) {
	t1 := g.Scores[Team1] >= g.TargetScore
	t2 := g.Scores[Team2] >= g.TargetScore
	switch {
	case t1 && t2:
		if g.Scores[Team1] == g.Scores[Team2] {
			return biddingTeam, true
		}
		if g.Scores[Team1] > g.Scores[Team2] {
			return Team1, true
		}
		return Team2, true
	case t1:
		return Team1, true
	case t2:
		return Team2, true
	}
	return NoTeam, false
}

// NextHand rotates the dealer and returns to preDeal. Cumulative scores,
// the target score and the table settings carry over.
func (g *GameState) NextHand() error {
	switch g.Phase {
	case PhaseScore:
	case PhaseGameOver:
		return ErrGameComplete
	default:
		return ErrHandNotComplete.withf("cannot start the next hand during %s", g.Phase)
	}
	g.DealerIndex = g.DealerIndex.Next()
	g.Phase = PhasePreDeal
	g.TurnSeat = g.DealerIndex
	g.Hand.Undo = nil
	return nil
}

// ---------------------------------------------------------------------------
// Seats
// ---------------------------------------------------------------------------

// RebindSeat binds seat to a new player, e.g. after a reconnect under a new
// identity. Nothing else changes; the turn follows the seat.
func (g *GameState) RebindSeat(seat Seat, player PlayerID) error {
	if !seat.Valid() {
		return ErrInvalidSeat.withf("seat %d does not exist", seat)
	}
	if player == "" {
		return ErrNotSeated.withf("cannot bind an empty player to %s", seat)
	}
	if other, ok := g.SeatOf(player); ok && other != seat {
		return ErrPlayerAlreadySeated.withf("player %s already holds %s", player, other)
	}
	g.PlayerOrder[seat] = player
	return nil
}

func (a DealAction) String() string {
	return fmt.Sprintf("deal(rook=%q deck=%q seed=%d)", a.RookRankMode, a.DeckMode, a.Seed)
}
