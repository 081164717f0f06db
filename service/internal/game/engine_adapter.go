// internal/game/engine_adapter.go
package game

import (
	engine "github.com/jason-s-yu/rook/engine"
	"github.com/sirupsen/logrus"
)

// Apply runs one action against the table. On success it returns a snapshot
// of the new state together with the engine's outcome flags; a rejected
// action changes nothing and emits nothing.
//
// Deals without an explicit seed are seeded from the room code and the
// current time, so every hand can be replayed from (room code, deal time).
func (t *Table) Apply(actor engine.PlayerID, act engine.Action) (*engine.GameState, engine.Outcome, error) {
	t.Mu.Lock()
	state, out, err := t.apply(actor, act)
	hooks := t.takeHooks()
	t.Mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	return state, out, err
}

// apply assumes the lock is held.
func (t *Table) apply(actor engine.PlayerID, act engine.Action) (*engine.GameState, engine.Outcome, error) {
	if act == nil {
		return nil, engine.Outcome{}, engine.ErrUnknownAction
	}

	var dealtAt int64
	if d, ok := act.(engine.DealAction); ok {
		dealtAt = t.Now().UnixMilli()
		if d.Seed == 0 {
			d.Seed = engine.SeedFrom(t.RoomCode, dealtAt)
			act = d
		}
	}

	phaseBefore := t.Engine.Phase
	handsBefore := len(t.Engine.HandHistory)

	out, err := t.Engine.Apply(actor, act)
	entry := t.log.WithFields(logrus.Fields{"player": actor, "action": act.Name()})
	if err != nil {
		entry.WithError(err).Debug("Action rejected")
		return nil, out, err
	}
	entry.Debug("Action applied")

	if dealtAt != 0 {
		t.dealtAt = dealtAt
		t.fingerprint = DealFingerprint(t.Engine.Hand.Hands, t.Engine.Hand.Kitty)
	}

	t.logAction(actor, act.Name(), t.historianPayload(act))
	t.emitActionEvents(actor, act, out)
	if phaseBefore == engine.PhaseBidding && t.Engine.Phase != engine.PhaseBidding {
		t.emitBiddingComplete()
	}
	if len(t.Engine.HandHistory) > handsBefore {
		t.onHandScored(t.Engine.HandHistory[len(t.Engine.HandHistory)-1])
	}

	if t.Engine.IsGameOver() {
		t.endGame()
	} else {
		t.broadcastPlayerTurn()
	}
	t.broadcastSyncStateToAll()
	t.cacheSnapshot()
	return t.Engine.Clone(), out, nil
}

// historianPayload is the full audit record of an action, including hidden
// information such as the discarded cards.
func (t *Table) historianPayload(act engine.Action) map[string]interface{} {
	switch a := act.(type) {
	case engine.DealAction:
		return map[string]interface{}{
			"handNumber":   t.Engine.HandNumber,
			"seed":         t.Engine.Hand.Seed,
			"dealtAt":      t.dealtAt,
			"deckMode":     t.Engine.Hand.DeckMode,
			"rookRankMode": t.Engine.Hand.RookRankMode,
			"fingerprint":  t.fingerprint,
		}
	case engine.BidAction:
		return map[string]interface{}{"amount": a.Amount}
	case engine.DiscardKittyAction:
		return map[string]interface{}{"cards": a.Cards}
	case engine.DeclareTrumpAction:
		return map[string]interface{}{"trump": a.Color}
	case engine.PlayCardAction:
		return map[string]interface{}{"card": a.Card, "trick": t.Engine.Hand.TricksPlayed}
	case engine.NextHandAction:
		return map[string]interface{}{"dealer": t.Engine.DealerIndex}
	}
	return nil
}

// emitActionEvents broadcasts the public side of a successful action.
// Assumes lock is held by caller.
func (t *Table) emitActionEvents(actor engine.PlayerID, act engine.Action, out engine.Outcome) {
	seat, _ := t.Engine.SeatOf(actor)
	user := &EventUser{ID: actor, Seat: seat}
	h := &t.Engine.Hand

	switch a := act.(type) {
	case engine.DealAction:
		t.fireEvent(GameEvent{Type: EventHandDealt, User: user, Payload: map[string]interface{}{
			"handNumber":   t.Engine.HandNumber,
			"deckMode":     h.DeckMode,
			"rookRankMode": h.RookRankMode,
			"handSize":     len(h.Hands[seat]),
		}})
	case engine.BidAction:
		t.fireEvent(GameEvent{Type: EventPlayerBid, User: user, Payload: map[string]interface{}{"amount": a.Amount}})
	case engine.PassAction:
		t.fireEvent(GameEvent{Type: EventPlayerPass, User: user})
	case engine.PassPartnerAction:
		t.fireEvent(GameEvent{Type: EventPlayerPassPartner, User: user})
	case engine.PickupKittyAction:
		t.fireEvent(GameEvent{Type: EventKittyPickedUp, User: user})
	case engine.DiscardKittyAction:
		t.fireEvent(GameEvent{Type: EventKittyDiscarded, User: user, Payload: map[string]interface{}{"count": len(a.Cards)}})
		if out.PointsNotice {
			t.fireEvent(GameEvent{Type: EventKittyPointsNotice, User: user})
		}
	case engine.DeclareTrumpAction:
		t.fireEvent(GameEvent{Type: EventTrumpDeclared, User: user, Payload: map[string]interface{}{"trump": a.Color}})
	case engine.PlayCardAction:
		card := a.Card
		t.fireEvent(GameEvent{Type: EventPlayerPlayCard, User: user, Card: &card})
		if out.TrickCompleted {
			t.emitTrickComplete()
		}
	case engine.UndoPlayAction:
		t.fireEvent(GameEvent{Type: EventPlayerUndo, User: user})
	case engine.NextHandAction:
		t.fireEvent(GameEvent{Type: EventNextHand, Payload: map[string]interface{}{
			"dealer":     t.Engine.DealerIndex,
			"dealerId":   t.Engine.Dealer(),
			"handNumber": t.Engine.HandNumber + 1,
		}})
	}
}

func (t *Table) emitBiddingComplete() {
	h := &t.Engine.Hand
	t.fireEvent(GameEvent{
		Type: EventBiddingComplete,
		User: &EventUser{ID: t.Engine.PlayerAt(h.Bidder), Seat: h.Bidder},
		Payload: map[string]interface{}{
			"amount":          h.WinningBid,
			"allPassFallback": h.AllPassFallback,
			"kittyPickedUp":   h.KittyPickedUp,
		},
	})
}

func (t *Table) emitTrickComplete() {
	h := &t.Engine.Hand
	idx := engine.TrickWinner(h.TrickCards, h.Trump, h.RookRankMode)
	winner := h.TrickCards[idx].Seat
	t.fireEvent(GameEvent{
		Type: EventTrickComplete,
		User: &EventUser{ID: t.Engine.PlayerAt(winner), Seat: winner},
		Payload: map[string]interface{}{
			"trick":  h.TricksPlayed,
			"team":   winner.Team(),
			"points": engine.CountPoints(trickCardsOf(h.TrickCards)),
		},
	})
}

func trickCardsOf(plays []engine.TrickPlay) []engine.Card {
	out := make([]engine.Card, len(plays))
	for i, p := range plays {
		out[i] = p.Card
	}
	return out
}
