package engine

import (
	"errors"
	"testing"
)

func TestApplyDispatch(t *testing.T) {
	g := newTestGame(t, DefaultSettings())

	steps := []struct {
		actor PlayerID
		act   Action
		phase Phase
	}{
		{"alice", DealAction{Seed: 555}, PhaseBidding},
		{"bob", BidAction{Amount: 100}, PhaseBidding},
		{"carol", PassAction{}, PhaseBidding},
		{"dave", PassPartnerAction{}, PhaseBidding},
		{"alice", PassAction{}, PhaseBidding},
		{"bob", BidAction{Amount: 105}, PhaseBidding},
		{"dave", PassAction{}, PhaseKitty},
	}
	for i, s := range steps {
		if _, err := g.Apply(s.actor, s.act); err != nil {
			t.Fatalf("step %d %s by %s: %v", i, s.act.Name(), s.actor, err)
		}
		if g.Phase != s.phase {
			t.Fatalf("step %d %s: phase = %s, want %s", i, s.act.Name(), g.Phase, s.phase)
		}
	}

	if _, err := g.Apply("bob", DiscardKittyAction{Cards: cloneCards(g.Hand.Hands[SeatT2P1][:KittySize])}); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if _, err := g.Apply("bob", DeclareTrumpAction{Color: ColorYellow}); err != nil {
		t.Fatalf("declare: %v", err)
	}

	first := g.LegalPlaysFor("bob")[0]
	out, err := g.Apply("bob", PlayCardAction{Card: first})
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if out.TrickCompleted || out.HandScored {
		t.Errorf("outcome = %+v after the first card", out)
	}
	if _, err := g.Apply("bob", UndoPlayAction{}); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !containsCard(g.Hand.Hands[SeatT2P1], first) {
		t.Error("undo did not return the card")
	}

	for i := 0; i < NumSeats; i++ {
		turn, _ := g.WhoseTurn()
		out, err = g.Apply(turn.PlayerID, PlayCardAction{Card: g.LegalPlaysFor(turn.PlayerID)[0]})
		if err != nil {
			t.Fatalf("play %d: %v", i, err)
		}
	}
	if !out.TrickCompleted {
		t.Error("TrickCompleted not set on the fourth card")
	}

	if _, err := g.Apply("alice", NextHandAction{}); !errors.Is(err, ErrHandNotComplete) {
		t.Errorf("next hand mid-play: err = %v", err)
	}
}

func TestApplyPickupKitty(t *testing.T) {
	s := DefaultSettings()
	s.AutoPickupKitty = false
	g := biddingDone(t, s, 13)
	if _, err := g.Apply("bob", PickupKittyAction{}); err != nil {
		t.Fatalf("pickup: %v", err)
	}
	if !g.Hand.KittyPickedUp {
		t.Error("kitty not picked up")
	}
}

func TestApplyUnknownAction(t *testing.T) {
	g := newTestGame(t, DefaultSettings())
	_, err := g.Apply("alice", nil)
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("err = %v, want %v", err, ErrUnknownAction)
	}
}

func TestActionNames(t *testing.T) {
	names := map[string]bool{}
	for _, a := range []Action{
		DealAction{}, BidAction{}, PassAction{}, PassPartnerAction{}, PickupKittyAction{},
		DiscardKittyAction{}, DeclareTrumpAction{}, PlayCardAction{}, UndoPlayAction{}, NextHandAction{},
	} {
		if names[a.Name()] {
			t.Errorf("duplicate action name %q", a.Name())
		}
		names[a.Name()] = true
	}
}

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		err  *ActionError
		kind ErrorKind
	}{
		{ErrOnlyDealerMayDeal, KindAuthorization},
		{ErrNotYourTurn, KindAuthorization},
		{ErrDealNotReady, KindPhase},
		{ErrNotTrickPhase, KindPhase},
		{ErrIllegalPlay, KindContent},
		{ErrBidTooLow, KindContent},
		{ErrSeatsNotFull, KindIntegrity},
		{ErrPlayerAlreadyPassed, KindIntegrity},
	}
	for _, tc := range cases {
		if tc.err.Kind != tc.kind {
			t.Errorf("%s kind = %s, want %s", tc.err.Code, tc.err.Kind, tc.kind)
		}
	}

	detailed := ErrIllegalPlay.withf("red-5 does not follow green")
	if !errors.Is(detailed, ErrIllegalPlay) {
		t.Error("detailed error does not match its sentinel")
	}
	if errors.Is(detailed, ErrNotYourTurn) {
		t.Error("detailed error matches an unrelated sentinel")
	}
	if detailed.Error() != "illegalPlay: red-5 does not follow green" {
		t.Errorf("Error() = %q", detailed.Error())
	}
}
