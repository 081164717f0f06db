package engine

import (
	"reflect"
	"testing"
)

func TestUndoRestoresPrePlayState(t *testing.T) {
	g := trickReady(t, 64)
	before := g.Clone()

	card := g.LegalPlaysFor("bob")[0]
	mustOK(t, g.PlayCard("bob", card))
	if p, ok := g.UndoAvailableFor(); !ok || p != "bob" {
		t.Fatalf("UndoAvailableFor = %q, %v; want bob", p, ok)
	}

	mustOK(t, g.UndoPlay("bob"))
	if !reflect.DeepEqual(g, before) {
		t.Error("undo did not restore the pre-play state")
	}
	if _, ok := g.UndoAvailableFor(); ok {
		t.Error("undo still available after undoing")
	}
	wantErr(t, g, g.Clone(), g.UndoPlay("bob"), ErrNoUndoAvailable)
}

func TestUndoOnlyByLastPlayer(t *testing.T) {
	g := trickReady(t, 65)
	mustOK(t, g.PlayCard("bob", g.LegalPlaysFor("bob")[0]))

	before := g.Clone()
	wantErr(t, g, before, g.UndoPlay("carol"), ErrOnlyLastPlayerMayUndo)
	wantErr(t, g, before, g.UndoPlay("mallory"), ErrNotSeated)

	// A later play replaces the slot.
	mustOK(t, g.PlayCard("carol", g.LegalPlaysFor("carol")[0]))
	before = g.Clone()
	wantErr(t, g, before, g.UndoPlay("bob"), ErrOnlyLastPlayerMayUndo)
	mustOK(t, g.UndoPlay("carol"))
	if len(g.Hand.TrickCards) != 1 {
		t.Errorf("TrickCards = %v, want bob's lead only", g.Hand.TrickCards)
	}
}

func TestUndoNeverCrossesTrick(t *testing.T) {
	g := trickReady(t, 66)
	for i := 0; i < NumSeats; i++ {
		turn, _ := g.WhoseTurn()
		mustOK(t, g.PlayCard(turn.PlayerID, g.LegalPlaysFor(turn.PlayerID)[0]))
	}
	if g.Hand.TricksPlayed != 1 {
		t.Fatalf("TricksPlayed = %d, want 1", g.Hand.TricksPlayed)
	}
	last := g.Hand.TrickCards[NumSeats-1].Seat
	before := g.Clone()
	wantErr(t, g, before, g.UndoPlay(g.PlayerAt(last)), ErrNoUndoAvailable)
}

func TestUndoWindowClosedOutsideTricks(t *testing.T) {
	g := biddingDone(t, DefaultSettings(), 67)
	wantErr(t, g, g.Clone(), g.UndoPlay("bob"), ErrUndoWindowClosed)
}

func TestUndoSurvivesRebind(t *testing.T) {
	g := trickReady(t, 68)
	card := g.LegalPlaysFor("bob")[0]
	mustOK(t, g.PlayCard("bob", card))

	mustOK(t, g.RebindSeat(SeatT2P1, "erin"))
	mustOK(t, g.UndoPlay("erin"))
	if g.PlayerAt(SeatT2P1) != "erin" {
		t.Errorf("undo reverted the seat binding to %s", g.PlayerAt(SeatT2P1))
	}
	if !containsCard(g.Hand.Hands[SeatT2P1], card) {
		t.Error("card not returned to the rebound seat")
	}
	turn, _ := g.WhoseTurn()
	if turn.PlayerID != "erin" {
		t.Errorf("turn = %s, want erin", turn.PlayerID)
	}
}
