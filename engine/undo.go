package engine

// UndoSlot is the single-depth undo for the last trick play. It is cleared by
// every later play and never spans a completed trick.
type UndoSlot struct {
	// Seat is the seat that made the play; only its player may undo.
	Seat  Seat
	prior *GameState
}

// UndoAvailableFor returns the player who may currently undo, if anyone.
func (g *GameState) UndoAvailableFor() (PlayerID, bool) {
	if g.Phase != PhaseTrick || g.Hand.Undo == nil {
		return "", false
	}
	return g.PlayerOrder[g.Hand.Undo.Seat], true
}

// undoSnapshot captures the state before a play, with no undo of its own.
func (g *GameState) undoSnapshot() *GameState {
	s := g.Clone()
	s.Hand.Undo = nil
	return s
}

// UndoPlay restores the state from before actor's most recent play. Seat
// bindings are kept as they are now, so a reconnected player can still undo.
func (g *GameState) UndoPlay(actor PlayerID) error {
	if g.Phase != PhaseTrick {
		return ErrUndoWindowClosed.withf("cannot undo during %s", g.Phase)
	}
	if g.Hand.Undo == nil {
		return ErrNoUndoAvailable
	}
	seat, err := g.seatOrErr(actor)
	if err != nil {
		return err
	}
	if seat != g.Hand.Undo.Seat {
		return ErrOnlyLastPlayerMayUndo
	}

	players := g.PlayerOrder
	*g = *g.Hand.Undo.prior.Clone()
	g.PlayerOrder = players
	return nil
}
