package game

import (
	"testing"

	engine "github.com/jason-s-yu/rook/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicViewBeforeDeal(t *testing.T) {
	tbl, users, _ := setupTestTable(t, engine.DefaultSettings())
	v := NewPublicView(tbl.State())

	assert.Equal(t, engine.PhasePreDeal, v.Phase)
	assert.Nil(t, v.Bidding)
	assert.Nil(t, v.Contract)
	assert.Nil(t, v.Winner)
	require.NotNil(t, v.Turn)
	assert.Equal(t, users[0].PlayerID(), v.Turn.PlayerID)
	assert.True(t, v.Seats[engine.SeatT1P1].IsDealer)
	assert.Equal(t, engine.Team2, v.Seats[engine.SeatT2P1].Team)
}

func TestPublicViewDuringBidding(t *testing.T) {
	tbl, users, _ := setupTestTable(t, engine.DefaultSettings())
	mustApply(t, tbl, users[0].PlayerID(), engine.DealAction{Seed: 50})
	mustApply(t, tbl, users[1].PlayerID(), engine.BidAction{Amount: 110})
	mustApply(t, tbl, users[2].PlayerID(), engine.PassAction{})

	v := NewPublicView(tbl.State())
	require.NotNil(t, v.Bidding)
	require.NotNil(t, v.Bidding.HighBid)
	assert.Equal(t, 110, v.Bidding.HighBid.Amount)
	assert.Len(t, v.Bidding.History, 2)
	assert.True(t, v.Seats[engine.SeatT1P2].Passed)
	assert.False(t, v.Seats[engine.SeatT2P1].Passed)
	assert.Equal(t, engine.SeatT2P2, v.Turn.Seat)
	assert.Equal(t, engine.KittySize, v.KittySize)
	assert.Nil(t, v.Contract)
}

func TestPlayerViewKittyOnlyForBidder(t *testing.T) {
	s := engine.DefaultSettings()
	s.AutoPickupKitty = false
	tbl, users, _ := setupTestTable(t, s)
	state := biddingWonBySeat2(t, tbl, 51)
	require.Equal(t, engine.PhaseKitty, state.Phase)

	bidder := NewPlayerView(state, users[1].PlayerID())
	assert.Equal(t, state.Hand.Kitty, bidder.Kitty)
	assert.Len(t, bidder.Hand, 13)
	require.NotNil(t, bidder.Contract)
	assert.Equal(t, 100, bidder.Contract.Amount)

	for _, i := range []int{0, 2, 3} {
		v := NewPlayerView(state, users[i].PlayerID())
		assert.Nil(t, v.Kitty, "seat %d sees the kitty", i)
		assert.Equal(t, state.Hand.Hands[i], v.Hand)
	}

	state, _ = mustApply(t, tbl, users[1].PlayerID(), engine.PickupKittyAction{})
	assert.Nil(t, NewPlayerView(state, users[1].PlayerID()).Kitty, "kitty is empty once picked up")
}

func TestPlayerViewForStranger(t *testing.T) {
	tbl, users, _ := setupTestTable(t, engine.DefaultSettings())
	state, _ := mustApply(t, tbl, users[0].PlayerID(), engine.DealAction{Seed: 52})

	v := NewPlayerView(state, "spectator")
	assert.False(t, v.Seated)
	assert.Equal(t, engine.NoSeat, v.You)
	assert.Empty(t, v.Hand)
	assert.Nil(t, v.LegalPlays)
}

func TestPlayerViewLegalPlaysAndScore(t *testing.T) {
	tbl, _, _ := setupTestTable(t, engine.DefaultSettings())
	state := playOut(t, tbl, 53, func(g *engine.GameState) bool { return g.Phase == engine.PhaseTrick })

	turn, ok := state.WhoseTurn()
	require.True(t, ok)
	v := NewPlayerView(state, turn.PlayerID)
	assert.Equal(t, state.LegalPlaysFor(turn.PlayerID), v.LegalPlays)
	assert.NotEmpty(t, v.LegalPlays)

	state = playOut(t, tbl, 53, func(g *engine.GameState) bool { return g.Phase == engine.PhaseScore })
	require.Equal(t, engine.PhaseScore, state.Phase)
	pv := NewPublicView(state)
	require.NotNil(t, pv.LastHand)
	assert.Equal(t, state.HandHistory[0], *pv.LastHand)
	assert.Nil(t, pv.Turn)
	assert.Equal(t, engine.TotalPoints, pv.LastHand.Points[0]+pv.LastHand.Points[1])
}
