package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	engine "github.com/jason-s-yu/rook/engine"
	"github.com/jason-s-yu/rook/service/internal/game"
	"github.com/jason-s-yu/rook/service/internal/lobby"
	"github.com/jason-s-yu/rook/service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(typ, payload string) models.GameAction {
	f := models.GameAction{ActionType: typ}
	if payload != "" {
		f.Payload = json.RawMessage(payload)
	}
	return f
}

func TestDecodeAction(t *testing.T) {
	red5, err := engine.ParseCard("red-5")
	require.NoError(t, err)

	cases := []struct {
		in   models.GameAction
		want engine.Action
	}{
		{frame("deal", ""), engine.DealAction{}},
		{frame("deal", `{"rookRankMode":"low","deckMode":"fast"}`), engine.DealAction{RookRankMode: engine.RookLow, DeckMode: engine.DeckFast}},
		{frame("bid", `{"amount":120}`), engine.BidAction{Amount: 120}},
		{frame("pass", ""), engine.PassAction{}},
		{frame("pass_partner", ""), engine.PassPartnerAction{}},
		{frame("pickup_kitty", ""), engine.PickupKittyAction{}},
		{frame("discard_kitty", `{"cards":["red-5","rook"]}`), engine.DiscardKittyAction{Cards: []engine.Card{red5, engine.RookCard}}},
		{frame("declare_trump", `{"color":"green"}`), engine.DeclareTrumpAction{Color: engine.ColorGreen}},
		{frame("declare_trump", ""), engine.DeclareTrumpAction{Color: engine.ColorNone}},
		{frame("play_card", `{"card":"red-5"}`), engine.PlayCardAction{Card: red5}},
		{frame("play_card", ""), engine.PlayCardAction{Card: engine.EmptyCard}},
		{frame("undo_play", ""), engine.UndoPlayAction{}},
		{frame("next_hand", ""), engine.NextHandAction{}},
	}
	for _, tc := range cases {
		got, err := decodeAction(tc.in)
		require.NoError(t, err, tc.in.ActionType)
		assert.Equal(t, tc.want, got, tc.in.ActionType)
	}
}

func TestDecodeActionErrors(t *testing.T) {
	for _, f := range []models.GameAction{
		frame("fly", ""),
		frame("bid", `{"amount":"lots"}`),
		frame("play_card", `{"card":"purple-3"}`),
		frame("declare_trump", `{"color":"rook"}`),
		frame("discard_kitty", `{"cards":"red-5"}`),
	} {
		_, err := decodeAction(f)
		assert.ErrorIs(t, err, errBadFrame, "%s %s", f.ActionType, f.Payload)
	}
}

func TestErrorFrameFor(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("room X: bid: %w", engine.ErrBidTooLow), "bidTooLow"},
		{engine.ErrNotYourTurn, "notYourTurn"},
		{errBadFrame, "badFrame"},
		{errNoGame, "noGame"},
		{lobby.ErrRoomNotFound, "roomNotFound"},
		{game.ErrRoomNotFound, "roomNotFound"},
		{lobby.ErrSeatTaken, "seatTaken"},
		{lobby.ErrNotInRoom, "notInRoom"},
		{lobby.ErrGameStarted, "gameStarted"},
		{lobby.ErrInvalidSeat, "invalidSeat"},
		{errors.New("disk on fire"), "internal"},
	}
	for _, tc := range cases {
		f := errorFrameFor(tc.err)
		assert.Equal(t, "error", f.Type)
		assert.Equal(t, tc.code, f.Code, tc.err.Error())
	}

	f := errorFrameFor(engine.ErrIllegalPlay)
	assert.Equal(t, "content", f.Kind)
	assert.Equal(t, engine.ErrIllegalPlay.Message, f.Message)
	assert.Equal(t, "internal error", errorFrameFor(errors.New("secret detail")).Message)
}
