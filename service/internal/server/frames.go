package server

import (
	"encoding/json"
	"errors"
	"fmt"

	engine "github.com/jason-s-yu/rook/engine"
	"github.com/jason-s-yu/rook/service/internal/auth"
	"github.com/jason-s-yu/rook/service/internal/game"
	"github.com/jason-s-yu/rook/service/internal/lobby"
	"github.com/jason-s-yu/rook/service/internal/models"
)

var (
	// errBadFrame marks a client frame that could not be decoded.
	errBadFrame = errors.New("bad frame")
	// errNoGame is returned for game actions in a room that has not started.
	errNoGame = errors.New("no game in progress")
)

// Lobby frame types. Every other frame type is an engine action name.
const (
	frameClaimSeat = "claim_seat"
	frameLeave     = "leave"
	frameReady     = "ready"
	frameSync      = "sync"
)

type dealPayload struct {
	RookRankMode engine.RookRankMode `json:"rookRankMode"`
	DeckMode     engine.DeckMode     `json:"deckMode"`
}

type bidPayload struct {
	Amount int `json:"amount"`
}

type discardPayload struct {
	Cards []engine.Card `json:"cards"`
}

type trumpPayload struct {
	Color engine.Color `json:"color"`
}

type playPayload struct {
	Card engine.Card `json:"card"`
}

type seatPayload struct {
	Seat engine.Seat `json:"seat"`
}

type readyPayload struct {
	Ready *bool `json:"ready"`
}

func decodePayload(frame models.GameAction, v interface{}) error {
	if len(frame.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(frame.Payload, v); err != nil {
		return fmt.Errorf("%w: %s payload: %v", errBadFrame, frame.ActionType, err)
	}
	return nil
}

// decodeAction turns a client frame into an engine action.
func decodeAction(frame models.GameAction) (engine.Action, error) {
	switch frame.ActionType {
	case engine.DealAction{}.Name():
		var p dealPayload
		if err := decodePayload(frame, &p); err != nil {
			return nil, err
		}
		return engine.DealAction{RookRankMode: p.RookRankMode, DeckMode: p.DeckMode}, nil
	case engine.BidAction{}.Name():
		var p bidPayload
		if err := decodePayload(frame, &p); err != nil {
			return nil, err
		}
		return engine.BidAction{Amount: p.Amount}, nil
	case engine.PassAction{}.Name():
		return engine.PassAction{}, nil
	case engine.PassPartnerAction{}.Name():
		return engine.PassPartnerAction{}, nil
	case engine.PickupKittyAction{}.Name():
		return engine.PickupKittyAction{}, nil
	case engine.DiscardKittyAction{}.Name():
		var p discardPayload
		if err := decodePayload(frame, &p); err != nil {
			return nil, err
		}
		return engine.DiscardKittyAction{Cards: p.Cards}, nil
	case engine.DeclareTrumpAction{}.Name():
		p := trumpPayload{Color: engine.ColorNone}
		if err := decodePayload(frame, &p); err != nil {
			return nil, err
		}
		return engine.DeclareTrumpAction{Color: p.Color}, nil
	case engine.PlayCardAction{}.Name():
		p := playPayload{Card: engine.EmptyCard}
		if err := decodePayload(frame, &p); err != nil {
			return nil, err
		}
		return engine.PlayCardAction{Card: p.Card}, nil
	case engine.UndoPlayAction{}.Name():
		return engine.UndoPlayAction{}, nil
	case engine.NextHandAction{}.Name():
		return engine.NextHandAction{}, nil
	}
	return nil, fmt.Errorf("%w: unknown frame type %q", errBadFrame, frame.ActionType)
}

// errorFrame is sent only to the connection whose frame failed.
type errorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

func errorFrameFor(err error) errorFrame {
	f := errorFrame{Type: "error", Message: err.Error()}
	var ae *engine.ActionError
	switch {
	case errors.As(err, &ae):
		f.Code, f.Kind, f.Message = ae.Code, string(ae.Kind), ae.Message
	case errors.Is(err, errBadFrame):
		f.Code = "badFrame"
	case errors.Is(err, errNoGame):
		f.Code = "noGame"
	case errors.Is(err, lobby.ErrRoomNotFound), errors.Is(err, game.ErrRoomNotFound):
		f.Code = "roomNotFound"
	case errors.Is(err, lobby.ErrSeatTaken):
		f.Code = "seatTaken"
	case errors.Is(err, lobby.ErrNotInRoom):
		f.Code = "notInRoom"
	case errors.Is(err, lobby.ErrGameStarted):
		f.Code = "gameStarted"
	case errors.Is(err, lobby.ErrInvalidSeat):
		f.Code = "invalidSeat"
	case errors.Is(err, auth.ErrInvalidToken):
		f.Code = "unauthorized"
	default:
		f.Code = "internal"
		f.Message = "internal error"
	}
	return f
}

// roomFrame carries the lobby state of a room.
type roomFrame struct {
	Type string     `json:"type"`
	Room lobby.Room `json:"room"`
}

func roomStateFrame(r lobby.Room) roomFrame {
	return roomFrame{Type: "room_state", Room: r}
}
