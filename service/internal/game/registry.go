package game

import (
	"errors"
	"fmt"
	"sync"

	engine "github.com/jason-s-yu/rook/engine"
	"github.com/sirupsen/logrus"
)

var (
	// ErrRoomNotFound is returned for a room with no running table.
	ErrRoomNotFound = errors.New("game: room not found")
	// ErrRoomInUse is returned when starting a room that already has a table.
	ErrRoomInUse = errors.New("game: room already has a game")
)

// Registry maps room codes to their tables. Tables are independent: an
// action on one room never takes another room's lock.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*Table
	log    *logrus.Entry

	// Configure, when set, runs on every new table before its first event.
	// The transport uses it to attach broadcasters and hooks.
	Configure func(t *Table)
}

// NewRegistry returns an empty registry.
func NewRegistry(log *logrus.Entry) *Registry {
	return &Registry{tables: make(map[string]*Table), log: log}
}

// Start creates the table for a full, ready room and returns its initial
// state. The table is configured and announced before any other caller can
// act on it.
func (r *Registry) Start(room engine.RoomSnapshot, settings engine.Settings) (*engine.GameState, error) {
	t, err := NewTable(room, settings, r.log)
	if err != nil {
		return nil, fmt.Errorf("starting room %s: %w", room.Code, err)
	}
	if r.Configure != nil {
		r.Configure(t)
	}

	// Lock order is table then registry. Actions that find the table
	// wait on t.Mu until the game has been announced.
	t.Mu.Lock()
	defer t.Mu.Unlock()

	r.mu.Lock()
	if _, exists := r.tables[room.Code]; exists {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrRoomInUse, room.Code)
	}
	r.tables[room.Code] = t
	r.mu.Unlock()

	t.begin()
	return t.Engine.Clone(), nil
}

// Table returns the table for roomID.
func (r *Registry) Table(roomID string) (*Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[roomID]
	return t, ok
}

func (r *Registry) lookup(roomID string) (*Table, error) {
	t, ok := r.Table(roomID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	return t, nil
}

// Apply runs any engine action on roomID.
func (r *Registry) Apply(roomID string, actor engine.PlayerID, act engine.Action) (*engine.GameState, engine.Outcome, error) {
	t, err := r.lookup(roomID)
	if err != nil {
		return nil, engine.Outcome{}, err
	}
	state, out, err := t.Apply(actor, act)
	if err != nil {
		name := "unknown"
		if act != nil {
			name = act.Name()
		}
		return nil, out, fmt.Errorf("room %s: %s: %w", roomID, name, err)
	}
	return state, out, nil
}

func (r *Registry) do(roomID string, actor engine.PlayerID, act engine.Action) (*engine.GameState, error) {
	state, _, err := r.Apply(roomID, actor, act)
	return state, err
}

// Deal deals the next hand. Empty modes keep the table settings.
func (r *Registry) Deal(roomID string, actor engine.PlayerID, rookMode engine.RookRankMode, deckMode engine.DeckMode) (*engine.GameState, error) {
	return r.do(roomID, actor, engine.DealAction{RookRankMode: rookMode, DeckMode: deckMode})
}

func (r *Registry) Bid(roomID string, actor engine.PlayerID, amount int) (*engine.GameState, error) {
	return r.do(roomID, actor, engine.BidAction{Amount: amount})
}

func (r *Registry) Pass(roomID string, actor engine.PlayerID) (*engine.GameState, error) {
	return r.do(roomID, actor, engine.PassAction{})
}

func (r *Registry) PassPartner(roomID string, actor engine.PlayerID) (*engine.GameState, error) {
	return r.do(roomID, actor, engine.PassPartnerAction{})
}

func (r *Registry) PickupKitty(roomID string, actor engine.PlayerID) (*engine.GameState, error) {
	return r.do(roomID, actor, engine.PickupKittyAction{})
}

// DiscardKitty sets aside the bidder's discards. The bool reports whether
// any discarded card carries points.
func (r *Registry) DiscardKitty(roomID string, actor engine.PlayerID, cards []engine.Card) (*engine.GameState, bool, error) {
	state, out, err := r.Apply(roomID, actor, engine.DiscardKittyAction{Cards: cards})
	return state, out.PointsNotice, err
}

func (r *Registry) DeclareTrump(roomID string, actor engine.PlayerID, color engine.Color) (*engine.GameState, error) {
	return r.do(roomID, actor, engine.DeclareTrumpAction{Color: color})
}

func (r *Registry) PlayCard(roomID string, actor engine.PlayerID, card engine.Card) (*engine.GameState, error) {
	return r.do(roomID, actor, engine.PlayCardAction{Card: card})
}

func (r *Registry) UndoPlay(roomID string, actor engine.PlayerID) (*engine.GameState, error) {
	return r.do(roomID, actor, engine.UndoPlayAction{})
}

// NextHand moves a scored hand on to the next deal.
func (r *Registry) NextHand(roomID string) (*engine.GameState, error) {
	return r.do(roomID, "", engine.NextHandAction{})
}

// GetState returns a snapshot of the room's game.
func (r *Registry) GetState(roomID string) (*engine.GameState, bool) {
	t, ok := r.Table(roomID)
	if !ok {
		return nil, false
	}
	return t.State(), true
}

// RebindSeat binds seat to newPlayer.
func (r *Registry) RebindSeat(roomID string, seat engine.Seat, newPlayer engine.PlayerID) (*engine.GameState, error) {
	t, err := r.lookup(roomID)
	if err != nil {
		return nil, err
	}
	state, err := t.RebindSeat(seat, newPlayer)
	if err != nil {
		return nil, fmt.Errorf("room %s: rebind %s: %w", roomID, seat, err)
	}
	return state, nil
}

// Remove drops the room's table. It reports whether one existed.
func (r *Registry) Remove(roomID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[roomID]
	if !ok {
		return false
	}
	delete(r.tables, roomID)
	r.log.WithField("room", roomID).Info("Table removed")
	if t.snapshots != nil {
		t.snapshots.Drop()
	}
	return true
}

// Len returns the number of live tables.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}
