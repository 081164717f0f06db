// internal/game/game.go
package game

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/rook/engine"
	"github.com/jason-s-yu/rook/service/internal/cache"
	"github.com/jason-s-yu/rook/service/internal/database"
	"github.com/sirupsen/logrus"
)

// OnGameEndFunc is called once when a table's game ends. It receives the room
// code, the winning team and the final cumulative scores.
type OnGameEndFunc func(roomCode string, winner engine.Team, scores [2]int)

// OnHandScoredFunc is called after every scored hand.
type OnHandScoredFunc func(roomCode string, rec engine.HandRecord)

// GameEventType represents the type of a game-related event broadcast via WebSockets.
type GameEventType string

// Constants defining the various GameEvent types used for WebSocket communication.
const (
	EventHandDealt         GameEventType = "hand_dealt"          // Public: a new hand was dealt.
	EventPlayerBid         GameEventType = "player_bid"          // Public: a seat raised the bid.
	EventPlayerPass        GameEventType = "player_pass"         // Public: a seat passed.
	EventPlayerPassPartner GameEventType = "player_pass_partner" // Public: a seat passed to its partner.
	EventBiddingComplete   GameEventType = "bidding_complete"    // Public: the contract is set.
	EventKittyPickedUp     GameEventType = "kitty_picked_up"     // Public: the bidder took the kitty.
	EventKittyDiscarded    GameEventType = "kitty_discarded"     // Public: the bidder set aside five cards (count only).
	EventKittyPointsNotice GameEventType = "kitty_points_notice" // Public: the discards include point cards.
	EventTrumpDeclared     GameEventType = "trump_declared"      // Public: trump color named.
	EventPlayerPlayCard    GameEventType = "player_play_card"    // Public: a card was played to the trick.
	EventTrickComplete     GameEventType = "trick_complete"      // Public: the trick was won.
	EventPlayerUndo        GameEventType = "player_undo"         // Public: the last play was taken back.
	EventHandScored        GameEventType = "hand_scored"         // Public: hand result and cumulative scores.
	EventNextHand          GameEventType = "next_hand"           // Public: dealer rotated.
	EventSeatRebound       GameEventType = "seat_rebound"        // Public: a seat changed player.
	EventGamePlayerTurn    GameEventType = "game_player_turn"    // Public: whose turn it is.
	EventPrivateSyncState  GameEventType = "private_sync_state"  // Private: full state as seen by one player.
	EventGameEnd           GameEventType = "game_end"            // Public: game over, includes results.
)

// EventUser identifies the acting seat within a GameEvent.
type EventUser struct {
	ID   engine.PlayerID `json:"id"`
	Seat engine.Seat     `json:"seat"`
}

// GameEvent is the standard structure for broadcasting game state changes and actions.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	User    *EventUser             `json:"user,omitempty"`
	Card    *engine.Card           `json:"card,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`

	State *PlayerView `json:"state,omitempty"` // Per-player view for sync events.
}

// Table owns one running game. All access to Engine goes through Mu.
type Table struct {
	ID       uuid.UUID
	RoomCode string
	Engine   *engine.GameState

	Mu sync.Mutex

	// Communication callbacks. They run with Mu held and must not call back
	// into the table.
	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(player engine.PlayerID, ev GameEvent)

	// Lifecycle hooks. They run after Mu is released.
	OnGameEnd    OnGameEndFunc
	OnHandScored OnHandScoredFunc

	// Now is the clock used to seed deals.
	Now func() time.Time

	log         *logrus.Entry
	actionIndex int
	dealtAt     int64
	fingerprint string
	ended       bool
	hooks       []func()
	snapshots   *snapshotWriter
}

// NewTable creates the game for a full, ready room.
func NewTable(room engine.RoomSnapshot, settings engine.Settings, log *logrus.Entry) (*Table, error) {
	eng, err := engine.NewGame(room, settings)
	if err != nil {
		return nil, err
	}
	id := uuid.New()
	t := &Table{
		ID:       id,
		RoomCode: room.Code,
		Engine:   eng,
		Now:      time.Now,
		log:      log.WithFields(logrus.Fields{"room": room.Code, "game": id}),
	}
	if cache.Rdb != nil {
		t.snapshots = newSnapshotWriter(room.Code, t.log)
	}
	return t, nil
}

// Begin announces the new game to its players and the historian.
func (t *Table) Begin() *engine.GameState {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	t.begin()
	return t.Engine.Clone()
}

// begin assumes the lock is held.
func (t *Table) begin() {
	t.log.WithFields(logrus.Fields{
		"players":  t.Engine.PlayerOrder,
		"settings": t.Engine.Settings.String(),
	}).Info("Game started")
	t.logAction("", "game_start", map[string]interface{}{
		"players":  t.Engine.PlayerOrder,
		"settings": t.Engine.Settings,
	})
	t.broadcastPlayerTurn()
	t.broadcastSyncStateToAll()
	t.cacheSnapshot()
}

// State returns a snapshot of the game.
func (t *Table) State() *engine.GameState {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.Engine.Clone()
}

// ViewFor returns the game as seen by player.
func (t *Table) ViewFor(player engine.PlayerID) PlayerView {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return NewPlayerView(t.Engine, player)
}

// Fingerprint returns the audit hash of the current hand's deal.
func (t *Table) Fingerprint() string {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.fingerprint
}

// RebindSeat hands seat to player, e.g. after a reconnect under a new identity.
func (t *Table) RebindSeat(seat engine.Seat, player engine.PlayerID) (*engine.GameState, error) {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	if !seat.Valid() {
		return nil, engine.ErrInvalidSeat
	}
	previous := t.Engine.PlayerOrder[seat]
	if err := t.Engine.RebindSeat(seat, player); err != nil {
		return nil, err
	}
	t.log.WithFields(logrus.Fields{"seat": seat, "from": previous, "to": player}).Info("Seat rebound")
	t.logAction(player, "rebind_seat", map[string]interface{}{"seat": seat, "previous": previous})
	t.fireEvent(GameEvent{
		Type:    EventSeatRebound,
		User:    &EventUser{ID: player, Seat: seat},
		Payload: map[string]interface{}{"previous": previous},
	})
	t.broadcastSyncStateToAll()
	t.cacheSnapshot()
	return t.Engine.Clone(), nil
}

// fireEvent broadcasts an event to all connected players via the BroadcastFn callback.
// Assumes lock is held by caller.
func (t *Table) fireEvent(ev GameEvent) {
	if t.BroadcastFn == nil {
		t.log.WithField("event", ev.Type).Warn("BroadcastFn is nil, dropping event")
		return
	}
	t.BroadcastFn(ev)
}

// fireEventToPlayer sends an event to a specific player via the BroadcastToPlayerFn callback.
// Assumes lock is held by caller.
func (t *Table) fireEventToPlayer(player engine.PlayerID, ev GameEvent) {
	if t.BroadcastToPlayerFn == nil {
		t.log.WithFields(logrus.Fields{"event": ev.Type, "player": player}).Warn("BroadcastToPlayerFn is nil, dropping private event")
		return
	}
	t.BroadcastToPlayerFn(player, ev)
}

// broadcastPlayerTurn announces whose turn it is, if anyone's.
// Assumes lock is held by caller.
func (t *Table) broadcastPlayerTurn() {
	turn, ok := t.Engine.WhoseTurn()
	if !ok {
		return
	}
	t.fireEvent(GameEvent{
		Type:    EventGamePlayerTurn,
		User:    &EventUser{ID: turn.PlayerID, Seat: turn.Seat},
		Payload: map[string]interface{}{"phase": t.Engine.Phase},
	})
}

func (t *Table) sendSyncState(player engine.PlayerID) {
	state := NewPlayerView(t.Engine, player)
	t.fireEventToPlayer(player, GameEvent{Type: EventPrivateSyncState, State: &state})
}

// broadcastSyncStateToAll sends each seated player their own view.
// Assumes lock is held by caller.
func (t *Table) broadcastSyncStateToAll() {
	if t.BroadcastToPlayerFn == nil {
		return
	}
	for _, p := range t.Engine.PlayerOrder {
		t.sendSyncState(p)
	}
}

// queueHook defers fn until the table lock is released.
func (t *Table) queueHook(fn func()) {
	t.hooks = append(t.hooks, fn)
}

func (t *Table) takeHooks() []func() {
	h := t.hooks
	t.hooks = nil
	return h
}

// onHandScored announces and records the hand that just finished.
// Assumes lock is held by caller.
func (t *Table) onHandScored(rec engine.HandRecord) {
	t.log.WithFields(logrus.Fields{
		"hand":    rec.HandNumber,
		"bidder":  rec.Bidder,
		"bid":     rec.BidAmount,
		"set":     rec.BiddersSet,
		"points":  rec.Points,
		"scores":  rec.CumulativeAfter,
		"allPass": rec.AllPassFallback,
	}).Info("Hand scored")

	t.fireEvent(GameEvent{
		Type:    EventHandScored,
		Payload: map[string]interface{}{"hand": rec, "fingerprint": t.fingerprint},
	})
	t.logAction("", "hand_scored", map[string]interface{}{"hand": rec, "fingerprint": t.fingerprint})
	t.persistHandResult(rec)

	if fn := t.OnHandScored; fn != nil {
		code := t.RoomCode
		t.queueHook(func() { fn(code, rec) })
	}
}

// endGame finalises the game once. Assumes lock is held by caller.
func (t *Table) endGame() {
	if t.ended {
		return
	}
	t.ended = true

	winner, scores := t.Engine.WinnerTeam, t.Engine.Scores
	t.log.WithFields(logrus.Fields{
		"winner": winner,
		"scores": scores,
		"hands":  t.Engine.HandNumber,
	}).Info("Game over")

	payload := map[string]interface{}{
		"winnerTeam": winner,
		"scores":     scores,
		"hands":      t.Engine.HandNumber,
	}
	t.fireEvent(GameEvent{Type: EventGameEnd, Payload: payload})
	t.logAction("", "game_end", payload)
	t.persistFinalGameState()

	if fn := t.OnGameEnd; fn != nil {
		code := t.RoomCode
		t.queueHook(func() { fn(code, winner, scores) })
	}
}

// persistHandResult writes the hand to Postgres in the background.
// Assumes lock is held by caller.
func (t *Table) persistHandResult(rec engine.HandRecord) {
	if database.DB == nil {
		return
	}
	row := database.HandResult{
		GameID:         t.ID,
		RoomCode:       t.RoomCode,
		HandNumber:     rec.HandNumber,
		Dealer:         rec.Dealer.String(),
		Bidder:         rec.Bidder.String(),
		BidderPlayerID: string(rec.BidderPlayerID),
		BidAmount:      rec.BidAmount,
		AllPass:        rec.AllPassFallback,
		Trump:          rec.Trump.String(),
		BiddersSet:     rec.BiddersSet,
		Points:         rec.Points,
		Scores:         rec.Scores,
		Totals:         rec.CumulativeAfter,
		Seed:           rec.Seed,
		DeckMode:       string(rec.DeckMode),
		Fingerprint:    t.fingerprint,
	}
	log := t.log
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.StoreHandResult(ctx, row); err != nil {
			log.WithError(err).Error("Failed storing hand result")
		}
	}()
}

// persistFinalGameState saves the outcome and the final state.
// Assumes lock is held by caller.
func (t *Table) persistFinalGameState() {
	if database.DB == nil {
		return
	}
	res := database.GameResult{
		GameID:     t.ID,
		RoomCode:   t.RoomCode,
		WinnerTeam: t.Engine.WinnerTeam.String(),
		Totals:     t.Engine.Scores,
		Hands:      t.Engine.HandNumber,
		FinalState: t.Engine.Clone(),
	}
	log := t.log
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.StoreFinalGameState(ctx, res); err != nil {
			log.WithError(err).Error("Failed storing final game state")
		}
	}()
}

// cacheSnapshot mirrors the public view into Redis for out-of-process
// readers. Hands and the kitty never leave the process.
// Assumes lock is held by caller.
func (t *Table) cacheSnapshot() {
	if t.snapshots == nil {
		return
	}
	data, err := json.Marshal(NewPublicView(t.Engine))
	if err != nil {
		t.log.WithError(err).Error("Failed encoding room snapshot")
		return
	}
	t.snapshots.Store(data)
}

// logAction sends game action details to the historian stream.
// Increments the internal action index for ordering.
// Assumes lock is held by caller.
func (t *Table) logAction(actor engine.PlayerID, actionType string, payload map[string]interface{}) {
	t.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        t.ID,
		RoomCode:      t.RoomCode,
		ActionIndex:   t.actionIndex,
		ActorID:       string(actor),
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     t.Now().UnixMilli(),
	}
	if cache.Rdb == nil {
		return
	}

	log := t.log
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"index":  rec.ActionIndex,
				"action": rec.ActionType,
			}).Error("Failed publishing action to historian")
		}
	}(record)
}
