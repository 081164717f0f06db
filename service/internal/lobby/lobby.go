// Package lobby manages rooms before and around a game: seat claims, ready
// flags and the hand-off to the game registry once all four seats are ready.
package lobby

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/rook/engine"
	"github.com/sirupsen/logrus"
)

var (
	ErrRoomNotFound = errors.New("lobby: room not found")
	ErrSeatTaken    = errors.New("lobby: seat is taken")
	ErrNotInRoom    = errors.New("lobby: player has no seat in this room")
	ErrGameStarted  = errors.New("lobby: game already started")
	ErrInvalidSeat  = errors.New("lobby: no such seat")
)

// CodeLength is the length of generated room codes.
const CodeLength = 6

// Games is the part of the game registry the lobby drives.
type Games interface {
	Start(room engine.RoomSnapshot, settings engine.Settings) (*engine.GameState, error)
	RebindSeat(roomID string, seat engine.Seat, player engine.PlayerID) (*engine.GameState, error)
	Remove(roomID string) bool
}

// Room is the lobby's record of one table.
type Room struct {
	Code      string                                 `json:"code"`
	Seats     [engine.NumSeats]engine.SeatAssignment `json:"seats"`
	Settings  engine.Settings                        `json:"settings"`
	Started   bool                                   `json:"started"`
	Finished  bool                                   `json:"finished"`
	CreatedAt time.Time                              `json:"createdAt"`
}

// Snapshot returns the seat list handed to the engine.
func (r Room) Snapshot() engine.RoomSnapshot {
	return engine.RoomSnapshot{Code: r.Code, Seats: r.Seats}
}

// SeatOf returns the seat held by player.
func (r Room) SeatOf(player engine.PlayerID) (engine.Seat, bool) {
	for i, s := range r.Seats {
		if s.PlayerID == player && player != "" {
			return engine.Seat(i), true
		}
	}
	return engine.NoSeat, false
}

func (r Room) allReady() bool {
	for _, s := range r.Seats {
		if s.PlayerID == "" || !s.Ready {
			return false
		}
	}
	return true
}

// Lobby holds every open room.
type Lobby struct {
	mu       sync.Mutex
	rooms    map[string]*Room
	games    Games
	defaults engine.Settings
	log      *logrus.Entry
	now      func() time.Time
}

// New returns an empty lobby that starts games on games with the given
// default table settings.
func New(games Games, defaults engine.Settings, log *logrus.Entry) *Lobby {
	return &Lobby{
		rooms:    make(map[string]*Room),
		games:    games,
		defaults: defaults,
		log:      log,
		now:      time.Now,
	}
}

// NewRoomCode returns a fresh upper-case room code.
func NewRoomCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(id[:CodeLength])
}

// CreateRoom opens a room with the lobby's default settings.
func (l *Lobby) CreateRoom() Room {
	return l.CreateRoomWith(l.defaults)
}

// CreateRoomWith opens a room with settings. Invalid settings are caught
// when the game starts.
func (l *Lobby) CreateRoomWith(settings engine.Settings) Room {
	l.mu.Lock()
	defer l.mu.Unlock()

	code := NewRoomCode()
	for l.rooms[code] != nil {
		code = NewRoomCode()
	}
	r := &Room{Code: code, Settings: settings, CreatedAt: l.now()}
	l.rooms[code] = r
	l.log.WithField("room", code).Info("Room created")
	return *r
}

// Room returns a copy of the room.
func (l *Lobby) Room(code string) (Room, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.rooms[code]
	if !ok {
		return Room{}, false
	}
	return *r, true
}

func (l *Lobby) room(code string) (*Room, error) {
	r, ok := l.rooms[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, code)
	}
	return r, nil
}

// ClaimSeat puts player in seat. Before the game starts a player may move
// between free seats; claiming a seat clears its ready flag. Once the game
// has started, claiming a seat rebinds it to player, which is how a player
// who reconnects under a new identity takes their seat back.
func (l *Lobby) ClaimSeat(code string, seat engine.Seat, player engine.PlayerID) (Room, error) {
	if !seat.Valid() {
		return Room{}, ErrInvalidSeat
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	r, err := l.room(code)
	if err != nil {
		return Room{}, err
	}
	entry := l.log.WithFields(logrus.Fields{"room": code, "seat": seat, "player": player})

	if r.Started {
		if r.Finished {
			return Room{}, ErrGameStarted
		}
		if current, ok := r.SeatOf(player); ok && current == seat {
			return *r, nil
		}
		if _, err := l.games.RebindSeat(code, seat, player); err != nil {
			return Room{}, err
		}
		r.Seats[seat] = engine.SeatAssignment{PlayerID: player, Ready: true}
		entry.Info("Seat rebound")
		return *r, nil
	}

	if holder := r.Seats[seat].PlayerID; holder != "" && holder != player {
		return Room{}, ErrSeatTaken
	}
	if current, ok := r.SeatOf(player); ok && current != seat {
		r.Seats[current] = engine.SeatAssignment{}
	}
	r.Seats[seat] = engine.SeatAssignment{PlayerID: player}
	entry.Info("Seat claimed")
	return *r, nil
}

// Leave frees player's seat. It is only allowed before the game starts.
func (l *Lobby) Leave(code string, player engine.PlayerID) (Room, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, err := l.room(code)
	if err != nil {
		return Room{}, err
	}
	if r.Started {
		return Room{}, ErrGameStarted
	}
	seat, ok := r.SeatOf(player)
	if !ok {
		return Room{}, ErrNotInRoom
	}
	r.Seats[seat] = engine.SeatAssignment{}
	return *r, nil
}

// SetReady sets player's ready flag. When the fourth player becomes ready the
// game starts; started reports whether this call started it.
func (l *Lobby) SetReady(code string, player engine.PlayerID, ready bool) (room Room, started bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, err := l.room(code)
	if err != nil {
		return Room{}, false, err
	}
	if r.Started {
		return Room{}, false, ErrGameStarted
	}
	seat, ok := r.SeatOf(player)
	if !ok {
		return Room{}, false, ErrNotInRoom
	}
	r.Seats[seat].Ready = ready
	if !r.allReady() {
		return *r, false, nil
	}

	if _, err := l.games.Start(r.Snapshot(), r.Settings); err != nil {
		r.Seats[seat].Ready = false
		return Room{}, false, fmt.Errorf("lobby: starting %s: %w", code, err)
	}
	r.Started = true
	l.log.WithField("room", code).Info("All seats ready, game started")
	return *r, true, nil
}

// MarkFinished records that the room's game is over. Wire it to the table's
// game-end hook.
func (l *Lobby) MarkFinished(code string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if r, ok := l.rooms[code]; ok {
		r.Finished = true
	}
}

// Close removes the room and its game.
func (l *Lobby) Close(code string) bool {
	l.mu.Lock()
	_, ok := l.rooms[code]
	delete(l.rooms, code)
	l.mu.Unlock()

	if ok {
		l.games.Remove(code)
		l.log.WithField("room", code).Info("Room closed")
	}
	return ok
}
