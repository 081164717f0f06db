// Package models holds the plain data types shared between the service
// packages.
package models

import (
	"encoding/json"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/rook/engine"
)

// User is an authenticated identity. Users are issued by the /token endpoint
// and carried in the JWT subject.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// PlayerID converts the user id into the engine's player identifier.
func (u User) PlayerID() engine.PlayerID { return PlayerIDOf(u.ID) }

// PlayerIDOf converts a user id into the engine's player identifier.
func PlayerIDOf(id uuid.UUID) engine.PlayerID { return engine.PlayerID(id.String()) }

// Player is a user connected to a room.
type Player struct {
	User      User        `json:"user"`
	Seat      engine.Seat `json:"seat"`
	Connected bool        `json:"connected"`
}

// GameAction is one client frame. Payload is decoded per action type.
type GameAction struct {
	ActionType string          `json:"type"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}
