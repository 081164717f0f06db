// Package cache wraps the Redis client used for the action historian stream
// and the room snapshot cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the shared client. It is nil until Connect succeeds, and callers
// treat a nil client as "historian disabled".
var Rdb *redis.Client

// HistorianStream is the stream every action record is appended to.
var HistorianStream = "rook:actions"

// StreamMaxLen caps the historian stream (approximate trimming).
const StreamMaxLen = 100000

// SnapshotTTL is how long an idle room snapshot lives.
const SnapshotTTL = 6 * time.Hour

// ErrNotConnected is returned when Rdb has not been initialised.
var ErrNotConnected = errors.New("cache: redis not connected")

// Connect dials Redis and pings it.
func Connect(ctx context.Context, addr, password string, db int) error {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("cache: ping %s: %w", addr, err)
	}
	Rdb = client
	return nil
}

// Close releases the shared client.
func Close() error {
	if Rdb == nil {
		return nil
	}
	err := Rdb.Close()
	Rdb = nil
	return err
}

// GameActionRecord is one historian entry. ActionIndex is dense and starts at
// 1 for each game.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"gameId"`
	RoomCode      string                 `json:"roomCode"`
	ActionIndex   int                    `json:"actionIndex"`
	ActorID       string                 `json:"actorId,omitempty"`
	ActionType    string                 `json:"actionType"`
	ActionPayload map[string]interface{} `json:"actionPayload"`
	Timestamp     int64                  `json:"timestamp"`
}

// Values flattens the record into stream fields. The payload is JSON encoded.
func (r GameActionRecord) Values() (map[string]interface{}, error) {
	payload, err := json.Marshal(r.ActionPayload)
	if err != nil {
		return nil, fmt.Errorf("cache: encoding payload of action %d: %w", r.ActionIndex, err)
	}
	return map[string]interface{}{
		"game_id":      r.GameID.String(),
		"room_code":    r.RoomCode,
		"action_index": r.ActionIndex,
		"actor_id":     r.ActorID,
		"action_type":  r.ActionType,
		"payload":      string(payload),
		"ts":           r.Timestamp,
	}, nil
}

// PublishGameAction appends rec to the historian stream.
func PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if Rdb == nil {
		return ErrNotConnected
	}
	values, err := rec.Values()
	if err != nil {
		return err
	}
	return Rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: HistorianStream,
		MaxLen: StreamMaxLen,
		Approx: true,
		Values: values,
	}).Err()
}

// RoomKey is the snapshot key for a room code.
func RoomKey(code string) string { return "rook:room:" + code }

// StoreRoomSnapshot caches the JSON state of a room.
func StoreRoomSnapshot(ctx context.Context, code string, state []byte) error {
	if Rdb == nil {
		return ErrNotConnected
	}
	return Rdb.Set(ctx, RoomKey(code), state, SnapshotTTL).Err()
}

// LoadRoomSnapshot returns the cached JSON state of a room. ok is false when
// nothing is cached.
func LoadRoomSnapshot(ctx context.Context, code string) (state []byte, ok bool, err error) {
	if Rdb == nil {
		return nil, false, ErrNotConnected
	}
	state, err = Rdb.Get(ctx, RoomKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return state, true, nil
}

// DeleteRoomSnapshot drops the cached state of a room.
func DeleteRoomSnapshot(ctx context.Context, code string) error {
	if Rdb == nil {
		return ErrNotConnected
	}
	return Rdb.Del(ctx, RoomKey(code)).Err()
}
