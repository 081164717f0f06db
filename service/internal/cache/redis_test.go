package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameActionRecordValues(t *testing.T) {
	id := uuid.New()
	rec := GameActionRecord{
		GameID:        id,
		RoomCode:      "K7Q2XZ",
		ActionIndex:   4,
		ActorID:       "alice",
		ActionType:    "bid",
		ActionPayload: map[string]interface{}{"amount": 120},
		Timestamp:     1700000000000,
	}

	v, err := rec.Values()
	require.NoError(t, err)
	assert.Equal(t, id.String(), v["game_id"])
	assert.Equal(t, "K7Q2XZ", v["room_code"])
	assert.Equal(t, 4, v["action_index"])
	assert.Equal(t, "bid", v["action_type"])

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(v["payload"].(string)), &payload))
	assert.EqualValues(t, 120, payload["amount"])
}

func TestValuesRejectsUnencodablePayload(t *testing.T) {
	rec := GameActionRecord{ActionPayload: map[string]interface{}{"ch": make(chan int)}}
	_, err := rec.Values()
	assert.Error(t, err)
}

func TestNotConnected(t *testing.T) {
	require.Nil(t, Rdb)
	ctx := context.Background()

	assert.ErrorIs(t, PublishGameAction(ctx, GameActionRecord{}), ErrNotConnected)
	assert.ErrorIs(t, StoreRoomSnapshot(ctx, "ABC", []byte("{}")), ErrNotConnected)
	_, _, err := LoadRoomSnapshot(ctx, "ABC")
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.ErrorIs(t, DeleteRoomSnapshot(ctx, "ABC"), ErrNotConnected)
	assert.NoError(t, Close())
}

func TestRoomKey(t *testing.T) {
	assert.Equal(t, "rook:room:ABC123", RoomKey("ABC123"))
}
