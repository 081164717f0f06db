package server

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/rook/service/internal/logging"
	"github.com/jason-s-yu/rook/service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(user models.User, room string) *client {
	return newClient(user, room, nil, logging.Discard())
}

func TestHubJoinReplaceLeave(t *testing.T) {
	h := newHub()
	alice := models.User{ID: uuid.New(), Username: "alice"}
	bob := models.User{ID: uuid.New(), Username: "bob"}

	first := testClient(alice, "ROOM01")
	assert.Nil(t, h.join(first))
	assert.Nil(t, h.join(testClient(bob, "ROOM01")))
	assert.Equal(t, 2, h.count("ROOM01"))

	second := testClient(alice, "ROOM01")
	assert.Same(t, first, h.join(second))
	assert.Equal(t, 2, h.count("ROOM01"))

	// The replaced connection leaving must not drop the new one.
	h.leave(first)
	assert.Equal(t, 2, h.count("ROOM01"))

	h.sendTo("ROOM01", alice.PlayerID(), "hello")
	require.Len(t, second.send, 1)
	assert.Empty(t, first.send)

	h.broadcast("ROOM01", "all")
	assert.Len(t, second.send, 2)

	h.leave(second)
	assert.Equal(t, 1, h.count("ROOM01"))
	h.broadcast("OTHER1", "nobody")
	assert.Equal(t, 0, h.count("OTHER1"))
}
