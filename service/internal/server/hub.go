package server

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	engine "github.com/jason-s-yu/rook/engine"
	"github.com/jason-s-yu/rook/service/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	sendBuffer   = 256
	writeTimeout = 5 * time.Second
)

// client is one websocket connection. Frames are queued on send and written
// by writeLoop so that broadcasting never blocks on a slow socket.
type client struct {
	user models.User
	room string
	conn *websocket.Conn
	send chan interface{}
	log  *logrus.Entry

	closeOnce sync.Once
}

func newClient(user models.User, room string, conn *websocket.Conn, log *logrus.Entry) *client {
	return &client{
		user: user,
		room: room,
		conn: conn,
		send: make(chan interface{}, sendBuffer),
		log:  log.WithFields(logrus.Fields{"room": room, "player": user.ID, "username": user.Username}),
	}
}

// enqueue queues msg without blocking. A client whose buffer is full is
// disconnected.
func (c *client) enqueue(msg interface{}) {
	select {
	case c.send <- msg:
	default:
		c.log.Warn("Send buffer full, dropping connection")
		c.kick(websocket.StatusPolicyViolation, "too slow")
	}
}

func (c *client) kick(code websocket.StatusCode, reason string) {
	c.closeOnce.Do(func() {
		go c.conn.Close(code, reason)
	})
}

func (c *client) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.send:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, c.conn, msg)
			cancel()
			if err != nil {
				c.log.WithError(err).Debug("Write failed")
				return
			}
		}
	}
}

// hub tracks the live connection of every player, per room.
type hub struct {
	mu    sync.RWMutex
	rooms map[string]map[engine.PlayerID]*client
}

func newHub() *hub {
	return &hub{rooms: make(map[string]map[engine.PlayerID]*client)}
}

// join registers c and returns the connection it replaced, if any.
func (h *hub) join(c *client) *client {
	h.mu.Lock()
	defer h.mu.Unlock()
	members := h.rooms[c.room]
	if members == nil {
		members = make(map[engine.PlayerID]*client)
		h.rooms[c.room] = members
	}
	id := c.user.PlayerID()
	old := members[id]
	members[id] = c
	return old
}

// leave unregisters c unless a newer connection has replaced it.
func (h *hub) leave(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members := h.rooms[c.room]
	id := c.user.PlayerID()
	if members[id] != c {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(h.rooms, c.room)
	}
}

func (h *hub) broadcast(room string, msg interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[room] {
		c.enqueue(msg)
	}
}

func (h *hub) sendTo(room string, player engine.PlayerID, msg interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.rooms[room][player]; ok {
		c.enqueue(msg)
	}
}

func (h *hub) count(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
