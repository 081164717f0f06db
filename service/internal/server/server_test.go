package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	engine "github.com/jason-s-yu/rook/engine"
	"github.com/jason-s-yu/rook/service/internal/auth"
	"github.com/jason-s-yu/rook/service/internal/game"
	"github.com/jason-s-yu/rook/service/internal/lobby"
	"github.com/jason-s-yu/rook/service/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	log := logging.Discard()
	reg := game.NewRegistry(log)
	l := lobby.New(reg, engine.DefaultSettings(), log)
	s := New(l, reg, auth.NewIssuer("test-secret", time.Hour), log)
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return s, ts
}

func issue(t *testing.T, s *Server, name string) string {
	t.Helper()
	_, tok, err := s.Tokens.Issue(name)
	require.NoError(t, err)
	return tok
}

func dial(t *testing.T, ts *httptest.Server, code, token string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/" + code + "?token=" + token
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload interface{}) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	msg := map[string]interface{}{"type": typ}
	if payload != nil {
		msg["payload"] = payload
	}
	require.NoError(t, wsjson.Write(ctx, conn, msg))
}

// readUntil skips frames until one of type typ arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) map[string]interface{} {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		var f map[string]interface{}
		require.NoError(t, wsjson.Read(ctx, conn, &f), "waiting for %s", typ)
		if f["type"] == typ {
			return f
		}
	}
}

func TestTokenEndpoint(t *testing.T) {
	s, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/token", "application/json", strings.NewReader(`{"username":"alice"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body tokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	user, err := s.Tokens.Verify(body.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, body.User.ID, user.ID)

	for _, bad := range []string{`{"username":"  "}`, `not json`, `{"username":"` + strings.Repeat("x", 40) + `"}`} {
		resp, err := http.Post(ts.URL+"/token", "application/json", strings.NewReader(bad))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, bad)
	}
}

func TestRoomEndpoints(t *testing.T) {
	s, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/rooms", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/rooms", bytes.NewReader(nil))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+issue(t, s, "alice"))
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var room lobby.Room
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&room))
	assert.Len(t, room.Code, lobby.CodeLength)

	get, err := http.Get(ts.URL + "/rooms/" + strings.ToLower(room.Code))
	require.NoError(t, err)
	defer get.Body.Close()
	require.Equal(t, http.StatusOK, get.StatusCode)
	var rr roomResponse
	require.NoError(t, json.NewDecoder(get.Body).Decode(&rr))
	assert.Equal(t, room.Code, rr.Room.Code)
	assert.Nil(t, rr.State)

	missing, err := http.Get(ts.URL + "/rooms/NOPE00")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestSnapshotEndpoint(t *testing.T) {
	s, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/rooms/ABC123/snapshot")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/rooms/ABC123/snapshot?token=" + issue(t, s, "alice"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestWebsocketRequiresToken(t *testing.T) {
	s, ts := newTestServer(t)
	room := s.Lobby.CreateRoom()

	resp, err := http.Get(ts.URL + "/ws/" + room.Code)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/ws/NOPE00?token=" + issue(t, s, "alice"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebsocketGameFlow(t *testing.T) {
	s, ts := newTestServer(t)
	room := s.Lobby.CreateRoom()

	names := []string{"alice", "bob", "carol", "dave"}
	conns := make([]*websocket.Conn, len(names))
	for i, name := range names {
		conns[i] = dial(t, ts, room.Code, issue(t, s, name))
		first := readUntil(t, conns[i], "room_state")
		assert.Equal(t, room.Code, first["room"].(map[string]interface{})["code"])
	}

	// A game action before the game starts is rejected for that connection.
	send(t, conns[0], "deal", nil)
	assert.Equal(t, "noGame", readUntil(t, conns[0], "error")["code"])

	for i, c := range conns {
		send(t, c, "claim_seat", map[string]interface{}{"seat": engine.Seat(i).String()})
		send(t, c, "ready", map[string]interface{}{"ready": true})
	}
	for _, c := range conns {
		sync := readUntil(t, c, "private_sync_state")
		assert.Equal(t, "preDeal", sync["state"].(map[string]interface{})["phase"])
	}
	r, ok := s.Lobby.Room(room.Code)
	require.True(t, ok)
	assert.True(t, r.Started)

	// carol (T1P2) is not the dealer.
	send(t, conns[2], "deal", nil)
	errFrame := readUntil(t, conns[2], "error")
	assert.Equal(t, "onlyDealerMayDeal", errFrame["code"])
	assert.Equal(t, "authorization", errFrame["kind"])

	send(t, conns[0], "deal", map[string]interface{}{"deckMode": "fast"})
	for _, c := range conns {
		dealt := readUntil(t, c, "hand_dealt")
		assert.Equal(t, "fast", dealt["payload"].(map[string]interface{})["deckMode"])
		view := readUntil(t, c, "private_sync_state")["state"].(map[string]interface{})
		assert.Equal(t, "bidding", view["phase"])
		assert.Len(t, view["hand"], engine.HandSize(engine.DeckFast))
	}

	send(t, conns[1], "fly", nil)
	assert.Equal(t, "badFrame", readUntil(t, conns[1], "error")["code"])

	send(t, conns[1], "bid", map[string]interface{}{"amount": 100})
	bid := readUntil(t, conns[3], "player_bid")
	assert.Equal(t, "T2P1", bid["user"].(map[string]interface{})["seat"])

	state, ok := s.Games.GetState(room.Code)
	require.True(t, ok)
	assert.Equal(t, engine.SeatT1P2, state.Bidding.CurrentPlayer)
}
