// Package server is the HTTP and websocket transport. Clients obtain a token
// from /token, create or look up rooms under /rooms and then play over
// /ws/{code}, sending one JSON frame per action.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	engine "github.com/jason-s-yu/rook/engine"
	"github.com/jason-s-yu/rook/service/internal/auth"
	"github.com/jason-s-yu/rook/service/internal/cache"
	"github.com/jason-s-yu/rook/service/internal/game"
	"github.com/jason-s-yu/rook/service/internal/lobby"
	"github.com/jason-s-yu/rook/service/internal/models"
	"github.com/sirupsen/logrus"
)

const maxUsernameLen = 32

// Server wires the lobby and the game registry to HTTP.
type Server struct {
	Lobby  *lobby.Lobby
	Games  *game.Registry
	Tokens *auth.Issuer

	// OriginPatterns is passed to websocket.Accept. Empty means same-origin only.
	OriginPatterns []string

	log *logrus.Entry
	hub *hub
}

// New creates a Server and attaches it to every table games creates.
func New(l *lobby.Lobby, games *game.Registry, tokens *auth.Issuer, log *logrus.Entry) *Server {
	s := &Server{Lobby: l, Games: games, Tokens: tokens, log: log, hub: newHub()}
	games.Configure = s.attachTable
	return s
}

// attachTable routes a table's events to the connected players.
func (s *Server) attachTable(t *game.Table) {
	room := t.RoomCode
	t.BroadcastFn = func(ev game.GameEvent) { s.hub.broadcast(room, ev) }
	t.BroadcastToPlayerFn = func(p engine.PlayerID, ev game.GameEvent) { s.hub.sendTo(room, p, ev) }
	t.OnHandScored = func(code string, rec engine.HandRecord) {
		s.log.WithFields(logrus.Fields{"room": code, "hand": rec.HandNumber, "totals": rec.CumulativeAfter}).Debug("Hand recorded")
	}
	t.OnGameEnd = func(code string, winner engine.Team, scores [2]int) {
		s.Lobby.MarkFinished(code)
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Post("/token", s.handleToken)
	r.Route("/rooms", func(r chi.Router) {
		r.Post("/", s.handleCreateRoom)
		r.Get("/{code}", s.handleGetRoom)
		r.Get("/{code}/snapshot", s.handleSnapshot)
	})
	r.Get("/ws/{code}", s.handleWebsocket)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start),
			"request":  middleware.GetReqID(r.Context()),
		}).Debug("HTTP request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorFrameFor(err))
}

// authenticate reads the bearer token from the Authorization header or the
// token query parameter.
func (s *Server) authenticate(r *http.Request) (models.User, error) {
	tok := r.URL.Query().Get("token")
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		tok = strings.TrimPrefix(h, "Bearer ")
	}
	if tok == "" {
		return models.User{}, auth.ErrInvalidToken
	}
	return s.Tokens.Verify(tok)
}

type tokenRequest struct {
	Username string `json:"username"`
}

type tokenResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errBadFrame)
		return
	}
	name := strings.TrimSpace(req.Username)
	if name == "" || len(name) > maxUsernameLen {
		writeError(w, http.StatusBadRequest, errBadFrame)
		return
	}
	user, tok, err := s.Tokens.Issue(name)
	if err != nil {
		s.log.WithError(err).Error("Issuing token")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: tok, User: user})
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticate(r); err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.Lobby.CreateRoom())
}

type roomResponse struct {
	Room  lobby.Room       `json:"room"`
	State *game.PublicView `json:"state,omitempty"`
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	room, ok := s.Lobby.Room(code)
	if !ok {
		writeError(w, http.StatusNotFound, lobby.ErrRoomNotFound)
		return
	}
	resp := roomResponse{Room: room}
	if state, ok := s.Games.GetState(code); ok {
		v := game.NewPublicView(state)
		resp.State = &v
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSnapshot serves the last cached public view of a room from Redis,
// including rooms owned by another process.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticate(r); err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	code := strings.ToUpper(chi.URLParam(r, "code"))
	data, ok, err := cache.LoadRoomSnapshot(r.Context(), code)
	switch {
	case errors.Is(err, cache.ErrNotConnected):
		writeError(w, http.StatusServiceUnavailable, err)
		return
	case err != nil:
		s.log.WithError(err).WithField("room", code).Warn("Loading room snapshot")
		writeError(w, http.StatusBadGateway, err)
		return
	case !ok:
		writeError(w, http.StatusNotFound, lobby.ErrRoomNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	user, err := s.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	room, ok := s.Lobby.Room(code)
	if !ok {
		writeError(w, http.StatusNotFound, lobby.ErrRoomNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.OriginPatterns})
	if err != nil {
		s.log.WithError(err).Warn("Websocket accept failed")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	c := newClient(user, code, conn, s.log)
	if old := s.hub.join(c); old != nil {
		old.kick(websocket.StatusPolicyViolation, "replaced by a new connection")
	}
	defer s.hub.leave(c)
	go c.writeLoop(ctx)

	c.log.WithField("connections", s.hub.count(code)).Info("Player connected")
	c.enqueue(roomStateFrame(room))
	s.syncPlayer(c)

	for {
		var frame models.GameAction
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				c.log.Info("Player disconnected")
			default:
				c.log.WithError(err).Debug("Read failed")
			}
			return
		}
		if err := s.dispatch(c, frame); err != nil {
			c.log.WithError(err).WithField("frame", frame.ActionType).Debug("Frame rejected")
			c.enqueue(errorFrameFor(err))
		}
	}
}

// syncPlayer sends c its view of the room's game, if one is running.
func (s *Server) syncPlayer(c *client) {
	t, ok := s.Games.Table(c.room)
	if !ok {
		return
	}
	view := t.ViewFor(c.user.PlayerID())
	c.enqueue(game.GameEvent{Type: game.EventPrivateSyncState, State: &view})
}

// dispatch handles one client frame.
func (s *Server) dispatch(c *client, frame models.GameAction) error {
	player := c.user.PlayerID()
	switch frame.ActionType {
	case frameClaimSeat:
		p := seatPayload{Seat: engine.NoSeat}
		if err := decodePayload(frame, &p); err != nil {
			return err
		}
		room, err := s.Lobby.ClaimSeat(c.room, p.Seat, player)
		if err != nil {
			return err
		}
		s.hub.broadcast(c.room, roomStateFrame(room))
		return nil

	case frameLeave:
		room, err := s.Lobby.Leave(c.room, player)
		if err != nil {
			return err
		}
		s.hub.broadcast(c.room, roomStateFrame(room))
		return nil

	case frameReady:
		var p readyPayload
		if err := decodePayload(frame, &p); err != nil {
			return err
		}
		ready := p.Ready == nil || *p.Ready
		room, _, err := s.Lobby.SetReady(c.room, player, ready)
		if err != nil {
			return err
		}
		s.hub.broadcast(c.room, roomStateFrame(room))
		return nil

	case frameSync:
		s.syncPlayer(c)
		return nil
	}

	act, err := decodeAction(frame)
	if err != nil {
		return err
	}
	if _, _, err := s.Games.Apply(c.room, player, act); err != nil {
		if errors.Is(err, game.ErrRoomNotFound) {
			return errNoGame
		}
		return err
	}
	return nil
}
