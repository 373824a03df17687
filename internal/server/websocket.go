package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/suspectgrid/suspect-server-go/internal/config"
	"github.com/suspectgrid/suspect-server-go/internal/game"
	"github.com/suspectgrid/suspect-server-go/internal/game/board"
	"github.com/suspectgrid/suspect-server-go/internal/session"
)

const (
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
	sendBuffer   = 64
	disconnected = "disconnected"
)

var (
	errAlreadyInSession = errors.New("already in a session")
	errNoSession        = errors.New("create or join a session first")
	errBadMessage       = errors.New("could not parse message")
)

// Hub routes WebSocket clients to sessions and fans session updates out to
// them. Each connection is one player; the player id is assigned when the
// socket opens.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client // by player id

	sessions *session.Manager
	results  ResultLister
	cfg      config.WebSocketConfig
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHub creates a hub and registers it as the broadcaster of sessions.
func NewHub(sessions *session.Manager, cfg config.WebSocketConfig, logger *zap.Logger) *Hub {
	h := &Hub{
		clients:  make(map[string]*Client),
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	sessions.SetBroadcaster(h)
	return h
}

// Client is one connected player.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	once     sync.Once
	playerID string

	// only touched by the read pump
	code string

	mu           sync.Mutex
	lastChecksum string
}

// Handler returns the HTTP routes: /ws for the game socket, /health, and
// the read-only session lookup and results endpoints.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/health", h.serveHealth)
	mux.HandleFunc("GET /sessions/{code}", h.serveSession)
	mux.HandleFunc("GET /results", h.serveResults)
	return mux
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}

func (h *Hub) serveHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"sessions": h.sessions.Count(),
		"clients":  h.ClientCount(),
		"results":  h.resultLister() != nil,
	})
}

// ServeWS upgrades the request and runs the client until it disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("websocket upgrade failed", zap.Error(err))
		}
		return
	}

	c := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
		playerID: uuid.NewString(),
	}
	h.register(c)

	go c.writePump()
	go c.readPump()
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll tells every client its session is gone and closes the sockets.
func (h *Hub) CloseAll(reason string) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	msg, err := encode(MsgSessionClosed, sessionClosedPayload{Reason: reason})
	for _, c := range clients {
		if err == nil {
			c.enqueue(msg)
		}
		c.close()
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c.playerID] = c
	h.mu.Unlock()

	if h.logger != nil {
		h.logger.Debug("client connected", zap.String("player", c.playerID))
	}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if h.clients[c.playerID] == c {
		delete(h.clients, c.playerID)
	}
	h.mu.Unlock()

	if c.code != "" {
		h.sessions.Leave(c.code, c.playerID, disconnected)
	}
	if h.logger != nil {
		h.logger.Debug("client disconnected",
			zap.String("player", c.playerID),
			zap.String("session", c.code),
		)
	}
}

func (h *Hub) client(playerID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[playerID]
}

// BroadcastLobby sends each member their own lobby view.
func (h *Hub) BroadcastLobby(lobbies map[string]session.LobbyState) {
	for playerID, lobby := range lobbies {
		c := h.client(playerID)
		if c == nil {
			continue
		}
		msg, err := encode(MsgLobbyState, lobby)
		if err != nil {
			h.logEncodeError(MsgLobbyState, err)
			continue
		}
		c.mu.Lock()
		c.lastChecksum = ""
		c.mu.Unlock()
		c.enqueue(msg)
	}
}

// BroadcastGame sends state to every listed member, skipping clients that
// already have an identical snapshot.
func (h *Hub) BroadcastGame(playerIDs []string, state game.GameState) {
	msg, err := encode(MsgGameState, state)
	if err != nil {
		h.logEncodeError(MsgGameState, err)
		return
	}
	checksum := state.Checksum()

	for _, playerID := range playerIDs {
		c := h.client(playerID)
		if c == nil {
			continue
		}
		c.mu.Lock()
		duplicate := c.lastChecksum == checksum
		c.lastChecksum = checksum
		c.mu.Unlock()
		if !duplicate {
			c.enqueue(msg)
		}
	}
}

func (h *Hub) logEncodeError(msgType string, err error) {
	if h.logger != nil {
		h.logger.Error("failed to encode message", zap.String("type", msgType), zap.Error(err))
	}
}

func (h *Hub) handleMessage(c *Client, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.sendError(errBadMessage)
		return
	}
	if h.logger != nil {
		h.logger.Debug("message received",
			zap.String("type", env.Type),
			zap.String("player", c.playerID),
		)
	}

	switch env.Type {
	case MsgCreateSession:
		var p createSessionPayload
		if err := decodePayload(env, &p); err != nil {
			c.sendError(err)
			return
		}
		if c.code != "" {
			c.sendError(errAlreadyInSession)
			return
		}
		sess, err := h.sessions.Create(c.playerID, p.Name)
		if err != nil {
			c.sendError(err)
			return
		}
		c.code = sess.Code()
		return

	case MsgJoinSession:
		var p joinSessionPayload
		if err := decodePayload(env, &p); err != nil {
			c.sendError(err)
			return
		}
		if c.code != "" {
			c.sendError(errAlreadyInSession)
			return
		}
		sess, err := h.sessions.Join(p.Code, c.playerID, p.Name)
		if err != nil {
			c.sendError(err)
			return
		}
		c.code = sess.Code()
		return
	}

	if c.code == "" {
		c.sendError(errNoSession)
		return
	}
	sess, ok := h.sessions.Get(c.code)
	if !ok {
		c.code = ""
		c.sendError(errNoSession)
		return
	}

	if err := h.dispatch(sess, c.playerID, env); err != nil {
		c.sendError(err)
	}
}

// dispatch runs an in-match command for playerID.
func (h *Hub) dispatch(sess *session.Session, playerID string, env Envelope) error {
	switch env.Type {
	case MsgStartGame:
		return sess.Start(playerID)

	case MsgSelectAction:
		var p selectActionPayload
		if err := decodePayload(env, &p); err != nil {
			return err
		}
		return sess.Execute(playerID, func(e *game.Engine) error {
			return e.SelectAction(playerID, p.Action)
		})

	case MsgInterrogate, MsgKill:
		var target board.Position
		if err := decodePayload(env, &target); err != nil {
			return err
		}
		return sess.Execute(playerID, func(e *game.Engine) error {
			if env.Type == MsgKill {
				return e.Kill(playerID, target)
			}
			return e.Interrogate(playerID, target)
		})

	case MsgShift:
		var p shiftPayload
		if err := decodePayload(env, &p); err != nil {
			return err
		}
		return sess.Execute(playerID, func(e *game.Engine) error {
			return e.Shift(playerID, p.Axis, p.Index, p.Direction)
		})

	case MsgToggleIdentity:
		var p toggleIdentityPayload
		if err := decodePayload(env, &p); err != nil {
			return err
		}
		return sess.Execute(playerID, func(e *game.Engine) error {
			e.ToggleIdentity(playerID, p.PlayerID)
			return nil
		})

	case MsgCloseModal:
		return sess.Execute(playerID, func(e *game.Engine) error {
			e.CloseModal()
			return nil
		})

	case MsgAdvanceTurn:
		return sess.Execute(playerID, func(e *game.Engine) error {
			return e.AdvanceTurn(playerID)
		})

	default:
		return fmt.Errorf("unknown message type %q", env.Type)
	}
}

func decodePayload(env Envelope, v any) error {
	if len(env.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", env.Type)
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return fmt.Errorf("%s: %w", env.Type, errBadMessage)
	}
	return nil
}

func (c *Client) readPump() {
	defer func() {
		c.close()
		c.hub.unregister(c)
	}()

	if c.hub.cfg.ReadLimit > 0 {
		c.conn.SetReadLimit(c.hub.cfg.ReadLimit)
	}
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && c.hub.logger != nil {
				c.hub.logger.Debug("websocket read error", zap.String("player", c.playerID), zap.Error(err))
			}
			return
		}
		c.hub.handleMessage(c, data)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			if err := c.write(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.flush()
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.writeTimeout()))
			return
		}
	}
}

// flush writes whatever is still queued.
func (c *Client) flush() {
	for {
		select {
		case msg := <-c.send:
			if err := c.write(websocket.TextMessage, msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout()))
	return c.conn.WriteMessage(messageType, data)
}

func (c *Client) writeTimeout() time.Duration {
	if c.hub.cfg.WriteTimeout > 0 {
		return c.hub.cfg.WriteTimeout
	}
	return 5 * time.Second
}

// enqueue queues msg without blocking. A client whose buffer is full is
// disconnected.
func (c *Client) enqueue(msg []byte) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- msg:
	default:
		if c.hub.logger != nil {
			c.hub.logger.Warn("client send buffer full, disconnecting", zap.String("player", c.playerID))
		}
		c.close()
	}
}

func (c *Client) sendError(err error) {
	msg, encErr := encode(MsgError, errorPayload{Message: err.Error()})
	if encErr != nil {
		c.hub.logEncodeError(MsgError, encErr)
		return
	}
	c.enqueue(msg)
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.done)
	})
}
