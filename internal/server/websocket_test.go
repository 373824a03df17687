package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/suspectgrid/suspect-server-go/internal/config"
	"github.com/suspectgrid/suspect-server-go/internal/game"
	"github.com/suspectgrid/suspect-server-go/internal/session"
)

func newTestServer(t *testing.T, origins ...string) (*httptest.Server, *Hub, *session.Manager) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	opts := session.DefaultOptions()
	opts.EngineOptions = []game.Option{game.WithShuffler(game.NewShuffler(7))}
	sessions := session.NewManager(opts, logger)

	hub := NewHub(sessions, config.WebSocketConfig{
		ReadLimit:      64 * 1024,
		WriteTimeout:   time.Second,
		AllowedOrigins: origins,
	}, logger)

	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		hub.CloseAll("test finished")
		srv.Close()
		sessions.CloseAll()
	})
	return srv, hub, sessions
}

type testClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, srv *httptest.Server) *testClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &testClient{t: t, conn: conn}
}

func (c *testClient) send(msgType string, payload any) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteJSON(outbound{Type: msgType, Payload: payload}))
}

// next reads until a message of msgType arrives. An unexpected error
// message fails the test.
func (c *testClient) next(msgType string) json.RawMessage {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var env Envelope
		require.NoError(c.t, c.conn.ReadJSON(&env))
		if env.Type == msgType {
			return env.Payload
		}
		if env.Type == MsgError {
			c.t.Fatalf("unexpected error while waiting for %s: %s", msgType, env.Payload)
		}
	}
}

func (c *testClient) lobby() session.LobbyState {
	c.t.Helper()
	var lobby session.LobbyState
	require.NoError(c.t, json.Unmarshal(c.next(MsgLobbyState), &lobby))
	return lobby
}

func (c *testClient) game(match func(game.GameState) bool) game.GameState {
	c.t.Helper()
	for {
		var state game.GameState
		require.NoError(c.t, json.Unmarshal(c.next(MsgGameState), &state))
		if match == nil || match(state) {
			return state
		}
	}
}

func (c *testClient) errorMessage() string {
	c.t.Helper()
	var p errorPayload
	require.NoError(c.t, json.Unmarshal(c.next(MsgError), &p))
	return p.Message
}

// seat creates a session with three clients and returns them in join
// order with their player ids.
func seat(t *testing.T, srv *httptest.Server) ([]*testClient, []string, string) {
	t.Helper()
	host := dial(t, srv)
	host.send(MsgCreateSession, createSessionPayload{Name: "Ann"})
	lobby := host.lobby()
	code := lobby.Session.Code
	require.Len(t, code, 5)
	assert.True(t, lobby.You.IsHost)

	clients := []*testClient{host}
	ids := []string{lobby.You.ID}
	for _, name := range []string{"Bob", "Cid"} {
		c := dial(t, srv)
		c.send(MsgJoinSession, joinSessionPayload{Code: strings.ToLower(code), Name: name})
		l := c.lobby()
		assert.Equal(t, name, l.You.Name)
		assert.Equal(t, ids[0], l.Session.HostID)
		clients = append(clients, c)
		ids = append(ids, l.You.ID)
	}
	return clients, ids, code
}

func TestHealthEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.EqualValues(t, 0, body["sessions"])
	assert.Equal(t, false, body["results"])
}

func TestOriginCheck(t *testing.T) {
	srv, _, _ := newTestServer(t, "https://play.example.com")
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header = http.Header{"Origin": []string{"https://play.example.com"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	conn.Close()
}

func TestCommandsNeedSession(t *testing.T) {
	srv, _, _ := newTestServer(t)
	c := dial(t, srv)

	c.send(MsgAdvanceTurn, nil)
	assert.Equal(t, errNoSession.Error(), c.errorMessage())

	require.NoError(t, c.conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, errBadMessage.Error(), c.errorMessage())

	c.send(MsgJoinSession, joinSessionPayload{Code: "ZZZZZ", Name: "Bob"})
	assert.Equal(t, session.ErrSessionNotFound.Error(), c.errorMessage())

	c.send(MsgCreateSession, createSessionPayload{Name: "  "})
	assert.Equal(t, session.ErrEmptyName.Error(), c.errorMessage())

	c.send(MsgCreateSession, createSessionPayload{Name: "Ann"})
	c.lobby()
	c.send(MsgCreateSession, createSessionPayload{Name: "Ann"})
	assert.Equal(t, errAlreadyInSession.Error(), c.errorMessage())

	c.send("dance", nil)
	assert.Contains(t, c.errorMessage(), "unknown message type")
}

func TestMatchOverWebSocket(t *testing.T) {
	srv, hub, sessions := newTestServer(t)
	clients, ids, code := seat(t, srv)
	assert.Equal(t, 3, hub.ClientCount())
	assert.Equal(t, 1, sessions.Count())

	clients[1].send(MsgStartGame, nil)
	assert.Equal(t, session.ErrNotHost.Error(), clients[1].errorMessage())

	clients[0].send(MsgStartGame, nil)
	for _, c := range clients {
		state := c.game(nil)
		assert.Equal(t, game.PhasePlaying, state.Phase)
		require.Len(t, state.Players, 3)
		assert.Equal(t, ids[0], state.Players[0].ID)
	}

	// out of turn
	clients[1].send(MsgAdvanceTurn, nil)
	assert.Equal(t, game.ErrNotYourTurn.Error(), clients[1].errorMessage())

	// arm and disarm
	clients[0].send(MsgSelectAction, map[string]any{"action": "kill"})
	armed := clients[1].game(nil)
	assert.Equal(t, game.ActionKill, armed.ActiveAction)
	assert.NotEmpty(t, armed.SelectablePositions)
	clients[0].send(MsgSelectAction, map[string]any{"action": nil})
	disarmed := clients[1].game(nil)
	assert.Equal(t, game.ActionNone, disarmed.ActiveAction)

	// no-op commands are not rebroadcast
	clients[0].send(MsgToggleIdentity, toggleIdentityPayload{PlayerID: ids[1]})
	clients[0].send(MsgCloseModal, nil)
	clients[0].send(MsgAdvanceTurn, nil)
	next := clients[1].game(nil)
	assert.Equal(t, 1, next.CurrentPlayerIndex)

	clients[1].send(MsgShift, shiftPayload{Axis: "row", Index: 0, Direction: 1})
	shifted := clients[2].game(func(s game.GameState) bool { return s.CurrentPlayerIndex == 2 })
	assert.Equal(t, "shift", string(shifted.ActionHistory[1].Type))

	clients[2].send(MsgShift, shiftPayload{Axis: "row", Index: 99, Direction: 1})
	assert.Contains(t, clients[2].errorMessage(), game.ErrShiftIndex.Error())

	clients[2].send(MsgKill, map[string]int{"row": 0, "col": 0})
	assert.Contains(t, clients[2].errorMessage(), game.ErrActionNotArmed.Error())

	// the player on turn drops and the turn moves on
	require.NoError(t, clients[2].conn.Close())
	after := clients[0].game(func(s game.GameState) bool { return s.Players[2].IsEliminated })
	assert.Equal(t, 0, after.CurrentPlayerIndex)
	assert.Equal(t, game.PhasePlaying, after.Phase)

	require.NoError(t, clients[1].conn.Close())
	over := clients[0].game(func(s game.GameState) bool { return s.Phase == game.PhaseGameOver })
	require.NotNil(t, over.WinnerID)
	assert.Equal(t, ids[0], *over.WinnerID)

	require.NoError(t, clients[0].conn.Close())
	require.Eventually(t, func() bool {
		_, ok := sessions.Get(code)
		return !ok && hub.ClientCount() == 0
	}, 3*time.Second, 10*time.Millisecond)
}

func TestLobbyHostMigratesOnDisconnect(t *testing.T) {
	srv, _, _ := newTestServer(t)
	clients, ids, _ := seat(t, srv)

	require.NoError(t, clients[0].conn.Close())
	lobby := clients[1].lobby()
	for len(lobby.Session.Players) != 2 {
		lobby = clients[1].lobby()
	}
	assert.Equal(t, ids[1], lobby.Session.HostID)
	assert.True(t, lobby.You.IsHost)

	clients[1].send(MsgStartGame, nil)
	assert.Contains(t, clients[1].errorMessage(), session.ErrNotEnoughPlayers.Error())
}

func TestCloseAllNotifiesClients(t *testing.T) {
	srv, hub, _ := newTestServer(t)
	c := dial(t, srv)
	c.send(MsgCreateSession, createSessionPayload{Name: "Ann"})
	c.lobby()

	hub.CloseAll("server shutting down")

	var p sessionClosedPayload
	require.NoError(t, json.Unmarshal(c.next(MsgSessionClosed), &p))
	assert.Equal(t, "server shutting down", p.Reason)
}
