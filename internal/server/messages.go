package server

import (
	"encoding/json"

	"github.com/suspectgrid/suspect-server-go/internal/game"
	"github.com/suspectgrid/suspect-server-go/internal/game/board"
)

// Message types exchanged over the WebSocket.
const (
	MsgCreateSession  = "createSession"
	MsgJoinSession    = "joinSession"
	MsgStartGame      = "startGame"
	MsgSelectAction   = "selectAction"
	MsgInterrogate    = "interrogate"
	MsgKill           = "kill"
	MsgShift          = "shift"
	MsgToggleIdentity = "toggleIdentity"
	MsgCloseModal     = "closeModal"
	MsgAdvanceTurn    = "advanceTurn"

	MsgLobbyState    = "lobbyState"
	MsgGameState     = "gameState"
	MsgError         = "error"
	MsgSessionClosed = "sessionClosed"
)

// Envelope is the wire frame for every message.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type createSessionPayload struct {
	Name string `json:"name"`
}

type joinSessionPayload struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// selectActionPayload accepts null for disarming.
type selectActionPayload struct {
	Action game.ActionType `json:"action"`
}

type shiftPayload struct {
	Axis      board.Axis `json:"axis"`
	Index     int        `json:"index"`
	Direction int        `json:"direction"`
}

type toggleIdentityPayload struct {
	PlayerID string `json:"playerId"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type sessionClosedPayload struct {
	Reason string `json:"reason"`
}

func encode(msgType string, payload any) ([]byte, error) {
	return json.Marshal(outbound{Type: msgType, Payload: payload})
}
