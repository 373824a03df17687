package session

import (
	"strings"

	"github.com/suspectgrid/suspect-server-go/internal/game"
)

// Phase is the lifecycle phase of a session. It is shared with the engine
// phases so clients see a single value.
type Phase string

const (
	PhaseLobby   Phase = "Lobby"
	PhasePlaying Phase = Phase(game.PhasePlaying)
)

// PlayerSummary describes a member in the lobby view.
type PlayerSummary struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	IsHost            bool   `json:"isHost"`
	IsEliminated      bool   `json:"isEliminated"`
	Trophies          int    `json:"trophies"`
	Bombs             int    `json:"bombs"`
	IsIdentityVisible bool   `json:"isIdentityVisible"`
}

// Summary is the public view of a session.
type Summary struct {
	Code    string          `json:"code"`
	Players []PlayerSummary `json:"players"`
	Phase   Phase           `json:"phase"`
	HostID  string          `json:"hostId"`
}

// LobbyState is what one member sees in the lobby.
type LobbyState struct {
	Session Summary       `json:"session"`
	You     PlayerSummary `json:"you"`
}

// Broadcaster delivers session updates to connected members. Calls are
// made while the session is locked, so implementations must not block
// and must not call back into the session.
type Broadcaster interface {
	BroadcastLobby(lobbies map[string]LobbyState)
	BroadcastGame(playerIDs []string, state game.GameState)
}

type member struct {
	id   string
	name string
}

func newMember(id, name string) (member, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return member{}, ErrInvalidPlayer
	}
	if name == "" {
		return member{}, ErrEmptyName
	}
	return member{id: id, name: name}, nil
}
