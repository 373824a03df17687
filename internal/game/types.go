package game

import (
	"encoding/json"

	"github.com/suspectgrid/suspect-server-go/internal/game/board"
	"github.com/suspectgrid/suspect-server-go/internal/game/rules"
)

// Phase is the lifecycle phase of a match.
type Phase = rules.Phase

const (
	PhasePlaying  = rules.PhasePlaying
	PhaseGameOver = rules.PhaseGameOver
)

// ActionType is the action the current player has armed.
type ActionType string

const (
	ActionNone        ActionType = ""
	ActionInterrogate ActionType = "interrogate"
	ActionKill        ActionType = "kill"
)

// Valid reports whether a is a known action, including ActionNone.
func (a ActionType) Valid() bool {
	switch a {
	case ActionNone, ActionInterrogate, ActionKill:
		return true
	default:
		return false
	}
}

// MarshalJSON encodes ActionNone as null.
func (a ActionType) MarshalJSON() ([]byte, error) {
	if a == ActionNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(a))
}

// PlayerSeed is the lobby's description of a player joining a match.
type PlayerSeed struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Player is a seat at the table.
type Player struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	SecretIdentity    board.Suspect   `json:"secretIdentity"`
	Trophies          []board.Suspect `json:"trophies"`
	Bombs             int             `json:"bombs"`
	IsEliminated      bool            `json:"isEliminated"`
	IsIdentityVisible bool            `json:"isIdentityVisible"`
}

// Modal is a blocking notification shown to every player.
type Modal struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// HistoryEntry is one line of the action log.
type HistoryEntry struct {
	ID        string          `json:"id"`
	Type      rules.EventType `json:"type"`
	Message   string          `json:"message"`
	Timestamp int64           `json:"timestamp"` // unix milliseconds
}

// GameState is the full, broadcastable state of a match.
type GameState struct {
	Phase               Phase            `json:"phase"`
	Board               board.Board      `json:"board"`
	Players             []Player         `json:"players"`
	CurrentPlayerIndex  int              `json:"currentPlayerIndex"`
	WinnerID            *string          `json:"winnerId"`
	ActiveAction        ActionType       `json:"activeAction"`
	SelectablePositions []board.Position `json:"selectablePositions"`
	IsCompacting        bool             `json:"isCompacting"`
	Modal               *Modal           `json:"modal"`
	ActionHistory       []HistoryEntry   `json:"actionHistory"`
}

// seating adapts the player list to rules.Seating.
type seating []Player

func (s seating) Len() int { return len(s) }
func (s seating) Eliminated(i int) bool { return s[i].IsEliminated }
func (s seating) PlayerID(i int) string { return s[i].ID }
