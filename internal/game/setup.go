package game

import (
	"fmt"
	"strings"

	"github.com/suspectgrid/suspect-server-go/internal/game/board"
)

// newInitialState deals a fresh board and secret identities for seeds.
func newInitialState(seeds []PlayerSeed, roster []board.Suspect, shuffler Shuffler) (GameState, error) {
	if len(seeds) < MinPlayers || len(seeds) > MaxPlayers {
		return GameState{}, fmt.Errorf("%w: need %d to %d, got %d", ErrPlayerCount, MinPlayers, MaxPlayers, len(seeds))
	}

	seen := make(map[string]bool, len(seeds))
	for _, seed := range seeds {
		id := strings.TrimSpace(seed.ID)
		if id == "" {
			return GameState{}, fmt.Errorf("%w: empty player id", ErrInvalidSeed)
		}
		if seen[id] {
			return GameState{}, fmt.Errorf("%w: duplicate player id %s", ErrInvalidSeed, id)
		}
		seen[id] = true
	}

	size := BoardSize(len(seeds))
	if len(roster) < size*size {
		return GameState{}, fmt.Errorf("roster has %d suspects, a %dx%d board needs %d", len(roster), size, size, size*size)
	}

	onBoard := shuffled(shuffler, roster)[:size*size]
	boardSuspects := shuffled(shuffler, onBoard)
	identities := shuffled(shuffler, onBoard)[:len(seeds)]

	players := make([]Player, len(seeds))
	for i, seed := range seeds {
		players[i] = Player{
			ID:             strings.TrimSpace(seed.ID),
			Name:           seed.Name,
			SecretIdentity: identities[i],
			Trophies:       []board.Suspect{},
		}
	}

	return GameState{
		Phase:               PhasePlaying,
		Board:               board.New(boardSuspects, size),
		Players:             players,
		CurrentPlayerIndex:  0,
		ActiveAction:        ActionNone,
		SelectablePositions: []board.Position{},
		ActionHistory:       []HistoryEntry{},
	}, nil
}
