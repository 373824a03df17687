package game

const (
	// WinTrophies is the number of trophies that wins the match outright
	WinTrophies = 3

	// LoseBombs is the bomb count at which a player is eliminated
	LoseBombs = 3

	// HistoryLimit caps the action history, oldest entries are dropped first
	HistoryLimit = 25

	// MinPlayers is the minimum number of players required to start a match
	MinPlayers = 3

	// MaxPlayers is the largest table a 7x7 board can seat
	MaxPlayers = 8
)

// BoardSize returns the side length of the square board for a player count.
func BoardSize(players int) int {
	switch {
	case players <= 4:
		return 5
	case players <= 6:
		return 6
	default:
		return 7
	}
}
