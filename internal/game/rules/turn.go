package rules

import "fmt"

// Phase represents the broad phases of a match.
type Phase string

const (
	PhasePlaying  Phase = "Playing"
	PhaseGameOver Phase = "GameOver"
)

func (p Phase) String() string {
	if p == "" {
		return "UNKNOWN"
	}
	return string(p)
}

// Seating is the read-only view of the fixed player order that the turn
// rules operate on.
type Seating interface {
	// Len returns the number of seats.
	Len() int
	// Eliminated reports whether the player in seat i is out of the match.
	Eliminated(i int) bool
	// PlayerID returns the id of the player in seat i.
	PlayerID(i int) string
}

// NextActive walks the seating forward from start, wrapping around and
// skipping eliminated seats. It returns false when the walk comes back to
// start without finding anybody else to hand the turn to.
func NextActive(s Seating, start int) (int, bool) {
	n := s.Len()
	if n == 0 {
		return start, false
	}
	next := (start + 1) % n
	for s.Eliminated(next) {
		next = (next + 1) % n
		if next == start {
			return start, false
		}
	}
	return next, true
}

// ActiveCount returns the number of seats still in the match.
func ActiveCount(s Seating) int {
	count := 0
	for i := 0; i < s.Len(); i++ {
		if !s.Eliminated(i) {
			count++
		}
	}
	return count
}

// Outcome describes whether a match is finished and who, if anybody, won.
type Outcome struct {
	Over     bool
	WinnerID string
	// HasWinner is false when every player was eliminated.
	HasWinner bool
}

func (o Outcome) String() string {
	switch {
	case !o.Over:
		return "in progress"
	case o.HasWinner:
		return fmt.Sprintf("won by %s", o.WinnerID)
	default:
		return "no winner"
	}
}

// Resolve applies the last-player-standing rule: once at most one seat is
// still active the match is over and the survivor, if any, wins.
func Resolve(s Seating) Outcome {
	if ActiveCount(s) > 1 {
		return Outcome{}
	}
	for i := 0; i < s.Len(); i++ {
		if !s.Eliminated(i) {
			return Outcome{Over: true, WinnerID: s.PlayerID(i), HasWinner: true}
		}
	}
	return Outcome{Over: true}
}
