package targeting

import (
	"fmt"
	"strings"

	"github.com/suspectgrid/suspect-server-go/internal/game/board"
)

// TargetType represents the kind of action a target is chosen for.
type TargetType string

const (
	// TargetTypeInterrogate picks a card to question
	TargetTypeInterrogate TargetType = "interrogate"
	// TargetTypeKill picks a card to hit
	TargetTypeKill TargetType = "kill"
)

// TargetRequirement defines which cells around the acting player's identity
// may be targeted.
type TargetRequirement struct {
	Type TargetType
	// IncludeSelf allows the acting player's own identity cell
	IncludeSelf bool
	// AliveOnly restricts targets to living cards
	AliveOnly bool
	// Description is a human-readable description of the target requirement
	Description string
}

var requirements = map[TargetType]TargetRequirement{
	TargetTypeInterrogate: {
		Type:        TargetTypeInterrogate,
		IncludeSelf: true,
		Description: "own card or any neighbouring card",
	},
	TargetTypeKill: {
		Type:        TargetTypeKill,
		AliveOnly:   true,
		Description: "living neighbouring card",
	},
}

// RequirementFor returns the targeting rule for an action type.
func RequirementFor(t TargetType) (TargetRequirement, bool) {
	req, ok := requirements[t]
	return req, ok
}

// Contains reports whether p is one of positions.
func Contains(positions []board.Position, p board.Position) bool {
	for _, pos := range positions {
		if pos == p {
			return true
		}
	}
	return false
}

// FormatTargets formats positions into a human-readable string for log fields.
func FormatTargets(positions []board.Position) string {
	if len(positions) == 0 {
		return ""
	}
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = fmt.Sprintf("%d:%d", p.Row, p.Col)
	}
	return strings.Join(parts, ",")
}
