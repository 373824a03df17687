package targeting

import (
	"fmt"

	"github.com/suspectgrid/suspect-server-go/internal/game/board"
)

// TargetValidator computes and validates legal targets on a board.
type TargetValidator struct {
	board board.Board
}

// NewTargetValidator creates a new target validator.
func NewTargetValidator(b board.Board) *TargetValidator {
	return &TargetValidator{board: b}
}

// Selectable returns the cells a player whose identity sits at origin may
// target under requirement, in row-major order.
func (tv *TargetValidator) Selectable(origin board.Position, requirement TargetRequirement) []board.Position {
	if tv == nil || !tv.board.Contains(origin) {
		return nil
	}

	adjacent := board.Adjacent(tv.board, origin.Row, origin.Col, requirement.IncludeSelf)
	if !requirement.AliveOnly {
		return adjacent
	}

	selectable := make([]board.Position, 0, len(adjacent))
	for _, pos := range adjacent {
		if tv.board.At(pos).IsAlive {
			selectable = append(selectable, pos)
		}
	}
	return selectable
}

// ValidateTarget checks that target is on the board and among selectable.
func (tv *TargetValidator) ValidateTarget(target board.Position, selectable []board.Position, requirement TargetRequirement) error {
	if tv == nil {
		return fmt.Errorf("target validator not initialized")
	}
	if !tv.board.Contains(target) {
		return fmt.Errorf("cell %d:%d is outside the board", target.Row, target.Col)
	}
	if !Contains(selectable, target) {
		return fmt.Errorf("cell %d:%d is not a %s", target.Row, target.Col, requirement.Description)
	}
	if requirement.AliveOnly && !tv.board.At(target).IsAlive {
		return fmt.Errorf("cell %d:%d is already dead", target.Row, target.Col)
	}
	return nil
}
