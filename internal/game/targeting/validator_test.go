package targeting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suspectgrid/suspect-server-go/internal/game/board"
)

func testBoard() board.Board {
	suspects := make([]board.Suspect, 9)
	for i := range suspects {
		suspects[i] = board.Suspect{ID: i + 1}
	}
	b := board.New(suspects, 3)
	b[0][1].IsAlive = false
	return b
}

func TestSelectableInterrogateIncludesSelfAndDead(t *testing.T) {
	req, ok := RequirementFor(TargetTypeInterrogate)
	require.True(t, ok)

	tv := NewTargetValidator(testBoard())
	got := tv.Selectable(board.Position{Row: 0, Col: 0}, req)
	assert.Equal(t, []board.Position{
		{Row: 0, Col: 0}, {Row: 0, Col: 1},
		{Row: 1, Col: 0}, {Row: 1, Col: 1},
	}, got)
}

func TestSelectableKillExcludesSelfAndDead(t *testing.T) {
	req, ok := RequirementFor(TargetTypeKill)
	require.True(t, ok)

	tv := NewTargetValidator(testBoard())
	got := tv.Selectable(board.Position{Row: 0, Col: 0}, req)
	assert.Equal(t, []board.Position{{Row: 1, Col: 0}, {Row: 1, Col: 1}}, got)
}

func TestSelectableOutsideBoard(t *testing.T) {
	req, _ := RequirementFor(TargetTypeKill)
	tv := NewTargetValidator(board.Board{})
	assert.Empty(t, tv.Selectable(board.Position{}, req))
}

func TestValidateTarget(t *testing.T) {
	req, _ := RequirementFor(TargetTypeKill)
	tv := NewTargetValidator(testBoard())
	selectable := tv.Selectable(board.Position{Row: 1, Col: 1}, req)

	assert.NoError(t, tv.ValidateTarget(board.Position{Row: 2, Col: 2}, selectable, req))
	assert.Error(t, tv.ValidateTarget(board.Position{Row: 0, Col: 1}, selectable, req), "dead card")
	assert.Error(t, tv.ValidateTarget(board.Position{Row: 1, Col: 1}, selectable, req), "self")
	assert.Error(t, tv.ValidateTarget(board.Position{Row: 5, Col: 0}, selectable, req), "off board")
}

func TestUnknownRequirement(t *testing.T) {
	_, ok := RequirementFor(TargetType("shift"))
	assert.False(t, ok)
}

func TestFormatTargets(t *testing.T) {
	assert.Equal(t, "", FormatTargets(nil))
	assert.Equal(t, "0:1,2:2", FormatTargets([]board.Position{{Row: 0, Col: 1}, {Row: 2, Col: 2}}))
}
