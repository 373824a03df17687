package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func suspects(n int) []Suspect {
	out := make([]Suspect, n)
	for i := range out {
		out[i] = Suspect{ID: i + 1, Name: string(rune('a' + i%26))}
	}
	return out
}

func rectangular(b Board) bool {
	for _, row := range b {
		if len(row) != b.Cols() {
			return false
		}
	}
	return true
}

// grid builds a board from a pattern where 'x' marks a dead card.
func grid(pattern ...string) Board {
	b := make(Board, len(pattern))
	id := 1
	for r, line := range pattern {
		for _, ch := range line {
			b[r] = append(b[r], Card{Suspect: Suspect{ID: id}, IsAlive: ch != 'x'})
			id++
		}
	}
	return b
}

func ids(b Board) [][]int {
	out := make([][]int, len(b))
	for r, row := range b {
		for _, card := range row {
			out[r] = append(out[r], card.Suspect.ID)
		}
	}
	return out
}

func TestNewBoardLayout(t *testing.T) {
	b := New(suspects(25), 5)
	require.Equal(t, 5, b.Rows())
	require.Equal(t, 5, b.Cols())
	assert.True(t, rectangular(b))
	assert.Equal(t, 7, b[1][1].Suspect.ID)
	assert.Len(t, b.Alive(), 25)
}

func TestCompactNoDeadCardsReturnsSameBoard(t *testing.T) {
	b := grid("ooo", "ooo", "ooo")
	assert.True(t, Same(b, Compact(b)))
}

func TestCompactColumnGravity(t *testing.T) {
	b := grid(
		"xoo",
		"oxo",
		"oox",
	)
	out := Compact(b)
	require.False(t, Same(b, out))
	assert.Equal(t, [][]int{{4, 2, 3}, {7, 8, 6}}, ids(out))
	assert.True(t, rectangular(out))
	// input is not modified
	assert.Equal(t, 3, b.Rows())
	assert.False(t, b[0][0].IsAlive)
}

func TestCompactPrefersColumnsOverRows(t *testing.T) {
	// every row and every column holds a dead card
	b := grid(
		"xo",
		"ox",
	)
	out := Compact(b)
	require.Equal(t, 1, out.Rows())
	assert.Equal(t, 2, out.Cols())
	assert.Equal(t, [][]int{{3, 2}}, ids(out))
}

func TestCompactRowGravity(t *testing.T) {
	b := grid(
		"xoo",
		"oox",
	)
	// column 1 has no dead card, so only row gravity applies
	out := Compact(b)
	require.False(t, Same(b, out))
	assert.Equal(t, [][]int{{2, 3}, {4, 5}}, ids(out))
}

func TestCompactNeitherApplies(t *testing.T) {
	b := grid(
		"xoo",
		"ooo",
	)
	assert.True(t, Same(b, Compact(b)))
}

func TestCompactStableOnItsOutput(t *testing.T) {
	b := grid(
		"xoo",
		"oxo",
		"oox",
	)
	once := Compact(b)
	require.False(t, Same(b, once))
	assert.True(t, Same(once, Compact(once)))
}

func TestCompactCollapsesToEmpty(t *testing.T) {
	b := grid("xx")
	out := Compact(b)
	assert.Equal(t, 0, out.Rows())
	assert.NotNil(t, out)

	assert.True(t, Same(out, Compact(out)))
}

func TestCompactSingleColumnCollapses(t *testing.T) {
	b := grid("x", "o")
	out := Compact(b)
	assert.Equal(t, [][]int{{2}}, ids(out))
}

func TestLocate(t *testing.T) {
	b := New(suspects(9), 3)
	pos, ok := Locate(b, 6)
	require.True(t, ok)
	assert.Equal(t, Position{Row: 1, Col: 2}, pos)

	_, ok = Locate(b, 42)
	assert.False(t, ok)
}

func TestAdjacent(t *testing.T) {
	b := New(suspects(9), 3)

	corner := Adjacent(b, 0, 0, false)
	assert.Equal(t, []Position{{0, 1}, {1, 0}, {1, 1}}, corner)

	center := Adjacent(b, 1, 1, true)
	assert.Len(t, center, 9)
	assert.Equal(t, Position{0, 0}, center[0])
	assert.Equal(t, Position{1, 1}, center[4])

	assert.Empty(t, Adjacent(Board{}, 0, 0, true))
}

func TestShiftRowRightWraps(t *testing.T) {
	b := New(suspects(25), 5)
	out := Shift(b, AxisRow, 0, 1)
	assert.Equal(t, []int{5, 1, 2, 3, 4}, ids(out)[0])
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(b)[0], "original untouched")
}

func TestShiftRowLeftWraps(t *testing.T) {
	b := New(suspects(25), 5)
	out := Shift(b, AxisRow, 4, -1)
	assert.Equal(t, []int{22, 23, 24, 25, 21}, ids(out)[4])
}

func TestShiftColumn(t *testing.T) {
	b := New(suspects(9), 3)

	down := Shift(b, AxisCol, 1, 1)
	assert.Equal(t, [][]int{{1, 8, 3}, {4, 2, 6}, {7, 5, 9}}, ids(down))

	up := Shift(b, AxisCol, 1, -1)
	assert.Equal(t, [][]int{{1, 5, 3}, {4, 8, 6}, {7, 2, 9}}, ids(up))
}

func TestInRange(t *testing.T) {
	b := New(suspects(6), 3)[:2]
	assert.True(t, b.InRange(AxisRow, 1))
	assert.False(t, b.InRange(AxisRow, 2))
	assert.True(t, b.InRange(AxisCol, 2))
	assert.False(t, b.InRange(AxisCol, -1))
	assert.False(t, Board{}.InRange(AxisCol, 0))
	assert.False(t, b.InRange(Axis("diag"), 0))
}
