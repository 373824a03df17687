package board

// Locate returns the position of the card holding suspectID.
func Locate(b Board, suspectID int) (Position, bool) {
	for r, row := range b {
		for c, card := range row {
			if card.Suspect.ID == suspectID {
				return Position{Row: r, Col: c}, true
			}
		}
	}
	return Position{}, false
}

// Adjacent returns the Moore neighbourhood of (row, col) clipped to the
// board, in row-major order. The origin is included only when includeSelf
// is set.
func Adjacent(b Board, row, col int, includeSelf bool) []Position {
	rows := b.Rows()
	if rows == 0 {
		return nil
	}
	cols := b.Cols()

	positions := make([]Position, 0, 9)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 && !includeSelf {
				continue
			}
			r, c := row+dr, col+dc
			if r >= 0 && r < rows && c >= 0 && c < cols {
				positions = append(positions, Position{Row: r, Col: c})
			}
		}
	}
	return positions
}
