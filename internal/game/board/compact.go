package board

// Compact applies one step of gravity to b.
//
// Column gravity is tried first: when every column holds a dead card, the
// topmost dead card of each column is removed and the board loses a row.
// Only when that does not apply is row gravity tried, removing the leftmost
// dead card of each row. If neither yields a strictly smaller rectangle, b
// itself is returned, so callers can use Same to detect a no-op.
func Compact(b Board) Board {
	rows := b.Rows()
	if rows == 0 {
		return b
	}
	cols := b.Cols()
	if cols == 0 {
		return b
	}

	if everyColumnHasDead(b, cols) {
		columns := make([][]Card, 0, cols)
		for c := 0; c < cols; c++ {
			column := make([]Card, 0, rows)
			for r := 0; r < rows; r++ {
				column = append(column, b[r][c])
			}
			if column = dropFirstDead(column); len(column) > 0 {
				columns = append(columns, column)
			}
		}
		if len(columns) == 0 {
			return Board{}
		}
		newRows := len(columns[0])
		if newRows < rows && sameLength(columns, newRows) {
			out := make(Board, newRows)
			for r := range out {
				out[r] = make([]Card, len(columns))
				for c, column := range columns {
					out[r][c] = column[r]
				}
			}
			return out
		}
	}

	if everyRowHasDead(b) {
		trimmed := make([][]Card, 0, rows)
		for _, row := range b {
			if row = dropFirstDead(append([]Card(nil), row...)); len(row) > 0 {
				trimmed = append(trimmed, row)
			}
		}
		if len(trimmed) == 0 {
			return Board{}
		}
		newCols := len(trimmed[0])
		if newCols < cols && sameLength(trimmed, newCols) {
			return Board(trimmed)
		}
	}

	return b
}

func everyColumnHasDead(b Board, cols int) bool {
	for c := 0; c < cols; c++ {
		found := false
		for _, row := range b {
			if c < len(row) && !row[c].IsAlive {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func everyRowHasDead(b Board) bool {
	for _, row := range b {
		found := false
		for _, card := range row {
			if !card.IsAlive {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// dropFirstDead removes the first dead card of line in place.
func dropFirstDead(line []Card) []Card {
	for i, card := range line {
		if !card.IsAlive {
			return append(line[:i], line[i+1:]...)
		}
	}
	return line
}

func sameLength(lines [][]Card, n int) bool {
	for _, line := range lines {
		if len(line) != n {
			return false
		}
	}
	return true
}
