package board

// Axis selects a row or a column for Shift.
type Axis string

const (
	AxisRow Axis = "row"
	AxisCol Axis = "col"
)

// Valid reports whether a is a known axis.
func (a Axis) Valid() bool {
	return a == AxisRow || a == AxisCol
}

// InRange reports whether index addresses an existing line along axis.
func (b Board) InRange(axis Axis, index int) bool {
	switch axis {
	case AxisRow:
		return index >= 0 && index < b.Rows()
	case AxisCol:
		return index >= 0 && index < b.Cols()
	default:
		return false
	}
}

// Shift rotates one row or column by a single cell and returns the new
// board; b is left untouched. A positive direction moves cards right (rows)
// or down (columns) with the last card wrapping to the front; a negative one
// moves them the other way. The caller validates axis and index.
func Shift(b Board, axis Axis, index, direction int) Board {
	out := b.Clone()
	switch axis {
	case AxisRow:
		rotate(out[index], direction)
	case AxisCol:
		column := make([]Card, out.Rows())
		for r := range out {
			column[r] = out[r][index]
		}
		rotate(column, direction)
		for r := range out {
			out[r][index] = column[r]
		}
	}
	return out
}

func rotate(line []Card, direction int) {
	n := len(line)
	if n < 2 {
		return
	}
	if direction > 0 {
		last := line[n-1]
		copy(line[1:], line[:n-1])
		line[0] = last
		return
	}
	first := line[0]
	copy(line, line[1:])
	line[n-1] = first
}
