package board

// Suspect is a named identity slot occupying exactly one board cell.
type Suspect struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Card is the runtime state of a single board cell.
type Card struct {
	Suspect         Suspect `json:"suspect"`
	IsAlive         bool    `json:"isAlive"`
	IsRevealed      bool    `json:"isRevealed"`
	WasInterrogated bool    `json:"wasInterrogated"`
}

// Position addresses a cell by row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is a rectangular matrix of cards. A board with zero rows is the
// terminal, fully collapsed board.
type Board [][]Card

// New lays suspects out row-major into a size×size board of living cards.
// Extra suspects are ignored; missing ones leave the board short.
func New(suspects []Suspect, size int) Board {
	b := make(Board, 0, size)
	for r := 0; r < size; r++ {
		start := r * size
		if start >= len(suspects) {
			break
		}
		end := start + size
		if end > len(suspects) {
			end = len(suspects)
		}
		row := make([]Card, 0, size)
		for _, s := range suspects[start:end] {
			row = append(row, Card{Suspect: s, IsAlive: true})
		}
		b = append(b, row)
	}
	return b
}

// Rows returns the number of rows.
func (b Board) Rows() int {
	return len(b)
}

// Cols returns the number of columns, or 0 for an empty board.
func (b Board) Cols() int {
	if len(b) == 0 {
		return 0
	}
	return len(b[0])
}

// Contains reports whether p lies inside the board.
func (b Board) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < b.Rows() && p.Col >= 0 && p.Col < len(b[p.Row])
}

// At returns the card at p. The caller must check Contains first.
func (b Board) At(p Position) Card {
	return b[p.Row][p.Col]
}

// Clone returns a copy that shares no row storage with b.
func (b Board) Clone() Board {
	if b == nil {
		return nil
	}
	out := make(Board, len(b))
	for r, row := range b {
		out[r] = append([]Card(nil), row...)
	}
	return out
}

// Alive returns the living cards in row-major order.
func (b Board) Alive() []Card {
	var cards []Card
	for _, row := range b {
		for _, card := range row {
			if card.IsAlive {
				cards = append(cards, card)
			}
		}
	}
	return cards
}

// Same reports whether a and b are the same board value, not merely equal
// ones. Compact relies on this to signal that no gravity applied.
func Same(a, b Board) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return (a == nil) == (b == nil)
	}
	return &a[0] == &b[0]
}
