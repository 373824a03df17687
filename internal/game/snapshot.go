package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/suspectgrid/suspect-server-go/internal/game/board"
)

// Clone returns a deep copy of s that shares no mutable storage with it.
func (s GameState) Clone() GameState {
	out := s
	out.Board = s.Board.Clone()

	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		p.Trophies = append([]board.Suspect{}, p.Trophies...)
		out.Players[i] = p
	}

	if s.WinnerID != nil {
		winner := *s.WinnerID
		out.WinnerID = &winner
	}
	out.SelectablePositions = append([]board.Position{}, s.SelectablePositions...)
	if s.Modal != nil {
		modal := *s.Modal
		out.Modal = &modal
	}
	out.ActionHistory = append([]HistoryEntry{}, s.ActionHistory...)
	return out
}

// Checksum computes a SHA-256 over a canonical rendering of the state.
// Two states with the same checksum are indistinguishable to clients.
func (s GameState) Checksum() string {
	sum := sha256.Sum256(s.canonical())
	return hex.EncodeToString(sum[:])
}

// canonical writes every observable field in a fixed order.
func (s GameState) canonical() []byte {
	var buf bytes.Buffer

	winner := "-"
	if s.WinnerID != nil {
		winner = *s.WinnerID
	}
	fmt.Fprintf(&buf, "GAME:%s|%d|%s|%q|%t\n",
		s.Phase,
		s.CurrentPlayerIndex,
		winner,
		string(s.ActiveAction),
		s.IsCompacting,
	)

	fmt.Fprintf(&buf, "BOARD:%dx%d\n", s.Board.Rows(), s.Board.Cols())
	for _, row := range s.Board {
		for _, card := range row {
			fmt.Fprintf(&buf, "%d:%t:%t:%t ", card.Suspect.ID, card.IsAlive, card.IsRevealed, card.WasInterrogated)
		}
		buf.WriteByte('\n')
	}

	for _, p := range s.Players {
		fmt.Fprintf(&buf, "PLAYER:%s|%s|%d|%d|%t|%t|",
			p.ID,
			p.Name,
			p.SecretIdentity.ID,
			p.Bombs,
			p.IsEliminated,
			p.IsIdentityVisible,
		)
		for _, t := range p.Trophies {
			fmt.Fprintf(&buf, "%d,", t.ID)
		}
		buf.WriteByte('\n')
	}

	buf.WriteString("SELECTABLE:")
	for _, pos := range s.SelectablePositions {
		fmt.Fprintf(&buf, "%d:%d,", pos.Row, pos.Col)
	}
	buf.WriteByte('\n')

	if s.Modal != nil {
		fmt.Fprintf(&buf, "MODAL:%s|%s|%s\n", s.Modal.ID, s.Modal.Title, s.Modal.Body)
	}

	for _, h := range s.ActionHistory {
		fmt.Fprintf(&buf, "HISTORY:%s|%s|%d|%s\n", h.ID, h.Type, h.Timestamp, h.Message)
	}

	return buf.Bytes()
}
