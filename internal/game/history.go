package game

import (
	"fmt"

	"github.com/suspectgrid/suspect-server-go/internal/game/rules"
)

// logAction prepends a history entry, dropping the oldest beyond
// HistoryLimit, and publishes the matching event.
func (e *Engine) logAction(kind rules.EventType, actorID, targetID, format string, args ...any) {
	now := e.now()
	entry := HistoryEntry{
		ID:        e.newID(),
		Type:      kind,
		Message:   fmt.Sprintf(format, args...),
		Timestamp: now.UnixMilli(),
	}

	size := len(e.state.ActionHistory) + 1
	if size > HistoryLimit {
		size = HistoryLimit
	}
	history := make([]HistoryEntry, 0, size)
	history = append(history, entry)
	history = append(history, e.state.ActionHistory[:size-1]...)
	e.state.ActionHistory = history

	e.events.Publish(rules.Event{
		Type:      kind,
		ID:        entry.ID,
		PlayerID:  actorID,
		TargetID:  targetID,
		Message:   entry.Message,
		Timestamp: now,
	})
}

// setModal replaces the pending modal.
func (e *Engine) setModal(title, body string) {
	e.state.Modal = &Modal{
		ID:    e.newID(),
		Title: title,
		Body:  body,
	}
}
