package game

import (
	"go.uber.org/zap"

	"github.com/suspectgrid/suspect-server-go/internal/game/rules"
)

// advanceTurn hands the turn to the next active seat. If nobody else is
// left the match ends under the last-player-standing rule.
func (e *Engine) advanceTurn() {
	if e.state.Phase == PhaseGameOver {
		e.clearAction()
		return
	}
	if len(e.state.Players) == 0 {
		return
	}

	seats := seating(e.state.Players)
	next, ok := rules.NextActive(seats, e.state.CurrentPlayerIndex)
	if !ok {
		outcome := rules.Resolve(seats)
		outcome.Over = true
		e.finish(outcome)
		return
	}

	e.state.CurrentPlayerIndex = next
	e.clearAction()

	p := &e.state.Players[next]
	e.logAction(rules.EventTurn, p.ID, "", "Turn passes to %s.", p.Name)
}

// checkGameOver ends the match when at most one player is left and
// reports whether the match is over.
func (e *Engine) checkGameOver() bool {
	if e.state.Phase == PhaseGameOver {
		return true
	}
	outcome := rules.Resolve(seating(e.state.Players))
	if outcome.Over {
		e.finish(outcome)
	}
	return outcome.Over
}

func (e *Engine) finish(outcome rules.Outcome) {
	if e.state.Phase == PhaseGameOver {
		return
	}
	e.state.Phase = PhaseGameOver
	e.state.WinnerID = nil
	if outcome.HasWinner {
		winner := outcome.WinnerID
		e.state.WinnerID = &winner
	}
	e.clearAction()

	if e.logger != nil {
		e.logger.Info("match over", zap.Stringer("outcome", outcome))
	}

	e.events.Publish(rules.Event{
		Type:      rules.EventGameOver,
		ID:        e.newID(),
		PlayerID:  outcome.WinnerID,
		Message:   outcome.String(),
		Timestamp: e.now(),
	})
}
