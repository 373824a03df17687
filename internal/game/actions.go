package game

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/suspectgrid/suspect-server-go/internal/game/board"
	"github.com/suspectgrid/suspect-server-go/internal/game/rules"
	"github.com/suspectgrid/suspect-server-go/internal/game/targeting"
)

// validateArmedTarget checks that kind is armed and target is one of the
// selectable cells.
func (e *Engine) validateArmedTarget(kind ActionType, target board.Position) error {
	if e.state.ActiveAction != kind {
		return fmt.Errorf("%w: %s", ErrActionNotArmed, kind)
	}
	req, ok := targeting.RequirementFor(targeting.TargetType(kind))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidAction, string(kind))
	}
	validator := targeting.NewTargetValidator(e.state.Board)
	if err := validator.ValidateTarget(target, e.state.SelectablePositions, req); err != nil {
		return fmt.Errorf("%w: %v", ErrIllegalTarget, err)
	}
	return nil
}

// Kill hits the card at target with the current player's armed kill.
//
// Hitting another player's identity earns a trophy; the third trophy wins
// the match on the spot. Otherwise the victim moves to a random free
// identity, or is eliminated when none is left. Hitting a civilian costs a
// bomb, and the third bomb eliminates the attacker.
func (e *Engine) Kill(playerID string, target board.Position) error {
	if err := e.ensurePlayerTurn(playerID); err != nil {
		return err
	}
	if err := e.validateArmedTarget(ActionKill, target); err != nil {
		return err
	}
	attacker := e.currentPlayer()
	card := e.state.Board.At(target)
	victim := e.playerByIdentity(card.Suspect.ID)

	e.clearAction()
	e.scheduleCompaction(markDead(e.state.Board, target))

	if victim != nil {
		e.resolveSpyHit(attacker, victim)
	} else {
		e.resolveCivilianHit(attacker, card.Suspect)
	}
	return nil
}

func (e *Engine) resolveSpyHit(attacker, victim *Player) {
	attacker.Trophies = append(append([]board.Suspect(nil), attacker.Trophies...), victim.SecretIdentity)

	if e.logger != nil {
		e.logger.Debug("spy hit",
			zap.String("attacker", attacker.ID),
			zap.String("victim", victim.ID),
			zap.Int("trophies", len(attacker.Trophies)),
		)
	}

	if len(attacker.Trophies) >= WinTrophies {
		e.setModal("Victory!", fmt.Sprintf("%s collected enough trophies.", attacker.Name))
		e.logAction(rules.EventKill, attacker.ID, victim.ID, "%s took out %s and won the match.", attacker.Name, victim.Name)
		e.finish(rules.Outcome{Over: true, WinnerID: attacker.ID, HasWinner: true})
		return
	}

	if e.transferIdentity(victim) {
		e.setModal("Identity exposed",
			fmt.Sprintf("%s was exposed by %s and took on a new identity.", victim.Name, attacker.Name))
		e.logAction(rules.EventKill, attacker.ID, victim.ID, "%s exposes %s, who takes on a new identity.", attacker.Name, victim.Name)
	} else {
		e.eliminatePlayer(victim.ID, "no free identities left on the board")
		e.logAction(rules.EventKill, attacker.ID, victim.ID, "%s takes out %s.", attacker.Name, victim.Name)
	}
	e.advanceTurn()
}

func (e *Engine) resolveCivilianHit(attacker *Player, civilian board.Suspect) {
	attacker.Bombs++

	if e.logger != nil {
		e.logger.Debug("civilian hit",
			zap.String("attacker", attacker.ID),
			zap.Int("suspect", civilian.ID),
			zap.Int("bombs", attacker.Bombs),
		)
	}

	if attacker.Bombs >= LoseBombs {
		e.logAction(rules.EventCivilian, attacker.ID, "", "%s kills civilian %s and is out of the match.", attacker.Name, civilian.Name)
		e.eliminatePlayer(attacker.ID, "too many bombs")
		if e.state.Phase != PhaseGameOver {
			e.setModal("Fatal mistake",
				fmt.Sprintf("%s killed a civilian and is out after %d bombs.", attacker.Name, LoseBombs))
			e.advanceTurn()
		}
		return
	}

	e.setModal("Mistake",
		fmt.Sprintf("%s killed a civilian and got a bomb (%d/%d).", attacker.Name, attacker.Bombs, LoseBombs))
	e.logAction(rules.EventCivilian, attacker.ID, "", "%s kills civilian %s and gets a bomb (%d/%d).",
		attacker.Name, civilian.Name, attacker.Bombs, LoseBombs)
	e.advanceTurn()
}

// transferIdentity moves victim to a random living card nobody holds. It
// returns false when there is no such card.
func (e *Engine) transferIdentity(victim *Player) bool {
	var free []board.Suspect
	for _, card := range e.state.Board.Alive() {
		if e.playerByIdentity(card.Suspect.ID) == nil {
			free = append(free, card.Suspect)
		}
	}
	if len(free) == 0 {
		return false
	}
	victim.SecretIdentity = shuffled(e.shuffler, free)[0]
	victim.IsIdentityVisible = false
	return true
}

// Interrogate questions the card at target. Every active player whose
// identity neighbours the card answers, and so does the player who is the
// card, if any. Names come back shuffled so the real match cannot be told
// apart from the neighbours.
func (e *Engine) Interrogate(playerID string, target board.Position) error {
	if err := e.ensurePlayerTurn(playerID); err != nil {
		return err
	}
	if err := e.validateArmedTarget(ActionInterrogate, target); err != nil {
		return err
	}

	next := e.state.Board.Clone()
	next[target.Row][target.Col].WasInterrogated = true
	e.replaceBoard(next)
	card := next.At(target)

	neighbours := board.Adjacent(next, target.Row, target.Col, false)
	answered := make(map[string]bool)
	var names []string
	for i := range e.state.Players {
		p := &e.state.Players[i]
		if p.IsEliminated {
			continue
		}
		pos, ok := board.Locate(next, p.SecretIdentity.ID)
		if ok && targeting.Contains(neighbours, pos) {
			answered[p.ID] = true
			names = append(names, p.Name)
		}
	}
	if p := e.playerByIdentity(card.Suspect.ID); p != nil && !answered[p.ID] {
		names = append(names, p.Name)
	}

	var body string
	if len(names) > 0 {
		body = fmt.Sprintf("Answering about %s: %s.", card.Suspect.Name, strings.Join(shuffled(e.shuffler, names), ", "))
	} else {
		body = fmt.Sprintf("Nobody answered about %s.", card.Suspect.Name)
	}

	actor := "A player"
	if current := e.currentPlayer(); current != nil {
		actor = current.Name
	}
	e.setModal("Interrogation results", body)
	e.logAction(rules.EventInterrogate, playerID, "", "%s questions %s. %s", actor, card.Suspect.Name, body)
	e.clearAction()
	e.advanceTurn()
	return nil
}

// Shift rotates one row or column by a single cell, wrapping the card that
// falls off one end back in at the other. It is only allowed with no action
// armed and no compaction pending.
func (e *Engine) Shift(playerID string, axis board.Axis, index, direction int) error {
	if err := e.ensurePlayerTurn(playerID); err != nil {
		return err
	}
	if e.state.ActiveAction != ActionNone || e.state.IsCompacting {
		return ErrShiftBlocked
	}
	if !axis.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAxis, string(axis))
	}
	if direction != 1 && direction != -1 {
		return fmt.Errorf("%w: %d", ErrInvalidDirection, direction)
	}
	if !e.state.Board.InRange(axis, index) {
		return fmt.Errorf("%w: %s %d", ErrShiftIndex, axis, index)
	}

	e.state.Board = board.Shift(e.state.Board, axis, index, direction)

	var label, way string
	switch {
	case axis == board.AxisRow && direction > 0:
		label, way = "row", "right"
	case axis == board.AxisRow:
		label, way = "row", "left"
	case direction > 0:
		label, way = "column", "down"
	default:
		label, way = "column", "up"
	}
	actor := "A player"
	if current := e.currentPlayer(); current != nil {
		actor = current.Name
	}
	e.logAction(rules.EventShift, playerID, "", "%s shifts %s %d %s.", actor, label, index+1, way)
	e.advanceTurn()
	return nil
}

// eliminatePlayer takes a player out of the match, killing their identity
// card if it is still alive. It is a no-op for unknown or already
// eliminated players.
func (e *Engine) eliminatePlayer(playerID, reason string) {
	p := e.playerByID(playerID)
	if p == nil || p.IsEliminated {
		return
	}
	p.IsEliminated = true

	if pos, ok := board.Locate(e.state.Board, p.SecretIdentity.ID); ok && e.state.Board.At(pos).IsAlive {
		e.scheduleCompaction(markDead(e.state.Board, pos))
	}

	if e.logger != nil {
		e.logger.Debug("player eliminated",
			zap.String("player", p.ID),
			zap.String("reason", reason),
		)
	}

	e.setModal("Player eliminated", fmt.Sprintf("%s leaves the match: %s.", p.Name, reason))
	e.logAction(rules.EventElimination, p.ID, "", "%s is out: %s.", p.Name, reason)
	e.checkGameOver()
}

// markDead returns a copy of b with the card at pos dead and revealed.
func markDead(b board.Board, pos board.Position) board.Board {
	next := b.Clone()
	next[pos.Row][pos.Col].IsAlive = false
	next[pos.Row][pos.Col].IsRevealed = true
	return next
}
