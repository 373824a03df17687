package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suspectgrid/suspect-server-go/internal/game/board"
	"github.com/suspectgrid/suspect-server-go/internal/game/rules"
	"github.com/suspectgrid/suspect-server-go/internal/game/targeting"
)

// Engine owns the state of a single match and is the only thing that
// mutates it. Commands either apply completely or return an error and
// leave the state untouched.
//
// Engine is not safe for concurrent use; the host serialises commands.
type Engine struct {
	state GameState

	// pending is the compacted board waiting for FinalizeCompaction.
	pending    board.Board
	hasPending bool
	// compactionSeq counts compactions scheduled by a card dying.
	compactionSeq uint64

	shuffler Shuffler
	logger   *zap.Logger
	events   *rules.EventBus
	now      func() time.Time
	newID    func() string
	roster   []board.Suspect
}

// Option configures an Engine.
type Option func(*Engine)

// WithShuffler sets the random source used for dealing, identity transfer
// and interrogation answers.
func WithShuffler(s Shuffler) Option {
	return func(e *Engine) {
		if s != nil {
			e.shuffler = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock sets the time source for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithRoster replaces the suspect pool the board is dealt from.
func WithRoster(roster []board.Suspect) Option {
	return func(e *Engine) {
		e.roster = roster
	}
}

// NewEngine deals a new match for seeds. Seats follow the order of seeds
// and the first seat moves first.
func NewEngine(seeds []PlayerSeed, opts ...Option) (*Engine, error) {
	e := &Engine{
		shuffler: runtimeShuffler{},
		events:   rules.NewEventBus(),
		now:      time.Now,
		newID:    uuid.NewString,
		roster:   Roster,
	}
	for _, opt := range opts {
		opt(e)
	}

	state, err := newInitialState(seeds, e.roster, e.shuffler)
	if err != nil {
		return nil, err
	}
	e.state = state

	if first := e.currentPlayer(); first != nil {
		e.logAction(rules.EventTurn, first.ID, "", "The match begins. %s moves first.", first.Name)
	}

	if e.logger != nil {
		e.logger.Info("match started",
			zap.Int("players", len(e.state.Players)),
			zap.Int("board_size", e.state.Board.Rows()),
		)
	}
	return e, nil
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() GameState {
	return e.state.Clone()
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.state.Phase
}

// Subscribe registers a listener for every engine event. Listeners run
// synchronously inside the command that caused the event.
func (e *Engine) Subscribe(listener rules.Listener) {
	e.events.Subscribe(listener)
}

// SubscribeTyped registers a listener for one event type.
func (e *Engine) SubscribeTyped(eventType rules.EventType, listener rules.Listener) {
	e.events.SubscribeTyped(eventType, listener)
}

func (e *Engine) currentPlayer() *Player {
	i := e.state.CurrentPlayerIndex
	if i < 0 || i >= len(e.state.Players) {
		return nil
	}
	return &e.state.Players[i]
}

func (e *Engine) playerByID(id string) *Player {
	for i := range e.state.Players {
		if e.state.Players[i].ID == id {
			return &e.state.Players[i]
		}
	}
	return nil
}

// playerByIdentity returns the active player currently mapped to suspectID.
func (e *Engine) playerByIdentity(suspectID int) *Player {
	for i := range e.state.Players {
		p := &e.state.Players[i]
		if !p.IsEliminated && p.SecretIdentity.ID == suspectID {
			return p
		}
	}
	return nil
}

func (e *Engine) ensurePlayerTurn(playerID string) error {
	if e.state.Phase == PhaseGameOver {
		return ErrGameOver
	}
	current := e.currentPlayer()
	if current == nil || current.ID != playerID {
		return ErrNotYourTurn
	}
	return nil
}

// SelectAction arms action for the current player, or disarms it when it
// is already armed. ActionNone disarms whatever is armed.
func (e *Engine) SelectAction(playerID string, action ActionType) error {
	if err := e.ensurePlayerTurn(playerID); err != nil {
		return err
	}
	if !action.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAction, string(action))
	}

	if e.state.ActiveAction == action {
		e.state.ActiveAction = ActionNone
	} else {
		e.state.ActiveAction = action
	}
	e.recomputeSelectable()

	if e.logger != nil {
		e.logger.Debug("action selected",
			zap.String("player", playerID),
			zap.String("action", string(e.state.ActiveAction)),
			zap.String("targets", targeting.FormatTargets(e.state.SelectablePositions)),
		)
	}
	return nil
}

// recomputeSelectable derives the legal targets of the armed action from
// the current player's identity cell.
func (e *Engine) recomputeSelectable() {
	e.state.SelectablePositions = []board.Position{}

	current := e.currentPlayer()
	if current == nil || e.state.ActiveAction == ActionNone {
		return
	}
	req, ok := targeting.RequirementFor(targeting.TargetType(e.state.ActiveAction))
	if !ok {
		return
	}
	origin, ok := board.Locate(e.state.Board, current.SecretIdentity.ID)
	if !ok {
		return
	}
	if selectable := targeting.NewTargetValidator(e.state.Board).Selectable(origin, req); len(selectable) > 0 {
		e.state.SelectablePositions = selectable
	}
}

func (e *Engine) clearAction() {
	e.state.ActiveAction = ActionNone
	e.state.SelectablePositions = []board.Position{}
}

// AdvanceTurn ends the current player's turn without acting. It also
// dismisses any pending modal.
func (e *Engine) AdvanceTurn(playerID string) error {
	if err := e.ensurePlayerTurn(playerID); err != nil {
		return err
	}
	e.state.Modal = nil
	e.advanceTurn()
	return nil
}

// ToggleIdentity flips whether a player's own identity is shown on their
// screen. Requests for anybody else's identity are ignored.
func (e *Engine) ToggleIdentity(callerID, targetID string) {
	if callerID != targetID {
		return
	}
	if p := e.playerByID(targetID); p != nil {
		p.IsIdentityVisible = !p.IsIdentityVisible
	}
}

// CloseModal dismisses the pending modal, if any.
func (e *Engine) CloseModal() {
	e.state.Modal = nil
}

// DropPlayer eliminates a player for a reason outside the rules, such as a
// lost connection. It ignores turn ownership. When the dropped player held
// the turn and the match goes on, the turn passes. A finished match is left
// as it is.
func (e *Engine) DropPlayer(playerID, reason string) {
	if e.state.Phase == PhaseGameOver {
		return
	}
	p := e.playerByID(playerID)
	if p == nil || p.IsEliminated {
		return
	}
	current := e.currentPlayer()
	wasCurrent := current != nil && current.ID == playerID

	e.eliminatePlayer(playerID, reason)
	if e.state.Phase != PhasePlaying {
		return
	}
	if wasCurrent {
		e.advanceTurn()
		return
	}
	// the dropped card may have been an armed target
	e.recomputeSelectable()
}

// HasPendingCompaction reports whether a compacted board is waiting for
// FinalizeCompaction.
func (e *Engine) HasPendingCompaction() bool {
	return e.hasPending
}

// CompactionSeq identifies the pending compaction. It changes whenever a
// card dies while a compaction is scheduled, and stays put when only
// cosmetic flags change.
func (e *Engine) CompactionSeq() uint64 {
	return e.compactionSeq
}

// FinalizeCompaction installs the pending compacted board. It is a no-op
// when nothing is pending.
func (e *Engine) FinalizeCompaction() {
	if !e.hasPending {
		return
	}
	e.state.Board = e.pending
	e.pending = nil
	e.hasPending = false
	e.state.IsCompacting = false
	// armed targets refer to the old coordinates
	e.recomputeSelectable()
}

// scheduleCompaction installs next, a board on which a card just died.
func (e *Engine) scheduleCompaction(next board.Board) {
	e.installBoard(next)
	if e.hasPending {
		e.compactionSeq++
	}
}

// installBoard sets next as the visible board and computes the compacted
// board it will collapse to.
func (e *Engine) installBoard(next board.Board) {
	e.state.Board = next
	compacted := board.Compact(next)
	if board.Same(compacted, next) {
		e.pending = nil
		e.hasPending = false
		e.state.IsCompacting = false
		return
	}
	e.pending = compacted
	e.hasPending = true
	e.state.IsCompacting = true
}

// replaceBoard installs a board that differs only in cosmetic flags,
// keeping any pending compaction in step with it.
func (e *Engine) replaceBoard(next board.Board) {
	if e.hasPending {
		e.installBoard(next)
		return
	}
	e.state.Board = next
}
