package session

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/suspectgrid/suspect-server-go/internal/game"
	"github.com/suspectgrid/suspect-server-go/internal/game/rules"
	"github.com/suspectgrid/suspect-server-go/internal/repository"
)

// Session is one lobby and the match played in it. All engine access goes
// through the session lock.
type Session struct {
	mu sync.Mutex

	code    string
	hostID  string
	members []member // join order
	phase   Phase
	engine  *game.Engine
	closed  bool

	finalizeTimer *time.Timer
	timerSeq      uint64 // engine compaction the timer belongs to

	opts        Options
	broadcaster Broadcaster
	onGameOver  func(repository.MatchResult)
	logger      *zap.Logger
}

func newSession(code string, host member, opts Options, broadcaster Broadcaster, onGameOver func(repository.MatchResult), logger *zap.Logger) *Session {
	if logger != nil {
		logger = logger.With(zap.String("session", code))
	}
	return &Session{
		code:        code,
		hostID:      host.id,
		members:     []member{host},
		phase:       PhaseLobby,
		opts:        opts,
		broadcaster: broadcaster,
		onGameOver:  onGameOver,
		logger:      logger,
	}
}

// Code returns the join code.
func (s *Session) Code() string {
	return s.code
}

// Summary returns the public view of the session.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

// Start deals a match for the current members. Only the host may start,
// and a finished match may be restarted the same way.
func (s *Session) Start(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine != nil && s.engine.Phase() != game.PhaseGameOver {
		return ErrAlreadyStarted
	}
	if playerID != s.hostID {
		return ErrNotHost
	}
	if len(s.members) < s.opts.MinPlayers {
		return fmt.Errorf("%w: need at least %d, have %d", ErrNotEnoughPlayers, s.opts.MinPlayers, len(s.members))
	}

	seeds := make([]game.PlayerSeed, len(s.members))
	for i, m := range s.members {
		seeds[i] = game.PlayerSeed{ID: m.id, Name: m.name}
	}

	opts := append([]game.Option{}, s.opts.EngineOptions...)
	if s.logger != nil {
		opts = append(opts, game.WithLogger(s.logger))
	}
	engine, err := game.NewEngine(seeds, opts...)
	if err != nil {
		return fmt.Errorf("start match: %w", err)
	}
	engine.Subscribe(s.logEvent)
	if s.onGameOver != nil {
		engine.SubscribeTyped(rules.EventGameOver, s.recordGameOver)
	}

	s.stopTimerLocked()
	s.engine = engine
	s.phase = PhasePlaying

	if s.logger != nil {
		s.logger.Info("match started", zap.Int("players", len(seeds)))
	}
	s.broadcastGameLocked()
	return nil
}

// Execute runs cmd against the engine on behalf of playerID and broadcasts
// the new state when it succeeds. Errors are returned unchanged and nothing
// is broadcast.
func (s *Session) Execute(playerID string, cmd func(*game.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		return ErrNotStarted
	}
	if s.indexLocked(playerID) < 0 {
		return ErrNotMember
	}
	if err := cmd(s.engine); err != nil {
		return err
	}
	s.broadcastGameLocked()
	return nil
}

func (s *Session) join(m member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionNotFound
	}
	if s.phase != PhaseLobby {
		return ErrAlreadyStarted
	}
	if s.indexLocked(m.id) >= 0 {
		return ErrDuplicatePlayer
	}
	if len(s.members) >= s.opts.MaxPlayers {
		return fmt.Errorf("%w: %d players max", ErrSessionFull, s.opts.MaxPlayers)
	}
	s.members = append(s.members, m)
	s.broadcastLobbyLocked()
	return nil
}

// leave removes playerID and reports whether the session is now empty.
func (s *Session) leave(playerID, reason string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(playerID)
	if i < 0 {
		return len(s.members) == 0
	}
	s.members = append(s.members[:i:i], s.members[i+1:]...)

	if s.engine != nil {
		s.engine.DropPlayer(playerID, reason)
		s.broadcastGameLocked()
	}
	if len(s.members) == 0 {
		return true
	}
	if s.hostID == playerID {
		s.hostID = s.members[0].id
		if s.logger != nil {
			s.logger.Debug("host reassigned", zap.String("host", s.hostID))
		}
	}
	if s.phase == PhaseLobby {
		s.broadcastLobbyLocked()
	}
	return false
}

// closeIfEmpty marks an empty session closed and reports whether it did.
func (s *Session) closeIfEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.members) > 0 {
		return false
	}
	s.closeLocked()
	return true
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	s.closed = true
	s.stopTimerLocked()
}

func (s *Session) stopTimerLocked() {
	if s.finalizeTimer != nil {
		s.finalizeTimer.Stop()
		s.finalizeTimer = nil
	}
}

func (s *Session) indexLocked(playerID string) int {
	for i, m := range s.members {
		if m.id == playerID {
			return i
		}
	}
	return -1
}

func (s *Session) playerIDsLocked() []string {
	ids := make([]string, len(s.members))
	for i, m := range s.members {
		ids[i] = m.id
	}
	return ids
}

func (s *Session) summaryLocked() Summary {
	players := make([]PlayerSummary, len(s.members))
	for i, m := range s.members {
		players[i] = PlayerSummary{
			ID:     m.id,
			Name:   m.name,
			IsHost: m.id == s.hostID,
		}
	}
	return Summary{
		Code:    s.code,
		Players: players,
		Phase:   s.phase,
		HostID:  s.hostID,
	}
}

func (s *Session) lobbiesLocked() map[string]LobbyState {
	summary := s.summaryLocked()
	lobbies := make(map[string]LobbyState, len(summary.Players))
	for _, p := range summary.Players {
		lobbies[p.ID] = LobbyState{Session: summary, You: p}
	}
	return lobbies
}

func (s *Session) broadcastLobbyLocked() {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastLobby(s.lobbiesLocked())
}

// broadcastGameLocked sends the match state to every member and arms the
// compaction timer when a collapse is waiting.
func (s *Session) broadcastGameLocked() {
	if s.engine == nil {
		return
	}
	state := s.engine.Snapshot()
	if s.broadcaster != nil {
		s.broadcaster.BroadcastGame(s.playerIDsLocked(), state)
	}
	if state.IsCompacting && s.engine.HasPendingCompaction() {
		s.scheduleFinalizeLocked()
	}
}

// scheduleFinalizeLocked arms the compaction timer, restarting it when a
// newer compaction replaced the one it was armed for.
func (s *Session) scheduleFinalizeLocked() {
	if s.closed {
		return
	}
	seq := s.engine.CompactionSeq()
	if s.finalizeTimer != nil {
		if s.timerSeq == seq {
			return
		}
		s.finalizeTimer.Stop()
	}
	engine := s.engine
	s.timerSeq = seq
	s.finalizeTimer = time.AfterFunc(s.opts.CompactionDelay, func() {
		s.finalizeCompaction(engine, seq)
	})
}

// finalizeCompaction collapses the board if engine and seq still describe
// the pending compaction. A timer that lost the race to a restart or a
// newer compaction does nothing.
func (s *Session) finalizeCompaction(engine *game.Engine, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.engine != engine || engine.CompactionSeq() != seq {
		return
	}
	s.stopTimerLocked()
	if !engine.HasPendingCompaction() {
		return
	}
	engine.FinalizeCompaction()
	s.broadcastGameLocked()
}

// logEvent runs inside engine commands, with the session lock held.
func (s *Session) logEvent(ev rules.Event) {
	if s.logger == nil {
		return
	}
	s.logger.Debug("match event",
		zap.String("type", string(ev.Type)),
		zap.String("player", ev.PlayerID),
		zap.String("message", ev.Message),
	)
}

// recordGameOver hands the outcome to the result hook. It runs with the
// session lock held.
func (s *Session) recordGameOver(ev rules.Event) {
	result := repository.MatchResult{
		SessionCode: s.code,
		WinnerID:    ev.PlayerID,
		FinishedAt:  ev.Timestamp,
	}
	for _, p := range s.engine.Snapshot().Players {
		result.Players = append(result.Players, p.Name)
		if p.ID == ev.PlayerID {
			result.WinnerName = p.Name
		}
	}
	s.onGameOver(result)
}
