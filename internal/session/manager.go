package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/suspectgrid/suspect-server-go/internal/game"
	"github.com/suspectgrid/suspect-server-go/internal/repository"
)

const (
	maxCodeAttempts = 100
	recordTimeout   = 5 * time.Second
)

// Options configures sessions created by a Manager.
type Options struct {
	CodeLength      int
	MinPlayers      int
	MaxPlayers      int
	CompactionDelay time.Duration
	EngineOptions   []game.Option
}

// DefaultOptions mirrors the engine limits.
func DefaultOptions() Options {
	return Options{
		CodeLength:      5,
		MinPlayers:      game.MinPlayers,
		MaxPlayers:      game.MaxPlayers,
		CompactionDelay: 800 * time.Millisecond,
	}
}

// ResultRecorder stores finished match outcomes.
type ResultRecorder interface {
	RecordResult(ctx context.Context, result repository.MatchResult) error
}

// Manager is the registry of live sessions keyed by code.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	opts        Options
	broadcaster Broadcaster
	logger      *zap.Logger

	// recordResult runs with a session lock held while Leave takes mu
	// before session locks, so the recorder has its own mutex.
	recorderMu sync.RWMutex
	recorder   ResultRecorder

	recording sync.WaitGroup
}

// NewManager creates an empty registry.
func NewManager(opts Options, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
		logger:   logger,
	}
}

// SetBroadcaster sets where session updates are delivered. It only affects
// sessions created afterwards.
func (m *Manager) SetBroadcaster(b Broadcaster) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broadcaster = b
}

// SetRecorder enables recording of finished matches.
func (m *Manager) SetRecorder(r ResultRecorder) {
	m.recorderMu.Lock()
	defer m.recorderMu.Unlock()
	m.recorder = r
}

// Create opens a new session hosted by playerID under the given name.
func (m *Manager) Create(playerID, name string) (*Session, error) {
	host, err := newMember(playerID, name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	code, err := m.uniqueCodeLocked()
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	sess := newSession(code, host, m.opts, m.broadcaster, m.recordResult, m.logger)
	m.sessions[code] = sess
	m.mu.Unlock()

	if m.logger != nil {
		m.logger.Info("session created",
			zap.String("session", code),
			zap.String("host", host.id),
		)
	}

	sess.mu.Lock()
	sess.broadcastLobbyLocked()
	sess.mu.Unlock()
	return sess, nil
}

func (m *Manager) uniqueCodeLocked() (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := GenerateCode(m.opts.CodeLength)
		if err != nil {
			return "", err
		}
		if _, taken := m.sessions[code]; !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("no free session code after %d attempts", maxCodeAttempts)
}

// Join adds playerID under the given name to the session with code. Codes
// are matched case-insensitively.
func (m *Manager) Join(code, playerID, name string) (*Session, error) {
	joiner, err := newMember(playerID, name)
	if err != nil {
		return nil, err
	}
	sess, ok := m.Get(code)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if err := sess.join(joiner); err != nil {
		return nil, err
	}

	if m.logger != nil {
		m.logger.Info("player joined",
			zap.String("session", sess.Code()),
			zap.String("player", joiner.id),
		)
	}
	return sess, nil
}

// Leave removes a player. A running match drops them with reason. Empty
// sessions are closed and forgotten.
func (m *Manager) Leave(code, playerID, reason string) {
	sess, ok := m.Get(code)
	if !ok {
		return
	}
	if !sess.leave(playerID, reason) {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[sess.code] == sess && sess.closeIfEmpty() {
		delete(m.sessions, sess.code)
		if m.logger != nil {
			m.logger.Info("session closed", zap.String("session", sess.code))
		}
	}
}

// Get looks up a session by code.
func (m *Manager) Get(code string) (*Session, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[code]
	return sess, ok
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CloseAll closes every session, stopping pending timers.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
	if m.logger != nil {
		m.logger.Info("all sessions closed", zap.Int("count", len(sessions)))
	}
}

// Wait blocks until in-flight result recordings finish.
func (m *Manager) Wait() {
	m.recording.Wait()
}

// recordResult is called with the session lock held, so the write happens
// on its own goroutine.
func (m *Manager) recordResult(result repository.MatchResult) {
	m.recorderMu.RLock()
	recorder := m.recorder
	m.recorderMu.RUnlock()

	if m.logger != nil {
		m.logger.Info("match finished",
			zap.String("session", result.SessionCode),
			zap.String("winner", result.WinnerID),
		)
	}
	if recorder == nil {
		return
	}

	m.recording.Add(1)
	go func() {
		defer m.recording.Done()
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := recorder.RecordResult(ctx, result); err != nil && m.logger != nil {
			m.logger.Warn("failed to record match result",
				zap.String("session", result.SessionCode),
				zap.Error(err),
			)
		}
	}()
}
