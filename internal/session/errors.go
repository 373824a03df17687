package session

import "errors"

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionFull      = errors.New("session is full")
	ErrEmptyName        = errors.New("name must not be empty")
	ErrNotHost          = errors.New("only the host can start the match")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrAlreadyStarted   = errors.New("match already started")
	ErrNotStarted       = errors.New("match has not started")
	ErrNotMember        = errors.New("player is not in this session")
	ErrInvalidPlayer    = errors.New("player id must not be empty")
	ErrDuplicatePlayer  = errors.New("player already in this session")
)
