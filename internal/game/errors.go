package game

import "errors"

var (
	ErrPlayerCount      = errors.New("invalid number of players")
	ErrInvalidSeed      = errors.New("invalid player seed")
	ErrNotYourTurn      = errors.New("it is not your turn")
	ErrGameOver         = errors.New("the match is over")
	ErrInvalidAction    = errors.New("unknown action")
	ErrActionNotArmed   = errors.New("action is not selected")
	ErrIllegalTarget    = errors.New("card cannot be targeted")
	ErrShiftBlocked     = errors.New("cannot shift while an action is selected or the board is compacting")
	ErrInvalidAxis      = errors.New("axis must be row or col")
	ErrShiftIndex       = errors.New("shift index out of range")
	ErrInvalidDirection = errors.New("direction must be 1 or -1")
)
