package game

import "errors"

// Validation errors. Every one of these is rejected before any state
// mutation and is reported only to the acting player.
var (
	ErrSessionStarted      = errors.New("game already started, cannot join")
	ErrSessionFull         = errors.New("session is full")
	ErrNotEnoughPlayers    = errors.New("need at least 2 players to start")
	ErrNotHost             = errors.New("only the host can start the game")
	ErrNotInLobby          = errors.New("game has already been started")
	ErrNotPlaying          = errors.New("game is not in progress")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrInvalidSelection    = errors.New("invalid card selection")
	ErrNoChallengeablePlay = errors.New("can only call liar on the last play")
	ErrNotFacingRoulette   = errors.New("you are not the one facing the revolver")
	ErrRoulettePending     = errors.New("waiting for a trigger pull")
	ErrUnknownPlayer       = errors.New("player is not in this session")
)
