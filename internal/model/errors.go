package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound        = errors.New("room not found")
	ErrAlreadyStarted      = errors.New("game has already started")
	ErrRoomFull            = errors.New("room is full")
	ErrDuplicateName       = errors.New("name is already in use")
	ErrNotHost             = errors.New("player is not the host")
	ErrInsufficientPlayers = errors.New("insufficient players to start game")
	ErrAlreadyInRoom       = errors.New("player is already in room")
	ErrNotInRoom           = errors.New("player is not in room")
	ErrCodeSpaceExhausted  = errors.New("could not generate a unique room code")

	// Protocol errors
	ErrInvalidRequest = errors.New("invalid request")
)
