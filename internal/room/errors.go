package room

import "errors"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrNotInRoom     = errors.New("not in a room")
	ErrAlreadySeated = errors.New("already seated in a room")
	ErrNoRoomIDs     = errors.New("no room ids available")
	ErrInvalidConfig = errors.New("invalid room config")
)
