package errors

import "errors"

var (
	ErrRoomNotFound = errors.New("room not found")

	ErrNoCandidate = errors.New("no promotable waiting entry")

	ErrUnresolvableSlot = errors.New("waiting entry slot cannot be resolved")
)
