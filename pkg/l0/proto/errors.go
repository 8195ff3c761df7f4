package proto

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMotor indicates a motor id outside 0..3.
	ErrInvalidMotor = errors.New("invalid motor id")
)

// ErrUnknownID indicates a payload with an unrecognized command id.
type ErrUnknownID struct {
	ID byte
}

// Error implements error.
func (e *ErrUnknownID) Error() string {
	return fmt.Sprintf("unknown command id 0x%02x", e.ID)
}

// ErrShortPayload indicates a payload too short for its command id.
type ErrShortPayload struct {
	ID   byte
	Len  int
	Want int
}

// Error implements error.
func (e *ErrShortPayload) Error() string {
	return fmt.Sprintf("short payload for command 0x%02x: %d bytes, want at least %d", e.ID, e.Len, e.Want)
}
