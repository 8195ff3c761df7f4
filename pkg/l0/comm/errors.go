package comm

import (
	"errors"
)

var (
	// ErrEmptyPayload indicates Send was called with no payload bytes.
	ErrEmptyPayload = errors.New("empty payload")
	// ErrPayloadTooLarge indicates the framed payload would not fit the
	// 1-byte length field.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrNotRunning indicates the transport is not started.
	ErrNotRunning = errors.New("not running")
)
