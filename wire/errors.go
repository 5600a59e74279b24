package wire

import "github.com/pkg/errors"

var (
	// ErrMalformedFrame - SLIP frame with invalid escape sequence
	ErrMalformedFrame = errors.New("malformed SLIP frame")
	// ErrFrameTooLong - SLIP frame exceeding decoder limit
	ErrFrameTooLong = errors.New("SLIP frame too long")
	// ErrNotMessage - payload is not a single OSC message
	ErrNotMessage = errors.New("not an OSC message")
	// ErrUnknownCommand - OSC address not served by the device
	ErrUnknownCommand = errors.New("unknown command")
	// ErrBadArgument - command argument missing or of wrong type
	ErrBadArgument = errors.New("bad command argument")
)
