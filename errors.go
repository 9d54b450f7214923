package fifotest

import "errors"

// Predefined error types for robust error handling
var (
	ErrInvalidConfig = errors.New("invalid harness configuration")
	ErrShortWrite    = errors.New("short write on transmit endpoint")
	ErrMismatch      = errors.New("received data does not match transmitted data")
	ErrNoProgress    = errors.New("receive endpoint returns no data")
)
