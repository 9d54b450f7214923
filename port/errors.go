package port

import "errors"

// Predefined error types for robust error handling
var (
	ErrDeviceNotFound   = errors.New("serial device not found")
	ErrPermissionDenied = errors.New("permission denied accessing serial device")
	ErrInvalidSpeed     = errors.New("invalid serial speed")
	ErrInvalidConfig    = errors.New("invalid port configuration")
	ErrPortClosed       = errors.New("serial port is closed")
	ErrNotTTY           = errors.New("device is not a tty")

	// USB-related errors
	ErrUSBInfoNotAvailable  = errors.New("USB device information not available")
	ErrUSBResetNotAvailable = errors.New("usbreset utility not available")
)
