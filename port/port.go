// Package port opens and configures the serial endpoints the test
// harness drives. It covers raw-mode termios setup, baud-rate selection,
// queue flushing, and enough modem-signal introspection for a pre-run
// link sanity check. Non-tty devices such as FIFOs are supported by
// skipping termios configuration, which keeps the harness usable on
// purely software loopbacks.
package port

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Port is an open serial endpoint
type Port struct {
	mu     sync.RWMutex
	fd     int
	path   string
	config Config
	isTTY  bool
	closed bool
}

// ModemSignals represents modem control signal states
type ModemSignals struct {
	CTS bool // Clear To Send
	DSR bool // Data Set Ready
	RI  bool // Ring Indicator
	DCD bool // Data Carrier Detect
	RTS bool // Request To Send
	DTR bool // Data Terminal Ready
}

// speedBits converts an integer baud rate to the termios constant
func speedBits(speed int) (uint32, error) {
	switch speed {
	case 50:
		return unix.B50, nil
	case 75:
		return unix.B75, nil
	case 110:
		return unix.B110, nil
	case 134:
		return unix.B134, nil
	case 150:
		return unix.B150, nil
	case 200:
		return unix.B200, nil
	case 300:
		return unix.B300, nil
	case 600:
		return unix.B600, nil
	case 1200:
		return unix.B1200, nil
	case 1800:
		return unix.B1800, nil
	case 2400:
		return unix.B2400, nil
	case 4800:
		return unix.B4800, nil
	case 9600:
		return unix.B9600, nil
	case 19200:
		return unix.B19200, nil
	case 38400:
		return unix.B38400, nil
	case 57600:
		return unix.B57600, nil
	case 115200:
		return unix.B115200, nil
	case 230400:
		return unix.B230400, nil
	case 460800:
		return unix.B460800, nil
	case 500000:
		return unix.B500000, nil
	case 576000:
		return unix.B576000, nil
	case 921600:
		return unix.B921600, nil
	case 1000000:
		return unix.B1000000, nil
	case 1152000:
		return unix.B1152000, nil
	case 1500000:
		return unix.B1500000, nil
	case 2000000:
		return unix.B2000000, nil
	case 2500000:
		return unix.B2500000, nil
	case 3000000:
		return unix.B3000000, nil
	case 3500000:
		return unix.B3500000, nil
	case 4000000:
		return unix.B4000000, nil
	default:
		return 0, ErrInvalidSpeed
	}
}

// Open opens a serial endpoint with the given device path and options
func Open(device string, opts ...Option) (*Port, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}

	flags := unix.O_NOCTTY
	switch config.Mode {
	case ModeRead:
		flags |= unix.O_RDONLY
	case ModeWrite:
		flags |= unix.O_WRONLY
	default:
		flags |= unix.O_RDWR
	}

	fd, err := unix.Open(device, flags, 0)
	if err != nil {
		switch {
		case errors.Is(err, unix.ENOENT):
			return nil, fmt.Errorf("failed to open %s: %w", device, ErrDeviceNotFound)
		case errors.Is(err, unix.EACCES):
			return nil, fmt.Errorf("failed to open %s: %w", device, ErrPermissionDenied)
		default:
			return nil, fmt.Errorf("failed to open %s: %w", device, err)
		}
	}

	p := &Port{
		fd:     fd,
		path:   device,
		config: config,
		isTTY:  true,
	}

	if config.Raw {
		if err := configureRaw(fd, config); err != nil {
			if errors.Is(err, ErrNotTTY) {
				// FIFOs and plain files have no termios; skip tty setup
				p.isTTY = false
				return p, nil
			}
			unix.Close(fd)
			return nil, err
		}
	}

	return p, nil
}

// configureRaw puts the device into raw mode: no input, output, or line
// processing, 8 data bits, receiver enabled, modem status lines ignored.
// Blocking reads (VMIN=1). The baud rate is changed only when the config
// requests a speed; pending I/O is flushed afterwards so stale bytes from
// before the test cannot corrupt verification.
func configureRaw(fd int, config Config) error {
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		if errors.Is(err, unix.ENOTTY) {
			return ErrNotTTY
		}
		return fmt.Errorf("failed to get termios: %w", err)
	}

	// Preserve the current speed bits unless a speed was requested
	baud := termios.Cflag & unix.CBAUD
	if config.Speed != 0 {
		baud, err = speedBits(config.Speed)
		if err != nil {
			return err
		}
		termios.Ispeed = baud
		termios.Ospeed = baud
	}

	termios.Iflag = 0
	termios.Oflag = 0
	termios.Lflag = 0
	termios.Cflag = unix.CS8 | unix.CREAD | unix.CLOCAL | baud

	// Block until at least one byte is available
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return fmt.Errorf("failed to set termios: %w", err)
	}

	if err := unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIOFLUSH); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}

	return nil
}

// Path returns the device path the port was opened with
func (p *Port) Path() string {
	return p.path
}

// IsTTY reports whether the device supports termios configuration
func (p *Port) IsTTY() bool {
	return p.isTTY
}

// Close closes the serial endpoint
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPortClosed
	}

	err := unix.Close(p.fd)
	p.closed = true
	return err
}

// Read reads data from the endpoint. Blocks until at least one byte is
// available.
func (p *Port) Read(buf []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}

	return unix.Read(p.fd, buf)
}

// Write writes data to the endpoint
func (p *Port) Write(data []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}

	return unix.Write(p.fd, data)
}

// FlushInput discards any unread input data
func (p *Port) FlushInput() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPortClosed
	}
	if !p.isTTY {
		return nil
	}

	return unix.IoctlSetInt(p.fd, unix.TCFLSH, unix.TCIFLUSH)
}

// FlushOutput discards any unwritten output data
func (p *Port) FlushOutput() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPortClosed
	}
	if !p.isTTY {
		return nil
	}

	return unix.IoctlSetInt(p.fd, unix.TCFLSH, unix.TCOFLUSH)
}

// Drain waits until all output written to the endpoint has been
// transmitted
func (p *Port) Drain() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPortClosed
	}
	if !p.isTTY {
		return nil
	}

	return unix.IoctlSetInt(p.fd, unix.TCSBRK, 1)
}

// GetModemSignals returns the current state of all modem control signals.
// Returns ErrNotTTY for devices without modem lines.
func (p *Port) GetModemSignals() (ModemSignals, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ModemSignals{}, ErrPortClosed
	}
	if !p.isTTY {
		return ModemSignals{}, ErrNotTTY
	}

	status, err := unix.IoctlGetInt(p.fd, unix.TIOCMGET)
	if err != nil {
		if errors.Is(err, unix.ENOTTY) {
			return ModemSignals{}, ErrNotTTY
		}
		return ModemSignals{}, err
	}

	return ModemSignals{
		CTS: status&unix.TIOCM_CTS != 0,
		DSR: status&unix.TIOCM_DSR != 0,
		RI:  status&unix.TIOCM_RI != 0,
		DCD: status&unix.TIOCM_CAR != 0,
		RTS: status&unix.TIOCM_RTS != 0,
		DTR: status&unix.TIOCM_DTR != 0,
	}, nil
}
