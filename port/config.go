package port

// Mode selects the direction a port is opened for. The test harness opens
// the transmit device write-only and the receive device read-only, so the
// two ends of a loopback FIFO can be held by one process.
type Mode int

const (
	ModeReadWrite Mode = iota
	ModeRead
	ModeWrite
)

// Config holds the configuration for a serial port
type Config struct {
	Mode  Mode
	Speed int  // baud rate; 0 keeps the device's current speed
	Raw   bool // raw-mode termios setup (no line discipline processing)
}

// Option is a functional option for configuring a serial port
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		Mode:  ModeReadWrite,
		Speed: 0,
		Raw:   true,
	}
}

// WithMode sets the open direction
func WithMode(mode Mode) Option {
	return func(c *Config) error {
		switch mode {
		case ModeReadWrite, ModeRead, ModeWrite:
			c.Mode = mode
			return nil
		default:
			return ErrInvalidConfig
		}
	}
}

// WithSpeed sets the baud rate. Zero keeps the device's current speed.
func WithSpeed(speed int) Option {
	return func(c *Config) error {
		if speed != 0 {
			if _, err := speedBits(speed); err != nil {
				return err
			}
		}
		c.Speed = speed
		return nil
	}
}

// WithRawMode enables or disables raw-mode termios configuration. Raw
// mode is on by default; disabling it leaves the device's line discipline
// untouched.
func WithRawMode(raw bool) Option {
	return func(c *Config) error {
		c.Raw = raw
		return nil
	}
}
