package fifotest

import "time"

const (
	// DefaultMaxMessageLength is the default upper bound for generated
	// message lengths.
	DefaultMaxMessageLength = 1024

	// MessageLengthLimit is the hard ceiling on message length. Larger
	// maximums are rejected by WithMaxMessageLength.
	MessageLengthLimit = 4096

	// DefaultSeed seeds the random source when no seed is configured.
	// Seed zero selects a non-reproducible, time-derived seed instead.
	DefaultSeed = 42

	// DefaultStartupDelay is the pause between starting the receiver and
	// starting the transmitter. The delay gives the receiver time to begin
	// listening before the first byte is written; it is a heuristic, not a
	// readiness guarantee.
	DefaultStartupDelay = 100 * time.Millisecond
)

// DrainPolicy controls what happens to the unverified message suffix that
// the transmitter sends but the receiver never reads.
type DrainPolicy int

const (
	// DrainRead reads and discards the suffix from the receive endpoint
	// after a successful verify. Safe for any endpoint and the default.
	DrainRead DrainPolicy = iota

	// DrainFlush discards pending input via the endpoint's FlushInput
	// method when the endpoint implements InputFlusher, and is a no-op
	// otherwise.
	DrainFlush

	// DrainNone leaves the suffix in the transport. Only safe when the
	// endpoints are reopened or flushed externally between rounds.
	DrainNone
)

func (p DrainPolicy) String() string {
	switch p {
	case DrainRead:
		return "read"
	case DrainFlush:
		return "flush"
	case DrainNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseDrainPolicy converts a policy name ("read", "flush", "none") to a
// DrainPolicy value
func ParseDrainPolicy(s string) (DrainPolicy, error) {
	switch s {
	case "read":
		return DrainRead, nil
	case "flush":
		return DrainFlush, nil
	case "none":
		return DrainNone, nil
	default:
		return 0, ErrInvalidConfig
	}
}

// Config holds the configuration for a test run
type Config struct {
	Seed             int64 // 0 selects a time-derived seed
	MaxMessageLength int
	FixedLength      int // 0 means variable length in [1, MaxMessageLength]
	MessageCount     uint64
	StartupDelay     time.Duration
	Drain            DrainPolicy
	Verbose          bool
}

// Option is a functional option for configuring a test run
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		Seed:             DefaultSeed,
		MaxMessageLength: DefaultMaxMessageLength,
		FixedLength:      0,
		MessageCount:     0, // unbounded
		StartupDelay:     DefaultStartupDelay,
		Drain:            DrainRead,
		Verbose:          false,
	}
}

// WithSeed sets the random source seed. Zero selects a non-reproducible
// time-derived seed; any other value makes the run reproducible.
func WithSeed(seed int64) Option {
	return func(c *Config) error {
		c.Seed = seed
		return nil
	}
}

// WithMaxMessageLength sets the maximum generated message length
func WithMaxMessageLength(n int) Option {
	return func(c *Config) error {
		if n < 1 || n > MessageLengthLimit {
			return ErrInvalidConfig
		}
		c.MaxMessageLength = n
		return nil
	}
}

// WithFixedLength makes every message exactly n bytes long instead of a
// random length in [1, MaxMessageLength]
func WithFixedLength(n int) Option {
	return func(c *Config) error {
		if n < 1 || n > MessageLengthLimit {
			return ErrInvalidConfig
		}
		c.FixedLength = n
		return nil
	}
}

// WithMessageCount sets the number of rounds to run (0 = unbounded)
func WithMessageCount(n uint64) Option {
	return func(c *Config) error {
		c.MessageCount = n
		return nil
	}
}

// WithStartupDelay sets the pause between starting the receiver and
// starting the transmitter
func WithStartupDelay(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return ErrInvalidConfig
		}
		c.StartupDelay = d
		return nil
	}
}

// WithDrainPolicy sets the policy for the unread message suffix
func WithDrainPolicy(p DrainPolicy) Option {
	return func(c *Config) error {
		switch p {
		case DrainRead, DrainFlush, DrainNone:
			c.Drain = p
			return nil
		default:
			return ErrInvalidConfig
		}
	}
}

// WithVerbose enables per-round debug logging and message dumps
func WithVerbose(verbose bool) Option {
	return func(c *Config) error {
		c.Verbose = verbose
		return nil
	}
}
