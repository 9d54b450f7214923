package fifotest

import (
	"context"
	"io"
	"time"

	"github.com/allbin/go-fifotest/internal/report"
)

// RoundResult describes one completed round, delivered to the observer
// callback after both actors have finished.
type RoundResult struct {
	Round   uint64
	Length  int
	Partial int
	Err     error
}

// Observer receives per-round results, e.g. to feed a live display. It is
// called from the runner's goroutine between rounds.
type Observer func(RoundResult)

// Runner coordinates the two actors round by round: generate a message,
// start the receiver, wait the startup delay, start the transmitter, join
// both, repeat. It owns the shared run context (random source, statistics,
// logger) that the original design kept in globals.
type Runner struct {
	cfg     Config
	src     *Source
	gen     *Generator
	tx      *Transmitter
	rx      *Receiver
	stats   *Stats
	log     *report.Logger
	observe Observer
}

// NewRunner creates a runner that transmits on w and receives on r. The
// endpoints must be two ends of the same physical or virtual channel.
func NewRunner(w io.Writer, r io.Reader, log *report.Logger, opts ...Option) (*Runner, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.FixedLength > cfg.MaxMessageLength {
		return nil, ErrInvalidConfig
	}

	src := NewSource(cfg.Seed)
	stats := &Stats{}

	return &Runner{
		cfg:   cfg,
		src:   src,
		gen:   NewGenerator(src, cfg.MaxMessageLength, cfg.FixedLength),
		tx:    NewTransmitter(w, stats, log),
		rx:    NewReceiver(r, src, stats, log, cfg.Drain),
		stats: stats,
		log:   log,
	}, nil
}

// Stats returns the run counters. Safe to read concurrently with Run.
func (r *Runner) Stats() *Stats {
	return r.stats
}

// Seed returns the effective random seed of this run
func (r *Runner) Seed() int64 {
	return r.src.Seed()
}

// SetObserver installs a per-round result callback. Must be called before
// Run.
func (r *Runner) SetObserver(fn Observer) {
	r.observe = fn
}

// Run executes rounds until the configured message count is reached
// (zero means unbounded) or ctx is cancelled. The first actor error ends
// the run. Cancellation is abrupt by design: Run returns without waiting
// for in-flight actors, and the caller prints statistics and exits.
func (r *Runner) Run(ctx context.Context) error {
	for round := uint64(1); r.cfg.MessageCount == 0 || round <= r.cfg.MessageCount; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg := r.gen.Generate()

		// The receiver always starts first so it is listening before the
		// first byte is written. The fixed delay below is a heuristic
		// stand-in for a readiness rendezvous, kept from the original
		// design.
		rxDone := make(chan error, 1)
		txDone := make(chan error, 1)
		var partial int
		go func() {
			n, err := r.rx.Run(msg)
			partial = n
			rxDone <- err
		}()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.cfg.StartupDelay):
		}

		go func() {
			txDone <- r.tx.Run(msg)
		}()

		var roundErr error
		for rxDone != nil || txDone != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case err := <-rxDone:
				rxDone = nil
				if err != nil && roundErr == nil {
					roundErr = err
				}
			case err := <-txDone:
				txDone = nil
				if err != nil && roundErr == nil {
					roundErr = err
				}
			}
		}

		if roundErr == nil {
			r.stats.addMessage()
		}
		if r.observe != nil {
			r.observe(RoundResult{
				Round:   round,
				Length:  msg.Len(),
				Partial: partial,
				Err:     roundErr,
			})
		}
		if roundErr != nil {
			return roundErr
		}
	}

	return nil
}
