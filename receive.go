package fifotest

import (
	"bytes"
	"fmt"
	"io"

	"github.com/allbin/go-fifotest/internal/report"
)

// maxNoProgressReads bounds how many consecutive zero-byte, error-free
// reads the receiver tolerates before declaring the endpoint broken
const maxNoProgressReads = 100

// InputFlusher is implemented by endpoints that can discard pending
// input, such as a serial port with termios TCIFLUSH. The DrainFlush
// policy uses it to dispose of the unread message suffix.
type InputFlusher interface {
	FlushInput() error
}

// MismatchError reports a verification failure. Got holds the bytes read
// from the endpoint and Want the expected payload prefix of the same
// length.
type MismatchError struct {
	Got  []byte
	Want []byte
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v: first difference at offset %#04x",
		ErrMismatch, e.Offset())
}

func (e *MismatchError) Unwrap() error {
	return ErrMismatch
}

// Offset returns the position of the first mismatching byte
func (e *MismatchError) Offset() int {
	for i := range e.Got {
		if e.Got[i] != e.Want[i] {
			return i
		}
	}
	return -1
}

// Receiver reads a randomly chosen prefix of each round's message from
// the receive endpoint and verifies it byte-for-byte against the payload
// the transmitter is sending. The deliberately partial read exercises
// short-read handling on the endpoint.
type Receiver struct {
	r     io.Reader
	src   *Source
	stats *Stats
	log   *report.Logger
	drain DrainPolicy
}

// NewReceiver creates a receiver reading from r. The source must be the
// same stream the message generator draws from; the partial-length draw
// is the third and final draw of each round.
func NewReceiver(r io.Reader, src *Source, stats *Stats, log *report.Logger, drain DrainPolicy) *Receiver {
	return &Receiver{
		r:     r,
		src:   src,
		stats: stats,
		log:   log,
		drain: drain,
	}
}

// Run reads and verifies a random prefix of msg, then disposes of the
// unread suffix according to the drain policy. It returns the partial
// length that was verified. Unlike the transmitter's short-write policy,
// short reads are expected on a streaming transport and are simply
// retried until the prefix is complete.
func (rx *Receiver) Run(msg *Message) (int, error) {
	partial := rx.src.NextRange(1, msg.Len())
	rx.log.Debugf(report.RoleRx, "Receiving first %d bytes of message of size %d", partial, msg.Len())

	buf := make([]byte, partial)
	avail := 0
	noProgress := 0
	for avail < partial {
		n, err := rx.r.Read(buf[avail:])
		if n > 0 {
			avail += n
			rx.stats.addRxBytes(uint64(n))
			noProgress = 0
		}
		if err != nil && avail < partial {
			return partial, fmt.Errorf("receive: read error after %d of %d bytes: %w", avail, partial, err)
		}
		// a reader may legally return (0, nil); a stream of them means
		// the endpoint is broken, not slow
		if n == 0 && err == nil {
			noProgress++
			if noProgress >= maxNoProgressReads {
				return partial, fmt.Errorf("receive: %w: %d reads without data after %d of %d bytes",
					ErrNoProgress, noProgress, avail, partial)
			}
		}
	}

	if !bytes.Equal(buf, msg.Payload[:partial]) {
		return partial, &MismatchError{Got: buf, Want: msg.Payload[:partial]}
	}
	rx.log.Okf(report.RoleRx, "OK")

	if err := rx.drainSuffix(msg.Len() - partial); err != nil {
		return partial, err
	}
	return partial, nil
}

func (rx *Receiver) drainSuffix(remaining int) error {
	switch rx.drain {
	case DrainRead:
		if remaining == 0 {
			return nil
		}
		n, err := io.CopyN(io.Discard, rx.r, int64(remaining))
		if n > 0 {
			rx.stats.addDrained(uint64(n))
		}
		if err != nil {
			return fmt.Errorf("receive: drain error after %d of %d bytes: %w", n, remaining, err)
		}
		return nil
	case DrainFlush:
		if f, ok := rx.r.(InputFlusher); ok {
			if err := f.FlushInput(); err != nil {
				return fmt.Errorf("receive: flush error: %w", err)
			}
		}
		return nil
	default:
		return nil
	}
}
