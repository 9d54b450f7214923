package fifotest

import (
	"fmt"
	"io"

	"github.com/allbin/go-fifotest/internal/report"
)

// Transmitter writes each round's message to the transmit endpoint. A
// short write is fatal: during a correctness test it signals a transport
// fault, so it is reported instead of retried.
type Transmitter struct {
	w     io.Writer
	stats *Stats
	log   *report.Logger
}

// NewTransmitter creates a transmitter writing to w
func NewTransmitter(w io.Writer, stats *Stats, log *report.Logger) *Transmitter {
	return &Transmitter{
		w:     w,
		stats: stats,
		log:   log,
	}
}

// Run writes the full message payload to the endpoint and records the
// transmitted bytes
func (t *Transmitter) Run(msg *Message) error {
	if t.log.Verbose() {
		t.log.DumpMessage(report.RoleTx, msg.Payload)
	}

	n, err := t.w.Write(msg.Payload)
	if n > 0 {
		t.stats.addTxBytes(uint64(n))
	}
	if err != nil {
		return fmt.Errorf("transmit: write error: %w", err)
	}
	if n < msg.Len() {
		return fmt.Errorf("transmit: %w: %d < %d", ErrShortWrite, n, msg.Len())
	}

	return nil
}
