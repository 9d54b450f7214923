package fifotest

import (
	"fmt"
	"sync/atomic"
)

// Stats holds the process-wide run counters. The transmitter and receiver
// update their byte counters concurrently, so all fields are atomics.
type Stats struct {
	messages atomic.Uint64
	txBytes  atomic.Uint64
	rxBytes  atomic.Uint64
	drained  atomic.Uint64
}

// Messages returns the number of completed rounds
func (s *Stats) Messages() uint64 {
	return s.messages.Load()
}

// TxBytes returns the cumulative number of bytes transmitted
func (s *Stats) TxBytes() uint64 {
	return s.txBytes.Load()
}

// RxBytes returns the cumulative number of bytes received and verified.
// Drained suffix bytes are counted separately.
func (s *Stats) RxBytes() uint64 {
	return s.rxBytes.Load()
}

// Drained returns the cumulative number of suffix bytes discarded by the
// DrainRead policy
func (s *Stats) Drained() uint64 {
	return s.drained.Load()
}

func (s *Stats) addMessage() {
	s.messages.Add(1)
}

func (s *Stats) addTxBytes(n uint64) {
	s.txBytes.Add(n)
}

func (s *Stats) addRxBytes(n uint64) {
	s.rxBytes.Add(n)
}

func (s *Stats) addDrained(n uint64) {
	s.drained.Add(n)
}

// String renders the summary line printed on every termination path
func (s *Stats) String() string {
	return fmt.Sprintf("MSG: %d, TX: %d bytes, RX: %d bytes",
		s.Messages(), s.TxBytes(), s.RxBytes())
}
