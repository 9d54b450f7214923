// Package fifotest implements a correctness test harness for a
// full-duplex serial link. It drives a transmit device and a receive
// device, typically the two ends of a loopback or null-modem cable, and
// verifies that bytes written on one side arrive unmodified on the other.
//
// Each round generates a pseudo-random message, transmits it in full, and
// reads back only a randomly chosen prefix, verifying it byte-for-byte.
// The deliberately partial read exercises short-read handling; the first
// mismatch or transport fault ends the run.
//
// # Basic Usage
//
// Open the two ends of the link and run a bounded test:
//
//	tx, err := port.Open("/dev/ttyUSB0", port.WithMode(port.ModeWrite))
//	rx, err := port.Open("/dev/ttyUSB1", port.WithMode(port.ModeRead))
//
//	log := report.New(os.Stdout, os.Stderr, false)
//	runner, err := fifotest.NewRunner(tx, rx, log,
//	    fifotest.WithSeed(42),
//	    fifotest.WithMaxMessageLength(1024),
//	    fifotest.WithMessageCount(100),
//	)
//	if err := runner.Run(ctx); err != nil {
//	    // mismatch or transport fault; print runner.Stats() and exit
//	}
//
// # Reproducibility
//
// All randomness comes from a single seeded Source. Per round the draws
// happen in a fixed order: message length, payload bytes, then the
// receiver's partial length. Any non-zero seed reproduces the exact same
// message and prefix sequence across runs; seed zero picks a time-derived
// seed for non-reproducible soak testing.
//
// # Error Handling
//
// A short write, any read or write error, and any verification mismatch
// are fatal by design: the tool's value is in stopping at the first sign
// of incorrect behavior. Mismatches are reported as *MismatchError, which
// carries the received and expected prefixes for diff rendering:
//
//	var me *fifotest.MismatchError
//	if errors.As(err, &me) {
//	    // render a highlighted hex diff of me.Got vs me.Want
//	}
//
// # Unread Suffix
//
// The receiver verifies only a prefix; the rest of the message still
// arrives at the receive endpoint. The DrainPolicy config decides what
// happens to it between rounds: read and discard it (default), flush the
// endpoint's input queue, or leave it in place.
package fifotest
