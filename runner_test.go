package fifotest

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

func newTestRunner(t *testing.T, w io.Writer, r io.Reader, opts ...Option) *Runner {
	t.Helper()
	base := []Option{
		WithSeed(42),
		WithMaxMessageLength(64),
		WithStartupDelay(time.Millisecond),
	}
	runner, err := NewRunner(w, r, quietLogger(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	return runner
}

func TestRunnerBoundedRun(t *testing.T) {
	cr, cw := bufferedPipe(16)
	runner := newTestRunner(t, cw, cr, WithMessageCount(5))

	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	stats := runner.Stats()
	if stats.Messages() != 5 {
		t.Errorf("Messages() = %d, want 5", stats.Messages())
	}
	if stats.TxBytes() == 0 {
		t.Error("TxBytes() = 0, want > 0")
	}
	// every transmitted byte is either verified or drained
	if stats.TxBytes() != stats.RxBytes()+stats.Drained() {
		t.Errorf("TxBytes() = %d, want RxBytes()+Drained() = %d",
			stats.TxBytes(), stats.RxBytes()+stats.Drained())
	}
}

func TestRunnerDeterministicRounds(t *testing.T) {
	collect := func() []RoundResult {
		cr, cw := bufferedPipe(16)
		runner := newTestRunner(t, cw, cr, WithMessageCount(10))

		var rounds []RoundResult
		runner.SetObserver(func(res RoundResult) {
			rounds = append(rounds, res)
		})
		if err := runner.Run(context.Background()); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		return rounds
	}

	first := collect()
	second := collect()

	if len(first) != len(second) {
		t.Fatalf("round counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Length != second[i].Length || first[i].Partial != second[i].Partial {
			t.Errorf("round %d: (%d, %d) vs (%d, %d), want identical sequences",
				i+1, first[i].Length, first[i].Partial, second[i].Length, second[i].Partial)
		}
	}
}

func TestRunnerRoundNumbersIncrease(t *testing.T) {
	cr, cw := bufferedPipe(16)
	runner := newTestRunner(t, cw, cr, WithMessageCount(3))

	var rounds []uint64
	runner.SetObserver(func(res RoundResult) {
		rounds = append(rounds, res.Round)
	})
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i, round := range rounds {
		if round != uint64(i+1) {
			t.Errorf("observer call %d: Round = %d, want %d", i, round, i+1)
		}
	}
}

func TestRunnerCancelAbruptly(t *testing.T) {
	cr, cw := bufferedPipe(16)
	runner := newTestRunner(t, cw, cr) // unbounded

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner.SetObserver(func(res RoundResult) {
		if res.Round == 3 {
			cancel()
		}
	})

	err := runner.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if runner.Stats().Messages() != 3 {
		t.Errorf("Messages() = %d, want 3", runner.Stats().Messages())
	}
}

// corruptWriter flips the first byte of everything it forwards
type corruptWriter struct {
	w io.Writer
}

func (cw *corruptWriter) Write(p []byte) (int, error) {
	buf := make([]byte, len(p))
	copy(buf, p)
	buf[0] ^= 0xff
	return cw.w.Write(buf)
}

func TestRunnerStopsOnMismatch(t *testing.T) {
	cr, cw := bufferedPipe(16)
	runner := newTestRunner(t, &corruptWriter{w: cw}, cr, WithMessageCount(3))

	var rounds []RoundResult
	runner.SetObserver(func(res RoundResult) {
		rounds = append(rounds, res)
	})

	err := runner.Run(context.Background())
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("Run() error = %v, want ErrMismatch", err)
	}
	if runner.Stats().Messages() != 0 {
		t.Errorf("Messages() = %d, want 0 (the failed round must not count)", runner.Stats().Messages())
	}
	if len(rounds) != 1 {
		t.Fatalf("observer called %d times, want 1", len(rounds))
	}
	if rounds[0].Err == nil {
		t.Error("RoundResult.Err = nil, want the mismatch error")
	}
}

func TestRunnerSingleRoundAccounting(t *testing.T) {
	cr, cw := bufferedPipe(16)
	runner := newTestRunner(t, cw, cr,
		WithMaxMessageLength(16), WithMessageCount(1))

	var result RoundResult
	runner.SetObserver(func(res RoundResult) {
		result = res
	})
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	stats := runner.Stats()
	if result.Length < 1 || result.Length > 16 {
		t.Errorf("Length = %d, want within [1, 16]", result.Length)
	}
	if result.Partial < 1 || result.Partial > result.Length {
		t.Errorf("Partial = %d, want within [1, %d]", result.Partial, result.Length)
	}
	if stats.TxBytes() != uint64(result.Length) {
		t.Errorf("TxBytes() = %d, want %d", stats.TxBytes(), result.Length)
	}
	if stats.RxBytes() != uint64(result.Partial) {
		t.Errorf("RxBytes() = %d, want %d", stats.RxBytes(), result.Partial)
	}
	if stats.Drained() != uint64(result.Length-result.Partial) {
		t.Errorf("Drained() = %d, want %d", stats.Drained(), result.Length-result.Partial)
	}
}

func TestRunnerRejectsOversizedFixedLength(t *testing.T) {
	cr, cw := bufferedPipe(1)
	_, err := NewRunner(cw, cr, quietLogger(),
		WithMaxMessageLength(64), WithFixedLength(128))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("NewRunner() error = %v, want ErrInvalidConfig", err)
	}
}

func TestRunnerFixedLengthRounds(t *testing.T) {
	cr, cw := bufferedPipe(16)
	runner := newTestRunner(t, cw, cr, WithMessageCount(4), WithFixedLength(32))

	var lengths []int
	runner.SetObserver(func(res RoundResult) {
		lengths = append(lengths, res.Length)
	})
	if err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for i, length := range lengths {
		if length != 32 {
			t.Errorf("round %d: Length = %d, want 32", i+1, length)
		}
	}
	if runner.Stats().TxBytes() != 4*32 {
		t.Errorf("TxBytes() = %d, want %d", runner.Stats().TxBytes(), 4*32)
	}
}
