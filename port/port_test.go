package port

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

func TestSpeedBits(t *testing.T) {
	tests := []struct {
		speed    int
		expected uint32
		wantErr  bool
	}{
		{50, unix.B50, false},
		{9600, unix.B9600, false},
		{115200, unix.B115200, false},
		{921600, unix.B921600, false},
		{4000000, unix.B4000000, false},
		{0, 0, true},
		{123456, 0, true},
		{-9600, 0, true},
	}

	for _, test := range tests {
		bits, err := speedBits(test.speed)
		if (err != nil) != test.wantErr {
			t.Errorf("speedBits(%d) error = %v, wantErr %v", test.speed, err, test.wantErr)
		}
		if err == nil && bits != test.expected {
			t.Errorf("speedBits(%d) = %#x, expected %#x", test.speed, bits, test.expected)
		}
		if err != nil && !errors.Is(err, ErrInvalidSpeed) {
			t.Errorf("speedBits(%d) error = %v, expected ErrInvalidSpeed", test.speed, err)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Mode != ModeReadWrite {
		t.Errorf("Expected Mode ModeReadWrite, got %v", config.Mode)
	}
	if config.Speed != 0 {
		t.Errorf("Expected Speed 0, got %d", config.Speed)
	}
	if !config.Raw {
		t.Error("Expected Raw true")
	}
}

func TestWithMode(t *testing.T) {
	config := DefaultConfig()

	if err := WithMode(ModeRead)(&config); err != nil {
		t.Errorf("WithMode(ModeRead) failed: %v", err)
	}
	if config.Mode != ModeRead {
		t.Errorf("Expected Mode ModeRead, got %v", config.Mode)
	}

	if err := WithMode(Mode(99))(&config); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("WithMode(99) error = %v, expected ErrInvalidConfig", err)
	}
}

func TestWithSpeed(t *testing.T) {
	config := DefaultConfig()

	if err := WithSpeed(115200)(&config); err != nil {
		t.Errorf("WithSpeed(115200) failed: %v", err)
	}
	if config.Speed != 115200 {
		t.Errorf("Expected Speed 115200, got %d", config.Speed)
	}

	// zero keeps the device speed and is always valid
	if err := WithSpeed(0)(&config); err != nil {
		t.Errorf("WithSpeed(0) failed: %v", err)
	}

	if err := WithSpeed(123456)(&config); !errors.Is(err, ErrInvalidSpeed) {
		t.Errorf("WithSpeed(123456) error = %v, expected ErrInvalidSpeed", err)
	}
}

func TestOpenNonExistentDevice(t *testing.T) {
	_, err := Open("/dev/nonexistent-device-for-test")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Open error = %v, expected ErrDeviceNotFound", err)
	}
}

func TestOpenInvalidSpeed(t *testing.T) {
	_, err := Open("/dev/null", WithSpeed(123456))
	if !errors.Is(err, ErrInvalidSpeed) {
		t.Errorf("Open error = %v, expected ErrInvalidSpeed", err)
	}
}

func TestOpenNonTTY(t *testing.T) {
	// /dev/null has no termios; the port must still open with tty
	// features disabled so FIFO loopbacks work
	p, err := Open("/dev/null")
	if err != nil {
		t.Fatalf("Open(/dev/null) failed: %v", err)
	}
	defer p.Close()

	if p.IsTTY() {
		t.Error("Expected IsTTY false for /dev/null")
	}
	if p.Path() != "/dev/null" {
		t.Errorf("Path() = %s, expected /dev/null", p.Path())
	}

	// termios-backed operations degrade to no-ops
	if err := p.FlushInput(); err != nil {
		t.Errorf("FlushInput failed: %v", err)
	}
	if err := p.FlushOutput(); err != nil {
		t.Errorf("FlushOutput failed: %v", err)
	}
	if err := p.Drain(); err != nil {
		t.Errorf("Drain failed: %v", err)
	}
	if _, err := p.GetModemSignals(); !errors.Is(err, ErrNotTTY) {
		t.Errorf("GetModemSignals error = %v, expected ErrNotTTY", err)
	}
}

func TestClosedPortOperations(t *testing.T) {
	p, err := Open("/dev/null")
	if err != nil {
		t.Fatalf("Open(/dev/null) failed: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := p.Close(); !errors.Is(err, ErrPortClosed) {
		t.Errorf("second Close error = %v, expected ErrPortClosed", err)
	}
	if _, err := p.Read(make([]byte, 1)); !errors.Is(err, ErrPortClosed) {
		t.Errorf("Read error = %v, expected ErrPortClosed", err)
	}
	if _, err := p.Write([]byte{0}); !errors.Is(err, ErrPortClosed) {
		t.Errorf("Write error = %v, expected ErrPortClosed", err)
	}
	if err := p.FlushInput(); !errors.Is(err, ErrPortClosed) {
		t.Errorf("FlushInput error = %v, expected ErrPortClosed", err)
	}
}

func TestFIFOLoopback(t *testing.T) {
	// A FIFO stands in for a looped-back serial link: the write end is
	// the transmit device and the read end is the receive device
	dir := t.TempDir()
	fifoPath := filepath.Join(dir, "loop")

	if err := unix.Mkfifo(fifoPath, 0o600); err != nil {
		t.Skipf("mkfifo not available: %v", err)
	}

	// FIFO opens block until the other end arrives, so open the read
	// side in a goroutine
	type openResult struct {
		p   *Port
		err error
	}
	rxCh := make(chan openResult, 1)
	go func() {
		p, err := Open(fifoPath, WithMode(ModeRead))
		rxCh <- openResult{p, err}
	}()

	tx, err := Open(fifoPath, WithMode(ModeWrite))
	if err != nil {
		t.Fatalf("Open write end failed: %v", err)
	}
	defer tx.Close()

	res := <-rxCh
	if res.err != nil {
		t.Fatalf("Open read end failed: %v", res.err)
	}
	rx := res.p
	defer rx.Close()

	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	n, err := tx.Write(payload)
	if err != nil || n != len(payload) {
		t.Fatalf("Write = (%d, %v), expected (%d, nil)", n, err, len(payload))
	}

	buf := make([]byte, len(payload))
	got := 0
	for got < len(buf) {
		n, err := rx.Read(buf[got:])
		if err != nil {
			t.Fatalf("Read failed after %d bytes: %v", got, err)
		}
		got += n
	}
	for i := range payload {
		if buf[i] != payload[i] {
			t.Errorf("byte %d = %#02x, expected %#02x", i, buf[i], payload[i])
		}
	}

	_ = os.Remove(fifoPath)
}
