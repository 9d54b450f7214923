package report

import (
	"strings"
	"testing"
)

func TestDumpRowsFullRow(t *testing.T) {
	buf := []byte("0123456789abcdef")
	rows := DumpRows(buf)

	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	want := "0000: 30 31 32 33 34 35 36 37 38 39 61 62 63 64 65 66 |0123456789abcdef|"
	if rows[0] != want {
		t.Errorf("row = %q, want %q", rows[0], want)
	}
}

func TestDumpRowsPartialRowPadding(t *testing.T) {
	rows := DumpRows([]byte{0x00, 0xff, 0x41})

	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	want := "0000: 00 ff 41                                        |..A|"
	if rows[0] != want {
		t.Errorf("row = %q, want %q", rows[0], want)
	}
}

func TestDumpRowsOffsets(t *testing.T) {
	buf := make([]byte, 40)
	rows := DumpRows(buf)

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	for i, prefix := range []string{"0000:", "0010:", "0020:"} {
		if !strings.HasPrefix(rows[i], prefix) {
			t.Errorf("row %d = %q, want prefix %q", i, rows[i], prefix)
		}
	}
}

func TestDumpRowsNonPrintable(t *testing.T) {
	rows := DumpRows([]byte{0x1f, 0x20, 0x7e, 0x7f})

	if !strings.HasSuffix(rows[0], "|. ~.|") {
		t.Errorf("row = %q, want ASCII gutter %q", rows[0], "|. ~.|")
	}
}

func TestDumpRowsEmpty(t *testing.T) {
	if rows := DumpRows(nil); len(rows) != 0 {
		t.Errorf("got %d rows for empty buffer, want 0", len(rows))
	}
}

func TestDiffRowsIdentical(t *testing.T) {
	buf := []byte("identical contents here")
	rows, n := DiffRows(buf, buf)

	if n != 0 {
		t.Errorf("mismatches = %d, want 0", n)
	}
	for _, row := range rows {
		if strings.HasPrefix(row, "Expected:") {
			t.Errorf("unexpected expected-row marker in %q", row)
		}
	}
	if len(rows) != len(DumpRows(buf)) {
		t.Errorf("got %d rows, want %d", len(rows), len(DumpRows(buf)))
	}
}

func TestDiffRowsCountsMismatches(t *testing.T) {
	want := make([]byte, 20)
	got := make([]byte, 20)
	copy(got, want)
	got[3] ^= 0x01
	got[17] ^= 0x80

	rows, n := DiffRows(got, want)
	if n != 2 {
		t.Errorf("mismatches = %d, want 2", n)
	}

	// both 16-byte rows contain a mismatch, so each is followed by an
	// Expected: marker and the corresponding want row
	markers := 0
	for _, row := range rows {
		if row == "Expected:" {
			markers++
		}
	}
	if markers != 2 {
		t.Errorf("got %d Expected: markers, want 2", markers)
	}
	if len(rows) != 6 {
		t.Errorf("got %d rows, want 6", len(rows))
	}
}

func TestDiffRowsLongerWant(t *testing.T) {
	// got is a verified prefix; want may extend past it
	want := []byte("full message payload")
	got := []byte("full mess")

	_, n := DiffRows(got, want)
	if n != 0 {
		t.Errorf("mismatches = %d, want 0 for a clean prefix", n)
	}
}
