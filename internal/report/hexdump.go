package report

import (
	"fmt"
	"strings"
)

const bytesPerRow = 16

func printable(c byte) byte {
	if c >= 32 && c < 127 {
		return c
	}
	return '.'
}

func dumpRow(off int, chunk []byte) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%04x:", off)
	for _, c := range chunk {
		fmt.Fprintf(&b, " %02x", c)
	}
	for i := len(chunk); i < bytesPerRow; i++ {
		b.WriteString("   ")
	}

	b.WriteString(" |")
	for _, c := range chunk {
		b.WriteByte(printable(c))
	}
	b.WriteString("|")

	return b.String()
}

// DumpRows renders buf as 16-byte rows: hex offset, hex byte values
// padded to 16 columns, and an ASCII gutter. The output depends only on
// the buffer contents.
func DumpRows(buf []byte) []string {
	rows := make([]string, 0, (len(buf)+bytesPerRow-1)/bytesPerRow)
	for off := 0; off < len(buf); off += bytesPerRow {
		end := off + bytesPerRow
		if end > len(buf) {
			end = len(buf)
		}
		rows = append(rows, dumpRow(off, buf[off:end]))
	}
	return rows
}

func diffRow(off int, got, want []byte) (string, int) {
	var b strings.Builder
	mismatches := 0

	fmt.Fprintf(&b, "%04x:", off)
	for i, c := range got {
		cell := fmt.Sprintf("%02x", c)
		if c != want[i] {
			cell = errorStyle.Render(cell)
			mismatches++
		}
		b.WriteString(" " + cell)
	}
	for i := len(got); i < bytesPerRow; i++ {
		b.WriteString("   ")
	}

	b.WriteString(" |")
	for i, c := range got {
		cell := string(printable(c))
		if c != want[i] {
			cell = errorStyle.Render(cell)
		}
		b.WriteString(cell)
	}
	b.WriteString("|")

	return b.String(), mismatches
}

// DiffRows renders got in the DumpRows layout with every byte that
// differs from want highlighted. Rows containing at least one mismatch
// are followed by an "Expected:" header and the corresponding row of
// want. Returns the rendered rows and the total number of mismatching
// bytes. want must be at least as long as got.
func DiffRows(got, want []byte) ([]string, int) {
	var rows []string
	total := 0

	for off := 0; off < len(got); off += bytesPerRow {
		end := off + bytesPerRow
		if end > len(got) {
			end = len(got)
		}
		row, n := diffRow(off, got[off:end], want[off:end])
		rows = append(rows, row)
		if n > 0 {
			rows = append(rows, "Expected:", dumpRow(off, want[off:end]))
			total += n
		}
	}

	return rows, total
}
