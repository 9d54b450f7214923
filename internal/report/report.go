// Package report provides the actor-tagged logging and hex-dump
// diagnostics for the FIFO test harness. Each log line carries an
// explicit actor role so transmitter and receiver output stays
// distinguishable when both run concurrently.
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Role identifies which actor a log line originates from
type Role int

const (
	RoleMain Role = iota
	RoleTx
	RoleRx
)

var (
	txTagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))  // blue
	rxTagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("135")) // purple
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
)

// Logger writes role-tagged log lines. Lines are serialized behind a
// mutex because the two actors log concurrently.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	verbose bool
}

// New creates a logger writing normal output to out and errors to errOut
func New(out, errOut io.Writer, verbose bool) *Logger {
	return &Logger{
		out:     out,
		errOut:  errOut,
		verbose: verbose,
	}
}

// Verbose reports whether debug output is enabled
func (l *Logger) Verbose() bool {
	return l.verbose
}

func roleTag(role Role) string {
	switch role {
	case RoleTx:
		return txTagStyle.Render("[tx]") + " "
	case RoleRx:
		return rxTagStyle.Render("[rx]") + " "
	default:
		return ""
	}
}

func (l *Logger) printf(w io.Writer, role Role, style *lipgloss.Style, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if style != nil {
		line = style.Render(line)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(w, "%s%s\n", roleTag(role), line)
}

// Debugf logs a line only when verbose mode is enabled
func (l *Logger) Debugf(role Role, format string, args ...any) {
	if !l.verbose {
		return
	}
	l.printf(l.out, role, nil, format, args...)
}

// Infof logs an unconditional line
func (l *Logger) Infof(role Role, format string, args ...any) {
	l.printf(l.out, role, nil, format, args...)
}

// Okf logs a success line in green, only when verbose mode is enabled
func (l *Logger) Okf(role Role, format string, args ...any) {
	if !l.verbose {
		return
	}
	l.printf(l.out, role, &okStyle, format, args...)
}

// Warnf logs a highlighted line, used for the statistics summary
func (l *Logger) Warnf(role Role, format string, args ...any) {
	l.printf(l.out, role, &warnStyle, format, args...)
}

// Errorf logs an error line to the error writer
func (l *Logger) Errorf(role Role, format string, args ...any) {
	l.printf(l.errOut, role, &errorStyle, format, args...)
}

// Dump writes a hex dump of buf, one tagged line per 16-byte row
func (l *Logger) Dump(role Role, buf []byte) {
	for _, row := range DumpRows(buf) {
		l.Infof(role, "%s", row)
	}
}

// DumpMessage writes a length header followed by a hex dump
func (l *Logger) DumpMessage(role Role, buf []byte) {
	l.Infof(role, "Message with %d bytes of data", len(buf))
	l.Dump(role, buf)
}

// Diff writes a byte-by-byte comparison of got against want and returns
// the number of mismatching bytes
func (l *Logger) Diff(role Role, got, want []byte) int {
	rows, n := DiffRows(got, want)
	for _, row := range rows {
		l.Infof(role, "%s", row)
	}
	return n
}
