// Package tui implements the live monitor view for a running FIFO test:
// a rolling table of rounds with a status bar of cumulative counters.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/allbin/go-fifotest"
	"github.com/allbin/go-fifotest/internal/tui/keys"
	"github.com/allbin/go-fifotest/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
)

// maxTableRows bounds how many recent rounds are kept in the table
const maxTableRows = 512

const (
	columnRound   = "round"
	columnLength  = "length"
	columnPartial = "partial"
	columnResult  = "result"
)

// RoundMsg delivers one completed round from the runner goroutine
type RoundMsg fifotest.RoundResult

// DoneMsg tells the view the runner has finished; the command layer
// reports the final result after the TUI exits
type DoneMsg struct{}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the bubbletea model for the monitor command
type Model struct {
	txPath string
	rxPath string
	seed   int64
	stats  *fifotest.Stats
	cancel context.CancelFunc

	table table.Model
	rows  []table.Row
	keys  keys.MonitorKeys
	help  help.Model

	width  int
	height int
	done   bool
}

// NewModel creates a monitor model. cancel stops the runner when the user
// quits; stats is read live (the counters are atomic).
func NewModel(txPath, rxPath string, seed int64, stats *fifotest.Stats, cancel context.CancelFunc) Model {
	columns := []table.Column{
		table.NewColumn(columnRound, "Round", 8),
		table.NewColumn(columnLength, "Length", 8),
		table.NewColumn(columnPartial, "Partial", 8),
		table.NewColumn(columnResult, "Result", 40),
	}

	t := table.New(columns).
		WithBaseStyle(styles.TableBaseStyle).
		WithPageSize(16)

	return Model{
		txPath: txPath,
		rxPath: rxPath,
		seed:   seed,
		stats:  stats,
		cancel: cancel,
		table:  t,
		keys:   keys.NewMonitorKeys(),
		help:   help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if m.done {
			return m, nil
		}
		return m, tickCmd()

	case RoundMsg:
		result := styles.RoundOKStyle.Render("OK")
		if msg.Err != nil {
			result = styles.RoundFailStyle.Render(msg.Err.Error())
		}
		row := table.NewRow(table.RowData{
			columnRound:   fmt.Sprintf("%d", msg.Round),
			columnLength:  fmt.Sprintf("%d", msg.Length),
			columnPartial: fmt.Sprintf("%d", msg.Partial),
			columnResult:  result,
		})
		m.rows = append(m.rows, row)
		if len(m.rows) > maxTableRows {
			m.rows = m.rows[len(m.rows)-maxTableRows:]
		}
		m.table = m.table.WithRows(m.rows)

	case DoneMsg:
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	title := styles.TitleStyle.Render(
		fmt.Sprintf("fifotest %s → %s", m.txPath, m.rxPath))

	statusBar := m.statusBar()
	helpView := m.help.View(m.keys)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.table.View(),
		statusBar,
		helpView,
	)
}

func (m Model) statusBar() string {
	left := styles.StatusSectionStyle.Render(
		fmt.Sprintf("seed %d", m.seed))

	counters := styles.StatusCounterStyle.Render(m.stats.String())

	width := m.width
	if width <= 0 {
		width = 80
	}
	spacerWidth := width - lipgloss.Width(left) - lipgloss.Width(counters)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return styles.StatusBarStyle.Width(width).Render(
		lipgloss.JoinHorizontal(lipgloss.Left, left, spacer, counters))
}
