package styles

import (
	"github.com/allbin/go-fifotest/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Header styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Background(colors.Surface0).
			Padding(0, 1)

	// Round result styles
	RoundOKStyle = lipgloss.NewStyle().
			Foreground(colors.Green)

	RoundFailStyle = lipgloss.NewStyle().
			Foreground(colors.Red).
			Bold(true)

	// Status bar styles
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(colors.Text).
			Background(colors.Surface0)

	StatusSectionStyle = lipgloss.NewStyle().
				Foreground(colors.Subtext0).
				Padding(0, 1)

	StatusCounterStyle = lipgloss.NewStyle().
				Foreground(colors.Peach).
				Bold(true).
				Padding(0, 1)

	// Table styles
	TableBaseStyle = lipgloss.NewStyle().
			BorderForeground(colors.Surface1)

	// Content area styles
	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colors.Surface1)
)
