/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	fifotest "github.com/allbin/go-fifotest"
	"github.com/allbin/go-fifotest/internal/report"
	"github.com/allbin/go-fifotest/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor <txdev> <rxdev>",
	Short: "Run the correctness test with a live TUI",
	Long: `Run the same correctness test as 'run', but display progress in a live
terminal UI instead of line-oriented log output: a rolling table of
rounds and a status bar with the cumulative message and byte counters.

Press q or Ctrl+C to stop the test. The final statistics (and the hex
diff, on a mismatch) are printed after the UI exits.

Example usage:
  fifotest monitor /dev/ttyUSB0 /dev/ttyUSB1
  fifotest monitor /dev/ttyUSB0 /dev/ttyUSB1 --speed 115200 -n 1000`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := collectTestOptions(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(runMonitor(args[0], args[1], opts))
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().Int64P("seed", "i", fifotest.DefaultSeed, "random seed (0 = non-reproducible)")
	monitorCmd.Flags().IntP("len", "l", fifotest.DefaultMaxMessageLength,
		fmt.Sprintf("maximum message length (must be <= %d)", fifotest.MessageLengthLimit))
	monitorCmd.Flags().Int("fixed-len", 0, "use a fixed message length instead of random lengths")
	monitorCmd.Flags().Uint64P("count", "n", 0, "number of messages to send (0 = unlimited)")
	monitorCmd.Flags().IntP("speed", "s", 0, "serial speed in baud (0 = keep device speed)")
	monitorCmd.Flags().Duration("delay", fifotest.DefaultStartupDelay, "delay between starting receiver and transmitter")
	monitorCmd.Flags().String("drain", "read", "unread suffix policy: read, flush, none")
	monitorCmd.Flags().BoolP("verbose", "v", false, "enable verbose mode")
}

func runMonitor(txPath, rxPath string, o testOptions) int {
	// the TUI owns the terminal while the test runs; round-level log
	// output is suppressed and rendered as table rows instead
	quietLog := report.New(io.Discard, io.Discard, false)

	tx, rx, err := openEndpoints(txPath, rxPath, o.speed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer tx.Close()
	defer rx.Close()

	runner, err := buildRunner(tx, rx, quietLog, o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := tui.NewModel(txPath, rxPath, runner.Seed(), runner.Stats(), cancel)
	p := tea.NewProgram(model, tea.WithAltScreen())

	runner.SetObserver(func(res fifotest.RoundResult) {
		p.Send(tui.RoundMsg(res))
	})

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- runner.Run(ctx)
		p.Send(tui.DoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-runErrCh
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// quitting the TUI cancels the runner; wait for it to wind down
	cancel()
	runErr := <-runErrCh

	log := report.New(os.Stdout, os.Stderr, o.verbose)
	return reportResult(log, runner, runErr)
}
