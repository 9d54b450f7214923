/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	fifotest "github.com/allbin/go-fifotest"
	"github.com/allbin/go-fifotest/internal/report"
	"github.com/allbin/go-fifotest/port"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <txdev> <rxdev>",
	Short: "Run the serial link correctness test",
	Long: `Run the correctness test between a transmit device and a receive device.

Each round generates a pseudo-random message, writes it in full to the
transmit device, reads back a randomly chosen prefix from the receive
device, and verifies it byte-for-byte. Rounds repeat until the configured
message count is reached (zero runs until interrupted).

With a fixed non-zero seed every run produces the same message and prefix
sequence, so a failure can be reproduced exactly. Use --seed 0 for
non-reproducible soak testing.

Example usage:
  fifotest run /dev/ttyUSB0 /dev/ttyUSB1
  fifotest run /dev/ttyUSB0 /dev/ttyUSB1 --speed 115200 -n 1000
  fifotest run /dev/ttyS0 /dev/ttyS1 --seed 7 --len 256 --verbose
  fifotest run /dev/ttyUSB0 /dev/ttyUSB0 --drain flush  # hardware loopback plug`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := collectTestOptions(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(runTest(args[0], args[1], opts))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int64P("seed", "i", fifotest.DefaultSeed, "random seed (0 = non-reproducible)")
	runCmd.Flags().IntP("len", "l", fifotest.DefaultMaxMessageLength,
		fmt.Sprintf("maximum message length (must be <= %d)", fifotest.MessageLengthLimit))
	runCmd.Flags().Int("fixed-len", 0, "use a fixed message length instead of random lengths")
	runCmd.Flags().Uint64P("count", "n", 0, "number of messages to send (0 = unlimited)")
	runCmd.Flags().IntP("speed", "s", 0, "serial speed in baud (0 = keep device speed)")
	runCmd.Flags().Duration("delay", fifotest.DefaultStartupDelay, "delay between starting receiver and transmitter")
	runCmd.Flags().String("drain", "read", "unread suffix policy: read, flush, none")
	runCmd.Flags().BoolP("verbose", "v", false, "enable verbose mode")

	viper.BindPFlag("seed", runCmd.Flags().Lookup("seed"))
	viper.BindPFlag("len", runCmd.Flags().Lookup("len"))
	viper.BindPFlag("speed", runCmd.Flags().Lookup("speed"))
}

// testOptions collects the harness settings shared by run and monitor
type testOptions struct {
	seed     int64
	maxLen   int
	fixedLen int
	count    uint64
	speed    int
	delay    time.Duration
	drain    fifotest.DrainPolicy
	verbose  bool
}

func collectTestOptions(cmd *cobra.Command) (testOptions, error) {
	fixedLen, _ := cmd.Flags().GetInt("fixed-len")
	count, _ := cmd.Flags().GetUint64("count")
	delay, _ := cmd.Flags().GetDuration("delay")
	drainName, _ := cmd.Flags().GetString("drain")
	verbose, _ := cmd.Flags().GetBool("verbose")

	drain, err := fifotest.ParseDrainPolicy(drainName)
	if err != nil {
		return testOptions{}, fmt.Errorf("unknown drain policy %q", drainName)
	}

	// seed, len and speed also honor the config file and environment; a
	// flag given on the command line wins
	seed := viper.GetInt64("seed")
	if cmd.Flags().Changed("seed") {
		seed, _ = cmd.Flags().GetInt64("seed")
	}
	maxLen := viper.GetInt("len")
	if cmd.Flags().Changed("len") {
		maxLen, _ = cmd.Flags().GetInt("len")
	}
	speed := viper.GetInt("speed")
	if cmd.Flags().Changed("speed") {
		speed, _ = cmd.Flags().GetInt("speed")
	}

	return testOptions{
		seed:     seed,
		maxLen:   maxLen,
		fixedLen: fixedLen,
		count:    count,
		speed:    speed,
		delay:    delay,
		drain:    drain,
		verbose:  verbose,
	}, nil
}

// openEndpoints opens the receive device first so it is configured and
// listening before the transmit device can emit anything
func openEndpoints(txPath, rxPath string, speed int) (tx, rx *port.Port, err error) {
	rx, err = port.Open(rxPath, port.WithMode(port.ModeRead), port.WithSpeed(speed))
	if err != nil {
		return nil, nil, err
	}

	tx, err = port.Open(txPath, port.WithMode(port.ModeWrite), port.WithSpeed(speed))
	if err != nil {
		rx.Close()
		return nil, nil, err
	}

	return tx, rx, nil
}

func buildRunner(w io.Writer, r io.Reader, log *report.Logger, o testOptions) (*fifotest.Runner, error) {
	opts := []fifotest.Option{
		fifotest.WithSeed(o.seed),
		fifotest.WithMaxMessageLength(o.maxLen),
		fifotest.WithMessageCount(o.count),
		fifotest.WithStartupDelay(o.delay),
		fifotest.WithDrainPolicy(o.drain),
		fifotest.WithVerbose(o.verbose),
	}
	if o.fixedLen > 0 {
		opts = append(opts, fifotest.WithFixedLength(o.fixedLen))
	}
	return fifotest.NewRunner(w, r, log, opts...)
}

// reportResult renders the error (with a hex diff for mismatches), prints
// the final statistics, and returns the process exit code
func reportResult(log *report.Logger, runner *fifotest.Runner, err error) int {
	if err != nil {
		var me *fifotest.MismatchError
		switch {
		case errors.As(err, &me):
			log.Errorf(report.RoleRx, "Data mismatch")
			log.Diff(report.RoleRx, me.Got, me.Want)
		case errors.Is(err, context.Canceled):
			// interrupted; statistics below are the whole story
		default:
			log.Errorf(report.RoleMain, "%v", err)
		}
	}

	log.Warnf(report.RoleMain, "%s", runner.Stats())

	if err != nil {
		return 1
	}
	return 0
}

func logSignals(log *report.Logger, role report.Role, p *port.Port) {
	signals, err := p.GetModemSignals()
	if err != nil {
		log.Debugf(role, "%s: no modem signals (%v)", p.Path(), err)
		return
	}
	log.Debugf(role, "%s: CTS=%v DSR=%v DCD=%v RI=%v", p.Path(),
		signals.CTS, signals.DSR, signals.DCD, signals.RI)
}

func runTest(txPath, rxPath string, o testOptions) int {
	log := report.New(os.Stdout, os.Stderr, o.verbose)

	tx, rx, err := openEndpoints(txPath, rxPath, o.speed)
	if err != nil {
		log.Errorf(report.RoleMain, "%v", err)
		return 1
	}
	defer tx.Close()
	defer rx.Close()

	if o.verbose {
		logSignals(log, report.RoleTx, tx)
		logSignals(log, report.RoleRx, rx)
	}

	runner, err := buildRunner(tx, rx, log, o)
	if err != nil {
		log.Errorf(report.RoleMain, "%v", err)
		return 1
	}
	log.Debugf(report.RoleMain, "Seed %d, max message length %d", runner.Seed(), o.maxLen)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	return reportResult(log, runner, runner.Run(ctx))
}
