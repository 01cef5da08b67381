package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ec/internal/config"
	"ec/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "ec [flags] <file>",
	Short: "Compile & run a single source file C++ program",
	Long: `ec compiles a single C++ source file and runs it with stdin taken from <name>.in.

Standard library includes marked with a trailing // are kept in sync with the
symbols the file uses, and compiled binaries are cached by source digest.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: prepareCommand,
	RunE:              runMain,
}

// main registers subcommands and persistent flags, runs the root command and
// exits with the status the command decided on.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(headersCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("config", "", "path to "+config.FileName+" (default: search upward from the working directory)")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the trace ring buffer")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit a trace heartbeat at this interval (0 disables)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go execution trace to this file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	interrupted := ctx.Err() != nil
	stop()

	finishTracing(err)
	stopProfiling()
	if err != nil && !interrupted {
		reportError(err)
	}
	if interrupted && err != nil {
		os.Exit(1)
	}
	os.Exit(exitCodeFor(err))
}

// exitError carries a process exit status through cobra. It is silent: the
// message, if any, has already been printed.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

func reportError(err error) {
	var ee *exitError
	if errors.As(err, &ee) {
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
