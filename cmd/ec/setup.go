package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"ec/internal/config"
	"ec/internal/prof"
)

// prepareCommand runs before every command: it applies --color and starts
// tracing.
func prepareCommand(cmd *cobra.Command, args []string) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	enabled, err := readColorMode(mode, os.Stdout)
	if err != nil {
		return err
	}
	applyColor(enabled)
	if err := setupProfiling(cmd); err != nil {
		return err
	}
	return setupTracing(cmd)
}

var profiling *prof.Session

// setupProfiling starts the profilers named by --cpu-profile, --mem-profile
// and --runtime-trace.
func setupProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil
	}
	profiling, err = prof.Start(opts)
	return err
}

func stopProfiling() {
	if err := profiling.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "profile: %v\n", err)
	}
}

// readColorMode resolves auto|on|off for out.
func readColorMode(value string, out *os.File) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return os.Getenv("NO_COLOR") == "" && out != nil && isTerminal(out), nil
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

var colorEnabled bool

func applyColor(enabled bool) {
	colorEnabled = enabled
	color.NoColor = !enabled
	if enabled {
		lipgloss.SetColorProfile(termenv.ANSI256)
	} else {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// verbosity mirrors -q / -v.
type verbosity int

const (
	verbosityQuiet verbosity = iota - 1
	verbosityNormal
	verbosityVerbose
)

// newLogger builds the status logger. Info lines print bare so that
// "Compiling..." reads like plain output; debug and warnings keep their
// level tag.
func newLogger(w io.Writer, v verbosity) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Level: logLevel(v)})
	styles := log.DefaultStyles()
	delete(styles.Levels, log.InfoLevel)
	logger.SetStyles(styles)
	if !colorEnabled {
		logger.SetColorProfile(termenv.Ascii)
	}
	return logger
}

func logLevel(v verbosity) log.Level {
	switch {
	case v <= verbosityQuiet:
		return log.WarnLevel
	case v >= verbosityVerbose:
		return log.DebugLevel
	default:
		return log.InfoLevel
	}
}

// loadConfig reads --config when given, otherwise searches upward from the
// working directory. The path is empty when built-in defaults are in use.
func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, "", fmt.Errorf("failed to get config flag: %w", err)
	}
	if explicit != "" {
		cfg, err := config.LoadFile(explicit)
		if err != nil {
			return config.Config{}, "", err
		}
		return cfg, explicit, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return config.Config{}, "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	cfg, path, found, err := config.Load(cwd)
	if err != nil {
		return config.Config{}, "", err
	}
	if !found {
		path = ""
	}
	return cfg, path, nil
}
