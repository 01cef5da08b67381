package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ec/internal/buildpipeline"
	"ec/internal/cache"
	"ec/internal/stdlib"
)

// reportPolicy decides when the program's exit code is printed.
type reportPolicy int

const (
	reportNormal reportPolicy = iota // only when non-zero
	reportAlways
	reportNever
)

func (p reportPolicy) shouldReport(code int) bool {
	switch p {
	case reportAlways:
		return true
	case reportNever:
		return false
	default:
		return code != 0
	}
}

type runOptions struct {
	working       bool
	mode          cache.Mode
	std           string
	force         bool
	noCache       bool
	noHeader      bool
	compileOnly   bool
	report        reportPolicy
	verbosity     verbosity
	stay          bool
	params        []string
	printCommands bool
	ui            uiMode
	timings       bool
}

var (
	runWorking       bool
	runRelease       bool
	runCpp03         bool
	runStd           string
	runForce         bool
	runNoCache       bool
	runNoHeader      bool
	runCompileOnly   bool
	runAlwaysReport  bool
	runNeverReport   bool
	runVerbose       bool
	runQuiet         bool
	runStay          bool
	runParams        []string
	runPrintCommands bool
	runUI            string
	runTimings       bool
)

func init() {
	f := rootCmd.Flags()
	f.BoolVarP(&runWorking, "working", "w", false, "set the working directory to the source file directory")
	f.BoolVarP(&runRelease, "release", "r", false, "compile in release mode")
	f.BoolVarP(&runCpp03, "cpp03", "3", false, "follow the C++03 language standard (default is C++11)")
	f.StringVar(&runStd, "std", "", "language standard passed as -std= (default from [compiler].std)")
	f.BoolVarP(&runForce, "force", "f", false, "recompile even if up-to-date")
	f.BoolVarP(&runNoCache, "no-cache", "C", false, "do not use caching at all")
	f.BoolVarP(&runNoHeader, "no-header", "H", false, "do not process headers")
	f.BoolVarP(&runCompileOnly, "compile-only", "c", false, "do not run the executable")
	f.BoolVarP(&runAlwaysReport, "always-report", "a", false, "always print exit code, even if it is zero")
	f.BoolVarP(&runNeverReport, "never-report", "n", false, "never print exit code")
	f.BoolVarP(&runVerbose, "verbose", "v", false, "produce more output")
	f.BoolVarP(&runQuiet, "quiet", "q", false, "produce less output")
	f.BoolVarP(&runStay, "stay", "s", false, "wait for any key to be pressed at the end")
	f.StringArrayVarP(&runParams, "params", "A", nil, "additional arguments passed to the compiler (repeatable)")
	f.BoolVar(&runPrintCommands, "print-commands", false, "print the compiler command line")
	f.StringVar(&runUI, "ui", "off", "show build progress (auto|on|off)")
	f.BoolVar(&runTimings, "timings", false, "print stage timings to stderr")

	rootCmd.MarkFlagsMutuallyExclusive("force", "no-cache")
	rootCmd.MarkFlagsMutuallyExclusive("compile-only", "always-report", "never-report")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	rootCmd.MarkFlagsMutuallyExclusive("cpp03", "std")
}

func readRunOptions() (runOptions, error) {
	opts := runOptions{
		working:       runWorking,
		mode:          cache.ModeDebug,
		std:           runStd,
		force:         runForce,
		noCache:       runNoCache,
		noHeader:      runNoHeader,
		compileOnly:   runCompileOnly,
		stay:          runStay,
		params:        runParams,
		printCommands: runPrintCommands,
		timings:       runTimings,
	}
	if runRelease {
		opts.mode = cache.ModeRelease
	}
	if runCpp03 {
		opts.std = "c++03"
	}
	switch {
	case runAlwaysReport:
		opts.report = reportAlways
	case runNeverReport:
		opts.report = reportNever
	}
	switch {
	case runVerbose:
		opts.verbosity = verbosityVerbose
	case runQuiet:
		opts.verbosity = verbosityQuiet
	}
	mode, err := readUIMode(runUI)
	if err != nil {
		return opts, err
	}
	opts.ui = mode
	return opts, nil
}

// runMain compiles the file named on the command line and runs it.
func runMain(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	opts, err := readRunOptions()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	cfg, cfgPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// armed once a source is about to be resolved; a bad config exits at once
	if opts.stay {
		defer keypressWait(os.Stdin)
	}
	useTUI := shouldUseTUI(opts.ui)
	logLevelVerbosity := opts.verbosity
	if useTUI {
		logLevelVerbosity = verbosityQuiet
	}
	logger := newLogger(stdout, logLevelVerbosity)
	if cfgPath != "" {
		logger.Debug("config", "path", cfgPath)
	}

	src, err := resolveSource(args[0], cfg.Source.FallbackExtensions)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return &exitError{code: 1}
	}
	if opts.working {
		if err := os.Chdir(filepath.Dir(src)); err != nil {
			return fmt.Errorf("failed to enter %s: %w", filepath.Dir(src), err)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}

	extra, err := splitParams(opts.params)
	if err != nil {
		return err
	}
	req := &buildpipeline.Request{
		Source:        src,
		Mode:          opts.mode,
		Std:           opts.std,
		NoHeaders:     opts.noHeader,
		NoCache:       opts.noCache,
		Force:         opts.force,
		ExtraArgs:     extra,
		OutputDir:     cwd,
		Config:        cfg,
		Index:         stdlib.Build(),
		Store:         openStore(cfg.CacheRoot, opts.noCache, logger),
		Logger:        logger,
		PrintCommands: opts.printCommands,
		Stdout:        stdout,
		Stderr:        stderr,
	}

	var res buildpipeline.Result
	if useTUI {
		res, err = runBuildWithUI(ctx, "ec "+filepath.Base(src), req)
	} else {
		res, err = buildpipeline.Build(ctx, req)
	}
	if err != nil {
		return buildFailure(ctx, stderr, err, opts)
	}
	if opts.compileOnly {
		if opts.timings {
			printStageTimings(stderr, res.Timings)
		}
		return nil
	}

	input := buildpipeline.InputPath(cwd, src, cfg.Source.InputExtension)
	start := time.Now()
	code, err := buildpipeline.Exec(ctx, buildpipeline.ExecRequest{
		Binary: res.BinaryPath,
		Input:  input,
		Dir:    cwd,
		Stdout: stdout,
		Stderr: stderr,
	})
	res.Timings.Set(buildpipeline.StageRun, time.Since(start))
	if ctx.Err() != nil {
		return interrupted(stdout, opts)
	}
	var inputErr *buildpipeline.InputNotFoundError
	if errors.As(err, &inputErr) {
		fmt.Fprintf(stderr, "Input file is not found: %q\n", inputErr.Path)
		return &exitError{code: 1}
	}
	if err != nil {
		return err
	}
	if opts.timings {
		printStageTimings(stderr, res.Timings)
	}
	if opts.report.shouldReport(code) {
		printExitReport(stdout, code)
	}
	if code != 0 {
		return &exitError{code: code}
	}
	return nil
}

// buildFailure maps a pipeline error to the message and exit status the
// user sees.
func buildFailure(ctx context.Context, stderr io.Writer, err error, opts runOptions) error {
	if ctx.Err() != nil {
		return interrupted(stderr, opts)
	}
	var ce *buildpipeline.CompileError
	if errors.As(err, &ce) {
		return &exitError{code: ce.ExitCode}
	}
	if errors.Is(err, buildpipeline.ErrCompilerNotFound) {
		fmt.Fprintf(stderr, "Cannot run a compiler: %v\n", err)
		return &exitError{code: 1}
	}
	return err
}

// interrupted ends the line the terminal echoed ^C on.
func interrupted(out io.Writer, opts runOptions) error {
	if opts.verbosity >= verbosityNormal {
		fmt.Fprintln(out)
	}
	return &exitError{code: 1}
}

func printExitReport(out io.Writer, code int) {
	c := color.New(color.FgGreen, color.Bold)
	if code != 0 {
		c = color.New(color.FgRed, color.Bold)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Process terminated with code %s\n", c.Sprint(code))
}

// openStore opens the cache unless disabled. An unresolvable root disables
// caching for this run.
func openStore(root func() (string, error), disabled bool, logger *log.Logger) *cache.Store {
	if disabled {
		return nil
	}
	dir, err := root()
	if err != nil {
		logger.Debug("cache disabled", "err", err)
		return nil
	}
	return cache.Open(dir)
}
