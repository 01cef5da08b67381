package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ec/internal/buildpipeline"
	"ec/internal/rewrite"
	"ec/internal/stdlib"
)

var (
	headersCheck bool
	headersDiff  bool
	headersJobs  int
	headersUI    string
	headersList  bool
)

func init() {
	headersCmd.Flags().BoolVar(&headersCheck, "check", false, "report files whose include block is out of date without writing them")
	headersCmd.Flags().BoolVar(&headersDiff, "diff", false, "print a unified diff of every rewrite")
	headersCmd.Flags().IntVarP(&headersJobs, "jobs", "j", 0, "files processed in parallel (0 = number of CPUs)")
	headersCmd.Flags().StringVar(&headersUI, "ui", "auto", "show progress (auto|on|off)")
	headersCmd.Flags().BoolVar(&headersList, "list", false, "print the symbol table as header: symbols and exit")
}

var headersCmd = &cobra.Command{
	Use:   "headers [flags] files...",
	Short: "Regenerate the managed include block of source files",
	Long: `Rewrite the standard library includes marked with a trailing // so that
they list exactly the headers the file's std:: symbols need, sorted.
Other lines are never touched.`,
	RunE: runHeaders,
}

func runHeaders(cmd *cobra.Command, args []string) error {
	idx := stdlib.Build()
	out := cmd.OutOrStdout()
	if headersList {
		return printSymbolTable(out, idx)
	}
	if len(args) == 0 {
		return fmt.Errorf("no files given")
	}
	mode, err := readUIMode(headersUI)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}
	files := buildpipeline.NormalizeFiles(args, cwd)
	opts := buildpipeline.HeaderOptions{
		Jobs:   headersJobs,
		DryRun: headersCheck || headersDiff,
	}

	ctx := cmd.Context()
	var results []buildpipeline.HeaderResult
	if shouldUseTUI(mode) && !headersDiff {
		results, err = runHeadersWithUI(ctx, "ec headers", files, idx, opts)
	} else {
		results, err = buildpipeline.NormalizeHeaders(ctx, files, idx, opts)
	}
	if err != nil {
		return err
	}
	return reportHeaderResults(out, cmd.ErrOrStderr(), results)
}

// reportHeaderResults prints one line per changed or failed file (and the
// diff under --diff). Under --check any stale file fails the command.
func reportHeaderResults(out, errOut io.Writer, results []buildpipeline.HeaderResult) error {
	changedStyle := color.New(color.FgYellow)
	errorStyle := color.New(color.FgRed, color.Bold)

	var failed, stale int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(errOut, "%s %v\n", errorStyle.Sprint("error:"), r.Err)
			continue
		}
		if !r.Result.Changed {
			continue
		}
		stale++
		if headersDiff {
			fmt.Fprint(out, rewrite.Diff(r.Path, r.Result.Before, r.Result.After))
			continue
		}
		verb := "rewrote"
		if headersCheck {
			verb = "stale"
		}
		fmt.Fprintf(out, "%s %s%s\n", changedStyle.Sprint(verb), r.Path, describeChange(r.Result.Plan))
	}
	if failed > 0 {
		return &exitError{code: 1}
	}
	if headersCheck && stale > 0 {
		return &exitError{code: 1}
	}
	return nil
}

func describeChange(p rewrite.Plan) string {
	var parts []string
	if added := p.Added(); len(added) > 0 {
		parts = append(parts, "+"+strings.Join(added, " +"))
	}
	if removed := p.Removed(); len(removed) > 0 {
		parts = append(parts, "-"+strings.Join(removed, " -"))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, " ") + ")"
}

func printSymbolTable(out io.Writer, idx *stdlib.Index) error {
	for _, h := range idx.Headers() {
		if _, err := fmt.Fprintf(out, "%s: %s\n", h, strings.Join(idx.Symbols(h), " ")); err != nil {
			return err
		}
	}
	return nil
}
