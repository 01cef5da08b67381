package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"ec/internal/cache"
	"ec/internal/config"
)

// BinaryName returns the executable name produced for source.
func BinaryName(source string) string {
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return name
}

// CompileCommand assembles
//
//	command common mode-options -std=<std> -o <binary> <source> extra...
//
// source is made relative to outputDir when possible, matching the
// compiler's working directory.
func CompileCommand(cc config.CompilerConfig, mode cache.Mode, std, source, binary, outputDir string, extra []string) ([]string, error) {
	if strings.TrimSpace(cc.Command) == "" {
		return nil, fmt.Errorf("no compiler command configured")
	}
	if std == "" {
		std = cc.Std
	}
	opts, err := cc.Options(mode)
	if err != nil {
		return nil, err
	}
	src := source
	if rel, err := filepath.Rel(outputDir, source); err == nil && !strings.HasPrefix(rel, "..") {
		src = rel
	}
	out := filepath.Base(binary)
	if filepath.Dir(binary) != filepath.Clean(outputDir) {
		out = binary
	}
	args := make([]string, 0, len(opts)+len(extra)+6)
	args = append(args, cc.Command)
	args = append(args, opts...)
	args = append(args, "-std="+std, "-o", out, src)
	args = append(args, extra...)
	return args, nil
}

// runCompiler runs args in dir. A compiler that exits non-zero yields
// *CompileError; one that cannot be started yields ErrCompilerNotFound.
func runCompiler(ctx context.Context, args []string, dir string, stdout, stderr io.Writer) error {
	// #nosec G204 -- the compiler command line comes from the user's configuration
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &CompileError{ExitCode: exitErr.ExitCode(), Command: args}
	}
	return fmt.Errorf("%w: %s: %v", ErrCompilerNotFound, strings.Join(args, " "), err)
}

// ensureCompilerAvailable reports a missing compiler before any work that
// would be wasted without one.
func ensureCompilerAvailable(command string) error {
	if _, err := exec.LookPath(command); err != nil {
		return fmt.Errorf("%w: %s not found in PATH", ErrCompilerNotFound, command)
	}
	return nil
}
