package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"ec/internal/trace"
)

// ExecRequest describes one run of a built program.
type ExecRequest struct {
	Binary string
	// Input is fed to the program's stdin.
	Input string
	// Dir is the program's working directory; empty means the current one.
	Dir    string
	Args   []string
	Stdout io.Writer
	Stderr io.Writer
}

// InputPath names the stdin file for source: its base name with ext, in dir.
func InputPath(dir, source, ext string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(dir, base+ext)
}

// Exec runs the program and waits for it. The program's exit code is
// returned with a nil error; err is set only when the program could not be
// run at all. A missing input file is *InputNotFoundError.
func Exec(ctx context.Context, req ExecRequest) (int, error) {
	// #nosec G304 -- input file sits next to the user's source
	in, err := os.Open(req.Input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 1, &InputNotFoundError{Path: req.Input}
		}
		return 1, fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	binary := req.Binary
	if !filepath.IsAbs(binary) {
		if abs, err := filepath.Abs(binary); err == nil {
			binary = abs
		}
	}
	stdout, stderr := req.Stdout, req.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	ctx, span := trace.Start(ctx, trace.ScopeStage, string(StageRun))
	// #nosec G204 -- runs the binary this tool just produced
	cmd := exec.CommandContext(ctx, binary, req.Args...)
	cmd.Dir = req.Dir
	cmd.Stdin = in
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err = cmd.Run()
	if err == nil {
		span.End("exit 0")
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		span.End(fmt.Sprintf("exit %d", code))
		return code, nil
	}
	span.End(err.Error())
	return 1, fmt.Errorf("failed to run %s: %w", req.Binary, err)
}
