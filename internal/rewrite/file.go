package rewrite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"ec/internal/scan"
	"ec/internal/stdlib"
	"ec/internal/trace"
)

// WriteError reports that a needed rewrite could not be written back. The
// original file is left as it was.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot rewrite %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Result describes the outcome for one source text.
type Result struct {
	Path    string
	Plan    Plan
	Before  []byte
	After   []byte // equals Before when Changed is false
	Changed bool
}

// Source scans text and computes its normalized form without touching disk.
func Source(text []byte, idx *stdlib.Index) (Result, error) {
	if err := scan.CheckSize(len(text)); err != nil {
		return Result{}, err
	}
	plan := NewPlan(scan.Scan(text, idx), text)
	res := Result{Plan: plan, Before: text, After: text}
	if out, changed := Apply(plan); changed {
		res.After = out
		res.Changed = true
	}
	return res, nil
}

// File normalizes the include block of the file at path. When dryRun is set
// the result is computed but nothing is written.
func File(ctx context.Context, path string, idx *stdlib.Index, dryRun bool) (Result, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "headers:"+filepath.Base(path), trace.CurrentSpan(ctx).SpanID)
	defer span.End("")

	// #nosec G304 -- path is the user's source file
	text, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	res, err := Source(text, idx)
	res.Path = path
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	span.WithExtra("needed", strconv.Itoa(len(res.Plan.Needed))).WithExtra("changed", strconv.FormatBool(res.Changed))
	if !res.Changed || dryRun {
		return res, nil
	}
	if err := WriteFile(path, res.After); err != nil {
		return res, err
	}
	return res, nil
}

// WriteFile replaces path with data. The content goes to a temporary file in
// the same directory which is then renamed over the original, so a crash
// never leaves a half-written source. The original mode is kept.
func WriteFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	// the rename below would succeed on a read-only file in a writable
	// directory; refuse like a plain reopen for writing would
	probe, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	_ = probe.Close()

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".ec-rewrite-*")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}
	if err := osReplace(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}
	_ = syncDir(dir)
	return nil
}
