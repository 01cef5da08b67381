package buildpipeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCompilerNotFound is returned when the compiler cannot be started.
var ErrCompilerNotFound = errors.New("cannot run a compiler")

// SourceReadError reports a missing or unreadable source file. Nothing has
// been rewritten or cached when it is returned.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// CompileError reports a compiler that ran and failed.
type CompileError struct {
	ExitCode int
	Command  []string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compilation failed with code %d: %s", e.ExitCode, strings.Join(e.Command, " "))
}

// InputNotFoundError reports that the program's stdin file does not exist.
type InputNotFoundError struct {
	Path string
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("input file is not found: %q", e.Path)
}
