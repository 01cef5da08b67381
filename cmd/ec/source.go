package main

import (
	"fmt"
	"os"
	"path/filepath"

	"ec/internal/config"
)

// noSuchFileError reports a source argument that names no file.
type noSuchFileError struct {
	name string
}

func (e *noSuchFileError) Error() string {
	return fmt.Sprintf("No such file: %q", e.name)
}

// resolveSource finds the file for name. A name without an extension is
// tried with each fallback extension in order. The result is absolute with
// symlinks resolved.
func resolveSource(name string, fallbacks []string) (string, error) {
	src := ""
	if filepath.Ext(name) == "" {
		for _, ext := range fallbacks {
			if isRegularFile(name + ext) {
				src = name + ext
				break
			}
		}
	}
	if src == "" {
		if !isRegularFile(name) {
			return "", &noSuchFileError{name: name}
		}
		src = name
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return "", err
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	return abs, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// splitParams splits every -A value shell-style and concatenates the words.
func splitParams(params []string) ([]string, error) {
	var out []string
	for _, p := range params {
		words, err := config.SplitArgs(p)
		if err != nil {
			return nil, fmt.Errorf("invalid --params %q: %w", p, err)
		}
		out = append(out, words...)
	}
	return out, nil
}
