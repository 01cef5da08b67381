package rewrite

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff renders a unified diff between the original and rewritten text of
// path. It returns "" when the two are equal.
func Diff(path string, before, after []byte) string {
	if string(before) == string(after) {
		return ""
	}
	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(string(before)),
		B:        splitLinesKeepNL(string(after)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return fmt.Sprintf("--- a/%s\n+++ b/%s\n# diff unavailable: %v\n", path, path, err)
	}
	return s
}

// splitLinesKeepNL keeps the trailing newline on every line so hunks
// reproduce the file exactly.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
