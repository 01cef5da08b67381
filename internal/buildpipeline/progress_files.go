package buildpipeline

import (
	"path/filepath"
	"sort"
	"strings"
)

// NormalizeFiles cleans, de-duplicates and sorts files for batch processing
// and display. Paths under baseDir become relative to it.
func NormalizeFiles(files []string, baseDir string) []string {
	if len(files) == 0 {
		return files
	}
	base := strings.TrimSpace(baseDir)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
	}

	normalized := make([]string, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, file := range files {
		if strings.TrimSpace(file) == "" {
			continue
		}
		path := DisplayPath(file, base)
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		normalized = append(normalized, path)
	}
	sort.Strings(normalized)
	return normalized
}

// DisplayPath returns file relative to base when it lies under base,
// otherwise its cleaned form.
func DisplayPath(file, base string) string {
	path := filepath.Clean(file)
	if base == "" {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(base, abs); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return abs
}
