// Package cache keeps compiled binaries keyed by source path and build mode,
// trusting an entry only when the digest stored next to it matches the digest
// of the current source.
//
// An entry is three files, each in its own tree mirroring the source path:
//
//	<root>/<mode>/bin/<volume>/<abs path>    binary
//	<root>/<mode>/meta/<volume>/<abs path>   msgpack Meta, informational
//	<root>/<mode>/src/<volume>/<abs path>    raw digest, written last
//
// Every tree maps source files to files one to one, so no source path can
// land on a directory created for another.
//
// No cross-process locks are taken. Writers drop the digest first and write it
// back last; readers open the binary before checking the digest. An
// interrupted or racing store can only cause a miss.
package cache

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Mode partitions the cache by build configuration.
type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

// ParseMode accepts "debug" or "release".
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDebug:
		return ModeDebug, nil
	case ModeRelease:
		return ModeRelease, nil
	default:
		return "", fmt.Errorf("unknown build mode %q (want debug or release)", s)
	}
}

// Key identifies an entry.
type Key struct {
	// Source is the source file path; relative paths are made absolute.
	Source string
	Mode   Mode
}

const (
	binaryTree = "bin"
	digestTree = "src"
	metaTree   = "meta"
)

// testHookRestoreOpened runs in Restore between opening the binary and
// reading the digest.
var testHookRestoreOpened func()

// Store is a cache rooted at one directory. A Store whose root cannot be
// created never hits. Safe for concurrent use within one process.
type Store struct {
	mu   sync.RWMutex
	root string
}

// Open returns a store at root. Directories are created on first Put.
func Open(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

// DefaultRoot returns $XDG_CACHE_HOME/<app> or ~/.cache/<app>.
func DefaultRoot(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// Root returns the cache directory.
func (s *Store) Root() string {
	if s == nil {
		return ""
	}
	return s.root
}

// Paths returns the binary, digest sidecar and metadata sidecar locations
// for key. Distinct sources and modes never share a path.
func (s *Store) Paths(key Key) (binary, digest, meta string) {
	src := absPath(key.Source)
	vol := filepath.VolumeName(src)
	rest := strings.TrimLeft(src[len(vol):], `/\`)
	// "C:" -> "C", `\\host\share` -> `host\share`
	vol = strings.Trim(strings.ReplaceAll(vol, ":", ""), `/\`)
	base := filepath.Join(s.root, string(key.Mode))
	return filepath.Join(base, binaryTree, vol, rest),
		filepath.Join(base, digestTree, vol, rest),
		filepath.Join(base, metaTree, vol, rest)
}

// Lookup reports the cached binary for key when its stored digest equals d.
// Any problem reading the entry is a miss. The returned path is only valid
// until the next Put for key; use Restore to take a copy.
func (s *Store) Lookup(key Key, d Digest) (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	binary, digest, _ := s.Paths(key)
	info, err := os.Stat(binary)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	if !digestMatches(digest, d) {
		return "", false
	}
	return binary, true
}

// Restore copies the cached binary for key to dst when its stored digest
// equals d. It returns false on a miss or when the copy fails; dst is then
// untouched.
//
// The binary is opened before the digest is read. Put removes the digest
// before replacing the binary, so a digest that still matches proves the open
// file belongs to it.
func (s *Store) Restore(key Key, d Digest, dst string) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	binary, digest, _ := s.Paths(key)
	// #nosec G304 -- path is inside the cache root
	in, err := os.Open(binary)
	if err != nil {
		return false
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if testHookRestoreOpened != nil {
		testHookRestoreOpened()
	}
	if !digestMatches(digest, d) {
		return false
	}
	return copyFrom(in, info.Mode().Perm(), dst) == nil
}

func digestMatches(path string, d Digest) bool {
	// #nosec G304 -- path is inside the cache root
	stored, err := os.ReadFile(path)
	return err == nil && bytes.Equal(stored, d[:])
}

// Put records binaryPath as the output for key and d. The previous digest is
// removed before anything else and the new one written last. Errors are
// returned for logging; the build does not depend on them.
func (s *Store) Put(key Key, d Digest, binaryPath string, meta Meta) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	binary, digest, metaPath := s.Paths(key)
	for _, p := range []string{binary, digest, metaPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("cache: %w", err)
		}
	}
	if err := os.Remove(digest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cache: %w", err)
	}
	if err := copyFile(binaryPath, binary); err != nil {
		return fmt.Errorf("cache: store binary: %w", err)
	}

	meta.Source = absPath(key.Source)
	meta.Mode = key.Mode
	meta.Digest = d
	if info, err := os.Stat(binary); err == nil {
		meta.Size = info.Size()
	}
	if meta.StoredAt.IsZero() {
		meta.StoredAt = time.Now()
	}
	data, err := encodeMeta(&meta)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(metaPath, data, 0o644); err != nil {
		return fmt.Errorf("cache: store metadata: %w", err)
	}
	if err := writeFileAtomic(digest, d[:], 0o644); err != nil {
		return fmt.Errorf("cache: store digest: %w", err)
	}
	return nil
}

// List returns the metadata of every entry under the root, ordered by source
// then mode. Sidecars from other schema versions or that fail to decode are
// skipped. A missing root yields no entries.
func (s *Store) List() ([]Meta, error) {
	if s == nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	modes, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []Meta
	for _, mode := range modes {
		if !mode.IsDir() {
			continue
		}
		tree := filepath.Join(s.root, mode.Name(), metaTree)
		err := filepath.WalkDir(tree, func(path string, de fs.DirEntry, err error) error {
			if err != nil {
				if path == tree && errors.Is(err, fs.ErrNotExist) {
					return filepath.SkipAll
				}
				return err
			}
			if de.IsDir() {
				return nil
			}
			m, err := readMeta(path)
			if err != nil {
				return nil
			}
			out = append(out, m)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Mode < out[j].Mode
	})
	return out, nil
}

// Clean removes the whole cache root.
func (s *Store) Clean() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.root); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	// rename first so a concurrent reader sees either everything or nothing
	old := s.root + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(s.root, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// copyFile copies src to dst through a temporary file in dst's directory,
// keeping src's permission bits.
func copyFile(src, dst string) error {
	// #nosec G304 -- paths are the compiler output and the cache entry
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}
	return copyFrom(in, info.Mode().Perm(), dst)
}

func copyFrom(in io.Reader, perm fs.FileMode, dst string) error {
	return writeAtomic(dst, perm, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}

func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	return writeAtomic(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func writeAtomic(path string, perm fs.FileMode, fill func(io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := fill(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Chmod(perm); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
