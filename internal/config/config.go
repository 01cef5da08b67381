// Package config loads ec.toml, the per-project (or per-user) settings for the
// compiler command line, the cache location and source naming.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/shlex"

	"ec/internal/cache"
)

// FileName is the name searched for from the working directory upward.
const FileName = "ec.toml"

// CacheDirEnv overrides the cache root from the environment.
const CacheDirEnv = "EC_CACHE_DIR"

type Config struct {
	Compiler CompilerConfig `toml:"compiler"`
	Cache    CacheConfig    `toml:"cache"`
	Source   SourceConfig   `toml:"source"`
}

type CompilerConfig struct {
	Command string `toml:"command"`
	Common  string `toml:"common"`
	Debug   string `toml:"debug"`
	Release string `toml:"release"`
	Std     string `toml:"std"`
}

type CacheConfig struct {
	// Dir is the cache root; empty means the user cache directory.
	Dir string `toml:"dir"`
}

type SourceConfig struct {
	FallbackExtensions []string `toml:"fallback_extensions"`
	InputExtension     string   `toml:"input_extension"`
}

const defaultCommon = `-Wall -Wextra -pedantic -Wformat=2 -Wfloat-equal -Wlogical-op -Wredundant-decls
-Wconversion -Wcast-qual -Wcast-align -Wuseless-cast
-Wno-shadow -Wno-unused-result -Wno-unused-parameter -Wno-unused-local-typedefs -Wno-long-long
-DLOCAL_PROJECT`

// Default returns the built-in settings used when no file is found.
func Default() Config {
	return Config{
		Compiler: CompilerConfig{
			Command: "g++",
			Common:  defaultCommon,
			Debug:   "-g -DLOCAL_DEBUG -D_GLIBCXX_DEBUG -D_GLIBCXX_DEBUG_PEDANTIC",
			Release: "-O2",
			Std:     "c++11",
		},
		Source: SourceConfig{
			FallbackExtensions: []string{".cpp", ".cxx", ".cc", ".c"},
			InputExtension:     ".in",
		},
	}
}

// Find searches ec.toml from startDir upward, then in the user config
// directory.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if ok, err := isFile(candidate); err != nil || ok {
			return candidate, ok, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if base, err := os.UserConfigDir(); err == nil {
		candidate := filepath.Join(base, "ec", FileName)
		if ok, err := isFile(candidate); err != nil || ok {
			return candidate, ok, err
		}
	}
	return "", false, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %q: %w", path, err)
}

// Load finds and reads the configuration for startDir. With no file the
// defaults are returned and found is false.
func Load(startDir string) (cfg Config, path string, found bool, err error) {
	path, found, err = Find(startDir)
	if err != nil {
		return Config{}, "", false, err
	}
	if !found {
		return Default(), "", false, nil
	}
	cfg, err = LoadFile(path)
	return cfg, path, true, err
}

// LoadFile reads path over the defaults. Keys present in the file replace
// the default; unknown keys are an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("compiler", "command") && strings.TrimSpace(cfg.Compiler.Command) == "" {
		return Config{}, fmt.Errorf("%s: [compiler].command must not be empty", path)
	}
	if meta.IsDefined("compiler", "std") && strings.TrimSpace(cfg.Compiler.Std) == "" {
		return Config{}, fmt.Errorf("%s: [compiler].std must not be empty", path)
	}
	if meta.IsDefined("source", "input_extension") && !strings.HasPrefix(cfg.Source.InputExtension, ".") {
		return Config{}, fmt.Errorf("%s: [source].input_extension must start with '.'", path)
	}
	for _, ext := range cfg.Source.FallbackExtensions {
		if !strings.HasPrefix(ext, ".") {
			return Config{}, fmt.Errorf("%s: [source].fallback_extensions entry %q must start with '.'", path, ext)
		}
	}
	if meta.IsDefined("cache", "dir") && cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// CacheRoot resolves the cache directory: $EC_CACHE_DIR, then [cache].dir,
// then the user cache directory.
func (c Config) CacheRoot() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(CacheDirEnv)); dir != "" {
		return dir, nil
	}
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return cache.DefaultRoot("ec")
}

// Options returns the compiler options for mode: the common set followed by
// the mode's own set. '#' starts a comment as in a shell.
func (c CompilerConfig) Options(mode cache.Mode) ([]string, error) {
	common, err := SplitArgs(c.Common)
	if err != nil {
		return nil, fmt.Errorf("[compiler].common: %w", err)
	}
	modeOpts := c.Debug
	if mode == cache.ModeRelease {
		modeOpts = c.Release
	}
	extra, err := SplitArgs(modeOpts)
	if err != nil {
		return nil, fmt.Errorf("[compiler].%s: %w", mode, err)
	}
	return append(common, extra...), nil
}

// SplitArgs splits s into words with shell quoting rules.
func SplitArgs(s string) ([]string, error) {
	words, err := shlex.Split(s)
	if err != nil {
		return nil, err
	}
	return words, nil
}
