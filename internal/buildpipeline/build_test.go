package buildpipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"ec/internal/cache"
	"ec/internal/config"
	"ec/internal/rewrite"
	"ec/internal/stdlib"
)

var testIndex = stdlib.Build()

const sampleSource = "int main() {\n  std::vector<int> v;\n  std::cout << v.size();\n}\n"

// fakeCompiler writes a shell script that behaves like a compiler: it
// produces the -o output as a program that echoes stdin and exits 7, and
// appends one line to a log per invocation.
func fakeCompiler(t *testing.T, failCode int) (command, logPath string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake compiler is a shell script")
	}
	dir := t.TempDir()
	logPath = filepath.Join(dir, "invocations.log")
	script := fmt.Sprintf(`#!/bin/sh
out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then out="$a"; fi
  prev="$a"
done
echo "$*" >> %q
if [ %d -ne 0 ]; then echo "error: boom" >&2; exit %d; fi
printf '#!/bin/sh\ncat\nexit 7\n' > "$out"
chmod +x "$out"
`, logPath, failCode, failCode)
	command = filepath.Join(dir, "fakecc")
	if err := os.WriteFile(command, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return command, logPath
}

func invocations(t *testing.T, logPath string) int {
	t.Helper()
	data, err := os.ReadFile(logPath)
	if errors.Is(err, os.ErrNotExist) {
		return 0
	}
	if err != nil {
		t.Fatal(err)
	}
	return strings.Count(string(data), "\n")
}

type fixture struct {
	src   string
	out   string
	store *cache.Store
	log   string
	req   Request
}

func newFixture(t *testing.T, failCode int) *fixture {
	t.Helper()
	cc, logPath := fakeCompiler(t, failCode)
	work := t.TempDir()
	src := filepath.Join(work, "sol.cpp")
	if err := os.WriteFile(src, []byte(sampleSource), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Compiler.Command = cc
	store := cache.Open(filepath.Join(t.TempDir(), "cache"))
	var sink bytes.Buffer
	return &fixture{
		src:   src,
		out:   work,
		store: store,
		log:   logPath,
		req: Request{
			Source:    src,
			Mode:      cache.ModeDebug,
			OutputDir: work,
			Config:    cfg,
			Index:     testIndex,
			Store:     store,
			Stdout:    &sink,
			Stderr:    &sink,
		},
	}
}

func TestBuildRewritesCompilesAndCaches(t *testing.T) {
	fx := newFixture(t, 0)

	res, err := Build(context.Background(), &fx.req)
	if err != nil {
		t.Fatalf("first Build: %v", err)
	}
	if !res.Rewritten || !res.CompilationNeeded || res.CacheHit || !res.Stored {
		t.Fatalf("first Build result: %+v", res)
	}
	got, _ := os.ReadFile(fx.src)
	if string(got) != "#include <iostream>//\n#include <vector>//\n"+sampleSource {
		t.Fatalf("source after rewrite = %q", got)
	}
	if res.Digest != cache.Sum(got) {
		t.Fatal("digest must cover the rewritten bytes")
	}
	if invocations(t, fx.log) != 1 {
		t.Fatal("compiler not invoked exactly once")
	}

	// the cached copy must come back even when the working binary is gone
	if err := os.Remove(res.BinaryPath); err != nil {
		t.Fatal(err)
	}
	res2, err := Build(context.Background(), &fx.req)
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if res2.Rewritten || res2.CompilationNeeded || !res2.CacheHit {
		t.Fatalf("second Build result: %+v", res2)
	}
	if invocations(t, fx.log) != 1 {
		t.Fatal("compiler invoked on a cache hit")
	}
	if _, err := os.Stat(res2.BinaryPath); err != nil {
		t.Fatalf("binary not restored: %v", err)
	}
}

func TestBuildRecompilesAfterEdit(t *testing.T) {
	fx := newFixture(t, 0)
	if _, err := Build(context.Background(), &fx.req); err != nil {
		t.Fatal(err)
	}
	f, err := os.OpenFile(fx.src, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString("// edited\n")
	_ = f.Close()

	res, err := Build(context.Background(), &fx.req)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit || invocations(t, fx.log) != 2 {
		t.Fatalf("edit did not force a compile: %+v", res)
	}
}

func TestBuildForceAndNoCache(t *testing.T) {
	fx := newFixture(t, 0)
	if _, err := Build(context.Background(), &fx.req); err != nil {
		t.Fatal(err)
	}

	force := fx.req
	force.Force = true
	res, err := Build(context.Background(), &force)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit || !res.Stored || invocations(t, fx.log) != 2 {
		t.Fatalf("force result: %+v", res)
	}

	noCache := fx.req
	noCache.NoCache = true
	res, err = Build(context.Background(), &noCache)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit || res.Stored || !res.Digest.IsZero() || invocations(t, fx.log) != 3 {
		t.Fatalf("no-cache result: %+v", res)
	}
}

func TestBuildModesArePartitioned(t *testing.T) {
	fx := newFixture(t, 0)
	if _, err := Build(context.Background(), &fx.req); err != nil {
		t.Fatal(err)
	}
	release := fx.req
	release.Mode = cache.ModeRelease
	res, err := Build(context.Background(), &release)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Fatal("release build hit the debug entry")
	}
	if !strings.Contains(strings.Join(res.Command, " "), "-O2") {
		t.Fatalf("release options missing: %v", res.Command)
	}
}

func TestBuildNoHeadersKeepsSource(t *testing.T) {
	fx := newFixture(t, 0)
	fx.req.NoHeaders = true
	res, err := Build(context.Background(), &fx.req)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(fx.src)
	if res.Rewritten || string(got) != sampleSource {
		t.Fatal("source rewritten with NoHeaders")
	}
}

func TestBuildUnwritableCacheStillBuilds(t *testing.T) {
	fx := newFixture(t, 0)
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	fx.req.Store = cache.Open(filepath.Join(blocker, "cache"))

	res, err := Build(context.Background(), &fx.req)
	if err != nil {
		t.Fatalf("Build with unwritable cache: %v", err)
	}
	if res.Stored || res.CacheHit || !res.CompilationNeeded {
		t.Fatalf("result: %+v", res)
	}
	if _, err := os.Stat(res.BinaryPath); err != nil {
		t.Fatalf("binary missing: %v", err)
	}
}

func TestBuildMissingSource(t *testing.T) {
	fx := newFixture(t, 0)
	fx.req.Source = filepath.Join(fx.out, "missing.cpp")
	_, err := Build(context.Background(), &fx.req)
	var sre *SourceReadError
	if !errors.As(err, &sre) {
		t.Fatalf("err = %v, want *SourceReadError", err)
	}
	if invocations(t, fx.log) != 0 {
		t.Fatal("compiler invoked for a missing source")
	}
	if entries, _ := fx.store.List(); len(entries) != 0 {
		t.Fatal("cache touched for a missing source")
	}
}

func TestBuildReadOnlySource(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	fx := newFixture(t, 0)
	if err := os.Chmod(fx.src, 0o444); err != nil {
		t.Fatal(err)
	}
	_, err := Build(context.Background(), &fx.req)
	var we *rewrite.WriteError
	if !errors.As(err, &we) {
		t.Fatalf("err = %v, want *rewrite.WriteError", err)
	}
	if invocations(t, fx.log) != 0 {
		t.Fatal("compiled a source whose rewrite failed")
	}
}

func TestBuildCompileFailure(t *testing.T) {
	fx := newFixture(t, 3)
	res, err := Build(context.Background(), &fx.req)
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *CompileError", err)
	}
	if ce.ExitCode != 3 {
		t.Fatalf("exit code = %d", ce.ExitCode)
	}
	if res.Stored {
		t.Fatal("failed compile stored")
	}
}

func TestBuildCompilerNotFound(t *testing.T) {
	fx := newFixture(t, 0)
	fx.req.Config.Compiler.Command = filepath.Join(t.TempDir(), "no-such-compiler")
	_, err := Build(context.Background(), &fx.req)
	if !errors.Is(err, ErrCompilerNotFound) {
		t.Fatalf("err = %v, want ErrCompilerNotFound", err)
	}
}

func TestBuildProgressEvents(t *testing.T) {
	fx := newFixture(t, 0)
	var mu sync.Mutex
	var seen []string
	fx.req.Progress = SinkFunc(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, string(ev.Stage)+":"+string(ev.Status))
	})
	if _, err := Build(context.Background(), &fx.req); err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(seen, ",")
	for _, want := range []string{"read:done", "headers:done", "cache:done", "compile:working", "compile:done", "store:done"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("events %s missing %s", joined, want)
		}
	}
}

func TestCompileCommand(t *testing.T) {
	cc := config.CompilerConfig{Command: "g++", Common: "-Wall", Debug: "-g", Release: "-O2", Std: "c++11"}
	dir := filepath.Join(string(filepath.Separator), "work")
	src := filepath.Join(dir, "a.cpp")
	bin := filepath.Join(dir, "a")

	args, err := CompileCommand(cc, cache.ModeDebug, "", src, bin, dir, []string{"-lm"})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(args, " "); got != "g++ -Wall -g -std=c++11 -o a a.cpp -lm" {
		t.Fatalf("command = %q", got)
	}

	args, err = CompileCommand(cc, cache.ModeRelease, "c++03", src, bin, dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(args, " "); got != "g++ -Wall -O2 -std=c++03 -o a a.cpp" {
		t.Fatalf("command = %q", got)
	}

	if _, err := CompileCommand(config.CompilerConfig{}, cache.ModeDebug, "", src, bin, dir, nil); err == nil {
		t.Fatal("empty compiler command accepted")
	}
}
