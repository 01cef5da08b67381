// Package buildpipeline turns one C++ source file into a runnable binary:
// it normalizes the managed include block, consults the binary cache,
// invokes the compiler on a miss and records the result.
package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"ec/internal/cache"
	"ec/internal/config"
	"ec/internal/rewrite"
	"ec/internal/stdlib"
	"ec/internal/trace"
)

// Request configures one build.
type Request struct {
	// Source is the source file; it is made absolute.
	Source string
	Mode   cache.Mode
	// Std overrides [compiler].std when set.
	Std string
	// NoHeaders leaves the include block alone.
	NoHeaders bool
	// NoCache skips digest, lookup and store.
	NoCache bool
	// Force turns every lookup into a miss; the result is still stored.
	Force bool
	// ExtraArgs are appended to the compiler command line.
	ExtraArgs []string
	// OutputDir receives the binary and is the compiler's working
	// directory. Defaults to the current directory.
	OutputDir string

	Config config.Config
	Index  *stdlib.Index
	// Store is the binary cache; nil behaves like NoCache.
	Store *cache.Store

	Progress      ProgressSink
	Logger        *log.Logger
	PrintCommands bool

	// Compiler output; default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Result captures what the build did.
type Result struct {
	Source     string
	BinaryPath string
	// Rewritten is set when the include block was regenerated on disk.
	Rewritten bool
	Rewrite   rewrite.Result
	// CompilationNeeded is false only on a cache hit.
	CompilationNeeded bool
	CacheHit          bool
	Stored            bool
	Digest            cache.Digest
	Command           []string
	Timings           Timings
}

// Build runs read, headers, digest, cache, compile and store for req.
//
// Reading the source and writing back a needed rewrite are the only fatal
// I/O failures. Cache problems degrade to a miss or a skipped store.
func Build(ctx context.Context, req *Request) (Result, error) {
	var result Result
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	reqCopy := *req
	req = &reqCopy
	if err := req.normalize(); err != nil {
		return result, err
	}
	result.Source = req.Source
	result.CompilationNeeded = true
	result.BinaryPath = filepath.Join(req.OutputDir, BinaryName(req.Source))
	file := filepath.Base(req.Source)
	logger := req.Logger

	ctx, buildSpan := trace.Start(ctx, trace.ScopeCommand, "build:"+file)
	defer func() { buildSpan.End(strconv.FormatBool(result.CacheHit)) }()

	// read
	stageStart := time.Now()
	emit(req.Progress, file, StageRead, StatusWorking, nil, 0)
	_, span := trace.Start(ctx, trace.ScopeStage, string(StageRead))
	// #nosec G304 -- path is the user's source file
	text, err := os.ReadFile(req.Source)
	span.End("")
	if err != nil {
		err = &SourceReadError{Path: req.Source, Err: err}
		emit(req.Progress, file, StageRead, StatusError, err, 0)
		return result, err
	}
	result.Timings.Set(StageRead, time.Since(stageStart))
	emit(req.Progress, file, StageRead, StatusDone, nil, result.Timings.Duration(StageRead))

	// headers
	if req.NoHeaders {
		emit(req.Progress, file, StageHeaders, StatusSkipped, nil, 0)
	} else {
		text, err = buildHeaders(ctx, req, file, text, &result)
		if err != nil {
			return result, err
		}
	}

	// digest + cache
	useCache := req.Store != nil && !req.NoCache
	if useCache {
		stageStart = time.Now()
		result.Digest = cache.Sum(text)
		result.Timings.Set(StageDigest, time.Since(stageStart))
		emit(req.Progress, file, StageDigest, StatusDone, nil, result.Timings.Duration(StageDigest))

		stageStart = time.Now()
		_, span = trace.Start(ctx, trace.ScopeStage, string(StageCache))
		key := cache.Key{Source: req.Source, Mode: req.Mode}
		if !req.Force && req.Store.Restore(key, result.Digest, result.BinaryPath) {
			result.CacheHit = true
			result.CompilationNeeded = false
		}
		span.WithExtra("hit", strconv.FormatBool(result.CacheHit)).End("")
		result.Timings.Set(StageCache, time.Since(stageStart))
		logger.Debug("cache lookup", "file", file, "mode", req.Mode, "digest", result.Digest.Short(), "hit", result.CacheHit, "force", req.Force)
		emit(req.Progress, file, StageCache, StatusDone, nil, result.Timings.Duration(StageCache))
	} else {
		emit(req.Progress, file, StageCache, StatusSkipped, nil, 0)
	}

	if !result.CompilationNeeded {
		emit(req.Progress, file, StageCompile, StatusSkipped, nil, 0)
		return result, nil
	}

	// compile
	args, err := CompileCommand(req.Config.Compiler, req.Mode, req.Std, req.Source, result.BinaryPath, req.OutputDir, req.ExtraArgs)
	if err != nil {
		emit(req.Progress, file, StageCompile, StatusError, err, 0)
		return result, err
	}
	result.Command = args
	if err := ensureCompilerAvailable(args[0]); err != nil {
		emit(req.Progress, file, StageCompile, StatusError, err, 0)
		return result, err
	}
	logger.Info("Compiling...")
	if req.PrintCommands {
		logger.Info(strings.Join(args, " "))
	} else {
		logger.Debug("compiler", "args", args)
	}
	stageStart = time.Now()
	emit(req.Progress, file, StageCompile, StatusWorking, nil, 0)
	cctx, span := trace.Start(ctx, trace.ScopeStage, string(StageCompile))
	trace.Point(trace.FromContext(cctx), trace.ScopeProcess, "spawn", args[0], span.ID())
	err = runCompiler(cctx, args, req.OutputDir, req.Stdout, req.Stderr)
	span.End(errDetail(err))
	result.Timings.Set(StageCompile, time.Since(stageStart))
	if err != nil {
		emit(req.Progress, file, StageCompile, StatusError, err, result.Timings.Duration(StageCompile))
		return result, err
	}
	emit(req.Progress, file, StageCompile, StatusDone, nil, result.Timings.Duration(StageCompile))

	// store
	if useCache {
		stageStart = time.Now()
		_, span = trace.Start(ctx, trace.ScopeStage, string(StageStore))
		key := cache.Key{Source: req.Source, Mode: req.Mode}
		err := req.Store.Put(key, result.Digest, result.BinaryPath, cache.Meta{Command: args})
		span.End(errDetail(err))
		result.Timings.Set(StageStore, time.Since(stageStart))
		if err != nil {
			logger.Debug("cache store skipped", "file", file, "err", err)
			emit(req.Progress, file, StageStore, StatusSkipped, nil, 0)
		} else {
			result.Stored = true
			emit(req.Progress, file, StageStore, StatusDone, nil, result.Timings.Duration(StageStore))
		}
	}
	logger.Info("Done.")
	return result, nil
}

func buildHeaders(ctx context.Context, req *Request, file string, text []byte, result *Result) ([]byte, error) {
	stageStart := time.Now()
	emit(req.Progress, file, StageHeaders, StatusWorking, nil, 0)
	_, span := trace.Start(ctx, trace.ScopeStage, string(StageHeaders))
	defer span.End("")

	res, err := rewrite.Source(text, req.Index)
	res.Path = req.Source
	result.Rewrite = res
	if err != nil {
		err = &SourceReadError{Path: req.Source, Err: err}
		emit(req.Progress, file, StageHeaders, StatusError, err, 0)
		return nil, err
	}
	span.WithExtra("needed", strconv.Itoa(len(res.Plan.Needed)))
	if !res.Changed {
		result.Timings.Set(StageHeaders, time.Since(stageStart))
		emit(req.Progress, file, StageHeaders, StatusSkipped, nil, result.Timings.Duration(StageHeaders))
		return text, nil
	}
	req.Logger.Debug("Rewriting...", "file", file, "added", res.Plan.Added(), "removed", res.Plan.Removed())
	if err := rewrite.WriteFile(req.Source, res.After); err != nil {
		emit(req.Progress, file, StageHeaders, StatusError, err, 0)
		return nil, err
	}
	result.Rewritten = true
	result.Timings.Set(StageHeaders, time.Since(stageStart))
	emit(req.Progress, file, StageHeaders, StatusDone, nil, result.Timings.Duration(StageHeaders))
	return res.After, nil
}

func (req *Request) normalize() error {
	if strings.TrimSpace(req.Source) == "" {
		return fmt.Errorf("missing source path")
	}
	abs, err := filepath.Abs(req.Source)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", req.Source, err)
	}
	req.Source = abs
	if req.Mode == "" {
		req.Mode = cache.ModeDebug
	}
	if req.OutputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}
		req.OutputDir = cwd
	}
	if req.Index == nil {
		req.Index = stdlib.Build()
	}
	if req.Config.Compiler.Command == "" {
		req.Config = config.Default()
	}
	if req.Logger == nil {
		req.Logger = log.New(io.Discard)
	}
	if req.Stdout == nil {
		req.Stdout = os.Stdout
	}
	if req.Stderr == nil {
		req.Stderr = os.Stderr
	}
	return nil
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	var ce *CompileError
	if errors.As(err, &ce) {
		return "exit " + strconv.Itoa(ce.ExitCode)
	}
	return err.Error()
}
