package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"ec/internal/buildpipeline"
	"ec/internal/stdlib"
	"ec/internal/ui"
)

var buildStages = []buildpipeline.Stage{
	buildpipeline.StageRead,
	buildpipeline.StageHeaders,
	buildpipeline.StageDigest,
	buildpipeline.StageCache,
	buildpipeline.StageCompile,
	buildpipeline.StageStore,
}

type buildOutcome struct {
	result buildpipeline.Result
	err    error
}

type headersOutcome struct {
	results []buildpipeline.HeaderResult
	err     error
}

func runBuildWithUI(ctx context.Context, title string, req *buildpipeline.Request) (buildpipeline.Result, error) {
	if req == nil {
		return buildpipeline.Result{}, fmt.Errorf("missing build request")
	}
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		// compiler output would tear the progress view
		reqCopy.Stdout = io.Discard
		res, err := buildpipeline.Build(ctx, &reqCopy)
		outcomeCh <- buildOutcome{result: res, err: err}
		close(events)
	}()

	files := []string{filepath.Base(req.Source)}
	model := ui.NewProgressModel(title, files, buildStages, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil && ctx.Err() == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

func runHeadersWithUI(ctx context.Context, title string, files []string, idx *stdlib.Index, opts buildpipeline.HeaderOptions) ([]buildpipeline.HeaderResult, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan headersOutcome, 1)

	go func() {
		opts.Progress = buildpipeline.ChannelSink{Ch: events}
		results, err := buildpipeline.NormalizeHeaders(ctx, files, idx, opts)
		outcomeCh <- headersOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, []buildpipeline.Stage{buildpipeline.StageHeaders}, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil && ctx.Err() == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
