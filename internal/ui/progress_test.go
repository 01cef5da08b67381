package ui

import (
	"errors"
	"strings"
	"testing"

	"ec/internal/buildpipeline"
)

func newTestModel(files []string, stages []buildpipeline.Stage) *progressModel {
	events := make(chan buildpipeline.Event)
	return NewProgressModel("build", files, stages, events).(*progressModel)
}

func TestProgressTracksStages(t *testing.T) {
	stages := []buildpipeline.Stage{buildpipeline.StageRead, buildpipeline.StageHeaders, buildpipeline.StageCompile, buildpipeline.StageStore}
	m := newTestModel([]string{"a.cpp"}, stages)

	steps := []struct {
		ev     buildpipeline.Event
		status string
		pct    float64
	}{
		{buildpipeline.Event{File: "a.cpp", Stage: buildpipeline.StageRead, Status: buildpipeline.StatusWorking}, "reading", 0.125},
		{buildpipeline.Event{File: "a.cpp", Stage: buildpipeline.StageRead, Status: buildpipeline.StatusDone}, "done", 0.25},
		{buildpipeline.Event{File: "a.cpp", Stage: buildpipeline.StageHeaders, Status: buildpipeline.StatusSkipped}, "unchanged", 0.5},
		{buildpipeline.Event{File: "a.cpp", Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusWorking}, "compiling", 0.625},
		{buildpipeline.Event{File: "a.cpp", Stage: buildpipeline.StageCompile, Status: buildpipeline.StatusDone}, "compiled", 0.75},
		{buildpipeline.Event{File: "a.cpp", Stage: buildpipeline.StageStore, Status: buildpipeline.StatusDone}, "stored", 1},
	}
	for _, st := range steps {
		m.applyEvent(st.ev)
		if got := m.items[0].status; got != st.status {
			t.Fatalf("after %s:%s status = %q, want %q", st.ev.Stage, st.ev.Status, got, st.status)
		}
		if got := m.percent(); got != st.pct {
			t.Fatalf("after %s:%s percent = %v, want %v", st.ev.Stage, st.ev.Status, got, st.pct)
		}
	}
}

func TestProgressErrorIsFinal(t *testing.T) {
	m := newTestModel([]string{"a.cpp", "b.cpp"}, []buildpipeline.Stage{buildpipeline.StageHeaders})
	m.applyEvent(buildpipeline.Event{File: "a.cpp", Stage: buildpipeline.StageHeaders, Status: buildpipeline.StatusError, Err: errors.New("boom")})
	m.applyEvent(buildpipeline.Event{File: "a.cpp", Stage: buildpipeline.StageHeaders, Status: buildpipeline.StatusDone})
	m.applyEvent(buildpipeline.Event{File: "unknown.cpp", Stage: buildpipeline.StageHeaders, Status: buildpipeline.StatusDone})

	if got := m.items[0].status; got != "error" {
		t.Fatalf("status after error = %q", got)
	}
	if got := m.items[1].status; got != "queued" {
		t.Fatalf("untouched file status = %q", got)
	}
	if got := m.percent(); got != 0.5 {
		t.Fatalf("percent = %v, want 0.5", got)
	}
}

func TestProgressView(t *testing.T) {
	m := newTestModel([]string{"src/a.cpp"}, []buildpipeline.Stage{buildpipeline.StageHeaders})
	m.applyEvent(buildpipeline.Event{File: "src/a.cpp", Stage: buildpipeline.StageHeaders, Status: buildpipeline.StatusDone})
	m.Update(doneMsg{})

	view := m.View()
	for _, want := range []string{"done: build", "rewritten", "src/a.cpp"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.cpp", 20, "short.cpp"},
		{"a/very/long/path/to/file.cpp", 10, "a/very/..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
