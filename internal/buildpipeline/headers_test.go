package buildpipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestNormalizeHeaders(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	a := write("a.cpp", "std::vector<int> v;\n")
	b := write("b.cpp", "#include <map>//\nint main() {}\n")
	c := write("c.cpp", "#include <cstdio>//\nint main() { printf(\"x\"); }\n")
	missing := filepath.Join(dir, "missing.cpp")

	var mu sync.Mutex
	events := map[string][]Status{}
	sink := SinkFunc(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		events[ev.File] = append(events[ev.File], ev.Status)
	})

	results, err := NormalizeHeaders(context.Background(), []string{a, b, c, missing}, testIndex, HeaderOptions{Jobs: 2, Progress: sink})
	if err != nil {
		t.Fatalf("NormalizeHeaders: %v", err)
	}
	if len(results) != 4 || results[0].Path != a || results[3].Path != missing {
		t.Fatalf("results out of order: %+v", results)
	}
	if !results[0].Result.Changed || !results[1].Result.Changed || results[2].Result.Changed {
		t.Fatalf("changed flags: %v %v %v", results[0].Result.Changed, results[1].Result.Changed, results[2].Result.Changed)
	}
	if results[3].Err == nil {
		t.Fatal("missing file reported no error")
	}
	if got, _ := os.ReadFile(b); string(got) != "int main() {}\n" {
		t.Fatalf("b.cpp = %q", got)
	}
	if st := events[c]; len(st) == 0 || st[len(st)-1] != StatusSkipped {
		t.Fatalf("c.cpp events = %v", st)
	}
	if st := events[missing]; len(st) == 0 || st[len(st)-1] != StatusError {
		t.Fatalf("missing.cpp events = %v", st)
	}
}

func TestNormalizeHeadersDryRun(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.cpp")
	src := "std::cout << 1;\n"
	if err := os.WriteFile(p, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	results, err := NormalizeHeaders(context.Background(), []string{p}, testIndex, HeaderOptions{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Result.Changed {
		t.Fatal("dry run should still report the change")
	}
	if got, _ := os.ReadFile(p); string(got) != src {
		t.Fatal("dry run wrote the file")
	}
}

func TestNormalizeHeadersCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NormalizeHeaders(ctx, []string{"a.cpp"}, testIndex, HeaderOptions{})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestNormalizeFiles(t *testing.T) {
	base := t.TempDir()
	files := []string{
		filepath.Join(base, "b.cpp"),
		filepath.Join(base, "sub", "..", "a.cpp"),
		filepath.Join(base, "a.cpp"),
		"",
	}
	got := NormalizeFiles(files, base)
	if len(got) != 2 || got[0] != "a.cpp" || got[1] != "b.cpp" {
		t.Fatalf("NormalizeFiles = %v", got)
	}
}
