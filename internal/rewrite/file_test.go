package rewrite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o640); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestFileRewritesInPlace(t *testing.T) {
	path := writeSource(t, "a.cpp", "int main() { std::vector<int> v; }\n")
	res, err := File(context.Background(), path, testIndex, false)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if !res.Changed {
		t.Fatal("expected a rewrite")
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "#include <vector>//\nint main() { std::vector<int> v; }\n" {
		t.Fatalf("file content = %q", got)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0o640 {
		t.Fatalf("mode = %v, want 0640", info.Mode().Perm())
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %v", entries)
	}
}

func TestFileDryRunLeavesDisk(t *testing.T) {
	src := "int main() { std::cout << 1; }\n"
	path := writeSource(t, "a.cpp", src)
	res, err := File(context.Background(), path, testIndex, true)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if !res.Changed || !strings.HasPrefix(string(res.After), "#include <iostream>//\n") {
		t.Fatalf("unexpected result: %+v", res)
	}
	got, _ := os.ReadFile(path)
	if string(got) != src {
		t.Fatalf("dry run modified file: %q", got)
	}
}

func TestFileUnchangedIsNotWritten(t *testing.T) {
	src := "#include <iostream>//\nint main() { std::cout << 1; }\n"
	path := writeSource(t, "a.cpp", src)
	before, _ := os.Stat(path)
	res, err := File(context.Background(), path, testIndex, false)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if res.Changed {
		t.Fatal("unexpected rewrite")
	}
	after, _ := os.Stat(path)
	if !after.ModTime().Equal(before.ModTime()) {
		t.Fatal("file touched although unchanged")
	}
}

func TestFileMissing(t *testing.T) {
	_, err := File(context.Background(), filepath.Join(t.TempDir(), "nope.cpp"), testIndex, false)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var we *WriteError
	if errors.As(err, &we) {
		t.Fatalf("read failure reported as WriteError: %v", err)
	}
}

func TestFileReadOnlyReportsWriteError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	src := "int main() { std::vector<int> v; }\n"
	path := writeSource(t, "ro.cpp", src)
	if err := os.Chmod(path, 0o444); err != nil {
		t.Fatal(err)
	}
	res, err := File(context.Background(), path, testIndex, false)
	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("err = %v, want *WriteError", err)
	}
	if we.Path != path {
		t.Fatalf("WriteError.Path = %q", we.Path)
	}
	if !res.Changed {
		t.Fatal("result should still describe the needed rewrite")
	}
	got, _ := os.ReadFile(path)
	if string(got) != src {
		t.Fatalf("original modified: %q", got)
	}
}

func TestDiff(t *testing.T) {
	before := []byte("int main() { std::vector<int> v; }\n")
	after := []byte("#include <vector>//\nint main() { std::vector<int> v; }\n")
	d := Diff("a.cpp", before, after)
	for _, want := range []string{"--- a/a.cpp", "+++ b/a.cpp", "+#include <vector>//\n", " int main()"} {
		if !strings.Contains(d, want) {
			t.Fatalf("diff missing %q:\n%s", want, d)
		}
	}
	if Diff("a.cpp", before, before) != "" {
		t.Fatal("diff of equal texts must be empty")
	}
}
