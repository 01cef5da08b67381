package buildpipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExecFeedsInputAndReturnsExitCode(t *testing.T) {
	fx := newFixture(t, 0)
	res, err := Build(context.Background(), &fx.req)
	if err != nil {
		t.Fatal(err)
	}
	input := InputPath(fx.out, fx.src, ".in")
	if input != filepath.Join(fx.out, "sol.in") {
		t.Fatalf("InputPath = %q", input)
	}
	if err := os.WriteFile(input, []byte("3 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	code, err := Exec(context.Background(), ExecRequest{Binary: res.BinaryPath, Input: input, Dir: fx.out, Stdout: &out})
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if code != 7 {
		t.Fatalf("exit code = %d, want 7", code)
	}
	if out.String() != "3 4\n" {
		t.Fatalf("stdout = %q", out.String())
	}
}

func TestExecMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := Exec(context.Background(), ExecRequest{Binary: filepath.Join(dir, "a"), Input: filepath.Join(dir, "a.in")})
	var nf *InputNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want *InputNotFoundError", err)
	}
}

func TestExecMissingBinary(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a.in")
	if err := os.WriteFile(input, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Exec(context.Background(), ExecRequest{Binary: filepath.Join(dir, "a"), Input: input}); err == nil {
		t.Fatal("expected error for a missing binary")
	}
}
