package rewrite

import (
	"strings"
	"testing"

	"ec/internal/scan"
	"ec/internal/stdlib"
)

var testIndex = stdlib.Build()

func rewriteText(t *testing.T, text string) (string, bool) {
	t.Helper()
	res, err := Source([]byte(text), testIndex)
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	return string(res.After), res.Changed
}

func TestInsertsSortedHeadersIntoBareFile(t *testing.T) {
	src := "int main() {\n  std::vector<int> v;\n  std::cout << v.size();\n}\n"
	got, changed := rewriteText(t, src)
	if !changed {
		t.Fatal("expected a rewrite")
	}
	want := "#include <iostream>//\n#include <vector>//\n" + src
	if got != want {
		t.Fatalf("rewrite mismatch:\nwant:\n%s\ngot:\n%s", want, got)
	}
	again, changed := rewriteText(t, got)
	if changed || again != got {
		t.Fatalf("second rewrite changed the file:\n%s", again)
	}
}

func TestAlreadyNormalizedIsUntouched(t *testing.T) {
	src := "#include <iostream>//\n#include <vector>//\nint main() {\n  std::vector<int> v;\n  std::cout << 1;\n}\n"
	got, changed := rewriteText(t, src)
	if changed {
		t.Fatalf("unexpected rewrite:\n%s", got)
	}
	if got != src {
		t.Fatal("After must equal Before when unchanged")
	}
}

func TestRewriteCases(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		want    string
		changed bool
	}{
		{
			name: "no matches",
			src:  "int main() { return 0; }\n",
			want: "int main() { return 0; }\n",
		},
		{
			name:    "stale includes only",
			src:     "#include <vector>//\n#include <map>//\nint main() {}\n",
			want:    "int main() {}\n",
			changed: true,
		},
		{
			name:    "preamble kept above block",
			src:     "// solution\n\n#include <vector>//\nint main() { std::cout << 1; }\n",
			want:    "// solution\n\n#include <iostream>//\nint main() { std::cout << 1; }\n",
			changed: true,
		},
		{
			name:    "scattered includes collapse into first position",
			src:     "#include <map>//\nint a;\n#include <set>//\nstd::set<int> s;\n",
			want:    "#include <set>//\nint a;\nstd::set<int> s;\n",
			changed: true,
		},
		{
			name:    "unknown managed header dropped",
			src:     "#include <bits/stdc++.h>//\nint x = abs(-1);\n",
			want:    "#include <cstdlib>//\nint x = abs(-1);\n",
			changed: true,
		},
		{
			name:    "hand-written include is plain text",
			src:     "#include <vector>\nint main() {}\n",
			want:    "#include <vector>//\n#include <vector>\nint main() {}\n",
			changed: true,
		},
		{
			name:    "file without trailing newline",
			src:     "#include <map>//\nint n = INT_MAX;",
			want:    "#include <climits>//\nint n = INT_MAX;",
			changed: true,
		},
		{
			name: "unsorted but complete block is left alone",
			src:  "#include <vector>//\n#include <iostream>//\nstd::vector<int> v; int main() { std::cout << 1; }\n",
			want: "#include <vector>//\n#include <iostream>//\nstd::vector<int> v; int main() { std::cout << 1; }\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := rewriteText(t, tc.src)
			if changed != tc.changed {
				t.Fatalf("changed = %v, want %v", changed, tc.changed)
			}
			if got != tc.want {
				t.Fatalf("rewrite mismatch:\nwant:\n%q\ngot:\n%q", tc.want, got)
			}
		})
	}
}

var propertyInputs = []string{
	"",
	"\n",
	"int main() {}\n",
	"std::vector<int> v;\n",
	"#include <vector>//\n",
	"/* header */\n#include <map>//\nstd::map<int,int> m; printf(\"%d\", 1);\n#include <queue>//\n",
	"#include <string>//\n#include <algorithm>//\nstd::string s; std::sort(s.begin(), s.end());\n",
	"#include <cmath>//\r\nint main() { return sqrt(4); }\r\n",
	"x\n#include <list>//\ny list z\n#include <list>//\n",
}

func TestRewriteIsIdempotent(t *testing.T) {
	for _, src := range propertyInputs {
		once, _ := rewriteText(t, src)
		twice, changed := rewriteText(t, once)
		if changed || twice != once {
			t.Fatalf("not idempotent for %q:\nonce:  %q\ntwice: %q", src, once, twice)
		}
	}
}

// stripManaged removes every managed include line from text.
func stripManaged(text string) string {
	ms := scan.Scan([]byte(text), testIndex)
	var b strings.Builder
	var prev uint32
	for _, m := range ms {
		if m.Kind != scan.KindInclude {
			continue
		}
		b.WriteString(text[prev:m.Span.Start])
		prev = m.Span.End
	}
	b.WriteString(text[prev:])
	return b.String()
}

func TestRewriteOnlyTouchesIncludeLines(t *testing.T) {
	for _, src := range propertyInputs {
		out, _ := rewriteText(t, src)
		if stripManaged(out) != stripManaged(src) {
			t.Fatalf("non-include text changed for %q:\nbefore: %q\nafter:  %q", src, stripManaged(src), stripManaged(out))
		}
	}
}

func TestBlockIsSorted(t *testing.T) {
	out, _ := rewriteText(t, "std::vector<int> v; std::map<int,int> m; std::cout << abs(1); std::deque<int> d;\n")
	ms := scan.Scan([]byte(out), testIndex)
	var hs []string
	for _, m := range ms {
		if m.Kind == scan.KindInclude {
			hs = append(hs, m.Header)
		}
	}
	if strings.Join(hs, ",") != "cstdlib,deque,iostream,map,vector" {
		t.Fatalf("block = %v", hs)
	}
}

func TestNeededIgnoresOrderAndMultiplicity(t *testing.T) {
	a := []byte("std::cout << 1; std::vector<int> v; std::cout << 2;\n")
	b := []byte("std::vector<int> w;\nstd::cout << 3;\n")
	pa := NewPlan(scan.Scan(a, testIndex), a)
	pb := NewPlan(scan.Scan(b, testIndex), b)
	if strings.Join(pa.Needed, ",") != strings.Join(pb.Needed, ",") {
		t.Fatalf("Needed differs: %v vs %v", pa.Needed, pb.Needed)
	}
}

func TestPlanPreambleFlag(t *testing.T) {
	cases := []struct {
		src      string
		preamble bool
		frags    int
	}{
		{"#include <vector>//\nrest\n", false, 1},
		{"// c\n#include <vector>//\nrest\n", true, 2},
		{"vector\n", false, 1},
		{"#include <vector>//\n", false, 0},
		{scan.BOM + "#include <vector>//\nrest\n", true, 2},
		{scan.BOM + "vector\n", true, 2},
		{scan.BOM, true, 1},
	}
	for _, tc := range cases {
		text := []byte(tc.src)
		p := NewPlan(scan.Scan(text, testIndex), text)
		if p.Preamble != tc.preamble || len(p.Fragments) != tc.frags {
			t.Fatalf("NewPlan(%q): preamble=%v frags=%d, want %v %d", tc.src, p.Preamble, len(p.Fragments), tc.preamble, tc.frags)
		}
	}
}

func TestRewriteKeepsLeadingBOM(t *testing.T) {
	const bom = scan.BOM
	cases := []struct {
		name    string
		src     string
		want    string
		changed bool
	}{
		{
			name: "normalized",
			src:  bom + "#include <vector>//\nstd::vector<int> v;\n",
			want: bom + "#include <vector>//\nstd::vector<int> v;\n",
		},
		{
			name:    "bare file",
			src:     bom + "std::vector<int> v;\n",
			want:    bom + "#include <vector>//\nstd::vector<int> v;\n",
			changed: true,
		},
		{
			name:    "stale block",
			src:     bom + "#include <map>//\nstd::vector<int> v;\n",
			want:    bom + "#include <vector>//\nstd::vector<int> v;\n",
			changed: true,
		},
		{
			name:    "comment before block",
			src:     bom + "// a\n#include <map>//\nstd::set<int> s;\n",
			want:    bom + "// a\n#include <set>//\nstd::set<int> s;\n",
			changed: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := rewriteText(t, tc.src)
			if changed != tc.changed || got != tc.want {
				t.Fatalf("rewrite = %q (changed=%v), want %q (changed=%v)", got, changed, tc.want, tc.changed)
			}
			if again, changed := rewriteText(t, got); changed {
				t.Fatalf("second rewrite changed the file: %q", again)
			}
		})
	}
}

func TestPlanAddedRemoved(t *testing.T) {
	text := []byte("#include <map>//\n#include <vector>//\nstd::vector<int> v; std::cout << 1;\n")
	p := NewPlan(scan.Scan(text, testIndex), text)
	if got := strings.Join(p.Added(), ","); got != "iostream" {
		t.Fatalf("Added = %q", got)
	}
	if got := strings.Join(p.Removed(), ","); got != "map" {
		t.Fatalf("Removed = %q", got)
	}
}
