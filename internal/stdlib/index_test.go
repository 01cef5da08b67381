package stdlib

import (
	"sort"
	"testing"
)

func TestLookup(t *testing.T) {
	idx := Build()
	cases := []struct {
		symbol string
		header string
		ok     bool
	}{
		{"vector", "vector", true},
		{"cout", "iostream", true},
		{"max", "algorithm", true},
		{"move", "algorithm", true},
		{"make_pair", "utility", true},
		{"INT_MAX", "climits", true},
		{"size_t", "cstdlib", true},
		{"maximum", "", false},
		{"Vector", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := idx.Lookup(tc.symbol)
		if ok != tc.ok || got != tc.header {
			t.Fatalf("Lookup(%q) = %q, %v; want %q, %v", tc.symbol, got, ok, tc.header, tc.ok)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	a, b := Build(), Build()
	if a.Len() != b.Len() {
		t.Fatalf("Len differs: %d vs %d", a.Len(), b.Len())
	}
	for _, h := range a.Headers() {
		for _, sym := range a.Symbols(h) {
			got, ok := b.Lookup(sym)
			if !ok || got != h {
				t.Fatalf("second index maps %q to %q, want %q", sym, got, h)
			}
		}
	}
}

func TestHeadersSortedAndComplete(t *testing.T) {
	idx := Build()
	headers := idx.Headers()
	if len(headers) != len(table) {
		t.Fatalf("got %d headers, want %d", len(headers), len(table))
	}
	if !sort.StringsAreSorted(headers) {
		t.Fatalf("headers are not sorted: %v", headers)
	}
	total := 0
	for _, h := range headers {
		syms := idx.Symbols(h)
		if len(syms) == 0 {
			t.Fatalf("header %q owns no symbols", h)
		}
		total += len(syms)
	}
	if total != idx.Len() {
		t.Fatalf("symbols across headers = %d, Len() = %d", total, idx.Len())
	}
}

func TestHeadersReturnsCopy(t *testing.T) {
	idx := Build()
	hs := idx.Headers()
	hs[0] = "mutated"
	if idx.Headers()[0] == "mutated" {
		t.Fatal("Headers exposes internal slice")
	}
}

func TestNilIndex(t *testing.T) {
	var idx *Index
	if _, ok := idx.Lookup("vector"); ok {
		t.Fatal("nil index must not resolve symbols")
	}
	if idx.Len() != 0 || idx.Headers() != nil {
		t.Fatal("nil index must be empty")
	}
}
