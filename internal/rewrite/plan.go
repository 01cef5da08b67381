// Package rewrite regenerates the managed include block of a source file from
// the symbols the file uses.
package rewrite

import (
	"bytes"
	"sort"

	"ec/internal/scan"
)

// Plan is the rewrite derived from one scan. It is computed, never stored.
type Plan struct {
	// Needed holds the headers owning the symbols used, sorted.
	Needed []string
	// Existing holds the headers named by managed include lines, sorted.
	Existing []string
	// Fragments are the text between include lines, in file order. Symbol
	// matches do not split fragments.
	Fragments []string
	// Preamble is set when Fragments[0] is text that precedes the first
	// include line, or a leading byte order mark, and must stay above the
	// regenerated block.
	Preamble bool
	// Matches counts all scan matches.
	Matches int
}

// NewPlan partitions matches and cuts text around include lines. matches must
// come from scan.Scan over the same text.
func NewPlan(matches []scan.Match, text []byte) Plan {
	needed := make(map[string]struct{})
	existing := make(map[string]struct{})
	p := Plan{Matches: len(matches)}

	var prev uint32
	seenInclude := false
	for _, m := range matches {
		switch m.Kind {
		case scan.KindSymbol:
			needed[m.Header] = struct{}{}
		case scan.KindInclude:
			existing[m.Header] = struct{}{}
			if !seenInclude {
				p.Preamble = m.Span.Start > 0
				seenInclude = true
			}
			if prev != m.Span.Start {
				p.Fragments = append(p.Fragments, string(text[prev:m.Span.Start]))
			}
			prev = m.Span.End
		}
	}
	if int(prev) < len(text) {
		p.Fragments = append(p.Fragments, string(text[prev:]))
	}
	if n := scan.BOMLen(text); !seenInclude && n > 0 {
		p.Preamble = true
		p.Fragments = []string{string(text[:n])}
		if len(text) > n {
			p.Fragments = append(p.Fragments, string(text[n:]))
		}
	}
	p.Needed = sortedKeys(needed)
	p.Existing = sortedKeys(existing)
	return p
}

// UpToDate reports whether applying the plan would leave the text as is.
func (p Plan) UpToDate() bool {
	if p.Matches == 0 {
		return true
	}
	if len(p.Needed) != len(p.Existing) {
		return false
	}
	for i := range p.Needed {
		if p.Needed[i] != p.Existing[i] {
			return false
		}
	}
	return true
}

// Added returns headers the rewrite would introduce.
func (p Plan) Added() []string {
	return difference(p.Needed, p.Existing)
}

// Removed returns headers the rewrite would drop.
func (p Plan) Removed() []string {
	return difference(p.Existing, p.Needed)
}

// Apply renders the rewritten text. It returns false when the file is already
// normalized, in which case the returned slice is nil.
func Apply(p Plan) ([]byte, bool) {
	if p.UpToDate() {
		return nil, false
	}
	var b bytes.Buffer
	frags := p.Fragments
	if p.Preamble {
		b.WriteString(frags[0])
		frags = frags[1:]
	}
	for _, h := range p.Needed {
		b.WriteString(scan.HeaderLine(h))
	}
	for _, f := range frags {
		b.WriteString(f)
	}
	return b.Bytes(), true
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// difference returns a \ b for sorted inputs.
func difference(a, b []string) []string {
	var out []string
	j := 0
	for _, s := range a {
		for j < len(b) && b[j] < s {
			j++
		}
		if j < len(b) && b[j] == s {
			continue
		}
		out = append(out, s)
	}
	return out
}
