// Package stdlib maps C++ standard-library identifiers to the header that
// declares them.
package stdlib

import (
	"fmt"
	"sort"
	"strings"
)

// Index is an immutable symbol -> header mapping. The zero value is empty
// but usable.
type Index struct {
	byName   map[string]string
	byHeader map[string][]string
	headers  []string
}

// Build constructs the index from the static table. It is deterministic and
// cheap enough to call once at process start.
func Build() *Index {
	idx := &Index{
		byName:   make(map[string]string, 640),
		byHeader: make(map[string][]string, len(table)),
	}
	for _, entry := range table {
		symbols := strings.Fields(entry.symbols)
		for _, sym := range symbols {
			if prev, dup := idx.byName[sym]; dup {
				// static table bug, not an input error
				panic(fmt.Sprintf("stdlib: symbol %q listed under both <%s> and <%s>", sym, prev, entry.header))
			}
			idx.byName[sym] = entry.header
		}
		if _, seen := idx.byHeader[entry.header]; !seen {
			idx.headers = append(idx.headers, entry.header)
		}
		idx.byHeader[entry.header] = append(idx.byHeader[entry.header], symbols...)
	}
	sort.Strings(idx.headers)
	for _, syms := range idx.byHeader {
		sort.Strings(syms)
	}
	return idx
}

// Lookup returns the header owning symbol. Only exact identifier matches are
// recognized; callers are expected to pass whole tokens.
func (idx *Index) Lookup(symbol string) (string, bool) {
	if idx == nil {
		return "", false
	}
	h, ok := idx.byName[symbol]
	return h, ok
}

// Len reports the number of recognized symbols.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.byName)
}

// Headers returns every header that owns at least one symbol, sorted.
func (idx *Index) Headers() []string {
	if idx == nil {
		return nil
	}
	return append([]string(nil), idx.headers...)
}

// Symbols returns the sorted symbols owned by header.
func (idx *Index) Symbols(header string) []string {
	if idx == nil {
		return nil
	}
	return append([]string(nil), idx.byHeader[header]...)
}
