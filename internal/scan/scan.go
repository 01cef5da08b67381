// Package scan finds managed include lines and standard-library symbol uses
// in C++ source text.
//
// It is a single forward pass over bytes, not a preprocessor: it recognizes
//
//	#include <NAME>//
//
// at the start of a line (the exact form produced by HeaderLine; a leading
// byte order mark does not count as text on the first line), and any
// identifier token that the symbol index knows. Comments and string literals
// are not special; a symbol named inside a comment still counts.
package scan

import (
	"bytes"
	"fmt"
	"unicode"

	"ec/internal/stdlib"
)

// Kind tags a Match.
type Kind uint8

const (
	// KindInclude is a managed include line.
	KindInclude Kind = iota + 1
	// KindSymbol is a use of a recognized identifier.
	KindSymbol
)

func (k Kind) String() string {
	switch k {
	case KindInclude:
		return "include"
	case KindSymbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// Span is a half-open byte range [Start, End).
type Span struct {
	Start uint32
	End   uint32
}

// Len returns the number of bytes covered.
func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Match is one point of interest in the text.
//
// For KindInclude, Header is the name between the angle brackets and Span
// covers the whole line including its trailing newline. For KindSymbol,
// Symbol is the identifier, Header the header that declares it, and Span the
// identifier token.
type Match struct {
	Kind   Kind
	Header string
	Symbol string
	Span   Span
}

// Scan returns the matches in text in increasing offset order. Matches never
// overlap. The index is only read.
func Scan(text []byte, idx *stdlib.Index) []Match {
	c := newCursor(text)
	c.advance(BOMLen(text))
	var out []Match
	lineStart := true
	for !c.eof() {
		if lineStart {
			if m, ok := scanInclude(&c); ok {
				out = append(out, m)
				continue
			}
		}
		r, sz := c.peekRune()
		if !isWordRune(r) {
			c.advance(sz)
			lineStart = r == '\n'
			continue
		}
		lineStart = false
		start := c.mark()
		scanWord(&c)
		sp := c.spanFrom(start)
		word := string(text[sp.Start:sp.End])
		if header, ok := idx.Lookup(word); ok {
			out = append(out, Match{Kind: KindSymbol, Symbol: word, Header: header, Span: sp})
		}
	}
	return out
}

// scanInclude consumes a managed include line at the cursor. The cursor is
// left untouched when the line does not have the template form.
func scanInclude(c *cursor) (Match, bool) {
	rest := c.rest()
	if !bytes.HasPrefix(rest, []byte(includePrefix)) {
		return Match{}, false
	}
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 {
		return Match{}, false
	}
	line := rest[:nl]
	if len(line) < len(includePrefix)+len(includeSuffix) || !bytes.HasSuffix(line, []byte(includeSuffix)) {
		return Match{}, false
	}
	name := string(line[len(includePrefix) : len(line)-len(includeSuffix)])
	start := c.mark()
	c.advance(nl + 1)
	return Match{Kind: KindInclude, Header: name, Span: c.spanFrom(start)}, true
}

// scanWord consumes a maximal run of identifier characters.
func scanWord(c *cursor) {
	for !c.eof() {
		b := c.peek()
		if b < 0x80 {
			if !isWordByte(b) {
				return
			}
			c.bump()
			continue
		}
		r, sz := c.peekRune()
		if !isWordRune(r) {
			return
		}
		c.advance(sz)
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

func isWordRune(r rune) bool {
	if r < 0x80 {
		return isWordByte(byte(r))
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
