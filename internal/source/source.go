// Package source resolves byte offsets to line/column positions and
// carries the spans that every token, AST node, and diagnostic in
// BetLang is annotated with.
package source

import (
	"fmt"
	"sort"
)

// Pos is a single location in a source file: a byte offset plus its
// resolved line and column (both 1-indexed, matching editor convention).
type Pos struct {
	Offset int
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open byte range [Start, End) in a single file, carried
// by every token, AST node, and diagnostic so errors can point at
// exactly the text that caused them.
type Span struct {
	File  string
	Start Pos
	End   Pos
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%s-%s", s.Start, s.End)
	}
	return fmt.Sprintf("%s:%s-%s", s.File, s.Start, s.End)
}

// Merge returns the smallest span covering both s and other. Used when
// an AST node's span must cover all of its children (e.g. a `bet`
// expression spans from its keyword through its last argument).
func (s Span) Merge(other Span) Span {
	merged := s
	if other.Start.Offset < merged.Start.Offset {
		merged.Start = other.Start
	}
	if other.End.Offset > merged.End.Offset {
		merged.End = other.End
	}
	return merged
}

// Contains reports whether offset falls within the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

// Map resolves byte offsets within one file to line/column positions.
// Built once per file from its raw text; lexer, parser, and diagnostics
// all share the same Map instance so their positions agree.
type Map struct {
	file       string
	text       string
	lineStarts []int // byte offset of the first byte of each line
}

// NewMap indexes the byte offsets of every line start in text.
func NewMap(file, text string) *Map {
	starts := []int{0}
	for i, b := range []byte(text) {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Map{file: file, text: text, lineStarts: starts}
}

// Pos resolves a byte offset into a line/column position.
func (m *Map) Pos(offset int) Pos {
	// lineStarts is sorted; find the last line start <= offset.
	i := sort.Search(len(m.lineStarts), func(i int) bool {
		return m.lineStarts[i] > offset
	})
	line := i // 1-indexed since lineStarts[0] == 0 covers line 1
	if line < 1 {
		line = 1
	}
	col := offset - m.lineStarts[line-1] + 1
	return Pos{Offset: offset, Line: line, Column: col}
}

// Span builds a Span from a pair of byte offsets in this file.
func (m *Map) Span(start, end int) Span {
	return Span{File: m.file, Start: m.Pos(start), End: m.Pos(end)}
}

// Line returns the raw text of the given 1-indexed line, without its
// trailing newline. Used to render diagnostic snippets.
func (m *Map) Line(n int) string {
	if n < 1 || n > len(m.lineStarts) {
		return ""
	}
	start := m.lineStarts[n-1]
	end := len(m.text)
	if n < len(m.lineStarts) {
		end = m.lineStarts[n] - 1
	}
	if end > len(m.text) {
		end = len(m.text)
	}
	if start > end {
		return ""
	}
	line := m.text[start:end]
	for len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return line
}
