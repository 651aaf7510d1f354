package ast

import "github.com/aledsdavies/betlang/internal/source"

// Pattern is a match-clause pattern: literal, wildcard, variable
// binding, list destructure, or tag match (spec §3).
type Pattern interface {
	Span() source.Span
	patternNode()
}

// SpannedPattern is embedded by every concrete pattern to provide its
// Span() and satisfy patternNode().
type SpannedPattern struct {
	Sp source.Span
}

func (s SpannedPattern) Span() source.Span { return s.Sp }
func (SpannedPattern) patternNode()        {}

// LiteralPattern matches an exact literal value.
type LiteralPattern struct {
	SpannedPattern
	Kind LiteralKind
	Raw  string
}

// WildcardPattern (`_`) matches anything and binds nothing.
type WildcardPattern struct {
	SpannedPattern
}

// VarPattern binds the scrutinee to Name unconditionally.
type VarPattern struct {
	SpannedPattern
	Name string
}

// ListPattern matches a list value whose elements each match Elems, in
// order.
type ListPattern struct {
	SpannedPattern
	Elems []Pattern
}

// TagPattern matches a tagged value (e.g. an uncertainty variant's
// constructor tag) by name, destructuring its fields.
type TagPattern struct {
	SpannedPattern
	Tag    string
	Fields []Pattern
}
