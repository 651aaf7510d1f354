// Package ir defines BetLang's elaborated intermediate representation:
// the same shape as the parsed AST, but with every literal's text
// already parsed into its numeric value and every special form's
// argument list normalized into named fields, grounded on the
// teacher's core/ir (structural-types-only IR, no behavior attached to
// the nodes themselves).
package ir

import (
	"math/big"

	"github.com/aledsdavies/betlang/internal/source"
)

// Node is any IR expression.
type Node interface {
	Span() source.Span
	irNode()
}

// Spanned is embedded by every concrete IR node.
type Spanned struct {
	Sp source.Span
}

func (s Spanned) Span() source.Span { return s.Sp }
func (Spanned) irNode()             {}

// Lit is a fully-parsed literal value.
type Lit struct {
	Spanned
	Value Value
}

// Value is one of: int64, *big.Rat, float64, string, bool, Symbol.
type Value interface{ isValue() }

type Int int64
type Rational struct{ *big.Rat }
type Decimal float64
type Str string
type Bool bool
type Symbol string

func (Int) isValue()      {}
func (Rational) isValue() {}
func (Decimal) isValue()  {}
func (Str) isValue()      {}
func (Bool) isValue()     {}
func (Symbol) isValue()   {}

// Var is a resolved reference to a bound name. Slot and Depth are
// filled in by the elaborator's scope resolution pass; a Var with
// Depth < 0 has not yet been resolved (used only transiently while
// building the IR, never after elaboration succeeds).
type Var struct {
	Spanned
	Name  string
	Depth int // lexical scope hops outward, -1 = unresolved
	Slot  int // index within that scope's frame
}

// Apply is a function application.
type Apply struct {
	Spanned
	Fn   Node
	Args []Node
}

// Builtin is a reference to one of the evaluator's primitive
// operations (arithmetic, comparison, boolean connectives, list
// operations, and the numeric-kernel constructors from spec §5) —
// resolved at elaboration time so the evaluator never pays a name
// lookup for them.
type Builtin struct {
	Spanned
	Name string
}

// TopDefine is a top-level `define name = expr` binding.
type TopDefine struct {
	Spanned
	Name string
	Expr Node
}

// LetBinding is one resolved `let` binding.
type LetBinding struct {
	Name string
	Expr Node
}

// Let introduces bindings in order, each visible to the ones after it
// (spec §4.2's left-to-right binding-scope rule).
type Let struct {
	Spanned
	Bindings []LetBinding
	Body     Node
}

// If is a three-way conditional with a boolean-only condition (spec §5).
type If struct {
	Spanned
	Cond, Then, Else Node
}

// MatchClause pairs a resolved Pattern with its body expression.
type MatchClause struct {
	Pattern Pattern
	Expr    Node
}

// Match is a pattern match over a scrutinee, required exhaustive at
// elaboration time (a non-exhaustive match is a Pattern.NonExhaustive
// diagnostic, advisory by default per spec §7).
type Match struct {
	Spanned
	Scrutinee Node
	Clauses   []MatchClause
}

// Lambda is a closure literal; Arity is len(Params), cached for the
// evaluator's arity checks.
type Lambda struct {
	Spanned
	Params []string
	Arity  int
	Body   Node
}

// Bet is the ternary primitive: evaluate all three arguments, then draw
// i uniformly from {0,1,2} and return the i-th one (spec §4.6).
type Bet struct {
	Spanned
	A, B, C Node
}

// WeightedOutcome pairs a resolved outcome expression with its
// already-validated (but not yet normalized — normalization happens at
// evaluation against the live numeric tolerance) weight expression.
type WeightedOutcome struct {
	Value  Node
	Weight Node
}

// BetWeighted draws from a discrete weighted outcome set (spec §5); its
// weights are Dutch-book-checked at elaboration time. DutchBookSafe is
// set when every weight is a numeric literal and the literals sum to 1
// within 1e-6 (spec §3's elaborated-IR annotation); it stays false
// when a weight is not a literal, since the check
// can then only happen at evaluation time.
type BetWeighted struct {
	Spanned
	Outcomes      []WeightedOutcome
	DutchBookSafe bool
}

// BetConditional is bet-conditional pred t f u: when Pred holds,
// return True directly; otherwise draw uniformly among True, False,
// and Unconditional (equivalent to `bet t f u`), giving the "true"
// value a second chance in the false branch. This asymmetry is the
// reference semantics and is preserved here exactly as specified
// rather than "corrected" to a more intuitive shape.
type BetConditional struct {
	Spanned
	Pred, True, False, Unconditional Node
}

// BetLazy is bet-lazy ta tb tc: each argument is a zero-arity thunk and
// only the one selected by the draw is ever forced, so the untaken
// branches' side effects (if any escape through sample/do) never occur.
type BetLazy struct {
	Spanned
	ThunkA, ThunkB, ThunkC Node
}

// WithSeed temporarily replaces the ambient PRNG stream for the
// duration of Thunk, restoring the prior stream afterward even if
// Thunk panics (spec §4.5).
type WithSeed struct {
	Spanned
	Seed  Node
	Thunk Node
}

// Bind is one `name <- expr` statement inside a Do block.
type Bind struct {
	Name string // empty for a bare-expression statement
	Expr Node
}

// Do sequences Binds left to right, each name visible to subsequent
// binds and to Return, then evaluates Return.
type Do struct {
	Spanned
	Binds  []Bind
	Return Node
}

// Parallel evaluates Body N times against N independently-advanced PRNG
// substreams and collects the results into a list value (spec §5); "parallel"
// names the logical independence of the draws, not concurrent execution —
// BetLang's evaluator is single-threaded (spec Non-goals).
type Parallel struct {
	Spanned
	N    Node
	Body Node
}

// Sample draws one value from an uncertainty-number distribution.
type Sample struct {
	Spanned
	Dist Node
}

// ValidatedBet is the safety-kernel composite special form (spec §3,
// §4.4): Dutch-book-check Probs, enforce the Kelly/risk bound on
// Stake against P and Odds, enforce the cool-off gate, and evaluate to
// Stake; it performs no draw. Unlike Bet/BetWeighted it can fail, on
// the first unsatisfied precondition (spec §7).
type ValidatedBet struct {
	Spanned
	Probs, P, Odds, Stake Node
}

// Program is the elaborated root: top-level defines in declaration
// order followed by the program's result expression, if any (a file
// consisting only of defines — a library — has a nil Result).
type Program struct {
	Defines []TopDefine
	Result  Node
}
