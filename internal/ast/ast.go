// Package ast defines BetLang's immutable, span-annotated abstract
// syntax tree — the single representation both surface syntaxes
// (S-expression and keyword/`end`) parse into, grounded on the shape of
// the teacher's core/ast.Node (Position/TokenRange-carrying nodes) but
// restructured around expressions instead of shell commands.
package ast

import "github.com/aledsdavies/betlang/internal/source"

// Node is any AST expression. All nodes are immutable once built (spec
// §3 invariant i).
type Node interface {
	Span() source.Span
	exprNode()
}

// Spanned is embedded by every concrete node to provide its Span() and
// satisfy exprNode(); Sp is exported so parser code can set it directly
// in a struct literal.
type Spanned struct {
	Sp source.Span
}

func (s Spanned) Span() source.Span { return s.Sp }
func (Spanned) exprNode()           {}

// Literal is a number, string, boolean, or symbol constant.
type Literal struct {
	Spanned
	Kind LiteralKind
	// Raw carries the literal text exactly as written; the elaborator
	// decides how to parse it (int / rational / decimal) using the
	// configured numeric representation.
	Raw string
}

type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitRational
	LitDecimal
	LitString
	LitBool
	LitSymbol
)

// Ident is a reference to a bound name.
type Ident struct {
	Spanned
	Name string
}

// Apply is a function application `(f arg*)`.
type Apply struct {
	Spanned
	Fn   Node
	Args []Node
}

// Define is a top-level binding `define name = expr`.
type Define struct {
	Spanned
	Name string
	Expr Node
}

// Binding is one `(name value)` pair in a `let`.
type Binding struct {
	Name  string
	Value Node
}

// Let is `let [(n v) …] in body`.
type Let struct {
	Spanned
	Bindings []Binding
	Body     Node
}

// If is `if cond then a else b`.
type If struct {
	Spanned
	Cond, Then, Else Node
}

// MatchClause is one `pattern -> expr` arm of a match.
type MatchClause struct {
	Pattern Pattern
	Expr    Node
}

// Match is `match scrutinee with [(pattern -> expr) …]`.
type Match struct {
	Spanned
	Scrutinee Node
	Clauses   []MatchClause
}

// Lambda is `lambda params body`.
type Lambda struct {
	Spanned
	Params []string
	Body   Node
}

// Bet is the ternary bet primitive `bet a b c`.
type Bet struct {
	Spanned
	A, B, C Node
}

// WeightedOutcome is one `(value, weight)` pair of a bet-weighted form.
type WeightedOutcome struct {
	Value  Node
	Weight Node
}

// BetWeighted is `bet-weighted [(v₁,w₁)…(vₙ,wₙ)]`.
type BetWeighted struct {
	Spanned
	Outcomes []WeightedOutcome
}

// BetConditional is `bet-conditional pred t f u`.
type BetConditional struct {
	Spanned
	Pred, True, False, Unconditional Node
}

// BetLazy is `bet-lazy ta tb tc`, where each argument is a zero-argument
// closure (thunk) and only the selected one is ever forced.
type BetLazy struct {
	Spanned
	ThunkA, ThunkB, ThunkC Node
}

// WithSeed is `with-seed s thunk`.
type WithSeed struct {
	Spanned
	Seed  Node
	Thunk Node
}

// Stmt is one statement inside a `do` block: either a bind (`name <-
// expr`) or a bare expression evaluated for effect/sequencing.
type Stmt struct {
	BindName string // empty for a bare expression statement
	Expr     Node
}

// Do is `do [stmt …] return expr`.
type Do struct {
	Spanned
	Stmts  []Stmt
	Return Node
}

// Parallel is `parallel n body`: a logical fan-out of n independent
// samples of body, realized sequentially (spec §5).
type Parallel struct {
	Spanned
	N    Node
	Body Node
}

// Sample is `sample dist`: draw a value from an uncertainty variant.
type Sample struct {
	Spanned
	Dist Node
}

// ValidatedBet is `validated-bet probs p odds stake`: the safety-kernel
// composite (spec §3, §4.4) that Dutch-book-checks probs, enforces the
// Kelly/risk bound on stake, and enforces the cool-off gate. It
// evaluates to stake once every check passes; it performs no draw.
type ValidatedBet struct {
	Spanned
	Probs, P, Odds, Stake Node
}

// Program is the root of a parsed file: a sequence of top-level forms.
type Program struct {
	Forms []Node
}
