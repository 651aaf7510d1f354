// Package elaborate lowers a parsed ast.Program into the elaborated
// ir.Program: it resolves every name reference to a lexical (depth,
// slot) pair or a builtin, parses literal text into typed values,
// checks call arity where it is known statically, Dutch-book-checks
// constant-weighted bet forms, and flags non-exhaustive matches —
// grounded on the teacher's runtime/ir/transform.go AST->IR pass, with
// the scope-resolution and static-check machinery added for BetLang's
// binding-form-heavy grammar (the teacher's command language has no
// analogous lexical scoping to resolve).
package elaborate

import (
	"math/big"
	"strconv"

	"github.com/aledsdavies/betlang/internal/ast"
	"github.com/aledsdavies/betlang/internal/diag"
	"github.com/aledsdavies/betlang/internal/ir"
)

// Elaborator carries the diagnostic bus threaded through a single
// elaboration run.
type Elaborator struct {
	bus *diag.Bus
}

// New returns an Elaborator reporting to bus.
func New(bus *diag.Bus) *Elaborator {
	return &Elaborator{bus: bus}
}

// Elaborate lowers prog into its IR. It keeps going past individual
// errors so the bus can report more than one problem per run, but
// returns a non-nil error (in addition to whatever lives on the bus)
// if any Error-severity diagnostic was raised.
func (e *Elaborator) Elaborate(prog *ast.Program) (*ir.Program, error) {
	top := newScope(nil)
	var defines []ir.TopDefine
	var result ir.Node

	for _, form := range prog.Forms {
		if def, ok := form.(*ast.Define); ok {
			top.bind(def.Name)
			expr, err := e.transformExpr(def.Expr, top)
			if err != nil {
				continue
			}
			defines = append(defines, ir.TopDefine{
				Spanned: ir.Spanned{Sp: def.Span()},
				Name:    def.Name,
				Expr:    expr,
			})
			continue
		}
		expr, err := e.transformExpr(form, top)
		if err != nil {
			continue
		}
		result = expr
	}

	if e.bus.HasErrors() {
		return nil, diag.New(diag.Error, diag.KindEvalAborted, source0(), "elaboration failed with %d error(s)", countErrors(e.bus))
	}
	return &ir.Program{Defines: defines, Result: result}, nil
}

func countErrors(bus *diag.Bus) int {
	n := 0
	for _, d := range bus.All() {
		if d.Severity == diag.Error {
			n++
		}
	}
	return n
}

// transformExpr lowers one AST node under scope s, reporting and
// returning an error on the first unrecoverable problem within this
// node (siblings at the caller's level are still attempted).
func (e *Elaborator) transformExpr(n ast.Node, s *scope) (ir.Node, error) {
	switch node := n.(type) {
	case *ast.Literal:
		return e.transformLiteral(node)
	case *ast.Ident:
		return e.transformIdent(node, s)
	case *ast.Apply:
		return e.transformApply(node, s)
	case *ast.Let:
		return e.transformLet(node, s)
	case *ast.If:
		cond, err := e.transformExpr(node.Cond, s)
		if err != nil {
			return nil, err
		}
		then, err := e.transformExpr(node.Then, s)
		if err != nil {
			return nil, err
		}
		els, err := e.transformExpr(node.Else, s)
		if err != nil {
			return nil, err
		}
		return &ir.If{Spanned: ir.Spanned{Sp: node.Span()}, Cond: cond, Then: then, Else: els}, nil
	case *ast.Match:
		return e.transformMatch(node, s)
	case *ast.Lambda:
		return e.transformLambda(node, s)
	case *ast.Bet:
		return e.transformBet(node, s)
	case *ast.BetWeighted:
		return e.transformBetWeighted(node, s)
	case *ast.BetConditional:
		pred, err := e.transformExpr(node.Pred, s)
		if err != nil {
			return nil, err
		}
		tr, err := e.transformExpr(node.True, s)
		if err != nil {
			return nil, err
		}
		fl, err := e.transformExpr(node.False, s)
		if err != nil {
			return nil, err
		}
		un, err := e.transformExpr(node.Unconditional, s)
		if err != nil {
			return nil, err
		}
		return &ir.BetConditional{Spanned: ir.Spanned{Sp: node.Span()}, Pred: pred, True: tr, False: fl, Unconditional: un}, nil
	case *ast.BetLazy:
		ta, err := e.transformExpr(node.ThunkA, s)
		if err != nil {
			return nil, err
		}
		tb, err := e.transformExpr(node.ThunkB, s)
		if err != nil {
			return nil, err
		}
		tc, err := e.transformExpr(node.ThunkC, s)
		if err != nil {
			return nil, err
		}
		return &ir.BetLazy{Spanned: ir.Spanned{Sp: node.Span()}, ThunkA: ta, ThunkB: tb, ThunkC: tc}, nil
	case *ast.WithSeed:
		seed, err := e.transformExpr(node.Seed, s)
		if err != nil {
			return nil, err
		}
		thunk, err := e.transformExpr(node.Thunk, s)
		if err != nil {
			return nil, err
		}
		return &ir.WithSeed{Spanned: ir.Spanned{Sp: node.Span()}, Seed: seed, Thunk: thunk}, nil
	case *ast.Do:
		return e.transformDo(node, s)
	case *ast.Parallel:
		nExpr, err := e.transformExpr(node.N, s)
		if err != nil {
			return nil, err
		}
		body, err := e.transformExpr(node.Body, s)
		if err != nil {
			return nil, err
		}
		return &ir.Parallel{Spanned: ir.Spanned{Sp: node.Span()}, N: nExpr, Body: body}, nil
	case *ast.Sample:
		dist, err := e.transformExpr(node.Dist, s)
		if err != nil {
			return nil, err
		}
		return &ir.Sample{Spanned: ir.Spanned{Sp: node.Span()}, Dist: dist}, nil
	case *ast.ValidatedBet:
		return e.transformValidatedBet(node, s)
	default:
		e.bus.Errorf(diag.KindParseUnexpected, n.Span(), "internal: unhandled node type %T", n)
		return nil, errUnhandled
	}
}

func (e *Elaborator) transformLiteral(lit *ast.Literal) (ir.Node, error) {
	val, err := parseLiteral(lit.Kind, lit.Raw)
	if err != nil {
		e.bus.Errorf(diag.KindNumericDomainError, lit.Span(), "invalid %s literal %q: %v", litKindName(lit.Kind), lit.Raw, err)
		return nil, err
	}
	return &ir.Lit{Spanned: ir.Spanned{Sp: lit.Span()}, Value: val}, nil
}

func parseLiteral(kind ast.LiteralKind, raw string) (ir.Value, error) {
	switch kind {
	case ast.LitInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		return ir.Int(n), nil
	case ast.LitRational:
		r := new(big.Rat)
		if _, ok := r.SetString(raw); !ok {
			return nil, errBadRational
		}
		return ir.Rational{Rat: r}, nil
	case ast.LitDecimal:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, err
		}
		return ir.Decimal(f), nil
	case ast.LitString:
		return ir.Str(raw), nil
	case ast.LitBool:
		return ir.Bool(raw == "true"), nil
	case ast.LitSymbol:
		return ir.Symbol(raw), nil
	default:
		return nil, errUnhandled
	}
}

func litKindName(k ast.LiteralKind) string {
	switch k {
	case ast.LitInt:
		return "integer"
	case ast.LitRational:
		return "rational"
	case ast.LitDecimal:
		return "decimal"
	case ast.LitString:
		return "string"
	case ast.LitBool:
		return "boolean"
	case ast.LitSymbol:
		return "symbol"
	default:
		return "literal"
	}
}

func (e *Elaborator) transformIdent(id *ast.Ident, s *scope) (ir.Node, error) {
	if builtins[id.Name] {
		return &ir.Builtin{Spanned: ir.Spanned{Sp: id.Span()}, Name: id.Name}, nil
	}
	depth, slot, ok := s.resolve(id.Name)
	if !ok {
		e.bus.Errorf(diag.KindNameUnbound, id.Span(), "unbound name %q", id.Name)
		return nil, errUnhandled
	}
	return &ir.Var{Spanned: ir.Spanned{Sp: id.Span()}, Name: id.Name, Depth: depth, Slot: slot}, nil
}

func (e *Elaborator) transformApply(app *ast.Apply, s *scope) (ir.Node, error) {
	fn, err := e.transformExpr(app.Fn, s)
	if err != nil {
		return nil, err
	}
	args := make([]ir.Node, 0, len(app.Args))
	for _, a := range app.Args {
		arg, err := e.transformExpr(a, s)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if lam, ok := fn.(*ir.Lambda); ok && lam.Arity != len(args) {
		e.bus.Errorf(diag.KindArityMismatch, app.Span(), "lambda expects %d argument(s), got %d", lam.Arity, len(args))
		return nil, errUnhandled
	}
	return &ir.Apply{Spanned: ir.Spanned{Sp: app.Span()}, Fn: fn, Args: args}, nil
}

func (e *Elaborator) transformLet(let *ast.Let, s *scope) (ir.Node, error) {
	inner := newScope(s)
	bindings := make([]ir.LetBinding, 0, len(let.Bindings))
	for _, b := range let.Bindings {
		val, err := e.transformExpr(b.Value, inner)
		if err != nil {
			return nil, err
		}
		inner.bind(b.Name)
		bindings = append(bindings, ir.LetBinding{Name: b.Name, Expr: val})
	}
	body, err := e.transformExpr(let.Body, inner)
	if err != nil {
		return nil, err
	}
	return &ir.Let{Spanned: ir.Spanned{Sp: let.Span()}, Bindings: bindings, Body: body}, nil
}

func (e *Elaborator) transformLambda(lam *ast.Lambda, s *scope) (ir.Node, error) {
	inner := newScope(s)
	for _, p := range lam.Params {
		inner.bind(p)
	}
	body, err := e.transformExpr(lam.Body, inner)
	if err != nil {
		return nil, err
	}
	return &ir.Lambda{Spanned: ir.Spanned{Sp: lam.Span()}, Params: lam.Params, Arity: len(lam.Params), Body: body}, nil
}

func (e *Elaborator) transformBet(b *ast.Bet, s *scope) (ir.Node, error) {
	a, err := e.transformExpr(b.A, s)
	if err != nil {
		return nil, err
	}
	bb, err := e.transformExpr(b.B, s)
	if err != nil {
		return nil, err
	}
	c, err := e.transformExpr(b.C, s)
	if err != nil {
		return nil, err
	}
	return &ir.Bet{Spanned: ir.Spanned{Sp: b.Span()}, A: a, B: bb, C: c}, nil
}

func (e *Elaborator) transformBetWeighted(bw *ast.BetWeighted, s *scope) (ir.Node, error) {
	outcomes := make([]ir.WeightedOutcome, 0, len(bw.Outcomes))
	var total float64
	allConst := true
	for _, o := range bw.Outcomes {
		val, err := e.transformExpr(o.Value, s)
		if err != nil {
			return nil, err
		}
		weight, err := e.transformExpr(o.Weight, s)
		if err != nil {
			return nil, err
		}
		if lit, ok := weight.(*ir.Lit); ok {
			if f, ok := literalProbability(lit.Value); ok {
				if f < 0 {
					e.bus.Errorf(diag.KindProbabilityNegativeWeight, o.Weight.Span(), "bet-weighted outcome has negative weight %v", f)
				}
				total += f
			} else {
				allConst = false
			}
		} else {
			allConst = false
		}
		outcomes = append(outcomes, ir.WeightedOutcome{Value: val, Weight: weight})
	}
	safe := false
	if allConst && len(outcomes) > 0 {
		const tolerance = 1e-9
		if total < tolerance {
			e.bus.Errorf(diag.KindProbabilityZeroTotal, bw.Span(), "bet-weighted outcomes sum to zero")
		} else if diff := total - 1.0; diff > 1e-6 || diff < -1e-6 {
			e.bus.Errorf(diag.KindDutchBookViolation, bw.Span(), "bet-weighted outcome weights sum to %v, not 1", total)
		} else {
			safe = true
		}
	}
	return &ir.BetWeighted{Spanned: ir.Spanned{Sp: bw.Span()}, Outcomes: outcomes, DutchBookSafe: safe}, nil
}

func (e *Elaborator) transformValidatedBet(vb *ast.ValidatedBet, s *scope) (ir.Node, error) {
	probs, err := e.transformExpr(vb.Probs, s)
	if err != nil {
		return nil, err
	}
	p, err := e.transformExpr(vb.P, s)
	if err != nil {
		return nil, err
	}
	odds, err := e.transformExpr(vb.Odds, s)
	if err != nil {
		return nil, err
	}
	stake, err := e.transformExpr(vb.Stake, s)
	if err != nil {
		return nil, err
	}
	return &ir.ValidatedBet{Spanned: ir.Spanned{Sp: vb.Span()}, Probs: probs, P: p, Odds: odds, Stake: stake}, nil
}

// literalProbability extracts a float64 from a literal Value for the
// purpose of a constant-folded probability check; only numeric
// variants participate.
func literalProbability(v ir.Value) (float64, bool) {
	switch val := v.(type) {
	case ir.Int:
		return float64(val), true
	case ir.Decimal:
		return float64(val), true
	case ir.Rational:
		f, _ := val.Rat.Float64()
		return f, true
	default:
		return 0, false
	}
}

func (e *Elaborator) transformDo(do *ast.Do, s *scope) (ir.Node, error) {
	inner := newScope(s)
	binds := make([]ir.Bind, 0, len(do.Stmts))
	for _, stmt := range do.Stmts {
		val, err := e.transformExpr(stmt.Expr, inner)
		if err != nil {
			return nil, err
		}
		if stmt.BindName != "" {
			inner.bind(stmt.BindName)
		}
		binds = append(binds, ir.Bind{Name: stmt.BindName, Expr: val})
	}
	ret, err := e.transformExpr(do.Return, inner)
	if err != nil {
		return nil, err
	}
	return &ir.Do{Spanned: ir.Spanned{Sp: do.Span()}, Binds: binds, Return: ret}, nil
}

func (e *Elaborator) transformMatch(m *ast.Match, s *scope) (ir.Node, error) {
	scrutinee, err := e.transformExpr(m.Scrutinee, s)
	if err != nil {
		return nil, err
	}
	clauses := make([]ir.MatchClause, 0, len(m.Clauses))
	hasCatchAll := false
	for _, c := range m.Clauses {
		inner := newScope(s)
		pat := e.transformPattern(c.Pattern, inner)
		if isCatchAll(c.Pattern) {
			hasCatchAll = true
		}
		expr, err := e.transformExpr(c.Expr, inner)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, ir.MatchClause{Pattern: pat, Expr: expr})
	}
	if !hasCatchAll {
		e.bus.Warnf(diag.KindPatternNonExhaustive, m.Span(), "match has no wildcard or variable catch-all clause")
	}
	return &ir.Match{Spanned: ir.Spanned{Sp: m.Span()}, Scrutinee: scrutinee, Clauses: clauses}, nil
}

func isCatchAll(p ast.Pattern) bool {
	switch p.(type) {
	case *ast.WildcardPattern, *ast.VarPattern:
		return true
	default:
		return false
	}
}

func (e *Elaborator) transformPattern(p ast.Pattern, s *scope) ir.Pattern {
	switch pat := p.(type) {
	case *ast.LiteralPattern:
		val, err := parseLiteral(pat.Kind, pat.Raw)
		if err != nil {
			e.bus.Errorf(diag.KindNumericDomainError, pat.Span(), "invalid pattern literal %q: %v", pat.Raw, err)
		}
		return &ir.LiteralPattern{SpannedPattern: ir.SpannedPattern{Sp: pat.Span()}, Value: val}
	case *ast.WildcardPattern:
		return &ir.WildcardPattern{SpannedPattern: ir.SpannedPattern{Sp: pat.Span()}}
	case *ast.VarPattern:
		slot := s.bind(pat.Name)
		return &ir.VarPattern{SpannedPattern: ir.SpannedPattern{Sp: pat.Span()}, Name: pat.Name, Slot: slot}
	case *ast.ListPattern:
		elems := make([]ir.Pattern, 0, len(pat.Elems))
		for _, el := range pat.Elems {
			elems = append(elems, e.transformPattern(el, s))
		}
		return &ir.ListPattern{SpannedPattern: ir.SpannedPattern{Sp: pat.Span()}, Elems: elems}
	case *ast.TagPattern:
		fields := make([]ir.Pattern, 0, len(pat.Fields))
		for _, f := range pat.Fields {
			fields = append(fields, e.transformPattern(f, s))
		}
		return &ir.TagPattern{SpannedPattern: ir.SpannedPattern{Sp: pat.Span()}, Tag: pat.Tag, Fields: fields}
	default:
		e.bus.Errorf(diag.KindParseUnexpected, p.Span(), "internal: unhandled pattern type %T", p)
		return &ir.WildcardPattern{SpannedPattern: ir.SpannedPattern{Sp: p.Span()}}
	}
}
