// Package printer renders a parsed AST back to BetLang's keyword
// surface syntax, grounded on the teacher's planfmt canonical-form
// idiom (core/planfmt: parse into a canonical representation, then
// print deterministically) adapted from "canonicalize a command plan"
// to "canonicalize a parsed program" — the engine behind `betlang fmt`
// (spec §6, §12).
package printer

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/betlang/internal/ast"
)

// Program renders every top-level form of prog, one per line, each
// terminated the way a `define` or bare expression is written at top
// level.
func Program(prog *ast.Program) string {
	var b strings.Builder
	for i, f := range prog.Forms {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(Node(f))
	}
	b.WriteString("\n")
	return b.String()
}

// Node renders a single AST node in canonical keyword form.
func Node(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Literal:
		return literal(v)
	case *ast.Ident:
		return v.Name
	case *ast.Apply:
		return apply(v)
	case *ast.Define:
		return fmt.Sprintf("define %s = %s", v.Name, Node(v.Expr))
	case *ast.Let:
		return letExpr(v)
	case *ast.If:
		return fmt.Sprintf("if %s then %s else %s end", Node(v.Cond), Node(v.Then), Node(v.Else))
	case *ast.Match:
		return matchExpr(v)
	case *ast.Lambda:
		return fmt.Sprintf("lambda %s -> %s end", strings.Join(v.Params, " "), Node(v.Body))
	case *ast.Bet:
		return fmt.Sprintf("bet %s %s %s end", Node(v.A), Node(v.B), Node(v.C))
	case *ast.BetWeighted:
		return betWeighted(v)
	case *ast.BetConditional:
		return fmt.Sprintf("bet-conditional %s %s %s %s end", Node(v.Pred), Node(v.True), Node(v.False), Node(v.Unconditional))
	case *ast.BetLazy:
		return fmt.Sprintf("bet-lazy %s %s %s end", Node(v.ThunkA), Node(v.ThunkB), Node(v.ThunkC))
	case *ast.WithSeed:
		return fmt.Sprintf("with-seed %s %s end", Node(v.Seed), Node(v.Thunk))
	case *ast.Do:
		return doExpr(v)
	case *ast.Parallel:
		return fmt.Sprintf("parallel %s do %s end", Node(v.N), Node(v.Body))
	case *ast.Sample:
		return fmt.Sprintf("sample %s end", Node(v.Dist))
	case *ast.ValidatedBet:
		return fmt.Sprintf("validated-bet %s %s %s %s end", Node(v.Probs), Node(v.P), Node(v.Odds), Node(v.Stake))
	default:
		return fmt.Sprintf("<unprintable %T>", n)
	}
}

func literal(l *ast.Literal) string {
	if l.Kind == ast.LitString {
		return fmt.Sprintf("%q", l.Raw)
	}
	if l.Kind == ast.LitSymbol {
		return "'" + l.Raw
	}
	return l.Raw
}

func apply(a *ast.Apply) string {
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = Node(arg)
	}
	return fmt.Sprintf("(%s %s)", Node(a.Fn), strings.Join(parts, " "))
}

func letExpr(l *ast.Let) string {
	return nestedLet(l.Bindings, l.Body)
}

// nestedLet renders a (possibly multi-binding) let as nested single-binding
// keyword forms, since that surface only ever binds one name per "let".
func nestedLet(bindings []ast.Binding, body ast.Node) string {
	if len(bindings) == 0 {
		return Node(body)
	}
	b := bindings[0]
	return fmt.Sprintf("let %s = %s in %s end", b.Name, Node(b.Value), nestedLet(bindings[1:], body))
}

func matchExpr(m *ast.Match) string {
	var clauses []string
	for _, c := range m.Clauses {
		clauses = append(clauses, fmt.Sprintf("%s -> %s", pattern(c.Pattern), Node(c.Expr)))
	}
	return fmt.Sprintf("match %s with %s end", Node(m.Scrutinee), strings.Join(clauses, " | "))
}

func pattern(p ast.Pattern) string {
	switch v := p.(type) {
	case *ast.LiteralPattern:
		if v.Kind == ast.LitString {
			return fmt.Sprintf("%q", v.Raw)
		}
		return v.Raw
	case *ast.WildcardPattern:
		return "_"
	case *ast.VarPattern:
		return v.Name
	case *ast.ListPattern:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = pattern(e)
		}
		return fmt.Sprintf("[%s]", strings.Join(parts, " "))
	case *ast.TagPattern:
		parts := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			parts[i] = pattern(f)
		}
		if len(parts) == 0 {
			return "'" + v.Tag
		}
		return fmt.Sprintf("'%s(%s)", v.Tag, strings.Join(parts, " "))
	default:
		return fmt.Sprintf("<unprintable pattern %T>", p)
	}
}

func betWeighted(bw *ast.BetWeighted) string {
	var outcomes []string
	for _, o := range bw.Outcomes {
		outcomes = append(outcomes, fmt.Sprintf("(%s %s)", Node(o.Value), Node(o.Weight)))
	}
	return fmt.Sprintf("bet-weighted %s end", strings.Join(outcomes, " "))
}

func doExpr(d *ast.Do) string {
	var stmts []string
	for _, s := range d.Stmts {
		if s.BindName != "" {
			stmts = append(stmts, fmt.Sprintf("%s <- %s", s.BindName, Node(s.Expr)))
		} else {
			stmts = append(stmts, Node(s.Expr))
		}
	}
	return fmt.Sprintf("do %s return %s end", strings.Join(stmts, "; "), Node(d.Return))
}
