package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/betlang/internal/ast"
)

func parseOneForm(t *testing.T, src string) ast.Node {
	t.Helper()
	prog, _, diags := Parse("<test>", src)
	require.Empty(t, diags, "unexpected diagnostics: %v", diags)
	require.Len(t, prog.Forms, 1)
	return prog.Forms[0]
}

func TestParseBetSExprForm(t *testing.T) {
	n := parseOneForm(t, `(bet 1 2 3)`)
	b, ok := n.(*ast.Bet)
	require.True(t, ok)
	assert.Equal(t, ast.LitInt, b.A.(*ast.Literal).Kind)
}

func TestParseBetKeywordForm(t *testing.T) {
	n := parseOneForm(t, `bet 1 2 3 end`)
	b, ok := n.(*ast.Bet)
	require.True(t, ok)
	assert.Equal(t, "1", b.A.(*ast.Literal).Raw)
	assert.Equal(t, "2", b.B.(*ast.Literal).Raw)
	assert.Equal(t, "3", b.C.(*ast.Literal).Raw)
}

func TestParseIfBothSurfaces(t *testing.T) {
	sexpr := parseOneForm(t, `(if true 1 2)`)
	kw := parseOneForm(t, `if true then 1 else 2 end`)
	for _, n := range []ast.Node{sexpr, kw} {
		iff, ok := n.(*ast.If)
		require.True(t, ok)
		assert.Equal(t, "true", iff.Cond.(*ast.Literal).Raw)
	}
}

func TestParseLetBothSurfaces(t *testing.T) {
	sexpr := parseOneForm(t, `(let ((x 1)) x)`)
	kw := parseOneForm(t, `let x = 1 in x end`)
	for _, n := range []ast.Node{sexpr, kw} {
		l, ok := n.(*ast.Let)
		require.True(t, ok)
		require.Len(t, l.Bindings, 1)
		assert.Equal(t, "x", l.Bindings[0].Name)
	}
}

func TestParseMatchBothSurfaces(t *testing.T) {
	sexpr := parseOneForm(t, `(match x (_ 1))`)
	kw := parseOneForm(t, `match x with _ -> 1 end`)
	for _, n := range []ast.Node{sexpr, kw} {
		m, ok := n.(*ast.Match)
		require.True(t, ok)
		require.Len(t, m.Clauses, 1)
		_, isWild := m.Clauses[0].Pattern.(*ast.WildcardPattern)
		assert.True(t, isWild)
	}
}

func TestParseLambdaBothSurfaces(t *testing.T) {
	sexpr := parseOneForm(t, `(lambda (x y) x)`)
	kw := parseOneForm(t, `lambda x y -> x end`)
	for _, n := range []ast.Node{sexpr, kw} {
		l, ok := n.(*ast.Lambda)
		require.True(t, ok)
		assert.Equal(t, []string{"x", "y"}, l.Params)
	}
}

func TestParseBetWeightedBothSurfaces(t *testing.T) {
	sexpr := parseOneForm(t, `(bet-weighted ((1, 0.5) (2, 0.5)))`)
	kw := parseOneForm(t, `bet-weighted (1 0.5) (2 0.5) end`)
	for _, n := range []ast.Node{sexpr, kw} {
		bw, ok := n.(*ast.BetWeighted)
		require.True(t, ok)
		require.Len(t, bw.Outcomes, 2)
		assert.Equal(t, "1", bw.Outcomes[0].Value.(*ast.Literal).Raw)
		assert.Equal(t, "0.5", bw.Outcomes[0].Weight.(*ast.Literal).Raw)
	}
}

func TestParseDoBothSurfaces(t *testing.T) {
	sexpr := parseOneForm(t, `(do (x <- 1) (return x))`)
	kw := parseOneForm(t, "do x <- 1; return x end")
	for _, n := range []ast.Node{sexpr, kw} {
		d, ok := n.(*ast.Do)
		require.True(t, ok)
		require.Len(t, d.Stmts, 1)
		assert.Equal(t, "x", d.Stmts[0].BindName)
	}
}

func TestParseValidatedBetBothSurfaces(t *testing.T) {
	sexpr := parseOneForm(t, `(validated-bet probs p odds stake)`)
	kw := parseOneForm(t, `validated-bet probs p odds stake end`)
	for _, n := range []ast.Node{sexpr, kw} {
		vb, ok := n.(*ast.ValidatedBet)
		require.True(t, ok)
		assert.Equal(t, "probs", vb.Probs.(*ast.Ident).Name)
		assert.Equal(t, "p", vb.P.(*ast.Ident).Name)
		assert.Equal(t, "odds", vb.Odds.(*ast.Ident).Name)
		assert.Equal(t, "stake", vb.Stake.(*ast.Ident).Name)
	}
}

func TestParseSampleAndParallel(t *testing.T) {
	sample := parseOneForm(t, `sample dist end`)
	s, ok := sample.(*ast.Sample)
	require.True(t, ok)
	assert.Equal(t, "dist", s.Dist.(*ast.Ident).Name)

	par := parseOneForm(t, `parallel 3 do body end`)
	p, ok := par.(*ast.Parallel)
	require.True(t, ok)
	assert.Equal(t, "3", p.N.(*ast.Literal).Raw)
}

func TestParseGenericApplication(t *testing.T) {
	n := parseOneForm(t, `(f 1 2)`)
	app, ok := n.(*ast.Apply)
	require.True(t, ok)
	assert.Equal(t, "f", app.Fn.(*ast.Ident).Name)
	require.Len(t, app.Args, 2)
}

func TestParseBareGroupingIsNotAnApplication(t *testing.T) {
	n := parseOneForm(t, `(1)`)
	_, isApply := n.(*ast.Apply)
	assert.False(t, isApply)
	lit, ok := n.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, "1", lit.Raw)
}

func TestParseReportsDiagnosticOnUnexpectedToken(t *testing.T) {
	_, _, diags := Parse("<test>", `(bet 1 2`)
	require.NotEmpty(t, diags)
}

func TestParseRecoversAfterMalformedTopLevelForm(t *testing.T) {
	prog, _, diags := Parse("<test>", "(bet 1 2\n(bet 1 2 3)")
	require.NotEmpty(t, diags)
	require.Len(t, prog.Forms, 1)
	_, ok := prog.Forms[0].(*ast.Bet)
	assert.True(t, ok)
}
