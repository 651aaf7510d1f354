package printer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/betlang/internal/parser"
	"github.com/aledsdavies/betlang/internal/printer"
	"github.com/aledsdavies/betlang/internal/source"
)

var ignoreSpans = cmp.Comparer(func(a, b source.Span) bool { return true })

// assertParsePrintParseFixedPoint checks that parsing src, printing the
// result, and parsing that output again yields a structurally identical
// AST (spans aside) — the printer's canonical form must always be
// re-parseable back to the same program it came from.
func assertParsePrintParseFixedPoint(t *testing.T, src string) {
	t.Helper()
	prog1, _, diags := parser.Parse("<test>", src)
	require.Empty(t, diags, "source failed to parse: %v", diags)

	printed := printer.Program(prog1)

	prog2, _, diags2 := parser.Parse("<test>", printed)
	require.Empty(t, diags2, "printed output failed to re-parse: %q, diags: %v", printed, diags2)

	if diff := cmp.Diff(prog1, prog2, ignoreSpans); diff != "" {
		t.Errorf("parse -> print -> parse is not a fixed point for %q\nprinted: %q\n(-first +second):\n%s", src, printed, diff)
	}
}

func TestFixedPointBet(t *testing.T) {
	assertParsePrintParseFixedPoint(t, `(bet 1 2 3)`)
}

func TestFixedPointBetWeighted(t *testing.T) {
	assertParsePrintParseFixedPoint(t, `bet-weighted (1 0.5) (2 0.5) end`)
}

func TestFixedPointBetConditional(t *testing.T) {
	assertParsePrintParseFixedPoint(t, `(bet-conditional true 1 2 3)`)
}

func TestFixedPointBetLazy(t *testing.T) {
	assertParsePrintParseFixedPoint(t, `(bet-lazy 1 2 3)`)
}

func TestFixedPointIf(t *testing.T) {
	assertParsePrintParseFixedPoint(t, `if true then 1 else 2 end`)
}

func TestFixedPointLet(t *testing.T) {
	assertParsePrintParseFixedPoint(t, `let x = 1 in x end`)
}

func TestFixedPointMatch(t *testing.T) {
	assertParsePrintParseFixedPoint(t, `match 1 with _ -> 2 end`)
}

func TestFixedPointLambda(t *testing.T) {
	assertParsePrintParseFixedPoint(t, `(lambda (x y) x)`)
}

func TestFixedPointDo(t *testing.T) {
	assertParsePrintParseFixedPoint(t, "do x <- 1; return x end")
}

func TestFixedPointWithSeed(t *testing.T) {
	assertParsePrintParseFixedPoint(t, `(with-seed 1 2)`)
}

func TestFixedPointParallel(t *testing.T) {
	assertParsePrintParseFixedPoint(t, `parallel 3 do 1 end`)
}

func TestFixedPointSample(t *testing.T) {
	assertParsePrintParseFixedPoint(t, `sample dist end`)
}

func TestFixedPointValidatedBet(t *testing.T) {
	assertParsePrintParseFixedPoint(t, `validated-bet probs p odds stake end`)
}

func TestFixedPointApplication(t *testing.T) {
	assertParsePrintParseFixedPoint(t, `(f 1 2)`)
}
