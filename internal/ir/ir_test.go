package ir_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/betlang/internal/diag"
	"github.com/aledsdavies/betlang/internal/elaborate"
	"github.com/aledsdavies/betlang/internal/ir"
	"github.com/aledsdavies/betlang/internal/parser"
	"github.com/aledsdavies/betlang/internal/source"
)

var ignoreSpans = cmp.Comparer(func(a, b source.Span) bool { return true })

func elaborateSrc(t *testing.T, src string) *ir.Program {
	t.Helper()
	prog, _, diags := parser.Parse("<test>", src)
	require.Empty(t, diags)
	bus := diag.NewBus()
	irProg, err := elaborate.New(bus).Elaborate(prog)
	require.NoError(t, err)
	require.Empty(t, bus.All())
	return irProg
}

func TestElaboratedBetLowersToThreeArgNode(t *testing.T) {
	got := elaborateSrc(t, `bet 1 2 3 end`)
	want := &ir.Program{
		Result: &ir.Bet{A: &ir.Lit{Value: ir.Int(1)}, B: &ir.Lit{Value: ir.Int(2)}, C: &ir.Lit{Value: ir.Int(3)}},
	}
	if diff := cmp.Diff(want, got, ignoreSpans); diff != "" {
		t.Errorf("elaborated IR mismatch (-want +got):\n%s", diff)
	}
}

func TestElaboratedBetWeightedCarriesDutchBookSafeAnnotation(t *testing.T) {
	got := elaborateSrc(t, `bet-weighted (1 0.5) (2 0.5) end`)
	want := &ir.Program{
		Result: &ir.BetWeighted{
			Outcomes: []ir.WeightedOutcome{
				{Value: &ir.Lit{Value: ir.Int(1)}, Weight: &ir.Lit{Value: ir.Decimal(0.5)}},
				{Value: &ir.Lit{Value: ir.Int(2)}, Weight: &ir.Lit{Value: ir.Decimal(0.5)}},
			},
			DutchBookSafe: true,
		},
	}
	if diff := cmp.Diff(want, got, ignoreSpans); diff != "" {
		t.Errorf("elaborated IR mismatch (-want +got):\n%s", diff)
	}
}

func TestElaboratedValidatedBetLowersAllFourFields(t *testing.T) {
	got := elaborateSrc(t, `let x = 1 in validated-bet x x x x end end`)
	want := &ir.Program{
		Result: &ir.Let{
			Bindings: []ir.LetBinding{{Name: "x", Expr: &ir.Lit{Value: ir.Int(1)}}},
			Body: &ir.ValidatedBet{
				Probs: &ir.Var{Name: "x", Depth: 0, Slot: 0},
				P:     &ir.Var{Name: "x", Depth: 0, Slot: 0},
				Odds:  &ir.Var{Name: "x", Depth: 0, Slot: 0},
				Stake: &ir.Var{Name: "x", Depth: 0, Slot: 0},
			},
		},
	}
	if diff := cmp.Diff(want, got, ignoreSpans); diff != "" {
		t.Errorf("elaborated IR mismatch (-want +got):\n%s", diff)
	}
}

func TestElaboratedDefineAndResultAreBothPresent(t *testing.T) {
	got := elaborateSrc(t, "define one = 1\none")
	require.Len(t, got.Defines, 1)
	assert.Equal(t, "one", got.Defines[0].Name)
	lit, ok := got.Defines[0].Expr.(*ir.Lit)
	require.True(t, ok)
	assert.Equal(t, ir.Int(1), lit.Value)
	_, ok = got.Result.(*ir.Var)
	require.True(t, ok)
}
