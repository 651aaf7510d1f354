package eval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/betlang/internal/ir"
	"github.com/aledsdavies/betlang/internal/prng"
)

// These exercise spec §8's two statistical properties directly: `bet`
// must draw each of its three arms with probability 1/3, and
// `bet-weighted` must draw each outcome with probability wi/sum(w),
// both within a tolerance that holds for 10^6 seeded draws with
// overwhelming likelihood (a binomial count more than 6 standard
// deviations from its expectation is not a flake one seed will hit).

const trials = 1_000_000

func sigmaBound(n int, p float64) float64 {
	return 6 * math.Sqrt(float64(n)*p*(1-p))
}

func TestBetDrawsEachArmUniformlyOverOneMillionTrials(t *testing.T) {
	bet := &ir.Bet{A: &ir.Lit{Value: ir.Int(0)}, B: &ir.Lit{Value: ir.Int(1)}, C: &ir.Lit{Value: ir.Int(2)}}
	env := NewEnv()
	st := prng.Seed(20260731)

	var counts [3]int
	for i := 0; i < trials; i++ {
		v, err := Eval(bet, env, st)
		require.NoError(t, err)
		iv, ok := v.(Int)
		require.True(t, ok)
		require.GreaterOrEqual(t, int(iv), 0)
		require.Less(t, int(iv), 3)
		counts[iv]++
	}

	want := float64(trials) / 3
	bound := sigmaBound(trials, 1.0/3.0)
	for arm, c := range counts {
		assert.InDelta(t, want, float64(c), bound, "arm %d drawn %d times, want ~%.0f +/- %.0f", arm, c, want, bound)
	}
}

func TestBetWeightedDrawsProportionallyToWeightOverOneMillionTrials(t *testing.T) {
	weights := []float64{0.1, 0.2, 0.3, 0.4}
	outcomes := make([]ir.WeightedOutcome, len(weights))
	for i, w := range weights {
		outcomes[i] = ir.WeightedOutcome{
			Value:  &ir.Lit{Value: ir.Int(int64(i))},
			Weight: &ir.Lit{Value: ir.Decimal(w)},
		}
	}
	bw := &ir.BetWeighted{Outcomes: outcomes}
	env := NewEnv()
	st := prng.Seed(20260731)

	counts := make([]int, len(weights))
	for i := 0; i < trials; i++ {
		v, err := Eval(bw, env, st)
		require.NoError(t, err)
		iv, ok := v.(Int)
		require.True(t, ok)
		counts[iv]++
	}

	for i, w := range weights {
		want := float64(trials) * w
		bound := sigmaBound(trials, w)
		assert.InDelta(t, want, float64(counts[i]), bound, "outcome %d drawn %d times, want ~%.0f +/- %.0f", i, counts[i], want, bound)
	}
}
