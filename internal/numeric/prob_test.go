package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/betlang/internal/prng"
)

func TestDistNormalMeanAndValidate(t *testing.T) {
	d := DistNormal{Mu: 3, Sigma: 1}
	require.NoError(t, d.Validate())
	assert.Equal(t, 3.0, d.Mean())

	bad := DistNormal{Mu: 0, Sigma: -1}
	assert.Error(t, bad.Validate())
}

func TestDistNormalSampleIsDeterministicUnderSeed(t *testing.T) {
	d := DistNormal{Mu: 0, Sigma: 1}
	st1 := prng.Seed(42)
	st2 := prng.Seed(42)
	v1, err := d.Sample(st1)
	require.NoError(t, err)
	v2, err := d.Sample(st2)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

func TestDistBetaMeanMatchesClosedForm(t *testing.T) {
	d := DistBeta{Alpha: 2, Beta: 8}
	require.NoError(t, d.Validate())
	assert.InDelta(t, 0.2, d.Mean(), 1e-12)
}

func TestDistBetaValidateRejectsNonPositiveParams(t *testing.T) {
	assert.Error(t, DistBeta{Alpha: 0, Beta: 1}.Validate())
	assert.Error(t, DistBeta{Alpha: 1, Beta: -1}.Validate())
}

func TestDistBetaSampleStaysWithinUnitInterval(t *testing.T) {
	d := DistBeta{Alpha: 2, Beta: 2}
	st := prng.Seed(7)
	for i := 0; i < 100; i++ {
		v, err := d.Sample(st)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestBayesianPosteriorUpdatesTowardObservedRate(t *testing.T) {
	// A uniform Beta(1,1) prior updated with 90 successes out of 100
	// trials should land near 0.9, nowhere near the 0.5 prior mean.
	b := Bayesian{PriorAlpha: 1, PriorBeta: 1, Successes: 90, Trials: 100}
	require.NoError(t, b.Validate())
	assert.InDelta(t, 0.9, b.Mean(), 0.01)
}

func TestBayesianValidateRejectsInconsistentCounts(t *testing.T) {
	assert.Error(t, Bayesian{PriorAlpha: 1, PriorBeta: 1, Successes: 5, Trials: 3}.Validate())
	assert.Error(t, Bayesian{PriorAlpha: 0, PriorBeta: 1, Successes: 0, Trials: 1}.Validate())
}

func TestDistNormalAddSumsMeansAndVariances(t *testing.T) {
	a := DistNormal{Mu: 1, Sigma: 3}
	b := DistNormal{Mu: 2, Sigma: 4}
	sum := a.Add(b)
	assert.Equal(t, 3.0, sum.Mu)
	assert.InDelta(t, 5.0, sum.Sigma, 1e-12) // sqrt(9+16) = 5
}

func TestDistNormalMulApproximatesProduct(t *testing.T) {
	a := DistNormal{Mu: 2, Sigma: 0}
	b := DistNormal{Mu: 3, Sigma: 0}
	prod := a.Mul(b)
	assert.Equal(t, 6.0, prod.Mu)
	assert.Equal(t, 0.0, prod.Sigma)
}

func TestAddDispatchesOnMatchingVariant(t *testing.T) {
	sum, ok := Add(DistNormal{Mu: 1, Sigma: 1}, DistNormal{Mu: 2, Sigma: 1})
	require.True(t, ok)
	assert.Equal(t, 3.0, sum.(DistNormal).Mu)

	_, ok = Add(DistNormal{Mu: 1, Sigma: 1}, Affine{Lo: 0, Hi: 1})
	assert.False(t, ok)
}

func TestMulDispatchesOnMatchingVariant(t *testing.T) {
	prod, ok := Mul(Affine{Lo: 0, Hi: 2}, Affine{Lo: 1, Hi: 3})
	require.True(t, ok)
	a := prod.(Affine)
	assert.Equal(t, 0.0, a.Lo)
	assert.Equal(t, 6.0, a.Hi)
}
