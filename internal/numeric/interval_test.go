package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/betlang/internal/prng"
)

func TestAffineMulTakesConservativeHull(t *testing.T) {
	a := Affine{Lo: -1, Hi: 2}
	b := Affine{Lo: -3, Hi: 1}
	m := a.Mul(b)
	// corners: -1*-3=3, -1*1=-1, 2*-3=-6, 2*1=2 -> hull [-6, 3]
	assert.Equal(t, -6.0, m.Lo)
	assert.Equal(t, 3.0, m.Hi)
}

func TestAffineAddIsLinear(t *testing.T) {
	a := Affine{Lo: 1, Hi: 2}
	b := Affine{Lo: 3, Hi: 4}
	sum := a.Add(b)
	assert.Equal(t, 4.0, sum.Lo)
	assert.Equal(t, 6.0, sum.Hi)
}

func TestAffineSampleStaysWithinInterval(t *testing.T) {
	a := Affine{Lo: 2, Hi: 5}
	st := prng.Seed(11)
	for i := 0; i < 50; i++ {
		v, err := a.Sample(st)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 2.0)
		assert.LessOrEqual(t, v, 5.0)
	}
}

func TestImpreciseValidateRejectsOutOfUnitRange(t *testing.T) {
	assert.Error(t, Imprecise{Lo: -0.1, Hi: 0.5}.Validate())
	assert.Error(t, Imprecise{Lo: 0.2, Hi: 1.1}.Validate())
	assert.Error(t, Imprecise{Lo: 0.6, Hi: 0.4}.Validate())
}

func TestHyperrealLessOrdersByStandardThenInfinitesimal(t *testing.T) {
	a := Hyperreal{Standard: 1, Infinitesimal: 5}
	b := Hyperreal{Standard: 1, Infinitesimal: 1}
	c := Hyperreal{Standard: 2, Infinitesimal: 0}
	assert.True(t, b.Less(a))
	assert.True(t, a.Less(c))
}

func TestHyperrealAddCombinesComponentwise(t *testing.T) {
	a := Hyperreal{Standard: 1, Infinitesimal: 2}
	b := Hyperreal{Standard: 3, Infinitesimal: 4}
	sum := a.Add(b)
	assert.Equal(t, 4.0, sum.Standard)
	assert.Equal(t, 6.0, sum.Infinitesimal)
}

func TestHyperrealMulDropsEpsilonSquaredTerm(t *testing.T) {
	a := Hyperreal{Standard: 2, Infinitesimal: 3}
	b := Hyperreal{Standard: 4, Infinitesimal: 5}
	prod := a.Mul(b)
	assert.Equal(t, 8.0, prod.Standard)
	assert.Equal(t, 2.0*5+3.0*4, prod.Infinitesimal)
}

func TestHyperrealStandardPartDiscardsInfinitesimal(t *testing.T) {
	h := Hyperreal{Standard: 7, Infinitesimal: 99}
	assert.Equal(t, 7.0, h.StandardPart())
}

func TestImpreciseComplementFlipsAndSubtractsFromOne(t *testing.T) {
	i := Imprecise{Lo: 0.2, Hi: 0.5}
	c := i.Complement()
	assert.InDelta(t, 0.5, c.Lo, 1e-12)
	assert.InDelta(t, 0.8, c.Hi, 1e-12)
}

func TestImpreciseAndOrUseIndependenceBounds(t *testing.T) {
	a := Imprecise{Lo: 0.2, Hi: 0.5}
	b := Imprecise{Lo: 0.3, Hi: 0.4}
	and := a.And(b)
	assert.InDelta(t, 0.06, and.Lo, 1e-12)
	assert.InDelta(t, 0.2, and.Hi, 1e-12)
	or := a.Or(b)
	assert.InDelta(t, 0.2+0.3-0.06, or.Lo, 1e-12)
	assert.InDelta(t, 0.5+0.4-0.2, or.Hi, 1e-12)
}

func TestImpreciseBayesUpdateAppliesToEachEndpoint(t *testing.T) {
	i := Imprecise{Lo: 0.2, Hi: 0.5}
	updated, err := i.BayesUpdate(0.8, 0.4)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, updated.Lo, 1e-12)
	assert.InDelta(t, 1.0, updated.Hi, 1e-12)
}

func TestImpreciseBayesUpdateRejectsZeroEvidence(t *testing.T) {
	i := Imprecise{Lo: 0.2, Hi: 0.5}
	_, err := i.BayesUpdate(0.8, 0)
	assert.Error(t, err)
}
