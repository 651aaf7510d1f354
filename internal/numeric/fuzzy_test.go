package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/betlang/internal/prng"
)

func TestFuzzyTriangularMeanAndMembership(t *testing.T) {
	f := FuzzyTriangular{A: 0, B: 5, C: 10}
	require.NoError(t, f.Validate())
	assert.InDelta(t, 5.0, f.Mean(), 1e-12)
	assert.Equal(t, 1.0, f.Membership(5))
	assert.Equal(t, 0.0, f.Membership(0))
	assert.Equal(t, 0.0, f.Membership(10))
	assert.InDelta(t, 0.5, f.Membership(2.5), 1e-12)
}

func TestFuzzyTriangularValidateRejectsOutOfOrderPoints(t *testing.T) {
	assert.Error(t, FuzzyTriangular{A: 5, B: 1, C: 10}.Validate())
}

func TestFuzzyTriangularSampleStaysWithinSupport(t *testing.T) {
	f := FuzzyTriangular{A: 0, B: 5, C: 10}
	st := prng.Seed(3)
	for i := 0; i < 100; i++ {
		v, err := f.Sample(st)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 10.0)
	}
}

func TestSurrealFuzzyRelaxesEndpointsByEpsilon(t *testing.T) {
	s := SurrealFuzzy{A: 0, B: 5, C: 10, Epsilon: 2}
	require.NoError(t, s.Validate())
	assert.Equal(t, 0.0, s.Membership(-2))
	assert.Greater(t, s.Membership(-1), 0.0)
	assert.Equal(t, 0.0, s.Membership(12))
	assert.Greater(t, s.Membership(11), 0.0)
	assert.Equal(t, 1.0, s.Membership(5))
}

func TestSurrealFuzzyValidateRejectsBadInputs(t *testing.T) {
	assert.Error(t, SurrealFuzzy{A: 10, B: 5, C: 0}.Validate())
	assert.Error(t, SurrealFuzzy{A: 0, B: 5, C: 10, Epsilon: -1}.Validate())
}

func TestSurrealFuzzySampleStaysWithinRelaxedSupport(t *testing.T) {
	s := SurrealFuzzy{A: 0, B: 5, C: 10, Epsilon: 1}
	st := prng.Seed(7)
	for i := 0; i < 100; i++ {
		v, err := s.Sample(st)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, -1.0)
		assert.LessOrEqual(t, v, 11.0)
	}
}

func TestFuzzyTriangularAndOrNot(t *testing.T) {
	a := FuzzyTriangular{A: 0, B: 5, C: 10}
	b := FuzzyTriangular{A: 2, B: 6, C: 12}
	assert.Equal(t, math.Min(a.Membership(4), b.Membership(4)), a.And(4, b))
	assert.Equal(t, math.Max(a.Membership(4), b.Membership(4)), a.Or(4, b))
	assert.InDelta(t, 1-a.Membership(4), a.Not(4), 1e-12)
}
