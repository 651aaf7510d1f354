package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurrealAdvSimplestLiesStrictlyWithinBounds(t *testing.T) {
	s := SurrealAdv{Lo: 0, Hi: 1}
	require.NoError(t, s.Validate())
	mean := s.Mean()
	assert.Greater(t, mean, s.Lo)
	assert.Less(t, mean, s.Hi)
}

func TestSurrealAdvValidateRejectsEmptyInterval(t *testing.T) {
	assert.Error(t, SurrealAdv{Lo: 1, Hi: 1}.Validate())
	assert.Error(t, SurrealAdv{Lo: 2, Hi: 1}.Validate())
}

func TestSurrealAdvAddSumsHull(t *testing.T) {
	a := SurrealAdv{Lo: 0, Hi: 1}
	b := SurrealAdv{Lo: 2, Hi: 3}
	sum := a.Add(b)
	assert.Equal(t, 2.0, sum.Lo)
	assert.Equal(t, 4.0, sum.Hi)
}

func TestSurrealAdvLessOrdersDisjointIntervals(t *testing.T) {
	a := SurrealAdv{Lo: 0, Hi: 1}
	b := SurrealAdv{Lo: 1, Hi: 2}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}
