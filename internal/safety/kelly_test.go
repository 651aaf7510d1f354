package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKellyStakeWorkedExample(t *testing.T) {
	f, err := KellyStake(0.55, 2.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.325, f, 1e-9)
}

func TestKellyStakeNonNegativity(t *testing.T) {
	// A losing proposition (p*b <= 1-p) must clamp to zero, never negative.
	f, err := KellyStake(0.1, 1.0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, f, 0.0)
	assert.Equal(t, 0.0, f)
}

func TestKellyStakeRejectsInvalidInputs(t *testing.T) {
	_, err := KellyStake(-0.1, 1.0)
	assert.Error(t, err)
	_, err = KellyStake(1.1, 1.0)
	assert.Error(t, err)
	_, err = KellyStake(0.5, 0)
	assert.Error(t, err)
}

func TestOptimalStakeWorkedExample(t *testing.T) {
	s, err := OptimalStake(10000, 0.55, 2.0, 0.25)
	require.NoError(t, err)
	assert.InDelta(t, 812.5, s, 1e-6)
}

func TestSafeStakeBothCapsBind(t *testing.T) {
	fullKelly := 0.325
	// Within the fractional-Kelly cap but over the bankroll-risk cap.
	assert.False(t, SafeStake(0.1, fullKelly, 0.5, 0.05))
	// Within both caps.
	assert.True(t, SafeStake(0.04, fullKelly, 0.5, 0.05))
	// Over the fractional-Kelly cap even though under the risk cap.
	assert.False(t, SafeStake(0.2, fullKelly, 0.5, 0.25))
}

func TestSafeStakeZeroKelly(t *testing.T) {
	assert.True(t, SafeStake(0, 0, 0.25, 0.05))
	assert.False(t, SafeStake(0.01, 0, 0.25, 0.05))
}
