package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/betlang/internal/prng"
)

func TestRiskOfRuinAnalyticFormula(t *testing.T) {
	r, err := RiskOfRuinAnalytic(1000, 500)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, r, 1e-9)
}

func TestRiskOfRuinAnalyticAlreadyAtTarget(t *testing.T) {
	r, err := RiskOfRuinAnalytic(1000, 1000)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r)
}

func TestRiskOfRuinDispatchesAnalyticAtHalf(t *testing.T) {
	st := prng.Seed(1)
	r, err := RiskOfRuin(st, 500, 0.05, 0.5, 1.0, 1000, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, r, 1e-9)
}

func TestMonteCarloRiskOfRuinIsDeterministicUnderSeed(t *testing.T) {
	st1 := prng.Seed(7)
	st2 := prng.Seed(7)
	r1, err := MonteCarloRiskOfRuin(st1, 1000, 0.05, 0.45, 1.8, 5000, 0, 500, 200)
	require.NoError(t, err)
	r2, err := MonteCarloRiskOfRuin(st2, 1000, 0.05, 0.45, 1.8, 5000, 0, 500, 200)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
	assert.GreaterOrEqual(t, r1, 0.0)
	assert.LessOrEqual(t, r1, 1.0)
}

func TestMonteCarloRiskOfRuinRejectsBadInputs(t *testing.T) {
	st := prng.Seed(1)
	_, err := MonteCarloRiskOfRuin(st, 0, 0.05, 0.5, 1.0, 1000, 0, 10, 10)
	assert.Error(t, err)
	_, err = MonteCarloRiskOfRuin(st, 100, 1.5, 0.5, 1.0, 1000, 0, 10, 10)
	assert.Error(t, err)
	_, err = MonteCarloRiskOfRuin(st, 100, 0.05, 0.5, 1.0, 10, 20, 10, 10)
	assert.Error(t, err)
}
