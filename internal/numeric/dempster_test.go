package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskVarCvarWorkedExample(t *testing.T) {
	samples := []float64{-10, -5, -2, 0, 1, 2, 3, 5, 8, 10}
	r := Risk{Samples: samples, Alpha: 0.95}
	require.NoError(t, r.Validate())
	assert.Equal(t, -10.0, r.VaR())
	assert.LessOrEqual(t, r.CVaR(), r.VaR())
}

func TestRiskValidateRejectsBadAlpha(t *testing.T) {
	r := Risk{Samples: []float64{1, 2}, Alpha: 0}
	assert.Error(t, r.Validate())
	r.Alpha = 1
	assert.Error(t, r.Validate())
}

func TestRiskConstructorSplitsSamplesFromAlpha(t *testing.T) {
	n, err := Construct("risk", []float64{-10, -5, -2, 0, 1, 2, 3, 5, 8, 10, 0.95})
	require.NoError(t, err)
	r, ok := n.(Risk)
	require.True(t, ok)
	assert.Equal(t, 0.95, r.Alpha)
	assert.Equal(t, -10.0, r.VaR())
}

// hypothesis bits over a 2-element frame {rain, shine}.
const (
	hRain  uint64 = 1 << 0
	hShine uint64 = 1 << 1
)

func TestDempsterShaferBeliefAndPlausibility(t *testing.T) {
	ds := DempsterShafer{Focals: []DSFocal{
		{Mask: hRain, Mass: 0.6},
		{Mask: hRain | hShine, Mass: 0.4},
	}}
	require.NoError(t, ds.Validate())
	assert.InDelta(t, 0.6, ds.Belief(hRain), 1e-12)
	assert.InDelta(t, 1.0, ds.Plausibility(hRain), 1e-12)
	assert.InDelta(t, 0.0, ds.Belief(hShine), 1e-12)
	assert.InDelta(t, 0.4, ds.Plausibility(hShine), 1e-12)
}

func TestDempsterCombineNormalizesToOne(t *testing.T) {
	a := DempsterShafer{Focals: []DSFocal{{Mask: hRain, Mass: 0.6}, {Mask: hRain | hShine, Mass: 0.4}}}
	b := DempsterShafer{Focals: []DSFocal{{Mask: hShine, Mass: 0.7}, {Mask: hRain | hShine, Mass: 0.3}}}

	combined, err := a.Combine(b)
	require.NoError(t, err)

	total := 0.0
	for _, f := range combined.Focals {
		total += f.Mass
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestDempsterCombineFailsOnTotalConflict(t *testing.T) {
	a := DempsterShafer{Focals: []DSFocal{{Mask: hRain, Mass: 1.0}}}
	b := DempsterShafer{Focals: []DSFocal{{Mask: hShine, Mass: 1.0}}}

	_, err := a.Combine(b)
	assert.Error(t, err)
}

func TestDempsterShaferValidateRejectsBadMasses(t *testing.T) {
	assert.Error(t, DempsterShafer{}.Validate())
	assert.Error(t, DempsterShafer{Focals: []DSFocal{{Mask: 0, Mass: 1}}}.Validate())
	assert.Error(t, DempsterShafer{Focals: []DSFocal{{Mask: hRain, Mass: 0.5}}}.Validate())
}
