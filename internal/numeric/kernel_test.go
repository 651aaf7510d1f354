package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructRejectsUnknownTag(t *testing.T) {
	_, err := Construct("not-a-real-variant", nil)
	assert.Error(t, err)
}

func TestConstructRunsVariantValidation(t *testing.T) {
	// dist-beta requires alpha, beta > 0; Construct must surface that
	// failure even though the constructor itself builds the value fine.
	_, err := Construct("dist-beta", []float64{0, 1})
	assert.Error(t, err)
}

func TestTagsCoversEveryRegisteredVariant(t *testing.T) {
	tags := Tags()
	want := []string{
		"dist-normal", "dist-beta", "bayesian",
		"fuzzy-triangular", "surreal-fuzzy",
		"p-adic-prob", "p-adic-adv",
		"surreal-adv",
		"affine", "imprecise", "hyperreal",
		"risk", "lottery", "dempster-shafer",
	}
	have := make(map[string]bool, len(tags))
	for _, tg := range tags {
		have[tg] = true
	}
	for _, w := range want {
		assert.True(t, have[w], "missing registered constructor %q", w)
	}
	require.Len(t, tags, len(want))
}

func TestLotteryMeanIsWeightedAverage(t *testing.T) {
	l := Lottery{Outcomes: []LotteryOutcome{
		{Value: 0, Weight: 3},
		{Value: 10, Weight: 1},
	}}
	require.NoError(t, l.Validate())
	assert.InDelta(t, 2.5, l.Mean(), 1e-12)
}

func TestLotteryValidateRejectsZeroTotalWeight(t *testing.T) {
	assert.Error(t, Lottery{}.Validate())
	assert.Error(t, Lottery{Outcomes: []LotteryOutcome{{Value: 1, Weight: 0}}}.Validate())
	assert.Error(t, Lottery{Outcomes: []LotteryOutcome{{Value: 1, Weight: -1}}}.Validate())
}
