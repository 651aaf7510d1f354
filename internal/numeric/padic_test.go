package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPAdicProbMeanSumsExpansion(t *testing.T) {
	// base=5, digits=[2,0,1] -> 2/5 + 0/25 + 1/125 ~= 0.408 (spec scenario 6).
	p := PAdicProb{Base: 5, Digits: []int{2, 0, 1}}
	require.NoError(t, p.Validate())
	assert.InDelta(t, 0.408, p.Mean(), 1e-9)
}

func TestPAdicProbRefineAppendsDigit(t *testing.T) {
	p := PAdicProb{Base: 5, Digits: []int{2, 0}}
	refined := p.Refine(1)
	assert.Equal(t, []int{2, 0, 1}, refined.Digits)
	assert.InDelta(t, 0.408, refined.Mean(), 1e-9)
}

func TestPAdicProbValidateRejectsBadInputs(t *testing.T) {
	assert.Error(t, PAdicProb{Base: 1, Digits: []int{0}}.Validate())
	assert.Error(t, PAdicProb{Base: 5, Digits: []int{5}}.Validate())
	assert.Error(t, PAdicProb{Base: 5, Digits: []int{-1}}.Validate())
}

func TestPAdicAdvMeanSumsDigitExpansion(t *testing.T) {
	// 1 + 0*3 + 2*9 = 19 in base 3, valuation 0.
	p := PAdicAdv{Prime: 3, Digits: []int{1, 0, 2}}
	require.NoError(t, p.Validate())
	assert.Equal(t, 19.0, p.Mean())
}

func TestPAdicAdvValidateRejectsOutOfRangeDigits(t *testing.T) {
	assert.Error(t, PAdicAdv{Prime: 3, Digits: []int{0, 3}}.Validate())
	assert.Error(t, PAdicAdv{Prime: 3, Digits: []int{-1}}.Validate())
}

func TestPAdicAdvValidateRejectsNonPrime(t *testing.T) {
	assert.Error(t, PAdicAdv{Prime: 1, Digits: []int{0}}.Validate())
	assert.Error(t, PAdicAdv{Prime: 4, Digits: []int{0}}.Validate())
}

func TestPAdicAdvAddAlignsByValuationAndCarries(t *testing.T) {
	// base 3: (1) + (2) = (0,1) -- 1+2=3 carries to 10 in base 3.
	a := PAdicAdv{Prime: 3, Digits: []int{1}}
	b := PAdicAdv{Prime: 3, Digits: []int{2}}
	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, sum.Digits)
	assert.Equal(t, 3.0, sum.Mean())
}

func TestPAdicAdvAddRejectsMismatchedPrimes(t *testing.T) {
	a := PAdicAdv{Prime: 3, Digits: []int{1}}
	b := PAdicAdv{Prime: 5, Digits: []int{1}}
	_, err := a.Add(b)
	assert.Error(t, err)
}
