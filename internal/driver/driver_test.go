package driver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/betlang/internal/config"
	"github.com/aledsdavies/betlang/internal/eval"
	"github.com/aledsdavies/betlang/internal/safety"
)

func TestRunEvaluatesSimpleArithmetic(t *testing.T) {
	res := Run("t.bl", "(+ 1 2)", config.Default(), 0)
	require.Equal(t, ExitSuccess, res.ExitCode)
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, eval.Int(3), res.Value)
}

func TestRunReportsParseErrorsWithFrontendExitCode(t *testing.T) {
	res := Run("t.bl", "(+ 1", config.Default(), 0)
	assert.Equal(t, ExitFrontendError, res.ExitCode)
	assert.NotEmpty(t, res.Diagnostics)
}

func TestRunReportsUnboundNameAtElaboration(t *testing.T) {
	res := Run("t.bl", "not-a-defined-name", config.Default(), 0)
	assert.Equal(t, ExitFrontendError, res.ExitCode)
	require.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, "Name.Unbound", string(res.Diagnostics[0].Kind))
}

func TestRunIsDeterministicUnderTheSameSeed(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 99
	r1 := Run("t.bl", "(with-seed 99 (bet 'a 'b 'c))", cfg, 0)
	r2 := Run("t.bl", "(with-seed 99 (bet 'a 'b 'c))", cfg, 0)
	require.Equal(t, ExitSuccess, r1.ExitCode)
	require.Equal(t, ExitSuccess, r2.ExitCode)
	assert.Equal(t, r1.Value, r2.Value)
}

func TestRunAbortsOnceStepLimitExceeded(t *testing.T) {
	res := Run("t.bl", "(+ (+ 1 1) (+ 1 1))", config.Default(), 1)
	assert.Equal(t, ExitEvalError, res.ExitCode)
	require.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, "Eval.Aborted", string(res.Diagnostics[len(res.Diagnostics)-1].Kind))
}

func TestCheckSucceedsOnWellFormedProgramWithoutEvaluating(t *testing.T) {
	res := Check("t.bl", "define answer = (+ 20 22)")
	assert.Equal(t, ExitSuccess, res.ExitCode)
	assert.Nil(t, res.Value)
}

func TestCheckFailsOnUnboundName(t *testing.T) {
	res := Check("t.bl", "(+ ghost 1)")
	assert.Equal(t, ExitFrontendError, res.ExitCode)
	assert.NotEmpty(t, res.Diagnostics)
}

func TestRunAddsUncertaintyNumbersViaVariantSpecificRule(t *testing.T) {
	// dist-normal add sums means and variances (spec §4.9), not a
	// collapse to the two means' arithmetic sum of Mean()s.
	res := Run("t.bl", "(+ (dist-normal 1 3) (dist-normal 2 4))", config.Default(), 0)
	require.Equal(t, ExitSuccess, res.ExitCode)
	n, ok := res.Value.(eval.Number)
	require.True(t, ok)
	assert.InDelta(t, 3.0, n.Mean(), 1e-9)
}

func TestRunWithSafetyEvaluatesAValidatedBet(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 7
	res := RunWithSafety("t.bl", "validated-bet (list 0.5 0.5) 0.6 2.0 0.01 end", cfg, 0, nil)
	require.Equal(t, ExitSuccess, res.ExitCode)
	assert.Equal(t, eval.Decimal(0.01), res.Value)
}

func TestRunWithSafetyRejectsAnIncoherentBookWithDutchBookViolation(t *testing.T) {
	cfg := config.Default()
	res := RunWithSafety("t.bl", "validated-bet (list 0.5 0.6) 0.6 2.0 0.01 end", cfg, 0, nil)
	require.Equal(t, ExitEvalError, res.ExitCode)
	require.NotEmpty(t, res.Diagnostics)
	assert.Equal(t, "DutchBook.Violation", string(res.Diagnostics[len(res.Diagnostics)-1].Kind))
}

func TestRunWithSafetyPersistsCoolOffAcrossCallsWhenThreaded(t *testing.T) {
	cfg := config.Default()
	clock := safety.NewFakeClock(time.Unix(0, 0))
	coolOff := safety.NewCoolOff(clock, 10*time.Second)
	const src = "validated-bet (list 0.5 0.5) 0.6 2.0 0.01 end"

	first := RunWithSafety("t.bl", src, cfg, 0, coolOff)
	require.Equal(t, ExitSuccess, first.ExitCode)

	second := RunWithSafety("t.bl", src, cfg, 0, coolOff)
	require.Equal(t, ExitEvalError, second.ExitCode)
	require.NotEmpty(t, second.Diagnostics)
	last := second.Diagnostics[len(second.Diagnostics)-1]
	assert.Equal(t, "CoolOff.Active", string(last.Kind))
	assert.NotEmpty(t, last.Remediation)
	assert.Greater(t, last.RemainingSecs, 0.0)
}

func TestRunWithSafetyScopesCoolOffToOneCallWhenNotThreaded(t *testing.T) {
	cfg := config.Default()
	const src = "validated-bet (list 0.5 0.5) 0.6 2.0 0.01 end"

	first := RunWithSafety("t.bl", src, cfg, 0, nil)
	require.Equal(t, ExitSuccess, first.ExitCode)

	// With no *safety.CoolOff threaded through, each call gets its own
	// fresh gate, so an immediately repeated call still succeeds.
	second := RunWithSafety("t.bl", src, cfg, 0, nil)
	assert.Equal(t, ExitSuccess, second.ExitCode)
}

func TestRunWithSafetyDisabledSkipsCoolOffEntirely(t *testing.T) {
	cfg := config.Default()
	cfg.SafetyEnabled = false
	clock := safety.NewFakeClock(time.Unix(0, 0))
	coolOff := safety.NewCoolOff(clock, 10*time.Second)
	const src = "validated-bet (list 0.5 0.5) 0.6 2.0 0.01 end"

	first := RunWithSafety("t.bl", src, cfg, 0, coolOff)
	require.Equal(t, ExitSuccess, first.ExitCode)

	second := RunWithSafety("t.bl", src, cfg, 0, coolOff)
	assert.Equal(t, ExitSuccess, second.ExitCode)
}

func TestParseReturnsDiagnosticsAndASTSeparately(t *testing.T) {
	prog, m, diags := Parse("t.bl", "(+ 1 2)")
	require.NotNil(t, prog)
	require.NotNil(t, m)
	assert.Empty(t, diags)
	require.Len(t, prog.Forms, 1)
}
