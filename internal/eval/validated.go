package eval

import (
	"errors"

	"github.com/aledsdavies/betlang/internal/diag"
	"github.com/aledsdavies/betlang/internal/ir"
	"github.com/aledsdavies/betlang/internal/prng"
	"github.com/aledsdavies/betlang/internal/safety"
)

// evalValidatedBet runs the safety kernel's full pipeline (spec §3,
// §4.4): Dutch-book-check Probs, enforce the Kelly/risk bound on
// Stake, enforce the cool-off gate — failing on the first unsatisfied
// precondition with its exact spec §7 kind. Once every check passes it
// returns the Stake value; it performs no draw. The safety
// configuration comes from env's threaded session if one was set up by
// the driver, or a permissive no-cool-off default otherwise.
func evalValidatedBet(vb *ir.ValidatedBet, env *Env, st *prng.State) (Value, error) {
	probsVal, err := Eval(vb.Probs, env, st)
	if err != nil {
		return nil, err
	}
	probsList, ok := probsVal.(List)
	if !ok {
		return nil, newError(vb, diag.KindTypeMismatch, "validated-bet expects a list of probabilities, got %s", typeName(probsVal))
	}
	probs := make([]float64, len(probsList))
	for i, v := range probsList {
		f, ok := AsFloat64(v)
		if !ok {
			return nil, newError(vb, diag.KindTypeMismatch, "validated-bet expects numeric probability list elements")
		}
		probs[i] = f
	}

	pVal, err := Eval(vb.P, env, st)
	if err != nil {
		return nil, err
	}
	p, ok := AsFloat64(pVal)
	if !ok {
		return nil, newError(vb, diag.KindTypeMismatch, "validated-bet expects a numeric probability, got %s", typeName(pVal))
	}

	oddsVal, err := Eval(vb.Odds, env, st)
	if err != nil {
		return nil, err
	}
	odds, ok := AsFloat64(oddsVal)
	if !ok {
		return nil, newError(vb, diag.KindTypeMismatch, "validated-bet expects numeric odds, got %s", typeName(oddsVal))
	}

	stakeVal, err := Eval(vb.Stake, env, st)
	if err != nil {
		return nil, err
	}
	stake, ok := AsFloat64(stakeVal)
	if !ok {
		return nil, newError(vb, diag.KindTypeMismatch, "validated-bet expects a numeric stake, got %s", typeName(stakeVal))
	}

	cfg := env.SafetyConfig()
	if err := safety.ValidatedBet(cfg, probs, p, odds, stake); err != nil {
		return nil, validatedBetError(vb, err)
	}
	return stakeVal, nil
}

// validatedBetError maps a safety.ValidationError's Stage to its exact
// spec §7 diagnostic kind, carrying the remaining cool-off seconds
// through for CoolOff.Active so the driver can attach a remediation
// hint.
func validatedBetError(vb *ir.ValidatedBet, err error) error {
	var verr *safety.ValidationError
	if !errors.As(err, &verr) {
		return newError(vb, diag.KindEvalAborted, "%v", err)
	}
	switch verr.Stage {
	case safety.StageDutchBook:
		return newError(vb, diag.KindDutchBookViolation, "%v", verr.Err)
	case safety.StageKelly:
		return newError(vb, diag.KindRiskKellyExceeded, "%v", verr.Err)
	case safety.StageStakeUnsafe:
		return newError(vb, diag.KindRiskStakeUnsafe, "%v", verr.Err)
	case safety.StageCoolOff:
		e := newError(vb, diag.KindCoolOffActive, "%v", verr.Err)
		var cooling *safety.CoolingError
		if errors.As(verr.Err, &cooling) {
			e.Remaining = cooling.RemainingSeconds
		}
		return e
	default:
		return newError(vb, diag.KindEvalAborted, "%v", verr.Err)
	}
}
