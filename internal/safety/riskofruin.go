package safety

import (
	"fmt"

	"github.com/aledsdavies/betlang/internal/prng"
)

// DefaultMonteCarloTrajectories and DefaultMonteCarloMaxBets are spec
// §4.8's unspecified-but-fixed defaults: up to 10^4 simulated
// trajectories, each run for up to 10^3 bets before being counted as
// survived.
const (
	DefaultMonteCarloTrajectories = 10_000
	DefaultMonteCarloMaxBets      = 1_000
)

// RiskOfRuinAnalytic returns the closed-form risk of ruin for the
// symmetric fair-game case (p = 0.5): RoR = (target - initial) /
// target, for a bettor whose wealth starts at initial and who stops
// when it reaches target (spec §4.8).
func RiskOfRuinAnalytic(target, initial float64) (float64, error) {
	if target <= 0 {
		return 0, fmt.Errorf("risk-of-ruin: target must be > 0, got %v", target)
	}
	if initial < 0 {
		return 0, fmt.Errorf("risk-of-ruin: initial wealth must be >= 0, got %v", initial)
	}
	if initial >= target {
		return 0, nil
	}
	return (target - initial) / target, nil
}

// MonteCarloRiskOfRuin estimates the probability that a bettor starting
// with initial wealth, staking a fixed fraction `stake` of current
// wealth per bet at win probability p and net odds b, is ruined before
// reaching target: simulate up to `trajectories` independent paths of
// up to `maxBets` bets each; a path is ruined if wealth falls to or
// below ruinThreshold, survived if it reaches target or exhausts
// maxBets (spec §4.8). Consumes PRNG entropy — one of the spec §4.7
// entropy-consuming operations.
func MonteCarloRiskOfRuin(st *prng.State, initial, stake, p, b, target, ruinThreshold float64, trajectories, maxBets int) (float64, error) {
	if initial <= 0 {
		return 0, fmt.Errorf("risk-of-ruin: initial wealth must be > 0, got %v", initial)
	}
	if stake <= 0 || stake > 1 {
		return 0, fmt.Errorf("risk-of-ruin: stake fraction must be in (0, 1], got %v", stake)
	}
	if target <= ruinThreshold {
		return 0, fmt.Errorf("risk-of-ruin: target %v must exceed the ruin threshold %v", target, ruinThreshold)
	}

	ruined := 0
	for traj := 0; traj < trajectories; traj++ {
		balance := initial
		for bet := 0; bet < maxBets; bet++ {
			wager := balance * stake
			if st.Float64() < p {
				balance += wager * b
			} else {
				balance -= wager
			}
			if balance <= ruinThreshold {
				ruined++
				break
			}
			if balance >= target {
				break
			}
		}
	}
	return float64(ruined) / float64(trajectories), nil
}

// RiskOfRuin picks the analytic estimator for the symmetric fair-game
// case (p = 0.5) and falls back to the Monte-Carlo estimator otherwise
// (spec §4.8), using the spec's default trajectory/bet-count budget.
func RiskOfRuin(st *prng.State, initial, stake, p, b, target, ruinThreshold float64) (float64, error) {
	if p == 0.5 {
		return RiskOfRuinAnalytic(target, initial)
	}
	return MonteCarloRiskOfRuin(st, initial, stake, p, b, target, ruinThreshold, DefaultMonteCarloTrajectories, DefaultMonteCarloMaxBets)
}
