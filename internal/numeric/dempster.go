package numeric

import (
	"fmt"
	"math"
	"sort"

	"github.com/aledsdavies/betlang/internal/prng"
)

func init() {
	register("risk", func(args []float64) (Number, error) {
		if len(args) < 2 {
			return nil, fmt.Errorf("risk expects (sample... alpha), got %d argument(s)", len(args))
		}
		alpha := args[len(args)-1]
		samples := append([]float64(nil), args[:len(args)-1]...)
		return Risk{Samples: samples, Alpha: alpha}, nil
	})
	register("lottery", func(args []float64) (Number, error) {
		if len(args) == 0 || len(args)%2 != 0 {
			return nil, fmt.Errorf("lottery expects an even number of (value weight) arguments, got %d", len(args))
		}
		var outcomes []LotteryOutcome
		for i := 0; i < len(args); i += 2 {
			outcomes = append(outcomes, LotteryOutcome{Value: args[i], Weight: args[i+1]})
		}
		return Lottery{Outcomes: outcomes}, nil
	})
	register("dempster-shafer", func(args []float64) (Number, error) {
		if len(args) == 0 || len(args)%2 != 0 {
			return nil, fmt.Errorf("dempster-shafer expects an even number of (hypothesis-mask mass) arguments, got %d", len(args))
		}
		var focals []DSFocal
		for i := 0; i < len(args); i += 2 {
			focals = append(focals, DSFocal{Mask: uint64(args[i]), Mass: args[i+1]})
		}
		return DempsterShafer{Focals: focals}, nil
	})
}

// Risk is a sample-based loss distribution: a finite set of observed or
// simulated outcomes together with a confidence level Alpha in (0, 1),
// from which VaR and CVaR are computed as order statistics (spec §5,
// §4.9) — the direct input to the safety kernel's tail-risk queries.
type Risk struct {
	Samples []float64
	Alpha   float64
}

func (Risk) Tag() string     { return "risk" }
func (r Risk) Mean() float64 { return r.VaR() }

func (r Risk) Validate() error {
	if len(r.Samples) == 0 {
		return fmt.Errorf("risk: needs at least one sample")
	}
	if r.Alpha <= 0 || r.Alpha >= 1 {
		return fmt.Errorf("risk: alpha must be in (0, 1), got %v", r.Alpha)
	}
	return nil
}

func (r Risk) Sample(st *prng.State) (float64, error) {
	return r.Samples[int(st.Float64()*float64(len(r.Samples)))%len(r.Samples)], nil
}

// sorted returns Samples in ascending order without mutating Samples.
func (r Risk) sorted() []float64 {
	s := append([]float64(nil), r.Samples...)
	sort.Float64s(s)
	return s
}

// varIndex returns the 0-indexed order-statistic position of VaR at
// Alpha: floor((1 - Alpha) * n), clamped to a valid index (spec §4.9).
func (r Risk) varIndex() int {
	n := len(r.Samples)
	idx := int(math.Floor((1 - r.Alpha) * float64(n)))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// VaR is the value-at-risk at Alpha: the ⌊(1-Alpha)·n⌋-th order
// statistic of the sorted samples (spec §4.9).
func (r Risk) VaR() float64 {
	s := r.sorted()
	return s[r.varIndex()]
}

// CVaR is the conditional value-at-risk at Alpha: the mean of every
// sample at or below VaR (spec §4.9).
func (r Risk) CVaR() float64 {
	s := r.sorted()
	cut := s[r.varIndex()]
	sum, n := 0.0, 0
	for _, v := range s {
		if v <= cut {
			sum += v
			n++
		}
	}
	if n == 0 {
		return cut
	}
	return sum / float64(n)
}

// LotteryOutcome is one (value, weight) pair of a Lottery.
type LotteryOutcome struct {
	Value, Weight float64
}

// Lottery is a discrete weighted outcome set — the numeric-kernel twin
// of the bet-weighted special form, usable as an ordinary value (bound
// by let, passed as an argument) rather than only inline in a bet.
type Lottery struct {
	Outcomes []LotteryOutcome
}

func (Lottery) Tag() string { return "lottery" }

func (l Lottery) total() float64 {
	sum := 0.0
	for _, o := range l.Outcomes {
		sum += o.Weight
	}
	return sum
}

func (l Lottery) Mean() float64 {
	total := l.total()
	if total == 0 {
		return 0
	}
	sum := 0.0
	for _, o := range l.Outcomes {
		sum += o.Value * o.Weight / total
	}
	return sum
}

func (l Lottery) Validate() error {
	if len(l.Outcomes) == 0 {
		return fmt.Errorf("lottery: needs at least one outcome")
	}
	total := 0.0
	for _, o := range l.Outcomes {
		if o.Weight < 0 {
			return fmt.Errorf("lottery: negative weight %v", o.Weight)
		}
		total += o.Weight
	}
	if total <= 0 {
		return fmt.Errorf("lottery: weights sum to %v, must be > 0", total)
	}
	return nil
}

func (l Lottery) Sample(st *prng.State) (float64, error) {
	total := l.total()
	target := st.Float64() * total
	acc := 0.0
	for _, o := range l.Outcomes {
		acc += o.Weight
		if target < acc {
			return o.Value, nil
		}
	}
	return l.Outcomes[len(l.Outcomes)-1].Value, nil
}

// DSFocal is one focal element of a Dempster-Shafer mass assignment: a
// set of hypotheses (encoded as a bitmask over an arbitrary finite
// frame of discernment) together with the mass committed to exactly
// that set, no more specifically (spec §5, §4.9).
type DSFocal struct {
	Mask uint64
	Mass float64
}

// DempsterShafer is a general belief-function mass assignment: a set of
// focal elements whose masses sum to 1 (spec §5). Not Samplable: a
// belief function's meaning is its Bel/Pl interval over a hypothesis,
// not a scalar draw.
type DempsterShafer struct {
	Focals []DSFocal
}

func (DempsterShafer) Tag() string { return "dempster-shafer" }

// Mean reports the pignistic (Bel+Pl)/2 midpoint for the frame's full
// hypothesis (the union of every focal mask), used where a single
// point estimate is unavoidable (e.g. ordering bet-weighted outcomes).
func (d DempsterShafer) Mean() float64 {
	var universe uint64
	for _, f := range d.Focals {
		universe |= f.Mask
	}
	bel, pl := d.Belief(universe), d.Plausibility(universe)
	return (bel + pl) / 2
}

func (d DempsterShafer) Validate() error {
	if len(d.Focals) == 0 {
		return fmt.Errorf("dempster-shafer: needs at least one focal element")
	}
	total := 0.0
	for _, f := range d.Focals {
		if f.Mask == 0 {
			return fmt.Errorf("dempster-shafer: focal element must be a non-empty hypothesis set")
		}
		if f.Mass < 0 {
			return fmt.Errorf("dempster-shafer: masses must be non-negative")
		}
		total += f.Mass
	}
	if diff := total - 1.0; diff > 1e-9 || diff < -1e-9 {
		return fmt.Errorf("dempster-shafer: masses must sum to 1, got %v", total)
	}
	return nil
}

// Belief is the sum of mass committed to focal elements that are
// entirely contained in hypothesis (the lower probability bound).
func (d DempsterShafer) Belief(hypothesis uint64) float64 {
	sum := 0.0
	for _, f := range d.Focals {
		if f.Mask&^hypothesis == 0 {
			sum += f.Mass
		}
	}
	return sum
}

// Plausibility is the sum of mass committed to focal elements that
// intersect hypothesis at all (the upper probability bound).
func (d DempsterShafer) Plausibility(hypothesis uint64) float64 {
	sum := 0.0
	for _, f := range d.Focals {
		if f.Mask&hypothesis != 0 {
			sum += f.Mass
		}
	}
	return sum
}

// Combine applies Dempster's rule of combination to d and other:
// pairwise intersect every focal from d with every focal from other,
// summing the product of their masses into the intersection's mass,
// then renormalize by 1 minus the total conflicting mass (mass
// assigned to the empty intersection). Combine fails iff the total
// conflicting mass is 1 (spec §4.9's testable normalization property).
func (d DempsterShafer) Combine(other DempsterShafer) (DempsterShafer, error) {
	merged := make(map[uint64]float64)
	conflict := 0.0
	for _, fa := range d.Focals {
		for _, fb := range other.Focals {
			mass := fa.Mass * fb.Mass
			inter := fa.Mask & fb.Mask
			if inter == 0 {
				conflict += mass
				continue
			}
			merged[inter] += mass
		}
	}
	norm := 1 - conflict
	if norm <= 1e-12 {
		return DempsterShafer{}, fmt.Errorf("dempster-shafer: total conflict, masses cannot be combined")
	}
	focals := make([]DSFocal, 0, len(merged))
	for mask, mass := range merged {
		focals = append(focals, DSFocal{Mask: mask, Mass: mass / norm})
	}
	return DempsterShafer{Focals: focals}, nil
}
