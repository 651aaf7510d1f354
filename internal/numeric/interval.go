package numeric

import (
	"fmt"

	"github.com/aledsdavies/betlang/internal/prng"
)

func init() {
	register("affine", func(args []float64) (Number, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("affine expects (lo hi), got %d argument(s)", len(args))
		}
		return Affine{Lo: args[0], Hi: args[1]}, nil
	})
	register("imprecise", func(args []float64) (Number, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("imprecise expects (lo hi), got %d argument(s)", len(args))
		}
		return Imprecise{Lo: args[0], Hi: args[1]}, nil
	})
	register("hyperreal", func(args []float64) (Number, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("hyperreal expects (standard infinitesimal), got %d argument(s)", len(args))
		}
		return Hyperreal{Standard: args[0], Infinitesimal: args[1]}, nil
	})
}

// Affine is an interval [Lo, Hi] tracked through arithmetic the way
// affine-arithmetic error bounds are: a midpoint plus a radius term
// that add/subtract linearly and whose product takes the interval
// hull, conservative but cheap.
type Affine struct {
	Lo, Hi float64
}

func (Affine) Tag() string     { return "affine" }
func (a Affine) Mean() float64 { return (a.Lo + a.Hi) / 2 }

func (a Affine) Validate() error {
	if a.Lo > a.Hi {
		return fmt.Errorf("affine: lo (%v) must be <= hi (%v)", a.Lo, a.Hi)
	}
	return nil
}

// Sample draws uniformly within the interval — the maximum-entropy
// choice absent any further information about the interval's interior.
func (a Affine) Sample(st *prng.State) (float64, error) {
	return lerp(a.Lo, a.Hi, st.Float64()), nil
}

// Add returns the interval hull of a+b, linear per affine-arithmetic
// rules.
func (a Affine) Add(b Affine) Affine { return Affine{Lo: a.Lo + b.Lo, Hi: a.Hi + b.Hi} }

// Mul returns the interval hull of a*b over all four corner products,
// the standard conservative interval-multiplication rule.
func (a Affine) Mul(b Affine) Affine {
	lo, hi := hull(a.Lo*b.Lo, a.Lo*b.Hi, a.Hi*b.Lo, a.Hi*b.Hi)
	return Affine{Lo: lo, Hi: hi}
}

// Imprecise is an imprecise-probability interval [Lo, Hi]: unlike
// Affine's error-bound semantics, the interval here bounds an unknown
// true probability rather than a measurement's tolerance — kept as a
// distinct tag so pattern matches and diagnostics can tell the two
// apart even though their arithmetic coincides.
type Imprecise struct {
	Lo, Hi float64
}

func (Imprecise) Tag() string     { return "imprecise" }
func (i Imprecise) Mean() float64 { return (i.Lo + i.Hi) / 2 }

func (i Imprecise) Validate() error {
	if i.Lo < 0 || i.Hi > 1 || i.Lo > i.Hi {
		return fmt.Errorf("imprecise: need 0 <= lo <= hi <= 1, got [%v, %v]", i.Lo, i.Hi)
	}
	return nil
}

func (i Imprecise) Sample(st *prng.State) (float64, error) {
	return lerp(i.Lo, i.Hi, st.Float64()), nil
}

// Complement flips the interval and subtracts from 1 (spec §4.9): the
// upper bound on "not A" is 1 minus the lower bound on A, and vice versa.
func (i Imprecise) Complement() Imprecise {
	return Imprecise{Lo: 1 - i.Hi, Hi: 1 - i.Lo}
}

// And is the independence-bound conjunction: both endpoints multiply,
// since P(A and B) under independence is P(A)*P(B) regardless of where
// in [Lo, Hi] the true probabilities sit.
func (i Imprecise) And(o Imprecise) Imprecise {
	return Imprecise{Lo: i.Lo * o.Lo, Hi: i.Hi * o.Hi}
}

// Or is the independence-bound disjunction, P(A or B) = P(A) + P(B) -
// P(A)*P(B), applied endpoint-wise.
func (i Imprecise) Or(o Imprecise) Imprecise {
	orAt := func(a, b float64) float64 { return a + b - a*b }
	return Imprecise{Lo: orAt(i.Lo, o.Lo), Hi: orAt(i.Hi, o.Hi)}
}

// BayesUpdate applies Bayes' rule P(H|E) = P(E|H)*P(H) / P(E)
// separately to each endpoint of the prior, using a precise likelihood
// and evidence (spec §4.9).
func (i Imprecise) BayesUpdate(likelihood, evidence float64) (Imprecise, error) {
	if evidence <= 0 {
		return Imprecise{}, fmt.Errorf("imprecise: bayes update requires evidence > 0, got %v", evidence)
	}
	lo := clamp01(likelihood * i.Lo / evidence)
	hi := clamp01(likelihood * i.Hi / evidence)
	if lo > hi {
		lo, hi = hi, lo
	}
	return Imprecise{Lo: lo, Hi: hi}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Hyperreal is Standard + Infinitesimal*epsilon, a nonstandard-analysis
// number kept as an exact pair rather than sampled (spec §5: hyperreal
// values participate in arithmetic and ordering, never in sample).
type Hyperreal struct {
	Standard, Infinitesimal float64
}

func (Hyperreal) Tag() string     { return "hyperreal" }
func (h Hyperreal) Mean() float64 { return h.Standard }

func (h Hyperreal) Validate() error { return nil }

// Add combines two hyperreals componentwise.
func (h Hyperreal) Add(o Hyperreal) Hyperreal {
	return Hyperreal{Standard: h.Standard + o.Standard, Infinitesimal: h.Infinitesimal + o.Infinitesimal}
}

// Mul multiplies two hyperreals, dropping the epsilon^2 term (spec
// §4.9: "mul drops epsilon^2 terms"), since an infinitesimal squared is
// taken as indistinguishable from zero at this order of approximation.
func (h Hyperreal) Mul(o Hyperreal) Hyperreal {
	return Hyperreal{
		Standard:      h.Standard * o.Standard,
		Infinitesimal: h.Standard*o.Infinitesimal + h.Infinitesimal*o.Standard,
	}
}

// StandardPart returns the finite part of h, discarding the
// infinitesimal term (spec §4.9).
func (h Hyperreal) StandardPart() float64 { return h.Standard }

// Less compares lexicographically: the standard part dominates, the
// infinitesimal part only breaks ties between equal standard parts —
// the defining order relation of the hyperreals.
func (h Hyperreal) Less(o Hyperreal) bool {
	if h.Standard != o.Standard {
		return h.Standard < o.Standard
	}
	return h.Infinitesimal < o.Infinitesimal
}
