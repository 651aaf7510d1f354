package numeric

import (
	"fmt"
	"math"

	"github.com/aledsdavies/betlang/internal/prng"
)

// surrealFuzzyDepth bounds the dyadic refinement in SurrealAdv's
// simplest (SurrealFuzzy does not use it); it is fixed at 10, deep
// enough to distinguish any two values useful at betting-stake
// precision, and documented as an open-question decision.
const surrealFuzzyDepth = 10

func init() {
	register("fuzzy-triangular", func(args []float64) (Number, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("fuzzy-triangular expects (a b c), got %d argument(s)", len(args))
		}
		return FuzzyTriangular{A: args[0], B: args[1], C: args[2]}, nil
	})
	register("surreal-fuzzy", func(args []float64) (Number, error) {
		if len(args) != 4 {
			return nil, fmt.Errorf("surreal-fuzzy expects (a b c epsilon), got %d argument(s)", len(args))
		}
		return SurrealFuzzy{A: args[0], B: args[1], C: args[2], Epsilon: args[3]}, nil
	})
}

// FuzzyTriangular is a triangular fuzzy number with support [A, C] and
// peak (membership 1) at B.
type FuzzyTriangular struct {
	A, B, C float64
}

func (FuzzyTriangular) Tag() string { return "fuzzy-triangular" }

func (f FuzzyTriangular) Mean() float64 { return (f.A + f.B + f.C) / 3 }

func (f FuzzyTriangular) Validate() error {
	if !(f.A <= f.B && f.B <= f.C) {
		return fmt.Errorf("fuzzy-triangular: need a <= b <= c, got (%v, %v, %v)", f.A, f.B, f.C)
	}
	return nil
}

// Membership returns the degree (0..1) to which x belongs to f.
func (f FuzzyTriangular) Membership(x float64) float64 {
	switch {
	case x <= f.A || x >= f.C:
		return 0
	case x <= f.B:
		if f.B == f.A {
			return 1
		}
		return (x - f.A) / (f.B - f.A)
	default:
		if f.C == f.B {
			return 1
		}
		return (f.C - x) / (f.C - f.B)
	}
}

// And is fuzzy conjunction (spec §4.9): the membership of the
// intersection is the minimum of the two memberships.
func (f FuzzyTriangular) And(x float64, o FuzzyTriangular) float64 {
	return math.Min(f.Membership(x), o.Membership(x))
}

// Or is fuzzy disjunction: the membership of the union is the maximum
// of the two memberships.
func (f FuzzyTriangular) Or(x float64, o FuzzyTriangular) float64 {
	return math.Max(f.Membership(x), o.Membership(x))
}

// Not is fuzzy negation: membership in the complement is 1 minus
// membership in f.
func (f FuzzyTriangular) Not(x float64) float64 {
	return 1 - f.Membership(x)
}

// Sample draws via inverse-CDF sampling of the triangular distribution
// — the standard way to turn a fuzzy/possibility triangle into a
// realizable scalar when the primitive `sample` form is applied to it.
func (f FuzzyTriangular) Sample(st *prng.State) (float64, error) {
	u := st.Float64()
	fb := 0.0
	if f.C > f.A {
		fb = (f.B - f.A) / (f.C - f.A)
	}
	if u < fb {
		if fb == 0 {
			return f.A, nil
		}
		return f.A + math.Sqrt(u*(f.C-f.A)*(f.B-f.A)), nil
	}
	if fb == 1 {
		return f.C, nil
	}
	return f.C - math.Sqrt((1-u)*(f.C-f.A)*(f.C-f.B)), nil
}

// SurrealFuzzy is FuzzyTriangular(A, B, C) with both support endpoints
// relaxed outward by Epsilon (spec §4.9: "as FuzzyTriangular but
// endpoints relaxed by epsilon on each side"), modeling irreducible
// uncertainty about where the fuzzy number's support actually begins
// and ends.
type SurrealFuzzy struct {
	A, B, C, Epsilon float64
}

func (SurrealFuzzy) Tag() string { return "surreal-fuzzy" }

// relaxed is the FuzzyTriangular with A and C pushed out by Epsilon.
func (s SurrealFuzzy) relaxed() FuzzyTriangular {
	return FuzzyTriangular{A: s.A - s.Epsilon, B: s.B, C: s.C + s.Epsilon}
}

func (s SurrealFuzzy) Mean() float64 { return s.relaxed().Mean() }

func (s SurrealFuzzy) Validate() error {
	if !(s.A <= s.B && s.B <= s.C) {
		return fmt.Errorf("surreal-fuzzy: need a <= b <= c, got (%v, %v, %v)", s.A, s.B, s.C)
	}
	if s.Epsilon < 0 {
		return fmt.Errorf("surreal-fuzzy: epsilon must be >= 0, got %v", s.Epsilon)
	}
	return nil
}

// Membership returns the degree (0..1) to which x belongs to s, using
// the epsilon-relaxed support.
func (s SurrealFuzzy) Membership(x float64) float64 { return s.relaxed().Membership(x) }

func (s SurrealFuzzy) Sample(st *prng.State) (float64, error) {
	return s.relaxed().Sample(st)
}
