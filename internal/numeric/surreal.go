package numeric

import "fmt"

func init() {
	register("surreal-adv", func(args []float64) (Number, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("surreal-adv expects (lo hi), got %d argument(s)", len(args))
		}
		return SurrealAdv{Lo: args[0], Hi: args[1]}, nil
	})
}

// SurrealAdv is a surreal number given by a cut: a left set bounded by
// Lo and a right set bounded by Hi. Its value is a dyadic rational
// strictly between them, refined to at most surrealFuzzyDepth days
// (see simplest). It is
// exact/symbolic rather than sampled (spec §5): arithmetic and
// ordering are defined, a scalar draw is not.
type SurrealAdv struct {
	Lo, Hi float64
}

func (SurrealAdv) Tag() string { return "surreal-adv" }

func (s SurrealAdv) Mean() float64 { return s.simplest() }

func (s SurrealAdv) Validate() error {
	if s.Lo >= s.Hi {
		return fmt.Errorf("surreal-adv: need lo < hi, got (%v, %v)", s.Lo, s.Hi)
	}
	return nil
}

// simplest truncates the midpoint of Lo and Hi toward zero to a
// multiple of 2^-day for day = 0, 1, … up to surrealFuzzyDepth-1 and
// returns the first such dyadic rational strictly between Lo and Hi,
// or the midpoint itself if none is. The result is not always the
// simplest number in the interval: for (0.1, 5) it is 2, not 1.
func (s SurrealAdv) simplest() float64 {
	lo, hi := s.Lo, s.Hi
	mid := (lo + hi) / 2
	for day := 0; day < surrealFuzzyDepth; day++ {
		candidate := float64(int64(mid*float64(int64(1)<<uint(day)))) / float64(int64(1)<<uint(day))
		if candidate > s.Lo && candidate < s.Hi {
			return candidate
		}
	}
	return mid
}

// Add returns the surreal sum's interval hull, Lo+Lo to Hi+Hi, the
// addition rule for two surreal numbers expressed by their defining
// cuts.
func (s SurrealAdv) Add(o SurrealAdv) SurrealAdv {
	return SurrealAdv{Lo: s.Lo + o.Lo, Hi: s.Hi + o.Hi}
}

// Less reports whether s is strictly simpler-ordered before o, i.e.
// s.Hi <= o.Lo — the partial order surreal cuts induce.
func (s SurrealAdv) Less(o SurrealAdv) bool {
	return s.Hi <= o.Lo
}
