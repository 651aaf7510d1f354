package numeric

import "golang.org/x/exp/constraints"

// lerp linearly interpolates between lo and hi at fraction t in [0, 1],
// generic over any floating-point type so every interval-flavored
// variant (Affine, Imprecise, and any future addition) shares one
// sampling primitive instead of each reimplementing it.
func lerp[T constraints.Float](lo, hi, t T) T { return lo + t*(hi-lo) }

// hull returns the smallest [min, max] bound containing every corner,
// the shared conservative-rounding step behind interval multiplication
// (spec §5's affine/imprecise arithmetic).
func hull[T constraints.Ordered](corners ...T) (T, T) {
	lo, hi := corners[0], corners[0]
	for _, c := range corners[1:] {
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	return lo, hi
}
