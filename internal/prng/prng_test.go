package prng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedIsDeterministic(t *testing.T) {
	a := Seed(42)
	b := Seed(42)
	for i := 0; i < 1000; i++ {
		assert.Equal(t, a.NextUint64(), b.NextUint64())
	}
}

func TestDifferentSeedsDivergeQuickly(t *testing.T) {
	a := Seed(1)
	b := Seed(2)
	same := true
	for i := 0; i < 8; i++ {
		if a.NextUint64() != b.NextUint64() {
			same = false
			break
		}
	}
	assert.False(t, same, "two distinct seeds should not produce the same stream")
}

func TestFloat64StaysWithinUnitInterval(t *testing.T) {
	st := Seed(7)
	for i := 0; i < 10000; i++ {
		v := st.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	st := Seed(5)
	clone := st.Clone()

	// Advancing the clone must not perturb the original's next draw.
	clone.NextUint64()
	clone.NextUint64()
	clone.NextUint64()
	want := st.NextUint64()

	// Re-seed a fresh copy the same way to confirm the original's stream
	// wasn't touched by the clone's draws.
	fresh := Seed(5)
	assert.Equal(t, want, fresh.NextUint64())
}

func TestJumpProducesANonOverlappingSubstream(t *testing.T) {
	st := Seed(9)
	before := make([]uint64, 16)
	for i := range before {
		before[i] = st.NextUint64()
	}

	jumped := Seed(9)
	jumped.Jump()
	after := make([]uint64, 16)
	for i := range after {
		after[i] = jumped.NextUint64()
	}

	assert.NotEqual(t, before, after)
}

func TestJumpIsDeterministic(t *testing.T) {
	a := Seed(123)
	b := Seed(123)
	a.Jump()
	b.Jump()
	assert.Equal(t, a.NextUint64(), b.NextUint64())
}
