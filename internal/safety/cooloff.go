package safety

import (
	"fmt"
	"time"
)

// CoolOffState is the bettor-facing state of the cool-off gate: Idle
// allows a stake, Cooling refuses one until its deadline passes (spec
// §8's CoolOff.Active diagnostic).
type CoolOffState int

const (
	Idle CoolOffState = iota
	Cooling
)

// Adaptive multiplier thresholds (spec §3): the base cool-off period is
// doubled once the trailing-minute bet rate exceeds rateDouble, and
// quadrupled once it exceeds rateQuadruple.
const (
	rateDouble    = 5
	rateQuadruple = 10
)

// CoolOff is the gate a bet passes through before its stake is allowed
// (spec §3, §4.8): Idle admits it, Cooling(until) refuses it until the
// deadline passes. Every successful bet re-arms the gate to
// Cooling(now + period), the period adaptively widened when bets are
// arriving quickly; every blocked attempt increments a violation
// counter instead of changing the deadline. A longer self-exclusion
// window, once opened, cannot be shortened by disabling the gate.
type CoolOff struct {
	clock      Clock
	enabled    bool
	basePeriod time.Duration

	coolUntil          time.Time
	selfExclusionUntil time.Time
	violations         int
	betTimes           []time.Time
}

// NewCoolOff returns an enabled gate with the given base cool-off
// period (spec §6's BETLANG_COOLOFF_SECONDS / `.betlang.yaml`
// cooloff_seconds).
func NewCoolOff(clock Clock, basePeriod time.Duration) *CoolOff {
	return &CoolOff{clock: clock, enabled: true, basePeriod: basePeriod}
}

// SetEnabled toggles the gate. Disabling it short-circuits Status to
// Idle, but — per spec §3 — never bypasses an active self-exclusion
// window: "Self-exclusion is a longer, non-bypassable Cooling window."
func (c *CoolOff) SetEnabled(enabled bool) { c.enabled = enabled }

// Enabled reports the gate's current enabled flag.
func (c *CoolOff) Enabled() bool { return c.enabled }

// Violations reports how many blocked attempts have been recorded.
func (c *CoolOff) Violations() int { return c.violations }

// Status reports the gate's current state and, if Cooling, the
// remaining seconds until it reopens. Self-exclusion is checked first
// and ignores the enabled flag entirely.
func (c *CoolOff) Status() (CoolOffState, float64) {
	now := c.clock.Now()
	if now.Before(c.selfExclusionUntil) {
		return Cooling, c.selfExclusionUntil.Sub(now).Seconds()
	}
	if !c.enabled {
		return Idle, 0
	}
	if now.Before(c.coolUntil) {
		return Cooling, c.coolUntil.Sub(now).Seconds()
	}
	return Idle, 0
}

// Check reports whether a bet may proceed right now, without itself
// recording one (RecordBet does that on the caller's success path). A
// blocked attempt increments the violation counter and returns a
// CoolingError carrying the remaining seconds (spec §3: "on a blocked
// attempt -> Cooling unchanged, violation counter++, error raised").
func (c *CoolOff) Check() error {
	state, remaining := c.Status()
	if state == Cooling {
		c.violations++
		return &CoolingError{RemainingSeconds: remaining}
	}
	return nil
}

// RecordBet re-arms the gate after a successful bet (spec §3: "on a
// successful bet -> Cooling(now + period)"), widening the period 2x or
// 4x once the trailing-minute bet rate crosses rateDouble/rateQuadruple.
func (c *CoolOff) RecordBet() {
	now := c.clock.Now()
	c.betTimes = append(c.betTimes, now)
	rate := c.trailingMinuteRate(now)

	multiplier := time.Duration(1)
	switch {
	case rate > rateQuadruple:
		multiplier = 4
	case rate > rateDouble:
		multiplier = 2
	}
	c.coolUntil = now.Add(multiplier * c.basePeriod)
}

// trailingMinuteRate prunes betTimes to the trailing 60-second window
// ending at now and returns its length, the bets-per-minute figure the
// adaptive multiplier reacts to.
func (c *CoolOff) trailingMinuteRate(now time.Time) int {
	cutoff := now.Add(-time.Minute)
	kept := c.betTimes[:0]
	for _, t := range c.betTimes {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	c.betTimes = kept
	return len(c.betTimes)
}

// SelfExclude opens a self-exclusion window of duration, a Cooling
// state that SetEnabled(false) cannot bypass (spec §3).
func (c *CoolOff) SelfExclude(duration time.Duration) {
	until := c.clock.Now().Add(duration)
	if until.After(c.selfExclusionUntil) {
		c.selfExclusionUntil = until
	}
}

// CoolingError reports that the cool-off gate is active.
type CoolingError struct {
	RemainingSeconds float64
}

func (e *CoolingError) Error() string {
	return fmt.Sprintf("cool-off active: %.1fs remaining", e.RemainingSeconds)
}
