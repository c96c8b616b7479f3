package voicing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func v(pitches ...int) Voicing {
	return Voicing{Pitches: pitches, Style: StyleClosed}
}

func TestCostIdentityIsZero(t *testing.T) {
	voicings := []Voicing{
		v(60, 64, 67),
		v(50, 57, 65, 71),
		v(48),
	}
	for _, x := range voicings {
		assert.Zero(t, Cost(x, x), "Cost(v, v) must be zero for %v", x.Pitches)
	}
}

func TestCostNonNegative(t *testing.T) {
	a := v(60, 64, 67)
	b := v(59, 62, 67)
	assert.GreaterOrEqual(t, Cost(a, b), 0.0)
	assert.GreaterOrEqual(t, Cost(b, a), 0.0)
}

func TestCostSumsDisplacement(t *testing.T) {
	// C-E-G to B-D-G: two voices step down, one holds. 1 + 2 + 0 = 3.
	a := v(60, 64, 67)
	b := v(59, 62, 67)
	assert.Equal(t, 3.0, Cost(a, b))
}

func TestCostCommonTonesFree(t *testing.T) {
	// Only the top voice moves by a semitone.
	a := v(60, 64, 67)
	b := v(60, 64, 68)
	assert.Equal(t, 1.0, Cost(a, b))
}

func TestCostAddedVoicePenalty(t *testing.T) {
	// Three voices to four: matched voices hold, one extra voice appears.
	a := v(60, 64, 67)
	b := v(60, 64, 67, 72)
	assert.Equal(t, DefaultAddedVoicePenalty, Cost(a, b))

	// Symmetric on removal.
	assert.Equal(t, DefaultAddedVoicePenalty, Cost(b, a))
}

func TestCostParallelFifths(t *testing.T) {
	// Two voices a perfect fifth apart both move up a whole step: parallel
	// fifth, penalized on top of the 4 semitones of motion.
	a := v(60, 67)
	b := v(62, 69)
	assert.Equal(t, 4.0+DefaultParallelPenalty, Cost(a, b))
}

func TestCostParallelOctaves(t *testing.T) {
	a := v(48, 60)
	b := v(50, 62)
	assert.Equal(t, 4.0+DefaultParallelPenalty, Cost(a, b))
}

func TestCostNoParallelWhenOneVoiceHolds(t *testing.T) {
	// The fifth interval persists but the lower voice does not move, so the
	// motion is oblique, not parallel.
	a := v(60, 67)
	b := v(60, 67)
	assert.Zero(t, Cost(a, b))
}

func TestCostContraryFifthsNotParallel(t *testing.T) {
	// Fifth before, fourth after: interval changed, no parallel.
	a := v(60, 67)
	b := v(62, 67)
	assert.Equal(t, 2.0, Cost(a, b))
}

func TestCostConfigOverrides(t *testing.T) {
	cfg := CostConfig{AddedVoicePenalty: 10, ParallelPenalty: 1}
	a := v(60, 64, 67)
	b := v(60, 64, 67, 72)
	assert.Equal(t, 10.0, cfg.Cost(a, b))
}

func TestMatchVoicesAscendingFromOrder(t *testing.T) {
	// Three voices contracting to two: the nearest-note scan visits the
	// smaller set first and can discover the 'from' notes out of order, but
	// the consecutive-pair checks need them sorted.
	pairs := matchVoices([]int{50, 60, 100}, []int{95, 55})
	assert.Equal(t, []voicePair{{from: 50, to: 55}, {from: 100, to: 95}}, pairs)
	for i := 1; i < len(pairs); i++ {
		assert.Greater(t, pairs[i].from, pairs[i-1].from)
	}
}

func TestViolationsMaxLeap(t *testing.T) {
	a := v(60, 64, 67)
	b := v(60, 64, 79) // top voice leaps an octave
	maxLeap, crossing, parallels := Violations(a, b)
	assert.Equal(t, 12, maxLeap)
	assert.False(t, crossing)
	assert.False(t, parallels)
}

func TestViolationsCrossing(t *testing.T) {
	// The middle voice lands above where the top voice lands.
	a := v(60, 64, 67)
	b := v(60, 70, 67)
	_, crossing, _ := Violations(a, b)
	assert.True(t, crossing)
}

func TestViolationsParallels(t *testing.T) {
	a := v(60, 67)
	b := v(62, 69)
	_, _, parallels := Violations(a, b)
	assert.True(t, parallels)
}

func TestViolationsCleanTransition(t *testing.T) {
	a := v(60, 64, 67)
	b := v(59, 62, 67)
	maxLeap, crossing, parallels := Violations(a, b)
	assert.Equal(t, 2, maxLeap)
	assert.False(t, crossing)
	assert.False(t, parallels)
}
