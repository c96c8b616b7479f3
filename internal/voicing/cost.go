package voicing

import "sort"

// CostConfig sets the fixed penalty constants of the voice-leading cost
// function. Zero values fall back to the defaults.
type CostConfig struct {
	// AddedVoicePenalty is charged once per voice appearing or disappearing
	// between two voicings of different sizes.
	AddedVoicePenalty float64 `json:"added_voice_penalty"`

	// ParallelPenalty is charged per parallel perfect fifth or octave between
	// consecutive matched voice pairs.
	ParallelPenalty float64 `json:"parallel_penalty"`
}

// Default penalty constants.
const (
	DefaultAddedVoicePenalty = 3.0
	DefaultParallelPenalty   = 8.0

	perfectFifthInterval = 7
)

// DefaultCostConfig returns the standard penalty constants.
func DefaultCostConfig() CostConfig {
	return CostConfig{
		AddedVoicePenalty: DefaultAddedVoicePenalty,
		ParallelPenalty:   DefaultParallelPenalty,
	}
}

func (cfg CostConfig) withDefaults() CostConfig {
	if cfg.AddedVoicePenalty == 0 {
		cfg.AddedVoicePenalty = DefaultAddedVoicePenalty
	}
	if cfg.ParallelPenalty == 0 {
		cfg.ParallelPenalty = DefaultParallelPenalty
	}
	return cfg
}

// Cost scores the melodic motion from voicing a to voicing b with the
// default penalty constants. Pure and deterministic; Cost(v, v) == 0.
func Cost(a, b Voicing) float64 {
	return DefaultCostConfig().Cost(a, b)
}

// Cost computes the minimum-cost matching between the note sets of a and b:
// voice-index pairing when the counts agree, greedy nearest-note matching
// plus the added-voice penalty when they differ. The summed absolute
// semitone displacement of matched pairs, plus parallel perfect fifth and
// octave penalties, is returned. Common tones contribute zero.
func (cfg CostConfig) Cost(a, b Voicing) float64 {
	cfg = cfg.withDefaults()

	pairs := matchVoices(a.Pitches, b.Pitches)

	total := 0.0
	for _, p := range pairs {
		total += float64(abs(p.to - p.from))
	}
	total += cfg.AddedVoicePenalty * float64(abs(len(a.Pitches)-len(b.Pitches)))
	total += cfg.ParallelPenalty * float64(countParallels(pairs))
	return total
}

// Violations reports the hard-constraint breaches of the transition a -> b:
// the largest per-voice leap, whether matched voice paths cross, and whether
// parallel perfect fifths or octaves occur. Used by the optimizers to turn
// soft penalties into infinite transition costs.
func Violations(a, b Voicing) (maxLeap int, crossing bool, parallels bool) {
	pairs := matchVoices(a.Pitches, b.Pitches)
	for i, p := range pairs {
		if leap := abs(p.to - p.from); leap > maxLeap {
			maxLeap = leap
		}
		if i > 0 {
			prev := pairs[i-1]
			// Voice order must be preserved by the motion.
			if prev.from < p.from && prev.to >= p.to {
				crossing = true
			}
		}
	}
	parallels = countParallels(pairs) > 0
	return maxLeap, crossing, parallels
}

type voicePair struct {
	from, to int
}

// matchVoices pairs the notes of two voicings. Equal counts pair by voice
// index. Unequal counts pair each voice of the smaller set with its nearest
// unused note of the larger, scanning bottom-up. The pair list is returned
// sorted by the 'from' side.
func matchVoices(a, b []int) []voicePair {
	if len(a) == len(b) {
		pairs := make([]voicePair, len(a))
		for i := range a {
			pairs[i] = voicePair{from: a[i], to: b[i]}
		}
		return pairs
	}

	small, large := a, b
	swapped := false
	if len(a) > len(b) {
		small, large = b, a
		swapped = true
	}

	used := make([]bool, len(large))
	pairs := make([]voicePair, 0, len(small))
	for _, p := range small {
		bestIdx := -1
		for j, q := range large {
			if used[j] {
				continue
			}
			if bestIdx == -1 || abs(q-p) < abs(large[bestIdx]-p) {
				bestIdx = j
			}
		}
		used[bestIdx] = true
		if swapped {
			pairs = append(pairs, voicePair{from: large[bestIdx], to: p})
		} else {
			pairs = append(pairs, voicePair{from: p, to: large[bestIdx]})
		}
	}

	// The greedy scan can emit pairs out of 'from' order when the larger set
	// is on the 'from' side; the consecutive-pair checks need them ascending.
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].from != pairs[j].from {
			return pairs[i].from < pairs[j].from
		}
		return pairs[i].to < pairs[j].to
	})
	return pairs
}

// countParallels counts parallel perfect fifths and octaves between
// consecutive matched voice pairs: both voices move, and the interval
// between the pair is a perfect fifth (or unison/octave) before and after.
func countParallels(pairs []voicePair) int {
	count := 0
	for i := 1; i < len(pairs); i++ {
		lo, hi := pairs[i-1], pairs[i]
		if lo.from == hi.from || lo.to == hi.to {
			continue
		}
		before := mod12(hi.from - lo.from)
		after := mod12(hi.to - lo.to)
		moved := lo.from != lo.to && hi.from != hi.to
		if !moved || before != after {
			continue
		}
		if before == perfectFifthInterval || before == 0 {
			count++
		}
	}
	return count
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func mod12(n int) int {
	m := n % 12
	if m < 0 {
		m += 12
	}
	return m
}
