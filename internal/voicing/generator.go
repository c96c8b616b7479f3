package voicing

import (
	"fmt"
	"sort"

	"github.com/tonalworks/voicelead-api/internal/theory"
)

// Generator defaults. Register defaults cover the comfortable piano middle;
// the candidate cap bounds the optimizer branching factor.
const (
	DefaultMinPitch      = 48 // C3
	DefaultMaxPitch      = 84 // C6
	DefaultMaxVoices     = 5
	DefaultMaxHandSpan   = 14 // major ninth
	DefaultMaxCandidates = 200

	minVoices = 3
	octave    = 12
)

// GeneratorConfig controls candidate voicing enumeration.
type GeneratorConfig struct {
	MinPitch      int     `json:"min_pitch"`
	MaxPitch      int     `json:"max_pitch"`
	Styles        []Style `json:"styles"`
	MaxVoices     int     `json:"max_voices"`
	MaxHandSpan   int     `json:"max_hand_span"`
	MaxCandidates int     `json:"max_candidates"`
}

// DefaultGeneratorConfig returns the config used when a request leaves the
// generator section empty: closed voicings in the C3-C6 register.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MinPitch:      DefaultMinPitch,
		MaxPitch:      DefaultMaxPitch,
		Styles:        []Style{StyleClosed},
		MaxVoices:     DefaultMaxVoices,
		MaxHandSpan:   DefaultMaxHandSpan,
		MaxCandidates: DefaultMaxCandidates,
	}
}

func (cfg GeneratorConfig) withDefaults() GeneratorConfig {
	def := DefaultGeneratorConfig()
	if cfg.MinPitch == 0 && cfg.MaxPitch == 0 {
		cfg.MinPitch, cfg.MaxPitch = def.MinPitch, def.MaxPitch
	}
	if len(cfg.Styles) == 0 {
		cfg.Styles = def.Styles
	}
	if cfg.MaxVoices == 0 {
		cfg.MaxVoices = def.MaxVoices
	}
	if cfg.MaxHandSpan == 0 {
		cfg.MaxHandSpan = def.MaxHandSpan
	}
	if cfg.MaxCandidates == 0 {
		cfg.MaxCandidates = def.MaxCandidates
	}
	return cfg
}

// Key canonicalizes the config for memoization alongside a chord key.
func (cfg GeneratorConfig) Key() string {
	styles := make([]string, len(cfg.Styles))
	for i, s := range cfg.Styles {
		styles[i] = string(s)
	}
	sort.Strings(styles)
	return fmt.Sprintf("%d:%d:%v:%d:%d:%d",
		cfg.MinPitch, cfg.MaxPitch, styles, cfg.MaxVoices, cfg.MaxHandSpan, cfg.MaxCandidates)
}

// NoCandidatesError reports that a chord admitted no usable voicing within
// the configured register.
type NoCandidatesError struct {
	Position int
	Chord    theory.Chord
	MinPitch int
	MaxPitch int
}

func (e *NoCandidatesError) Error() string {
	return fmt.Sprintf("no voicing candidates for chord %s at position %d within register %s-%s",
		e.Chord, e.Position, theory.NoteName(e.MinPitch), theory.NoteName(e.MaxPitch))
}

// Generate enumerates candidate voicings for a chord: every requested style,
// slid through every octave placement inside the register, filtered by span
// and voice count, deduplicated by exact pitch set, ordered most-compact
// first and capped at MaxCandidates.
//
// When nothing fits the register, Generate returns a single least-violating
// candidate flagged OutOfRange instead of an empty list; callers that require
// strict register compliance surface a NoCandidatesError themselves.
func Generate(chord theory.Chord, cfg GeneratorConfig) []Voicing {
	cfg = cfg.withDefaults()

	var all []Voicing
	seen := map[string]bool{}
	for _, style := range cfg.Styles {
		for _, v := range generateStyle(chord, style, cfg) {
			k := v.key()
			if seen[k] {
				continue
			}
			seen[k] = true
			all = append(all, v)
		}
	}

	if len(all) == 0 {
		return []Voicing{fallbackCandidate(chord, cfg)}
	}

	// Most compact first; ties broken low-to-high for determinism.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Span() != all[j].Span() {
			return all[i].Span() < all[j].Span()
		}
		return all[i].Pitches[0] < all[j].Pitches[0]
	})
	if len(all) > cfg.MaxCandidates {
		all = all[:cfg.MaxCandidates]
	}
	return all
}

// generateStyle realizes one style at every octave placement that fits.
func generateStyle(chord theory.Chord, style Style, cfg GeneratorConfig) []Voicing {
	pcs, handSplit, ok := styleTones(chord, style, cfg.MaxVoices)
	if !ok {
		return nil
	}

	var out []Voicing
	loOct := cfg.MinPitch/octave - 2
	hiOct := cfg.MaxPitch/octave + 1
	for oct := loOct; oct <= hiOct; oct++ {
		pitches := realize(pcs, oct)
		pitches = applyDrop(pitches, style)
		v := Voicing{Pitches: pitches, Style: style, HandSplit: handSplit}
		if !v.InRegister(cfg.MinPitch, cfg.MaxPitch) {
			continue
		}
		if !spansOK(v, cfg.MaxHandSpan) {
			continue
		}
		if len(v.Pitches) > cfg.MaxVoices || len(v.Pitches) < minVoices {
			continue
		}
		out = append(out, v)
	}
	return out
}

// styleTones picks and orders the chord tones a style uses, bottom to top.
// The bool result is false when the style does not apply to the chord
// (rootless forms need a seventh).
func styleTones(chord theory.Chord, style Style, maxVoices int) ([]theory.PitchClass, int, bool) {
	root := chord.Root
	third, hasThird := chordTone(chord, 3, 4)
	fifth, hasFifth := chordTone(chord, 6, 7, 8)
	seventh, hasSeventh := chordTone(chord, 10, 11)
	ninth := root.Transpose(2)

	switch style {
	case StyleRootlessA:
		// 3-5-7-9: the classic left-hand form A. The ninth is added even for
		// plain seventh chords.
		if !hasThird || !hasSeventh {
			return nil, 0, false
		}
		tones := []theory.PitchClass{third, fifth, seventh, ninth}
		if !hasFifth {
			tones = []theory.PitchClass{third, seventh, ninth}
		}
		return tones, 0, true

	case StyleRootlessB:
		// 7-9-3-5: form B, the same tones pivoted around the seventh.
		if !hasThird || !hasSeventh {
			return nil, 0, false
		}
		tones := []theory.PitchClass{seventh, ninth, third, fifth}
		if !hasFifth {
			tones = []theory.PitchClass{seventh, ninth, third}
		}
		return tones, 0, true

	case StyleSpread:
		// Root and fifth low, color tones above: a two-hand open voicing.
		tones := []theory.PitchClass{root}
		if hasFifth {
			tones = append(tones, fifth)
		}
		if hasThird {
			tones = append(tones, third)
		}
		if hasSeventh {
			tones = append(tones, seventh)
		}
		if chord.IsPowerChord() {
			tones = append(tones, root) // double the root an octave up
		}
		return trimTones(tones, root, fifth, maxVoices), 2, true

	case StyleCluster:
		// Same tone set as closed, rotated to start just above the widest
		// pitch-class gap so the stack packs into the smallest compass,
		// putting the seconds of the chord adjacent.
		tones := trimTones(stackedTones(chord), root, fifth, maxVoices)
		if !chord.IsPowerChord() {
			tones = clusterOrder(tones)
		}
		return tones, 0, true

	default: // closed, drop2 and drop3 share the stacked ordering
		tones := stackedTones(chord)
		if style == StyleDrop2 && len(tones) < 4 {
			return nil, 0, false
		}
		if style == StyleDrop3 && len(tones) < 4 {
			return nil, 0, false
		}
		return trimTones(tones, root, fifth, maxVoices), 0, true
	}
}

// stackedTones lists the chord tones in interval order from the root, the
// ordering closed and drop voicings build on.
func stackedTones(chord theory.Chord) []theory.PitchClass {
	tones := make([]theory.PitchClass, 0, len(chord.Intervals))
	for _, iv := range chord.Intervals {
		tones = append(tones, chord.Root.Transpose(iv))
	}
	if chord.IsPowerChord() {
		tones = append(tones, chord.Root) // power chords are voiced 3+ via doubling
	}
	return dedupeTones(tones)
}

// clusterOrder sorts the tones and rotates them to begin just above the
// widest circular pitch-class gap, so realize stacks them within the
// smallest possible compass.
func clusterOrder(tones []theory.PitchClass) []theory.PitchClass {
	sorted := append([]theory.PitchClass(nil), tones...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	n := len(sorted)
	start, widest := 0, -1
	for i := 0; i < n; i++ {
		gap := int(sorted[(i+1)%n]) - int(sorted[i])
		if gap < 0 {
			gap += octave
		}
		if gap > widest {
			widest = gap
			start = (i + 1) % n
		}
	}

	out := make([]theory.PitchClass, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, sorted[(start+i)%n])
	}
	return out
}

// chordTone returns the first chord pitch class found at any of the given
// intervals above the root.
func chordTone(chord theory.Chord, intervals ...int) (theory.PitchClass, bool) {
	for _, want := range intervals {
		for _, iv := range chord.Intervals {
			if iv%octave == want%octave && iv != 0 {
				return chord.Root.Transpose(iv), true
			}
		}
	}
	return 0, false
}

// trimTones drops the fifth, then the root, when a chord carries more tones
// than voices. Standard practice for extended chords.
func trimTones(tones []theory.PitchClass, root, fifth theory.PitchClass, maxVoices int) []theory.PitchClass {
	for _, cut := range []theory.PitchClass{fifth, root} {
		if len(tones) <= maxVoices {
			break
		}
		for i, t := range tones {
			if t == cut {
				tones = append(tones[:i:i], tones[i+1:]...)
				break
			}
		}
	}
	if len(tones) > maxVoices {
		tones = tones[:maxVoices]
	}
	return tones
}

func dedupeTones(tones []theory.PitchClass) []theory.PitchClass {
	seen := map[theory.PitchClass]int{}
	out := tones[:0]
	for _, t := range tones {
		seen[t]++
		if seen[t] <= 1 || len(tones) == 3 { // allow the explicit power-chord doubling
			out = append(out, t)
		}
	}
	return out
}

// realize stacks the ordered pitch classes bottom-up: the first tone lands in
// the base octave, every later tone at the lowest pitch strictly above its
// predecessor.
func realize(pcs []theory.PitchClass, baseOctave int) []int {
	if len(pcs) == 0 {
		return nil
	}
	pitches := make([]int, len(pcs))
	pitches[0] = pcs[0].MIDI(baseOctave)
	for i := 1; i < len(pcs); i++ {
		p := pcs[i].MIDI(baseOctave)
		for p <= pitches[i-1] {
			p += octave
		}
		pitches[i] = p
	}
	return pitches
}

// applyDrop lowers the second (drop-2) or third (drop-3) voice from the top
// by an octave and restores ascending order.
func applyDrop(pitches []int, style Style) []int {
	var fromTop int
	switch style {
	case StyleDrop2:
		fromTop = 2
	case StyleDrop3:
		fromTop = 3
	default:
		return pitches
	}
	if len(pitches) < fromTop+1 {
		return pitches
	}
	out := append([]int(nil), pitches...)
	out[len(out)-fromTop] -= octave
	sort.Ints(out)
	return out
}

func spansOK(v Voicing, maxHandSpan int) bool {
	left, right := v.HandSpans()
	return left <= maxHandSpan && right <= maxHandSpan
}

// fallbackCandidate builds the least-violating closed voicing when nothing
// fits the register: the octave placement minimizing total out-of-register
// distance, flagged OutOfRange.
func fallbackCandidate(chord theory.Chord, cfg GeneratorConfig) Voicing {
	pcs, _, _ := styleTones(chord, StyleClosed, cfg.MaxVoices)

	best := Voicing{Style: StyleClosed, OutOfRange: true}
	bestViolation := -1
	for oct := 0; oct <= 8; oct++ {
		pitches := realize(pcs, oct)
		violation := 0
		for _, p := range pitches {
			if p < cfg.MinPitch {
				violation += cfg.MinPitch - p
			} else if p > cfg.MaxPitch {
				violation += p - cfg.MaxPitch
			}
		}
		if bestViolation == -1 || violation < bestViolation {
			bestViolation = violation
			best.Pitches = pitches
		}
	}
	return best
}
