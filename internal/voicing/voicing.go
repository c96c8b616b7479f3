// Package voicing realizes chords as concrete sets of pitched notes and
// scores the melodic motion between consecutive realizations.
package voicing

import (
	"strings"

	"github.com/tonalworks/voicelead-api/internal/theory"
)

// Style tags how a voicing arranges the chord tones.
type Style string

const (
	StyleClosed    Style = "closed"
	StyleDrop2     Style = "drop2"
	StyleDrop3     Style = "drop3"
	StyleRootlessA Style = "rootless_a" // 3-5-7-9, standard jazz LH form A
	StyleRootlessB Style = "rootless_b" // 7-9-3-5, standard jazz LH form B
	StyleSpread    Style = "spread"
	StyleCluster   Style = "cluster"
)

// ParseStyle validates a style name from an API request.
func ParseStyle(s string) (Style, bool) {
	switch Style(strings.ToLower(s)) {
	case StyleClosed, StyleDrop2, StyleDrop3, StyleRootlessA, StyleRootlessB, StyleSpread, StyleCluster:
		return Style(strings.ToLower(s)), true
	default:
		return "", false
	}
}

// Voicing is an ordered list of absolute MIDI pitches realizing one chord.
// Pitches are strictly ascending; the voice index of a note is its slice
// position. HandSplit, when positive, is the index of the first right-hand
// note for two-hand styles (0 means a single hand).
type Voicing struct {
	Pitches   []int `json:"pitches"`
	Style     Style `json:"style"`
	HandSplit int   `json:"hand_split,omitempty"`

	// OutOfRange marks the least-violating fallback candidate produced when
	// no voicing fits the configured register.
	OutOfRange bool `json:"out_of_range,omitempty"`
}

// Span returns the distance in semitones between the outer voices.
func (v Voicing) Span() int {
	if len(v.Pitches) == 0 {
		return 0
	}
	return v.Pitches[len(v.Pitches)-1] - v.Pitches[0]
}

// HandSpans returns the left- and right-hand spans. With no hand split the
// whole voicing counts as one (left) hand.
func (v Voicing) HandSpans() (left, right int) {
	if v.HandSplit <= 0 || v.HandSplit >= len(v.Pitches) {
		return v.Span(), 0
	}
	l := v.Pitches[:v.HandSplit]
	r := v.Pitches[v.HandSplit:]
	return l[len(l)-1] - l[0], r[len(r)-1] - r[0]
}

// InRegister reports whether every pitch lies within [lo, hi].
func (v Voicing) InRegister(lo, hi int) bool {
	for _, p := range v.Pitches {
		if p < lo || p > hi {
			return false
		}
	}
	return true
}

// PitchClasses returns the distinct pitch classes sounding in the voicing.
func (v Voicing) PitchClasses() []theory.PitchClass {
	seen := map[theory.PitchClass]bool{}
	var out []theory.PitchClass
	for _, p := range v.Pitches {
		pc := theory.PitchClassOf(p)
		if !seen[pc] {
			seen[pc] = true
			out = append(out, pc)
		}
	}
	return out
}

// key canonicalizes the pitch set for deduplication.
func (v Voicing) key() string {
	var b strings.Builder
	for i, p := range v.Pitches {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(theory.NoteName(p))
	}
	return b.String()
}
