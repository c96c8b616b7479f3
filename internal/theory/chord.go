package theory

import (
	"sort"
	"strconv"
	"strings"
)

// Chord is an immutable chord value: a root pitch class plus the set of
// semitone intervals sounding above it. Intervals are sorted, unique, and
// always include 0 (the root itself).
type Chord struct {
	Root      PitchClass
	Intervals []int

	// Symbol is the chord symbol the chord was parsed from, if any.
	Symbol string

	// Bass is an explicit bass pitch class for slash chords (e.g. "Em/G").
	Bass    PitchClass
	HasBass bool
}

// NewChord builds a chord from a root and intervals. Intervals are
// normalized: deduplicated, sorted, and the root interval 0 is ensured.
func NewChord(root PitchClass, intervals ...int) Chord {
	seen := map[int]bool{0: true}
	norm := []int{0}
	for _, iv := range intervals {
		if iv < 0 {
			iv = iv%24 + 24
		}
		if !seen[iv] {
			seen[iv] = true
			norm = append(norm, iv)
		}
	}
	sort.Ints(norm)
	return Chord{Root: root.Normalize(), Intervals: norm}
}

// PitchClasses returns the distinct pitch classes of the chord,
// root first, then ascending by interval.
func (c Chord) PitchClasses() []PitchClass {
	out := make([]PitchClass, 0, len(c.Intervals))
	seen := map[PitchClass]bool{}
	for _, iv := range c.Intervals {
		pc := c.Root.Transpose(iv)
		if !seen[pc] {
			seen[pc] = true
			out = append(out, pc)
		}
	}
	return out
}

// HasInterval reports whether the chord contains the given interval
// (compared mod 12, so a 9th matches a 2nd).
func (c Chord) HasInterval(semitones int) bool {
	want := semitones % semitonesPerOctave
	for _, iv := range c.Intervals {
		if iv%semitonesPerOctave == want {
			return true
		}
	}
	return false
}

// IsMajorTriad reports whether the chord contains a major third and perfect fifth.
func (c Chord) IsMajorTriad() bool { return c.HasInterval(4) && c.HasInterval(7) }

// IsMinorTriad reports whether the chord contains a minor third and perfect fifth.
func (c Chord) IsMinorTriad() bool { return c.HasInterval(3) && c.HasInterval(7) }

// IsPowerChord reports whether the chord is a bare root-fifth dyad.
func (c Chord) IsPowerChord() bool {
	return len(c.Intervals) == 2 && c.Intervals[0] == 0 && c.Intervals[1] == 7
}

// Key returns a canonical string key for the chord value, suitable for
// memoization maps. Equal chord values always produce equal keys.
func (c Chord) Key() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(c.Root)))
	b.WriteByte(':')
	for i, iv := range c.Intervals {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(iv))
	}
	if c.HasBass {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(int(c.Bass)))
	}
	return b.String()
}

// String returns the chord symbol if known, otherwise a root+interval dump.
func (c Chord) String() string {
	if c.Symbol != "" {
		return c.Symbol
	}
	parts := make([]string, len(c.Intervals))
	for i, iv := range c.Intervals {
		parts[i] = strconv.Itoa(iv)
	}
	return c.Root.Name() + "(" + strings.Join(parts, ",") + ")"
}

// HarmonicFunction classifies a chord's role relative to a key.
type HarmonicFunction int

const (
	FunctionUnknown HarmonicFunction = iota
	FunctionTonic
	FunctionSubdominant
	FunctionDominant
)

func (f HarmonicFunction) String() string {
	switch f {
	case FunctionTonic:
		return "tonic"
	case FunctionSubdominant:
		return "subdominant"
	case FunctionDominant:
		return "dominant"
	default:
		return "unknown"
	}
}

// FunctionIn returns the harmonic function of the chord in the given major key,
// classified by scale degree of the root: I/iii/vi are tonic, ii/IV are
// subdominant, V/vii are dominant. Roots outside the key are unknown.
func (c Chord) FunctionIn(key PitchClass) HarmonicFunction {
	degree := int(c.Root.Transpose(-int(key)))
	switch degree {
	case 0, 4, 9: // I, iii, vi
		return FunctionTonic
	case 2, 5: // ii, IV
		return FunctionSubdominant
	case 7, 11: // V, vii
		return FunctionDominant
	default:
		return FunctionUnknown
	}
}
