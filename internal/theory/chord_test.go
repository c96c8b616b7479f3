package theory

import (
	"reflect"
	"testing"
)

func TestNewChordNormalizesIntervals(t *testing.T) {
	c := NewChord(C, 7, 4, 4, 0)
	want := []int{0, 4, 7}
	if !reflect.DeepEqual(c.Intervals, want) {
		t.Errorf("NewChord intervals = %v, want %v", c.Intervals, want)
	}
}

func TestNewChordEnsuresRoot(t *testing.T) {
	c := NewChord(G, 4, 7)
	if c.Intervals[0] != 0 {
		t.Errorf("NewChord should always include interval 0, got %v", c.Intervals)
	}
}

func TestPitchClasses(t *testing.T) {
	c := NewChord(C, 4, 7) // C major
	want := []PitchClass{C, E, G}
	if got := c.PitchClasses(); !reflect.DeepEqual(got, want) {
		t.Errorf("PitchClasses() = %v, want %v", got, want)
	}

	// A ninth and a second collapse to the same pitch class.
	c = NewChord(C, 2, 14)
	if got := c.PitchClasses(); len(got) != 2 {
		t.Errorf("PitchClasses() should deduplicate mod 12, got %v", got)
	}
}

func TestTriadPredicates(t *testing.T) {
	major := NewChord(C, 4, 7)
	minor := NewChord(A, 3, 7)
	power := NewChord(C, 7)

	if !major.IsMajorTriad() {
		t.Error("C major should be a major triad")
	}
	if major.IsMinorTriad() {
		t.Error("C major should not be a minor triad")
	}
	if !minor.IsMinorTriad() {
		t.Error("A minor should be a minor triad")
	}
	if !power.IsPowerChord() {
		t.Error("C5 should be a power chord")
	}
	if major.IsPowerChord() {
		t.Error("C major should not be a power chord")
	}
}

func TestChordKeyCanonical(t *testing.T) {
	a := NewChord(D, 3, 7, 10)
	b := NewChord(D, 10, 7, 3)
	if a.Key() != b.Key() {
		t.Errorf("equal chords produced different keys: %q vs %q", a.Key(), b.Key())
	}

	c := NewChord(D, 3, 7)
	if a.Key() == c.Key() {
		t.Errorf("different chords produced the same key: %q", a.Key())
	}
}

func TestFunctionIn(t *testing.T) {
	tests := []struct {
		name  string
		chord Chord
		key   PitchClass
		want  HarmonicFunction
	}{
		{"I in C", NewChord(C, 4, 7), C, FunctionTonic},
		{"vi in C", NewChord(A, 3, 7), C, FunctionTonic},
		{"ii in C", NewChord(D, 3, 7, 10), C, FunctionSubdominant},
		{"IV in C", NewChord(F, 4, 7), C, FunctionSubdominant},
		{"V in C", NewChord(G, 4, 7, 10), C, FunctionDominant},
		{"vii in C", NewChord(B, 3, 6), C, FunctionDominant},
		{"out of key", NewChord(Cs, 4, 7), C, FunctionUnknown},
		{"V in G", NewChord(D, 4, 7), G, FunctionDominant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.chord.FunctionIn(tt.key); got != tt.want {
				t.Errorf("FunctionIn(%v) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}
