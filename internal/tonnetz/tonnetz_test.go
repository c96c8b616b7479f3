package tonnetz

import (
	"testing"

	"github.com/tonalworks/voicelead-api/internal/theory"
)

func allTriads() []Triad {
	out := make([]Triad, 0, numTriads)
	for root := 0; root < numPitches; root++ {
		for _, q := range []Quality{Major, Minor} {
			out = append(out, Triad{Root: theory.PitchClass(root), Quality: q})
		}
	}
	return out
}

func TestParallel(t *testing.T) {
	cMajor := Triad{Root: theory.C, Quality: Major}
	got := Parallel(cMajor)
	want := Triad{Root: theory.C, Quality: Minor}
	if got != want {
		t.Errorf("Parallel(C) = %v, want %v", got, want)
	}
}

func TestLeading(t *testing.T) {
	cMajor := Triad{Root: theory.C, Quality: Major}
	got := Leading(cMajor)
	want := Triad{Root: theory.E, Quality: Minor}
	if got != want {
		t.Errorf("Leading(C) = %v, want %v", got, want)
	}
}

func TestRelative(t *testing.T) {
	cMajor := Triad{Root: theory.C, Quality: Major}
	got := Relative(cMajor)
	want := Triad{Root: theory.A, Quality: Minor}
	if got != want {
		t.Errorf("Relative(C) = %v, want %v", got, want)
	}
	// And back: Am -> C.
	if back := Relative(got); back != cMajor {
		t.Errorf("Relative(Am) = %v, want %v", back, cMajor)
	}
}

func TestInvolutions(t *testing.T) {
	for _, triad := range allTriads() {
		if got := Parallel(Parallel(triad)); got != triad {
			t.Errorf("P(P(%v)) = %v, want identity", triad, got)
		}
		if got := Leading(Leading(triad)); got != triad {
			t.Errorf("L(L(%v)) = %v, want identity", triad, got)
		}
		if got := Relative(Relative(triad)); got != triad {
			t.Errorf("R(R(%v)) = %v, want identity", triad, got)
		}
	}
}

func TestParsimonyOfAllOps(t *testing.T) {
	// Every single P, L or R application moves exactly one pitch class by
	// one or two semitones.
	for _, triad := range allTriads() {
		for _, op := range []Op{P, L, R} {
			next, err := Apply(op, triad)
			if err != nil {
				t.Fatalf("Apply(%s, %v) returned error: %v", op, triad, err)
			}
			if err := checkParsimony(triad, next); err != nil {
				t.Errorf("%s on %v: %v", op, triad, err)
			}
		}
	}
}

func TestApplySequence(t *testing.T) {
	cMajor := Triad{Root: theory.C, Quality: Major}

	// R then L from C major: C -> Am -> F.
	got, err := ApplySequence(cMajor, []Op{R, L})
	if err != nil {
		t.Fatalf("ApplySequence returned error: %v", err)
	}
	want := Triad{Root: theory.F, Quality: Major}
	if got != want {
		t.Errorf("RL(C) = %v, want %v", got, want)
	}
}

func TestHexatonicPole(t *testing.T) {
	cMajor := Triad{Root: theory.C, Quality: Major}
	pole := HexatonicPole(cMajor)
	want := Triad{Root: theory.Gs, Quality: Minor}
	if pole != want {
		t.Errorf("HexatonicPole(C) = %v, want %v", pole, want)
	}

	// No common tones with the source triad.
	src := map[theory.PitchClass]bool{}
	for _, pc := range cMajor.PitchClasses() {
		src[pc] = true
	}
	for _, pc := range pole.PitchClasses() {
		if src[pc] {
			t.Errorf("hexatonic pole shares pitch class %v with source", pc)
		}
	}

	// Applying twice returns the original for every triad.
	for _, triad := range allTriads() {
		if got := HexatonicPole(HexatonicPole(triad)); got != triad {
			t.Errorf("double hexatonic pole of %v = %v, want identity", triad, got)
		}
	}
}

func TestDistance(t *testing.T) {
	cMajor := Triad{Root: theory.C, Quality: Major}
	aMinor := Triad{Root: theory.A, Quality: Minor}

	if d := Distance(cMajor, cMajor); d != 0 {
		t.Errorf("Distance(C, C) = %d, want 0", d)
	}
	if d := Distance(cMajor, aMinor); d != 1 {
		t.Errorf("Distance(C, Am) = %d, want 1", d)
	}

	// Hexatonic pole is three steps away.
	if d := Distance(cMajor, HexatonicPole(cMajor)); d != 3 {
		t.Errorf("Distance(C, pole) = %d, want 3", d)
	}

	// Symmetric and fully connected.
	triads := allTriads()
	for _, a := range triads {
		for _, b := range triads {
			d := Distance(a, b)
			if d < 0 {
				t.Fatalf("Distance(%v, %v) = %d: lattice not connected", a, b, d)
			}
			if d != Distance(b, a) {
				t.Errorf("Distance(%v, %v) != Distance(%v, %v)", a, b, b, a)
			}
			if (d == 0) != (a == b) {
				t.Errorf("Distance(%v, %v) = %d, zero iff equal violated", a, b, d)
			}
		}
	}
}

func TestNeighbors(t *testing.T) {
	cMajor := Triad{Root: theory.C, Quality: Major}
	got := Neighbors(cMajor)
	want := [3]Triad{
		{Root: theory.C, Quality: Minor},
		{Root: theory.E, Quality: Minor},
		{Root: theory.A, Quality: Minor},
	}
	if got != want {
		t.Errorf("Neighbors(C) = %v, want %v", got, want)
	}
}

func TestTriadOf(t *testing.T) {
	tests := []struct {
		name   string
		chord  theory.Chord
		want   Triad
		wantOK bool
	}{
		{"major triad", theory.NewChord(theory.C, 4, 7), Triad{theory.C, Major}, true},
		{"minor seventh", theory.NewChord(theory.D, 3, 7, 10), Triad{theory.D, Minor}, true},
		{"dominant seventh", theory.NewChord(theory.G, 4, 7, 10), Triad{theory.G, Major}, true},
		{"diminished", theory.NewChord(theory.B, 3, 6), Triad{}, false},
		{"power chord", theory.NewChord(theory.C, 7), Triad{}, false},
		{"sus4", theory.NewChord(theory.C, 5, 7), Triad{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TriadOf(tt.chord)
			if ok != tt.wantOK {
				t.Fatalf("TriadOf ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("TriadOf = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseOp(t *testing.T) {
	for input, want := range map[string]Op{"P": P, "l": L, "R": R} {
		got, err := ParseOp(input)
		if err != nil {
			t.Fatalf("ParseOp(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Errorf("ParseOp(%q) = %v, want %v", input, got, want)
		}
	}
	if _, err := ParseOp("X"); err == nil {
		t.Error("ParseOp(\"X\") expected error, got nil")
	}
}
