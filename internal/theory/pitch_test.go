package theory

import "testing"

func TestParsePitchClass(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  PitchClass
	}{
		{"natural C", "C", C},
		{"natural G", "G", G},
		{"sharp", "F#", Fs},
		{"flat", "Bb", As},
		{"lowercase", "eb", Ds},
		{"enharmonic Db", "Db", Cs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePitchClass(tt.input)
			if err != nil {
				t.Fatalf("ParsePitchClass(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePitchClass(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePitchClassInvalid(t *testing.T) {
	for _, input := range []string{"", "H", "C7", "X#", "1"} {
		if _, err := ParsePitchClass(input); err == nil {
			t.Errorf("ParsePitchClass(%q) expected error, got nil", input)
		}
	}
}

func TestMIDIConversion(t *testing.T) {
	// Middle C (C4) is MIDI 60.
	if got := C.MIDI(4); got != 60 {
		t.Errorf("C.MIDI(4) = %d, want 60", got)
	}
	if got := A.MIDI(4); got != 69 {
		t.Errorf("A.MIDI(4) = %d, want 69", got)
	}
	if got := C.MIDI(3); got != 48 {
		t.Errorf("C.MIDI(3) = %d, want 48", got)
	}
}

func TestPitchClassOf(t *testing.T) {
	if got := PitchClassOf(60); got != C {
		t.Errorf("PitchClassOf(60) = %d, want C", got)
	}
	if got := PitchClassOf(66); got != Fs {
		t.Errorf("PitchClassOf(66) = %d, want F#", got)
	}
}

func TestNoteName(t *testing.T) {
	tests := []struct {
		midi int
		want string
	}{
		{60, "C4"},
		{61, "C#4"},
		{48, "C3"},
		{69, "A4"},
		{21, "A0"},
		{108, "C8"},
	}
	for _, tt := range tests {
		if got := NoteName(tt.midi); got != tt.want {
			t.Errorf("NoteName(%d) = %q, want %q", tt.midi, got, tt.want)
		}
	}
}

func TestTranspose(t *testing.T) {
	if got := C.Transpose(7); got != G {
		t.Errorf("C.Transpose(7) = %d, want G", got)
	}
	if got := C.Transpose(-1); got != B {
		t.Errorf("C.Transpose(-1) = %d, want B", got)
	}
	if got := A.Transpose(15); got != C {
		t.Errorf("A.Transpose(15) = %d, want C", got)
	}
}

func TestIntervalBetween(t *testing.T) {
	tests := []struct {
		a, b PitchClass
		want int
	}{
		{C, C, 0},
		{C, G, 5}, // perfect fifth measured circularly
		{C, Fs, 6},
		{B, C, 1},
		{C, E, 4},
	}
	for _, tt := range tests {
		if got := IntervalBetween(tt.a, tt.b); got != tt.want {
			t.Errorf("IntervalBetween(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
