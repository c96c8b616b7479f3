package theory

import "fmt"

// PitchClass is a pitch class 0-11 (0=C, 1=C#, ..., 11=B).
type PitchClass int

// Named pitch classes
const (
	C  PitchClass = 0
	Cs PitchClass = 1
	D  PitchClass = 2
	Ds PitchClass = 3
	E  PitchClass = 4
	F  PitchClass = 5
	Fs PitchClass = 6
	G  PitchClass = 7
	Gs PitchClass = 8
	A  PitchClass = 9
	As PitchClass = 10
	B  PitchClass = 11
)

// MIDI register limits (88-key piano: A0-C8)
const (
	MinPianoPitch = 21
	MaxPianoPitch = 108

	semitonesPerOctave = 12
)

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
var flatNames = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// Note semitone offsets from C for the letters A-G
var letterOffsets = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// Name returns the sharp spelling of the pitch class (C#, not Db).
func (pc PitchClass) Name() string {
	return sharpNames[pc.Normalize()]
}

// FlatName returns the flat spelling of the pitch class (Db, not C#).
func (pc PitchClass) FlatName() string {
	return flatNames[pc.Normalize()]
}

// Normalize wraps the value into 0-11.
func (pc PitchClass) Normalize() PitchClass {
	n := int(pc) % semitonesPerOctave
	if n < 0 {
		n += semitonesPerOctave
	}
	return PitchClass(n)
}

// Transpose moves the pitch class by the given number of semitones (mod 12).
func (pc PitchClass) Transpose(semitones int) PitchClass {
	return PitchClass(int(pc) + semitones).Normalize()
}

// MIDI returns the MIDI note number of this pitch class at the given octave.
// Octave follows the C4=60 convention used throughout the API.
func (pc PitchClass) MIDI(octave int) int {
	return (octave+1)*semitonesPerOctave + int(pc.Normalize())
}

// PitchClassOf returns the pitch class of a MIDI note number.
func PitchClassOf(midiNote int) PitchClass {
	return PitchClass(midiNote).Normalize()
}

// ParsePitchClass parses a note name like "C", "F#", "Bb" into a pitch class.
func ParsePitchClass(name string) (PitchClass, error) {
	if name == "" {
		return 0, fmt.Errorf("empty note name")
	}

	letter := name[0]
	if letter >= 'a' && letter <= 'g' {
		letter -= 'a' - 'A'
	}
	offset, ok := letterOffsets[letter]
	if !ok {
		return 0, fmt.Errorf("invalid note letter: %s", string(name[0]))
	}

	for i := 1; i < len(name); i++ {
		switch name[i] {
		case '#':
			offset++
		case 'b':
			offset--
		default:
			return 0, fmt.Errorf("invalid accidental in note name: %s", name)
		}
	}

	return PitchClass(offset).Normalize(), nil
}

// NoteName formats a MIDI note number as a name with octave, e.g. 60 -> "C4".
func NoteName(midiNote int) string {
	octave := midiNote/semitonesPerOctave - 1
	return fmt.Sprintf("%s%d", PitchClassOf(midiNote).Name(), octave)
}

// IntervalBetween returns the smallest circular distance in semitones
// between two pitch classes (0-6).
func IntervalBetween(a, b PitchClass) int {
	d := int(a.Normalize()) - int(b.Normalize())
	if d < 0 {
		d = -d
	}
	if d > semitonesPerOctave/2 {
		d = semitonesPerOctave - d
	}
	return d
}
