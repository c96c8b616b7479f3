package theory

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError describes a chord symbol that could not be parsed, with the
// position it occupied in the progression (or -1 for a standalone parse).
type ParseError struct {
	Symbol   string
	Position int
	Reason   string
}

func (e *ParseError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("invalid chord %q at position %d: %s", e.Symbol, e.Position, e.Reason)
	}
	return fmt.Sprintf("invalid chord %q: %s", e.Symbol, e.Reason)
}

// ParseChord parses a chord symbol like "C", "Em", "Dm7", "Cmaj7", "G7b9",
// "F#m7b5" or "Em/G" into a Chord value.
// Supported qualities: major (default), m/min, dim, aug, sus2, sus4.
// Supported extensions: 6, 7, maj7, 9, 11, 13 and their add- forms.
func ParseChord(symbol string) (Chord, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return Chord{}, &ParseError{Symbol: symbol, Position: -1, Reason: "empty chord symbol"}
	}

	// Split off slash bass if present (e.g. "Em/G" -> chord="Em", bass="G")
	base := symbol
	bassName := ""
	if idx := strings.Index(symbol, "/"); idx > 0 {
		base = strings.TrimSpace(symbol[:idx])
		bassName = strings.TrimSpace(symbol[idx+1:])
	}

	root, rest, err := splitRoot(base)
	if err != nil {
		return Chord{}, &ParseError{Symbol: symbol, Position: -1, Reason: err.Error()}
	}

	quality, rest := parseQuality(rest)
	intervals, err := buildIntervals(quality, rest)
	if err != nil {
		return Chord{}, &ParseError{Symbol: symbol, Position: -1, Reason: err.Error()}
	}

	chord := NewChord(root, intervals...)
	chord.Symbol = symbol

	if bassName != "" {
		bass, err := ParsePitchClass(bassName)
		if err != nil {
			return Chord{}, &ParseError{Symbol: symbol, Position: -1, Reason: fmt.Sprintf("invalid bass note: %v", err)}
		}
		chord.Bass = bass
		chord.HasBass = true
	}

	return chord, nil
}

// ParseProgression parses an ordered list of chord symbols. The first
// malformed symbol fails the whole progression with its position attached.
func ParseProgression(symbols []string) ([]Chord, error) {
	if len(symbols) == 0 {
		return nil, &ParseError{Symbol: "", Position: 0, Reason: "empty progression"}
	}
	chords := make([]Chord, len(symbols))
	for i, sym := range symbols {
		c, err := ParseChord(sym)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Position = i
				return nil, pe
			}
			return nil, err
		}
		chords[i] = c
	}
	return chords, nil
}

// splitRoot extracts the root note (first 1-2 chars: C, C#, Db, ...) and
// returns the remainder of the symbol.
func splitRoot(symbol string) (PitchClass, string, error) {
	rootLen := 1
	if len(symbol) > 1 && (symbol[1] == '#' || symbol[1] == 'b') {
		rootLen = 2
	}
	root, err := ParsePitchClass(symbol[:rootLen])
	if err != nil {
		return 0, "", fmt.Errorf("invalid root note: %s", symbol[:rootLen])
	}
	return root, symbol[rootLen:], nil
}

// parseQuality identifies the triad quality marker and strips it.
// "maj" alone is major quality; "maj7" keeps the 7 handling in buildIntervals.
func parseQuality(rest string) (string, string) {
	switch {
	case strings.HasPrefix(rest, "maj"):
		return "major", rest // leave "maj7"/"maj9" intact for extension parsing
	case strings.HasPrefix(rest, "min"):
		return "minor", rest[3:]
	case strings.HasPrefix(rest, "m"):
		return "minor", rest[1:]
	case strings.HasPrefix(rest, "dim"):
		return "diminished", rest[3:]
	case strings.HasPrefix(rest, "aug"):
		return "augmented", rest[3:]
	case strings.HasPrefix(rest, "sus2"):
		return "sus2", rest[4:]
	case strings.HasPrefix(rest, "sus4"):
		return "sus4", rest[4:]
	default:
		return "major", rest
	}
}

// buildIntervals maps quality and extension text to semitone intervals.
func buildIntervals(quality, rest string) ([]int, error) {
	var intervals []int
	switch quality {
	case "major":
		intervals = []int{0, 4, 7}
	case "minor":
		intervals = []int{0, 3, 7}
	case "diminished":
		intervals = []int{0, 3, 6}
	case "augmented":
		intervals = []int{0, 4, 8}
	case "sus2":
		intervals = []int{0, 2, 7}
	case "sus4":
		intervals = []int{0, 5, 7}
	}

	// Extract maj7 before the bare-7 check so "maj7" is not read as a
	// dominant seventh.
	if strings.Contains(rest, "maj7") {
		intervals = append(intervals, 11)
		rest = strings.ReplaceAll(rest, "maj7", "")
	}
	if strings.Contains(rest, "maj9") {
		intervals = append(intervals, 11, 14)
		rest = strings.ReplaceAll(rest, "maj9", "")
	}
	rest = strings.TrimPrefix(rest, "maj")

	// Altered fifths/ninths before plain digits (b5 must not read as 5).
	for marker, iv := range map[string]int{"b5": 6, "#5": 8, "b9": 13, "#9": 15, "#11": 18, "b13": 20} {
		if strings.Contains(rest, marker) {
			if iv == 6 || iv == 8 {
				// Replace the fifth rather than stacking on it.
				intervals = replaceInterval(intervals, 7, iv)
			} else {
				intervals = append(intervals, iv)
			}
			rest = strings.ReplaceAll(rest, marker, "")
		}
	}

	// Compound extensions imply the seventh below them.
	switch {
	case strings.Contains(rest, "13"):
		intervals = append(intervals, 10, 14, 21)
		rest = strings.ReplaceAll(rest, "13", "")
	case strings.Contains(rest, "11"):
		intervals = append(intervals, 10, 14, 17)
		rest = strings.ReplaceAll(rest, "11", "")
	case strings.Contains(rest, "add9"):
		intervals = append(intervals, 14)
		rest = strings.ReplaceAll(rest, "add9", "")
	case strings.Contains(rest, "9"):
		intervals = append(intervals, 10, 14)
		rest = strings.ReplaceAll(rest, "9", "")
	}
	if strings.Contains(rest, "7") {
		intervals = append(intervals, 10)
		rest = strings.ReplaceAll(rest, "7", "")
	}
	if strings.Contains(rest, "6") {
		intervals = append(intervals, 9)
		rest = strings.ReplaceAll(rest, "6", "")
	}
	if strings.Contains(rest, "5") && len(intervals) == 3 {
		// Power chord notation "C5": root and fifth only.
		intervals = []int{0, 7}
		rest = strings.ReplaceAll(rest, "5", "")
	}

	rest = strings.TrimSpace(strings.Trim(rest, "()"))
	if rest != "" {
		return nil, fmt.Errorf("unrecognized chord text: %q", rest)
	}
	return intervals, nil
}

func replaceInterval(intervals []int, old, new int) []int {
	out := make([]int, 0, len(intervals))
	replaced := false
	for _, iv := range intervals {
		if iv == old && !replaced {
			out = append(out, new)
			replaced = true
			continue
		}
		out = append(out, iv)
	}
	if !replaced {
		out = append(out, new)
	}
	return out
}
