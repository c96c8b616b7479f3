package voicing

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonalworks/voicelead-api/internal/theory"
)

func cMajor() theory.Chord  { return theory.NewChord(theory.C, 4, 7) }
func dMinor7() theory.Chord { return theory.NewChord(theory.D, 3, 7, 10) }
func g7() theory.Chord      { return theory.NewChord(theory.G, 4, 7, 10) }

func TestGenerateDefaults(t *testing.T) {
	candidates := Generate(cMajor(), GeneratorConfig{})
	require.NotEmpty(t, candidates)

	for _, v := range candidates {
		assert.True(t, v.InRegister(DefaultMinPitch, DefaultMaxPitch),
			"voicing %v escapes default register", v.Pitches)
		assert.False(t, v.OutOfRange)
		assert.GreaterOrEqual(t, len(v.Pitches), minVoices)
		assert.LessOrEqual(t, len(v.Pitches), DefaultMaxVoices)
		assert.True(t, sort.IntsAreSorted(v.Pitches), "pitches must ascend: %v", v.Pitches)
	}
}

func TestGenerateRespectsRegister(t *testing.T) {
	cfg := GeneratorConfig{MinPitch: 60, MaxPitch: 72}
	for _, v := range Generate(dMinor7(), cfg) {
		assert.True(t, v.InRegister(60, 72), "voicing %v escapes register", v.Pitches)
	}
}

func TestGenerateSoundsChordTones(t *testing.T) {
	want := map[theory.PitchClass]bool{theory.C: true, theory.E: true, theory.G: true}
	for _, v := range Generate(cMajor(), GeneratorConfig{Styles: []Style{StyleClosed}}) {
		for _, pc := range v.PitchClasses() {
			assert.True(t, want[pc], "voicing sounds non-chord tone %v", pc)
		}
	}
}

func TestGenerateCompactnessOrder(t *testing.T) {
	candidates := Generate(g7(), GeneratorConfig{Styles: []Style{StyleClosed, StyleDrop2}})
	for i := 1; i < len(candidates); i++ {
		assert.LessOrEqual(t, candidates[i-1].Span(), candidates[i].Span(),
			"candidates not ordered most-compact first")
	}
}

func TestGenerateDeduplicates(t *testing.T) {
	candidates := Generate(cMajor(), GeneratorConfig{Styles: []Style{StyleClosed, StyleCluster}})
	seen := map[string]bool{}
	for _, v := range candidates {
		k := v.key()
		assert.False(t, seen[k], "duplicate voicing %v", v.Pitches)
		seen[k] = true
	}
}

func TestGenerateCandidateCap(t *testing.T) {
	cfg := GeneratorConfig{
		MinPitch:      theory.MinPianoPitch,
		MaxPitch:      theory.MaxPianoPitch,
		Styles:        []Style{StyleClosed, StyleDrop2, StyleDrop3, StyleSpread},
		MaxCandidates: 5,
	}
	candidates := Generate(g7(), cfg)
	assert.LessOrEqual(t, len(candidates), 5)
}

func TestGenerateRootlessStyles(t *testing.T) {
	// Rootless forms omit the root and include the ninth.
	candidates := Generate(dMinor7(), GeneratorConfig{Styles: []Style{StyleRootlessA}})
	require.NotEmpty(t, candidates)
	for _, v := range candidates {
		pcs := map[theory.PitchClass]bool{}
		for _, pc := range v.PitchClasses() {
			pcs[pc] = true
		}
		assert.False(t, pcs[theory.D], "rootless voicing sounds the root: %v", v.Pitches)
		assert.True(t, pcs[theory.F], "rootless voicing missing the third")
		assert.True(t, pcs[theory.C], "rootless voicing missing the seventh")
		assert.True(t, pcs[theory.E], "rootless voicing missing the ninth")
	}
}

func TestGenerateClusterPacksTones(t *testing.T) {
	cmaj7 := theory.NewChord(theory.C, 4, 7, 11)

	closed := Generate(cmaj7, GeneratorConfig{Styles: []Style{StyleClosed}})
	require.NotEmpty(t, closed)
	closedKeys := map[string]bool{}
	for _, v := range closed {
		closedKeys[v.key()] = true
	}

	clusters := Generate(cmaj7, GeneratorConfig{Styles: []Style{StyleCluster}})
	require.NotEmpty(t, clusters)
	for _, v := range clusters {
		assert.False(t, v.OutOfRange)
		assert.False(t, closedKeys[v.key()],
			"cluster voicing %v duplicates a closed voicing", v.Pitches)

		// Rotating past the widest gap puts the leading tone under the root,
		// so every cluster realization carries an adjacent second.
		hasSecond := false
		for i := 1; i < len(v.Pitches); i++ {
			if v.Pitches[i]-v.Pitches[i-1] <= 2 {
				hasSecond = true
			}
		}
		assert.True(t, hasSecond, "cluster voicing %v has no adjacent second", v.Pitches)
	}

	// E-G-B-C spans a minor sixth where the closed C-E-G-B stack spans a
	// major seventh.
	assert.Equal(t, 8, clusters[0].Span())
	assert.Equal(t, 11, closed[0].Span())
}

func TestGenerateRootlessNeedsSeventh(t *testing.T) {
	// A bare triad has no seventh, so the rootless styles cannot apply and the
	// generator falls back to a flagged candidate.
	candidates := Generate(cMajor(), GeneratorConfig{Styles: []Style{StyleRootlessA, StyleRootlessB}})
	require.Len(t, candidates, 1)
	assert.True(t, candidates[0].OutOfRange)
}

func TestGeneratePowerChordDoubling(t *testing.T) {
	power := theory.NewChord(theory.C, 7)
	candidates := Generate(power, GeneratorConfig{Styles: []Style{StyleClosed}})
	require.NotEmpty(t, candidates)
	for _, v := range candidates {
		assert.GreaterOrEqual(t, len(v.Pitches), minVoices,
			"power chord must be voiced with the root doubled: %v", v.Pitches)
	}
}

func TestGenerateDrop2NeedsFourTones(t *testing.T) {
	// Drop-2 on a triad is undefined; with only that style requested the
	// generator must fall back rather than return a bogus voicing.
	candidates := Generate(cMajor(), GeneratorConfig{Styles: []Style{StyleDrop2}})
	require.Len(t, candidates, 1)
	assert.True(t, candidates[0].OutOfRange)
}

func TestGenerateSpreadHandSplit(t *testing.T) {
	candidates := Generate(g7(), GeneratorConfig{Styles: []Style{StyleSpread}})
	require.NotEmpty(t, candidates)
	for _, v := range candidates {
		assert.Equal(t, 2, v.HandSplit)
		left, right := v.HandSpans()
		assert.LessOrEqual(t, left, DefaultMaxHandSpan)
		assert.LessOrEqual(t, right, DefaultMaxHandSpan)
	}
}

func TestGenerateImpossibleRegisterFallback(t *testing.T) {
	// A register too narrow for any voicing still yields one candidate,
	// flagged out of range.
	cfg := GeneratorConfig{MinPitch: 60, MaxPitch: 63}
	candidates := Generate(cMajor(), cfg)
	require.Len(t, candidates, 1)
	assert.True(t, candidates[0].OutOfRange)
	assert.NotEmpty(t, candidates[0].Pitches)
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := GeneratorConfig{Styles: []Style{StyleClosed, StyleDrop2}}
	first := Generate(g7(), cfg)
	second := Generate(g7(), cfg)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Pitches, second[i].Pitches)
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		input  string
		want   Style
		wantOK bool
	}{
		{"closed", StyleClosed, true},
		{"DROP2", StyleDrop2, true},
		{"rootless_a", StyleRootlessA, true},
		{"spread", StyleSpread, true},
		{"bogus", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseStyle(tt.input)
		assert.Equal(t, tt.wantOK, ok, "ParseStyle(%q)", tt.input)
		if ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestNoCandidatesErrorMessage(t *testing.T) {
	err := &NoCandidatesError{Position: 2, Chord: cMajor(), MinPitch: 60, MaxPitch: 63}
	assert.Contains(t, err.Error(), "position 2")
	assert.Contains(t, err.Error(), "C4")
}
