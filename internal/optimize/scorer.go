package optimize

import (
	"sort"

	"github.com/tonalworks/voicelead-api/internal/theory"
	"github.com/tonalworks/voicelead-api/internal/tonnetz"
	"github.com/tonalworks/voicelead-api/internal/voicing"
)

// Weights combines the scoring objectives into one rankable scalar. Higher
// weight means the objective matters more; all contributions are penalties,
// so a lower weighted score is better.
type Weights struct {
	VoiceLeading float64 `json:"voice_leading"`
	Parsimony    float64 `json:"parsimony"`
	Function     float64 `json:"function"`
	Style        float64 `json:"style"`
}

// DefaultWeights biases toward voice-leading cost with a modest Tonnetz
// parsimony bonus.
func DefaultWeights() Weights {
	return Weights{VoiceLeading: 1.0, Parsimony: 0.5, Function: 1.0, Style: 0.25}
}

// Scoring constants.
const (
	// parsimonyBonus is subtracted (scaled by the parsimony weight) for each
	// consecutive chord pair whose triads are adjacent on the Tonnetz.
	parsimonyBonus = 2.0

	// functionPenalty is charged (scaled by the function weight) for each
	// position whose harmonic function differs from the reference.
	functionPenalty = 4.0

	// stylePenalty is charged (scaled by the style weight) for each voicing
	// whose style is not among the preferred ones.
	stylePenalty = 1.0
)

// Objectives is the multi-objective breakdown of one candidate sequence.
// Each component is a penalty; lower is better on every axis.
type Objectives struct {
	VoiceLeading float64 `json:"voice_leading"`
	Parsimony    float64 `json:"parsimony"`
	Function     float64 `json:"function"`
	Style        float64 `json:"style"`
}

// Weighted collapses the objectives into a single scalar.
func (o Objectives) Weighted(w Weights) float64 {
	return w.VoiceLeading*o.VoiceLeading +
		w.Parsimony*o.Parsimony +
		w.Function*o.Function +
		w.Style*o.Style
}

// dominates reports Pareto dominance: o is at most p on every objective and
// strictly below on at least one.
func (o Objectives) dominates(p Objectives) bool {
	le := o.VoiceLeading <= p.VoiceLeading && o.Parsimony <= p.Parsimony &&
		o.Function <= p.Function && o.Style <= p.Style
	lt := o.VoiceLeading < p.VoiceLeading || o.Parsimony < p.Parsimony ||
		o.Function < p.Function || o.Style < p.Style
	return le && lt
}

// ScorerInput carries the musical context a sequence is scored against.
type ScorerInput struct {
	Chords []theory.Chord

	// Key, when set, enables harmonic-function preservation scoring.
	Key    theory.PitchClass
	HasKey bool

	// ReferenceFunctions are the functions the progression is expected to
	// express per position (from the original chords, for reharmonization).
	// Empty means the chords' own functions are the reference.
	ReferenceFunctions []theory.HarmonicFunction

	// PreferredStyles, when non-empty, marks out-of-style voicings.
	PreferredStyles []voicing.Style

	Cost voicing.CostConfig
}

// Score computes the multi-objective breakdown for one voicing sequence.
func Score(in ScorerInput, seq []voicing.Voicing) Objectives {
	var o Objectives

	for i := 1; i < len(seq); i++ {
		o.VoiceLeading += in.Cost.Cost(seq[i-1], seq[i])
	}

	// Tonnetz parsimony: consecutive chords whose triads are lattice
	// neighbors earn a bonus. Recorded as a penalty axis by counting the
	// missed bonuses, so lower remains better.
	for i := 1; i < len(in.Chords); i++ {
		a, okA := tonnetz.TriadOf(in.Chords[i-1])
		b, okB := tonnetz.TriadOf(in.Chords[i])
		if !okA || !okB {
			continue
		}
		if d := tonnetz.Distance(a, b); d > 1 {
			o.Parsimony += parsimonyBonus * float64(d-1)
		}
	}

	if in.HasKey {
		for i, c := range in.Chords {
			want := c.FunctionIn(in.Key)
			if i < len(in.ReferenceFunctions) {
				want = in.ReferenceFunctions[i]
			}
			if want == theory.FunctionUnknown {
				continue
			}
			if c.FunctionIn(in.Key) != want {
				o.Function += functionPenalty
			}
		}
	}

	if len(in.PreferredStyles) > 0 {
		preferred := map[voicing.Style]bool{}
		for _, s := range in.PreferredStyles {
			preferred[s] = true
		}
		for _, v := range seq {
			if !preferred[v.Style] {
				o.Style += stylePenalty
			}
		}
	}

	return o
}

// Rank scores the result's alternatives (and the optimum itself), sorts the
// alternatives by weighted score, and fills the Score fields in place.
func Rank(in ScorerInput, w Weights, res *Result) {
	for i := range res.Alternatives {
		obj := Score(in, res.Alternatives[i].Voicings)
		res.Alternatives[i].Score = obj.Weighted(w)
	}
	sort.SliceStable(res.Alternatives, func(a, b int) bool {
		return res.Alternatives[a].Score < res.Alternatives[b].Score
	})
}

// ParetoFrontier filters alternatives down to the non-dominated set: a
// sequence survives unless some other sequence is at most as costly on
// every objective and strictly cheaper on one.
func ParetoFrontier(in ScorerInput, alts []Alternative) []Alternative {
	objs := make([]Objectives, len(alts))
	for i, alt := range alts {
		objs[i] = Score(in, alt.Voicings)
	}

	var frontier []Alternative
	for i := range alts {
		dominated := false
		for j := range alts {
			if i != j && objs[j].dominates(objs[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, alts[i])
		}
	}
	return frontier
}
