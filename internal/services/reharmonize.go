package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/tonalworks/voicelead-api/internal/theory"
	"github.com/tonalworks/voicelead-api/internal/tonnetz"
)

// ReharmonizeRequest asks for ranked substitute chords at one position of a
// progression, judged with the same cost machinery the optimizer uses.
type ReharmonizeRequest struct {
	VoiceleadRequest

	// Position is the progression index to substitute at.
	Position int

	// MaxSuggestions caps the returned list (0 means all).
	MaxSuggestions int
}

// Suggestion is one ranked chord substitution.
type Suggestion struct {
	Chord theory.Chord `json:"-"`

	Symbol string `json:"symbol"`

	// TonnetzDistance is the PLR-step distance from the original triad.
	TonnetzDistance int `json:"tonnetz_distance"`

	// CostDelta is the change in optimal voice-leading cost the substitution
	// causes over the whole progression.
	CostDelta float64 `json:"cost_delta"`

	// FunctionPreserved reports whether the substitute keeps the original
	// chord's harmonic function in the request key.
	FunctionPreserved bool `json:"function_preserved"`

	Score float64 `json:"score"`
}

// Reharmonization scoring constants.
const (
	reharmonizeDistanceWeight = 1.5
	reharmonizeFunctionCost   = 4.0
)

// PositionError reports a substitution index outside the progression.
type PositionError struct {
	Position int
	Length   int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("position %d out of range for progression of %d chords", e.Position, e.Length)
}

// Reharmonize ranks Tonnetz-derived substitutes for the chord at
// req.Position: the three PLR neighbors of its triad plus its hexatonic
// pole. Each substitute is dropped into the progression and re-optimized;
// the score combines voice-leading cost delta, Tonnetz distance, and
// harmonic-function preservation.
func (s *VoiceleadService) Reharmonize(ctx context.Context, req ReharmonizeRequest) ([]Suggestion, error) {
	if req.Position < 0 || req.Position >= len(req.Chords) {
		return nil, &PositionError{Position: req.Position, Length: len(req.Chords)}
	}

	original := req.Chords[req.Position]
	triad, ok := tonnetz.TriadOf(original)
	if !ok {
		// Non-triadic chords have no lattice placement to reason from.
		return nil, nil
	}

	base, err := s.Optimize(ctx, req.VoiceleadRequest)
	if err != nil {
		return nil, err
	}

	neighbors := tonnetz.Neighbors(triad)
	candidates := append(neighbors[:], tonnetz.HexatonicPole(triad))

	var suggestions []Suggestion
	for _, sub := range candidates {
		chord := triadChord(sub)

		altChords := append([]theory.Chord(nil), req.Chords...)
		altChords[req.Position] = chord

		altReq := req.VoiceleadRequest
		altReq.Chords = altChords
		altRes, err := s.Optimize(ctx, altReq)
		if err != nil {
			// Substitutes that admit no feasible voicing are skipped, not fatal.
			continue
		}

		sug := Suggestion{
			Chord:           chord,
			Symbol:          sub.String(),
			TonnetzDistance: tonnetz.Distance(triad, sub),
			CostDelta:       altRes.TotalCost - base.TotalCost,
		}
		if req.HasKey {
			sug.FunctionPreserved = chord.FunctionIn(req.Key) == original.FunctionIn(req.Key)
		}
		sug.Score = sug.CostDelta + reharmonizeDistanceWeight*float64(sug.TonnetzDistance)
		if req.HasKey && !sug.FunctionPreserved {
			sug.Score += reharmonizeFunctionCost
		}
		suggestions = append(suggestions, sug)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score < suggestions[j].Score
	})
	if req.MaxSuggestions > 0 && len(suggestions) > req.MaxSuggestions {
		suggestions = suggestions[:req.MaxSuggestions]
	}
	return suggestions, nil
}

// triadChord builds the plain chord value for a lattice triad.
func triadChord(t tonnetz.Triad) theory.Chord {
	third := 4
	if t.Quality == tonnetz.Minor {
		third = 3
	}
	c := theory.NewChord(t.Root, third, 7)
	c.Symbol = t.String()
	return c
}
