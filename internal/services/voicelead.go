package services

import (
	"context"
	"time"

	"github.com/tonalworks/voicelead-api/internal/logger"
	"github.com/tonalworks/voicelead-api/internal/optimize"
	"github.com/tonalworks/voicelead-api/internal/theory"
	"github.com/tonalworks/voicelead-api/internal/voicing"
)

// DefaultMaxConcurrent bounds simultaneous optimization runs so a burst of
// requests cannot monopolize every CPU.
const DefaultMaxConcurrent = 8

// VoiceleadRequest is one optimization job: an already-parsed progression
// plus generator and optimizer configuration.
type VoiceleadRequest struct {
	Chords []theory.Chord

	// Key enables harmonic-function scoring when set.
	Key    theory.PitchClass
	HasKey bool

	Generator voicing.GeneratorConfig
	Optimize  optimize.Config
	Mode      optimize.Mode

	// Pareto filters top-k alternatives down to the non-dominated set.
	Pareto  bool
	Weights optimize.Weights
}

// VoiceleadService is the engine facade: a pure computation from
// (progression, configuration) to an optimization result. It holds no
// mutable state beyond a concurrency limiter, so it is safe to share across
// requests.
type VoiceleadService struct {
	sem chan struct{}
}

// NewVoiceleadService creates the service with the given concurrency bound
// (0 means DefaultMaxConcurrent).
func NewVoiceleadService(maxConcurrent int) *VoiceleadService {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &VoiceleadService{sem: make(chan struct{}, maxConcurrent)}
}

// Optimize generates candidate voicings per position and runs the requested
// optimizer. Candidate generation is memoized per request, keyed by
// canonical chord value, so repeated chords in a progression are generated
// once. The call blocks while the concurrency limit is saturated, honoring
// ctx during the wait and cooperatively during the search.
func (s *VoiceleadService) Optimize(ctx context.Context, req VoiceleadRequest) (*optimize.Result, error) {
	if len(req.Chords) == 0 {
		return nil, optimize.ErrEmptyProgression
	}

	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	start := time.Now()

	layers, err := s.candidateLayers(req.Chords, req.Generator)
	if err != nil {
		return nil, err
	}

	var res *optimize.Result
	switch req.Mode {
	case optimize.ModeCSP:
		res, err = optimize.CSP(ctx, layers, req.Optimize)
	case optimize.ModeGraph:
		res, err = optimize.Graph(ctx, layers, req.Optimize)
	default:
		res, err = optimize.DP(ctx, layers, req.Optimize)
	}
	if err != nil {
		return nil, err
	}

	if req.Optimize.TopK > 0 {
		in := s.scorerInput(req)
		optimize.Rank(in, s.weights(req), res)
		if req.Pareto {
			res.Alternatives = optimize.ParetoFrontier(in, res.Alternatives)
		}
	}

	logger.Info("Optimization completed", logger.Fields{
		"positions":   len(req.Chords),
		"mode":        string(req.Mode),
		"total_cost":  res.TotalCost,
		"optimal":     res.Optimal,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return res, nil
}

// candidateLayers builds the per-position candidate sets, memoized by
// canonical chord value within the request. A position whose only candidate
// is the out-of-range fallback fails with a NoCandidatesError naming the
// offending chord.
func (s *VoiceleadService) candidateLayers(chords []theory.Chord, cfg voicing.GeneratorConfig) ([][]voicing.Voicing, error) {
	if cfg.MinPitch == 0 && cfg.MaxPitch == 0 {
		cfg.MinPitch, cfg.MaxPitch = voicing.DefaultMinPitch, voicing.DefaultMaxPitch
	}
	cache := make(map[string][]voicing.Voicing, len(chords))
	layers := make([][]voicing.Voicing, len(chords))
	for i, chord := range chords {
		key := chord.Key()
		cands, ok := cache[key]
		if !ok {
			cands = voicing.Generate(chord, cfg)
			cache[key] = cands
		}
		if len(cands) == 1 && cands[0].OutOfRange {
			return nil, &voicing.NoCandidatesError{
				Position: i,
				Chord:    chord,
				MinPitch: cfg.MinPitch,
				MaxPitch: cfg.MaxPitch,
			}
		}
		layers[i] = cands
	}
	return layers, nil
}

func (s *VoiceleadService) scorerInput(req VoiceleadRequest) optimize.ScorerInput {
	return optimize.ScorerInput{
		Chords:          req.Chords,
		Key:             req.Key,
		HasKey:          req.HasKey,
		PreferredStyles: req.Generator.Styles,
		Cost:            req.Optimize.Cost,
	}
}

func (s *VoiceleadService) weights(req VoiceleadRequest) optimize.Weights {
	if req.Weights == (optimize.Weights{}) {
		return optimize.DefaultWeights()
	}
	return req.Weights
}
