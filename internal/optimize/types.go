// Package optimize selects one voicing per progression position so that the
// sequence minimizes total voice-leading cost under hard constraints.
//
// Three formulations of the same problem live here: a dynamic-programming
// optimizer (authoritative, globally optimal), a budgeted backtracking
// search (best effort), and a Dijkstra shortest-path over an explicit DAG
// (cross-validation, and the basis for future cyclic reharmonization
// graphs). Given identical inputs the DP minimum and the graph shortest
// path are equal, and both bound the backtracking result from below.
package optimize

import (
	"math"

	"github.com/tonalworks/voicelead-api/internal/voicing"
)

// Mode selects the optimizer formulation.
type Mode string

const (
	ModeDP    Mode = "dp"    // exact dynamic programming (default)
	ModeCSP   Mode = "csp"   // budgeted backtracking, best effort
	ModeGraph Mode = "graph" // Dijkstra over the explicit progression DAG
)

// ParseMode validates a mode string from a request, defaulting to DP.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case "":
		return ModeDP, true
	case ModeDP, ModeCSP, ModeGraph:
		return Mode(s), true
	default:
		return "", false
	}
}

// Constraints are the hard voice-leading rules. A transition violating any
// of them has infinite cost in every formulation.
type Constraints struct {
	// MaxLeap caps per-voice motion in semitones. Zero means unlimited.
	MaxLeap int `json:"max_leap"`

	// NoVoiceCrossing forbids matched voice paths from crossing.
	NoVoiceCrossing bool `json:"no_voice_crossing"`

	// NoParallels forbids parallel perfect fifths and octaves.
	NoParallels bool `json:"no_parallels"`
}

// DefaultNodeBudget bounds backtracking node expansions.
const DefaultNodeBudget = 200_000

// Config carries everything an optimizer run needs beyond the candidates.
type Config struct {
	Constraints Constraints        `json:"constraints"`
	Cost        voicing.CostConfig `json:"cost"`

	// Anchor, when non-empty, is a pinned voicing preceding position 0; the
	// first transition is scored against it.
	Anchor []int `json:"anchor,omitempty"`

	// NodeBudget bounds CSP search effort. Zero means DefaultNodeBudget.
	NodeBudget int `json:"node_budget"`

	// TopK requests that many alternative sequences (DP only).
	TopK int `json:"top_k"`
}

func (cfg Config) withDefaults() Config {
	if cfg.NodeBudget == 0 {
		cfg.NodeBudget = DefaultNodeBudget
	}
	return cfg
}

func (cfg Config) anchorVoicing() (voicing.Voicing, bool) {
	if len(cfg.Anchor) == 0 {
		return voicing.Voicing{}, false
	}
	return voicing.Voicing{Pitches: cfg.Anchor}, true
}

// Alternative is one ranked sequence beyond the optimum.
type Alternative struct {
	Voicings  []voicing.Voicing `json:"voicings"`
	TotalCost float64           `json:"total_cost"`
	Score     float64           `json:"score,omitempty"`
}

// Result is the outcome of one optimizer run.
type Result struct {
	Voicings  []voicing.Voicing `json:"voicings"`
	TotalCost float64           `json:"total_cost"`

	// EdgeCosts holds the per-transition cost breakdown; EdgeCosts[i] is the
	// cost of moving from position i to i+1 (plus the anchor transition at
	// index 0 when an anchor is pinned).
	EdgeCosts []float64 `json:"edge_costs"`

	Feasible bool `json:"feasible"`

	// Optimal is false for best-effort results returned after the search
	// budget ran out.
	Optimal bool `json:"optimal"`

	Alternatives []Alternative `json:"alternatives,omitempty"`
}

// transitionCost scores a single transition, returning +Inf when a hard
// constraint is violated. All three optimizers use this one function, which
// is what keeps their verdicts consistent.
func transitionCost(cfg Config, from, to voicing.Voicing) float64 {
	maxLeap, crossing, parallels := voicing.Violations(from, to)
	if cfg.Constraints.MaxLeap > 0 && maxLeap > cfg.Constraints.MaxLeap {
		return math.Inf(1)
	}
	if cfg.Constraints.NoVoiceCrossing && crossing {
		return math.Inf(1)
	}
	if cfg.Constraints.NoParallels && parallels {
		return math.Inf(1)
	}
	return cfg.Cost.Cost(from, to)
}

// edgeCosts recomputes the per-transition breakdown for a chosen sequence.
func edgeCosts(cfg Config, seq []voicing.Voicing) []float64 {
	var costs []float64
	if anchor, ok := cfg.anchorVoicing(); ok && len(seq) > 0 {
		costs = append(costs, cfg.Cost.Cost(anchor, seq[0]))
	}
	for i := 1; i < len(seq); i++ {
		costs = append(costs, cfg.Cost.Cost(seq[i-1], seq[i]))
	}
	return costs
}
