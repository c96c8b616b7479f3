package optimize

import (
	"context"
	"math"
	"sort"

	"github.com/tonalworks/voicelead-api/internal/voicing"
)

// dpEntry is one of the k cheapest ways to stand on a given candidate at a
// given row, with backtrack pointers into the previous row.
type dpEntry struct {
	cost     float64
	prevCand int
	prevSlot int
}

// DP is the authoritative optimizer: a Viterbi-style recurrence
//
//	best[i][v] = min over v' of best[i-1][v'] + transitionCost(v', v)
//
// over the per-position candidate layers. Complexity O(n * cap^2), bounded
// by the generator's candidate cap. The base row is zero, or the anchor
// transition cost when a starting voicing is pinned. Infinite transitions
// encode hard-constraint violations; an infinite final minimum means the
// progression is infeasible.
//
// Cancellation is cooperative: ctx is checked between rows. When cfg.TopK
// is above 1, a k-best recurrence also returns the next-cheapest sequences
// as Alternatives.
func DP(ctx context.Context, layers [][]voicing.Voicing, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	if len(layers) == 0 {
		return nil, ErrEmptyProgression
	}
	for i, layer := range layers {
		if len(layer) == 0 {
			return nil, &InfeasibleError{Position: i, Constraint: "empty candidate set"}
		}
	}

	k := cfg.TopK
	if k < 1 {
		k = 1
	}

	n := len(layers)
	table := make([][][]dpEntry, n)

	// Base row.
	table[0] = make([][]dpEntry, len(layers[0]))
	anchor, hasAnchor := cfg.anchorVoicing()
	for v, cand := range layers[0] {
		base := 0.0
		if hasAnchor {
			base = transitionCost(cfg, anchor, cand)
		}
		if !math.IsInf(base, 1) {
			table[0][v] = []dpEntry{{cost: base, prevCand: -1, prevSlot: -1}}
		}
	}

	// Forward pass.
	for i := 1; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		table[i] = make([][]dpEntry, len(layers[i]))
		for v, cand := range layers[i] {
			var merged []dpEntry
			for pv, prevCand := range layers[i-1] {
				if len(table[i-1][pv]) == 0 {
					continue
				}
				step := transitionCost(cfg, prevCand, cand)
				if math.IsInf(step, 1) {
					continue
				}
				for slot, prev := range table[i-1][pv] {
					merged = append(merged, dpEntry{cost: prev.cost + step, prevCand: pv, prevSlot: slot})
				}
			}
			sort.Slice(merged, func(a, b int) bool { return merged[a].cost < merged[b].cost })
			if len(merged) > k {
				merged = merged[:k]
			}
			table[i][v] = merged
		}
	}

	// Collect final entries across the last row.
	type final struct {
		cand int
		slot int
		cost float64
	}
	var finals []final
	last := n - 1
	for v := range layers[last] {
		for slot, e := range table[last][v] {
			finals = append(finals, final{cand: v, slot: slot, cost: e.cost})
		}
	}
	if len(finals) == 0 {
		return nil, &InfeasibleError{Position: deepestReached(table), Constraint: "hard constraints"}
	}
	sort.Slice(finals, func(a, b int) bool { return finals[a].cost < finals[b].cost })
	if len(finals) > k {
		finals = finals[:k]
	}

	// Backtrack pointers reconstruct each sequence.
	reconstruct := func(f final) []voicing.Voicing {
		seq := make([]voicing.Voicing, n)
		cand, slot := f.cand, f.slot
		for i := last; i >= 0; i-- {
			seq[i] = layers[i][cand]
			e := table[i][cand][slot]
			cand, slot = e.prevCand, e.prevSlot
		}
		return seq
	}

	bestSeq := reconstruct(finals[0])
	res := &Result{
		Voicings:  bestSeq,
		TotalCost: finals[0].cost,
		EdgeCosts: edgeCosts(cfg, bestSeq),
		Feasible:  true,
		Optimal:   true,
	}
	for _, f := range finals[1:] {
		alt := reconstruct(f)
		res.Alternatives = append(res.Alternatives, Alternative{Voicings: alt, TotalCost: f.cost})
	}
	return res, nil
}

// deepestReached finds the last row any feasible partial assignment reached,
// which is where the infeasibility report points.
func deepestReached(table [][][]dpEntry) int {
	deepest := 0
	for i, row := range table {
		for _, entries := range row {
			if len(entries) > 0 {
				deepest = i
				break
			}
		}
	}
	return deepest
}
