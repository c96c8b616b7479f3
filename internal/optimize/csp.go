package optimize

import (
	"context"
	"math"
	"sort"

	"github.com/tonalworks/voicelead-api/internal/voicing"
)

// cspCheckInterval is how many node expansions pass between context checks.
const cspCheckInterval = 1024

// CSP runs budgeted chronological backtracking over the candidate layers:
// assign a voicing per position in order, filtering each layer against the
// previous assignment, backtracking on dead ends. Candidates at each depth
// are tried cheapest-transition-first, so good sequences are found early;
// after the first complete assignment the search continues as
// branch-and-bound, pruning partial assignments that already cost at least
// as much as the best complete one.
//
// The search is an explicit iterative stack with a node-expansion budget, so
// recursion depth never depends on progression length. On budget exhaustion
// the best feasible sequence found so far is returned with Optimal=false; if
// none was found, a BudgetExceededError. A fully exhausted search with no
// solution is an InfeasibleError — the same verdict DP reaches on the same
// input.
func CSP(ctx context.Context, layers [][]voicing.Voicing, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	if len(layers) == 0 {
		return nil, ErrEmptyProgression
	}
	for i, layer := range layers {
		if len(layer) == 0 {
			return nil, &InfeasibleError{Position: i, Constraint: "empty candidate set"}
		}
	}

	n := len(layers)
	anchor, hasAnchor := cfg.anchorVoicing()

	// ordered returns the candidate indices of layer pos sorted by transition
	// cost from the previous assignment, infeasible transitions excluded.
	ordered := func(pos int, prev voicing.Voicing, havePrev bool) ([]int, []float64) {
		layer := layers[pos]
		idx := make([]int, 0, len(layer))
		costs := make([]float64, len(layer))
		for v, cand := range layer {
			step := 0.0
			if havePrev {
				step = transitionCost(cfg, prev, cand)
			}
			if math.IsInf(step, 1) {
				continue
			}
			costs[v] = step
			idx = append(idx, v)
		}
		sort.Slice(idx, func(a, b int) bool { return costs[idx[a]] < costs[idx[b]] })
		return idx, costs
	}

	// frame is one depth of the explicit backtracking stack.
	type frame struct {
		candidates []int     // feasible candidate indices, cheapest first
		stepCosts  []float64 // transition cost per candidate index (dense)
		next       int       // next candidate to try
	}

	assignment := make([]int, n)
	pathCost := make([]float64, n+1) // pathCost[d] = cost of assignment[:d]

	var (
		best      []int
		bestCost  = math.Inf(1)
		nodes     int
		deepest   int
		exhausted bool
	)

	stack := make([]*frame, 0, n)
	push := func(pos int) {
		var prev voicing.Voicing
		havePrev := false
		if pos == 0 {
			prev, havePrev = anchor, hasAnchor
		} else {
			prev, havePrev = layers[pos-1][assignment[pos-1]], true
		}
		cands, costs := ordered(pos, prev, havePrev)
		stack = append(stack, &frame{candidates: cands, stepCosts: costs})
	}
	push(0)

	for len(stack) > 0 {
		if nodes%cspCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if nodes >= cfg.NodeBudget {
			break
		}

		depth := len(stack) - 1
		f := stack[depth]

		if f.next >= len(f.candidates) {
			// Dead end: backtrack.
			stack = stack[:depth]
			continue
		}

		cand := f.candidates[f.next]
		f.next++
		nodes++

		newCost := pathCost[depth] + f.stepCosts[cand]
		if newCost >= bestCost {
			continue // bound: cannot improve on the best complete sequence
		}

		assignment[depth] = cand
		pathCost[depth+1] = newCost
		if depth+1 > deepest {
			deepest = depth + 1
		}

		if depth == n-1 {
			best = append(best[:0:0], assignment...)
			bestCost = newCost
			continue
		}
		push(depth + 1)
	}
	exhausted = len(stack) == 0

	if best == nil {
		if exhausted {
			return nil, &InfeasibleError{Position: deepest, Constraint: "hard constraints"}
		}
		return nil, &BudgetExceededError{NodesExpanded: nodes, Budget: cfg.NodeBudget}
	}

	seq := make([]voicing.Voicing, n)
	for i, v := range best {
		seq[i] = layers[i][v]
	}
	return &Result{
		Voicings:  seq,
		TotalCost: bestCost,
		EdgeCosts: edgeCosts(cfg, seq),
		Feasible:  true,
		Optimal:   exhausted,
	}, nil
}
