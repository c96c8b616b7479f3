package optimize

import (
	"container/heap"
	"context"
	"math"

	"github.com/tonalworks/voicelead-api/internal/voicing"
)

// Graph formulates the progression as an explicit weighted DAG and runs
// Dijkstra over it. Nodes are (position, candidate) pairs; a super-source
// feeds every position-0 candidate (at the anchor transition cost when an
// anchor is pinned, else zero) and every final-position candidate feeds a
// super-sink at zero cost. All transition costs are non-negative, so
// Dijkstra is valid, and its shortest-path cost equals the DP minimum on
// the same input.
//
// The DAG build is O(n * cap^2) edges, the same work the DP does; the
// formulation is kept because it extends to cyclic reharmonization graphs
// where the linear recurrence no longer applies.
func Graph(ctx context.Context, layers [][]voicing.Voicing, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()
	if len(layers) == 0 {
		return nil, ErrEmptyProgression
	}
	for i, layer := range layers {
		if len(layer) == 0 {
			return nil, &InfeasibleError{Position: i, Constraint: "empty candidate set"}
		}
	}

	// Node numbering: 0 = source, 1 = sink, then layers in order.
	const (
		source = 0
		sink   = 1
	)
	offsets := make([]int, len(layers))
	next := 2
	for i, layer := range layers {
		offsets[i] = next
		next += len(layer)
	}
	numNodes := next

	nodeID := func(pos, cand int) int { return offsets[pos] + cand }

	type edge struct {
		to     int
		weight float64
	}
	adj := make([][]edge, numNodes)

	// Source -> first layer.
	anchor, hasAnchor := cfg.anchorVoicing()
	for v, cand := range layers[0] {
		w := 0.0
		if hasAnchor {
			w = transitionCost(cfg, anchor, cand)
		}
		if math.IsInf(w, 1) {
			continue
		}
		adj[source] = append(adj[source], edge{to: nodeID(0, v), weight: w})
	}

	// Layer i -> layer i+1. Infinite transitions are simply absent from the DAG.
	for i := 0; i < len(layers)-1; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for v, from := range layers[i] {
			for u, to := range layers[i+1] {
				w := transitionCost(cfg, from, to)
				if math.IsInf(w, 1) {
					continue
				}
				adj[nodeID(i, v)] = append(adj[nodeID(i, v)], edge{to: nodeID(i+1, u), weight: w})
			}
		}
	}

	// Last layer -> sink.
	last := len(layers) - 1
	for v := range layers[last] {
		adj[nodeID(last, v)] = append(adj[nodeID(last, v)], edge{to: sink, weight: 0})
	}

	// Dijkstra with a lazy-decrease-key min-heap: shorter paths push
	// duplicate entries, stale ones are skipped when popped.
	dist := make([]float64, numNodes)
	prev := make([]int, numNodes)
	done := make([]bool, numNodes)
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}
	dist[source] = 0

	pq := &nodePQ{{id: source, dist: 0}}
	heap.Init(pq)
	for pq.Len() > 0 {
		item := heap.Pop(pq).(*nodeItem)
		u := item.id
		if done[u] {
			continue
		}
		done[u] = true
		if u == sink {
			break
		}
		for _, e := range adj[u] {
			if nd := dist[u] + e.weight; nd < dist[e.to] {
				dist[e.to] = nd
				prev[e.to] = u
				heap.Push(pq, &nodeItem{id: e.to, dist: nd})
			}
		}
	}

	if math.IsInf(dist[sink], 1) {
		return nil, &InfeasibleError{Position: deepestNode(dist, offsets, layers), Constraint: "hard constraints"}
	}

	// Walk predecessors sink -> source and map nodes back to voicings.
	seq := make([]voicing.Voicing, len(layers))
	for node := prev[sink]; node != source && node != -1; node = prev[node] {
		pos, cand := locate(node, offsets, layers)
		seq[pos] = layers[pos][cand]
	}

	return &Result{
		Voicings:  seq,
		TotalCost: dist[sink],
		EdgeCosts: edgeCosts(cfg, seq),
		Feasible:  true,
		Optimal:   true,
	}, nil
}

// locate maps a node id back to its (position, candidate) pair.
func locate(node int, offsets []int, layers [][]voicing.Voicing) (pos, cand int) {
	for i := len(offsets) - 1; i >= 0; i-- {
		if node >= offsets[i] {
			return i, node - offsets[i]
		}
	}
	return 0, 0
}

// deepestNode finds the last position any candidate was reached at finite
// distance, for the infeasibility report.
func deepestNode(dist []float64, offsets []int, layers [][]voicing.Voicing) int {
	deepest := 0
	for i := range layers {
		for v := range layers[i] {
			if !math.IsInf(dist[offsets[i]+v], 1) {
				deepest = i
				break
			}
		}
	}
	return deepest
}

// nodeItem is a heap entry: a node and its tentative distance from source.
type nodeItem struct {
	id   int
	dist float64
}

// nodePQ is a min-heap of *nodeItem ordered by distance.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int            { return len(pq) }
func (pq nodePQ) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq nodePQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }
func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
