package tonnetz

// Step is one hop of an explicit transformation path: the operation taken
// and the triad it arrives at.
type Step struct {
	Op    Op
	Triad Triad
}

var ops = [opsPerTriad]Op{P, L, R}

// Path returns an explicit shortest transformation path from a to b.
// The returned steps achieve exactly Distance(a, b) hops; an empty slice
// means a == b. The path is found by BFS with parent tracking, so among
// equal-length paths the P < L < R expansion order breaks ties
// deterministically.
func Path(a, b Triad) []Step {
	if a == b {
		return []Step{}
	}

	start, goal := a.index(), b.index()

	type parent struct {
		from int
		op   Op
	}
	parents := make(map[int]parent, numTriads)
	parents[start] = parent{from: start}

	queue := []int{start}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if u == goal {
			break
		}
		for k, v := range neighbors[u] {
			if _, seen := parents[v]; !seen {
				parents[v] = parent{from: u, op: ops[k]}
				queue = append(queue, v)
			}
		}
	}

	// Walk parents back from the goal, then reverse.
	var rev []Step
	for cur := goal; cur != start; {
		p := parents[cur]
		rev = append(rev, Step{Op: p.op, Triad: triadAt(cur)})
		cur = p.from
	}
	path := make([]Step, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path
}
