// Package tonnetz models the Neo-Riemannian Tonnetz: the 24 consonant triads
// (12 roots x major/minor) connected by the parsimonious P, L and R
// transformations, each of which moves exactly one pitch class of the triad
// by one or two semitones.
//
// The lattice is a static 24-node arena with integer neighbor indices, built
// once at package init and read-only afterwards, so it is safe for
// unsynchronized concurrent reads. All-pairs distances are precomputed with
// BFS (the graph is tiny, so BFS is exact and effectively free).
package tonnetz

import (
	"fmt"

	"github.com/tonalworks/voicelead-api/internal/theory"
)

// Quality distinguishes the two consonant triad forms.
type Quality int

const (
	Major Quality = iota
	Minor
)

func (q Quality) String() string {
	if q == Minor {
		return "minor"
	}
	return "major"
}

// Triad is a consonant triad identified by root pitch class and quality.
type Triad struct {
	Root    theory.PitchClass
	Quality Quality
}

// Op is one of the three Neo-Riemannian transformations.
type Op byte

const (
	P Op = 'P' // parallel: C major <-> C minor
	L Op = 'L' // leading-tone exchange: C major <-> E minor
	R Op = 'R' // relative: C major <-> A minor
)

func (op Op) String() string { return string(op) }

// ParseOp converts a one-letter string into an Op.
func ParseOp(s string) (Op, error) {
	switch s {
	case "P", "p":
		return P, nil
	case "L", "l":
		return L, nil
	case "R", "r":
		return R, nil
	default:
		return 0, fmt.Errorf("invalid transformation %q: want P, L or R", s)
	}
}

const (
	numTriads    = 24
	numPitches   = 12
	opsPerTriad  = 3
	unreachable  = -1
	minorThird   = 3
	majorThird   = 4
	perfectFifth = 7
)

// Third returns the pitch class of the triad's third.
func (t Triad) Third() theory.PitchClass {
	if t.Quality == Minor {
		return t.Root.Transpose(minorThird)
	}
	return t.Root.Transpose(majorThird)
}

// Fifth returns the pitch class of the triad's fifth.
func (t Triad) Fifth() theory.PitchClass { return t.Root.Transpose(perfectFifth) }

// PitchClasses returns root, third and fifth.
func (t Triad) PitchClasses() [3]theory.PitchClass {
	return [3]theory.PitchClass{t.Root, t.Third(), t.Fifth()}
}

func (t Triad) String() string {
	if t.Quality == Minor {
		return t.Root.Name() + "m"
	}
	return t.Root.Name()
}

// index maps a triad onto its arena slot (root*2 + quality).
func (t Triad) index() int {
	return int(t.Root.Normalize())*2 + int(t.Quality)
}

func triadAt(idx int) Triad {
	return Triad{Root: theory.PitchClass(idx / 2), Quality: Quality(idx % 2)}
}

// TriadOf reduces a chord to its underlying consonant triad, if it has one.
// Seventh and extended chords map to the triad they contain.
func TriadOf(c theory.Chord) (Triad, bool) {
	switch {
	case c.IsMajorTriad():
		return Triad{Root: c.Root, Quality: Major}, true
	case c.IsMinorTriad():
		return Triad{Root: c.Root, Quality: Minor}, true
	default:
		return Triad{}, false
	}
}

// Parallel swaps the triad's third by one semitone, exchanging major and
// minor over the same root. Involution.
func Parallel(t Triad) Triad {
	return Triad{Root: t.Root, Quality: 1 - t.Quality}
}

// Leading exchanges the leading tone: for a major triad the root moves down a
// semitone (C major -> E minor); for a minor triad the fifth moves up a
// semitone (E minor -> C major). Involution.
func Leading(t Triad) Triad {
	if t.Quality == Major {
		return Triad{Root: t.Root.Transpose(majorThird), Quality: Minor}
	}
	return Triad{Root: t.Root.Transpose(-majorThird), Quality: Major}
}

// Relative moves the complementary tone: for a major triad the fifth moves up
// a whole step (C major -> A minor); for a minor triad the root moves down a
// whole step (A minor -> C major). Involution.
func Relative(t Triad) Triad {
	if t.Quality == Major {
		return Triad{Root: t.Root.Transpose(perfectFifth + 2), Quality: Minor}
	}
	return Triad{Root: t.Root.Transpose(minorThird), Quality: Major}
}

// Apply runs a single transformation.
func Apply(op Op, t Triad) (Triad, error) {
	switch op {
	case P:
		return Parallel(t), nil
	case L:
		return Leading(t), nil
	case R:
		return Relative(t), nil
	default:
		return Triad{}, fmt.Errorf("invalid transformation %q", string(op))
	}
}

// ApplySequence applies an ordered list of transformations, verifying at each
// step that exactly one pitch class changed and that it moved by at most two
// semitones (the parsimony property of P, L and R).
func ApplySequence(start Triad, ops []Op) (Triad, error) {
	cur := start
	for i, op := range ops {
		next, err := Apply(op, cur)
		if err != nil {
			return Triad{}, fmt.Errorf("step %d: %w", i, err)
		}
		if err := checkParsimony(cur, next); err != nil {
			return Triad{}, fmt.Errorf("step %d (%s on %s): %w", i, op, cur, err)
		}
		cur = next
	}
	return cur, nil
}

// checkParsimony verifies that exactly one pitch class differs between the
// two triads and that it moved by 1 or 2 semitones.
func checkParsimony(a, b Triad) error {
	apcs := a.PitchClasses()
	bpcs := b.PitchClasses()

	inA := map[theory.PitchClass]bool{}
	inB := map[theory.PitchClass]bool{}
	for i := 0; i < 3; i++ {
		inA[apcs[i]] = true
		inB[bpcs[i]] = true
	}

	var movedFrom, movedTo []theory.PitchClass
	for pc := range inA {
		if !inB[pc] {
			movedFrom = append(movedFrom, pc)
		}
	}
	for pc := range inB {
		if !inA[pc] {
			movedTo = append(movedTo, pc)
		}
	}
	if len(movedFrom) != 1 || len(movedTo) != 1 {
		return fmt.Errorf("parsimony violated: %d pitch classes changed", len(movedFrom))
	}
	if d := theory.IntervalBetween(movedFrom[0], movedTo[0]); d < 1 || d > 2 {
		return fmt.Errorf("parsimony violated: pitch class moved %d semitones", d)
	}
	return nil
}

// HexatonicPole returns the hexatonic pole of the triad: the maximally
// distant triad sharing no common tones, reached by the composition
// L, then P, then L (C major -> G# minor). Applying it twice returns the
// original triad.
func HexatonicPole(t Triad) Triad {
	return Leading(Parallel(Leading(t)))
}

// lattice is the static 24-node arena. neighbors[i] holds, in P/L/R order,
// the arena indices reachable from triad i. dist is the all-pairs BFS
// distance table. Both are filled once in init and never written again.
var (
	neighbors [numTriads][opsPerTriad]int
	dist      [numTriads][numTriads]int
)

func init() {
	for i := 0; i < numTriads; i++ {
		t := triadAt(i)
		neighbors[i] = [opsPerTriad]int{
			Parallel(t).index(),
			Leading(t).index(),
			Relative(t).index(),
		}
	}
	for i := 0; i < numTriads; i++ {
		bfsFrom(i, &dist[i])
	}
}

// bfsFrom fills out[j] with the minimum PLR-step count from triad i to every
// triad j.
func bfsFrom(start int, out *[numTriads]int) {
	for j := range out {
		out[j] = unreachable
	}
	out[start] = 0
	queue := []int{start}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range neighbors[u] {
			if out[v] == unreachable {
				out[v] = out[u] + 1
				queue = append(queue, v)
			}
		}
	}
}

// Neighbors returns the three triads reachable by a single transformation,
// in P, L, R order.
func Neighbors(t Triad) [3]Triad {
	n := neighbors[t.index()]
	return [3]Triad{triadAt(n[0]), triadAt(n[1]), triadAt(n[2])}
}

// Distance returns the minimum number of P/L/R steps between two triads.
// Symmetric, and zero iff a == b.
func Distance(a, b Triad) int {
	return dist[a.index()][b.index()]
}
