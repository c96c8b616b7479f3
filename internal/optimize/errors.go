package optimize

import (
	"errors"
	"fmt"
)

// Sentinel errors for the optimizer family. Structured detail types below
// wrap them, so callers can branch with errors.Is and recover context with
// errors.As.
var (
	// ErrInfeasible means no voicing sequence satisfies the hard constraints.
	// All three optimizer formulations agree on this verdict.
	ErrInfeasible = errors.New("no constraint-satisfying voicing sequence exists")

	// ErrBudgetExceeded means the search spent its node budget without
	// finding any feasible sequence.
	ErrBudgetExceeded = errors.New("search budget exhausted without a feasible sequence")

	// ErrEmptyProgression rejects an optimization over zero chords.
	ErrEmptyProgression = errors.New("progression is empty")
)

// InfeasibleError carries the position where the search proved infeasibility
// (the deepest position any partial assignment reached) and the constraint
// blocking it.
type InfeasibleError struct {
	Position   int
	Constraint string
}

func (e *InfeasibleError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%v: blocked at position %d by %s", ErrInfeasible, e.Position, e.Constraint)
	}
	return fmt.Sprintf("%v: blocked at position %d", ErrInfeasible, e.Position)
}

func (e *InfeasibleError) Unwrap() error { return ErrInfeasible }

// BudgetExceededError reports how much work was done before the budget ran out.
type BudgetExceededError struct {
	NodesExpanded int
	Budget        int
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("%v: expanded %d of %d nodes", ErrBudgetExceeded, e.NodesExpanded, e.Budget)
}

func (e *BudgetExceededError) Unwrap() error { return ErrBudgetExceeded }
