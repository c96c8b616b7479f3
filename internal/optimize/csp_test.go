package optimize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonalworks/voicelead-api/internal/voicing"
)

func TestCSPMatchesDPOnExhaustedSearch(t *testing.T) {
	// With the default budget the backtracking search exhausts these small
	// problems, so its result is provably optimal and equal to the DP minimum.
	for _, styles := range [][]voicing.Style{
		{voicing.StyleClosed},
		{voicing.StyleRootlessA, voicing.StyleRootlessB},
		{voicing.StyleClosed, voicing.StyleDrop2},
	} {
		layers := twoFiveOneLayers(t, styles...)

		dpRes, err := DP(context.Background(), layers, Config{})
		require.NoError(t, err)
		cspRes, err := CSP(context.Background(), layers, Config{})
		require.NoError(t, err)

		assert.True(t, cspRes.Optimal, "styles %v: search should exhaust", styles)
		assert.InDelta(t, dpRes.TotalCost, cspRes.TotalCost, 1e-9, "styles %v", styles)
	}
}

func TestCSPNeverBeatsDP(t *testing.T) {
	layers := twoFiveOneLayers(t, voicing.StyleClosed, voicing.StyleDrop2)
	dpRes, err := DP(context.Background(), layers, Config{})
	require.NoError(t, err)

	// Even under a tight budget, any sequence CSP returns costs at least the
	// DP minimum.
	cfg := Config{NodeBudget: 50}
	cspRes, err := CSP(context.Background(), layers, cfg)
	if err != nil {
		assert.ErrorIs(t, err, ErrBudgetExceeded)
		return
	}
	assert.GreaterOrEqual(t, cspRes.TotalCost, dpRes.TotalCost-1e-9)
}

func TestCSPBudgetExhaustedWithoutSolution(t *testing.T) {
	// A budget of 1 expands a single first-position node, never completing a
	// two-position assignment.
	layers := [][]voicing.Voicing{
		{vc(60, 64, 67), vc(55, 60, 64)},
		{vc(59, 62, 67)},
	}
	_, err := CSP(context.Background(), layers, Config{NodeBudget: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBudgetExceeded)

	var budget *BudgetExceededError
	require.True(t, errors.As(err, &budget))
	assert.Equal(t, 1, budget.Budget)
	assert.Equal(t, 1, budget.NodesExpanded)
}

func TestCSPInfeasibleAgreesWithDP(t *testing.T) {
	layers := [][]voicing.Voicing{
		{vc(60, 64, 67)},
		{vc(72, 76, 79)},
	}
	cfg := Config{Constraints: Constraints{MaxLeap: 3}}

	_, dpErr := DP(context.Background(), layers, cfg)
	_, cspErr := CSP(context.Background(), layers, cfg)
	assert.ErrorIs(t, dpErr, ErrInfeasible)
	assert.ErrorIs(t, cspErr, ErrInfeasible)
}

func TestCSPAnchor(t *testing.T) {
	layers := [][]voicing.Voicing{
		{vc(60, 64, 67), vc(59, 62, 67)},
	}
	cfg := Config{Anchor: []int{59, 62, 67}}
	res, err := CSP(context.Background(), layers, cfg)
	require.NoError(t, err)
	assert.Zero(t, res.TotalCost)
	assert.Equal(t, []int{59, 62, 67}, res.Voicings[0].Pitches)
}

func TestCSPEmptyProgression(t *testing.T) {
	_, err := CSP(context.Background(), nil, Config{})
	assert.ErrorIs(t, err, ErrEmptyProgression)
}

func TestCSPCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	layers := twoFiveOneLayers(t, voicing.StyleClosed)
	_, err := CSP(ctx, layers, Config{})
	assert.ErrorIs(t, err, context.Canceled)
}
