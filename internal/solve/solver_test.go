package solve

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yongchuan/taxgo/internal/calculation"
	"github.com/yongchuan/taxgo/internal/compare"
	"github.com/yongchuan/taxgo/internal/rules"
)

var asOf2025 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func newTestSolver() *Solver {
	store := rules.DefaultStore()
	return NewSolver(compare.NewComparator(calculation.NewEngine(store), store))
}

func TestSolveFindsFirstSufficientHorizon(t *testing.T) {
	// Deductions: 12,000,000 + 5,530,000 + 1,120,000 + 1,380,000 funeral
	// = 20,030,000. Gifting 4,880,000/yr needs 9 years to empty the
	// remaining 39,970,000 of taxable estate.
	result, err := newTestSolver().Solve(context.Background(), Request{
		GrossEstate:   decimal.NewFromInt(60_000_000),
		NumChildren:   2,
		IncludeSpouse: true,
		Recipients:    2,
		AsOf:          asOf2025,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 9, result.Years)
	assert.True(t, result.Comparison.GiftingPlan.Computed.TaxDue.IsZero())
}

func TestSolveZeroYearsWhenAlreadyAtTarget(t *testing.T) {
	result, err := newTestSolver().Solve(context.Background(), Request{
		GrossEstate: decimal.NewFromInt(10_000_000), // under the basic exemption
		Recipients:  1,
		AsOf:        asOf2025,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Years)
	assert.Equal(t, 1, result.Evaluated)
}

func TestSolveStopsWhenCapBinds(t *testing.T) {
	// One recipient cannot move a large estate within the bound, but once
	// the gift-free cap equals the estate the search is done either way.
	result, err := newTestSolver().Solve(context.Background(), Request{
		GrossEstate: decimal.NewFromInt(20_000_000),
		Recipients:  1,
		MaxYears:    40,
		AsOf:        asOf2025,
	})
	require.NoError(t, err)
	assert.True(t, result.Success || result.Comparison.CappedByEstate)
}

func TestSolveUnreachableTarget(t *testing.T) {
	result, err := newTestSolver().Solve(context.Background(), Request{
		GrossEstate: decimal.NewFromInt(1_000_000_000),
		Recipients:  1,
		MaxYears:    3,
		AsOf:        asOf2025,
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 4, result.Evaluated)
	assert.Contains(t, result.ConvergenceInfo, "Max horizon")
}

func TestSolveRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestSolver().Solve(ctx, Request{
		GrossEstate: decimal.NewFromInt(100_000_000),
		Recipients:  1,
		AsOf:        asOf2025,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolveNegativeTargetTreatedAsZero(t *testing.T) {
	result, err := newTestSolver().Solve(context.Background(), Request{
		GrossEstate: decimal.NewFromInt(10_000_000),
		Recipients:  1,
		TargetTax:   decimal.NewFromInt(-500),
		AsOf:        asOf2025,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestSolveErrorWrapsCause(t *testing.T) {
	// An empty store fails at the first comparison; the typed error keeps
	// the operation and the cause.
	store := &rules.Store{}
	solver := NewSolver(compare.NewComparator(calculation.NewEngine(store), store))

	_, err := solver.Solve(context.Background(), Request{
		GrossEstate: decimal.NewFromInt(1),
		AsOf:        asOf2025,
	})
	require.Error(t, err)

	var solveErr *SolveError
	require.ErrorAs(t, err, &solveErr)
	assert.Equal(t, "solve_gifting_horizon", solveErr.Operation)

	var cfgErr *rules.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}
