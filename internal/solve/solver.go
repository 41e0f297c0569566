package solve

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yongchuan/taxgo/internal/compare"
	"github.com/yongchuan/taxgo/internal/domain"
)

// Solver answers "how many years of systematic gifting until the estate tax
// reaches a target". The gifting plan's tax is non-increasing in the number
// of years, so a bounded forward search finds the first horizon that meets
// the target.
type Solver struct {
	Comparator *compare.Comparator
	Options    Options
}

// Options bounds the search.
type Options struct {
	MaxYears int
}

// DefaultOptions caps the horizon at a working lifetime of gifting.
func DefaultOptions() Options {
	return Options{MaxYears: 40}
}

// NewSolver creates a solver with default options.
func NewSolver(comparator *compare.Comparator) *Solver {
	return &Solver{Comparator: comparator, Options: DefaultOptions()}
}

// Request describes the household and the tax target (zero by default).
type Request struct {
	GrossEstate   decimal.Decimal
	NumChildren   int
	IncludeSpouse bool
	Recipients    int
	TargetTax     decimal.Decimal
	MaxYears      int
	AsOf          time.Time
}

// Result is the outcome at the first horizon meeting the target, or the
// best horizon evaluated when the target is unreachable within bounds.
type Result struct {
	Success         bool
	Years           int
	Evaluated       int
	Comparison      *domain.ScenarioComparison
	ConvergenceInfo string
}

// SolveError wraps solver failures with the operation that produced them.
type SolveError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *SolveError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *SolveError) Unwrap() error {
	return e.Cause
}

// Solve runs the horizon search.
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	maxYears := req.MaxYears
	if maxYears <= 0 {
		maxYears = s.Options.MaxYears
	}
	recipients := req.Recipients
	if recipients < 0 {
		recipients = 0
	}
	target := req.TargetTax
	if target.IsNegative() {
		target = decimal.Zero
	}

	var best *Result
	for years := 0; years <= maxYears; years++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		comparison, err := s.Comparator.Compare(compare.Options{
			GrossEstate:   req.GrossEstate,
			NumChildren:   req.NumChildren,
			IncludeSpouse: req.IncludeSpouse,
			Years:         years,
			Recipients:    recipients,
			AsOf:          req.AsOf,
		})
		if err != nil {
			return nil, &SolveError{
				Operation: "solve_gifting_horizon",
				Message:   fmt.Sprintf("comparison failed at %d years", years),
				Cause:     err,
			}
		}

		result := &Result{
			Years:      years,
			Evaluated:  years + 1,
			Comparison: comparison,
		}

		if comparison.GiftingPlan.Computed.TaxDue.LessThanOrEqual(target) {
			result.Success = true
			result.ConvergenceInfo = fmt.Sprintf("Target reached after %d gifting years", years)
			return result, nil
		}

		// Once the cap binds, longer horizons change nothing.
		if comparison.CappedByEstate {
			result.ConvergenceInfo = fmt.Sprintf("Gift-free cap reached at %d years; target unreachable", years)
			return result, nil
		}

		best = result
	}

	if best == nil {
		return nil, &SolveError{
			Operation: "solve_gifting_horizon",
			Message:   "no horizons evaluated",
		}
	}
	best.ConvergenceInfo = fmt.Sprintf("Max horizon (%d years) reached without meeting target", maxYears)
	return best, nil
}
