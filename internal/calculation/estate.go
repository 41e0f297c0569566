package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yongchuan/taxgo/internal/domain"
	"github.com/yongchuan/taxgo/internal/rules"
)

// EstateEstimator computes estate tax estimations against the rule store.
type EstateEstimator struct {
	Store  *rules.Store
	Logger Logger
}

// NewEstateEstimator creates an estate estimator.
func NewEstateEstimator(store *rules.Store) *EstateEstimator {
	return &EstateEstimator{Store: store, Logger: NopLogger{}}
}

// Estimate resolves the active estate rule-set version for asOf, applies the
// family-composition deductions and capped allowances, and delegates to the
// bracket evaluator. Inputs are sanitized, never rejected; the only error is
// rules.ConfigurationError for an empty store.
func (e *EstateEstimator) Estimate(input domain.EstateInput, asOf time.Time) (*domain.EstimationResult, error) {
	version, err := e.Store.Resolve(domain.TaxTypeEstate, asOf)
	if err != nil {
		return nil, err
	}

	in := input.Sanitized()

	var b domain.BasicExemptions
	if version.BasicExemptions != nil {
		b = *version.BasicExemptions
	}
	var o domain.OtherDeductions
	if version.OtherDeductions != nil {
		o = *version.OtherDeductions
	}

	ascendants := in.LinealAscendants
	if b.LinealAscendantMaxCount > 0 && ascendants > b.LinealAscendantMaxCount {
		ascendants = b.LinealAscendantMaxCount
	}

	breakdown := domain.DeductionBreakdown{
		BasicExemption:    b.Basic,
		Spouse:            b.SpouseDeduction.Mul(decimal.NewFromInt(int64(in.SpouseCount))),
		LinealDescendants: b.LinealDescendantPerPerson.Mul(decimal.NewFromInt(int64(in.LinealDescendants))),
		LinealAscendants:  b.LinealAscendantPerPerson.Mul(decimal.NewFromInt(int64(ascendants))),
		Disabled:          b.DisabledPerPerson.Mul(decimal.NewFromInt(int64(in.DisabledCount))),
		OtherDependents:   b.OtherDependentPerPerson.Mul(decimal.NewFromInt(int64(in.OtherDependents))),
		FuneralAllowed:    decimal.Min(in.FuneralExpense, o.FuneralExpenseCap),
		LifeInsuranceFree: decimal.Min(in.LifeInsurancePayout, o.LifeInsuranceExemptCap),
	}
	if o.DebtsAllowable {
		breakdown.DebtsAllowed = in.Debts
	}

	taxableBase := in.GrossEstate.Sub(breakdown.Total())
	if taxableBase.IsNegative() {
		taxableBase = decimal.Zero
	}

	outcome := ApplyRateModel(taxableBase, version.RateModel)
	e.Logger.Debugf("estate estimate: version=%s taxable=%s tax=%s bracket=%d",
		version.Version, taxableBase, outcome.Tax, outcome.BracketIndex)

	return &domain.EstimationResult{
		TaxType:     domain.TaxTypeEstate,
		Version:     version,
		Currency:    version.Currency,
		EstateInput: &in,
		Computed: domain.Computed{
			Deductions:   breakdown,
			TaxableBase:  taxableBase,
			RateApplied:  outcome.Rate,
			BracketIndex: outcome.BracketIndex,
			TaxDue:       outcome.Tax,
		},
	}, nil
}
