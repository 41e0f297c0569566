package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yongchuan/taxgo/internal/domain"
	"github.com/yongchuan/taxgo/internal/rules"
)

// GiftEstimator computes gift tax estimations against the rule store.
type GiftEstimator struct {
	Store  *rules.Store
	Logger Logger
}

// NewGiftEstimator creates a gift estimator.
func NewGiftEstimator(store *rules.Store) *GiftEstimator {
	return &GiftEstimator{Store: store, Logger: NopLogger{}}
}

// Estimate applies the annual per-donor exclusion (doubled when spousal
// splitting is both requested and allowed by the version) and the per-minor
// exclusion, then delegates to the bracket evaluator.
func (g *GiftEstimator) Estimate(input domain.GiftInput, asOf time.Time) (*domain.EstimationResult, error) {
	version, err := g.Store.Resolve(domain.TaxTypeGift, asOf)
	if err != nil {
		return nil, err
	}

	in := input.Sanitized()

	var ex domain.GiftExemptions
	if version.Exemptions != nil {
		ex = *version.Exemptions
	}

	annual := ex.AnnualExclusionPerDonor
	if in.SpouseSplit && ex.SpouseSplitAllowed {
		annual = annual.Mul(decimal.NewFromInt(2))
	}
	minor := ex.MinorChildExclusion.Mul(decimal.NewFromInt(int64(in.MinorChildren)))

	breakdown := domain.DeductionBreakdown{
		AnnualExclusion:    annual,
		MinorChildExcluded: minor,
	}

	taxableBase := in.GiftsAmount.Sub(annual).Sub(minor)
	if taxableBase.IsNegative() {
		taxableBase = decimal.Zero
	}

	outcome := ApplyRateModel(taxableBase, version.RateModel)
	g.Logger.Debugf("gift estimate: version=%s taxable=%s tax=%s bracket=%d",
		version.Version, taxableBase, outcome.Tax, outcome.BracketIndex)

	return &domain.EstimationResult{
		TaxType:   domain.TaxTypeGift,
		Version:   version,
		Currency:  version.Currency,
		GiftInput: &in,
		Computed: domain.Computed{
			Deductions:   breakdown,
			TaxableBase:  taxableBase,
			RateApplied:  outcome.Rate,
			BracketIndex: outcome.BracketIndex,
			TaxDue:       outcome.Tax,
		},
	}, nil
}
