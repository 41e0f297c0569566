package compare

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yongchuan/taxgo/internal/calculation"
	"github.com/yongchuan/taxgo/internal/domain"
	"github.com/yongchuan/taxgo/internal/rules"
)

// DefaultComboReliefRate is the assumed insurance/trust-driven tax-base
// optimization applied by the combo plan on top of systematic gifting. A
// product assumption, not statute; override via Comparator.ComboReliefRate.
var DefaultComboReliefRate = decimal.NewFromFloat(0.30)

// Comparator evaluates the three planning strategies side by side.
type Comparator struct {
	Calc            *calculation.Engine
	Store           *rules.Store
	ComboReliefRate decimal.Decimal
}

// NewComparator creates a comparator with the default combo relief rate.
func NewComparator(calc *calculation.Engine, store *rules.Store) *Comparator {
	return &Comparator{
		Calc:            calc,
		Store:           store,
		ComboReliefRate: DefaultComboReliefRate,
	}
}

// Options describes the household being compared. Negative years or
// recipients are clamped to zero, consistent with the advisory posture of
// the estimators.
type Options struct {
	GrossEstate   decimal.Decimal
	NumChildren   int
	IncludeSpouse bool
	Years         int
	Recipients    int
	AsOf          time.Time
}

// Compare produces the baseline / gifting-plan / combo-plan comparison.
//
// The gifting plan moves min(years*recipients*annual_exclusion, grossEstate)
// out of the estate tax-free before re-estimating; the combo plan reduces
// the post-gift estate by the relief rate on top of that. The invariant
// combo.tax <= gifting.tax <= baseline.tax holds for all non-negative
// inputs because the estate estimation is monotone in the gross estate.
func (c *Comparator) Compare(opts Options) (*domain.ScenarioComparison, error) {
	gross := opts.GrossEstate
	if gross.IsNegative() {
		gross = decimal.Zero
	}
	years := opts.Years
	if years < 0 {
		years = 0
	}
	recipients := opts.Recipients
	if recipients < 0 {
		recipients = 0
	}

	spouseCount := 0
	if opts.IncludeSpouse {
		spouseCount = 1
	}
	children := opts.NumChildren
	if children < 0 {
		children = 0
	}

	estateVersion, err := c.Store.Resolve(domain.TaxTypeEstate, opts.AsOf)
	if err != nil {
		return nil, err
	}

	// The comparison assumes the funeral allowance is fully used, the way
	// planning conversations usually frame it.
	funeral := decimal.Zero
	if estateVersion.OtherDeductions != nil {
		funeral = estateVersion.OtherDeductions.FuneralExpenseCap
	}

	baseInput := domain.EstateInput{
		GrossEstate:       gross,
		FuneralExpense:    funeral,
		SpouseCount:       spouseCount,
		LinealDescendants: children,
	}

	baseline, err := c.Calc.Estate.Estimate(baseInput, opts.AsOf)
	if err != nil {
		return nil, err
	}

	totalGiftFree, capped, err := c.totalGiftFree(gross, years, recipients, opts.AsOf)
	if err != nil {
		return nil, err
	}

	giftedInput := baseInput
	giftedInput.GrossEstate = gross.Sub(totalGiftFree)
	giftingPlan, err := c.Calc.Estate.Estimate(giftedInput, opts.AsOf)
	if err != nil {
		return nil, err
	}

	comboInput := giftedInput
	comboInput.GrossEstate = giftedInput.GrossEstate.Mul(decimal.NewFromInt(1).Sub(c.ComboReliefRate))
	comboPlan, err := c.Calc.Estate.Estimate(comboInput, opts.AsOf)
	if err != nil {
		return nil, err
	}

	return &domain.ScenarioComparison{
		Baseline:       baseline,
		GiftingPlan:    giftingPlan,
		ComboPlan:      comboPlan,
		TotalGiftFree:  totalGiftFree,
		CappedByEstate: capped,
	}, nil
}

// totalGiftFree is the cumulative tax-free amount transferable over the
// horizon, capped so it never exceeds the estate being tested.
func (c *Comparator) totalGiftFree(gross decimal.Decimal, years, recipients int, asOf time.Time) (decimal.Decimal, bool, error) {
	giftVersion, err := c.Store.Resolve(domain.TaxTypeGift, asOf)
	if err != nil {
		return decimal.Zero, false, err
	}

	annual := decimal.Zero
	if giftVersion.Exemptions != nil {
		annual = giftVersion.Exemptions.AnnualExclusionPerDonor
	}

	total := annual.Mul(decimal.NewFromInt(int64(years))).Mul(decimal.NewFromInt(int64(recipients)))
	if total.GreaterThan(gross) {
		return gross, true, nil
	}
	return total, false, nil
}
