package domain

import "github.com/shopspring/decimal"

// EstateInput carries the raw financial facts for an estate estimation.
// Inputs are advisory: negative amounts and counts are coerced to zero
// rather than rejected.
type EstateInput struct {
	GrossEstate         decimal.Decimal `json:"gross_estate"`
	Debts               decimal.Decimal `json:"debts"`
	FuneralExpense      decimal.Decimal `json:"funeral_expense"`
	LifeInsurancePayout decimal.Decimal `json:"life_insurance_payout"`

	SpouseCount       int `json:"spouse_count"`
	LinealDescendants int `json:"lineal_descendants"`
	LinealAscendants  int `json:"lineal_ascendants"`
	DisabledCount     int `json:"disabled_count"`
	OtherDependents   int `json:"other_dependents"`
}

// Sanitized returns a copy with all negative amounts and counts coerced to
// zero.
func (in EstateInput) Sanitized() EstateInput {
	out := in
	out.GrossEstate = nonNegative(in.GrossEstate)
	out.Debts = nonNegative(in.Debts)
	out.FuneralExpense = nonNegative(in.FuneralExpense)
	out.LifeInsurancePayout = nonNegative(in.LifeInsurancePayout)
	out.SpouseCount = nonNegativeInt(in.SpouseCount)
	out.LinealDescendants = nonNegativeInt(in.LinealDescendants)
	out.LinealAscendants = nonNegativeInt(in.LinealAscendants)
	out.DisabledCount = nonNegativeInt(in.DisabledCount)
	out.OtherDependents = nonNegativeInt(in.OtherDependents)
	return out
}

// GiftInput carries the raw facts for a gift estimation.
type GiftInput struct {
	GiftsAmount   decimal.Decimal `json:"gifts_amount"`
	SpouseSplit   bool            `json:"spouse_split"`
	MinorChildren int             `json:"minor_children"`
}

// Sanitized returns a copy with negative values coerced to zero.
func (in GiftInput) Sanitized() GiftInput {
	out := in
	out.GiftsAmount = nonNegative(in.GiftsAmount)
	out.MinorChildren = nonNegativeInt(in.MinorChildren)
	return out
}

// DeductionBreakdown itemizes the allowed deduction/exclusion amounts that
// produced the taxable base. Estate and gift estimations populate different
// subsets.
type DeductionBreakdown struct {
	BasicExemption     decimal.Decimal `json:"basic_exemption,omitempty"`
	Spouse             decimal.Decimal `json:"spouse,omitempty"`
	LinealDescendants  decimal.Decimal `json:"lineal_descendants,omitempty"`
	LinealAscendants   decimal.Decimal `json:"lineal_ascendants,omitempty"`
	Disabled           decimal.Decimal `json:"disabled,omitempty"`
	OtherDependents    decimal.Decimal `json:"other_dependents,omitempty"`
	FuneralAllowed     decimal.Decimal `json:"funeral_allowed,omitempty"`
	LifeInsuranceFree  decimal.Decimal `json:"life_insurance_free,omitempty"`
	DebtsAllowed       decimal.Decimal `json:"debts_allowed,omitempty"`
	AnnualExclusion    decimal.Decimal `json:"annual_exclusion,omitempty"`
	MinorChildExcluded decimal.Decimal `json:"minor_child_excluded,omitempty"`
}

// Total sums every itemized amount.
func (d DeductionBreakdown) Total() decimal.Decimal {
	return d.BasicExemption.
		Add(d.Spouse).
		Add(d.LinealDescendants).
		Add(d.LinealAscendants).
		Add(d.Disabled).
		Add(d.OtherDependents).
		Add(d.FuneralAllowed).
		Add(d.LifeInsuranceFree).
		Add(d.DebtsAllowed).
		Add(d.AnnualExclusion).
		Add(d.MinorChildExcluded)
}

// Computed is the derived block of an estimation: taxable base, the rate
// tier that applied, and the final rounded tax. TaxableBase and TaxDue are
// never negative; BracketIndex is -1 when a flat rate applied.
type Computed struct {
	Deductions   DeductionBreakdown `json:"deductions"`
	TaxableBase  decimal.Decimal    `json:"taxable_base"`
	RateApplied  decimal.Decimal    `json:"rate_applied"`
	BracketIndex int                `json:"bracket_index"`
	TaxDue       decimal.Decimal    `json:"tax_due"`
}

// EstimationResult packages one estate or gift estimation together with the
// rule-set version it ran against and the (sanitized) inputs it used.
type EstimationResult struct {
	TaxType  TaxType         `json:"tax_type"`
	Version  *RuleSetVersion `json:"version"`
	Currency string          `json:"currency"`

	EstateInput *EstateInput `json:"estate_input,omitempty"`
	GiftInput   *GiftInput   `json:"gift_input,omitempty"`

	Computed Computed `json:"computed"`
}

// ScenarioComparison holds the three strategies evaluated side by side.
// TotalGiftFree is capped at the gross estate under test; CappedByEstate
// records whether the cap bound.
type ScenarioComparison struct {
	Baseline    *EstimationResult `json:"baseline"`
	GiftingPlan *EstimationResult `json:"gifting_plan"`
	ComboPlan   *EstimationResult `json:"combo_plan"`

	TotalGiftFree  decimal.Decimal `json:"total_gift_free"`
	CappedByEstate bool            `json:"capped_by_estate"`
}

// FactSheet is a rule-set version rendered for humans, used to ground
// downstream narrative text. IsDemo and IsExpired must be surfaced
// prominently by any consumer when true.
type FactSheet struct {
	TaxType   TaxType  `json:"tax_type"`
	Lines     []string `json:"lines"`
	Sources   []Source `json:"sources"`
	IsDemo    bool     `json:"is_demo"`
	IsExpired bool     `json:"is_expired"`
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func nonNegativeInt(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
