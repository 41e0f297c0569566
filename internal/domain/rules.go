package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxType identifies which rule table an estimation runs against.
type TaxType string

const (
	TaxTypeEstate TaxType = "estate"
	TaxTypeGift   TaxType = "gift"
)

// RateBracket is one progressive tier. UpTo is nil for the unbounded top
// tier. QuickDeduction linearizes the piecewise tax function: tax for the
// whole base at this tier's rate minus the precomputed offset.
type RateBracket struct {
	UpTo           *decimal.Decimal `yaml:"up_to" json:"up_to"`
	Rate           decimal.Decimal  `yaml:"rate" json:"rate"`
	QuickDeduction decimal.Decimal  `yaml:"quick_deduction,omitempty" json:"quick_deduction,omitempty"`
}

// RateModel is either a flat rate or an ordered bracket table. A positive
// FlatRate takes precedence over Brackets.
type RateModel struct {
	FlatRate decimal.Decimal `yaml:"flat_rate,omitempty" json:"flat_rate,omitempty"`
	Brackets []RateBracket   `yaml:"brackets,omitempty" json:"brackets,omitempty"`
}

// BasicExemptions holds the estate-tax per-capita and flat deductions.
// Zero values mean the category does not exist in this rule-set version;
// estimators treat them as contributing nothing.
type BasicExemptions struct {
	Basic                     decimal.Decimal `yaml:"basic" json:"basic"`
	SpouseDeduction           decimal.Decimal `yaml:"spouse_deduction" json:"spouse_deduction"`
	LinealDescendantPerPerson decimal.Decimal `yaml:"lineal_descendant_per_person" json:"lineal_descendant_per_person"`
	LinealAscendantPerPerson  decimal.Decimal `yaml:"lineal_ascendant_per_person" json:"lineal_ascendant_per_person"`
	LinealAscendantMaxCount   int             `yaml:"lineal_ascendant_max_count" json:"lineal_ascendant_max_count"`
	DisabledPerPerson         decimal.Decimal `yaml:"disabled_per_person" json:"disabled_per_person"`
	OtherDependentPerPerson   decimal.Decimal `yaml:"other_dependent_per_person" json:"other_dependent_per_person"`
}

// OtherDeductions holds the capped estate allowances.
type OtherDeductions struct {
	FuneralExpenseCap      decimal.Decimal `yaml:"funeral_expense_cap" json:"funeral_expense_cap"`
	LifeInsuranceExemptCap decimal.Decimal `yaml:"life_insurance_exempt_cap" json:"life_insurance_exempt_cap"`
	DebtsAllowable         bool            `yaml:"debts_allowable" json:"debts_allowable"`
}

// GiftExemptions holds the gift-tax exclusions.
type GiftExemptions struct {
	AnnualExclusionPerDonor decimal.Decimal `yaml:"annual_exclusion_per_donor" json:"annual_exclusion_per_donor"`
	SpouseSplitAllowed      bool            `yaml:"spouse_split_allowed" json:"spouse_split_allowed"`
	MinorChildExclusion     decimal.Decimal `yaml:"minor_child_exclusion" json:"minor_child_exclusion"`
}

// Source is provenance metadata for display; never used in computation.
type Source struct {
	Title string `yaml:"title" json:"title"`
	URL   string `yaml:"url" json:"url"`
}

// RuleSetVersion is one date-bounded snapshot of exemption, deduction and
// rate parameters for a single tax type. Value object: never mutated after
// load.
type RuleSetVersion struct {
	Version       string     `yaml:"version" json:"version"`
	EffectiveFrom *time.Time `yaml:"effective_from" json:"effective_from"`
	EffectiveTo   *time.Time `yaml:"effective_to" json:"effective_to"`
	Currency      string     `yaml:"currency" json:"currency"`

	BasicExemptions *BasicExemptions `yaml:"basic_exemptions,omitempty" json:"basic_exemptions,omitempty"`
	OtherDeductions *OtherDeductions `yaml:"other_deductions,omitempty" json:"other_deductions,omitempty"`
	Exemptions      *GiftExemptions  `yaml:"exemptions,omitempty" json:"exemptions,omitempty"`

	RateModel RateModel `yaml:"rate_model" json:"rate_model"`

	IsDemo  bool     `yaml:"is_demo" json:"is_demo"`
	Sources []Source `yaml:"sources,omitempty" json:"sources,omitempty"`
}

// ContainsDate reports whether d falls inside the inclusive effective range.
// A nil bound is open-ended.
func (v *RuleSetVersion) ContainsDate(d time.Time) bool {
	day := d.Truncate(24 * time.Hour)
	if v.EffectiveFrom != nil && day.Before(v.EffectiveFrom.Truncate(24*time.Hour)) {
		return false
	}
	if v.EffectiveTo != nil && day.After(v.EffectiveTo.Truncate(24*time.Hour)) {
		return false
	}
	return true
}

// IsExpired reports whether asOf is past the version's effective_to bound.
func (v *RuleSetVersion) IsExpired(asOf time.Time) bool {
	return v.EffectiveTo != nil && asOf.Truncate(24*time.Hour).After(v.EffectiveTo.Truncate(24*time.Hour))
}
