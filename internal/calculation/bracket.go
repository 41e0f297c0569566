package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/yongchuan/taxgo/internal/domain"
)

// BracketOutcome is the result of evaluating a rate model against a taxable
// base. BracketIndex is -1 when a flat rate applied.
type BracketOutcome struct {
	Tax          decimal.Decimal
	Rate         decimal.Decimal
	BracketIndex int
}

// ApplyRateModel computes the tax for a taxable base.
//
// A positive flat rate short-circuits the bracket walk. Otherwise the first
// bracket whose up_to is unbounded or >= the base applies:
// tax = base*rate - quick_deduction, clamped at zero. A base above every
// bounded tier degrades to the last bracket instead of erroring; that guards
// against configured tables missing their unbounded tier.
//
// The returned tax is rounded half-up to the nearest whole currency unit;
// nothing before this point is rounded.
func ApplyRateModel(taxableBase decimal.Decimal, model domain.RateModel) BracketOutcome {
	if taxableBase.IsNegative() {
		taxableBase = decimal.Zero
	}

	if model.FlatRate.IsPositive() {
		return BracketOutcome{
			Tax:          roundCurrency(taxableBase.Mul(model.FlatRate)),
			Rate:         model.FlatRate,
			BracketIndex: -1,
		}
	}

	if len(model.Brackets) == 0 {
		return BracketOutcome{Tax: decimal.Zero, Rate: decimal.Zero, BracketIndex: -1}
	}

	idx := len(model.Brackets) - 1
	for i, b := range model.Brackets {
		if b.UpTo == nil || b.UpTo.GreaterThanOrEqual(taxableBase) {
			idx = i
			break
		}
	}

	b := model.Brackets[idx]
	tax := taxableBase.Mul(b.Rate).Sub(b.QuickDeduction)
	if tax.IsNegative() {
		tax = decimal.Zero
	}

	return BracketOutcome{
		Tax:          roundCurrency(tax),
		Rate:         b.Rate,
		BracketIndex: idx,
	}
}

// roundCurrency rounds to the currency's smallest unit, half up.
func roundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}
