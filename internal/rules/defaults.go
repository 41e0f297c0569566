package rules

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yongchuan/taxgo/internal/domain"
)

var one = decimal.NewFromInt(1)

// DefaultStore returns the built-in Taiwan rule data, used when no rule
// file is supplied. Amounts are TWD.
func DefaultStore() *Store {
	return &Store{
		Estate: []domain.RuleSetVersion{
			{
				Version:       "2025",
				EffectiveFrom: datePtr(2025, 1, 1),
				EffectiveTo:   datePtr(2025, 12, 31),
				Currency:      "TWD",
				BasicExemptions: &domain.BasicExemptions{
					Basic:                     decimal.NewFromInt(12_000_000),
					SpouseDeduction:           decimal.NewFromInt(5_530_000),
					LinealDescendantPerPerson: decimal.NewFromInt(560_000),
					LinealAscendantPerPerson:  decimal.NewFromInt(1_380_000),
					LinealAscendantMaxCount:   2,
					DisabledPerPerson:         decimal.NewFromInt(6_930_000),
					OtherDependentPerPerson:   decimal.NewFromInt(560_000),
				},
				OtherDeductions: &domain.OtherDeductions{
					FuneralExpenseCap:      decimal.NewFromInt(1_380_000),
					LifeInsuranceExemptCap: decimal.NewFromInt(3_330_000),
					DebtsAllowable:         true,
				},
				RateModel: domain.RateModel{
					Brackets: []domain.RateBracket{
						{UpTo: amountPtr(50_000_000), Rate: decimal.NewFromFloat(0.10)},
						{UpTo: amountPtr(100_000_000), Rate: decimal.NewFromFloat(0.15), QuickDeduction: decimal.NewFromInt(2_500_000)},
						{UpTo: nil, Rate: decimal.NewFromFloat(0.20), QuickDeduction: decimal.NewFromInt(7_500_000)},
					},
				},
				Sources: []domain.Source{
					{Title: "財政部賦稅署｜遺產稅", URL: "https://www.dot.gov.tw/singlehtml/ch26"},
				},
			},
			{
				// Pre-2017 single-rate era, kept as illustrative history.
				Version:       "2006",
				EffectiveFrom: nil,
				EffectiveTo:   datePtr(2017, 5, 11),
				Currency:      "TWD",
				BasicExemptions: &domain.BasicExemptions{
					Basic: decimal.NewFromInt(12_000_000),
				},
				OtherDeductions: &domain.OtherDeductions{
					FuneralExpenseCap: decimal.NewFromInt(1_230_000),
					DebtsAllowable:    true,
				},
				RateModel: domain.RateModel{
					FlatRate: decimal.NewFromFloat(0.10),
				},
				IsDemo: true,
			},
		},
		Gift: []domain.RuleSetVersion{
			{
				Version:       "2025",
				EffectiveFrom: datePtr(2025, 1, 1),
				EffectiveTo:   datePtr(2025, 12, 31),
				Currency:      "TWD",
				Exemptions: &domain.GiftExemptions{
					AnnualExclusionPerDonor: decimal.NewFromInt(2_440_000),
					SpouseSplitAllowed:      true,
				},
				RateModel: domain.RateModel{
					Brackets: []domain.RateBracket{
						{UpTo: amountPtr(25_000_000), Rate: decimal.NewFromFloat(0.10)},
						{UpTo: amountPtr(50_000_000), Rate: decimal.NewFromFloat(0.15), QuickDeduction: decimal.NewFromInt(1_250_000)},
						{UpTo: nil, Rate: decimal.NewFromFloat(0.20), QuickDeduction: decimal.NewFromInt(3_750_000)},
					},
				},
				Sources: []domain.Source{
					{Title: "財政部賦稅署｜贈與稅", URL: "https://www.dot.gov.tw/singlehtml/ch26"},
				},
			},
		},
	}
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func amountPtr(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}
