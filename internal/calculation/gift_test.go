package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yongchuan/taxgo/internal/domain"
	"github.com/yongchuan/taxgo/internal/rules"
)

func TestGiftEstimateAnnualExclusion(t *testing.T) {
	est := NewGiftEstimator(rules.DefaultStore())

	result, err := est.Estimate(domain.GiftInput{
		GiftsAmount: decimal.NewFromInt(5_000_000),
	}, asOf2025)
	require.NoError(t, err)

	// 5,000,000 - 2,440,000 = 2,560,000 taxable at 10%
	assert.True(t, result.Computed.TaxableBase.Equal(decimal.NewFromInt(2_560_000)))
	assert.True(t, result.Computed.TaxDue.Equal(decimal.NewFromInt(256_000)))
	assert.Equal(t, 0, result.Computed.BracketIndex)
}

func TestGiftEstimateSpouseSplitDoublesExclusion(t *testing.T) {
	est := NewGiftEstimator(rules.DefaultStore())

	result, err := est.Estimate(domain.GiftInput{
		GiftsAmount: decimal.NewFromInt(5_000_000),
		SpouseSplit: true,
	}, asOf2025)
	require.NoError(t, err)

	assert.True(t, result.Computed.Deductions.AnnualExclusion.Equal(decimal.NewFromInt(4_880_000)))
	assert.True(t, result.Computed.TaxableBase.Equal(decimal.NewFromInt(120_000)))
	assert.True(t, result.Computed.TaxDue.Equal(decimal.NewFromInt(12_000)))
}

func TestGiftEstimateSpouseSplitIgnoredWhenDisallowed(t *testing.T) {
	store := rules.DefaultStore()
	store.Gift[0].Exemptions.SpouseSplitAllowed = false
	est := NewGiftEstimator(store)

	result, err := est.Estimate(domain.GiftInput{
		GiftsAmount: decimal.NewFromInt(5_000_000),
		SpouseSplit: true,
	}, asOf2025)
	require.NoError(t, err)

	assert.True(t, result.Computed.Deductions.AnnualExclusion.Equal(decimal.NewFromInt(2_440_000)))
}

func TestGiftEstimateUnderExclusionIsFree(t *testing.T) {
	est := NewGiftEstimator(rules.DefaultStore())

	result, err := est.Estimate(domain.GiftInput{
		GiftsAmount: decimal.NewFromInt(2_000_000),
	}, asOf2025)
	require.NoError(t, err)

	assert.True(t, result.Computed.TaxableBase.IsZero())
	assert.True(t, result.Computed.TaxDue.IsZero())
}

func TestGiftEstimateTopTier(t *testing.T) {
	est := NewGiftEstimator(rules.DefaultStore())

	result, err := est.Estimate(domain.GiftInput{
		GiftsAmount: decimal.NewFromInt(102_440_000),
	}, asOf2025)
	require.NoError(t, err)

	// 100,000,000 taxable: 20% - 3,750,000
	assert.True(t, result.Computed.TaxDue.Equal(decimal.NewFromInt(16_250_000)),
		"tax due: %s", result.Computed.TaxDue)
	assert.Equal(t, 2, result.Computed.BracketIndex)
}

func TestGiftEstimateNegativeAmountCoerced(t *testing.T) {
	est := NewGiftEstimator(rules.DefaultStore())

	result, err := est.Estimate(domain.GiftInput{
		GiftsAmount: decimal.NewFromInt(-1),
	}, asOf2025)
	require.NoError(t, err)

	assert.True(t, result.Computed.TaxDue.IsZero())
	assert.True(t, result.GiftInput.GiftsAmount.IsZero())
}
