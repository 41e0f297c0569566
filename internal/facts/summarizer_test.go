package facts

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yongchuan/taxgo/internal/domain"
	"github.com/yongchuan/taxgo/internal/rules"
)

var asOf2025 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestSummarizeEstate(t *testing.T) {
	sheet, err := NewSummarizer(rules.DefaultStore()).Summarize(domain.TaxTypeEstate, asOf2025)
	require.NoError(t, err)

	assert.Equal(t, domain.TaxTypeEstate, sheet.TaxType)
	assert.False(t, sheet.IsDemo)
	assert.False(t, sheet.IsExpired)
	assert.NotEmpty(t, sheet.Sources)

	joined := strings.Join(sheet.Lines, "\n")
	assert.Contains(t, joined, "遺產稅")
	assert.Contains(t, joined, "基本免稅：12,000,000")
	assert.Contains(t, joined, "配偶扣除：5,530,000")
	assert.Contains(t, joined, "喪葬費上限：1,380,000")
	assert.Contains(t, joined, "級距稅率：")
	assert.Contains(t, joined, "速算扣除 2,500,000")
	assert.Contains(t, joined, "以上")
}

func TestSummarizeGift(t *testing.T) {
	sheet, err := NewSummarizer(rules.DefaultStore()).Summarize(domain.TaxTypeGift, asOf2025)
	require.NoError(t, err)

	joined := strings.Join(sheet.Lines, "\n")
	assert.Contains(t, joined, "贈與稅")
	assert.Contains(t, joined, "年度免稅額：2,440,000")
	assert.Contains(t, joined, "夫妻合贈分攤：可")
}

func TestSummarizeExpiredVersionFlagged(t *testing.T) {
	sheet, err := NewSummarizer(rules.DefaultStore()).Summarize(
		domain.TaxTypeEstate, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, sheet.IsExpired)
}

func TestSummarizeFlatRateEra(t *testing.T) {
	sheet, err := NewSummarizer(rules.DefaultStore()).Summarize(
		domain.TaxTypeEstate, time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, sheet.IsDemo)
	joined := strings.Join(sheet.Lines, "\n")
	assert.Contains(t, joined, "單一稅率：10%")
	assert.Contains(t, joined, "（未標註）")
}

func TestSummarizeEmptyStore(t *testing.T) {
	_, err := NewSummarizer(&rules.Store{}).Summarize(domain.TaxTypeEstate, asOf2025)
	require.Error(t, err)

	var cfgErr *rules.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestGroupSeparators(t *testing.T) {
	tests := []struct {
		in       int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12_000_000, "12,000,000"},
		{-5_530_000, "-5,530,000"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, group(decimal.NewFromInt(tt.in)))
	}
}
