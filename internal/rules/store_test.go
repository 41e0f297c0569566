package rules

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yongchuan/taxgo/internal/domain"
)

func TestResolvePicksVersionContainingDate(t *testing.T) {
	store := DefaultStore()

	tests := []struct {
		name            string
		taxType         domain.TaxType
		asOf            time.Time
		expectedVersion string
	}{
		{"estate mid-2025", domain.TaxTypeEstate, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "2025"},
		{"estate effective_from boundary", domain.TaxTypeEstate, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "2025"},
		{"estate effective_to boundary", domain.TaxTypeEstate, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), "2025"},
		{"estate flat-rate era", domain.TaxTypeEstate, time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC), "2006"},
		{"gift mid-2025", domain.TaxTypeGift, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := store.Resolve(tt.taxType, tt.asOf)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedVersion, v.Version)
		})
	}
}

func TestResolveFallsBackToFirstVersion(t *testing.T) {
	store := DefaultStore()

	// Nothing covers 2030; the first stored version is the deterministic
	// fallback and its expiry is visible to the caller.
	v, err := store.Resolve(domain.TaxTypeEstate, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2025", v.Version)
	assert.True(t, v.IsExpired(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestResolveEmptyTaxTypeFails(t *testing.T) {
	store := &Store{Estate: DefaultStore().Estate}

	_, err := store.Resolve(domain.TaxTypeGift, time.Now())
	require.Error(t, err)

	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, domain.TaxTypeGift, cfgErr.TaxType)
}

func TestValidateRejectsMalformedModels(t *testing.T) {
	upTo := func(n int64) *decimal.Decimal {
		d := decimal.NewFromInt(n)
		return &d
	}

	tests := []struct {
		name  string
		model domain.RateModel
	}{
		{
			"neither flat nor brackets",
			domain.RateModel{},
		},
		{
			"flat rate above one",
			domain.RateModel{FlatRate: decimal.NewFromFloat(1.5)},
		},
		{
			"bracket rate above one",
			domain.RateModel{Brackets: []domain.RateBracket{
				{UpTo: nil, Rate: decimal.NewFromFloat(1.1)},
			}},
		},
		{
			"unbounded bracket not last",
			domain.RateModel{Brackets: []domain.RateBracket{
				{UpTo: nil, Rate: decimal.NewFromFloat(0.1)},
				{UpTo: upTo(100), Rate: decimal.NewFromFloat(0.2)},
			}},
		},
		{
			"bounds not ascending",
			domain.RateModel{Brackets: []domain.RateBracket{
				{UpTo: upTo(100), Rate: decimal.NewFromFloat(0.1)},
				{UpTo: upTo(50), Rate: decimal.NewFromFloat(0.2)},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &Store{
				Estate: []domain.RuleSetVersion{{Version: "bad", RateModel: tt.model}},
			}
			assert.Error(t, store.Validate())
		})
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, DefaultStore().Validate())
}

func TestLoadFromFile(t *testing.T) {
	content := `
estate:
  - version: "2025"
    effective_from: 2025-01-01T00:00:00Z
    effective_to: 2025-12-31T00:00:00Z
    currency: TWD
    basic_exemptions:
      basic: 12000000
    rate_model:
      brackets:
        - up_to: 50000000
          rate: "0.10"
        - rate: "0.20"
          quick_deduction: 7500000
gift:
  - version: "2025"
    currency: TWD
    exemptions:
      annual_exclusion_per_donor: 2440000
      spouse_split_allowed: true
    rate_model:
      flat_rate: "0.10"
`
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	store, err := LoadFromFile(path)
	require.NoError(t, err)

	v, err := store.Resolve(domain.TaxTypeEstate, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2025", v.Version)
	require.Len(t, v.RateModel.Brackets, 2)
	assert.Nil(t, v.RateModel.Brackets[1].UpTo)

	g, err := store.Resolve(domain.TaxTypeGift, time.Now())
	require.NoError(t, err)
	assert.True(t, g.Exemptions.SpouseSplitAllowed)
}

func TestLoadFromFileRejectsInvalid(t *testing.T) {
	content := `
estate:
  - version: "bad"
    rate_model: {}
`
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestContainsDateBounds(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	v := domain.RuleSetVersion{EffectiveFrom: &from, EffectiveTo: &to}

	assert.True(t, v.ContainsDate(from))
	assert.True(t, v.ContainsDate(to))
	assert.False(t, v.ContainsDate(from.AddDate(0, 0, -1)))
	assert.False(t, v.ContainsDate(to.AddDate(0, 0, 1)))
}
