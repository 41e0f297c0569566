package rules

import (
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/yongchuan/taxgo/internal/domain"
)

// Store holds every rule-set version per tax type. It is loaded once at
// startup and read-only afterwards; hot reload would be an atomic pointer
// swap of a fresh Store, never in-place mutation.
type Store struct {
	Estate []domain.RuleSetVersion `yaml:"estate"`
	Gift   []domain.RuleSetVersion `yaml:"gift"`
}

// ConfigurationError signals a tax type with no rule-set versions at all.
// This is a startup-class failure, not a per-request one.
type ConfigurationError struct {
	TaxType domain.TaxType
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no rule-set versions configured for tax type %q", e.TaxType)
}

// LoadFromFile reads a YAML rule file and validates it eagerly. Malformed
// bracket tables are rejected here rather than failing silently at
// evaluation time.
func LoadFromFile(filename string) (*Store, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, eris.Wrapf(err, "read rule file %s", filename)
	}

	var store Store
	if err := yaml.Unmarshal(data, &store); err != nil {
		return nil, eris.Wrap(err, "parse rule file YAML")
	}

	if err := store.Validate(); err != nil {
		return nil, eris.Wrap(err, "rule file validation")
	}

	return &store, nil
}

// Versions returns the stored versions for a tax type in stored order.
func (s *Store) Versions(taxType domain.TaxType) []domain.RuleSetVersion {
	switch taxType {
	case domain.TaxTypeGift:
		return s.Gift
	default:
		return s.Estate
	}
}

// Resolve selects the single active version for a tax type at asOf: the
// first version whose effective range contains the date. When no range
// matches, the first stored version is returned as a deterministic
// best-available fallback; callers inspect is_demo/effective_to for
// staleness. The only error is ConfigurationError for an empty tax type.
func (s *Store) Resolve(taxType domain.TaxType, asOf time.Time) (*domain.RuleSetVersion, error) {
	versions := s.Versions(taxType)
	if len(versions) == 0 {
		return nil, &ConfigurationError{TaxType: taxType}
	}

	for i := range versions {
		if versions[i].ContainsDate(asOf) {
			return &versions[i], nil
		}
	}

	return &versions[0], nil
}

// Validate checks every version's rate model: a model needs a positive flat
// rate or at least one bracket; brackets must ascend by up_to with the
// unbounded tier last; rates must be fractions in [0,1].
func (s *Store) Validate() error {
	for _, set := range []struct {
		taxType  domain.TaxType
		versions []domain.RuleSetVersion
	}{
		{domain.TaxTypeEstate, s.Estate},
		{domain.TaxTypeGift, s.Gift},
	} {
		for i, v := range set.versions {
			if err := validateRateModel(v.RateModel); err != nil {
				return fmt.Errorf("%s version %d (%s): %w", set.taxType, i, v.Version, err)
			}
		}
	}
	return nil
}

func validateRateModel(m domain.RateModel) error {
	if m.FlatRate.IsNegative() || m.FlatRate.GreaterThan(one) {
		return fmt.Errorf("flat_rate %s outside [0,1]", m.FlatRate)
	}
	if m.FlatRate.IsPositive() {
		return nil
	}
	if len(m.Brackets) == 0 {
		return fmt.Errorf("rate model has neither flat_rate nor brackets")
	}

	for i, b := range m.Brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return fmt.Errorf("bracket %d rate %s outside [0,1]", i, b.Rate)
		}
		if b.UpTo == nil {
			if i != len(m.Brackets)-1 {
				return fmt.Errorf("bracket %d is unbounded but not last", i)
			}
			continue
		}
		if i > 0 && m.Brackets[i-1].UpTo != nil && !b.UpTo.GreaterThan(*m.Brackets[i-1].UpTo) {
			return fmt.Errorf("bracket %d up_to %s does not ascend", i, b.UpTo)
		}
	}
	return nil
}
