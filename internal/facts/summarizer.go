package facts

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yongchuan/taxgo/internal/domain"
	"github.com/yongchuan/taxgo/internal/rules"
)

// Summarizer renders a resolved rule-set version into a human-readable fact
// sheet. The lines are used verbatim as grounding context for narrative
// generation, so the demo/expired flags carried alongside them are a trust
// requirement, not cosmetics.
type Summarizer struct {
	Store *rules.Store
}

// NewSummarizer creates a summarizer over a rule store.
func NewSummarizer(store *rules.Store) *Summarizer {
	return &Summarizer{Store: store}
}

// Summarize resolves the active version for taxType at asOf and renders it.
func (s *Summarizer) Summarize(taxType domain.TaxType, asOf time.Time) (*domain.FactSheet, error) {
	version, err := s.Store.Resolve(taxType, asOf)
	if err != nil {
		return nil, err
	}

	var lines []string
	switch taxType {
	case domain.TaxTypeGift:
		lines = giftLines(version)
	default:
		lines = estateLines(version)
	}
	lines = append(lines, rateLines(version.RateModel)...)

	return &domain.FactSheet{
		TaxType:   taxType,
		Lines:     lines,
		Sources:   version.Sources,
		IsDemo:    version.IsDemo,
		IsExpired: version.IsExpired(asOf),
	}, nil
}

func estateLines(v *domain.RuleSetVersion) []string {
	lines := []string{
		fmt.Sprintf("稅制：台灣｜遺產稅（幣別：%s）", currencyOf(v)),
		fmt.Sprintf("適用期間：%s ～ %s", dateLabel(v.EffectiveFrom), dateLabel(v.EffectiveTo)),
		"免稅/扣除摘要：",
	}

	if b := v.BasicExemptions; b != nil {
		if b.Basic.IsPositive() {
			lines = append(lines, fmt.Sprintf("- 基本免稅：%s", group(b.Basic)))
		}
		if b.SpouseDeduction.IsPositive() {
			lines = append(lines, fmt.Sprintf("- 配偶扣除：%s", group(b.SpouseDeduction)))
		}
		if b.LinealDescendantPerPerson.IsPositive() {
			lines = append(lines, fmt.Sprintf("- 直系卑親屬每人：%s", group(b.LinealDescendantPerPerson)))
		}
		if b.LinealAscendantPerPerson.IsPositive() {
			cap := ""
			if b.LinealAscendantMaxCount > 0 {
				cap = fmt.Sprintf("（最多 %d 人）", b.LinealAscendantMaxCount)
			}
			lines = append(lines, fmt.Sprintf("- 直系尊親屬每人：%s%s", group(b.LinealAscendantPerPerson), cap))
		}
		if b.DisabledPerPerson.IsPositive() {
			lines = append(lines, fmt.Sprintf("- 身心障礙每人：%s", group(b.DisabledPerPerson)))
		}
		if b.OtherDependentPerPerson.IsPositive() {
			lines = append(lines, fmt.Sprintf("- 其他撫養每人：%s", group(b.OtherDependentPerPerson)))
		}
	}
	if o := v.OtherDeductions; o != nil {
		if o.FuneralExpenseCap.IsPositive() {
			lines = append(lines, fmt.Sprintf("- 喪葬費上限：%s", group(o.FuneralExpenseCap)))
		}
		if o.LifeInsuranceExemptCap.IsPositive() {
			lines = append(lines, fmt.Sprintf("- 壽險給付免稅上限：%s", group(o.LifeInsuranceExemptCap)))
		}
		if o.DebtsAllowable {
			lines = append(lines, "- 債務得扣除：是")
		}
	}
	return lines
}

func giftLines(v *domain.RuleSetVersion) []string {
	lines := []string{
		fmt.Sprintf("稅制：台灣｜贈與稅（幣別：%s）", currencyOf(v)),
		fmt.Sprintf("適用期間：%s ～ %s", dateLabel(v.EffectiveFrom), dateLabel(v.EffectiveTo)),
		"免稅摘要：",
	}

	if e := v.Exemptions; e != nil {
		if e.AnnualExclusionPerDonor.IsPositive() {
			lines = append(lines, fmt.Sprintf("- 贈與人年度免稅額：%s", group(e.AnnualExclusionPerDonor)))
		}
		split := "否"
		if e.SpouseSplitAllowed {
			split = "可"
		}
		lines = append(lines, fmt.Sprintf("- 夫妻合贈分攤：%s", split))
		if e.MinorChildExclusion.IsPositive() {
			lines = append(lines, fmt.Sprintf("- 未成年子女額外免稅：%s", group(e.MinorChildExclusion)))
		}
	}
	return lines
}

func rateLines(m domain.RateModel) []string {
	if m.FlatRate.IsPositive() {
		return []string{fmt.Sprintf("單一稅率：%s%%", m.FlatRate.Mul(decimal.NewFromInt(100)).StringFixed(0))}
	}
	if len(m.Brackets) == 0 {
		return nil
	}

	lines := []string{"級距稅率："}
	for i, b := range m.Brackets {
		cap := "以上"
		if b.UpTo != nil {
			cap = fmt.Sprintf("至 %s", group(*b.UpTo))
		}
		qd := ""
		if b.QuickDeduction.IsPositive() {
			qd = fmt.Sprintf("（速算扣除 %s）", group(b.QuickDeduction))
		}
		lines = append(lines, fmt.Sprintf("- 第 %d 級：%s，稅率 %s%%%s",
			i+1, cap, b.Rate.Mul(decimal.NewFromInt(100)).StringFixed(0), qd))
	}
	return lines
}

func currencyOf(v *domain.RuleSetVersion) string {
	if v.Currency == "" {
		return "TWD"
	}
	return v.Currency
}

func dateLabel(t *time.Time) string {
	if t == nil {
		return "（未標註）"
	}
	return t.Format("2006-01-02")
}

// group renders an amount with thousands separators.
func group(d decimal.Decimal) string {
	s := d.StringFixed(0)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}

	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var out []byte
	lead := n % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < n; i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
