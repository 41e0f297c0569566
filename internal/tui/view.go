package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/yongchuan/taxgo/internal/domain"
)

// View renders the parameter panel beside the three strategy cards.
func (m Model) View() string {
	title := titleStyle.Render("taxgo — 遺產稅規劃探索")
	subtitle := subtitleStyle.Render("Estate planning what-if explorer (" + m.asOf.Format("2006-01-02") + ")")

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderParams(),
		"   ",
		m.renderScenarios(),
	)

	sections := []string{title, subtitle, "", body}
	if warn := m.renderWarnings(); warn != "" {
		sections = append(sections, "", warn)
	}
	sections = append(sections, "", statusBarStyle.Render(m.help.View(m.keys)))

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

func (m Model) renderParams() string {
	rows := make([]string, 0, int(paramCount))
	for p := param(0); p < paramCount; p++ {
		label := paramLabelStyle.Render(p.label())
		value := paramValueStyle.Render(m.paramValue(p))
		cursor := "  "
		if p == m.selected {
			cursor = selectedParamStyle.Render("> ")
			value = selectedParamStyle.Render(m.paramValue(p))
		}
		rows = append(rows, cursor+label+value)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) paramValue(p param) string {
	switch p {
	case paramGrossEstate:
		return formatAmount(m.grossEstate)
	case paramChildren:
		return fmt.Sprintf("%d", m.numChildren)
	case paramSpouse:
		if m.includeSpouse {
			return "yes"
		}
		return "no"
	case paramYears:
		return fmt.Sprintf("%d", m.years)
	case paramRecipients:
		return fmt.Sprintf("%d", m.recipients)
	default:
		return ""
	}
}

func (m Model) renderScenarios() string {
	if m.err != nil {
		return warnStyle.Render("estimation failed: " + m.err.Error())
	}
	if m.comparison == nil {
		return subtitleStyle.Render("calculating…")
	}

	baselineTax := m.comparison.Baseline.Computed.TaxDue
	cards := []string{
		m.renderCard("Baseline", m.comparison.Baseline, baselineTax, false),
		m.renderCard("Gifting plan", m.comparison.GiftingPlan, baselineTax, false),
		m.renderCard("Combo plan", m.comparison.ComboPlan, baselineTax, true),
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)

	giftLine := subtitleStyle.Render(
		"Tax-free gifts over horizon: " + formatAmount(m.comparison.TotalGiftFree))
	if m.comparison.CappedByEstate {
		giftLine += warnStyle.Render("  (capped by estate)")
	}

	return lipgloss.JoinVertical(lipgloss.Left, row, "", giftLine)
}

func (m Model) renderCard(name string, result *domain.EstimationResult, baselineTax decimal.Decimal, best bool) string {
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(name),
		"Tax due  " + taxStyle.Render(formatAmount(result.Computed.TaxDue)),
		"Base     " + formatAmount(result.Computed.TaxableBase),
	}
	if saved := baselineTax.Sub(result.Computed.TaxDue); saved.IsPositive() {
		lines = append(lines, savedStyle.Render("Saves    "+formatAmount(saved)))
	}

	style := cardStyle
	if best {
		style = bestCardStyle
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderWarnings() string {
	if m.comparison == nil || m.comparison.Baseline == nil || m.comparison.Baseline.Version == nil {
		return ""
	}
	v := m.comparison.Baseline.Version

	var warnings []string
	if v.IsDemo {
		warnings = append(warnings, "示範性資料：請以官方公告為準")
	}
	if v.IsExpired(m.asOf) {
		warnings = append(warnings, "資料適用期間已過期")
	}
	if len(warnings) == 0 {
		return ""
	}
	return warnStyle.Render("⚠ " + strings.Join(warnings, "；"))
}

// formatAmount renders a whole-unit amount with thousands separators.
func formatAmount(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		return "-" + out
	}
	return out
}
