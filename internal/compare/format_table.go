package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yongchuan/taxgo/internal/domain"
)

// TableFormatter renders a comparison as a console table.
type TableFormatter struct{}

// Format generates the side-by-side strategy table.
func (tf *TableFormatter) Format(comparison *domain.ScenarioComparison) string {
	var sb strings.Builder

	sb.WriteString("ESTATE PLANNING STRATEGY COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	if comparison.Baseline != nil && comparison.Baseline.Version != nil {
		v := comparison.Baseline.Version
		sb.WriteString(fmt.Sprintf("Rule-set version: %s (%s)\n", v.Version, comparison.Baseline.Currency))
		if v.IsDemo {
			sb.WriteString("NOTE: illustrative (demo) rule data - verify with official sources\n")
		}
	}
	sb.WriteString("\n")

	nameWidth := 22
	numWidth := 18

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s\n",
		nameWidth, "Strategy",
		numWidth, "Taxable Base",
		numWidth, "Rate",
		numWidth, "Tax Due"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	sb.WriteString(tf.formatRow("Baseline", comparison.Baseline, nameWidth, numWidth))
	sb.WriteString(tf.formatRow("Systematic gifting", comparison.GiftingPlan, nameWidth, numWidth))
	sb.WriteString(tf.formatRow("Combo plan", comparison.ComboPlan, nameWidth, numWidth))

	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Tax-free transferable over horizon: %s", tf.formatDecimal(comparison.TotalGiftFree)))
	if comparison.CappedByEstate {
		sb.WriteString(" (capped by gross estate)")
	}
	sb.WriteString("\n")

	if comparison.Baseline != nil && comparison.ComboPlan != nil {
		saved := comparison.Baseline.Computed.TaxDue.Sub(comparison.ComboPlan.Computed.TaxDue)
		if saved.IsPositive() {
			sb.WriteString(fmt.Sprintf("Potential tax saved vs baseline: %s\n", tf.formatDecimal(saved)))
		}
	}

	return sb.String()
}

func (tf *TableFormatter) formatRow(name string, r *domain.EstimationResult, nameWidth, numWidth int) string {
	if r == nil {
		return fmt.Sprintf("%-*s %*s\n", nameWidth, name, numWidth, "-")
	}

	rate := r.Computed.RateApplied.Mul(decimal.NewFromInt(100)).StringFixed(0) + "%"
	if r.Computed.BracketIndex >= 0 {
		rate = fmt.Sprintf("%s (tier %d)", rate, r.Computed.BracketIndex+1)
	} else {
		rate = rate + " (flat)"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s\n",
		nameWidth, name,
		numWidth, tf.formatDecimal(r.Computed.TaxableBase),
		numWidth, rate,
		numWidth, tf.formatDecimal(r.Computed.TaxDue))
}

// formatDecimal compacts large amounts for display.
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(100_000_000)) {
		return d.Div(decimal.NewFromInt(100_000_000)).StringFixed(2) + "億"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(10_000)) {
		return d.Div(decimal.NewFromInt(10_000)).StringFixed(1) + "萬"
	}
	return d.StringFixed(0)
}
