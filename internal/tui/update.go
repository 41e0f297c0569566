package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

var (
	estateStep    = decimal.NewFromInt(1_000_000)
	estateBigStep = decimal.NewFromInt(10_000_000)
)

// Update handles key presses and recomputation results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case comparisonMsg:
		m.comparison = msg.comparison
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			m.selected = (m.selected + paramCount - 1) % paramCount
			return m, nil

		case key.Matches(msg, m.keys.Down):
			m.selected = (m.selected + 1) % paramCount
			return m, nil

		case key.Matches(msg, m.keys.Left):
			m.adjust(-1, false)
			return m, m.recalcCmd()

		case key.Matches(msg, m.keys.Right):
			m.adjust(+1, false)
			return m, m.recalcCmd()

		case key.Matches(msg, m.keys.Big):
			dir := +1
			if msg.String() == "H" {
				dir = -1
			}
			m.adjust(dir, true)
			return m, m.recalcCmd()
		}
	}

	return m, nil
}

// adjust bumps the selected parameter. Amounts and counts never go negative.
func (m *Model) adjust(dir int, big bool) {
	switch m.selected {
	case paramGrossEstate:
		step := estateStep
		if big {
			step = estateBigStep
		}
		next := m.grossEstate.Add(step.Mul(decimal.NewFromInt(int64(dir))))
		if next.IsNegative() {
			next = decimal.Zero
		}
		m.grossEstate = next

	case paramChildren:
		m.numChildren = clampInt(m.numChildren+dir, 0, 20)

	case paramSpouse:
		m.includeSpouse = !m.includeSpouse

	case paramYears:
		step := 1
		if big {
			step = 5
		}
		m.years = clampInt(m.years+dir*step, 0, 60)

	case paramRecipients:
		m.recipients = clampInt(m.recipients+dir, 0, 20)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
