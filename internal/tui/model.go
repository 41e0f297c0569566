package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/yongchuan/taxgo/internal/compare"
	"github.com/yongchuan/taxgo/internal/domain"
)

// param identifies one adjustable input in the explorer.
type param int

const (
	paramGrossEstate param = iota
	paramChildren
	paramSpouse
	paramYears
	paramRecipients
	paramCount
)

func (p param) label() string {
	switch p {
	case paramGrossEstate:
		return "Gross estate"
	case paramChildren:
		return "Children"
	case paramSpouse:
		return "Include spouse"
	case paramYears:
		return "Gifting years"
	case paramRecipients:
		return "Recipients"
	default:
		return ""
	}
}

// keyMap lists the explorer's bindings.
type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Big   key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous field")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next field")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "decrease")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "increase")),
		Big:   key.NewBinding(key.WithKeys("L", "H"), key.WithHelp("H/L", "big step")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Big, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Left, k.Right, k.Big}, {k.Quit}}
}

// Model is the interactive what-if explorer: adjust the household on the
// left, watch the three strategies re-estimate live on the right.
type Model struct {
	comparator *compare.Comparator
	asOf       time.Time

	grossEstate   decimal.Decimal
	numChildren   int
	includeSpouse bool
	years         int
	recipients    int

	selected param
	keys     keyMap
	help     help.Model

	comparison *domain.ScenarioComparison
	err        error

	width  int
	height int
}

// NewModel seeds the explorer with a typical planning household.
func NewModel(comparator *compare.Comparator, asOf time.Time) Model {
	return Model{
		comparator:    comparator,
		asOf:          asOf,
		grossEstate:   decimal.NewFromInt(100_000_000),
		numChildren:   2,
		includeSpouse: true,
		years:         10,
		recipients:    2,
		keys:          defaultKeyMap(),
		help:          help.New(),
		width:         80,
		height:        24,
	}
}

// Init runs the first comparison so the screen is never empty.
func (m Model) Init() tea.Cmd {
	return m.recalcCmd()
}

// recalcCmd re-runs the comparison off the current parameters.
func (m Model) recalcCmd() tea.Cmd {
	opts := compare.Options{
		GrossEstate:   m.grossEstate,
		NumChildren:   m.numChildren,
		IncludeSpouse: m.includeSpouse,
		Years:         m.years,
		Recipients:    m.recipients,
		AsOf:          m.asOf,
	}
	comparator := m.comparator
	return func() tea.Msg {
		comparison, err := comparator.Compare(opts)
		return comparisonMsg{comparison: comparison, err: err}
	}
}

type comparisonMsg struct {
	comparison *domain.ScenarioComparison
	err        error
}
