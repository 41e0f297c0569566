package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yongchuan/taxgo/internal/calculation"
	"github.com/yongchuan/taxgo/internal/compare"
	"github.com/yongchuan/taxgo/internal/rules"
	"github.com/yongchuan/taxgo/internal/tui"
)

func main() {
	// An optional rule file overrides the built-in data
	store := rules.DefaultStore()
	if len(os.Args) > 1 {
		loaded, err := rules.LoadFromFile(os.Args[1])
		if err != nil {
			fmt.Printf("Error loading rule data: %v\n", err)
			os.Exit(1)
		}
		if err := loaded.Validate(); err != nil {
			fmt.Printf("Error validating rule data: %v\n", err)
			os.Exit(1)
		}
		store = loaded
	}

	comparator := compare.NewComparator(calculation.NewEngine(store), store)
	model := tui.NewModel(comparator, time.Now())

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
