package utils

import "github.com/mrlokans/fintrack/internal/entities"

// Chart palettes, darkest first. Slices of a distribution cycle through them.
var (
	ExpenseColors = []string{"#ef4444", "#f87171", "#fca5a5", "#fecaca", "#fee2e2"}
	IncomeColors  = []string{"#22c55e", "#4ade80", "#86efac", "#bbf7d0", "#dcfce7"}
)

// ChartColor returns the hex color of the index-th slice of a distribution
// of the given type. Negative indexes get the first color.
func ChartColor(t entities.CategoryType, index int) string {
	palette := ExpenseColors
	if t == entities.CategoryTypeIncome {
		palette = IncomeColors
	}
	if index < 0 {
		index = 0
	}
	return palette[index%len(palette)]
}
