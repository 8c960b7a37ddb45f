package ui

import (
	"github.com/amonks/daybook/category"
	"github.com/charmbracelet/lipgloss"
)

// CategoryLabel renders a category name with a swatch in its colour.
// Uncategorized entities render as "-".
func CategoryLabel(c category.Category, ok bool) string {
	if !ok {
		return "-"
	}
	if !ColorEnabled() {
		return c.Name
	}
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("■")
	return swatch + " " + c.Name
}
