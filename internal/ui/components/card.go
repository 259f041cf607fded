package components

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// ContentWidth returns the inner width used for screen bodies so sections
// line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 76)
}

// Card wraps content in a rounded border tinted with accent.
func Card(content string, cw int, accent color.Color) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Width(cw).
		Padding(0, 2).
		Render(content)
}
