package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/ui/theme"
)

// ChecklistItem is one row of a Checklist.
type ChecklistItem struct {
	Title   string
	Detail  string
	Checked bool
	Linked  bool
}

// Checklist is a numbered list of checkable rows with a cursor. It only moves
// the cursor; callers own the checked state.
type Checklist struct {
	Items  []ChecklistItem
	Cursor int
}

// NewChecklist creates a checklist with the cursor on the first row.
func NewChecklist(items []ChecklistItem) Checklist {
	return Checklist{Items: items}
}

// Update handles cursor movement.
func (c Checklist) Update(msg tea.Msg) (Checklist, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Items)-1 {
			c.Cursor++
		}
	case "home", "g":
		c.Cursor = 0
	case "end", "G":
		c.Cursor = max(len(c.Items)-1, 0)
	}
	return c, nil
}

// SetChecked updates the checked flag of row i.
func (c *Checklist) SetChecked(i int, checked bool) {
	if i >= 0 && i < len(c.Items) {
		c.Items[i].Checked = checked
	}
}

// View renders the checklist. The selected row also shows its detail line.
func (c Checklist) View(width int) string {
	var b strings.Builder
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	for i, item := range c.Items {
		box := "[ ]"
		if item.Checked {
			box = lipgloss.NewStyle().Foreground(theme.Success).Render("[✓]")
		}

		title := item.Title
		switch {
		case item.Checked:
			title = theme.Done.Render(title)
		case i == c.Cursor:
			title = theme.Selected.Render(title)
		default:
			title = theme.Unselected.Render(title)
		}

		pointer := "  "
		if i == c.Cursor {
			pointer = theme.Selected.Render("▸ ")
		}

		line := fmt.Sprintf("%s%s %s %s", pointer, dim.Render(fmt.Sprintf("%2d.", i+1)), box, title)
		if item.Linked {
			line += " " + dim.Render("↗")
		}
		b.WriteString(line + "\n")

		if i == c.Cursor && item.Detail != "" {
			b.WriteString(lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Width(max(width-10, 20)).
				PaddingLeft(10).
				Render(item.Detail) + "\n")
		}
	}
	return b.String()
}
