// Package home is the root screen: the roadmap catalog with live completion
// percentages and the entry point to the custom roadmap form.
package home

import (
	"fmt"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/progress"
	"github.com/abhisek/pathwise/internal/roadmap"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/screens/custom"
	"github.com/abhisek/pathwise/internal/screens/roadmapview"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

const titleArt = `█▀█ ▄▀█ ▀█▀ █░█ █░█░█ █ █▀ █▀▀
█▀▀ █▀█ ░█░ █▀█ ▀▄▀▄▀ █ ▄█ ██▄`

// Deps are the collaborators shared by every screen reachable from home.
type Deps struct {
	Catalog   *roadmap.Catalog
	Progress  *progress.Store
	IDMode    roadmap.IDMode
	Suggester custom.Suggester
	Links     roadmapview.Links
	Logger    *slog.Logger
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps     Deps
	roadmaps []roadmap.Roadmap
	menu     components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	if deps.Catalog == nil {
		deps.Catalog = roadmap.Default()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	h := &HomeScreen{
		deps:     deps,
		roadmaps: deps.Catalog.All(),
	}

	items := make([]components.MenuItem, 0, len(h.roadmaps)+2)
	for _, r := range h.roadmaps {
		items = append(items, components.MenuItem{
			Label:  r.Title,
			Action: h.open(r),
		})
	}
	items = append(items,
		components.MenuItem{Label: "Create custom roadmap", Action: h.openCustom},
		components.MenuItem{Label: "Exit", Action: func() tea.Cmd { return tea.Quit }},
	)
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) open(r roadmap.Roadmap) func() tea.Cmd {
	return func() tea.Cmd {
		next := roadmapview.New(r, h.deps.Progress, h.deps.Links, h.deps.Logger)
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: next}
		}
	}
}

func (h *HomeScreen) openCustom() tea.Cmd {
	next := custom.New(custom.Options{
		Progress:  h.deps.Progress,
		IDMode:    h.deps.IDMode,
		Suggester: h.deps.Suggester,
		Links:     h.deps.Links,
		Logger:    h.deps.Logger,
	})
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// refresh recomputes the percentage shown next to each catalog roadmap.
func (h *HomeScreen) refresh() {
	for i, r := range h.roadmaps {
		h.menu.SetDetail(i, fmt.Sprintf("%3d%%  %d steps", h.deps.Progress.CompletionRatio(r), len(r.Steps)))
	}
}

func (h *HomeScreen) View(width, height int) string {
	h.refresh()
	cw := components.ContentWidth(width)

	var sections []string

	title := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if height >= 20 {
		sections = append(sections, title.Render(titleArt))
	}
	sections = append(sections, theme.Hint.Render("Pick a roadmap and track your learning progress"))

	if err := h.deps.Progress.LoadErr(); err != nil {
		sections = append(sections, layout.RenderBanner("Saved progress could not be read, starting fresh", cw))
	}

	sections = append(sections, components.Card(h.menu.View(), cw, theme.Border))

	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(sections, "\n\n"))
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// KeyHints returns the key binding hints for the footer.
func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
