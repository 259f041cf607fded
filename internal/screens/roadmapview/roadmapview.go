// Package roadmapview renders one roadmap as a checklist and toggles step
// completion in the progress store.
package roadmapview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/external"
	"github.com/abhisek/pathwise/internal/progress"
	"github.com/abhisek/pathwise/internal/roadmap"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

// Links groups the collaborators that act on a step's reference link. Either
// may be nil, in which case the matching key reports that it is unavailable.
type Links struct {
	Launcher  external.Launcher
	Clipboard external.Clipboard
}

// linkResultMsg reports the outcome of an open or copy request.
type linkResultMsg struct {
	text string
	err  error
}

// Screen shows a single roadmap.
type Screen struct {
	roadmap  roadmap.Roadmap
	progress *progress.Store
	links    Links
	logger   *slog.Logger

	list   components.Checklist
	status string
	failed bool
}

var _ screen.Screen = (*Screen)(nil)

// New creates the view for r backed by store.
func New(r roadmap.Roadmap, store *progress.Store, links Links, logger *slog.Logger) *Screen {
	if logger == nil {
		logger = slog.Default()
	}

	items := make([]components.ChecklistItem, len(r.Steps))
	for i, s := range r.Steps {
		items[i] = components.ChecklistItem{
			Title:   s.Title,
			Detail:  s.Description,
			Checked: store.IsCompleted(s.ID),
			Linked:  s.HasLink(),
		}
	}

	return &Screen{
		roadmap:  r,
		progress: store,
		links:    links,
		logger:   logger,
		list:     components.NewChecklist(items),
	}
}

// Roadmap returns the roadmap being viewed.
func (s *Screen) Roadmap() roadmap.Roadmap {
	return s.roadmap
}

// Cursor returns the index of the selected step.
func (s *Screen) Cursor() int {
	return s.list.Cursor
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case linkResultMsg:
		s.status, s.failed = msg.text, false
		if msg.err != nil {
			s.status, s.failed = msg.err.Error(), true
			s.logger.Debug("link action failed", "error", msg.err)
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "space", "enter", "x":
			s.toggle()
			return s, nil
		case "o":
			return s, s.openLink()
		case "y":
			return s, s.copyLink()
		}
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *Screen) toggle() {
	if len(s.roadmap.Steps) == 0 {
		return
	}
	i := s.list.Cursor
	step := s.roadmap.Steps[i]
	done := s.progress.Toggle(context.Background(), step.ID)
	s.list.SetChecked(i, done)
	s.status = ""
	s.logger.Debug("step toggled", "roadmap", s.roadmap.ID, "step", step.ID, "completed", done)
}

func (s *Screen) selected() (roadmap.Step, bool) {
	if len(s.roadmap.Steps) == 0 {
		return roadmap.Step{}, false
	}
	return s.roadmap.Steps[s.list.Cursor], true
}

func (s *Screen) openLink() tea.Cmd {
	step, ok := s.selected()
	if !ok || !step.HasLink() {
		return failure(errNoLink)
	}
	if s.links.Launcher == nil {
		return failure(errNoLauncher)
	}
	launcher, link := s.links.Launcher, step.ReferenceLink
	return func() tea.Msg {
		if err := launcher.Open(context.Background(), link); err != nil {
			return linkResultMsg{err: err}
		}
		return linkResultMsg{text: "Opened " + link}
	}
}

func (s *Screen) copyLink() tea.Cmd {
	step, ok := s.selected()
	if !ok || !step.HasLink() {
		return failure(errNoLink)
	}
	if s.links.Clipboard == nil {
		return failure(external.ErrClipboardUnavailable)
	}
	clip, link := s.links.Clipboard, step.ReferenceLink
	return func() tea.Msg {
		if err := clip.Copy(link); err != nil {
			return linkResultMsg{err: err}
		}
		return linkResultMsg{text: "Link copied to clipboard"}
	}
}

var (
	errNoLink     = errors.New("this step has no reference link")
	errNoLauncher = errors.New("opening links is not available")
)

func failure(err error) tea.Cmd {
	return func() tea.Msg { return linkResultMsg{err: err} }
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	tint := theme.Tint(s.roadmap.Theme)

	total := len(s.roadmap.Steps)
	done := s.progress.CompletedCount(s.roadmap)
	pct := s.progress.CompletionRatio(s.roadmap)

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(tint).Bold(true).Render(s.roadmap.Title) + "\n")
	if s.roadmap.Description != "" {
		b.WriteString(theme.Hint.Render(s.roadmap.Description) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(theme.Body.Render(fmt.Sprintf("%d of %d completed", done, total)) + "\n")
	bar := components.NewProgressBar("", pct, true, cw)
	bar.Color = tint
	b.WriteString(bar.View() + "\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d completed • %d remaining", done, total-done)) + "\n\n")

	if total > 0 && done == total {
		b.WriteString(components.Card(
			lipgloss.NewStyle().Foreground(theme.Success).Bold(true).
				Render("Congratulations! You've completed this roadmap."),
			cw, theme.Success) + "\n\n")
	}

	b.WriteString(s.list.View(cw))

	if s.status != "" {
		style := theme.Hint
		if s.failed {
			style = theme.Incorrect
		}
		b.WriteString("\n" + style.Render(s.status))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (s *Screen) Title() string {
	return s.roadmap.Title
}

// KeyHints returns the key binding hints for the footer.
func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Space", Description: "Toggle"},
		{Key: "o", Description: "Open link"},
		{Key: "y", Description: "Copy link"},
		{Key: "Esc", Description: "Back"},
	}
}
