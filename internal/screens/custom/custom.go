// Package custom is the form for authoring a custom roadmap: a topic plus an
// editable list of step slots.
package custom

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pathwise/internal/builder"
	"github.com/abhisek/pathwise/internal/progress"
	"github.com/abhisek/pathwise/internal/roadmap"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screen"
	"github.com/abhisek/pathwise/internal/screens/roadmapview"
	"github.com/abhisek/pathwise/internal/ui/components"
	"github.com/abhisek/pathwise/internal/ui/layout"
	"github.com/abhisek/pathwise/internal/ui/theme"
)

const suggestTimeout = 60 * time.Second

// Suggester proposes step titles for a topic.
type Suggester interface {
	Suggest(ctx context.Context, topic string, existing []string) ([]string, error)
}

// Options configures the form.
type Options struct {
	Progress  *progress.Store
	IDMode    roadmap.IDMode
	Suggester Suggester
	Links     roadmapview.Links
	Logger    *slog.Logger
}

// suggestionsMsg carries the result of an asynchronous suggestion request.
type suggestionsMsg struct {
	steps []string
	err   error
}

// Screen is the custom roadmap form. Focus index 0 is the topic, 1..n are
// the step slots and n+1 is the create button.
type Screen struct {
	opts    Options
	builder *builder.Builder

	topic components.TextInput
	slots []components.TextInput
	focus int

	err        error
	status     string
	suggesting bool
}

var _ screen.Screen = (*Screen)(nil)

// New creates an empty form with the topic focused and one step slot.
func New(opts Options) *Screen {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Screen{
		opts:    opts,
		builder: builder.New(opts.IDMode),
		topic:   components.NewTextInput("e.g. Photography", 80),
	}
	s.rebuildSlots()
	return s
}

// Builder exposes the underlying slot state.
func (s *Screen) Builder() *builder.Builder {
	return s.builder
}

// Topic returns the current topic text.
func (s *Screen) Topic() string {
	return s.topic.Value()
}

// Focus returns the focused field index.
func (s *Screen) Focus() int {
	return s.focus
}

// Err returns the last submit error, if any.
func (s *Screen) Err() error {
	return s.err
}

func (s *Screen) Init() tea.Cmd {
	return s.topic.Init()
}

func (s *Screen) buttonIndex() int {
	return len(s.slots) + 1
}

func (s *Screen) rebuildSlots() {
	s.slots = make([]components.TextInput, s.builder.Len())
	for i := range s.slots {
		in := components.NewTextInput(fmt.Sprintf("Step %d", i+1), 120)
		in.SetValue(s.builder.Slot(i))
		in.Blur()
		s.slots[i] = in
	}
	s.setFocus(min(s.focus, s.buttonIndex()))
}

func (s *Screen) setFocus(i int) tea.Cmd {
	s.focus = i
	s.topic.Blur()
	for j := range s.slots {
		s.slots[j].Blur()
	}
	switch {
	case i == 0:
		return s.topic.Focus()
	case i <= len(s.slots):
		return s.slots[i-1].Focus()
	}
	return nil
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case suggestionsMsg:
		return s, s.applySuggestions(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % (s.buttonIndex() + 1))
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + s.buttonIndex()) % (s.buttonIndex() + 1))
		case "ctrl+n":
			s.builder.AddSlot()
			s.rebuildSlots()
			return s, s.setFocus(len(s.slots))
		case "ctrl+d":
			if s.focus >= 1 && s.focus <= len(s.slots) && s.builder.Len() > 1 {
				s.builder.RemoveSlot(s.focus - 1)
				s.rebuildSlots()
				return s, s.setFocus(min(s.focus, len(s.slots)))
			}
			return s, nil
		case "ctrl+g":
			return s, s.requestSuggestions()
		case "ctrl+s":
			return s, s.submit()
		case "enter":
			if s.focus == s.buttonIndex() {
				return s, s.submit()
			}
			return s, s.setFocus(s.focus + 1)
		}
	}

	var cmd tea.Cmd
	switch {
	case s.focus == 0:
		s.topic, cmd = s.topic.Update(msg)
	case s.focus <= len(s.slots):
		i := s.focus - 1
		s.slots[i], cmd = s.slots[i].Update(msg)
		s.builder.UpdateSlot(i, s.slots[i].Value())
	}
	if s.err != nil {
		s.err = s.builder.Validate(s.topic.Value())
	}
	return s, cmd
}

func (s *Screen) submit() tea.Cmd {
	r, err := s.builder.Submit(s.topic.Value())
	if err != nil {
		s.err = err
		s.markInvalid()
		return nil
	}
	s.err = nil
	s.opts.Logger.Info("custom roadmap created", "id", r.ID, "steps", len(r.Steps))

	next := roadmapview.New(r, s.opts.Progress, s.opts.Links, s.opts.Logger)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *Screen) markInvalid() {
	if strings.TrimSpace(s.topic.Value()) == "" {
		s.topic.MarkInvalid()
	}
	for i := range s.slots {
		if strings.TrimSpace(s.slots[i].Value()) == "" {
			s.slots[i].MarkInvalid()
		}
	}
}

func (s *Screen) requestSuggestions() tea.Cmd {
	if s.suggesting {
		return nil
	}
	if s.opts.Suggester == nil {
		s.status = "Step suggestions need an LLM provider (see pathwise --help)"
		return nil
	}
	topic := strings.TrimSpace(s.topic.Value())
	if topic == "" {
		s.err = builder.ErrEmptyTopic
		s.topic.MarkInvalid()
		return nil
	}

	var existing []string
	for _, slot := range s.builder.Slots() {
		if t := strings.TrimSpace(slot); t != "" {
			existing = append(existing, t)
		}
	}

	s.suggesting = true
	s.status = "Asking for step ideas..."
	suggester := s.opts.Suggester
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), suggestTimeout)
		defer cancel()
		steps, err := suggester.Suggest(ctx, topic, existing)
		return suggestionsMsg{steps: steps, err: err}
	}
}

func (s *Screen) applySuggestions(msg suggestionsMsg) tea.Cmd {
	s.suggesting = false
	if msg.err != nil {
		s.opts.Logger.Warn("step suggestion failed", "error", msg.err)
		s.status = "Could not get suggestions: " + msg.err.Error()
		return nil
	}

	var keep []string
	for _, slot := range s.builder.Slots() {
		if strings.TrimSpace(slot) != "" {
			keep = append(keep, slot)
		}
	}
	s.builder.SetSlots(append(keep, msg.steps...))
	s.rebuildSlots()
	s.status = fmt.Sprintf("Added %d suggested steps", len(msg.steps))
	s.err = nil
	return nil
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true)
	remove := lipgloss.NewStyle().Foreground(theme.Error)

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Create your custom roadmap") + "\n")
	b.WriteString(theme.Subtitle.Width(cw).Render("Name a topic and list the steps you want to take") + "\n\n")

	b.WriteString(label.Render("TOPIC") + "\n")
	b.WriteString(s.fieldPrefix(0) + s.topic.View() + "\n\n")

	b.WriteString(label.Render("STEPS") + "\n")
	for i := range s.slots {
		line := s.fieldPrefix(i+1) + s.slots[i].View()
		if len(s.slots) > 1 {
			line += "  " + remove.Render("×")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(theme.Hint.Render("ctrl+n add step • ctrl+d remove step • ctrl+g suggest steps") + "\n\n")

	button := components.NewButton("Create Roadmap", s.focus == s.buttonIndex(), nil)
	button.Disabled = s.builder.Validate(s.topic.Value()) != nil
	b.WriteString(button.View() + "\n")

	switch {
	case s.err != nil:
		b.WriteString("\n" + theme.Incorrect.Render(errorText(s.err)))
	case s.status != "":
		b.WriteString("\n" + theme.Hint.Render(s.status))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (s *Screen) fieldPrefix(i int) string {
	if i == s.focus {
		return theme.Selected.Render("▸ ")
	}
	return "  "
}

func errorText(err error) string {
	switch {
	case errors.Is(err, builder.ErrEmptyTopic):
		return "Please enter a topic."
	case errors.Is(err, builder.ErrEmptyStep):
		return "Please fill in " + strings.TrimPrefix(err.Error(), builder.ErrEmptyStep.Error()+": ") + "."
	default:
		return err.Error()
	}
}

func (s *Screen) Title() string {
	return "Custom Roadmap"
}

// KeyHints returns the key binding hints for the footer.
func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Ctrl+S", Description: "Create"},
		{Key: "Ctrl+G", Description: "Suggest"},
		{Key: "Esc", Description: "Cancel"},
	}
}
