package roadmapview

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/external"
	"github.com/abhisek/pathwise/internal/progress"
	"github.com/abhisek/pathwise/internal/roadmap"
)

type memStorage struct {
	values map[string]string
}

func (m *memStorage) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memStorage) Set(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

type fakeLauncher struct {
	opened []string
	err    error
}

func (f *fakeLauncher) Open(_ context.Context, link string) error {
	f.opened = append(f.opened, link)
	return f.err
}

type fakeClipboard struct {
	copied string
	err    error
}

func (f *fakeClipboard) Copy(text string) error {
	f.copied = text
	return f.err
}

func keyPress(s string) tea.KeyPressMsg {
	switch s {
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func newStore(t *testing.T) (*progress.Store, *memStorage) {
	t.Helper()
	storage := &memStorage{values: map[string]string{}}
	return progress.Load(context.Background(), storage), storage
}

func mlRoadmap(t *testing.T) roadmap.Roadmap {
	t.Helper()
	r, err := roadmap.Default().Get("ml")
	if err != nil {
		t.Fatalf("Get(ml): %v", err)
	}
	return r
}

func press(s *Screen, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = s.Update(keyPress(k))
	}
	return cmd
}

func TestToggleSelectedStep(t *testing.T) {
	store, storage := newStore(t)
	s := New(mlRoadmap(t), store, Links{}, nil)

	press(s, "space")
	press(s, "down", "down", "down", "enter")

	if !store.IsCompleted("ml-1") || !store.IsCompleted("ml-4") {
		t.Fatalf("expected ml-1 and ml-4 completed, got %v", store.Snapshot())
	}
	if got := store.CompletionRatio(s.Roadmap()); got != 25 {
		t.Errorf("CompletionRatio = %d, want 25", got)
	}
	if !strings.Contains(storage.values[progress.StorageKey], `"ml-4":true`) {
		t.Errorf("not persisted: %q", storage.values[progress.StorageKey])
	}

	view := s.View(100, 40)
	for _, want := range []string{"2 of 8 completed", "2 completed • 6 remaining", "25%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	store, _ := newStore(t)
	s := New(mlRoadmap(t), store, Links{}, nil)

	press(s, "space", "space")
	if store.IsCompleted("ml-1") {
		t.Error("ml-1 still completed after two toggles")
	}
}

func TestCongratulationsAtFullCompletion(t *testing.T) {
	store, _ := newStore(t)
	r := roadmap.NewCustom("Photography", []string{"Composition", "Lighting"}, roadmap.IDFixed)
	s := New(r, store, Links{}, nil)

	if strings.Contains(s.View(100, 40), "Congratulations") {
		t.Fatal("banner shown before completion")
	}

	press(s, "space", "down", "space")

	view := s.View(100, 40)
	if !strings.Contains(view, "Congratulations") {
		t.Error("banner missing at 100%")
	}
	if !strings.Contains(view, "100%") {
		t.Error("percent missing at 100%")
	}
}

func TestOpenLink(t *testing.T) {
	store, _ := newStore(t)
	r := mlRoadmap(t)
	launcher := &fakeLauncher{}
	s := New(r, store, Links{Launcher: launcher}, nil)

	cmd := press(s, "o")
	if cmd == nil {
		t.Fatal("expected command")
	}
	s.Update(cmd())

	if len(launcher.opened) != 1 || launcher.opened[0] != r.Steps[0].ReferenceLink {
		t.Errorf("opened = %v", launcher.opened)
	}
	if !strings.Contains(s.View(100, 40), "Opened") {
		t.Error("status missing after open")
	}
}

func TestOpenLinkFailureShowsError(t *testing.T) {
	store, _ := newStore(t)
	launcher := &fakeLauncher{err: errors.New("no browser")}
	s := New(mlRoadmap(t), store, Links{Launcher: launcher}, nil)

	s.Update(press(s, "o")())
	if !strings.Contains(s.View(100, 40), "no browser") {
		t.Error("error not shown")
	}
}

func TestCopyLink(t *testing.T) {
	store, _ := newStore(t)
	r := mlRoadmap(t)
	clip := &fakeClipboard{}
	s := New(r, store, Links{Clipboard: clip}, nil)

	press(s, "down")
	s.Update(press(s, "y")())

	if clip.copied != r.Steps[1].ReferenceLink {
		t.Errorf("copied %q, want %q", clip.copied, r.Steps[1].ReferenceLink)
	}
}

func TestLinkKeysWithoutCollaborators(t *testing.T) {
	store, _ := newStore(t)
	s := New(mlRoadmap(t), store, Links{}, nil)

	msg := press(s, "y")()
	res, ok := msg.(linkResultMsg)
	if !ok || !errors.Is(res.err, external.ErrClipboardUnavailable) {
		t.Errorf("copy without clipboard = %#v", msg)
	}

	msg = press(s, "o")()
	if res, ok := msg.(linkResultMsg); !ok || res.err == nil {
		t.Errorf("open without launcher = %#v", msg)
	}
}

func TestStepWithoutLink(t *testing.T) {
	store, _ := newStore(t)
	r := roadmap.NewCustom("Cooking", []string{"Knife skills"}, roadmap.IDFixed)
	launcher := &fakeLauncher{}
	s := New(r, store, Links{Launcher: launcher}, nil)

	msg := press(s, "o")()
	if res := msg.(linkResultMsg); !errors.Is(res.err, errNoLink) {
		t.Errorf("err = %v, want errNoLink", res.err)
	}
	if len(launcher.opened) != 0 {
		t.Error("launcher called for step without link")
	}
}

func TestReflectsExistingProgress(t *testing.T) {
	store, _ := newStore(t)
	store.Toggle(context.Background(), "ml-2")
	s := New(mlRoadmap(t), store, Links{}, nil)

	if !s.list.Items[1].Checked {
		t.Error("existing completion not reflected")
	}
	if s.Title() != "Machine Learning" {
		t.Errorf("Title() = %q", s.Title())
	}
}
