package home

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pathwise/internal/progress"
	"github.com/abhisek/pathwise/internal/router"
	"github.com/abhisek/pathwise/internal/screens/custom"
	"github.com/abhisek/pathwise/internal/screens/roadmapview"
)

type memStorage struct {
	values map[string]string
	getErr error
}

func (m *memStorage) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
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

var (
	down  = tea.KeyPressMsg{Code: tea.KeyDown}
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
)

func newHome(t *testing.T, storage *memStorage) (*HomeScreen, *progress.Store) {
	t.Helper()
	store := progress.Load(context.Background(), storage)
	return New(Deps{Progress: store}), store
}

func TestMenuListsCatalogThenCustomThenExit(t *testing.T) {
	h, _ := newHome(t, &memStorage{values: map[string]string{}})

	var labels []string
	for _, item := range h.menu.Items {
		labels = append(labels, item.Label)
	}
	want := []string{"Machine Learning", "Deep Learning", "Create custom roadmap", "Exit"}
	if strings.Join(labels, "|") != strings.Join(want, "|") {
		t.Errorf("labels = %v, want %v", labels, want)
	}
}

func TestEnterPushesRoadmapView(t *testing.T) {
	h, _ := newHome(t, &memStorage{values: map[string]string{}})

	_, cmd := h.Update(down)
	if cmd != nil {
		t.Fatal("navigation produced a command")
	}
	_, cmd = h.Update(enter)
	if cmd == nil {
		t.Fatal("expected command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("got %T, want PushScreenMsg", cmd())
	}
	view, ok := push.Screen.(*roadmapview.Screen)
	if !ok {
		t.Fatalf("pushed %T", push.Screen)
	}
	if view.Roadmap().ID != "dl" {
		t.Errorf("opened %q, want dl", view.Roadmap().ID)
	}
}

func TestEnterOnCustomPushesForm(t *testing.T) {
	h, _ := newHome(t, &memStorage{values: map[string]string{}})
	h.Update(down)
	h.Update(down)

	_, cmd := h.Update(enter)
	push := cmd().(router.PushScreenMsg)
	if _, ok := push.Screen.(*custom.Screen); !ok {
		t.Errorf("pushed %T, want *custom.Screen", push.Screen)
	}
}

func TestViewShowsLivePercent(t *testing.T) {
	h, store := newHome(t, &memStorage{values: map[string]string{}})
	if !strings.Contains(h.View(100, 40), "  0%") {
		t.Error("missing 0% before progress")
	}

	store.Toggle(context.Background(), "ml-1")
	store.Toggle(context.Background(), "ml-4")
	if !strings.Contains(h.View(100, 40), " 25%") {
		t.Error("missing 25% after toggles")
	}
}

func TestViewShowsLoadErrorBanner(t *testing.T) {
	h, _ := newHome(t, &memStorage{values: map[string]string{}, getErr: errors.New("locked")})
	if !strings.Contains(h.View(100, 40), "could not be read") {
		t.Error("banner missing")
	}

	h, _ = newHome(t, &memStorage{values: map[string]string{}})
	if strings.Contains(h.View(100, 40), "could not be read") {
		t.Error("banner shown without error")
	}
}
