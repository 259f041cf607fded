package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pathwise/internal/config"
	"github.com/abhisek/pathwise/internal/progress"
	"github.com/abhisek/pathwise/internal/roadmap"
)

type memStorage map[string]string

func (m memStorage) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memStorage) Set(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

func (m memStorage) Delete(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

// execute runs the root command against a fresh database in dir.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_STATE_HOME", dir)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{
		"--db", filepath.Join(dir, "pathwise.db"),
		"--log-level", "error",
	}, args...))
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestPrintRoadmaps(t *testing.T) {
	store := progress.Load(context.Background(), memStorage{})
	store.Toggle(context.Background(), "ml-1")
	store.Toggle(context.Background(), "ml-4")

	var buf bytes.Buffer
	printRoadmaps(&buf, roadmap.Default(), store)

	out := buf.String()
	assert.Contains(t, out, "Machine Learning")
	assert.Contains(t, out, "2/8")
	assert.Contains(t, out, " 25%")
	assert.Contains(t, out, "Deep Learning")
	assert.NotContains(t, out, "no listed roadmap")
}

func TestPrintRoadmaps_ListsOrphanedSteps(t *testing.T) {
	ctx := context.Background()
	store := progress.Load(ctx, memStorage{})
	store.Toggle(ctx, "ml-1")
	store.Toggle(ctx, "custom-1")
	store.Toggle(ctx, "custom-0")
	store.Toggle(ctx, "retired-3")
	store.Toggle(ctx, "retired-3")

	assert.Equal(t, []string{"custom-0", "custom-1"}, orphanedSteps(roadmap.Default(), store))

	var buf bytes.Buffer
	printRoadmaps(&buf, roadmap.Default(), store)
	assert.Contains(t, buf.String(), "2 completed steps belong to no listed roadmap: custom-0, custom-1")
}

func TestPrintRoadmap(t *testing.T) {
	store := progress.Load(context.Background(), memStorage{})
	r := roadmap.NewCustom("Photography", []string{"Composition", "Lighting"}, roadmap.IDFixed)
	store.Toggle(context.Background(), "custom-0")

	var buf bytes.Buffer
	printRoadmap(&buf, r, store)
	out := buf.String()
	assert.Contains(t, out, "1 of 2 completed (50%)")
	assert.Contains(t, out, "[x] custom-0")
	assert.Contains(t, out, "[ ] custom-1")
	assert.NotContains(t, out, "Congratulations")

	store.Toggle(context.Background(), "custom-1")
	buf.Reset()
	printRoadmap(&buf, r, store)
	assert.Contains(t, buf.String(), "Congratulations")
}

func TestToggleCommandPersists(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "toggle", "ml-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Mathematics Foundations (ml-1): completed")
	assert.Contains(t, out, "Machine Learning: 13% complete")

	_, err = execute(t, dir, "toggle", "ml-4")
	require.NoError(t, err)

	out, err = execute(t, dir, "show", "ml")
	require.NoError(t, err)
	assert.Contains(t, out, "2 of 8 completed (25%)")

	_, err = execute(t, dir, "toggle", "nope-1")
	assert.ErrorContains(t, err, "unknown step")
}

func TestShowUnknownRoadmap(t *testing.T) {
	_, err := execute(t, t.TempDir(), "show", "astronomy")
	assert.ErrorIs(t, err, roadmap.ErrNotFound)
}

func TestResetRequiresConfirmation(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, dir, "toggle", "dl-1")
	require.NoError(t, err)

	_, err = execute(t, dir, "reset")
	require.Error(t, err)

	out, err := execute(t, dir, "reset", "--yes")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "1 completed steps removed"))
	require.NoError(t, resetCmd.Flags().Set("yes", "false"))

	out, err = execute(t, dir, "roadmaps")
	require.NoError(t, err)
	assert.NotContains(t, out, "1/8")
}

func TestNewEnvUsesGivenConfig(t *testing.T) {
	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "given.db")

	e, err := newEnv(context.Background(), cfg, io.Discard)
	require.NoError(t, err)
	defer e.close()

	assert.Same(t, cfg, e.cfg)
	assert.FileExists(t, cfg.DBPath)
	assert.Equal(t, 0, e.progress.CompletedTotal())
}

func TestVersion(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "pathwise (devel)\n", out)
}
