package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/progress"
	"github.com/abhisek/pathwise/internal/roadmap"
)

var roadmapsCmd = &cobra.Command{
	Use:   "roadmaps",
	Short: "List roadmaps with completion",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.close()

		printRoadmaps(cmd.OutOrStdout(), e.catalog, e.progress)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <roadmap-id>",
	Short: "Show the steps of a roadmap",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.close()

		r, err := e.catalog.Get(args[0])
		if err != nil {
			return err
		}
		printRoadmap(cmd.OutOrStdout(), r, e.progress)
		return nil
	},
}

func printRoadmaps(w io.Writer, catalog *roadmap.Catalog, store *progress.Store) {
	fmt.Fprintf(w, "%-10s  %-28s  %7s  %s\n", "ID", "Title", "Steps", "Done")
	fmt.Fprintln(w, strings.Repeat("\u2500", 60))
	for _, r := range catalog.All() {
		fmt.Fprintf(w, "%-10s  %-28s  %3d/%-3d  %3d%%\n",
			r.ID, truncate(r.Title, 28), store.CompletedCount(r), len(r.Steps), store.CompletionRatio(r))
	}
	if orphans := orphanedSteps(catalog, store); len(orphans) > 0 {
		fmt.Fprintf(w, "\n%d completed steps belong to no listed roadmap: %s\n",
			len(orphans), strings.Join(orphans, ", "))
	}
}

// orphanedSteps returns the completed step ids that no catalog roadmap
// contains, such as steps of custom roadmaps from earlier sessions.
func orphanedSteps(catalog *roadmap.Catalog, store *progress.Store) []string {
	var ids []string
	for id, done := range store.Snapshot() {
		if _, _, found := catalog.FindStep(id); done && !found {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func printRoadmap(w io.Writer, r roadmap.Roadmap, store *progress.Store) {
	done := store.CompletedCount(r)
	fmt.Fprintln(w, r.Title)
	if r.Description != "" {
		fmt.Fprintln(w, r.Description)
	}
	fmt.Fprintf(w, "%d of %d completed (%d%%)\n", done, len(r.Steps), store.CompletionRatio(r))
	fmt.Fprintln(w, strings.Repeat("\u2500", 60))

	for i, s := range r.Steps {
		mark := " "
		if store.IsCompleted(s.ID) {
			mark = "x"
		}
		fmt.Fprintf(w, "%2d. [%s] %-8s %s\n", i+1, mark, s.ID, s.Title)
		if s.HasLink() {
			fmt.Fprintf(w, "                 %s\n", s.ReferenceLink)
		}
	}
	if done == len(r.Steps) && done > 0 {
		fmt.Fprintln(w, "\nCongratulations! You've completed this roadmap.")
	}
}
