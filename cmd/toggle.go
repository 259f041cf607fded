package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/roadmap"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <step-id>",
	Short: "Flip the completion state of a step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.close()

		id := args[0]
		r, step, found := e.catalog.FindStep(id)
		if !found && !roadmap.IsCustomID(id) {
			return fmt.Errorf("unknown step %q", id)
		}

		done := e.progress.Toggle(cmd.Context(), id)
		state := "not completed"
		if done {
			state = "completed"
		}

		out := cmd.OutOrStdout()
		if !found {
			fmt.Fprintf(out, "%s: %s\n", id, state)
			return nil
		}
		fmt.Fprintf(out, "%s (%s): %s\n", step.Title, id, state)
		fmt.Fprintf(out, "%s: %d%% complete\n", r.Title, e.progress.CompletionRatio(r))
		return nil
	},
}
