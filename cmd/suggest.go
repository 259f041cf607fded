package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/suggest"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <topic>",
	Short: "Ask the configured LLM to draft steps for a custom roadmap",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		existing, _ := cmd.Flags().GetStringSlice("step")
		topic := strings.Join(args, " ")

		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		provider, err := llm.NewFromEnv(ctx, e.store.EventRepo(), e.logger)
		if errors.Is(err, llm.ErrNotConfigured) {
			return fmt.Errorf("%w: set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY", err)
		}
		if err != nil {
			return err
		}

		steps, err := suggest.NewService(provider, suggest.DefaultConfig()).Suggest(ctx, topic, existing)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Suggested steps for %s:\n", topic)
		for i, s := range steps {
			fmt.Fprintf(out, "%2d. %s\n", i+1, s)
		}
		return nil
	},
}

func init() {
	suggestCmd.Flags().StringSliceP("step", "s", nil, "Step you already plan to take (repeatable)")
}
