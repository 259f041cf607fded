package suggest

import (
	"fmt"
	"strings"
)

const systemPrompt = `You design self-study learning roadmaps. Given a topic, you break it into a short ordered list of concrete milestones a motivated beginner can tick off one at a time.`

func buildUserMessage(topic string, existing []string, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", topic)

	if len(existing) > 0 {
		b.WriteString("\nThe learner already listed these steps:\n")
		for i, s := range existing {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s)
		}
		b.WriteString("Keep them, in order, and fill in what is missing around them.\n")
	}

	fmt.Fprintf(&b, `
Instructions:
1. Return between %d and %d steps, ordered from first to last.
2. Each step is a short title of 2-8 words. No numbering, no trailing punctuation.
3. Each step must be specific enough that the learner knows when it is done.
4. Plain text only. No markdown.`, cfg.MinSteps, cfg.MaxSteps)

	return b.String()
}
