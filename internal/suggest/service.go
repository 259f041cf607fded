// Package suggest asks an LLM to draft the steps of a custom roadmap.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/pathwise/internal/llm"
)

// Purpose labels suggestion requests in the LLM event log.
const Purpose = "roadmap-steps"

var (
	ErrEmptyTopic = errors.New("topic is empty")
	ErrNoSteps    = errors.New("no usable steps in suggestion")
	ErrTruncated  = errors.New("suggestion cut off at the token limit")
)

// Service drafts roadmap steps for a topic.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a suggestion service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Suggest returns ordered step titles for topic. Steps the learner already
// wrote are passed as context. Blank and duplicate suggestions are dropped
// and the list is capped at the configured maximum. An answer that fails
// the steps schema is asked for once more.
func (s *Service) Suggest(ctx context.Context, topic string, existing []string) ([]string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	var kept []string
	for _, e := range existing {
		if e = strings.TrimSpace(e); e != "" {
			kept = append(kept, e)
		}
	}

	prompt := llm.Prompt{
		Purpose:     Purpose,
		System:      systemPrompt,
		User:        buildUserMessage(topic, kept, s.cfg),
		Format:      stepsFormat(),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	var err error
	for range 2 {
		var steps []string
		steps, err = s.ask(ctx, prompt)
		var invalid *InvalidError
		if !errors.As(err, &invalid) {
			return steps, err
		}
	}
	return nil, err
}

func (s *Service) ask(ctx context.Context, p llm.Prompt) ([]string, error) {
	c, err := s.provider.Complete(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("step suggestion: %w", err)
	}
	if c.Truncated {
		return nil, ErrTruncated
	}
	return decodeSteps(c.JSON, s.cfg.MaxSteps)
}
