package llm

import (
	"context"
	"encoding/json"

	"github.com/abhisek/pathwise/internal/store"
)

// result is one queued answer of a scripted provider.
type result struct {
	json json.RawMessage
	err  error
}

// scripted answers prompts from a queue and records what it was sent.
type scripted struct {
	queue   []result
	prompts []Prompt
}

func (s *scripted) Model() string { return "scripted" }

func (s *scripted) Complete(_ context.Context, p Prompt) (*Completion, error) {
	s.prompts = append(s.prompts, p)
	if len(s.queue) == 0 {
		return nil, &Error{Provider: "scripted", Kind: KindEmpty}
	}
	r := s.queue[0]
	s.queue = s.queue[1:]
	if r.err != nil {
		return nil, r.err
	}
	return &Completion{JSON: r.json, Model: "scripted-1", InputTokens: 12, OutputTokens: 7}, nil
}

// recordingRepo captures appended events.
type recordingRepo struct {
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func (r *recordingRepo) QueryLLMEvents(context.Context, store.QueryOpts) ([]store.LLMRequestEventRecord, error) {
	return nil, nil
}

func (r *recordingRepo) GetLLMEvent(context.Context, int) (*store.LLMRequestEventRecord, error) {
	return nil, nil
}

func (r *recordingRepo) LLMUsageByPurpose(context.Context) ([]store.LLMUsageStats, error) {
	return nil, nil
}

func (r *recordingRepo) LLMUsageByModel(context.Context) ([]store.LLMModelUsage, error) {
	return nil, nil
}
