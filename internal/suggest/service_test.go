package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/pathwise/internal/llm"
)

// stubProvider answers from a queue of completions or errors.
type stubProvider struct {
	answers []any // *llm.Completion or error
	prompts []llm.Prompt
}

func answering(answers ...any) *stubProvider {
	return &stubProvider{answers: answers}
}

func steps(raw string) *llm.Completion {
	return &llm.Completion{JSON: json.RawMessage(raw), Model: "stub"}
}

func (s *stubProvider) Model() string { return "stub" }

func (s *stubProvider) Complete(_ context.Context, p llm.Prompt) (*llm.Completion, error) {
	s.prompts = append(s.prompts, p)
	if len(s.answers) == 0 {
		return nil, &llm.Error{Provider: "stub", Kind: llm.KindEmpty}
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	if err, ok := a.(error); ok {
		return nil, err
	}
	return a.(*llm.Completion), nil
}

func TestSuggest_ReturnsSteps(t *testing.T) {
	stub := answering(steps(`{"steps":["Learn camera basics","Composition","Lighting","Editing"]}`))
	svc := NewService(stub, DefaultConfig())

	got, err := svc.Suggest(t.Context(), "  Photography ", nil)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	want := []string{"Learn camera basics", "Composition", "Lighting", "Editing"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("steps = %q, want %q", got, want)
	}

	p := stub.prompts[0]
	if p.Purpose != Purpose {
		t.Errorf("purpose = %q", p.Purpose)
	}
	if p.Format == nil || p.Format.Name != "roadmap-steps" {
		t.Errorf("prompt should carry the steps format, got %+v", p.Format)
	}
	if !strings.Contains(p.User, "Topic: Photography\n") {
		t.Errorf("user message missing trimmed topic: %q", p.User)
	}
}

func TestSuggest_PassesExistingSteps(t *testing.T) {
	stub := answering(steps(`{"steps":["Composition"]}`))
	_, err := NewService(stub, DefaultConfig()).Suggest(t.Context(), "Photography", []string{"Composition", "  ", "Lighting"})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if msg := stub.prompts[0].User; !strings.Contains(msg, "1. Composition\n2. Lighting\n") {
		t.Errorf("existing steps not listed in order: %q", msg)
	}
}

func TestSuggest_NormalizesOutput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSteps = 3
	stub := answering(steps(`{"steps":[" Composition ","composition","Lighting","Editing","Printing"]}`))

	got, err := NewService(stub, cfg).Suggest(t.Context(), "Photography", nil)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if strings.Join(got, "|") != "Composition|Lighting|Editing" {
		t.Errorf("steps = %q", got)
	}
}

func TestSuggest_InvalidAnswerAskedOnce(t *testing.T) {
	stub := answering(steps(`{"steps":[]}`), steps(`{"steps":["Composition"]}`))
	got, err := NewService(stub, DefaultConfig()).Suggest(t.Context(), "Photography", nil)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(stub.prompts) != 2 || len(got) != 1 {
		t.Fatalf("calls = %d, steps = %q", len(stub.prompts), got)
	}
}

func TestSuggest_Errors(t *testing.T) {
	tests := []struct {
		name      string
		topic     string
		answers   []any
		want      error
		wantCalls int
	}{
		{"blank topic skips the provider", "   ", nil, ErrEmptyTopic, 0},
		{"only blank steps", "Photography", []any{steps(`{"steps":["  "]}`), steps(`{"steps":[" "]}`)}, ErrNoSteps, 2},
		{"truncated", "Photography", []any{&llm.Completion{JSON: json.RawMessage(`{"steps":[`), Truncated: true}}, ErrTruncated, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := answering(tt.answers...)
			_, err := NewService(stub, DefaultConfig()).Suggest(t.Context(), tt.topic, nil)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if len(stub.prompts) != tt.wantCalls {
				t.Errorf("calls = %d, want %d", len(stub.prompts), tt.wantCalls)
			}
		})
	}
}

func TestSuggest_ProviderError(t *testing.T) {
	stub := answering(&llm.Error{Provider: "stub", Kind: llm.KindRejected, Status: 401})
	_, err := NewService(stub, DefaultConfig()).Suggest(t.Context(), "Photography", nil)

	var perr *llm.Error
	if !errors.As(err, &perr) || perr.Kind != llm.KindRejected {
		t.Fatalf("expected rejected llm.Error, got %v", err)
	}
	if len(stub.prompts) != 1 {
		t.Errorf("provider errors are not re-asked, calls = %d", len(stub.prompts))
	}
}

func TestDecodeSteps(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantErr   bool
		wantSteps int // usable steps reported on failure
	}{
		{"valid", `{"steps":["Composition","Lighting"]}`, false, 0},
		{"missing steps", `{"level":"beginner"}`, true, 0},
		{"wrong item type", `{"steps":[1,2]}`, true, 0},
		{"empty list", `{"steps":[]}`, true, 0},
		{"empty item", `{"steps":["Composition",""]}`, true, 1},
		{"extra property", `{"steps":["a","b"],"notes":"x"}`, true, 2},
		{"malformed JSON", `{not json}`, true, 0},
		{"empty body", ``, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeSteps(json.RawMessage(tt.raw), 0)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeSteps() err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var invalid *InvalidError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidError, got %T", err)
			}
			if string(invalid.Raw) != tt.raw {
				t.Errorf("Raw = %q, want %q", invalid.Raw, tt.raw)
			}
			if invalid.Steps != tt.wantSteps {
				t.Errorf("Steps = %d, want %d", invalid.Steps, tt.wantSteps)
			}
		})
	}
}
