package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenAI completes prompts with the chat completions API. It also serves
// OpenRouter and other OpenAI-compatible gateways through BaseURL.
type OpenAI struct {
	client *openai.Client
	name   string
	model  string
}

// NewOpenAI creates a provider for the OpenAI API, or for a compatible
// endpoint when cfg.BaseURL is set.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	return newOpenAICompatible(ProviderOpenAI, cfg.APIKey, cfg.BaseURL, modelFor(ProviderOpenAI, cfg.Model))
}

// NewOpenRouter creates a provider for OpenRouter. Model ids are
// "vendor/model" and are sent unchanged.
func NewOpenRouter(cfg OpenRouterConfig) (*OpenAI, error) {
	base := cfg.BaseURL
	if base == "" {
		base = defaultOpenRouterBaseURL
	}
	return newOpenAICompatible(ProviderOpenRouter, cfg.APIKey, base, cfg.Model)
}

func newOpenAICompatible(name, key, baseURL, model string) (*OpenAI, error) {
	if key == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}
	c := openai.DefaultConfig(key)
	if baseURL != "" {
		c.BaseURL = baseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(c), name: name, model: model}, nil
}

func (o *OpenAI) Model() string { return o.model }

func (o *OpenAI) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	req := openai.ChatCompletionRequest{
		Model:               o.model,
		MaxCompletionTokens: p.MaxTokens,
		Temperature:         float32(p.Temperature),
	}
	if p.System != "" {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: p.System})
	}
	req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: p.User})

	if p.Format != nil {
		schema, err := json.Marshal(p.Format.Schema)
		if err != nil {
			return nil, fmt.Errorf("marshal %s schema: %w", p.Format.Name, err)
		}
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   p.Format.Name,
				Schema: json.RawMessage(schema),
				Strict: true,
			},
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, classify(o.name, openAIStatus(err), err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, emptyAnswer(o.name)
	}

	choice := resp.Choices[0]
	return &Completion{
		JSON:         json.RawMessage(choice.Message.Content),
		Model:        resp.Model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Truncated:    choice.FinishReason == openai.FinishReasonLength,
	}, nil
}

func openAIStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
