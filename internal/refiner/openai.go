package refiner

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/iconforge/iconforge/internal/postprocess"
)

// OpenAIRefiner asks an OpenAI chat model to act as the style expert.
type OpenAIRefiner struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAIRefiner creates a refiner backed by the OpenAI chat completions API.
// An empty model selects gpt-4o.
func NewOpenAIRefiner(apiKey, model string) *OpenAIRefiner {
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIRefiner{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClient(apiKey),
	}
}

func (r *OpenAIRefiner) Name() string {
	return "openai"
}

func (r *OpenAIRefiner) Refine(ctx context.Context, req StyleRequest) (*Result, error) {
	result := &Result{ProviderName: r.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: styleExpertSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildStylePrompt(req)},
		},
		MaxTokens:   1024,
		Temperature: 0.7,
	})
	if err != nil {
		return result, fmt.Errorf("openai refinement request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return result, fmt.Errorf("empty response from openai")
	}

	result.Prompt = postprocess.Clean(resp.Choices[0].Message.Content)
	result.PromptTokens = resp.Usage.PromptTokens
	result.CompletionTokens = resp.Usage.CompletionTokens
	result.Metadata = map[string]string{"model": r.model}

	if result.Prompt == "" {
		return result, fmt.Errorf("openai returned no usable prompt text")
	}
	return result, nil
}

func (r *OpenAIRefiner) IsAvailable(ctx context.Context) error {
	if r.apiKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}
