package refiner

import (
	"context"
	"fmt"
	"time"

	anthropic "github.com/liushuangls/go-anthropic"

	"github.com/iconforge/iconforge/internal/postprocess"
)

// ClaudeRefiner asks an Anthropic Claude model to act as the style expert.
type ClaudeRefiner struct {
	apiKey string
	model  string
}

// NewClaudeRefiner creates a refiner backed by the Anthropic messages API.
// An empty model selects Claude 3 Haiku.
func NewClaudeRefiner(apiKey, model string) *ClaudeRefiner {
	if model == "" {
		model = anthropic.ModelClaude3Haiku20240307
	}
	return &ClaudeRefiner{apiKey: apiKey, model: model}
}

func (r *ClaudeRefiner) Name() string {
	return "claude"
}

func (r *ClaudeRefiner) Refine(ctx context.Context, req StyleRequest) (*Result, error) {
	result := &Result{ProviderName: r.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	client := anthropic.NewClient(r.apiKey)

	resp, err := client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:  r.model,
		System: styleExpertSystemPrompt,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(buildStylePrompt(req)),
		},
		MaxTokens: 1024,
	})
	if err != nil {
		return result, fmt.Errorf("claude refinement request failed: %w", err)
	}

	result.Prompt = postprocess.Clean(resp.GetFirstContentText())
	result.PromptTokens = resp.Usage.InputTokens
	result.CompletionTokens = resp.Usage.OutputTokens
	result.Metadata = map[string]string{"model": r.model}

	if result.Prompt == "" {
		return result, fmt.Errorf("claude returned no usable prompt text")
	}
	return result, nil
}

func (r *ClaudeRefiner) IsAvailable(ctx context.Context) error {
	if r.apiKey == "" {
		return fmt.Errorf("Anthropic API key not configured")
	}
	return nil
}
