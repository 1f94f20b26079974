package refiner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/iconforge/iconforge/internal/postprocess"
)

// GeminiRefiner asks a Google Gemini model to act as the style expert.
type GeminiRefiner struct {
	apiKey string
	model  string
}

// NewGeminiRefiner creates a refiner backed by the Gemini API.
// An empty model selects gemini-1.5-flash.
func NewGeminiRefiner(apiKey, model string) *GeminiRefiner {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiRefiner{apiKey: apiKey, model: model}
}

func (r *GeminiRefiner) Name() string {
	return "gemini"
}

func (r *GeminiRefiner) Refine(ctx context.Context, req StyleRequest) (*Result, error) {
	result := &Result{ProviderName: r.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	client, err := genai.NewClient(ctx, option.WithAPIKey(r.apiKey))
	if err != nil {
		return result, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	genModel := client.GenerativeModel(r.model)
	genModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(styleExpertSystemPrompt)},
	}

	resp, err := genModel.GenerateContent(ctx, genai.Text(buildStylePrompt(req)))
	if err != nil {
		return result, fmt.Errorf("gemini refinement request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return result, fmt.Errorf("empty response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	result.Prompt = postprocess.Clean(sb.String())
	if resp.UsageMetadata != nil {
		result.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		result.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	result.Metadata = map[string]string{"model": r.model}

	if result.Prompt == "" {
		return result, fmt.Errorf("gemini returned no usable prompt text")
	}
	return result, nil
}

func (r *GeminiRefiner) IsAvailable(ctx context.Context) error {
	if r.apiKey == "" {
		return fmt.Errorf("Gemini API key not configured")
	}
	return nil
}
