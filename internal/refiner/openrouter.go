package refiner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/iconforge/iconforge/internal/postprocess"
)

// DefaultOpenRouterModels are rotated when no explicit model list is given.
var DefaultOpenRouterModels = []string{
	"google/gemini-2.0-flash-exp:free",
	"qwen/qwen2.5-72b-instruct:free",
	"mistralai/mistral-nemo:free",
	"meta-llama/llama-3.1-8b-instruct:free",
}

// OpenRouterRefiner uses an OpenRouter-hosted model as the style expert.
type OpenRouterRefiner struct {
	apiKey  string
	baseURL string
	models  []string
	client  *http.Client
}

// NewOpenRouterRefiner creates a refiner backed by the OpenRouter API.
func NewOpenRouterRefiner(apiKey, baseURL string, models []string) *OpenRouterRefiner {
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	if len(models) == 0 {
		models = DefaultOpenRouterModels
	}
	return &OpenRouterRefiner{
		apiKey:  apiKey,
		baseURL: baseURL,
		models:  models,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (r *OpenRouterRefiner) Name() string {
	return "openrouter"
}

func (r *OpenRouterRefiner) getRandomModel() string {
	if len(r.models) == 0 {
		return DefaultOpenRouterModels[0]
	}
	return r.models[rand.Intn(len(r.models))]
}

func (r *OpenRouterRefiner) Refine(ctx context.Context, req StyleRequest) (*Result, error) {
	result := &Result{ProviderName: r.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if r.apiKey == "" {
		return result, fmt.Errorf("OpenRouter API key required")
	}

	model := r.getRandomModel()

	openrouterReq := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": styleExpertSystemPrompt},
			{"role": "user", "content": buildStylePrompt(req)},
		},
		"max_tokens": 1024,
	}

	jsonData, err := json.Marshal(openrouterReq)
	if err != nil {
		return result, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/chat/completions", r.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return result, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", r.apiKey))
	httpReq.Header.Set("HTTP-Referer", "https://iconforge.local")
	httpReq.Header.Set("X-Title", "IconForge")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return result, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return result, fmt.Errorf("API returned status %d: %v", resp.StatusCode, errResp)
	}

	var openrouterResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&openrouterResp); err != nil {
		return result, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(openrouterResp.Choices) == 0 {
		return result, fmt.Errorf("empty response from API")
	}

	result.Prompt = postprocess.Clean(openrouterResp.Choices[0].Message.Content)
	result.PromptTokens = openrouterResp.Usage.PromptTokens
	result.CompletionTokens = openrouterResp.Usage.CompletionTokens
	result.Metadata = map[string]string{"model": model}

	if result.Prompt == "" {
		return result, fmt.Errorf("openrouter returned no usable prompt text")
	}
	return result, nil
}

func (r *OpenRouterRefiner) IsAvailable(ctx context.Context) error {
	if r.apiKey == "" {
		return fmt.Errorf("OpenRouter API key not configured")
	}
	return nil
}
