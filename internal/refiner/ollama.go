package refiner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/iconforge/iconforge/internal/postprocess"
)

// OllamaRefiner uses a local Ollama model as the style expert.
type OllamaRefiner struct {
	model   string
	baseURL string
	client  *http.Client
}

type ollamaRequest struct {
	Model  string `json:"model"`
	System string `json:"system"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// NewOllamaRefiner creates a refiner backed by a local Ollama model.
func NewOllamaRefiner(model, baseURL string) *OllamaRefiner {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaRefiner{
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (r *OllamaRefiner) Name() string {
	return "ollama"
}

// Refine sends the style request to the local model and returns the cleaned
// prompt text.
func (r *OllamaRefiner) Refine(ctx context.Context, req StyleRequest) (*Result, error) {
	result := &Result{ProviderName: r.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	reqBody := ollamaRequest{
		Model:  r.model,
		System: styleExpertSystemPrompt,
		Prompt: buildStylePrompt(req),
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return result, fmt.Errorf("failed to marshal refinement request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/generate", r.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return result, fmt.Errorf("failed to create refinement request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return result, fmt.Errorf("refinement request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var ollamaResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return result, fmt.Errorf("failed to decode refinement response: %w", err)
	}

	result.Prompt = postprocess.Clean(ollamaResp.Response)
	result.PromptTokens = ollamaResp.PromptEvalCount
	result.CompletionTokens = ollamaResp.EvalCount
	result.Metadata = map[string]string{"model": r.model}

	if result.Prompt == "" {
		return result, fmt.Errorf("ollama returned no usable prompt text")
	}
	return result, nil
}

func (r *OllamaRefiner) IsAvailable(ctx context.Context) error {
	if r.model == "" {
		return fmt.Errorf("ollama model not configured")
	}
	return nil
}
