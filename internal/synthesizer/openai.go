package synthesizer

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAISynthesizer generates images with the OpenAI images API.
type OpenAISynthesizer struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAISynthesizer creates a synthesizer backed by the OpenAI images API.
// An empty model selects DALL-E 3.
func NewOpenAISynthesizer(apiKey, model string) *OpenAISynthesizer {
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	return &OpenAISynthesizer{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClient(apiKey),
	}
}

func (s *OpenAISynthesizer) Name() string {
	return "openai"
}

// Synthesize requests a single image as base64 and returns the decoded bytes.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, req Request) (*Result, error) {
	result := &Result{ProviderName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	size := req.Size
	if size == "" {
		size = DefaultSize
	}

	resp, err := s.client.CreateImage(ctx, openai.ImageRequest{
		Model:          s.model,
		Prompt:         req.Prompt,
		Size:           size,
		Quality:        openai.CreateImageQualityStandard,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
		N:              1,
	})
	if err != nil {
		return result, fmt.Errorf("openai image request failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return result, fmt.Errorf("no image returned by openai")
	}

	item := resp.Data[0]
	result.RevisedPrompt = item.RevisedPrompt
	result.Metadata = map[string]string{"model": s.model, "size": size}

	switch {
	case item.B64JSON != "":
		data, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return result, fmt.Errorf("failed to decode image data: %w", err)
		}
		result.ImageData = data
	case item.URL != "":
		result.ImageURL = item.URL
	default:
		return result, fmt.Errorf("openai returned neither image data nor URL")
	}

	result.ImagesGenerated = 1
	return result, nil
}

func (s *OpenAISynthesizer) IsAvailable(ctx context.Context) error {
	if s.apiKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}
