package synthesizer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// StabilitySynthesizer generates images with the Stability AI text-to-image API.
type StabilitySynthesizer struct {
	apiKey  string
	baseURL string
	engine  string
	client  *http.Client
}

type stabilityTextPrompt struct {
	Text string `json:"text"`
}

type stabilityRequest struct {
	TextPrompts []stabilityTextPrompt `json:"text_prompts"`
	Width       int                   `json:"width"`
	Height      int                   `json:"height"`
	Samples     int                   `json:"samples"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64       string `json:"base64"`
		FinishReason string `json:"finishReason"`
	} `json:"artifacts"`
}

// NewStabilitySynthesizer creates a synthesizer backed by the Stability AI API.
// An empty engine selects stable-diffusion-xl-1024-v1-0.
func NewStabilitySynthesizer(apiKey, baseURL, engine string) *StabilitySynthesizer {
	if baseURL == "" {
		baseURL = "https://api.stability.ai"
	}
	if engine == "" {
		engine = "stable-diffusion-xl-1024-v1-0"
	}
	return &StabilitySynthesizer{
		apiKey:  apiKey,
		baseURL: baseURL,
		engine:  engine,
		client:  &http.Client{Timeout: 180 * time.Second},
	}
}

func (s *StabilitySynthesizer) Name() string {
	return "stability"
}

func (s *StabilitySynthesizer) Synthesize(ctx context.Context, req Request) (*Result, error) {
	result := &Result{ProviderName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if s.apiKey == "" {
		return result, fmt.Errorf("Stability API key required")
	}

	width, height, err := parseSize(req.Size)
	if err != nil {
		return result, err
	}

	body := stabilityRequest{
		TextPrompts: []stabilityTextPrompt{{Text: req.Prompt}},
		Width:       width,
		Height:      height,
		Samples:     1,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return result, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/generation/%s/text-to-image", s.baseURL, s.engine)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return result, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return result, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return result, fmt.Errorf("API returned status %d: %v", resp.StatusCode, errResp)
	}

	var stabilityResp stabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&stabilityResp); err != nil {
		return result, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(stabilityResp.Artifacts) == 0 {
		return result, fmt.Errorf("no image returned by stability")
	}

	data, err := base64.StdEncoding.DecodeString(stabilityResp.Artifacts[0].Base64)
	if err != nil {
		return result, fmt.Errorf("failed to decode image data: %w", err)
	}

	result.ImageData = data
	result.ImagesGenerated = 1
	result.Metadata = map[string]string{"engine": s.engine, "size": req.Size}
	return result, nil
}

func (s *StabilitySynthesizer) IsAvailable(ctx context.Context) error {
	if s.apiKey == "" {
		return fmt.Errorf("Stability API key not configured")
	}
	return nil
}

// parseSize splits a "WxH" size string into integer dimensions.
func parseSize(size string) (int, int, error) {
	if size == "" {
		size = DefaultSize
	}
	parts := strings.SplitN(size, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q, want WxH", size)
	}
	width, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", size, err)
	}
	height, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", size, err)
	}
	return width, height, nil
}
