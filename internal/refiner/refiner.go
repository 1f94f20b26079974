// Package refiner implements the style-expert stage of the icon pipeline.
// It turns a raw (art style, description) pair into a single detailed prompt
// optimized for image synthesis.
package refiner

import (
	"context"
	"time"
)

// DefaultIconSize is the pixel edge length the refined prompt targets.
const DefaultIconSize = 128

// StyleRequest carries the raw user input for one refinement call.
// Both ArtStyle and Description must be non-empty; that is the caller's
// responsibility.
type StyleRequest struct {
	ArtStyle    string `json:"art_style"`
	Description string `json:"description"`
	TargetSize  int    `json:"target_size"`
}

// Result is the outcome of a single refinement call.
type Result struct {
	ProviderName     string            `json:"provider_name"`
	Prompt           string            `json:"prompt"`
	PromptTokens     int               `json:"prompt_tokens"`
	CompletionTokens int               `json:"completion_tokens"`
	Latency          time.Duration     `json:"latency"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// Refiner produces an image-generation prompt from a style request.
// Given identical inputs a Refiner guarantees a valid prompt, not the same
// prompt each time; the underlying models are not deterministic.
type Refiner interface {
	Name() string
	Refine(ctx context.Context, req StyleRequest) (*Result, error)
	IsAvailable(ctx context.Context) error
}
