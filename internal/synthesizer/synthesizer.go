// Package synthesizer implements the image-generation stage of the icon
// pipeline. A synthesizer turns a refined prompt into image data or a
// retrievable image URL.
package synthesizer

import (
	"context"
	"time"
)

// DefaultSize is the generation resolution requested from providers.
// The final icon is downscaled from this afterwards.
const DefaultSize = "1024x1024"

// Request carries the prompt for one synthesis call.
type Request struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
}

// Result is the outcome of a single synthesis call. Providers fill either
// ImageData or ImageURL; callers needing bytes must download URL results.
type Result struct {
	ProviderName    string            `json:"provider_name"`
	ImageData       []byte            `json:"-"`
	ImageURL        string            `json:"image_url,omitempty"`
	RevisedPrompt   string            `json:"revised_prompt,omitempty"`
	ImagesGenerated int               `json:"images_generated"`
	Latency         time.Duration     `json:"latency"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// ImageSynthesizer generates one image per call from a prompt string.
type ImageSynthesizer interface {
	Name() string
	Synthesize(ctx context.Context, req Request) (*Result, error)
	IsAvailable(ctx context.Context) error
}
