// Package orchestrator sequences the two-stage icon pipeline: prompt
// refinement by a style expert, then image synthesis with the refined prompt.
//
// Each icon is a single-shot, strictly sequential flow with no internal
// retry. The stages communicate only through this package; the refiner never
// sees the synthesizer and vice versa.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iconforge/iconforge/internal/imaging"
	"github.com/iconforge/iconforge/internal/refiner"
	"github.com/iconforge/iconforge/internal/synthesizer"
	"github.com/iconforge/iconforge/internal/usage"
	"github.com/iconforge/iconforge/internal/validator"
)

// IconRequest is the caller's input for one batch of icons.
// ArtStyle and Description must be non-empty and Count at least 1; both are
// the caller's responsibility.
type IconRequest struct {
	ArtStyle    string
	Description string
	Count       int
}

// IconResult describes one finished icon.
type IconResult struct {
	RefinedPrompt   string
	ImageReference  string
	RefinerName     string
	SynthesizerName string
	RevisedPrompt   string
	FromCache       bool
	Latency         time.Duration
}

// BatchResult aggregates the independent invocations of a Count > 1 request.
type BatchResult struct {
	Results   []IconResult
	Errors    []error
	Succeeded int
	Failed    int
}

// ArtifactWriter stores finished icon bytes and returns a reference to them.
type ArtifactWriter interface {
	Write(artStyle, description string, data []byte) (string, error)
}

// PromptCache lets the orchestrator skip the refinement call when an earlier
// run already produced a prompt for the same style and description.
type PromptCache interface {
	Get(ctx context.Context, artStyle, description string) (string, bool, error)
	Save(ctx context.Context, artStyle, description, prompt, provider string) error
}

// Config tunes one Orchestrator. Zero values give a pipeline that validates
// prompts, produces 128x128 icons, and neither caches nor writes files.
type Config struct {
	// IconSize is the edge length of the final square icon in pixels.
	IconSize int
	// SynthSize is the resolution requested from the synthesizer.
	SynthSize string
	// SkipValidation disables the refined-prompt usability check.
	SkipValidation bool
	// FailFast aborts a batch on the first failed icon.
	FailFast bool
	// Writer stores finished icons. When nil, URL results are passed through
	// as the image reference and binary results are an error.
	Writer ArtifactWriter
	// Cache is consulted before refinement and updated after it. Optional.
	Cache PromptCache
	// Usage accumulates token and image counts across both stages. Optional.
	Usage *usage.Tracker
}

// Orchestrator wires one refiner and one synthesizer into the icon pipeline.
type Orchestrator struct {
	refiner     refiner.Refiner
	synthesizer synthesizer.ImageSynthesizer
	validator   *validator.Validator
	config      Config
	httpClient  *http.Client
}

// New creates an Orchestrator over the given collaborators.
func New(ref refiner.Refiner, synth synthesizer.ImageSynthesizer, config Config) *Orchestrator {
	if config.IconSize <= 0 {
		config.IconSize = imaging.DefaultIconSize
	}
	if config.SynthSize == "" {
		config.SynthSize = synthesizer.DefaultSize
	}

	o := &Orchestrator{
		refiner:     ref,
		synthesizer: synth,
		config:      config,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}
	if !config.SkipValidation {
		o.validator = validator.New()
	}
	return o
}

// ProduceIcon runs the pipeline once: refine, synthesize, reduce, store.
// On a refinement failure it returns a *RefinementError and never calls the
// synthesizer; on a synthesis failure it returns a *SynthesisError carrying
// the refined prompt. There is no fallback prompt and no retry.
func (o *Orchestrator) ProduceIcon(ctx context.Context, req IconRequest) (*IconResult, error) {
	result := &IconResult{}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	prompt, fromCache, err := o.refinePrompt(ctx, req, result)
	if err != nil {
		return nil, &RefinementError{Err: err}
	}
	result.RefinedPrompt = prompt
	result.FromCache = fromCache

	synthRes, err := o.synthesizer.Synthesize(ctx, synthesizer.Request{
		Prompt: prompt,
		Size:   o.config.SynthSize,
	})
	if err != nil {
		return nil, &SynthesisError{RefinedPrompt: prompt, Err: err}
	}
	o.config.Usage.AddImages(synthRes.ImagesGenerated)
	result.SynthesizerName = synthRes.ProviderName
	result.RevisedPrompt = synthRes.RevisedPrompt

	reference, err := o.finishArtifact(ctx, req, synthRes)
	if err != nil {
		return nil, &SynthesisError{RefinedPrompt: prompt, Err: err}
	}
	result.ImageReference = reference

	return result, nil
}

// ProduceBatch runs Count fully independent ProduceIcon invocations in
// sequence. By default one failed icon does not affect the others; with
// FailFast the batch stops at the first error. Successes and failures are
// aggregated separately.
func (o *Orchestrator) ProduceBatch(ctx context.Context, req IconRequest) *BatchResult {
	count := req.Count
	if count < 1 {
		count = 1
	}

	batch := &BatchResult{
		Results: make([]IconResult, 0, count),
		Errors:  make([]error, 0),
	}

	for i := 0; i < count; i++ {
		res, err := o.ProduceIcon(ctx, req)
		if err != nil {
			batch.Errors = append(batch.Errors, err)
			batch.Failed++
			if o.config.FailFast {
				break
			}
			continue
		}
		batch.Results = append(batch.Results, *res)
		batch.Succeeded++
	}

	return batch
}

// refinePrompt returns a usable prompt for the request, consulting the cache
// first when one is configured.
func (o *Orchestrator) refinePrompt(ctx context.Context, req IconRequest, result *IconResult) (string, bool, error) {
	if o.config.Cache != nil {
		cached, found, err := o.config.Cache.Get(ctx, req.ArtStyle, req.Description)
		if err == nil && found {
			result.RefinerName = "cache"
			return cached, true, nil
		}
	}

	refRes, err := o.refiner.Refine(ctx, refiner.StyleRequest{
		ArtStyle:    req.ArtStyle,
		Description: req.Description,
		TargetSize:  o.config.IconSize,
	})
	if err != nil {
		return "", false, err
	}
	o.config.Usage.AddTokens(refRes.PromptTokens, refRes.CompletionTokens)
	result.RefinerName = refRes.ProviderName

	if o.validator != nil {
		if ok, verr := o.validator.IsUsable(refRes.Prompt, req.Description); !ok {
			return "", false, fmt.Errorf("unusable refined prompt: %w", verr)
		}
	}

	if o.config.Cache != nil {
		// Cache write failures must not fail the request.
		_ = o.config.Cache.Save(ctx, req.ArtStyle, req.Description, refRes.Prompt, refRes.ProviderName)
	}

	return refRes.Prompt, false, nil
}

// finishArtifact reduces the synthesis output to the final icon and returns
// its reference. Without a writer, URL results pass through untouched.
func (o *Orchestrator) finishArtifact(ctx context.Context, req IconRequest, synthRes *synthesizer.Result) (string, error) {
	data := synthRes.ImageData

	if o.config.Writer == nil {
		if synthRes.ImageURL != "" {
			return synthRes.ImageURL, nil
		}
		return "", fmt.Errorf("no artifact writer configured for binary image data")
	}

	if len(data) == 0 {
		if synthRes.ImageURL == "" {
			return "", fmt.Errorf("synthesizer returned neither image data nor URL")
		}
		downloaded, err := o.downloadImage(ctx, synthRes.ImageURL)
		if err != nil {
			return "", err
		}
		data = downloaded
	}

	icon, err := imaging.ResizeToIcon(data, o.config.IconSize)
	if err != nil {
		return "", err
	}

	return o.config.Writer.Write(req.ArtStyle, req.Description, icon)
}

func (o *Orchestrator) downloadImage(ctx context.Context, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("image download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
