/*
Copyright © 2026 The IconForge Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/iconforge/iconforge/internal"
	"github.com/iconforge/iconforge/internal/artifact"
	"github.com/iconforge/iconforge/internal/config"
	"github.com/iconforge/iconforge/internal/orchestrator"
	"github.com/iconforge/iconforge/internal/store"
	"github.com/iconforge/iconforge/internal/usage"
)

var (
	genStyle        string
	genDescription  string
	genCount        int
	genRefiner      string
	genSynthesizer  string
	genOutputDir    string
	genIconSize     int
	genSynthSize    string
	genDBPath       string
	genNoCache      bool
	genFailFast     bool
	genRefinerModel string
	genSynthModel   string
	genOllamaURL    string
	genConfigName   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate icons in a given art style",
	Long: `Generate one or more square icons for a description in a given art style.

A style-expert LLM first refines the description into a detailed image
prompt, then an image model synthesizes the picture, which is reduced to
icon size and written to the output directory.

Examples:
  iconforge generate -s "pixel art" -d "a dancing baby shark"
  iconforge generate -s watercolor -d "a mountain sunrise" -n 4
  iconforge generate -s flat -d "a gear" --refiner claude --synthesizer stability`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&genStyle, "style", "s", "", "art style for the icon (required)")
	generateCmd.Flags().StringVarP(&genDescription, "description", "d", "", "what the icon should depict (required)")
	generateCmd.Flags().IntVarP(&genCount, "count", "n", 1, "number of icons to generate")
	generateCmd.Flags().StringVar(&genRefiner, "refiner", "openai", "prompt refiner: openai, gemini, claude, ollama, openrouter")
	generateCmd.Flags().StringVar(&genSynthesizer, "synthesizer", "openai", "image synthesizer: openai, stability")
	generateCmd.Flags().StringVarP(&genOutputDir, "output", "o", "", "output directory for icons (default \"output\")")
	generateCmd.Flags().IntVar(&genIconSize, "size", 0, "icon edge length in pixels (default 128)")
	generateCmd.Flags().StringVar(&genSynthSize, "synth-size", "", "resolution requested from the synthesizer (default \"1024x1024\")")
	generateCmd.Flags().StringVar(&genDBPath, "db", "./data/iconforge.db", "path to the SQLite database")
	generateCmd.Flags().BoolVar(&genNoCache, "no-cache", false, "skip the prompt cache and job history database")
	generateCmd.Flags().BoolVar(&genFailFast, "fail-fast", false, "stop the batch at the first failed icon")
	generateCmd.Flags().StringVar(&genRefinerModel, "refiner-model", "", "override the refiner model")
	generateCmd.Flags().StringVar(&genSynthModel, "synth-model", "", "override the synthesizer model or engine")
	generateCmd.Flags().StringVar(&genOllamaURL, "ollama-url", "", "override the Ollama base URL")
	generateCmd.Flags().StringVar(&genConfigName, "config", "iconforge", "config file name (without extension)")

	generateCmd.MarkFlagRequired("style")
	generateCmd.MarkFlagRequired("description")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if genCount < 1 {
		return fmt.Errorf("count must be at least 1, got %d", genCount)
	}

	cfg, err := config.Load(genConfigName)
	if err != nil {
		return err
	}
	if genOllamaURL != "" {
		cfg.Ollama.BaseURL = genOllamaURL
	}

	ref, err := buildRefiner(genRefiner, genRefinerModel, cfg)
	if err != nil {
		return err
	}
	synth, err := buildSynthesizer(genSynthesizer, genSynthModel, cfg)
	if err != nil {
		return err
	}

	outputDir := genOutputDir
	if outputDir == "" {
		outputDir = cfg.Output.Dir
	}
	if outputDir == "" {
		outputDir = "output"
	}
	writer, err := artifact.NewWriter(outputDir)
	if err != nil {
		return fmt.Errorf("failed to prepare output directory: %w", err)
	}

	iconSize := genIconSize
	if iconSize == 0 {
		iconSize = cfg.Output.IconSize
	}

	var db *store.Store
	var cache orchestrator.PromptCache
	if !genNoCache {
		if err := os.MkdirAll(filepath.Dir(genDBPath), 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
		db, err = store.New(genDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		cache = db.PromptMemory()
	}

	tracker := &usage.Tracker{}
	orch := orchestrator.New(ref, synth, orchestrator.Config{
		IconSize:  iconSize,
		SynthSize: genSynthSize,
		FailFast:  genFailFast,
		Writer:    writer,
		Cache:     cache,
		Usage:     tracker,
	})

	ctx := cmd.Context()
	job := internal.IconJob{
		ID:          uuid.New().String(),
		ArtStyle:    genStyle,
		Description: genDescription,
		Timestamp:   time.Now(),
	}
	if db != nil {
		if err := db.SaveJob(ctx, job); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record job: %v\n", err)
		}
	}

	fmt.Printf("Generating %d icon(s) in '%s' style...\n", genCount, genStyle)
	fmt.Printf("Description: %s\n", genDescription)
	fmt.Printf("Refiner: %s, Synthesizer: %s\n\n", genRefiner, genSynthesizer)

	batch := orch.ProduceBatch(ctx, orchestrator.IconRequest{
		ArtStyle:    genStyle,
		Description: genDescription,
		Count:       genCount,
	})

	for i, res := range batch.Results {
		cached := ""
		if res.FromCache {
			cached = " (cached prompt)"
		}
		fmt.Printf("[%d/%d] %s%s\n", i+1, genCount, res.ImageReference, cached)
		fmt.Printf("       prompt: %s\n", res.RefinedPrompt)
		if db != nil {
			err := db.SaveIconResult(ctx, job.ID, res.RefinerName, res.SynthesizerName,
				res.RefinedPrompt, res.ImageReference, int(res.Latency.Milliseconds()), "")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to record result: %v\n", err)
			}
		}
	}

	for _, batchErr := range batch.Errors {
		fmt.Fprintf(os.Stderr, "Error: %v\n", batchErr)
		if db != nil {
			refinedPrompt := ""
			var synthErr *orchestrator.SynthesisError
			if errors.As(batchErr, &synthErr) {
				refinedPrompt = synthErr.RefinedPrompt
			}
			saveErr := db.SaveIconResult(ctx, job.ID, genRefiner, genSynthesizer,
				refinedPrompt, "", 0, batchErr.Error())
			if saveErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to record failure: %v\n", saveErr)
			}
		}
	}

	fmt.Printf("\nDone: %d succeeded, %d failed\n", batch.Succeeded, batch.Failed)
	fmt.Printf("Usage: %d prompt tokens, %d completion tokens, %d image(s), %d request(s)\n",
		tracker.PromptTokens, tracker.CompletionTokens, tracker.Images, tracker.Requests)

	if batch.Succeeded == 0 {
		return fmt.Errorf("all %d icon(s) failed", batch.Failed)
	}
	return nil
}
