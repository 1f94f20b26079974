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
	"fmt"

	"github.com/iconforge/iconforge/internal/config"
	"github.com/iconforge/iconforge/internal/refiner"
	"github.com/iconforge/iconforge/internal/synthesizer"
)

// buildRefiner constructs the style-expert provider selected by name.
// modelOverride, when non-empty, wins over the configured model.
func buildRefiner(name, modelOverride string, cfg *config.Config) (refiner.Refiner, error) {
	switch name {
	case "openai":
		model := cfg.OpenAI.ChatModel
		if modelOverride != "" {
			model = modelOverride
		}
		return refiner.NewOpenAIRefiner(cfg.OpenAI.APIKey, model), nil
	case "gemini":
		model := cfg.Gemini.Model
		if modelOverride != "" {
			model = modelOverride
		}
		return refiner.NewGeminiRefiner(cfg.Gemini.APIKey, model), nil
	case "claude":
		model := cfg.Anthropic.Model
		if modelOverride != "" {
			model = modelOverride
		}
		return refiner.NewClaudeRefiner(cfg.Anthropic.APIKey, model), nil
	case "ollama":
		model := cfg.Ollama.Model
		if modelOverride != "" {
			model = modelOverride
		}
		if model == "" {
			model = "llama3.2"
		}
		return refiner.NewOllamaRefiner(model, cfg.Ollama.BaseURL), nil
	case "openrouter":
		models := cfg.OpenRouter.Models
		if modelOverride != "" {
			models = []string{modelOverride}
		}
		return refiner.NewOpenRouterRefiner(cfg.OpenRouter.APIKey, cfg.OpenRouter.BaseURL, models), nil
	default:
		return nil, fmt.Errorf("unknown refiner: %s", name)
	}
}

// buildSynthesizer constructs the image provider selected by name.
func buildSynthesizer(name, modelOverride string, cfg *config.Config) (synthesizer.ImageSynthesizer, error) {
	switch name {
	case "openai":
		model := cfg.OpenAI.ImageModel
		if modelOverride != "" {
			model = modelOverride
		}
		return synthesizer.NewOpenAISynthesizer(cfg.OpenAI.APIKey, model), nil
	case "stability":
		engine := cfg.Stability.Engine
		if modelOverride != "" {
			engine = modelOverride
		}
		return synthesizer.NewStabilitySynthesizer(cfg.Stability.APIKey, cfg.Stability.BaseURL, engine), nil
	default:
		return nil, fmt.Errorf("unknown synthesizer: %s", name)
	}
}
