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
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "iconforge",
	Short: "CLI AI icon generator",
	Long: `A CLI application that generates small square icons by delegating prompt
refinement to an LLM style expert and image synthesis to a hosted image model.

Supported refiners: OpenAI, Gemini, Claude, Ollama, OpenRouter
Supported synthesizers: OpenAI (DALL-E), Stability AI

Use "iconforge generate --help" for generation options.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
