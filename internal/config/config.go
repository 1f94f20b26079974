// Package config loads provider credentials and defaults from a config file
// and the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	Anthropic  AnthropicConfig
	OpenRouter OpenRouterConfig
	Stability  StabilityConfig
	Ollama     OllamaConfig
	Output     OutputConfig
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api_key"`
	ChatModel  string `mapstructure:"chat_model"`
	ImageModel string `mapstructure:"image_model"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenRouterConfig struct {
	APIKey  string   `mapstructure:"api_key"`
	BaseURL string   `mapstructure:"base_url"`
	Models  []string `mapstructure:"models"`
}

type StabilityConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Engine  string `mapstructure:"engine"`
}

type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type OutputConfig struct {
	Dir      string `mapstructure:"dir"`
	IconSize int    `mapstructure:"icon_size"`
}

// Load reads configName.yaml from the given search paths (current directory
// when none are given) and overlays environment variables. A missing config
// file is fine; credentials then come from the environment alone.
func Load(configName string, paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(configName)
	if len(paths) == 0 {
		paths = []string{".", "$HOME/.iconforge"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	v.BindEnv("stability.api_key", "STABILITY_API_KEY")
	v.BindEnv("ollama.base_url", "OLLAMA_HOST")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}
